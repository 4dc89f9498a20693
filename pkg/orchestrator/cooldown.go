package orchestrator

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cooldown guards each source with a Redis SET NX lock so overlapping runs
// (or multiple instances) cannot hammer the same source inside the cooldown
// window. Redis being down fails open: the sources table check still applies.
type Cooldown struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCooldown creates the lock around an existing Redis client. client may
// be nil to disable distributed locking.
func NewCooldown(client *redis.Client, ttl time.Duration, logger *zap.Logger) *Cooldown {
	return &Cooldown{client: client, ttl: ttl, logger: logger}
}

func cooldownKey(sourceID string) string {
	return "easyinterns:cooldown:" + sourceID
}

// Acquire takes the source lock for the cooldown window. False means
// another run holds it and the source should be skipped.
func (c *Cooldown) Acquire(ctx context.Context, sourceID string) bool {
	if c.client == nil {
		return true
	}
	ok, err := c.client.SetNX(ctx, cooldownKey(sourceID), time.Now().UTC().Format(time.RFC3339), c.ttl).Result()
	if err != nil {
		c.logger.Warn("cooldown lock unavailable, proceeding without it",
			zap.String("source", sourceID), zap.Error(err))
		return true
	}
	return ok
}

// Release drops the lock early, used when a source errors out so a retry
// run does not have to wait the full window.
func (c *Cooldown) Release(ctx context.Context, sourceID string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, cooldownKey(sourceID)).Err(); err != nil {
		c.logger.Warn("failed to release cooldown lock",
			zap.String("source", sourceID), zap.Error(err))
	}
}

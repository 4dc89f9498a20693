// Package source persists the operational state of scrape sources, chiefly
// last_scraped_at, which backs the cooldown check alongside the Redis lock.
package source

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/PNGURuckus/EasyInterns/pkg/database"
	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

// Repository handles source persistence.
type Repository struct {
	db     database.DB
	logger *zap.Logger
}

// New creates the repository.
func New(db database.DB, logger *zap.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

const syncQuery = `
INSERT INTO sources (id, name, enabled, feature_flag, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	enabled = EXCLUDED.enabled,
	feature_flag = EXCLUDED.feature_flag,
	updated_at = now()`

// Sync mirrors the registry into the sources table at startup so the table
// reflects current flags, keeping historical last_scraped_at.
func (r *Repository) Sync(ctx context.Context, sources []models.Source) error {
	for _, s := range sources {
		if _, err := r.db.ExecContext(ctx, syncQuery, s.ID, s.Name, s.Enabled, s.FeatureFlag); err != nil {
			r.logger.Error("failed to sync source", zap.String("source", s.ID), zap.Error(err))
			return errors.Wrap(err, "sync source")
		}
	}
	return nil
}

// List returns all known sources.
func (r *Repository) List(ctx context.Context) ([]models.Source, error) {
	sb := database.NewSelectBuilder()
	sb.Select("id", "name", "enabled", "feature_flag", "last_scraped_at", "created_at", "updated_at")
	sb.From("sources")
	sb.OrderBy("id ASC")

	query, args := sb.Build()
	sources := []models.Source{}
	if err := r.db.SelectContext(ctx, &sources, query, args...); err != nil {
		r.logger.Error("failed to list sources", zap.Error(err))
		return nil, errors.Wrap(err, "list sources")
	}
	return sources, nil
}

// LastScrapedAt returns when the source last finished a scrape, nil when it
// never has.
func (r *Repository) LastScrapedAt(ctx context.Context, id string) (*time.Time, error) {
	sb := database.NewSelectBuilder()
	sb.Select("last_scraped_at")
	sb.From("sources")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var last *time.Time
	if err := r.db.GetContext(ctx, &last, query, args...); err != nil {
		return nil, errors.Wrap(err, "get source last_scraped_at")
	}
	return last, nil
}

// MarkScraped stamps last_scraped_at after a successful source scrape.
func (r *Repository) MarkScraped(ctx context.Context, id string, at time.Time) error {
	ub := database.NewUpdateBuilder()
	ub.Update("sources")
	ub.Set(ub.Assign("last_scraped_at", at), "updated_at = now()")
	ub.Where(ub.Equal("id", id))

	query, args := ub.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("failed to mark source scraped", zap.String("source", id), zap.Error(err))
		return errors.Wrap(err, "mark source scraped")
	}
	return nil
}

package emails

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

func TestCachedResolver_HasMX(t *testing.T) {
	calls := 0
	r := NewCachedResolver(time.Second)
	r.lookup = func(_ context.Context, domain string) ([]*net.MX, error) {
		calls++
		return []*net.MX{{Host: "mx1." + domain}}, nil
	}

	has, err := r.HasMX(context.Background(), "acme.com")
	require.NoError(t, err)
	assert.True(t, has)

	// Second lookup is served from the cache.
	has, err = r.HasMX(context.Background(), "ACME.com")
	require.NoError(t, err)
	assert.True(t, has)
	assert.Equal(t, 1, calls)
}

func TestCachedResolver_EmptyDomain(t *testing.T) {
	r := NewCachedResolver(time.Second)
	has, err := r.HasMX(context.Background(), "  ")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCachedResolver_Timeout(t *testing.T) {
	r := NewCachedResolver(10 * time.Millisecond)
	r.lookup = func(ctx context.Context, _ string) ([]*net.MX, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	_, err := r.HasMX(context.Background(), "slow.example")
	require.Error(t, err)

	var timeoutErr *models.DnsLookupTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "slow.example", timeoutErr.Domain)

	// Timeouts are not cached; the next call retries the lookup.
	calls := 0
	r.lookup = func(_ context.Context, _ string) ([]*net.MX, error) {
		calls++
		return nil, nil
	}
	_, err = r.HasMX(context.Background(), "slow.example")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestCachedResolver_NotFoundIsAuthoritative(t *testing.T) {
	calls := 0
	r := NewCachedResolver(time.Second)
	r.lookup = func(_ context.Context, domain string) ([]*net.MX, error) {
		calls++
		return nil, &net.DNSError{Err: "no such host", Name: domain, IsNotFound: true}
	}

	has, err := r.HasMX(context.Background(), "nomail.example")
	require.NoError(t, err)
	assert.False(t, has)

	// The negative answer is cached.
	has, err = r.HasMX(context.Background(), "nomail.example")
	require.NoError(t, err)
	assert.False(t, has)
	assert.Equal(t, 1, calls)
}

func TestCachedResolver_TransientErrorNotCached(t *testing.T) {
	calls := 0
	r := NewCachedResolver(time.Second)
	r.lookup = func(_ context.Context, domain string) ([]*net.MX, error) {
		calls++
		return nil, &net.DNSError{Err: "server misbehaving", Name: domain, IsTemporary: true}
	}

	_, err := r.HasMX(context.Background(), "flaky.example")
	require.Error(t, err)

	_, err = r.HasMX(context.Background(), "flaky.example")
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

package emails

import (
	"context"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

// MXResolver answers whether a domain can receive mail. A returned error
// means "unknown", never "no".
type MXResolver interface {
	HasMX(ctx context.Context, domain string) (bool, error)
}

// CachedResolver wraps net.Resolver with a per-domain cache and a hard
// timeout. Lookups that time out return DnsLookupTimeoutError and are not
// cached, so a transient DNS outage does not poison the cache.
type CachedResolver struct {
	timeout time.Duration
	lookup  func(ctx context.Context, domain string) ([]*net.MX, error)

	mu    sync.Mutex
	cache map[string]bool
}

// NewCachedResolver creates a resolver with the given lookup timeout.
func NewCachedResolver(timeout time.Duration) *CachedResolver {
	var r net.Resolver
	return &CachedResolver{
		timeout: timeout,
		lookup:  r.LookupMX,
		cache:   make(map[string]bool),
	}
}

// HasMX reports whether the domain publishes MX records.
func (r *CachedResolver) HasMX(ctx context.Context, domain string) (bool, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return false, nil
	}

	r.mu.Lock()
	if has, ok := r.cache[domain]; ok {
		r.mu.Unlock()
		return has, nil
	}
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	records, err := r.lookup(ctx, domain)
	if err != nil {
		if ctx.Err() != nil {
			return false, &models.DnsLookupTimeoutError{Domain: domain}
		}
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			// Authoritative "no such records" is cacheable.
			r.store(domain, false)
			return false, nil
		}
		return false, err
	}

	has := len(records) > 0
	r.store(domain, has)
	return has, nil
}

func (r *CachedResolver) store(domain string, has bool) {
	r.mu.Lock()
	r.cache[domain] = has
	r.mu.Unlock()
}

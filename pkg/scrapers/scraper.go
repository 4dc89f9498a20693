// Package scrapers holds the source adapters and the registry that exposes
// them to the orchestrator. Every adapter speaks the same interface and
// reports failures as typed errors so the run can tell "site down" from
// "site changed".
package scrapers

import (
	"context"

	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

// Query narrows what an adapter fetches. Zero values mean the source default
// (internship listings, no location filter).
type Query struct {
	Keywords string
	Location string
}

// Scraper is one posting source. Scrape returns every posting it could get
// within its request budget; a truncated result is success, not an error.
type Scraper interface {
	Name() string
	Scrape(ctx context.Context, query Query) ([]models.RawPosting, error)
}

package scrapers

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/PNGURuckus/EasyInterns/config"
	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

// Entry is one registered scraper plus its enablement state. Disabled
// entries stay listed so operators can see what exists and why it is off.
type Entry struct {
	Scraper     Scraper
	Enabled     bool
	FeatureFlag string // env var gating this source, empty when always-on
}

// Registry is the static set of known sources, fixed at startup.
type Registry struct {
	entries map[string]Entry
}

// NewRegistry wires every adapter from config. Each source gets its own
// client so request budgets and rate limits never bleed across sources.
func NewRegistry(cfg *config.Config) *Registry {
	client := func(sourceID string) *Client {
		return NewClient(sourceID, cfg.SourceTimeout, cfg.SourceRequestDelay, cfg.SourceRequestBudget)
	}

	r := &Registry{entries: make(map[string]Entry)}
	r.add(NewGreenhouse(client("greenhouse"), cfg.GreenhouseCompanies), len(cfg.GreenhouseCompanies) > 0, "")
	r.add(NewLever(client("lever"), cfg.LeverCompanies), len(cfg.LeverCompanies) > 0, "")
	r.add(NewJobBank(client("jobbank")), true, "")
	r.add(NewTalent(client("talent")), true, "")
	r.add(NewRSS(client("rss"), cfg.RSSFeeds), len(cfg.RSSFeeds) > 0, "")
	r.add(NewLinkedIn(client("linkedin")), cfg.EnableLinkedIn, "ENABLE_LINKEDIN_SCRAPER")
	r.add(NewGlassdoor(client("glassdoor")), cfg.EnableGlassdoor, "ENABLE_GLASSDOOR_SCRAPER")
	return r
}

func (r *Registry) add(s Scraper, enabled bool, flag string) {
	r.entries[s.Name()] = Entry{Scraper: s, Enabled: enabled, FeatureFlag: flag}
}

// Get returns an enabled scraper by id. Disabled and unknown sources are
// both errors so a run request cannot sneak past a feature flag.
func (r *Registry) Get(id string) (Scraper, error) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, errors.Errorf("unknown source %q", id)
	}
	if !entry.Enabled {
		return nil, errors.Errorf("source %q is disabled", id)
	}
	return entry.Scraper, nil
}

// EnabledIDs returns the ids of every enabled source, sorted.
func (r *Registry) EnabledIDs() []string {
	var ids []string
	for id, entry := range r.entries {
		if entry.Enabled {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// List describes every registered source for the sources API.
func (r *Registry) List() []models.Source {
	out := make([]models.Source, 0, len(r.entries))
	for id, entry := range r.entries {
		out = append(out, models.Source{
			ID:          id,
			Name:        id,
			Enabled:     entry.Enabled,
			FeatureFlag: entry.FeatureFlag,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

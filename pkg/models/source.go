package models

import "time"

// Source is a registered scrape source and its operational state.
// Enabled reflects the feature-flag evaluation at registry build time.
type Source struct {
	ID            string     `json:"id" db:"id"` // registry slug, e.g. "jobbank"
	Name          string     `json:"name" db:"name"`
	Enabled       bool       `json:"enabled" db:"enabled"`
	FeatureFlag   string     `json:"feature_flag,omitempty" db:"feature_flag"`
	LastScrapedAt *time.Time `json:"last_scraped_at,omitempty" db:"last_scraped_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// SourceListResponse is the API response for listing sources.
type SourceListResponse struct {
	Items []Source `json:"items"`
}

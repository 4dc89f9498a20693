package models

import (
	"time"

	"github.com/lib/pq"
)

// Modality is where the work happens.
type Modality string

const (
	ModalityOnsite Modality = "onsite"
	ModalityRemote Modality = "remote"
	ModalityHybrid Modality = "hybrid"
)

// ParseModality maps a raw modality string onto a known Modality.
// Unknown values return false; callers decide the fallback.
func ParseModality(s string) (Modality, bool) {
	switch Modality(s) {
	case ModalityOnsite, ModalityRemote, ModalityHybrid:
		return Modality(s), true
	}
	return "", false
}

// FieldTag is a coarse discipline label used for search facets and ranking.
type FieldTag string

const (
	FieldSoftware   FieldTag = "software_engineering"
	FieldData       FieldTag = "data_science"
	FieldDesign     FieldTag = "design"
	FieldMarketing  FieldTag = "marketing"
	FieldFinance    FieldTag = "finance"
	FieldProduct    FieldTag = "product"
	FieldOperations FieldTag = "operations"
	FieldResearch   FieldTag = "research"
	FieldOther      FieldTag = "other"
)

// RawPosting is what a source adapter emits: one posting exactly as the
// source presented it, before any normalization.
type RawPosting struct {
	SourceID        string     `json:"source_id"`
	SourceKey       string     `json:"source_key"` // source-local identifier, used only for debugging
	Title           string     `json:"title"`
	CompanyName     string     `json:"company_name"`
	Location        string     `json:"location"`
	Description     string     `json:"description"`
	DescriptionHTML string     `json:"description_html,omitempty"`
	ApplyURL        string     `json:"apply_url"`
	ModalityHint    string     `json:"modality_hint,omitempty"`
	SalaryMin       *int       `json:"salary_min,omitempty"`
	SalaryMax       *int       `json:"salary_max,omitempty"`
	PostedAt        *time.Time `json:"posted_at,omitempty"`
}

// CanonicalPosting is the deduplicated posting record.
// Field order matches schema: id, fingerprint, company_id, ...
type CanonicalPosting struct {
	ID          string         `json:"id" db:"id"`
	Fingerprint string         `json:"fingerprint" db:"fingerprint"`
	CompanyID   *string        `json:"company_id,omitempty" db:"company_id"`
	CompanyName string         `json:"company_name" db:"company_name"`
	Title       string         `json:"title" db:"title"`
	Location    string         `json:"location" db:"location"`
	Description string         `json:"description" db:"description"`
	ApplyURL    string         `json:"apply_url" db:"apply_url"`
	Modality    Modality       `json:"modality" db:"modality"`
	FieldTags   pq.StringArray `json:"field_tags" db:"field_tags"`
	SalaryMin   *int           `json:"salary_min,omitempty" db:"salary_min"`
	SalaryMax   *int           `json:"salary_max,omitempty" db:"salary_max"`
	PostedAt    *time.Time     `json:"posted_at,omitempty" db:"posted_at"`
	SourceIDs   pq.StringArray `json:"source_ids" db:"source_ids"`
	FirstSeenAt time.Time      `json:"first_seen_at" db:"first_seen_at"`
	LastSeenAt  time.Time      `json:"last_seen_at" db:"last_seen_at"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// HasSource reports whether the posting was already observed from sourceID.
func (p *CanonicalPosting) HasSource(sourceID string) bool {
	for _, id := range p.SourceIDs {
		if id == sourceID {
			return true
		}
	}
	return false
}

// PostingListResponse is the API response for posting search.
type PostingListResponse struct {
	Items      []CanonicalPosting `json:"items"`
	TotalCount int                `json:"total_count"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	Facets     FacetCounts        `json:"facets"`
}

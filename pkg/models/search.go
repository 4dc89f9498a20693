package models

// SearchQuery filters the posting index. Zero values mean "no filter".
type SearchQuery struct {
	QueryText    string     `json:"query_text" query:"q"`
	FieldTags    []FieldTag `json:"field_tags" query:"field_tag"`
	Modality     *Modality  `json:"modality,omitempty" query:"modality"`
	Locations    []string   `json:"locations" query:"location"`
	SalaryMin    *int       `json:"salary_min,omitempty" query:"salary_min"`
	SalaryMax    *int       `json:"salary_max,omitempty" query:"salary_max"`
	IncludeStale bool       `json:"include_stale" query:"include_stale"`
	Page         int        `json:"page" query:"page"`
	PageSize     int        `json:"page_size" query:"page_size" validate:"omitempty,lte=100"`
}

// FacetCounts are computed over the full filtered set, not just the page.
type FacetCounts struct {
	FieldTags  map[string]int `json:"field_tags"`
	Modalities map[string]int `json:"modalities"`
	Locations  map[string]int `json:"locations"`
}

// ScoreBreakdown exposes the ranking sub-scores for explainability.
type ScoreBreakdown struct {
	Skills   float64 `json:"skills"`
	Field    float64 `json:"field"`
	Location float64 `json:"location"`
	Recency  float64 `json:"recency"`
	Modality float64 `json:"modality_factor"`
}

// RankedPosting pairs a posting with its profile-relative score.
type RankedPosting struct {
	Posting   CanonicalPosting `json:"posting"`
	Score     float64          `json:"score"`
	Breakdown ScoreBreakdown   `json:"breakdown"`
}

// RankedListResponse is the API response for ranked search.
type RankedListResponse struct {
	Items      []RankedPosting `json:"items"`
	TotalCount int             `json:"total_count"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
}

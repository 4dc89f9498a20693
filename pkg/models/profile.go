package models

// CandidateProfile is the ranking input. Skills are matched against posting
// text; at least one skill or field tag is required for a meaningful score,
// which validation enforces via required_without.
type CandidateProfile struct {
	Skills           []string   `json:"skills" validate:"required_without=FieldTags,omitempty,dive,min=1"`
	FieldTags        []FieldTag `json:"field_tags" validate:"required_without=Skills,omitempty,dive,min=1"`
	Locations        []string   `json:"locations" validate:"omitempty,dive,min=1"`
	DesiredModality  *Modality  `json:"desired_modality,omitempty" validate:"omitempty,oneof=onsite remote hybrid"`
	GraduationYear   int        `json:"graduation_year,omitempty" validate:"omitempty,gte=2000,lte=2100"`
	PreferredCompany string     `json:"preferred_company,omitempty"`
}

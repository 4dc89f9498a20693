package normalize

import (
	"strings"
	"time"

	"github.com/PNGURuckus/EasyInterns/pkg/fingerprint"
	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

// Canonicalize converts a raw posting into a canonical draft: identity fields
// normalized, fingerprint computed, modality and field tags classified.
// A missing title or apply URL is a NormalizationError; everything else
// degrades gracefully.
func Canonicalize(raw models.RawPosting, now time.Time) (*models.CanonicalPosting, error) {
	title := strings.TrimSpace(raw.Title)
	if title == "" {
		return nil, &models.NormalizationError{SourceID: raw.SourceID, Reason: "missing title"}
	}
	applyURL := strings.TrimSpace(raw.ApplyURL)
	if applyURL == "" {
		return nil, &models.NormalizationError{SourceID: raw.SourceID, Reason: "missing apply_url"}
	}

	fp := fingerprint.Generate(fingerprint.Key{
		Company:  Company(raw.CompanyName),
		Title:    Title(title),
		Location: Location(raw.Location),
		PostedAt: raw.PostedAt,
	})

	description := strings.TrimSpace(raw.Description)

	posting := &models.CanonicalPosting{
		Fingerprint: fp,
		CompanyName: CollapseWhitespace(raw.CompanyName),
		Title:       CollapseWhitespace(title),
		Location:    CollapseWhitespace(raw.Location),
		Description: description,
		ApplyURL:    applyURL,
		Modality:    ClassifyModality(raw.ModalityHint, raw.Location, description),
		SalaryMin:   raw.SalaryMin,
		SalaryMax:   raw.SalaryMax,
		PostedAt:    raw.PostedAt,
		SourceIDs:   []string{raw.SourceID},
		FirstSeenAt: now,
		LastSeenAt:  now,
	}

	for _, tag := range ClassifyFields(title, description) {
		posting.FieldTags = append(posting.FieldTags, string(tag))
	}
	return posting, nil
}

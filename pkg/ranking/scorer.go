// Package ranking scores postings against a candidate profile with a
// weighted linear model over skills, field, location and recency, scaled by
// a modality factor. Scoring is deterministic: same posting, same profile,
// same reference time, same score.
package ranking

import (
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/PNGURuckus/EasyInterns/config"
	"github.com/PNGURuckus/EasyInterns/pkg/models"
	"github.com/PNGURuckus/EasyInterns/pkg/normalize"
)

// Weights configures the linear model. They are normalized at scoring time,
// so they only need to be non-negative and not all zero.
type Weights struct {
	Skills           float64
	Field            float64
	Location         float64
	Recency          float64
	FieldPartial     float64 // credit for an adjacent field match
	ModalityMismatch float64 // multiplier when desired modality differs
	RecencyCutoff    time.Duration
}

// WeightsFromConfig reads the tunable weights out of service config.
func WeightsFromConfig(cfg *config.Config) Weights {
	return Weights{
		Skills:           cfg.RankWeightSkills,
		Field:            cfg.RankWeightField,
		Location:         cfg.RankWeightLocation,
		Recency:          cfg.RankWeightRecency,
		FieldPartial:     cfg.RankFieldPartial,
		ModalityMismatch: cfg.RankModalityMismatch,
		RecencyCutoff:    time.Duration(cfg.RankRecencyCutoff) * 24 * time.Hour,
	}
}

// Scorer ranks postings for a profile.
type Scorer struct {
	weights  Weights
	validate *validator.Validate
}

// NewScorer creates a Scorer with the given weights.
func NewScorer(weights Weights) *Scorer {
	return &Scorer{
		weights:  weights,
		validate: validator.New(),
	}
}

// Rank validates the profile, scores every posting and returns them ordered
// by score descending, ties broken by last_seen_at descending then id so the
// order is stable.
func (s *Scorer) Rank(profile models.CandidateProfile, postings []models.CanonicalPosting, now time.Time) ([]models.RankedPosting, error) {
	if err := s.validate.Struct(profile); err != nil {
		return nil, &models.InvalidProfileError{Err: err}
	}

	ranked := make([]models.RankedPosting, 0, len(postings))
	for _, p := range postings {
		score, breakdown := s.score(profile, p, now)
		ranked = append(ranked, models.RankedPosting{Posting: p, Score: score, Breakdown: breakdown})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if !ranked[i].Posting.LastSeenAt.Equal(ranked[j].Posting.LastSeenAt) {
			return ranked[i].Posting.LastSeenAt.After(ranked[j].Posting.LastSeenAt)
		}
		return ranked[i].Posting.ID < ranked[j].Posting.ID
	})
	return ranked, nil
}

// score computes the weighted sum of sub-scores times the modality factor.
func (s *Scorer) score(profile models.CandidateProfile, posting models.CanonicalPosting, now time.Time) (float64, models.ScoreBreakdown) {
	breakdown := models.ScoreBreakdown{
		Skills:   s.SkillsScore(profile.Skills, posting),
		Field:    s.FieldScore(profile.FieldTags, posting),
		Location: s.LocationScore(profile.Locations, posting),
		Recency:  s.RecencyScore(recencyAnchor(posting), now),
		Modality: s.ModalityFactor(profile.DesiredModality, posting.Modality),
	}

	totalWeight := s.weights.Skills + s.weights.Field + s.weights.Location + s.weights.Recency
	if totalWeight == 0 {
		return 0, breakdown
	}

	weighted := (breakdown.Skills*s.weights.Skills +
		breakdown.Field*s.weights.Field +
		breakdown.Location*s.weights.Location +
		breakdown.Recency*s.weights.Recency) / totalWeight

	return weighted * breakdown.Modality, breakdown
}

// SkillsScore is the fraction of profile skills found in the posting title or
// description. A profile without skills scores a neutral 0.5 so the other
// sub-scores still differentiate.
func (s *Scorer) SkillsScore(skills []string, posting models.CanonicalPosting) float64 {
	if len(skills) == 0 {
		return 0.5
	}
	text := strings.ToLower(posting.Title + " " + posting.Description)
	hits := 0
	for _, skill := range skills {
		if strings.Contains(text, strings.ToLower(strings.TrimSpace(skill))) {
			hits++
		}
	}
	return float64(hits) / float64(len(skills))
}

// FieldScore is 1.0 when a desired tag matches a posting tag, the partial
// credit when only adjacent fields match, 0 otherwise. No desired tags is a
// neutral 0.5.
func (s *Scorer) FieldScore(desired []models.FieldTag, posting models.CanonicalPosting) float64 {
	if len(desired) == 0 {
		return 0.5
	}
	postingTags := make(map[models.FieldTag]bool, len(posting.FieldTags))
	for _, t := range posting.FieldTags {
		postingTags[models.FieldTag(t)] = true
	}
	partial := false
	for _, want := range desired {
		if postingTags[want] {
			return 1.0
		}
		for _, adj := range adjacentFields[want] {
			if postingTags[adj] {
				partial = true
			}
		}
	}
	if partial {
		return s.weights.FieldPartial
	}
	return 0
}

// adjacentFields grants partial credit across related disciplines.
var adjacentFields = map[models.FieldTag][]models.FieldTag{
	models.FieldSoftware: {models.FieldData},
	models.FieldData:     {models.FieldSoftware, models.FieldResearch},
	models.FieldDesign:   {models.FieldProduct},
	models.FieldProduct:  {models.FieldDesign, models.FieldSoftware},
	models.FieldResearch: {models.FieldData},
	models.FieldFinance:  {models.FieldOperations},
}

// LocationScore is 1.0 for a preferred location (or a remote posting, which
// suits anyone), 0.6 for a same-region prefix match, 0 otherwise. No
// preferences is a neutral 0.5.
func (s *Scorer) LocationScore(preferred []string, posting models.CanonicalPosting) float64 {
	if len(preferred) == 0 {
		return 0.5
	}
	if posting.Modality == models.ModalityRemote {
		return 1.0
	}
	postingLoc := normalize.Location(posting.Location)
	best := 0.0
	for _, want := range preferred {
		wantLoc := normalize.Location(want)
		switch {
		case wantLoc == postingLoc:
			return 1.0
		case sameRegion(wantLoc, postingLoc):
			best = 0.6
		}
	}
	return best
}

// sameRegion matches on the leading city/region token, so "toronto" prefers
// "toronto on" without demanding exact equality.
func sameRegion(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.HasPrefix(b, firstToken(a)) || strings.HasPrefix(a, firstToken(b))
}

func firstToken(s string) string {
	if i := strings.IndexByte(s, ' '); i > 0 {
		return s[:i]
	}
	return s
}

// recencyAnchor prefers the published date; sources that never carry one
// fall back to when the posting was last seen.
func recencyAnchor(p models.CanonicalPosting) time.Time {
	if p.PostedAt != nil {
		return *p.PostedAt
	}
	return p.LastSeenAt
}

// RecencyScore decays linearly from 1.0 (posted now) to 0 at the cutoff.
func (s *Scorer) RecencyScore(postedAt, now time.Time) float64 {
	cutoff := s.weights.RecencyCutoff
	if cutoff <= 0 {
		return 1.0
	}
	age := now.Sub(postedAt)
	if age <= 0 {
		return 1.0
	}
	if age >= cutoff {
		return 0
	}
	return 1.0 - float64(age)/float64(cutoff)
}

// ModalityFactor scales the whole score down when the posting's modality is
// not the desired one. No preference means no scaling.
func (s *Scorer) ModalityFactor(desired *models.Modality, actual models.Modality) float64 {
	if desired == nil || *desired == actual {
		return 1.0
	}
	return s.weights.ModalityMismatch
}

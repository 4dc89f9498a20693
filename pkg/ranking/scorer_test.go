package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

var rankNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func testWeights() Weights {
	return Weights{
		Skills:           0.35,
		Field:            0.25,
		Location:         0.20,
		Recency:          0.20,
		FieldPartial:     0.2,
		ModalityMismatch: 0.7,
		RecencyCutoff:    45 * 24 * time.Hour,
	}
}

func softwarePosting(id string) models.CanonicalPosting {
	return models.CanonicalPosting{
		ID:          id,
		Title:       "Software Engineering Intern",
		CompanyName: "Acme",
		Location:    "Toronto, ON",
		Description: "Work with Go and Postgres on backend services.",
		Modality:    models.ModalityOnsite,
		FieldTags:   []string{"software_engineering"},
		LastSeenAt:  rankNow.Add(-24 * time.Hour),
	}
}

func TestScorer_Rank(t *testing.T) {
	scorer := NewScorer(testWeights())
	profile := models.CandidateProfile{
		Skills:    []string{"go", "postgres"},
		FieldTags: []models.FieldTag{models.FieldSoftware},
		Locations: []string{"Toronto"},
	}

	match := softwarePosting("a")
	mismatch := models.CanonicalPosting{
		ID:          "b",
		Title:       "Marketing Intern",
		CompanyName: "Globex",
		Location:    "Calgary, AB",
		Description: "Run social campaigns.",
		Modality:    models.ModalityOnsite,
		FieldTags:   []string{"marketing"},
		LastSeenAt:  rankNow.Add(-24 * time.Hour),
	}

	ranked, err := scorer.Rank(profile, []models.CanonicalPosting{mismatch, match}, rankNow)
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	assert.Equal(t, "a", ranked[0].Posting.ID)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)
	assert.Equal(t, 1.0, ranked[0].Breakdown.Skills)
	assert.Equal(t, 1.0, ranked[0].Breakdown.Field)
}

func TestScorer_RankDeterministic(t *testing.T) {
	scorer := NewScorer(testWeights())
	profile := models.CandidateProfile{Skills: []string{"go"}}

	postings := []models.CanonicalPosting{
		softwarePosting("c"), softwarePosting("a"), softwarePosting("b"),
	}

	first, err := scorer.Rank(profile, postings, rankNow)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := scorer.Rank(profile, postings, rankNow)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestScorer_TieBreak(t *testing.T) {
	scorer := NewScorer(testWeights())
	profile := models.CandidateProfile{Skills: []string{"go"}}

	older := softwarePosting("z")
	older.LastSeenAt = rankNow.Add(-48 * time.Hour)
	newer := softwarePosting("a")
	newer.LastSeenAt = rankNow.Add(-24 * time.Hour)

	ranked, err := scorer.Rank(profile, []models.CanonicalPosting{older, newer}, rankNow)
	require.NoError(t, err)
	assert.Equal(t, "a", ranked[0].Posting.ID)

	t.Run("equal last_seen falls back to id", func(t *testing.T) {
		b := softwarePosting("b")
		a := softwarePosting("a")
		ranked, err := scorer.Rank(profile, []models.CanonicalPosting{b, a}, rankNow)
		require.NoError(t, err)
		assert.Equal(t, "a", ranked[0].Posting.ID)
		assert.Equal(t, "b", ranked[1].Posting.ID)
	})
}

func TestScorer_InvalidProfile(t *testing.T) {
	scorer := NewScorer(testWeights())

	_, err := scorer.Rank(models.CandidateProfile{}, nil, rankNow)
	require.Error(t, err)

	var profileErr *models.InvalidProfileError
	assert.ErrorAs(t, err, &profileErr)
}

func TestSkillsScore(t *testing.T) {
	scorer := NewScorer(testWeights())
	posting := softwarePosting("a")

	tests := []struct {
		name     string
		skills   []string
		expected float64
	}{
		{"no skills is neutral", nil, 0.5},
		{"all matched", []string{"go", "postgres"}, 1.0},
		{"half matched", []string{"go", "kubernetes"}, 0.5},
		{"none matched", []string{"rust", "kafka"}, 0},
		{"case insensitive", []string{"GO", "Postgres"}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, scorer.SkillsScore(tt.skills, posting), 1e-9)
		})
	}
}

func TestFieldScore(t *testing.T) {
	scorer := NewScorer(testWeights())

	dataPosting := softwarePosting("a")
	dataPosting.FieldTags = []string{"data_science"}

	tests := []struct {
		name     string
		desired  []models.FieldTag
		posting  models.CanonicalPosting
		expected float64
	}{
		{"no preference is neutral", nil, softwarePosting("a"), 0.5},
		{"exact match", []models.FieldTag{models.FieldSoftware}, softwarePosting("a"), 1.0},
		{"adjacent field partial credit", []models.FieldTag{models.FieldSoftware}, dataPosting, 0.2},
		{"unrelated field", []models.FieldTag{models.FieldFinance}, softwarePosting("a"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, scorer.FieldScore(tt.desired, tt.posting), 1e-9)
		})
	}
}

func TestLocationScore(t *testing.T) {
	scorer := NewScorer(testWeights())

	remote := softwarePosting("a")
	remote.Modality = models.ModalityRemote
	remote.Location = "Remote"

	tests := []struct {
		name      string
		preferred []string
		posting   models.CanonicalPosting
		expected  float64
	}{
		{"no preference is neutral", nil, softwarePosting("a"), 0.5},
		{"exact normalized match", []string{"toronto, on"}, softwarePosting("a"), 1.0},
		{"remote suits anyone", []string{"Vancouver"}, remote, 1.0},
		{"same region prefix", []string{"Toronto"}, softwarePosting("a"), 0.6},
		{"different city", []string{"Vancouver, BC"}, softwarePosting("a"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, scorer.LocationScore(tt.preferred, tt.posting), 1e-9)
		})
	}
}

func TestRecencyScore(t *testing.T) {
	scorer := NewScorer(testWeights())

	t.Run("posted now scores full", func(t *testing.T) {
		assert.Equal(t, 1.0, scorer.RecencyScore(rankNow, rankNow))
	})

	t.Run("past cutoff scores zero", func(t *testing.T) {
		old := rankNow.Add(-46 * 24 * time.Hour)
		assert.Equal(t, 0.0, scorer.RecencyScore(old, rankNow))
	})

	t.Run("monotonically decreasing", func(t *testing.T) {
		prev := scorer.RecencyScore(rankNow, rankNow)
		for days := 1; days <= 45; days++ {
			score := scorer.RecencyScore(rankNow.Add(-time.Duration(days)*24*time.Hour), rankNow)
			assert.LessOrEqual(t, score, prev, "day %d", days)
			prev = score
		}
	})
}

func TestScorer_RecencyFromPostedAt(t *testing.T) {
	scorer := NewScorer(testWeights())
	profile := models.CandidateProfile{Skills: []string{"go"}}

	// Both re-seen by today's scrape; only the publish date differs.
	freshDate := rankNow.Add(-24 * time.Hour)
	staleDate := rankNow.Add(-40 * 24 * time.Hour)
	fresh := softwarePosting("fresh")
	fresh.PostedAt = &freshDate
	fresh.LastSeenAt = rankNow
	stale := softwarePosting("stale")
	stale.PostedAt = &staleDate
	stale.LastSeenAt = rankNow

	ranked, err := scorer.Rank(profile, []models.CanonicalPosting{stale, fresh}, rankNow)
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	assert.Equal(t, "fresh", ranked[0].Posting.ID)
	assert.InDelta(t, 1.0-1.0/45.0, ranked[0].Breakdown.Recency, 1e-9)
	assert.InDelta(t, 1.0-40.0/45.0, ranked[1].Breakdown.Recency, 1e-9)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)

	t.Run("no publish date falls back to last seen", func(t *testing.T) {
		undated := softwarePosting("undated") // last seen 24h ago, no posted_at
		ranked, err := scorer.Rank(profile, []models.CanonicalPosting{undated}, rankNow)
		require.NoError(t, err)
		assert.InDelta(t, 1.0-1.0/45.0, ranked[0].Breakdown.Recency, 1e-9)
	})
}

func TestModalityFactor(t *testing.T) {
	scorer := NewScorer(testWeights())
	remote := models.ModalityRemote

	assert.Equal(t, 1.0, scorer.ModalityFactor(nil, models.ModalityOnsite))
	assert.Equal(t, 1.0, scorer.ModalityFactor(&remote, models.ModalityRemote))
	assert.Equal(t, 0.7, scorer.ModalityFactor(&remote, models.ModalityOnsite))
}

func TestScorer_ModalityMismatchScalesWholeScore(t *testing.T) {
	scorer := NewScorer(testWeights())
	remote := models.ModalityRemote
	profile := models.CandidateProfile{
		Skills:          []string{"go"},
		DesiredModality: &remote,
	}

	onsite := softwarePosting("a")
	ranked, err := scorer.Rank(profile, []models.CanonicalPosting{onsite}, rankNow)
	require.NoError(t, err)

	noPreference := models.CandidateProfile{Skills: []string{"go"}}
	baseline, err := scorer.Rank(noPreference, []models.CanonicalPosting{onsite}, rankNow)
	require.NoError(t, err)

	assert.InDelta(t, baseline[0].Score*0.7, ranked[0].Score, 1e-9)
}

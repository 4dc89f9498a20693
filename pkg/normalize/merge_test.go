package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func basePosting() models.CanonicalPosting {
	return models.CanonicalPosting{
		Fingerprint: "fp-1",
		CompanyName: "Acme",
		Title:       "Software Intern",
		Location:    "Toronto, ON",
		Description: "Short description.",
		ApplyURL:    "https://acme.example/jobs/1",
		Modality:    models.ModalityOnsite,
		FieldTags:   []string{"software_engineering"},
		SourceIDs:   []string{"jobbank"},
		FirstSeenAt: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		LastSeenAt:  time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
	}
}

func TestMerge_Commutative(t *testing.T) {
	a := basePosting()
	b := basePosting()
	b.Description = "A much longer description with far more detail about the role."
	b.SourceIDs = []string{"talent"}
	b.FieldTags = []string{"software_engineering", "data_science"}
	b.SalaryMin = intPtr(40000)
	b.SalaryMax = intPtr(55000)
	b.FirstSeenAt = time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	b.LastSeenAt = time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)

	ab := Merge(a, b)
	ba := Merge(b, a)
	assert.Equal(t, ab, ba)
}

func TestMerge_Idempotent(t *testing.T) {
	a := basePosting()
	a.SalaryMin = intPtr(40000)
	a.SalaryMax = intPtr(55000)

	merged := Merge(a, a)
	assert.Equal(t, a, merged)
}

func TestMerge_LongerDescriptionSuppliesDisplayFields(t *testing.T) {
	a := basePosting()
	a.Title = "SW Intern"
	a.Description = "Short."

	b := basePosting()
	b.Title = "Software Engineering Intern"
	b.ApplyURL = "https://acme.example/jobs/1?ref=board"
	b.Description = "A detailed description covering responsibilities and stack."
	b.SourceIDs = []string{"talent"}

	merged := Merge(a, b)
	assert.Equal(t, b.Title, merged.Title)
	assert.Equal(t, b.ApplyURL, merged.ApplyURL)
	assert.Equal(t, b.Description, merged.Description)
	assert.Equal(t, []string{"jobbank", "talent"}, []string(merged.SourceIDs))
}

func TestMerge_EqualLengthDescriptionTieBreak(t *testing.T) {
	a := basePosting()
	a.Description = "bbbb"
	b := basePosting()
	b.Description = "aaaa"

	// Lexically smaller wins the tie, so order cannot matter.
	assert.Equal(t, "aaaa", Merge(a, b).Description)
	assert.Equal(t, "aaaa", Merge(b, a).Description)
}

func TestMerge_SalaryRangeWidens(t *testing.T) {
	t.Run("both present", func(t *testing.T) {
		a := basePosting()
		a.SalaryMin = intPtr(45000)
		a.SalaryMax = intPtr(50000)
		b := basePosting()
		b.SalaryMin = intPtr(40000)
		b.SalaryMax = intPtr(60000)

		merged := Merge(a, b)
		assert.Equal(t, 40000, *merged.SalaryMin)
		assert.Equal(t, 60000, *merged.SalaryMax)
	})

	t.Run("nil loses to value", func(t *testing.T) {
		a := basePosting()
		b := basePosting()
		b.SalaryMin = intPtr(40000)
		b.SalaryMax = intPtr(60000)

		merged := Merge(a, b)
		assert.Equal(t, 40000, *merged.SalaryMin)
		assert.Equal(t, 60000, *merged.SalaryMax)
	})

	t.Run("both nil stays nil", func(t *testing.T) {
		merged := Merge(basePosting(), basePosting())
		assert.Nil(t, merged.SalaryMin)
		assert.Nil(t, merged.SalaryMax)
	})

	t.Run("widening is order independent", func(t *testing.T) {
		a := basePosting()
		a.SalaryMin = intPtr(45000)
		a.SalaryMax = intPtr(50000)
		b := basePosting()
		b.SalaryMin = intPtr(40000)
		b.SalaryMax = intPtr(60000)

		ab := Merge(a, b)
		ba := Merge(b, a)
		assert.Equal(t, 40000, *ab.SalaryMin)
		assert.Equal(t, 60000, *ab.SalaryMax)
		assert.Equal(t, *ab.SalaryMin, *ba.SalaryMin)
		assert.Equal(t, *ab.SalaryMax, *ba.SalaryMax)
	})
}

func TestMerge_SeenWindowExtends(t *testing.T) {
	a := basePosting()
	a.FirstSeenAt = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	a.LastSeenAt = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	b := basePosting()
	b.FirstSeenAt = time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	b.LastSeenAt = time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	merged := Merge(a, b)
	assert.Equal(t, a.FirstSeenAt, merged.FirstSeenAt)
	assert.Equal(t, b.LastSeenAt, merged.LastSeenAt)
}

func TestMerge_EarliestPostedAtWins(t *testing.T) {
	early := timePtr(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	late := timePtr(time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC))

	a := basePosting()
	a.PostedAt = late
	b := basePosting()
	b.PostedAt = early

	assert.Equal(t, early, Merge(a, b).PostedAt)
	assert.Equal(t, early, Merge(b, a).PostedAt)

	t.Run("nil loses to value", func(t *testing.T) {
		c := basePosting()
		d := basePosting()
		d.PostedAt = early
		assert.Equal(t, early, Merge(c, d).PostedAt)
	})
}

func TestMerge_FieldTagsUnionSorted(t *testing.T) {
	a := basePosting()
	a.FieldTags = []string{"software_engineering", "data_science"}
	b := basePosting()
	b.FieldTags = []string{"data_science", "research"}

	merged := Merge(a, b)
	assert.Equal(t, []string{"data_science", "research", "software_engineering"}, []string(merged.FieldTags))
}

func TestMerge_ThreeWayOrderIndependent(t *testing.T) {
	a := basePosting()
	a.SourceIDs = []string{"jobbank"}
	b := basePosting()
	b.SourceIDs = []string{"talent"}
	b.Description = "Medium length description here."
	c := basePosting()
	c.SourceIDs = []string{"rss"}
	c.Description = "The longest description of the three postings by a clear margin."
	c.SalaryMin = intPtr(42000)

	left := Merge(Merge(a, b), c)
	right := Merge(a, Merge(b, c))
	assert.Equal(t, left, right)
	assert.Equal(t, []string{"jobbank", "rss", "talent"}, []string(left.SourceIDs))
}

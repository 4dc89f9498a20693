package normalize

import (
	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

// UpsertResult reports what an index or repository upsert did.
type UpsertResult struct {
	Posting   *models.CanonicalPosting
	IsNew     bool
	IsChanged bool
}

// Index is an in-memory dedup index keyed by fingerprint. It assumes a
// single writer (the ingest pipeline serializes merges); reads after the run
// finishes need no locking either.
type Index struct {
	byFingerprint map[string]*models.CanonicalPosting
}

// NewIndex creates an empty dedup index.
func NewIndex() *Index {
	return &Index{byFingerprint: make(map[string]*models.CanonicalPosting)}
}

// Upsert inserts the posting or merges it into the existing one with the
// same fingerprint. Re-ingesting identical input is a no-op.
func (i *Index) Upsert(posting *models.CanonicalPosting) UpsertResult {
	existing, ok := i.byFingerprint[posting.Fingerprint]
	if !ok {
		clone := *posting
		i.byFingerprint[posting.Fingerprint] = &clone
		return UpsertResult{Posting: &clone, IsNew: true, IsChanged: true}
	}

	merged := Merge(*existing, *posting)
	changed := !equalPostings(*existing, merged)
	i.byFingerprint[posting.Fingerprint] = &merged
	return UpsertResult{Posting: &merged, IsChanged: changed}
}

// Get returns the posting for a fingerprint, if present.
func (i *Index) Get(fp string) (*models.CanonicalPosting, bool) {
	p, ok := i.byFingerprint[fp]
	return p, ok
}

// Len returns the number of distinct postings.
func (i *Index) Len() int {
	return len(i.byFingerprint)
}

// All returns every posting in the index, in no particular order.
func (i *Index) All() []*models.CanonicalPosting {
	out := make([]*models.CanonicalPosting, 0, len(i.byFingerprint))
	for _, p := range i.byFingerprint {
		out = append(out, p)
	}
	return out
}

func equalPostings(a, b models.CanonicalPosting) bool {
	if a.Description != b.Description ||
		!equalStrings(a.SourceIDs, b.SourceIDs) ||
		!equalStrings(a.FieldTags, b.FieldTags) ||
		!equalInts(a.SalaryMin, b.SalaryMin) ||
		!equalInts(a.SalaryMax, b.SalaryMax) ||
		!a.FirstSeenAt.Equal(b.FirstSeenAt) ||
		!a.LastSeenAt.Equal(b.LastSeenAt) {
		return false
	}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalInts(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

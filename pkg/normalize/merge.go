package normalize

import (
	"sort"

	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

// Merge combines two canonical postings with the same fingerprint into one.
// It is commutative and idempotent: Merge(a, b) == Merge(b, a) and
// Merge(a, a) == a, so replay and arrival order never change the result.
//
// Rules: source IDs union, longer description wins and supplies the display
// fields, non-nil salary wins (both non-nil widens the range), earliest
// first_seen, latest last_seen, field tags union.
func Merge(a, b models.CanonicalPosting) models.CanonicalPosting {
	base, other := a, b
	if len(b.Description) > len(a.Description) ||
		(len(b.Description) == len(a.Description) && b.Description < a.Description) {
		base, other = b, a
	}

	merged := base
	merged.SourceIDs = unionSorted(base.SourceIDs, other.SourceIDs)
	merged.FieldTags = unionSorted(base.FieldTags, other.FieldTags)
	merged.SalaryMin = mergeSalary(base.SalaryMin, other.SalaryMin, lesser)
	merged.SalaryMax = mergeSalary(base.SalaryMax, other.SalaryMax, greater)
	merged.PostedAt = base.PostedAt
	if merged.PostedAt == nil || (other.PostedAt != nil && other.PostedAt.Before(*merged.PostedAt)) {
		merged.PostedAt = other.PostedAt
	}
	if other.FirstSeenAt.Before(merged.FirstSeenAt) {
		merged.FirstSeenAt = other.FirstSeenAt
	}
	if other.LastSeenAt.After(merged.LastSeenAt) {
		merged.LastSeenAt = other.LastSeenAt
	}
	if merged.CompanyID == nil {
		merged.CompanyID = other.CompanyID
	}
	return merged
}

func unionSorted(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for _, s := range a {
		seen[s] = struct{}{}
	}
	for _, s := range b {
		seen[s] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func mergeSalary(a, b *int, pick func(int, int) int) *int {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	v := pick(*a, *b)
	return &v
}

func lesser(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func greater(a, b int) int {
	if a > b {
		return a
	}
	return b
}

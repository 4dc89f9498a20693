package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompany(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"legal suffix stripped", "Acme Inc.", "acme"},
		{"llc stripped", "Globex, LLC", "globex"},
		{"corporation stripped", "Initech Corporation", "initech"},
		{"no suffix untouched", "Hooli", "hooli"},
		{"punctuation and case", "  O'Brien & Sons Ltd. ", "obrien sons"},
		{"whitespace collapsed", "Acme    Labs", "acme labs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Company(tt.input))
		})
	}
}

func TestTitle_KeepsSeasonalMarkers(t *testing.T) {
	// "(Summer 2026)" is identity: same role next term is a new posting.
	assert.Equal(t, "software intern summer 2026", Title("Software Intern (Summer 2026)"))
	assert.NotEqual(t, Title("Software Intern (Summer 2026)"), Title("Software Intern (Fall 2026)"))
}

func TestLocation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"city province", "Toronto, ON", "toronto on"},
		{"noise stripped", "Greater Toronto Area", "toronto"},
		{"remote collapses", "Remote - Canada", "remote"},
		{"remote capitalized", "REMOTE", "remote"},
		{"anywhere collapses", "Anywhere (US)", "remote"},
		{"hybrid location is literal", "Vancouver, BC (Hybrid)", "vancouver bc hybrid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Location(tt.input))
		})
	}
}

func TestApplyChain(t *testing.T) {
	result := ApplyChain("  Hello,   World!  ", "lowercase", "remove_punctuation", "collapse_whitespace")
	assert.Equal(t, "hello world", result)
}

func TestApply_UnknownNormalizerPassesThrough(t *testing.T) {
	assert.Equal(t, "Value", Apply("Value", "does_not_exist"))
}

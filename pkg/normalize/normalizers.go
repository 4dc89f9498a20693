// Package normalize turns raw source postings into canonical ones: string
// normalization for identity fields, modality and field-tag classification,
// and the merge rules for duplicate postings.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

// Normalizer is a function that normalizes a string value.
type Normalizer func(string) string

// registry holds all registered normalizers
var registry = make(map[string]Normalizer)

func init() {
	Register("lowercase", Lowercase)
	Register("trim", Trim)
	Register("collapse_whitespace", CollapseWhitespace)
	Register("remove_punctuation", RemovePunctuation)
	Register("ncompany", Company)
	Register("ntitle", Title)
	Register("nlocation", Location)
}

// Register adds a normalizer to the registry
func Register(name string, fn Normalizer) {
	registry[name] = fn
}

// Get retrieves a normalizer by name
func Get(name string) (Normalizer, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Apply applies a named normalizer to a value. Unknown names pass the value
// through untouched.
func Apply(value, normalizer string) string {
	fn, ok := registry[normalizer]
	if !ok {
		return value
	}
	return fn(value)
}

// ApplyChain applies multiple normalizers in sequence
func ApplyChain(value string, normalizers ...string) string {
	result := value
	for _, name := range normalizers {
		result = Apply(result, name)
	}
	return result
}

// Built-in normalizers

// Lowercase converts string to lowercase
func Lowercase(s string) string {
	return strings.ToLower(s)
}

// Trim removes leading and trailing whitespace
func Trim(s string) string {
	return strings.TrimSpace(s)
}

var spaceRe = regexp.MustCompile(`\s+`)

// CollapseWhitespace folds runs of whitespace into single spaces
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// RemovePunctuation removes punctuation, keeping letters, digits and spaces
func RemovePunctuation(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// companySuffixes are stripped from the end of company names so "Acme Inc."
// and "Acme" collapse to the same identity.
var companySuffixes = []string{
	" inc", " incorporated", " llc", " llp", " ltd", " limited",
	" corp", " corporation", " co", " company", " gmbh", " sa", " plc",
}

// Company normalizes a company name for fingerprinting:
// lowercase, punctuation stripped, legal suffixes removed, whitespace folded.
func Company(s string) string {
	s = CollapseWhitespace(RemovePunctuation(Lowercase(s)))
	for _, suffix := range companySuffixes {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimSpace(s[:len(s)-len(suffix)])
			break
		}
	}
	return s
}

// Title normalizes a posting title for fingerprinting. Seasonal markers like
// "(Summer 2026)" stay in: the same role in a different term is a different
// posting, and the week bucket handles repostings within a term.
func Title(s string) string {
	return CollapseWhitespace(RemovePunctuation(Lowercase(s)))
}

// locationNoise is dropped from location strings before comparison.
var locationNoise = []string{"greater ", " area", " region", " metropolitan"}

// Location normalizes a location string: lowercase, punctuation stripped,
// marketing noise removed. "Remote" variants all collapse to "remote".
func Location(s string) string {
	s = CollapseWhitespace(RemovePunctuation(Lowercase(s)))
	for _, noise := range locationNoise {
		s = strings.ReplaceAll(s, noise, " ")
	}
	s = CollapseWhitespace(s)
	if strings.Contains(s, "remote") || strings.Contains(s, "anywhere") {
		return "remote"
	}
	return s
}

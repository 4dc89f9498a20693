package scrapers

import (
	"html"
	"regexp"
	"strings"
)

var (
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	blockCloseRe = regexp.MustCompile(`(?i)</(p|div|li|br|h[1-6])>`)
	blankLines   = regexp.MustCompile(`\n{3,}`)
)

// stripTags flattens an HTML fragment into readable plain text. Good enough
// for keyword matching and email extraction; not a sanitizer.
func stripTags(s string) string {
	s = html.UnescapeString(s)
	s = blockCloseRe.ReplaceAllString(s, "\n")
	s = tagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	s = strings.Join(lines, "\n")
	return strings.TrimSpace(blankLines.ReplaceAllString(s, "\n\n"))
}

// looksLikeInternship filters listings from sources that mix all seniority
// levels into one feed.
func looksLikeInternship(title string) bool {
	t := strings.ToLower(title)
	return strings.Contains(t, "intern") || strings.Contains(t, "co-op") || strings.Contains(t, "coop")
}

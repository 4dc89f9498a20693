package normalize

import (
	"strings"

	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

// remoteKeywords / hybridKeywords drive free-text modality detection when the
// source gave no explicit modality field.
var (
	remoteKeywords = []string{"remote", "work from home", "work-from-home", "fully distributed", "anywhere"}
	hybridKeywords = []string{"hybrid", "days in office", "days per week in office", "partially remote"}
)

// ClassifyModality resolves a posting's modality. An explicit hint wins;
// otherwise free text is scanned, hybrid before remote since hybrid postings
// usually mention both; the default is onsite.
func ClassifyModality(hint, location, description string) models.Modality {
	if m, ok := models.ParseModality(strings.ToLower(strings.TrimSpace(hint))); ok {
		return m
	}

	text := strings.ToLower(location + " " + description)
	for _, kw := range hybridKeywords {
		if strings.Contains(text, kw) {
			return models.ModalityHybrid
		}
	}
	for _, kw := range remoteKeywords {
		if strings.Contains(text, kw) {
			return models.ModalityRemote
		}
	}
	return models.ModalityOnsite
}

// fieldKeywords maps each field tag to the phrases that assign it. Title
// matches alone are enough; description matches require two distinct hits to
// avoid tagging every posting that name-drops "python" once.
var fieldKeywords = map[models.FieldTag][]string{
	models.FieldSoftware:   {"software", "developer", "swe", "backend", "frontend", "full stack", "fullstack", "devops", "mobile", "ios", "android"},
	models.FieldData:       {"data scien", "data analy", "machine learning", "ml engineer", "data engineer", "analytics", "business intelligence"},
	models.FieldDesign:     {"designer", "ux", "ui design", "graphic", "product design"},
	models.FieldMarketing:  {"marketing", "social media", "seo", "content creat", "brand"},
	models.FieldFinance:    {"finance", "accounting", "audit", "investment", "treasury", "actuar"},
	models.FieldProduct:    {"product manage", "product owner", "program manage"},
	models.FieldOperations: {"operations", "supply chain", "logistics", "procurement"},
	models.FieldResearch:   {"research", "lab assistant", "r&d"},
}

// ClassifyFields derives field tags from title and description keywords.
// Postings matching nothing get the "other" tag so facets stay total.
func ClassifyFields(title, description string) []models.FieldTag {
	lowTitle := strings.ToLower(title)
	lowDesc := strings.ToLower(description)

	var tags []models.FieldTag
	for _, tag := range orderedFieldTags {
		keywords := fieldKeywords[tag]
		if matchesField(lowTitle, lowDesc, keywords) {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		tags = append(tags, models.FieldOther)
	}
	return tags
}

// orderedFieldTags fixes iteration order so classification is deterministic.
var orderedFieldTags = []models.FieldTag{
	models.FieldSoftware,
	models.FieldData,
	models.FieldDesign,
	models.FieldMarketing,
	models.FieldFinance,
	models.FieldProduct,
	models.FieldOperations,
	models.FieldResearch,
}

func matchesField(title, description string, keywords []string) bool {
	descHits := 0
	for _, kw := range keywords {
		if strings.Contains(title, kw) {
			return true
		}
		if strings.Contains(description, kw) {
			descHits++
			if descHits >= 2 {
				return true
			}
		}
	}
	return false
}

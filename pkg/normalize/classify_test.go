package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

func TestClassifyModality(t *testing.T) {
	tests := []struct {
		name        string
		hint        string
		location    string
		description string
		expected    models.Modality
	}{
		{"explicit hint wins", "remote", "Toronto, ON", "Work from our downtown office.", models.ModalityRemote},
		{"hint normalized", "  Hybrid  ", "", "", models.ModalityHybrid},
		{"unknown hint falls through", "flexible", "Remote", "", models.ModalityRemote},
		{"remote in location", "", "Remote - Canada", "", models.ModalityRemote},
		{"work from home in description", "", "Toronto, ON", "This role is work from home.", models.ModalityRemote},
		{"hybrid beats remote", "", "", "Hybrid schedule, partially remote with 2 days in office.", models.ModalityHybrid},
		{"default onsite", "", "Toronto, ON", "Join our downtown team.", models.ModalityOnsite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyModality(tt.hint, tt.location, tt.description))
		})
	}
}

func TestClassifyFields(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		expected    []models.FieldTag
	}{
		{
			"title match is enough",
			"Software Developer Intern",
			"",
			[]models.FieldTag{models.FieldSoftware},
		},
		{
			"single description hit is not enough",
			"Summer Intern",
			"You may occasionally help the marketing team.",
			[]models.FieldTag{models.FieldOther},
		},
		{
			"two description hits assign the tag",
			"Summer Intern",
			"Support marketing campaigns and grow our social media presence.",
			[]models.FieldTag{models.FieldMarketing},
		},
		{
			"multiple tags",
			"Data Science Intern",
			"Work with our backend and devops teams on ML pipelines.",
			[]models.FieldTag{models.FieldSoftware, models.FieldData},
		},
		{
			"no match falls back to other",
			"General Intern",
			"Help around the office.",
			[]models.FieldTag{models.FieldOther},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyFields(tt.title, tt.description))
		})
	}
}

func TestClassifyFields_Deterministic(t *testing.T) {
	title := "Software and Data Science Research Intern"
	first := ClassifyFields(title, "")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ClassifyFields(title, ""))
	}
}

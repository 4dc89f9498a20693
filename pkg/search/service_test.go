package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name         string
		query        models.SearchQuery
		expectedPage int
		expectedSize int
	}{
		{"defaults", models.SearchQuery{}, 1, 20},
		{"explicit values", models.SearchQuery{Page: 2, PageSize: 40}, 2, 40},
		{"zero page clamps to one", models.SearchQuery{Page: 0, PageSize: 10}, 1, 10},
		{"oversized page size capped", models.SearchQuery{PageSize: 1000}, 1, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, size := normalizePage(tt.query)
			assert.Equal(t, tt.expectedPage, page)
			assert.Equal(t, tt.expectedSize, size)
		})
	}
}

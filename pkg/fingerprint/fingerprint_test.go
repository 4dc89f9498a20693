package fingerprint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_SameWeekCollapses(t *testing.T) {
	// Monday and Friday of the same ISO week.
	monday := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	friday := time.Date(2026, 3, 6, 17, 30, 0, 0, time.UTC)

	key := Key{Company: "acme", Title: "software intern", Location: "toronto on"}

	a := key
	a.PostedAt = &monday
	b := key
	b.PostedAt = &friday

	assert.Equal(t, Generate(a), Generate(b))
}

func TestGenerate_DifferentWeekDiffers(t *testing.T) {
	thisWeek := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	nextWeek := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)

	key := Key{Company: "acme", Title: "software intern", Location: "toronto on"}

	a := key
	a.PostedAt = &thisWeek
	b := key
	b.PostedAt = &nextWeek

	assert.NotEqual(t, Generate(a), Generate(b))
}

func TestGenerate_NilDateStable(t *testing.T) {
	key := Key{Company: "acme", Title: "software intern", Location: "toronto on"}

	first := Generate(key)
	second := Generate(key)
	assert.Equal(t, first, second)

	posted := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	dated := key
	dated.PostedAt = &posted
	assert.NotEqual(t, first, Generate(dated))
}

func TestGenerate_IdentityFieldsMatter(t *testing.T) {
	base := Key{Company: "acme", Title: "software intern", Location: "toronto on"}

	tests := []struct {
		name   string
		mutate func(*Key)
	}{
		{"company", func(k *Key) { k.Company = "globex" }},
		{"title", func(k *Key) { k.Title = "data intern" }},
		{"location", func(k *Key) { k.Location = "vancouver bc" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := base
			tt.mutate(&other)
			assert.NotEqual(t, Generate(base), Generate(other))
		})
	}
}

func TestGenerate_YearBoundaryWeek(t *testing.T) {
	// 2026-01-01 falls in ISO week 2026-W01; 2024-12-30 belongs to 2025-W01.
	dec30 := time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)
	jan1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	key := Key{Company: "acme", Title: "software intern", Location: "toronto on"}
	a := key
	a.PostedAt = &dec30
	b := key
	b.PostedAt = &jan1

	// Both dates share ISO week 2025-W01 despite straddling the calendar year.
	assert.Equal(t, Generate(a), Generate(b))
}

func TestHasChanged(t *testing.T) {
	assert.False(t, HasChanged("abc", "abc"))
	assert.True(t, HasChanged("abc", "def"))
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "easyinterns-api", cfg.AppName)
	assert.Equal(t, 3004, cfg.Port)
	assert.Equal(t, 4, cfg.MaxParallelSources)
	assert.Equal(t, 45, cfg.StalenessWindowDays)
	assert.InDelta(t, 0.5, cfg.EmailDisplayThreshold, 1e-9)

	// Unset list env vars must come out empty, not as a single empty element.
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Empty(t, cfg.GreenhouseCompanies)
	assert.Empty(t, cfg.RSSFeeds)
}

func TestLoad_ListParsing(t *testing.T) {
	t.Setenv("GREENHOUSE_COMPANIES", "acme, globex ,initech")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"acme", "globex", "initech"}, cfg.GreenhouseCompanies)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("SOURCE_COOLDOWN", "5m")
	t.Setenv("ENABLE_LINKEDIN_SCRAPER", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "5m0s", cfg.SourceCooldown.String())
	assert.True(t, cfg.EnableLinkedIn)
}

package config

import (
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	AppName                       string `env:"APP_NAME" env-default:"easyinterns-api"`
	Port                          int    `env:"PORT" env-default:"3004"`
	LogLevel                      string `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool   `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int    `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"30"`
	HttpServerReadTimeoutSeconds  int    `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`

	// PostgreSQL
	DatabaseHost                  string        `env:"DB_HOST" env-default:"localhost"`
	DatabasePort                  string        `env:"DB_PORT" env-default:"5432"`
	DatabaseUserName              string        `env:"DB_USER_NAME" env-default:"easyinterns"`
	DatabasePassword              string        `env:"DB_PASSWORD" env-default:""`
	DatabaseName                  string        `env:"DB_NAME" env-default:"easyinterns"`
	DatabaseSSLMode               string        `env:"DB_SSL_MODE" env-default:"disable"`
	DatabaseMaxOpenConns          int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	DatabaseMaxIdleConns          int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	DatabaseConnMaxLifetime       time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	DatabaseMigrationFolderPath   string        `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg"`
	DatabaseMigrationVersion      int           `env:"DB_MIGRATION_VERSION" env-default:"0"`
	DatabaseMigrationForce        int           `env:"DB_MIGRATION_FORCE" env-default:"0"`
	DatabaseMigrationAutoRollback bool          `env:"DB_MIGRATION_AUTO_ROLLBACK" env-default:"true"`

	// Redis (per-source cooldown locks)
	RedisURL string `env:"REDIS_URL" env-default:"redis://localhost:6379/0"`

	// Kafka producer (posting lifecycle events). Disabled when no brokers set.
	KafkaBrokers      []string `env:"KAFKA_BROKERS" env-default:""`
	KafkaOutputTopic  string   `env:"KAFKA_OUTPUT_TOPIC" env-default:"posting-events"`
	KafkaBatchSize    int      `env:"KAFKA_BATCH_SIZE" env-default:"100"`
	KafkaBatchTimeout int      `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`
	KafkaRequiredAcks int      `env:"KAFKA_REQUIRED_ACKS" env-default:"1"`
	KafkaCompression  string   `env:"KAFKA_COMPRESSION" env-default:"snappy"`

	// Scraping
	MaxParallelSources  int           `env:"MAX_PARALLEL_SOURCES" env-default:"4"`
	SourceCooldown      time.Duration `env:"SOURCE_COOLDOWN" env-default:"30m"`
	SourceTimeout       time.Duration `env:"SOURCE_TIMEOUT" env-default:"60s"`
	SourceRequestBudget int           `env:"SOURCE_REQUEST_BUDGET" env-default:"30"`
	SourceRequestDelay  time.Duration `env:"SOURCE_REQUEST_DELAY" env-default:"500ms"`
	ScrapeIntervalHours int           `env:"SCRAPE_INTERVAL_HOURS" env-default:"0"` // 0 disables the cron schedule
	EnableLinkedIn      bool          `env:"ENABLE_LINKEDIN_SCRAPER" env-default:"false"`
	EnableGlassdoor     bool          `env:"ENABLE_GLASSDOOR_SCRAPER" env-default:"false"`
	GreenhouseCompanies []string      `env:"GREENHOUSE_COMPANIES" env-default:""`
	LeverCompanies      []string      `env:"LEVER_COMPANIES" env-default:""`
	RSSFeeds            []string      `env:"RSS_FEEDS" env-default:""`
	StalenessWindowDays int           `env:"STALENESS_WINDOW_DAYS" env-default:"45"`

	// Ranking weights. Normalized at scoring time; exposed so tuning does not
	// require a redeploy.
	RankWeightSkills     float64 `env:"RANK_WEIGHT_SKILLS" env-default:"0.35"`
	RankWeightField      float64 `env:"RANK_WEIGHT_FIELD" env-default:"0.25"`
	RankWeightLocation   float64 `env:"RANK_WEIGHT_LOCATION" env-default:"0.20"`
	RankWeightRecency    float64 `env:"RANK_WEIGHT_RECENCY" env-default:"0.20"`
	RankFieldPartial     float64 `env:"RANK_FIELD_PARTIAL_CREDIT" env-default:"0.2"`
	RankModalityMismatch float64 `env:"RANK_MODALITY_MISMATCH_FACTOR" env-default:"0.7"`
	RankRecencyCutoff    int     `env:"RANK_RECENCY_CUTOFF_DAYS" env-default:"45"`

	// Email confidence weights (see pkg/emails). Reconstructed constants,
	// deliberately configuration rather than contract.
	EmailMailtoBase       float64       `env:"EMAIL_MAILTO_BASE" env-default:"0.6"`
	EmailPatternBase      float64       `env:"EMAIL_PATTERN_BASE" env-default:"0.3"`
	EmailDomainBonus      float64       `env:"EMAIL_DOMAIN_BONUS" env-default:"0.25"`
	EmailMXBonus          float64       `env:"EMAIL_MX_BONUS" env-default:"0.15"`
	EmailGenericPenalty   float64       `env:"EMAIL_GENERIC_PENALTY" env-default:"0.2"`
	EmailFreeMailPenalty  float64       `env:"EMAIL_FREEMAIL_PENALTY" env-default:"0.2"`
	EmailHRPrefixBonus    float64       `env:"EMAIL_HR_PREFIX_BONUS" env-default:"0.1"`
	EmailDisplayThreshold float64       `env:"EMAIL_DISPLAY_THRESHOLD" env-default:"0.5"`
	EmailMXTimeout        time.Duration `env:"EMAIL_MX_TIMEOUT" env-default:"3s"`
}

// Load reads .env (when present) and the process environment into a Config.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}

	// cleanenv parses an unset list as a single empty element.
	cfg.KafkaBrokers = compact(cfg.KafkaBrokers)
	cfg.GreenhouseCompanies = compact(cfg.GreenhouseCompanies)
	cfg.LeverCompanies = compact(cfg.LeverCompanies)
	cfg.RSSFeeds = compact(cfg.RSSFeeds)
	return &cfg, nil
}

func compact(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

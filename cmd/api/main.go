package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/PNGURuckus/EasyInterns/config"
	companyrepo "github.com/PNGURuckus/EasyInterns/internal/repositories/company"
	contactrepo "github.com/PNGURuckus/EasyInterns/internal/repositories/contactemail"
	postingrepo "github.com/PNGURuckus/EasyInterns/internal/repositories/posting"
	runrepo "github.com/PNGURuckus/EasyInterns/internal/repositories/scraperun"
	sourcerepo "github.com/PNGURuckus/EasyInterns/internal/repositories/source"
	"github.com/PNGURuckus/EasyInterns/pkg/database"
	"github.com/PNGURuckus/EasyInterns/pkg/emails"
	"github.com/PNGURuckus/EasyInterns/pkg/events"
	"github.com/PNGURuckus/EasyInterns/pkg/kafka"
	"github.com/PNGURuckus/EasyInterns/pkg/middleware"
	"github.com/PNGURuckus/EasyInterns/pkg/orchestrator"
	"github.com/PNGURuckus/EasyInterns/pkg/pipeline"
	"github.com/PNGURuckus/EasyInterns/pkg/ranking"
	"github.com/PNGURuckus/EasyInterns/pkg/routes/health"
	"github.com/PNGURuckus/EasyInterns/pkg/routes/postings"
	"github.com/PNGURuckus/EasyInterns/pkg/routes/scrape"
	"github.com/PNGURuckus/EasyInterns/pkg/routes/sources"
	"github.com/PNGURuckus/EasyInterns/pkg/scrapers"
	"github.com/PNGURuckus/EasyInterns/pkg/search"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := buildLogger(cfg)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("service exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	db, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	driver, err := migratepg.WithInstance(db.DB, &migratepg.Config{})
	if err != nil {
		return err
	}
	migrations := database.NewMigrationService(logger, &database.MigrationConfig{
		MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
		Version:             uint(cfg.DatabaseMigrationVersion),
		Force:               cfg.DatabaseMigrationForce,
		AutoRollback:        cfg.DatabaseMigrationAutoRollback,
	})
	if err := migrations.Migrate(cfg.DatabaseName, driver); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			// Cooldown locks fail open, so a missing Redis is a warning.
			logger.Warn("redis unreachable, cooldown locks disabled", zap.Error(err))
		}
	}

	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaOutputTopic,
			BatchSize:    cfg.KafkaBatchSize,
			BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
			RequiredAcks: cfg.KafkaRequiredAcks,
			Compression:  cfg.KafkaCompression,
		}, logger)
		defer producer.Close()
	}
	emitter := events.NewEmitter(producer, logger)

	postingRepo := postingrepo.New(db, logger)
	companyRepo := companyrepo.New(db, logger)
	contactRepo := contactrepo.New(db, logger)
	runRepo := runrepo.New(db, logger)
	sourceRepo := sourcerepo.New(db, logger)

	extractor := emails.NewExtractor(
		emails.WeightsFromConfig(cfg),
		emails.NewCachedResolver(cfg.EmailMXTimeout),
		logger,
	)
	scorer := ranking.NewScorer(ranking.WeightsFromConfig(cfg))
	searchService := search.New(postingRepo, scorer,
		time.Duration(cfg.StalenessWindowDays)*24*time.Hour, logger)

	registry := scrapers.NewRegistry(cfg)
	if err := sourceRepo.Sync(ctx, registry.List()); err != nil {
		return err
	}

	pipe := pipeline.New(postingRepo, companyRepo, contactRepo, extractor, emitter, logger)
	cooldown := orchestrator.NewCooldown(redisClient, cfg.SourceCooldown, logger)
	orch := orchestrator.New(registry, runRepo, sourceRepo, pipe, cooldown, emitter, cfg, logger)

	scheduler, err := orchestrator.NewScheduler(orch, cfg.ScrapeIntervalHours, logger)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))

	checker := health.NewChecker(db, redisClient, version)
	checker.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	postings.Register(api.Group("/postings"), postings.NewHandler(searchService, contactRepo, extractor))
	scrape.Register(api.Group("/scrape"), scrape.NewHandler(orch))
	sources.Register(api.Group("/sources"), sources.NewHandler(sourceRepo))

	checker.SetReady(true)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		if err := e.Start(addr); err != nil {
			logger.Info("http server stopped", zap.Error(err))
		}
	}()
	logger.Info("service started", zap.String("app", cfg.AppName), zap.Int("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	checker.SetReady(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func buildLogger(cfg *config.Config) *zap.Logger {
	level := zapcore.InfoLevel
	_ = level.Set(cfg.LogLevel)

	var zapCfg zap.Config
	if cfg.PrettyLogs {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		panic(err)
	}
	return logger.With(zap.String("app", cfg.AppName))
}

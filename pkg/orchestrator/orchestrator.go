// Package orchestrator owns the scrape run lifecycle: source selection,
// cooldowns, the bounded worker pool, per-source tallies and the terminal
// status decision.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/PNGURuckus/EasyInterns/config"
	"github.com/PNGURuckus/EasyInterns/pkg/events"
	"github.com/PNGURuckus/EasyInterns/pkg/metrics"
	"github.com/PNGURuckus/EasyInterns/pkg/models"
	"github.com/PNGURuckus/EasyInterns/pkg/pipeline"
	"github.com/PNGURuckus/EasyInterns/pkg/scrapers"
)

// RunStore persists runs and enforces the status state machine.
type RunStore interface {
	Create(ctx context.Context, requestedSources []string) (*models.ScrapeRun, error)
	GetByID(ctx context.Context, id string) (*models.ScrapeRun, error)
	List(ctx context.Context, limit int) ([]models.ScrapeRun, error)
	Transition(ctx context.Context, id string, from, to models.RunStatus) (*models.ScrapeRun, error)
	RecordResults(ctx context.Context, id string, counts models.SourceCountMap, runErrors models.RunErrorList) error
}

// SourceStore tracks per-source scrape state backing the cooldown gate.
type SourceStore interface {
	LastScrapedAt(ctx context.Context, id string) (*time.Time, error)
	MarkScraped(ctx context.Context, id string, at time.Time) error
}

// Ingestor lands one source's scrape output.
type Ingestor interface {
	Ingest(ctx context.Context, sourceID string, raws []models.RawPosting) (pipeline.Result, error)
}

// SourceRegistry resolves enabled scrapers.
type SourceRegistry interface {
	Get(id string) (scrapers.Scraper, error)
	EnabledIDs() []string
}

// Orchestrator coordinates scrape runs.
type Orchestrator struct {
	registry SourceRegistry
	runs     RunStore
	sources  SourceStore
	pipeline Ingestor
	cooldown *Cooldown
	emitter  *events.Emitter
	cfg      *config.Config
	logger   *zap.Logger

	// ingestMu serializes the merge path: one source's batch lands fully
	// before the next starts, so merges never interleave.
	ingestMu sync.Mutex

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// New creates the orchestrator.
func New(
	registry SourceRegistry,
	runs RunStore,
	sources SourceStore,
	pipe Ingestor,
	cooldown *Cooldown,
	emitter *events.Emitter,
	cfg *config.Config,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		runs:     runs,
		sources:  sources,
		pipeline: pipe,
		cooldown: cooldown,
		emitter:  emitter,
		cfg:      cfg,
		logger:   logger,
		cancels:  make(map[string]context.CancelFunc),
	}
}

// StartRun creates a run for the requested sources (all enabled sources
// when empty) and executes it in the background. Unknown or disabled
// sources fail the request up front rather than mid-run.
func (o *Orchestrator) StartRun(ctx context.Context, requested []string) (*models.ScrapeRun, error) {
	sourceIDs := requested
	if len(sourceIDs) == 0 {
		sourceIDs = o.registry.EnabledIDs()
	}
	if len(sourceIDs) == 0 {
		return nil, errors.New("no enabled sources to scrape")
	}
	for _, id := range sourceIDs {
		if _, err := o.registry.Get(id); err != nil {
			return nil, err
		}
	}

	run, err := o.runs.Create(ctx, sourceIDs)
	if err != nil {
		return nil, err
	}

	// The run outlives the HTTP request that started it.
	runCtx, cancel := context.WithCancel(context.Background())
	o.mu.Lock()
	o.cancels[run.ID] = cancel
	o.mu.Unlock()

	go o.execute(runCtx, run.ID, sourceIDs)
	return run, nil
}

// GetRun fetches a run by id.
func (o *Orchestrator) GetRun(ctx context.Context, id string) (*models.ScrapeRun, error) {
	return o.runs.GetByID(ctx, id)
}

// ListRuns returns recent runs.
func (o *Orchestrator) ListRuns(ctx context.Context, limit int) ([]models.ScrapeRun, error) {
	return o.runs.List(ctx, limit)
}

// Cancel stops a pending or running run. In-flight source scrapes finish
// cooperatively: adapters observe context cancellation between requests.
func (o *Orchestrator) Cancel(ctx context.Context, id string) (*models.ScrapeRun, error) {
	run, err := o.runs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch run.Status {
	case models.RunPending:
		return o.runs.Transition(ctx, id, models.RunPending, models.RunCancelled)
	case models.RunRunning:
		o.mu.Lock()
		cancel, ok := o.cancels[id]
		o.mu.Unlock()
		if ok {
			cancel()
		}
		return o.runs.Transition(ctx, id, models.RunRunning, models.RunCancelled)
	default:
		return nil, errors.Wrapf(models.ErrInvalidTransition, "run %s is already %s", id, run.Status)
	}
}

// sourceOutcome is one worker's report back to the run loop.
type sourceOutcome struct {
	sourceID string
	counts   models.SourceCounts
	err      error
}

func (o *Orchestrator) execute(ctx context.Context, runID string, sourceIDs []string) {
	defer func() {
		o.mu.Lock()
		delete(o.cancels, runID)
		o.mu.Unlock()
	}()

	if _, err := o.runs.Transition(ctx, runID, models.RunPending, models.RunRunning); err != nil {
		// Cancelled before it started.
		o.logger.Info("run did not start", zap.String("run_id", runID), zap.Error(err))
		return
	}
	metrics.RunsStarted.Inc()
	o.logger.Info("scrape run started",
		zap.String("run_id", runID), zap.Strings("sources", sourceIDs))

	counts := models.SourceCountMap{}
	runErrors := models.RunErrorList{}
	successes := 0

	workers := o.cfg.MaxParallelSources
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	outcomes := make(chan sourceOutcome, len(sourceIDs))

	var wg sync.WaitGroup
	dispatched := 0
	for _, id := range sourceIDs {
		if ctx.Err() != nil {
			// Cancelled: stop dispatching, record the rest as skipped.
			counts[id] = models.SourceCounts{Skipped: 1}
			continue
		}
		dispatched++
		wg.Add(1)
		sem <- struct{}{}
		go func(id string) {
			defer wg.Done()
			defer func() { <-sem }()
			outcomes <- o.scrapeSource(ctx, id)
		}(id)
	}

	wg.Wait()
	close(outcomes)

	for outcome := range outcomes {
		counts[outcome.sourceID] = outcome.counts
		if outcome.err != nil {
			runErrors = append(runErrors, models.RunError{
				SourceID:   outcome.sourceID,
				Message:    outcome.err.Error(),
				OccurredAt: time.Now().UTC(),
			})
		} else if outcome.counts.Skipped == 0 {
			successes++
		}
	}

	// Run bookkeeping survives the run context being cancelled.
	saveCtx, cancelSave := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelSave()

	if err := o.runs.RecordResults(saveCtx, runID, counts, runErrors); err != nil {
		o.logger.Error("failed to record run results", zap.String("run_id", runID), zap.Error(err))
	}

	final := models.RunCompleted
	switch {
	case ctx.Err() != nil:
		final = models.RunCancelled
	case successes == 0 && len(runErrors) > 0:
		// Every dispatched source failed.
		final = models.RunFailed
	}

	run, err := o.runs.Transition(saveCtx, runID, models.RunRunning, final)
	if err != nil {
		// Cancel already moved the run to cancelled; fetch it for the event.
		run, err = o.runs.GetByID(saveCtx, runID)
		if err != nil {
			o.logger.Error("failed to finalize run", zap.String("run_id", runID), zap.Error(err))
			return
		}
	}

	metrics.RunsFinished.WithLabelValues(string(run.Status)).Inc()
	_ = o.emitter.EmitRunCompleted(saveCtx, run)
	o.logger.Info("scrape run finished",
		zap.String("run_id", runID),
		zap.String("status", string(run.Status)),
		zap.Int("successes", successes),
		zap.Int("errors", len(runErrors)),
		zap.Int("dispatched", dispatched))
}

// scrapeSource runs one source end to end: cooldown gate, scrape with a
// per-source timeout, then the serialized ingest.
func (o *Orchestrator) scrapeSource(ctx context.Context, sourceID string) sourceOutcome {
	outcome := sourceOutcome{sourceID: sourceID}

	if skipped := o.inCooldown(ctx, sourceID); skipped {
		o.logger.Info("source in cooldown, skipping", zap.String("source", sourceID))
		outcome.counts.Skipped = 1
		return outcome
	}

	scraper, err := o.registry.Get(sourceID)
	if err != nil {
		outcome.err = err
		outcome.counts.Errors = 1
		return outcome
	}

	scrapeCtx, cancel := context.WithTimeout(ctx, o.cfg.SourceTimeout)
	defer cancel()

	start := time.Now()
	raws, err := scraper.Scrape(scrapeCtx, scrapers.Query{})
	metrics.SourceDuration.WithLabelValues(sourceID).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.SourceErrors.WithLabelValues(sourceID, errorKind(err)).Inc()
		o.logger.Warn("source scrape failed", zap.String("source", sourceID), zap.Error(err))
		outcome.err = err
		outcome.counts.Errors = 1
		// Free the lock so the next run can retry without waiting out
		// the cooldown.
		o.cooldown.Release(context.WithoutCancel(ctx), sourceID)
		return outcome
	}

	o.ingestMu.Lock()
	result, err := o.pipeline.Ingest(ctx, sourceID, raws)
	o.ingestMu.Unlock()

	outcome.counts.New = result.New
	outcome.counts.Updated = result.Updated
	if err != nil {
		metrics.SourceErrors.WithLabelValues(sourceID, "other").Inc()
		outcome.err = err
		outcome.counts.Errors = 1
		return outcome
	}

	if err := o.sources.MarkScraped(context.WithoutCancel(ctx), sourceID, time.Now().UTC()); err != nil {
		o.logger.Warn("failed to mark source scraped", zap.String("source", sourceID), zap.Error(err))
	}
	return outcome
}

// inCooldown consults both gates: the sources table (survives restarts) and
// the Redis lock (excludes concurrent runs).
func (o *Orchestrator) inCooldown(ctx context.Context, sourceID string) bool {
	last, err := o.sources.LastScrapedAt(ctx, sourceID)
	if err != nil {
		o.logger.Warn("could not read last_scraped_at, proceeding",
			zap.String("source", sourceID), zap.Error(err))
	} else if last != nil && time.Since(*last) < o.cfg.SourceCooldown {
		return true
	}
	return !o.cooldown.Acquire(ctx, sourceID)
}

func errorKind(err error) string {
	var unavailable *models.SourceUnavailableError
	var formatChanged *models.SourceFormatChangedError
	switch {
	case errors.As(err, &unavailable):
		return "unavailable"
	case errors.As(err, &formatChanged):
		return "format_changed"
	default:
		return "other"
	}
}

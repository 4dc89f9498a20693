// Package scraperun persists run records and enforces the status state
// machine at the persistence boundary: a transition not in the table fails
// without touching the row.
package scraperun

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/PNGURuckus/EasyInterns/pkg/database"
	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

var runColumns = []string{
	"id", "status", "requested_sources", "per_source_counts", "errors",
	"started_at", "finished_at", "created_at", "updated_at",
}

// Repository handles scrape run persistence.
type Repository struct {
	db     database.DB
	logger *zap.Logger
}

// New creates the repository.
func New(db database.DB, logger *zap.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// Create inserts a pending run for the requested sources.
func (r *Repository) Create(ctx context.Context, requestedSources []string) (*models.ScrapeRun, error) {
	run := &models.ScrapeRun{
		ID:               uuid.New().String(),
		Status:           models.RunPending,
		RequestedSources: requestedSources,
		PerSourceCounts:  models.SourceCountMap{},
		Errors:           models.RunErrorList{},
	}

	ib := database.NewInsertBuilder()
	query, args := ib.InsertInto("scrape_runs").
		Cols("id", "status", "requested_sources", "per_source_counts", "errors", "created_at", "updated_at").
		Values(run.ID, string(run.Status), pq.Array(requestedSources),
			run.PerSourceCounts, run.Errors, database.Now(), database.Now()).
		Build()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("failed to create scrape run", zap.Error(err))
		return nil, errors.Wrap(err, "create scrape run")
	}
	return run, nil
}

// GetByID fetches one run.
func (r *Repository) GetByID(ctx context.Context, id string) (*models.ScrapeRun, error) {
	sb := database.NewSelectBuilder()
	sb.Select(runColumns...)
	sb.From("scrape_runs")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var run models.ScrapeRun
	if err := r.db.GetContext(ctx, &run, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("failed to get scrape run", zap.String("id", id), zap.Error(err))
		return nil, errors.Wrap(err, "get scrape run")
	}
	return &run, nil
}

// List returns recent runs, newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]models.ScrapeRun, error) {
	if limit < 1 {
		limit = 20
	}
	sb := database.NewSelectBuilder()
	sb.Select(runColumns...)
	sb.From("scrape_runs")
	sb.OrderBy("created_at DESC")
	sb.Limit(limit)

	query, args := sb.Build()
	runs := []models.ScrapeRun{}
	if err := r.db.SelectContext(ctx, &runs, query, args...); err != nil {
		r.logger.Error("failed to list scrape runs", zap.Error(err))
		return nil, errors.Wrap(err, "list scrape runs")
	}
	return runs, nil
}

// Transition moves the run to a new status, guarded by the transition table
// and by a WHERE on the expected current status so racing writers cannot
// both win. Entering running stamps started_at; terminal states stamp
// finished_at.
func (r *Repository) Transition(ctx context.Context, id string, from, to models.RunStatus) (*models.ScrapeRun, error) {
	if !models.CanTransition(from, to) {
		return nil, errors.Wrapf(models.ErrInvalidTransition, "%s -> %s", from, to)
	}

	query := `
UPDATE scrape_runs SET
	status = $1,
	started_at = CASE WHEN $1 = 'running' THEN now() ELSE started_at END,
	finished_at = CASE WHEN $1 IN ('completed', 'failed', 'cancelled') THEN now() ELSE finished_at END,
	updated_at = now()
WHERE id = $2 AND status = $3
RETURNING id, status, requested_sources, per_source_counts, errors,
	started_at, finished_at, created_at, updated_at`

	var run models.ScrapeRun
	err := r.db.GetContext(ctx, &run, query, string(to), id, string(from))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Row exists but is no longer in `from`, or does not exist at all.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, errors.Wrapf(models.ErrInvalidTransition, "run %s is not %s", id, from)
		}
		r.logger.Error("failed to transition scrape run",
			zap.String("id", id), zap.String("from", string(from)), zap.String("to", string(to)), zap.Error(err))
		return nil, errors.Wrap(err, "transition scrape run")
	}
	return &run, nil
}

// RecordResults writes the per-source tallies and error list accumulated by
// a run. Called while the run is still running.
func (r *Repository) RecordResults(ctx context.Context, id string, counts models.SourceCountMap, runErrors models.RunErrorList) error {
	ub := database.NewUpdateBuilder()
	ub.Update("scrape_runs")
	ub.Set(
		ub.Assign("per_source_counts", counts),
		ub.Assign("errors", runErrors),
		"updated_at = now()",
	)
	ub.Where(ub.Equal("id", id))

	query, args := ub.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("failed to record run results", zap.String("id", id), zap.Error(err))
		return errors.Wrap(err, "record run results")
	}
	return nil
}

// CancelRequested reports whether a cancel has been asked for, used by the
// orchestrator between source dispatches.
func (r *Repository) CancelRequested(ctx context.Context, id string) (bool, error) {
	sb := database.NewSelectBuilder()
	sb.Select("status")
	sb.From("scrape_runs")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var status string
	if err := r.db.GetContext(ctx, &status, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, models.ErrNotFound
		}
		return false, errors.Wrap(err, "get run status")
	}
	return models.RunStatus(status) == models.RunCancelled, nil
}

// PruneOlderThan deletes terminal runs finished before the cutoff.
func (r *Repository) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	db := database.NewDeleteBuilder()
	db.DeleteFrom("scrape_runs")
	db.Where(
		db.In("status", "completed", "failed", "cancelled"),
		db.LE("finished_at", cutoff),
	)

	query, args := db.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "prune scrape runs")
	}
	return result.RowsAffected()
}

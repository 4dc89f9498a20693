// Package events handles event emission for posting lifecycle changes.
package events

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/PNGURuckus/EasyInterns/pkg/kafka"
	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

// Emitter publishes lifecycle events. A nil producer disables emission, so
// the pipeline never branches on whether Kafka is configured.
type Emitter struct {
	producer *kafka.Producer
	logger   *zap.Logger
}

// NewEmitter creates an event emitter. producer may be nil.
func NewEmitter(producer *kafka.Producer, logger *zap.Logger) *Emitter {
	return &Emitter{producer: producer, logger: logger}
}

// Enabled reports whether events actually go anywhere.
func (e *Emitter) Enabled() bool {
	return e.producer != nil
}

// EmitPostingCreated emits posting.created for a first-seen fingerprint.
func (e *Emitter) EmitPostingCreated(ctx context.Context, posting *models.CanonicalPosting) error {
	if e.producer == nil {
		return nil
	}

	event := PostingCreatedEvent{
		BaseEvent:   NewBaseEvent(EventTypePostingCreated),
		PostingID:   posting.ID,
		Fingerprint: posting.Fingerprint,
		Title:       posting.Title,
		CompanyName: posting.CompanyName,
		SourceIDs:   posting.SourceIDs,
	}
	if err := e.producer.Publish(ctx, string(EventTypePostingCreated), posting.ID, event); err != nil {
		e.logger.Error("failed to emit posting.created", zap.String("posting_id", posting.ID), zap.Error(err))
		return err
	}
	return nil
}

// EmitPostingMerged emits posting.merged when an observation changed an
// existing posting.
func (e *Emitter) EmitPostingMerged(ctx context.Context, posting *models.CanonicalPosting) error {
	if e.producer == nil {
		return nil
	}

	event := PostingMergedEvent{
		BaseEvent:   NewBaseEvent(EventTypePostingMerged),
		PostingID:   posting.ID,
		Fingerprint: posting.Fingerprint,
		SourceIDs:   posting.SourceIDs,
	}
	if err := e.producer.Publish(ctx, string(EventTypePostingMerged), posting.ID, event); err != nil {
		e.logger.Error("failed to emit posting.merged", zap.String("posting_id", posting.ID), zap.Error(err))
		return err
	}
	return nil
}

// EmitRunCompleted emits run.completed once a run reaches a terminal state.
func (e *Emitter) EmitRunCompleted(ctx context.Context, run *models.ScrapeRun) error {
	if e.producer == nil {
		return nil
	}

	var duration time.Duration
	if run.StartedAt != nil && run.FinishedAt != nil {
		duration = run.FinishedAt.Sub(*run.StartedAt)
	}

	event := RunCompletedEvent{
		BaseEvent:       NewBaseEvent(EventTypeRunCompleted),
		RunID:           run.ID,
		Status:          run.Status,
		PerSourceCounts: run.PerSourceCounts,
		ErrorCount:      len(run.Errors),
		DurationMS:      duration.Milliseconds(),
	}
	if err := e.producer.Publish(ctx, string(EventTypeRunCompleted), run.ID, event); err != nil {
		e.logger.Error("failed to emit run.completed", zap.String("run_id", run.ID), zap.Error(err))
		return err
	}
	return nil
}

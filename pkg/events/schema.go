package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

// SchemaVersion is the current event schema version.
const SchemaVersion = "1.0"

// EventType defines the type of event.
type EventType string

const (
	EventTypePostingCreated EventType = "posting.created"
	EventTypePostingMerged  EventType = "posting.merged"
	EventTypeRunCompleted   EventType = "run.completed"
)

// BaseEvent contains common fields for all events.
type BaseEvent struct {
	EventType     EventType `json:"event_type"`
	SchemaVersion string    `json:"schema_version"`
	Timestamp     time.Time `json:"timestamp"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// PostingCreatedEvent is emitted the first time a fingerprint is seen.
type PostingCreatedEvent struct {
	BaseEvent
	PostingID   string   `json:"posting_id"`
	Fingerprint string   `json:"fingerprint"`
	Title       string   `json:"title"`
	CompanyName string   `json:"company_name"`
	SourceIDs   []string `json:"source_ids"`
}

// PostingMergedEvent is emitted when a new observation merges into an
// existing posting and changes it.
type PostingMergedEvent struct {
	BaseEvent
	PostingID   string   `json:"posting_id"`
	Fingerprint string   `json:"fingerprint"`
	SourceIDs   []string `json:"source_ids"`
}

// RunCompletedEvent is emitted when a scrape run reaches a terminal state.
type RunCompletedEvent struct {
	BaseEvent
	RunID           string                `json:"run_id"`
	Status          models.RunStatus      `json:"status"`
	PerSourceCounts models.SourceCountMap `json:"per_source_counts"`
	ErrorCount      int                   `json:"error_count"`
	DurationMS      int64                 `json:"duration_ms"`
}

// NewBaseEvent creates a base event with common fields.
func NewBaseEvent(eventType EventType) BaseEvent {
	return BaseEvent{
		EventType:     eventType,
		SchemaVersion: SchemaVersion,
		Timestamp:     time.Now().UTC(),
		CorrelationID: uuid.New().String(),
	}
}

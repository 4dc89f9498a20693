package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// RunStatus is the lifecycle state of a scrape run.
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
	RunCancelled RunStatus = "cancelled"
)

// validRunTransitions is the full transition table. Terminal states have no
// outgoing transitions.
var validRunTransitions = map[RunStatus][]RunStatus{
	RunPending:   {RunRunning, RunCancelled},
	RunRunning:   {RunCompleted, RunFailed, RunCancelled},
	RunCompleted: {},
	RunFailed:    {},
	RunCancelled: {},
}

// ParseRunStatus validates a raw status string.
func ParseRunStatus(s string) (RunStatus, error) {
	status := RunStatus(s)
	if _, ok := validRunTransitions[status]; !ok {
		return "", errors.Errorf("unknown run status %q", s)
	}
	return status, nil
}

// CanTransition reports whether from -> to is an allowed status change.
func CanTransition(from, to RunStatus) bool {
	for _, allowed := range validRunTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether status has no outgoing transitions.
func (s RunStatus) IsTerminal() bool {
	return len(validRunTransitions[s]) == 0
}

// SourceCounts is the per-source outcome tally for one run.
type SourceCounts struct {
	New     int `json:"new"`
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
	Skipped int `json:"skipped"`
}

// SourceCountMap maps source id -> counts; stored as jsonb.
type SourceCountMap map[string]SourceCounts

func (m SourceCountMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *SourceCountMap) Scan(src any) error {
	if src == nil {
		*m = SourceCountMap{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return errors.Errorf("cannot scan %T into SourceCountMap", src)
	}
	return json.Unmarshal(b, m)
}

// RunError is one recorded source failure. The run itself can still complete.
type RunError struct {
	SourceID   string    `json:"source_id"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RunErrorList is stored as jsonb.
type RunErrorList []RunError

func (l RunErrorList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *RunErrorList) Scan(src any) error {
	if src == nil {
		*l = RunErrorList{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return errors.Errorf("cannot scan %T into RunErrorList", src)
	}
	return json.Unmarshal(b, l)
}

// ScrapeRun tracks one ingestion pass over a set of sources.
// Field order matches schema: id, status, requested_sources, ...
type ScrapeRun struct {
	ID               string         `json:"id" db:"id"`
	Status           RunStatus      `json:"status" db:"status"`
	RequestedSources pq.StringArray `json:"requested_sources" db:"requested_sources"`
	PerSourceCounts  SourceCountMap `json:"per_source_counts" db:"per_source_counts"`
	Errors           RunErrorList   `json:"errors" db:"errors"`
	StartedAt        *time.Time     `json:"started_at,omitempty" db:"started_at"`
	FinishedAt       *time.Time     `json:"finished_at,omitempty" db:"finished_at"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at"`
}

// StartScrapeRequest is the request body for triggering a run. An empty
// source list means "all enabled sources".
type StartScrapeRequest struct {
	Sources []string `json:"sources" validate:"omitempty,dive,min=1"`
}

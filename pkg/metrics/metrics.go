// Package metrics defines the Prometheus instruments for ingestion.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsStarted counts scrape runs that entered the running state.
	RunsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "easyinterns_scrape_runs_started_total",
		Help: "Scrape runs started.",
	})

	// RunsFinished counts runs by terminal status.
	RunsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "easyinterns_scrape_runs_finished_total",
		Help: "Scrape runs finished, by terminal status.",
	}, []string{"status"})

	// PostingsIngested counts pipeline outcomes per source.
	PostingsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "easyinterns_postings_ingested_total",
		Help: "Postings processed by the ingest pipeline, by source and outcome.",
	}, []string{"source", "outcome"}) // outcome: new, updated, unchanged, dropped

	// SourceErrors counts typed source failures.
	SourceErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "easyinterns_source_errors_total",
		Help: "Source failures, by source and error kind.",
	}, []string{"source", "kind"}) // kind: unavailable, format_changed, other

	// SourceDuration observes per-source scrape latency.
	SourceDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "easyinterns_source_scrape_duration_seconds",
		Help:    "Wall time of one source scrape within a run.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	}, []string{"source"})

	// ContactsExtracted counts contact emails stored above zero confidence.
	ContactsExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "easyinterns_contact_emails_extracted_total",
		Help: "Contact emails extracted from postings.",
	})
)

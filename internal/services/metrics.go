package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ingestOutcomes counts every file that went through the ingestion pipeline,
// by terminal outcome (created, duplicate, skipped, failed).
var ingestOutcomes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "pdfbackend",
		Subsystem: "ingest",
		Name:      "files_total",
		Help:      "Ingested files by terminal outcome.",
	},
	[]string{"outcome"},
)

// snapshotOps counts dataset snapshot exports and imports, by result.
var snapshotOps = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "pdfbackend",
		Subsystem: "snapshot",
		Name:      "operations_total",
		Help:      "Snapshot exports and imports by result.",
	},
	[]string{"op", "result"},
)

// Package metrics provides Prometheus instrumentation for Tabula sinks.
// The tabular core itself has no observability side channel; sinks
// record what they write.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RowsWritten counts rows written per table and sink kind.
	RowsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tabula_rows_written_total",
			Help: "Total number of rows written, by table and sink kind",
		},
		[]string{"table", "sink"},
	)

	// SessionsStarted counts output sessions (prolog calls) per table
	// and sink kind.
	SessionsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tabula_output_sessions_total",
			Help: "Total number of output sessions started, by table and sink kind",
		},
		[]string{"table", "sink"},
	)

	// RowWriteDuration tracks the latency of single row writes per
	// sink kind.
	RowWriteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tabula_row_write_duration_seconds",
			Help:    "Latency of single row writes, by sink kind",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		},
		[]string{"sink"},
	)
)

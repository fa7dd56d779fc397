// Package metrics exposes Prometheus counters/histograms for the
// build and query paths. Grounded on metrics/metrics.go's package-level
// promauto.New*Vec style, retargeted from RPC-method labels to the
// build/query domain.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var WordsProcessed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "shaha_build_words_processed_total",
		Help: "Unique words fed into the hash fan-out, by source",
	},
	[]string{"source"},
)

var RecordsWritten = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "shaha_build_records_written_total",
		Help: "Records written to the artifact, by source",
	},
	[]string{"source"},
)

var BuildDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "shaha_build_duration_seconds",
		Help:    "Build pipeline duration",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
	},
	[]string{"append"},
)

var QueryLatency = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "shaha_query_latency_seconds",
		Help:    "Query latency by backend",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	},
	[]string{"backend"},
)

var BloomProbeResult = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "shaha_bloom_probe_total",
		Help: "Membership filter probe outcomes",
	},
	[]string{"result"}, // "maybe_present" or "definitely_absent"
)

var RowGroupsScanned = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "shaha_rowgroups_scanned_total",
		Help: "Row groups admitted past the prefix-in-range test vs total in file",
	},
	[]string{"outcome"}, // "scanned" or "pruned"
)

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "creview_scan_seconds",
		Help:    "Time spent discovering files under the project root.",
		Buckets: prometheus.DefBuckets,
	})

	ExtractDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "creview_phase_seconds",
		Help:    "Time spent in each analysis phase.",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})

	FilesScanned = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "creview_files_total",
		Help: "Number of files in the last completed scan.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "creview_include_edges_total",
		Help: "Number of resolved include edges in the dependency graph.",
	})

	CyclesFound = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "creview_cycles_total",
		Help: "Number of include cycles found in the last run.",
	})

	UnresolvedIncludes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "creview_unresolved_includes_total",
		Help: "Number of local includes that matched no scanned file.",
	})

	FunctionsTracked = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "creview_functions_total",
		Help: "Number of function definitions in the call graph.",
	})

	CallEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "creview_call_edges_total",
		Help: "Number of resolved call edges.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "creview_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RescansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "creview_rescans_total",
		Help: "Total number of full re-analyses triggered by file changes.",
	})

	RescansThrottledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "creview_rescans_throttled_total",
		Help: "Total number of change batches dropped by the rescan rate limit.",
	})
)

// Package app wires the pipeline together: scan, extract, resolve
// includes, cross-reference, measure complexity and aggregate modules.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"creview/internal/complexity"
	"creview/internal/config"
	"creview/internal/extract"
	"creview/internal/graph"
	"creview/internal/history"
	"creview/internal/modules"
	"creview/internal/query"
	"creview/internal/resolve"
	"creview/internal/scanner"
	"creview/internal/shared/observability"
	"creview/internal/shared/util"
	"creview/internal/watcher"
	"creview/internal/xref"
)

// Analysis is one complete pass over the codebase.
type Analysis struct {
	Files      *scanner.FileSet
	Facts      *extract.Facts
	Includes   *resolve.Result
	Cycles     [][]string
	Xrefs      *xref.Result
	Procedures []complexity.Procedure
	Modules    map[string]*modules.Module

	Timestamp time.Time
	Duration  time.Duration
}

// Graph is a shortcut to the resolved include graph.
func (a *Analysis) Graph() *graph.DependencyGraph {
	return a.Includes.Graph
}

type App struct {
	Config      *config.Config
	Categorizer *modules.Categorizer

	store   *history.Store
	limiter *util.Limiter

	mu            sync.RWMutex
	last          *Analysis
	lastErr       error
	onUpdate      func(*Analysis)
	activeWatcher *watcher.Watcher
}

func New(cfg *config.Config) (*App, error) {
	a := &App{
		Config:      cfg,
		Categorizer: modules.NewCategorizer(cfg.Categories),
		// At most one rescan per second, small burst.
		limiter: util.NewLimiter(1, 2),
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("open history store: %w", err)
		}
		a.store = store
	}

	return a, nil
}

func (a *App) Close() error {
	if a.activeWatcher != nil {
		if err := a.activeWatcher.Close(); err != nil {
			return err
		}
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

func (a *App) SetUpdateHandler(handler func(*Analysis)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onUpdate = handler
}

// Run executes the full pipeline once and records the result as the
// current analysis.
func (a *App) Run(ctx context.Context) (*Analysis, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.Run", trace.WithAttributes())
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	s, err := scanner.New(a.Config.Root, scanner.Options{
		ExcludeDirs:    a.Config.Exclude.Dirs,
		ExcludeFiles:   a.Config.Exclude.Files,
		IncludeSystem:  a.Config.IncludeSystem,
		SystemPrefixes: a.Config.SystemPrefixes,
	})
	if err != nil {
		a.recordFailure(err)
		return nil, err
	}

	scanStart := time.Now()
	fs, err := s.Scan()
	if err != nil {
		a.recordFailure(err)
		return nil, fmt.Errorf("scan %s: %w", a.Config.Root, err)
	}
	observability.ScanDuration.Observe(time.Since(scanStart).Seconds())
	observability.FilesScanned.Set(float64(len(fs.Order)))

	var facts *extract.Facts
	phase(ctx, "extract", func() {
		facts = extract.ScanAll(fs, a.Config.Workers)
	})

	var includes *resolve.Result
	phase(ctx, "resolve", func() {
		includes = resolve.Resolve(fs)
	})
	cycles := includes.Graph.DetectCycles()
	observability.GraphEdges.Set(float64(includes.Graph.EdgeCount()))
	observability.CyclesFound.Set(float64(len(cycles)))
	observability.UnresolvedIncludes.Set(float64(includes.UnresolvedCount()))

	var xrefs *xref.Result
	phase(ctx, "xref", func() {
		xrefs = xref.Build(fs, facts, a.Config.Workers)
	})
	observability.FunctionsTracked.Set(float64(len(xrefs.Functions)))
	observability.CallEdges.Set(float64(len(xrefs.CallEdges)))

	var procs []complexity.Procedure
	phase(ctx, "complexity", func() {
		procs = complexity.AnalyzeAll(fs)
	})

	mods := modules.Aggregate(fs, includes.Graph, a.Config.FileLayers(fs.Order))

	analysis := &Analysis{
		Files:      fs,
		Facts:      facts,
		Includes:   includes,
		Cycles:     cycles,
		Xrefs:      xrefs,
		Procedures: procs,
		Modules:    mods,
		Timestamp:  start.UTC(),
		Duration:   time.Since(start),
	}

	a.mu.Lock()
	a.last = analysis
	a.lastErr = nil
	handler := a.onUpdate
	a.mu.Unlock()

	if handler != nil {
		handler(analysis)
	}
	return analysis, nil
}

func phase(ctx context.Context, name string, fn func()) {
	_, span := observability.Tracer.Start(ctx, "app.phase."+name)
	defer span.End()
	start := time.Now()
	fn()
	observability.ExtractDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
}

func (a *App) recordFailure(err error) {
	a.mu.Lock()
	a.lastErr = err
	a.mu.Unlock()
}

// Current returns the latest completed analysis, nil before the first
// successful run.
func (a *App) Current() *Analysis {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.last
}

// Health implements observability.HealthSource.
func (a *App) Health() observability.HealthStatus {
	a.mu.RLock()
	defer a.mu.RUnlock()

	status := observability.HealthStatus{Status: "up", LastRunOK: a.lastErr == nil}
	if a.last != nil {
		status.LastRun = a.last.Timestamp
		status.FilesKnown = len(a.last.Files.Order)
	}
	if a.lastErr != nil {
		status.Status = "degraded"
	}
	return status
}

// ProjectKey identifies this codebase in the history store.
func (a *App) ProjectKey() string {
	abs, err := filepath.Abs(a.Config.Root)
	if err != nil {
		return filepath.Base(a.Config.Root)
	}
	return filepath.Base(abs)
}

// SaveSnapshot persists the headline numbers of an analysis. A nil
// store makes it a no-op so history stays optional.
func (a *App) SaveSnapshot(analysis *Analysis) error {
	if a.store == nil {
		return nil
	}
	return a.store.SaveSnapshot(a.ProjectKey(), buildSnapshot(analysis))
}

func buildSnapshot(analysis *Analysis) history.Snapshot {
	g := analysis.Graph()
	procStats := complexity.Summarize(analysis.Procedures)

	snapshot := history.Snapshot{
		Timestamp:       analysis.Timestamp,
		FileCount:       len(analysis.Files.Order),
		HeaderCount:     analysis.Files.Headers(),
		SourceCount:     analysis.Files.Sources(),
		LineCount:       analysis.Files.TotalLines(),
		ModuleCount:     len(analysis.Modules),
		EdgeCount:       g.EdgeCount(),
		CycleCount:      len(analysis.Cycles),
		UnresolvedCount: analysis.Includes.UnresolvedCount(),
		FunctionCount:   len(analysis.Xrefs.Functions),
		CallEdgeCount:   len(analysis.Xrefs.CallEdges),
		StructCount:     len(analysis.Facts.Structs),
		AvgComplexity:   procStats.AvgComplexity,
		MaxComplexity:   procStats.MaxComplexity,
	}

	metrics := g.Metrics()
	if len(metrics) > 0 {
		sumIn, sumOut := 0, 0
		for _, m := range metrics {
			sumIn += m.FanIn
			sumOut += m.FanOut
			if m.FanIn > snapshot.MaxFanIn {
				snapshot.MaxFanIn = m.FanIn
			}
			if m.FanOut > snapshot.MaxFanOut {
				snapshot.MaxFanOut = m.FanOut
			}
		}
		snapshot.AvgFanIn = float64(sumIn) / float64(len(metrics))
		snapshot.AvgFanOut = float64(sumOut) / float64(len(metrics))
	}

	return snapshot
}

// TrendReport builds the moving-average trend view from stored
// snapshots, or an error when history is disabled.
func (a *App) TrendReport(since time.Time, window time.Duration) (history.TrendReport, error) {
	if a.store == nil {
		return history.TrendReport{}, fmt.Errorf("history store unavailable")
	}
	snapshots, err := a.store.LoadSnapshots(a.ProjectKey(), since)
	if err != nil {
		return history.TrendReport{}, err
	}
	return history.BuildTrendReport(snapshots, window)
}

// BuildQueryService exposes the latest analysis through the read-only
// query API.
func (a *App) BuildQueryService() (*query.Service, error) {
	analysis := a.Current()
	if analysis == nil {
		return nil, fmt.Errorf("no analysis available yet")
	}
	if a.store == nil {
		return query.NewService(analysis.Modules, analysis.Graph(), analysis.Xrefs, nil, a.ProjectKey()), nil
	}
	return query.NewService(analysis.Modules, analysis.Graph(), analysis.Xrefs, a.store, a.ProjectKey()), nil
}

// HandleChanges re-runs the whole pipeline after watcher events. The
// analysis is cheap enough that incremental invalidation is not worth
// the bookkeeping; the limiter keeps event storms in check.
func (a *App) HandleChanges(paths []string) {
	if !a.limiter.Allow(1) {
		observability.RescansThrottledTotal.Inc()
		return
	}
	observability.RescansTotal.Inc()

	analysis, err := a.Refresh(context.Background())
	if err != nil {
		slog.Warn("rescan failed", "error", err)
		return
	}
	a.PrintChangeSummary(len(paths), analysis)
}

// Refresh runs the pipeline and performs the post-run side effects:
// artifact generation and snapshot persistence.
func (a *App) Refresh(ctx context.Context) (*Analysis, error) {
	analysis, err := a.Run(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.GenerateOutputs(analysis); err != nil {
		slog.Error("failed to generate outputs", "error", err)
	}
	if err := a.SaveSnapshot(analysis); err != nil {
		slog.Error("failed to save snapshot", "error", err)
	}
	return analysis, nil
}

func (a *App) StartWatcher() error {
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		a.HandleChanges,
	)
	if err != nil {
		return err
	}
	a.activeWatcher = w
	return w.Watch(a.Config.Root)
}

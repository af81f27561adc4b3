// Package query answers read-only questions about a finished analysis:
// module listings, dependency hotspots, call-graph leaderboards and
// historical trend slices.
package query

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"creview/internal/graph"
	"creview/internal/history"
	"creview/internal/modules"
	"creview/internal/xref"
)

type snapshotReader interface {
	LoadSnapshots(projectKey string, since time.Time) ([]history.Snapshot, error)
}

type Service struct {
	modules    map[string]*modules.Module
	graph      *graph.DependencyGraph
	xrefs      *xref.Result
	history    snapshotReader
	projectKey string
}

func NewService(mods map[string]*modules.Module, g *graph.DependencyGraph, x *xref.Result, h snapshotReader, projectKey string) *Service {
	return &Service{
		modules:    mods,
		graph:      g,
		xrefs:      x,
		history:    h,
		projectKey: projectKey,
	}
}

func (s *Service) ListModules(ctx context.Context, filter string, limit int) ([]ModuleSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filter = strings.ToLower(strings.TrimSpace(filter))
	rows := make([]ModuleSummary, 0, len(s.modules))
	for name, mod := range s.modules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if filter != "" && !strings.Contains(strings.ToLower(name), filter) {
			continue
		}
		rows = append(rows, ModuleSummary{
			Name:                   name,
			Layer:                  mod.Layer,
			FileCount:              len(mod.Files),
			HeaderCount:            mod.Headers,
			SourceCount:            mod.Sources,
			LineCount:              mod.Lines,
			DependencyCount:        len(mod.Dependencies),
			ReverseDependencyCount: len(mod.Dependents),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Name < rows[j].Name
	})

	if limit > 0 && len(rows) > limit {
		return rows[:limit], nil
	}
	return rows, nil
}

func (s *Service) ModuleDetails(ctx context.Context, moduleName string) (ModuleDetails, error) {
	if err := ctx.Err(); err != nil {
		return ModuleDetails{}, err
	}

	mod, ok := s.modules[moduleName]
	if !ok {
		return ModuleDetails{}, fmt.Errorf("module not found: %s", moduleName)
	}

	files := append([]string(nil), mod.Files...)
	sort.Strings(files)

	return ModuleDetails{
		Name:                moduleName,
		Layer:               mod.Layer,
		Files:               files,
		LineCount:           mod.Lines,
		Dependencies:        mod.SortedDependencies(),
		ReverseDependencies: mod.SortedDependents(),
	}, nil
}

// FunctionDetails resolves a single function from the call graph with
// its callers and callees in sorted order.
func (s *Service) FunctionDetails(ctx context.Context, name string) (FunctionDetails, error) {
	if err := ctx.Err(); err != nil {
		return FunctionDetails{}, err
	}

	fn, ok := s.xrefs.Functions[name]
	if !ok {
		return FunctionDetails{}, fmt.Errorf("function not found: %s", name)
	}

	callers := make([]string, 0, len(fn.CalledBy))
	for caller := range fn.CalledBy {
		callers = append(callers, caller)
	}
	sort.Strings(callers)

	callees := make([]string, 0, len(fn.Calls))
	for callee := range fn.Calls {
		callees = append(callees, callee)
	}
	sort.Strings(callees)

	return FunctionDetails{
		Name:       fn.Name,
		File:       fn.File,
		Line:       fn.Line,
		ReturnType: fn.ReturnType,
		Callers:    callers,
		Callees:    callees,
	}, nil
}

func (s *Service) MostIncluded(ctx context.Context, limit int) ([]graph.FileMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.graph.MostIncluded(limit), nil
}

func (s *Service) MostIncluding(ctx context.Context, limit int) ([]graph.FileMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.graph.MostIncluding(limit), nil
}

func (s *Service) MostCalled(ctx context.Context, limit int) ([]xref.FunctionCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.xrefs.MostCalled(limit), nil
}

func (s *Service) MostCalling(ctx context.Context, limit int) ([]xref.FunctionCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.xrefs.MostCalling(limit), nil
}

func (s *Service) EntryPoints(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.xrefs.EntryPoints(), nil
}

func (s *Service) LeafFunctions(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.xrefs.LeafFunctions(), nil
}

// StructAccessors reports which files read, write or reference a
// tracked struct.
func (s *Service) StructAccessors(ctx context.Context, structName string) (xref.StructAccessors, error) {
	if err := ctx.Err(); err != nil {
		return xref.StructAccessors{}, err
	}
	if _, ok := s.xrefs.StructUsage[structName]; !ok {
		return xref.StructAccessors{}, fmt.Errorf("struct not found: %s", structName)
	}
	return s.xrefs.Accessors(structName), nil
}

func (s *Service) TrendSlice(ctx context.Context, since time.Time, limit int) (TrendSlice, error) {
	if err := ctx.Err(); err != nil {
		return TrendSlice{}, err
	}
	if s.history == nil {
		return TrendSlice{}, fmt.Errorf("history store unavailable")
	}

	snapshots, err := s.history.LoadSnapshots(s.projectKey, since)
	if err != nil {
		return TrendSlice{}, err
	}

	if limit > 0 && len(snapshots) > limit {
		snapshots = snapshots[len(snapshots)-limit:]
	}

	out := TrendSlice{
		ScanCount: len(snapshots),
		Snapshots: snapshots,
	}
	if len(snapshots) > 0 {
		out.Since = snapshots[0].Timestamp.Format(time.RFC3339)
		out.Until = snapshots[len(snapshots)-1].Timestamp.Format(time.RFC3339)
	}
	return out, nil
}

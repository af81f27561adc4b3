package query

import (
	"context"
	"testing"
	"time"

	"creview/internal/graph"
	"creview/internal/history"
	"creview/internal/modules"
	"creview/internal/xref"
)

type fakeHistoryStore struct {
	snapshots []history.Snapshot
	err       error
}

func (f fakeHistoryStore) LoadSnapshots(projectKey string, since time.Time) ([]history.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]history.Snapshot, 0, len(f.snapshots))
	for _, snapshot := range f.snapshots {
		if !since.IsZero() && snapshot.Timestamp.Before(since) {
			continue
		}
		out = append(out, snapshot)
	}
	return out, nil
}

func seedModules() map[string]*modules.Module {
	return map[string]*modules.Module{
		"core": {
			Name:         "core",
			Files:        []string{"core/engine.c", "core/engine.h"},
			Headers:      1,
			Sources:      1,
			Lines:        120,
			Dependencies: map[string]bool{"util": true},
			Dependents:   map[string]bool{"app": true},
			Layer:        "domain",
		},
		"util": {
			Name:         "util",
			Files:        []string{"util/log.c", "util/log.h"},
			Headers:      1,
			Sources:      1,
			Lines:        40,
			Dependencies: map[string]bool{},
			Dependents:   map[string]bool{"core": true},
		},
		"app": {
			Name:         "app",
			Files:        []string{"app/main.c"},
			Sources:      1,
			Lines:        30,
			Dependencies: map[string]bool{"core": true},
			Dependents:   map[string]bool{},
		},
	}
}

func seedGraph() *graph.DependencyGraph {
	g := graph.New()
	g.AddEdge("app/main.c", "core/engine.h")
	g.AddEdge("core/engine.c", "core/engine.h")
	g.AddEdge("core/engine.c", "util/log.h")
	g.AddEdge("util/log.c", "util/log.h")
	return g
}

func seedXrefs() *xref.Result {
	return &xref.Result{
		Functions: map[string]*xref.Function{
			"main": {
				Name: "main", File: "app/main.c", Line: 3, ReturnType: "int",
				Calls:    map[string]bool{"engine_run": true},
				CalledBy: map[string]bool{},
			},
			"engine_run": {
				Name: "engine_run", File: "core/engine.c", Line: 10, ReturnType: "int",
				Calls:    map[string]bool{"log_msg": true},
				CalledBy: map[string]bool{"main": true},
			},
			"log_msg": {
				Name: "log_msg", File: "util/log.c", Line: 5, ReturnType: "void",
				Calls:    map[string]bool{},
				CalledBy: map[string]bool{"engine_run": true},
			},
		},
	}
}

func newTestService(h snapshotReader) *Service {
	return NewService(seedModules(), seedGraph(), seedXrefs(), h, "proj")
}

func TestService_ListModules(t *testing.T) {
	svc := newTestService(nil)
	got, err := svc.ListModules(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("list modules: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 modules, got %d", len(got))
	}
	if got[0].Name != "app" || got[1].Name != "core" || got[2].Name != "util" {
		t.Fatalf("unexpected ordering: %+v", got)
	}
	if got[1].FileCount != 2 || got[1].HeaderCount != 1 || got[1].LineCount != 120 {
		t.Fatalf("unexpected core summary: %+v", got[1])
	}
	if got[1].DependencyCount != 1 || got[1].ReverseDependencyCount != 1 {
		t.Fatalf("unexpected core edge counts: %+v", got[1])
	}
}

func TestService_ListModulesFilterAndLimit(t *testing.T) {
	svc := newTestService(nil)
	got, err := svc.ListModules(context.Background(), "COR", 0)
	if err != nil {
		t.Fatalf("list modules: %v", err)
	}
	if len(got) != 1 || got[0].Name != "core" {
		t.Fatalf("expected only core, got %+v", got)
	}

	got, err = svc.ListModules(context.Background(), "", 2)
	if err != nil {
		t.Fatalf("list modules: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(got))
	}
}

func TestService_ModuleDetails(t *testing.T) {
	svc := newTestService(nil)
	details, err := svc.ModuleDetails(context.Background(), "core")
	if err != nil {
		t.Fatalf("module details: %v", err)
	}
	if details.Layer != "domain" {
		t.Fatalf("expected domain layer, got %q", details.Layer)
	}
	if len(details.Dependencies) != 1 || details.Dependencies[0] != "util" {
		t.Fatalf("unexpected dependencies: %+v", details.Dependencies)
	}
	if len(details.ReverseDependencies) != 1 || details.ReverseDependencies[0] != "app" {
		t.Fatalf("unexpected reverse dependencies: %+v", details.ReverseDependencies)
	}

	if _, err := svc.ModuleDetails(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for unknown module")
	}
}

func TestService_FunctionDetails(t *testing.T) {
	svc := newTestService(nil)
	fn, err := svc.FunctionDetails(context.Background(), "engine_run")
	if err != nil {
		t.Fatalf("function details: %v", err)
	}
	if fn.File != "core/engine.c" || fn.Line != 10 {
		t.Fatalf("unexpected location: %+v", fn)
	}
	if len(fn.Callers) != 1 || fn.Callers[0] != "main" {
		t.Fatalf("unexpected callers: %+v", fn.Callers)
	}
	if len(fn.Callees) != 1 || fn.Callees[0] != "log_msg" {
		t.Fatalf("unexpected callees: %+v", fn.Callees)
	}

	if _, err := svc.FunctionDetails(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for unknown function")
	}
}

func TestService_Leaderboards(t *testing.T) {
	svc := newTestService(nil)

	included, err := svc.MostIncluded(context.Background(), 1)
	if err != nil {
		t.Fatalf("most included: %v", err)
	}
	if len(included) != 1 || included[0].Path != "core/engine.h" || included[0].FanIn != 2 {
		t.Fatalf("unexpected most included: %+v", included)
	}

	including, err := svc.MostIncluding(context.Background(), 1)
	if err != nil {
		t.Fatalf("most including: %v", err)
	}
	if len(including) != 1 || including[0].Path != "core/engine.c" {
		t.Fatalf("unexpected most including: %+v", including)
	}

	entries, err := svc.EntryPoints(context.Background())
	if err != nil {
		t.Fatalf("entry points: %v", err)
	}
	if len(entries) != 1 || entries[0] != "main" {
		t.Fatalf("unexpected entry points: %+v", entries)
	}

	leaves, err := svc.LeafFunctions(context.Background())
	if err != nil {
		t.Fatalf("leaf functions: %v", err)
	}
	if len(leaves) != 1 || leaves[0] != "log_msg" {
		t.Fatalf("unexpected leaf functions: %+v", leaves)
	}
}

func TestService_StructAccessors(t *testing.T) {
	svc := newTestService(nil)
	svc.xrefs.StructUsage = map[string]map[string]*xref.StructUsage{
		"Engine": {
			"app/main.c":    {Reads: 2},
			"core/engine.c": {Reads: 1, Writes: 3},
		},
	}

	acc, err := svc.StructAccessors(context.Background(), "Engine")
	if err != nil {
		t.Fatalf("struct accessors: %v", err)
	}
	if len(acc.Writers) != 1 || acc.Writers[0] != "core/engine.c" {
		t.Fatalf("unexpected writers: %+v", acc.Writers)
	}
	if len(acc.Readers) != 2 {
		t.Fatalf("unexpected readers: %+v", acc.Readers)
	}

	if _, err := svc.StructAccessors(context.Background(), "Ghost"); err == nil {
		t.Fatal("expected error for unknown struct")
	}
}

func TestService_TrendSlice(t *testing.T) {
	base := time.Date(2026, 8, 13, 12, 0, 0, 0, time.UTC)
	store := fakeHistoryStore{
		snapshots: []history.Snapshot{
			{Timestamp: base.Add(-48 * time.Hour), ModuleCount: 2},
			{Timestamp: base.Add(-12 * time.Hour), ModuleCount: 3},
			{Timestamp: base, ModuleCount: 4},
		},
	}

	svc := NewService(seedModules(), seedGraph(), seedXrefs(), store, "proj")
	slice, err := svc.TrendSlice(context.Background(), base.Add(-24*time.Hour), 1)
	if err != nil {
		t.Fatalf("trend slice: %v", err)
	}
	if slice.ScanCount != 1 {
		t.Fatalf("expected 1 snapshot after filtering and limit, got %d", slice.ScanCount)
	}
	if slice.Snapshots[0].ModuleCount != 4 {
		t.Fatalf("unexpected snapshot payload: %+v", slice.Snapshots[0])
	}
}

func TestService_TrendSliceNoStore(t *testing.T) {
	svc := newTestService(nil)
	if _, err := svc.TrendSlice(context.Background(), time.Time{}, 0); err == nil {
		t.Fatal("expected error when history store is unavailable")
	}
}

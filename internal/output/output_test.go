package output

import (
	"strings"
	"testing"

	"creview/internal/graph"
	"creview/internal/modules"
	"creview/internal/resolve"
	"creview/internal/scanner"
)

func testGraph() (*graph.DependencyGraph, map[string]*modules.Module) {
	g := graph.New()
	g.AddEdge("core/a.h", "core/b.h")
	g.AddEdge("core/b.h", "core/a.h")
	g.AddEdge("util/c.c", "core/a.h")

	fs := &scanner.FileSet{Files: map[string]*scanner.File{
		"core/a.h": {Path: "core/a.h", Directory: "core", IsHeader: true, LineCount: 10},
		"core/b.h": {Path: "core/b.h", Directory: "core", IsHeader: true, LineCount: 10},
		"util/c.c": {Path: "util/c.c", Directory: "util", LineCount: 20},
	}}
	fs.Order = []string{"core/a.h", "core/b.h", "util/c.c"}

	return g, modules.Aggregate(fs, g, nil)
}

func TestDOTGenerate(t *testing.T) {
	g, mods := testGraph()
	cycles := g.DetectCycles()

	dot, err := NewDOTGenerator(g, mods).Generate(cycles)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(dot, "digraph includes {") {
		t.Errorf("missing digraph header: %q", dot[:40])
	}
	if !strings.Contains(dot, `"core/a.h" -> "core/b.h" [color="red"`) {
		t.Error("cycle edge should be red")
	}
	if !strings.Contains(dot, `"util/c.c" -> "core/a.h" [color="forestgreen"`) {
		t.Error("normal edge should be green")
	}
	if !strings.Contains(dot, "mistyrose") {
		t.Error("cycle members should be highlighted")
	}
	if !strings.Contains(dot, `label="core"`) || !strings.Contains(dot, `label="util"`) {
		t.Error("directory clusters missing")
	}
}

func TestTSVGenerate(t *testing.T) {
	g, _ := testGraph()

	tsv, err := NewTSVGenerator(g).Generate()
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(tsv), "\n")
	if lines[0] != "From\tTo\tFanInTo\tFanOutFrom" {
		t.Errorf("header wrong: %q", lines[0])
	}
	if len(lines) != 4 {
		t.Errorf("expected 3 edge rows, got %d", len(lines)-1)
	}
	if !strings.Contains(tsv, "util/c.c\tcore/a.h\t2\t1") {
		t.Errorf("edge row missing or wrong: %q", tsv)
	}
}

func TestGenerateFromResult(t *testing.T) {
	g, _ := testGraph()
	result := &resolve.Result{
		Graph:      g,
		Unresolved: map[string][]string{"util/c.c": {"missing.h"}},
	}

	edges, unresolved, err := GenerateFromResult(result)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(edges, "From\tTo") {
		t.Errorf("edge block header wrong: %q", edges)
	}
	if !strings.Contains(unresolved, "unresolved_include\tutil/c.c\tmissing.h") {
		t.Errorf("unresolved block missing row: %q", unresolved)
	}
}

func TestTSVGenerateUnresolved(t *testing.T) {
	g, _ := testGraph()
	unresolved := map[string][]string{
		"util/c.c": {"missing.h", "gone.h"},
	}

	tsv, err := NewTSVGenerator(g).GenerateUnresolved(unresolved)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(tsv, "unresolved_include\tutil/c.c\tmissing.h") {
		t.Errorf("unresolved row missing: %q", tsv)
	}
	lines := strings.Split(strings.TrimSpace(tsv), "\n")
	if len(lines) != 3 {
		t.Errorf("expected 2 rows, got %d", len(lines)-1)
	}
}

// Package output renders the include graph for external tooling.
package output

import (
	"fmt"
	"strings"

	"creview/internal/graph"
	"creview/internal/modules"
)

type DOTGenerator struct {
	graph *graph.DependencyGraph
	mods  map[string]*modules.Module
}

func NewDOTGenerator(g *graph.DependencyGraph, mods map[string]*modules.Module) *DOTGenerator {
	return &DOTGenerator{graph: g, mods: mods}
}

// Generate emits the file-level include graph in Graphviz syntax with
// cycle members and edges highlighted.
func (d *DOTGenerator) Generate(cycles [][]string) (string, error) {
	var buf strings.Builder

	buf.WriteString("digraph includes {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8, penwidth=1.2];\n")
	buf.WriteString("  ranksep=1.5;\n")
	buf.WriteString("  nodesep=0.6;\n")
	buf.WriteString("  splines=polyline;\n")
	buf.WriteString("  overlap=false;\n\n")

	cycleEdges := make(map[string]map[string]bool)
	cycleNodes := make(map[string]bool)
	for _, cycle := range cycles {
		for i := 0; i+1 < len(cycle); i++ {
			from, to := cycle[i], cycle[i+1]
			if cycleEdges[from] == nil {
				cycleEdges[from] = make(map[string]bool)
			}
			cycleEdges[from][to] = true
			cycleNodes[from] = true
			cycleNodes[to] = true
		}
	}

	// One cluster per directory keeps related files together.
	for i, modName := range modules.Names(d.mods) {
		mod := d.mods[modName]
		buf.WriteString(fmt.Sprintf("  subgraph cluster_%d {\n", i))
		buf.WriteString(fmt.Sprintf("    label=%q;\n", modName))
		buf.WriteString("    style=filled;\n")
		buf.WriteString("    color=\"whitesmoke\";\n")

		for _, file := range mod.Files {
			if cycleNodes[file] {
				buf.WriteString(fmt.Sprintf("    %q [fillcolor=\"mistyrose\", color=\"red\", style=\"rounded,filled\", penwidth=2.0];\n", file))
			} else {
				buf.WriteString(fmt.Sprintf("    %q [fillcolor=\"white\", style=\"rounded,filled\", color=\"darkslategrey\"];\n", file))
			}
		}
		buf.WriteString("  }\n\n")
	}

	for _, edge := range d.graph.Edges() {
		from, to := edge[0], edge[1]
		if cycleEdges[from] != nil && cycleEdges[from][to] {
			buf.WriteString(fmt.Sprintf("  %q -> %q [color=\"red\", penwidth=3.0, label=\"CYCLE\"];\n", from, to))
		} else {
			buf.WriteString(fmt.Sprintf("  %q -> %q [color=\"forestgreen\", penwidth=1.8];\n", from, to))
		}
	}

	buf.WriteString("\n  subgraph cluster_legend {\n")
	buf.WriteString("    label=\"Legend\";\n")
	buf.WriteString("    style=dashed;\n")
	buf.WriteString("    legend_file [label=\"File\", fillcolor=\"white\", style=\"rounded,filled\"];\n")
	buf.WriteString("    legend_cycle [label=\"Cycle Member\", fillcolor=\"mistyrose\", color=\"red\", style=\"rounded,filled\"];\n")
	buf.WriteString("  }\n")

	buf.WriteString("}\n")

	return buf.String(), nil
}

package output

import (
	"fmt"
	"sort"
	"strings"

	"creview/internal/graph"
	"creview/internal/resolve"
)

type TSVGenerator struct {
	graph *graph.DependencyGraph
}

func NewTSVGenerator(g *graph.DependencyGraph) *TSVGenerator {
	return &TSVGenerator{graph: g}
}

// Generate emits one edge per row, sorted so output diffs cleanly.
func (t *TSVGenerator) Generate() (string, error) {
	var buf strings.Builder

	buf.WriteString("From\tTo\tFanInTo\tFanOutFrom\n")
	for _, edge := range t.graph.Edges() {
		from, to := edge[0], edge[1]
		buf.WriteString(fmt.Sprintf("%s\t%s\t%d\t%d\n",
			from, to, t.graph.FanIn(to), t.graph.FanOut(from)))
	}

	return buf.String(), nil
}

// GenerateUnresolved emits the local includes that matched no scanned
// file, one row per (file, include) pair.
func (t *TSVGenerator) GenerateUnresolved(unresolved map[string][]string) (string, error) {
	var buf strings.Builder

	buf.WriteString("Type\tFile\tInclude\n")
	files := make([]string, 0, len(unresolved))
	for f := range unresolved {
		files = append(files, f)
	}
	sort.Strings(files)
	for _, f := range files {
		for _, inc := range unresolved[f] {
			buf.WriteString(fmt.Sprintf("unresolved_include\t%s\t%s\n", f, inc))
		}
	}

	return buf.String(), nil
}

// GenerateFromResult is the one-call form used after a full run.
func GenerateFromResult(r *resolve.Result) (edges, unresolved string, err error) {
	gen := NewTSVGenerator(r.Graph)
	edges, err = gen.Generate()
	if err != nil {
		return "", "", err
	}
	unresolved, err = gen.GenerateUnresolved(r.Unresolved)
	return edges, unresolved, err
}

// Package graph holds the file-level include graph and its analytics:
// cycle detection, fan metrics and instability.
package graph

import (
	"sort"
	"sync"
)

// DependencyGraph is the directed include graph over scanned files.
// Edges are a set per source; the reverse index is maintained
// symmetrically so fan-in queries never walk the whole graph.
type DependencyGraph struct {
	mu sync.RWMutex

	forward map[string]map[string]bool // source -> targets
	reverse map[string]map[string]bool // target -> sources
}

func New() *DependencyGraph {
	return &DependencyGraph{
		forward: make(map[string]map[string]bool),
		reverse: make(map[string]map[string]bool),
	}
}

// AddNode registers a file with no edges yet. Safe to call repeatedly.
func (g *DependencyGraph) AddNode(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.forward[path] == nil {
		g.forward[path] = make(map[string]bool)
	}
	if g.reverse[path] == nil {
		g.reverse[path] = make(map[string]bool)
	}
}

// AddEdge records source -> target and the mirror reverse edge.
// Duplicate edges collapse.
func (g *DependencyGraph) AddEdge(source, target string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.forward[source] == nil {
		g.forward[source] = make(map[string]bool)
	}
	g.forward[source][target] = true
	if g.reverse[target] == nil {
		g.reverse[target] = make(map[string]bool)
	}
	g.reverse[target][source] = true
}

// HasEdge reports whether source includes target.
func (g *DependencyGraph) HasEdge(source, target string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.forward[source][target]
}

// Dependencies returns the sorted targets of a source file.
func (g *DependencyGraph) Dependencies(source string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedKeys(g.forward[source])
}

// Dependents returns the sorted sources that include the target.
func (g *DependencyGraph) Dependents(target string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedKeys(g.reverse[target])
}

// Nodes returns every file that appears in the graph, sorted.
func (g *DependencyGraph) Nodes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	seen := make(map[string]bool, len(g.forward))
	for n := range g.forward {
		seen[n] = true
	}
	for n := range g.reverse {
		seen[n] = true
	}
	return sortedKeys(seen)
}

// EdgeCount returns the number of distinct edges.
func (g *DependencyGraph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := 0
	for _, targets := range g.forward {
		n += len(targets)
	}
	return n
}

// Edges returns all (source, target) pairs sorted by source then target.
func (g *DependencyGraph) Edges() [][2]string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out [][2]string
	for _, src := range sortedKeys(g.forward) {
		for _, dst := range sortedKeys(g.forward[src]) {
			out = append(out, [2]string{src, dst})
		}
	}
	return out
}

func sortedKeys[V any](set map[string]V) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

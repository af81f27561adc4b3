package graph

import "sort"

// DetectCycles finds include cycles by depth-first search with an
// explicit recursion stack. Each unvisited root contributes at most one
// cycle: the first back edge met returns the stack slice from the
// repeated node to the current node, closed by repeating that node.
// Cycles are normalized to start at their lexicographically smallest
// member and deduplicated by exact sequence equality.
func (g *DependencyGraph) DetectCycles() [][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var cycles [][]string
	visited := make(map[string]bool)

	roots := make([]string, 0, len(g.forward))
	for n := range g.forward {
		roots = append(roots, n)
	}
	sort.Strings(roots)

	for _, root := range roots {
		if visited[root] {
			continue
		}
		onStack := make(map[string]bool)
		if cycle := g.findCycle(root, visited, onStack, nil); cycle != nil {
			normalized := normalizeCycle(cycle)
			if !containsCycle(cycles, normalized) {
				cycles = append(cycles, normalized)
			}
		}
	}

	return cycles
}

func (g *DependencyGraph) findCycle(curr string, visited, onStack map[string]bool, path []string) []string {
	visited[curr] = true
	onStack[curr] = true
	path = append(path, curr)

	for _, next := range sortedKeys(g.forward[curr]) {
		if onStack[next] {
			start := 0
			for i, n := range path {
				if n == next {
					start = i
					break
				}
			}
			cycle := make([]string, 0, len(path)-start+1)
			cycle = append(cycle, path[start:]...)
			return append(cycle, next)
		}
		if !visited[next] {
			if cycle := g.findCycle(next, visited, onStack, path); cycle != nil {
				return cycle
			}
		}
	}

	onStack[curr] = false
	return nil
}

// normalizeCycle rotates a closed walk [n0 .. nk n0] so it starts at
// its smallest member, keeping the closing repeat.
func normalizeCycle(cycle []string) []string {
	if len(cycle) < 2 {
		return cycle
	}
	members := cycle[:len(cycle)-1]

	minIdx := 0
	for i, m := range members {
		if m < members[minIdx] {
			minIdx = i
		}
	}

	normalized := make([]string, 0, len(cycle))
	normalized = append(normalized, members[minIdx:]...)
	normalized = append(normalized, members[:minIdx]...)
	return append(normalized, members[minIdx])
}

func containsCycle(cycles [][]string, candidate []string) bool {
	for _, c := range cycles {
		if equalCycle(c, candidate) {
			return true
		}
	}
	return false
}

func equalCycle(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

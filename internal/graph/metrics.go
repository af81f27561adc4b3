package graph

// FanIn counts files that include the given file.
func (g *DependencyGraph) FanIn(path string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.reverse[path])
}

// FanOut counts files the given file includes.
func (g *DependencyGraph) FanOut(path string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.forward[path])
}

// Instability returns fan-out / (fan-in + fan-out), the usual
// Martin metric. A node with no edges at all scores 0.
func (g *DependencyGraph) Instability(path string) float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	fanIn := len(g.reverse[path])
	fanOut := len(g.forward[path])
	if fanIn+fanOut == 0 {
		return 0
	}
	return float64(fanOut) / float64(fanIn+fanOut)
}

// FileMetrics bundles the per-node numbers for reporting.
type FileMetrics struct {
	Path        string
	FanIn       int
	FanOut      int
	Instability float64
}

// Metrics computes FileMetrics for every node, sorted by path.
func (g *DependencyGraph) Metrics() []FileMetrics {
	nodes := g.Nodes()
	out := make([]FileMetrics, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, FileMetrics{
			Path:        n,
			FanIn:       g.FanIn(n),
			FanOut:      g.FanOut(n),
			Instability: g.Instability(n),
		})
	}
	return out
}

// MostIncluded returns up to limit files ranked by fan-in, descending,
// ties broken by path.
func (g *DependencyGraph) MostIncluded(limit int) []FileMetrics {
	return g.topBy(limit, func(m FileMetrics) int { return m.FanIn })
}

// MostIncluding returns up to limit files ranked by fan-out.
func (g *DependencyGraph) MostIncluding(limit int) []FileMetrics {
	return g.topBy(limit, func(m FileMetrics) int { return m.FanOut })
}

func (g *DependencyGraph) topBy(limit int, key func(FileMetrics) int) []FileMetrics {
	metrics := g.Metrics()
	// Insertion sort keeps the ranking stable on the already
	// path-sorted slice.
	for i := 1; i < len(metrics); i++ {
		for j := i; j > 0 && key(metrics[j]) > key(metrics[j-1]); j-- {
			metrics[j], metrics[j-1] = metrics[j-1], metrics[j]
		}
	}
	if limit > 0 && len(metrics) > limit {
		metrics = metrics[:limit]
	}
	return metrics
}

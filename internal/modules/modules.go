// Package modules aggregates file-level results to directory level and
// categorizes data structures for reporting.
package modules

import (
	"sort"

	"creview/internal/graph"
	"creview/internal/scanner"
)

// Module is the per-directory aggregate. Dependencies and Dependents
// are directory names derived by projecting file edges whose endpoints
// live in different directories.
type Module struct {
	Name         string
	Files        []string
	Headers      int
	Sources      int
	Lines        int
	Dependencies map[string]bool
	Dependents   map[string]bool
	Layer        string
}

// SortedDependencies returns the dependency directory names in order.
func (m *Module) SortedDependencies() []string {
	return sortedSet(m.Dependencies)
}

// SortedDependents returns the dependent directory names in order.
func (m *Module) SortedDependents() []string {
	return sortedSet(m.Dependents)
}

// Aggregate groups files by directory, sums counts, projects the file
// graph onto directories and tags each module with the majority layer
// of its files. The layers map may be nil.
func Aggregate(fs *scanner.FileSet, deps *graph.DependencyGraph, layers map[string]string) map[string]*Module {
	mods := make(map[string]*Module)

	for _, rel := range fs.Order {
		file, _ := fs.Get(rel)
		dir := file.Directory

		mod := mods[dir]
		if mod == nil {
			mod = &Module{
				Name:         dir,
				Dependencies: make(map[string]bool),
				Dependents:   make(map[string]bool),
			}
			mods[dir] = mod
		}
		mod.Files = append(mod.Files, rel)
		mod.Lines += file.LineCount
		if file.IsHeader {
			mod.Headers++
		} else {
			mod.Sources++
		}
	}

	for _, edge := range deps.Edges() {
		srcDir := directoryOf(fs, edge[0])
		dstDir := directoryOf(fs, edge[1])
		if srcDir == dstDir {
			continue
		}
		if mod, ok := mods[srcDir]; ok {
			mod.Dependencies[dstDir] = true
		}
		if mod, ok := mods[dstDir]; ok {
			mod.Dependents[srcDir] = true
		}
	}

	if layers != nil {
		for _, mod := range mods {
			mod.Layer = majorityLayer(mod.Files, layers)
		}
	}

	return mods
}

func directoryOf(fs *scanner.FileSet, rel string) string {
	if file, ok := fs.Get(rel); ok {
		return file.Directory
	}
	return "."
}

// majorityLayer picks the most common layer over the module's files.
// Ties break toward the lexicographically smaller layer name so the
// vote is reproducible.
func majorityLayer(files []string, layers map[string]string) string {
	counts := make(map[string]int)
	for _, f := range files {
		if layer := layers[f]; layer != "" {
			counts[layer]++
		}
	}
	best, bestCount := "", 0
	for _, layer := range sortedCountKeys(counts) {
		if counts[layer] > bestCount {
			best, bestCount = layer, counts[layer]
		}
	}
	return best
}

// Stats summarizes the module table.
type Stats struct {
	TotalModules int
	TotalFiles   int
	TotalLines   int
}

func Summarize(mods map[string]*Module) Stats {
	var s Stats
	s.TotalModules = len(mods)
	for _, m := range mods {
		s.TotalFiles += len(m.Files)
		s.TotalLines += m.Lines
	}
	return s
}

// Names returns the module directory names sorted.
func Names(mods map[string]*Module) []string {
	names := make([]string, 0, len(mods))
	for name := range mods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedSet(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedCountKeys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

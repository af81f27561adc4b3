// Package resolve maps raw #include paths onto files in the scanned
// set and builds the dependency graph from the matches.
package resolve

import (
	"path"
	"path/filepath"
	"strings"

	"creview/internal/graph"
	"creview/internal/scanner"
)

// Result carries the resolved include graph and the per-file local
// includes that matched nothing. Unresolved system includes are dropped
// silently; they are out of project scope.
type Result struct {
	Graph      *graph.DependencyGraph
	Unresolved map[string][]string // source file -> include paths
}

// UnresolvedCount sums unresolved local includes across all files.
func (r *Result) UnresolvedCount() int {
	n := 0
	for _, incs := range r.Unresolved {
		n += len(incs)
	}
	return n
}

// Resolve tries three strategies per include, first match wins:
// relative to the including file's directory, literal from the project
// root, then basename lookup. When several files share the basename the
// one whose path ends with the include string is preferred, falling
// back to the first file in discovery order.
func Resolve(fs *scanner.FileSet) *Result {
	byBasename := make(map[string][]string)
	for _, rel := range fs.Order {
		base := path.Base(filepath.ToSlash(rel))
		byBasename[base] = append(byBasename[base], rel)
	}

	result := &Result{
		Graph:      graph.New(),
		Unresolved: make(map[string][]string),
	}
	for _, rel := range fs.Order {
		result.Graph.AddNode(rel)
	}

	for _, rel := range fs.Order {
		file, _ := fs.Get(rel)
		dir := path.Dir(filepath.ToSlash(rel))

		for _, inc := range file.Includes {
			target, ok := resolveOne(fs, byBasename, dir, inc.Path)
			if ok {
				result.Graph.AddEdge(rel, target)
				continue
			}
			if !inc.System {
				result.Unresolved[rel] = append(result.Unresolved[rel], inc.Path)
			}
		}
	}

	return result
}

func resolveOne(fs *scanner.FileSet, byBasename map[string][]string, dir, incPath string) (string, bool) {
	inc := filepath.ToSlash(incPath)

	// Relative to the including file's own directory.
	candidate := fromSlash(path.Join(dir, inc))
	if _, ok := fs.Get(candidate); ok {
		return candidate, true
	}

	// Literal from the project root.
	candidate = fromSlash(path.Clean(inc))
	if _, ok := fs.Get(candidate); ok {
		return candidate, true
	}

	// Basename match.
	candidates := byBasename[path.Base(inc)]
	switch len(candidates) {
	case 0:
		return "", false
	case 1:
		return candidates[0], true
	}
	for _, c := range candidates {
		if strings.HasSuffix(filepath.ToSlash(c), inc) {
			return c, true
		}
	}
	// Ambiguous with no suffix match: first discovery wins.
	return candidates[0], true
}

func fromSlash(p string) string {
	return filepath.FromSlash(p)
}

// Package xref builds whole-program cross references over the extracted
// entities: the function call graph and struct/enum usage tables. It
// runs as a strict two-phase protocol; the definition tables from phase
// one are closed before any usage scanning begins.
package xref

import (
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"creview/internal/extract"
	"creview/internal/scanner"
)

// Function is one call-graph node. The bare name is the key; Calls and
// CalledBy are populated only during the usage phase.
type Function struct {
	Name       string
	File       string
	Line       int
	ReturnType string
	Params     string
	Calls      map[string]bool
	CalledBy   map[string]bool
}

// CallEdge is a resolved caller -> callee pair. Both ends name known
// functions.
type CallEdge struct {
	Caller string
	Callee string
}

// StructUsage accumulates access counts for one (struct, file) pair.
// Counts only ever grow.
type StructUsage struct {
	Reads  int
	Writes int
	Refs   int
}

// Result is the merged cross-reference output.
type Result struct {
	Functions   map[string]*Function
	CallEdges   []CallEdge
	StructUsage map[string]map[string]*StructUsage // struct -> file -> usage
	EnumUsage   map[string]map[string]int          // enum -> file -> refs
}

// fileUsage is the private per-file output merged after the phase-two
// barrier. Workers never touch shared state.
type fileUsage struct {
	path   string
	edges  []CallEdge
	struc  map[string]*StructUsage // struct name -> usage in this file
	enums  map[string]int          // enum name -> refs in this file
}

// Build runs the usage phase over every file with a bounded worker pool
// and merges per-file results in discovery order. The facts tables are
// read-only throughout.
func Build(fs *scanner.FileSet, facts *extract.Facts, workers int) *Result {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	result := &Result{
		Functions:   make(map[string]*Function, len(facts.Defs)),
		StructUsage: make(map[string]map[string]*StructUsage),
		EnumUsage:   make(map[string]map[string]int),
	}
	for name, def := range facts.Defs {
		result.Functions[name] = &Function{
			Name:       def.Name,
			File:       def.File,
			Line:       def.Line,
			ReturnType: def.ReturnType,
			Params:     def.Params,
			Calls:      make(map[string]bool),
			CalledBy:   make(map[string]bool),
		}
	}

	scan := newUsageScanner(facts)

	paths := make(chan string, len(fs.Order))
	perFile := make(map[string]*fileUsage, len(fs.Order))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range paths {
				file, ok := fs.Get(path)
				if !ok {
					continue
				}
				clean, err := file.ReadClean()
				if err != nil {
					slog.Warn("skipping unreadable file", "path", path, "error", err)
					continue
				}
				usage := scan.scanFile(file, clean)
				mu.Lock()
				perFile[path] = usage
				mu.Unlock()
			}
		}()
	}

	for _, path := range fs.Order {
		paths <- path
	}
	close(paths)
	wg.Wait()

	for _, path := range fs.Order {
		usage, ok := perFile[path]
		if !ok {
			continue
		}
		for _, edge := range usage.edges {
			caller, callee := result.Functions[edge.Caller], result.Functions[edge.Callee]
			if caller == nil || callee == nil {
				continue
			}
			result.CallEdges = append(result.CallEdges, edge)
			caller.Calls[edge.Callee] = true
			callee.CalledBy[edge.Caller] = true
		}
		for name, su := range usage.struc {
			files := result.StructUsage[name]
			if files == nil {
				files = make(map[string]*StructUsage)
				result.StructUsage[name] = files
			}
			rec := files[path]
			if rec == nil {
				rec = &StructUsage{}
				files[path] = rec
			}
			rec.Reads += su.Reads
			rec.Writes += su.Writes
			rec.Refs += su.Refs
		}
		for name, refs := range usage.enums {
			files := result.EnumUsage[name]
			if files == nil {
				files = make(map[string]int)
				result.EnumUsage[name] = files
			}
			files[path] += refs
		}
	}

	return result
}

// EntryPoints lists functions nothing else calls, sorted.
func (r *Result) EntryPoints() []string {
	var out []string
	for name, fn := range r.Functions {
		if len(fn.CalledBy) == 0 {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// LeafFunctions lists functions that call no tracked function, sorted.
func (r *Result) LeafFunctions() []string {
	var out []string
	for name, fn := range r.Functions {
		if len(fn.Calls) == 0 {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// FunctionCount is a (name, count) ranking entry.
type FunctionCount struct {
	Name  string
	Count int
}

// MostCalled ranks functions by caller count, descending, ties by name.
func (r *Result) MostCalled(limit int) []FunctionCount {
	return r.rankBy(limit, func(fn *Function) int { return len(fn.CalledBy) })
}

// MostCalling ranks functions by outgoing call count.
func (r *Result) MostCalling(limit int) []FunctionCount {
	return r.rankBy(limit, func(fn *Function) int { return len(fn.Calls) })
}

func (r *Result) rankBy(limit int, key func(*Function) int) []FunctionCount {
	out := make([]FunctionCount, 0, len(r.Functions))
	for name, fn := range r.Functions {
		out = append(out, FunctionCount{Name: name, Count: key(fn)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// StructAccessors groups the files touching a struct by access kind.
type StructAccessors struct {
	Readers []string
	Writers []string
	All     []string
}

// Accessors reports which files read, write or reference a struct.
func (r *Result) Accessors(structName string) StructAccessors {
	var acc StructAccessors
	files := r.StructUsage[structName]
	for _, path := range sortedUsageKeys(files) {
		u := files[path]
		if u.Reads > 0 {
			acc.Readers = append(acc.Readers, path)
		}
		if u.Writes > 0 {
			acc.Writers = append(acc.Writers, path)
		}
		if u.Refs > 0 {
			acc.All = append(acc.All, path)
		}
	}
	return acc
}

func sortedUsageKeys(m map[string]*StructUsage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

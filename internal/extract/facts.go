package extract

import (
	"log/slog"
	"runtime"
	"sync"

	"creview/internal/scanner"
)

// Facts is the merged extraction result for a whole file set. Defs is
// keyed by bare function name; when two files define the same name, the
// definition from the later file in discovery order wins.
type Facts struct {
	Structs  []Struct
	Enums    []Enum
	Typedefs []Typedef
	Decls    []FuncDecl
	Defs     map[string]FuncDef
	Macros   []Macro
}

// StructNames returns the set of known struct names for usage lookups.
func (f *Facts) StructNames() map[string]bool {
	names := make(map[string]bool, len(f.Structs))
	for _, s := range f.Structs {
		names[s.Name] = true
	}
	return names
}

// EnumNames returns the set of known enum names, anonymous excluded.
func (f *Facts) EnumNames() map[string]bool {
	names := make(map[string]bool, len(f.Enums))
	for _, e := range f.Enums {
		if e.Name != AnonymousEnum {
			names[e.Name] = true
		}
	}
	return names
}

// ScanAll runs ScanFile over every file in the set with a bounded worker
// pool and merges the per-file results in discovery order, so the
// name-collision rule for function definitions is reproducible across
// runs. Unreadable files are logged and skipped whole.
func ScanAll(fs *scanner.FileSet, workers int) *Facts {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	paths := make(chan string, len(fs.Order))
	perFile := make(map[string]*FileFacts, len(fs.Order))
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
				facts, err := ScanFile(file)
				if err != nil {
					slog.Warn("skipping unreadable file", "path", path, "error", err)
					continue
				}
				mu.Lock()
				perFile[path] = facts
				mu.Unlock()
			}
		}()
	}

	for _, path := range fs.Order {
		paths <- path
	}
	close(paths)
	wg.Wait()

	merged := &Facts{
		Defs: make(map[string]FuncDef),
	}
	for _, path := range fs.Order {
		facts, ok := perFile[path]
		if !ok {
			continue
		}
		merged.Structs = append(merged.Structs, facts.Structs...)
		merged.Enums = append(merged.Enums, facts.Enums...)
		merged.Typedefs = append(merged.Typedefs, facts.Typedefs...)
		merged.Decls = append(merged.Decls, facts.Decls...)
		merged.Macros = append(merged.Macros, facts.Macros...)
		for _, def := range facts.Defs {
			merged.Defs[def.Name] = def
		}
	}
	return merged
}

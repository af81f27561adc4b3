package app

import (
	"fmt"
	"sort"
	"strings"

	"creview/internal/complexity"
)

// PrintSummary renders the human-readable report of one analysis.
func (a *App) PrintSummary(analysis *Analysis) {
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Analyzed %d files (%d headers, %d sources), %d lines in %v\n",
		len(analysis.Files.Order), analysis.Files.Headers(), analysis.Files.Sources(),
		analysis.Files.TotalLines(), analysis.Duration.Round(0))
	fmt.Printf("Modules: %d  Include edges: %d\n", len(analysis.Modules), analysis.Graph().EdgeCount())

	if len(analysis.Cycles) > 0 {
		fmt.Printf("⚠️  FOUND %d CIRCULAR INCLUDES:\n", len(analysis.Cycles))
		for _, c := range analysis.Cycles {
			fmt.Printf("   %s\n", strings.Join(c, " -> "))
		}
	} else {
		fmt.Println("✅ No circular includes found.")
	}

	if n := analysis.Includes.UnresolvedCount(); n > 0 {
		fmt.Printf("❓ FOUND %d UNRESOLVED INCLUDES:\n", n)
		for _, file := range sortedKeys(analysis.Includes.Unresolved) {
			for _, inc := range analysis.Includes.Unresolved[file] {
				fmt.Printf("   %s in %s\n", inc, file)
			}
		}
	} else {
		fmt.Println("✅ All local includes resolved.")
	}

	a.printInterfaceSummary(analysis)
	a.printCallGraphSummary(analysis)
	a.printComplexitySummary(analysis)
	fmt.Println(strings.Repeat("-", 40))
}

func (a *App) printInterfaceSummary(analysis *Analysis) {
	facts := analysis.Facts
	fmt.Printf("📋 Interface surface: %d structs, %d enums, %d typedefs, %d declarations, %d macros\n",
		len(facts.Structs), len(facts.Enums), len(facts.Typedefs), len(facts.Decls), len(facts.Macros))

	byCategory := make(map[string][]string)
	for _, s := range facts.Structs {
		category := a.Categorizer.Categorize(s.Name)
		byCategory[category] = append(byCategory[category], s.Name)
	}
	for _, category := range sortedKeys(byCategory) {
		fmt.Printf("   %s: %s\n", category, strings.Join(byCategory[category], ", "))
	}
}

func (a *App) printCallGraphSummary(analysis *Analysis) {
	x := analysis.Xrefs
	fmt.Printf("📞 Call graph: %d functions, %d call edges\n", len(x.Functions), len(x.CallEdges))

	if top := x.MostCalled(3); len(top) > 0 && top[0].Count > 0 {
		parts := make([]string, 0, len(top))
		for _, entry := range top {
			if entry.Count == 0 {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s(%d)", entry.Name, entry.Count))
		}
		fmt.Printf("   Most called: %s\n", strings.Join(parts, ", "))
	}
	if entries := x.EntryPoints(); len(entries) > 0 {
		fmt.Printf("   Entry points: %s\n", strings.Join(entries, ", "))
	}
}

func (a *App) printComplexitySummary(analysis *Analysis) {
	stats := complexity.Summarize(analysis.Procedures)
	if stats.Total == 0 {
		return
	}
	fmt.Printf("📊 Procedures: %d, avg complexity %.1f, max %d\n",
		stats.Total, stats.AvgComplexity, stats.MaxComplexity)

	hot := complexity.ComplexFunctions(analysis.Procedures, a.Config.Thresholds.Complexity)
	large := complexity.LargeFunctions(analysis.Procedures, a.Config.Thresholds.FunctionLines)
	if len(hot) > 0 {
		fmt.Printf("🔥 FOUND %d COMPLEX FUNCTIONS (cc >= %d):\n", len(hot), a.Config.Thresholds.Complexity)
		for _, p := range hot {
			fmt.Printf("   %s in %s:%d cc=%d lines=%d\n", p.Name, p.File, p.Line, p.Cyclomatic, p.LineCount)
		}
	}
	if len(large) > 0 {
		fmt.Printf("📏 FOUND %d LARGE FUNCTIONS (lines >= %d):\n", len(large), a.Config.Thresholds.FunctionLines)
		for _, p := range large {
			fmt.Printf("   %s in %s:%d lines=%d\n", p.Name, p.File, p.Line, p.LineCount)
		}
	}
}

// PrintChangeSummary is the condensed report after a watcher rescan.
func (a *App) PrintChangeSummary(changed int, analysis *Analysis) {
	fmt.Printf("Update: %d changed paths, %d files, %d modules in %v\n",
		changed, len(analysis.Files.Order), len(analysis.Modules), analysis.Duration.Round(0))
	if len(analysis.Cycles) > 0 {
		fmt.Printf("⚠️  %d circular includes\n", len(analysis.Cycles))
	}
	if n := analysis.Includes.UnresolvedCount(); n > 0 {
		fmt.Printf("❓ %d unresolved includes\n", n)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Package complexity scores function bodies in source files: cyclomatic
// complexity from control-flow counts plus body size.
package complexity

import (
	"log/slog"
	"strings"

	"creview/internal/extract"
	"creview/internal/scanner"
)

// Procedure is the analysis record for one function body.
type Procedure struct {
	Name       string
	File       string
	Line       int
	ReturnType string
	Params     string
	LineCount  int
	Flow       extract.ControlFlow
	Cyclomatic int
}

// AnalyzeAll scans every non-header file in discovery order. Headers
// are skipped; bodies live in sources.
func AnalyzeAll(fs *scanner.FileSet) []Procedure {
	var out []Procedure
	for _, rel := range fs.Order {
		file, _ := fs.Get(rel)
		if file.IsHeader {
			continue
		}
		clean, err := file.ReadClean()
		if err != nil {
			slog.Warn("skipping unreadable file", "path", rel, "error", err)
			continue
		}
		out = append(out, AnalyzeFile(clean, rel)...)
	}
	return out
}

// AnalyzeFile locates each function body by scanning from its opening
// brace to the depth-balanced closing brace and scores it. A body whose
// closing brace is never found is dropped, not reported.
func AnalyzeFile(clean, path string) []Procedure {
	var out []Procedure
	for _, m := range extract.FuncDefRe().FindAllStringSubmatchIndex(clean, -1) {
		name := clean[m[4]:m[5]]
		if extract.CKeywords[name] {
			continue
		}

		start := m[1] // just past the opening brace
		end := findBodyEnd(clean, start)
		if end == -1 {
			continue
		}
		body := clean[start:end]

		flow := extract.CountControlFlow(body)
		out = append(out, Procedure{
			Name:       name,
			File:       path,
			Line:       lineAt(clean, m[0]),
			ReturnType: strings.TrimSpace(clean[m[2]:m[3]]),
			Params:     strings.TrimSpace(clean[m[6]:m[7]]),
			LineCount:  strings.Count(body, "\n") + 1,
			Flow:       flow,
			Cyclomatic: 1 + flow.If + flow.For + flow.While + flow.Case,
		})
	}
	return out
}

// findBodyEnd walks forward from just inside the opening brace and
// returns the offset one past the matching close, or -1 when the body
// never balances.
func findBodyEnd(content string, start int) int {
	depth := 1
	for i := start; i < len(content); i++ {
		switch content[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

func lineAt(content string, offset int) int {
	if offset > len(content) {
		offset = len(content)
	}
	return strings.Count(content[:offset], "\n") + 1
}

// ComplexFunctions filters procedures at or above the cyclomatic
// threshold.
func ComplexFunctions(procs []Procedure, threshold int) []Procedure {
	var out []Procedure
	for _, p := range procs {
		if p.Cyclomatic >= threshold {
			out = append(out, p)
		}
	}
	return out
}

// LargeFunctions filters procedures at or above the line threshold.
func LargeFunctions(procs []Procedure, threshold int) []Procedure {
	var out []Procedure
	for _, p := range procs {
		if p.LineCount >= threshold {
			out = append(out, p)
		}
	}
	return out
}

// Stats summarizes a procedure list.
type Stats struct {
	Total         int
	AvgComplexity float64
	AvgLines      float64
	MaxComplexity int
	MaxLines      int
}

func Summarize(procs []Procedure) Stats {
	if len(procs) == 0 {
		return Stats{}
	}
	var s Stats
	s.Total = len(procs)
	sumC, sumL := 0, 0
	for _, p := range procs {
		sumC += p.Cyclomatic
		sumL += p.LineCount
		if p.Cyclomatic > s.MaxComplexity {
			s.MaxComplexity = p.Cyclomatic
		}
		if p.LineCount > s.MaxLines {
			s.MaxLines = p.LineCount
		}
	}
	s.AvgComplexity = float64(sumC) / float64(len(procs))
	s.AvgLines = float64(sumL) / float64(len(procs))
	return s
}

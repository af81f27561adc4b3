package xref

import (
	"regexp"
	"sort"
	"strings"

	"creview/internal/extract"
	"creview/internal/scanner"
)

// usageScanner holds the read-only phase-one tables plus the matchers
// compiled once per known struct and enum name.
type usageScanner struct {
	defs        map[string]extract.FuncDef
	structNames []string
	enumNames   []string
	typePats    map[string]*regexp.Regexp // struct name -> declaration matcher
	enumPats    map[string]*regexp.Regexp // enum name -> boundary matcher
}

func newUsageScanner(facts *extract.Facts) *usageScanner {
	s := &usageScanner{
		defs:     facts.Defs,
		typePats: make(map[string]*regexp.Regexp),
		enumPats: make(map[string]*regexp.Regexp),
	}

	for name := range facts.StructNames() {
		s.structNames = append(s.structNames, name)
		// Optional struct keyword, the type name, pointer or space
		// runs, then the declared identifier.
		s.typePats[name] = regexp.MustCompile(
			`\b(?:struct\s+)?` + regexp.QuoteMeta(name) + `\b\s*[\*\s]+(\w+)`)
	}
	sort.Strings(s.structNames)

	for name := range facts.EnumNames() {
		s.enumNames = append(s.enumNames, name)
		s.enumPats[name] = regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
	}
	sort.Strings(s.enumNames)

	return s
}

func (s *usageScanner) scanFile(file *scanner.File, clean string) *fileUsage {
	usage := &fileUsage{
		path:  file.Path,
		struc: make(map[string]*StructUsage),
		enums: make(map[string]int),
	}

	// Calls are tracked in sources only; header prototypes would
	// otherwise register as calls of themselves.
	if !file.IsHeader {
		usage.edges = s.scanCalls(clean)
	}
	s.scanStructUsage(clean, usage)
	s.scanEnumUsage(clean, usage)
	return usage
}

// scanCalls walks the file line by line. A line that opens a function
// definition sets the current caller; every later call-shaped token
// resolves against the known definitions. Keywords and self recursion
// are skipped.
func (s *usageScanner) scanCalls(clean string) []CallEdge {
	var edges []CallEdge
	current := ""

	defRe := extract.FuncDefRe()
	callRe := extract.FuncCallRe()

	for _, line := range strings.Split(clean, "\n") {
		if m := defRe.FindStringSubmatchIndex(line); m != nil && m[0] == 0 {
			name := line[m[4]:m[5]]
			if !extract.CKeywords[name] {
				current = name
				continue
			}
		}
		if current == "" {
			continue
		}

		for _, cm := range callRe.FindAllStringSubmatch(line, -1) {
			callee := cm[1]
			if extract.CKeywords[callee] || callee == current {
				continue
			}
			if _, known := s.defs[callee]; !known {
				continue
			}
			edges = append(edges, CallEdge{Caller: current, Callee: callee})
		}
	}
	return edges
}

// scanStructUsage finds declarations of each known struct type, then
// counts write-shaped and read-shaped occurrences of every declared
// variable. The classification is a regex heuristic, approximate on
// purpose.
func (s *usageScanner) scanStructUsage(clean string, usage *fileUsage) {
	for _, structName := range s.structNames {
		varNames := make(map[string]bool)
		for _, m := range s.typePats[structName].FindAllStringSubmatch(clean, -1) {
			varName := m[1]
			if extract.CKeywords[varName] {
				continue
			}
			varNames[varName] = true
			rec := usage.struc[structName]
			if rec == nil {
				rec = &StructUsage{}
				usage.struc[structName] = rec
			}
			rec.Refs++
		}

		for _, varName := range sortedNames(varNames) {
			writes := countWrites(clean, varName)
			reads := countReads(clean, varName)
			if writes == 0 && reads == 0 {
				continue
			}
			rec := usage.struc[structName]
			rec.Writes += writes
			rec.Reads += reads
		}
	}
}

func (s *usageScanner) scanEnumUsage(clean string, usage *fileUsage) {
	for _, enumName := range s.enumNames {
		if s.enumPats[enumName].MatchString(clean) {
			usage.enums[enumName]++
		}
	}
}

// countWrites matches "var->field =", "var.field =" and plain "var ="
// (assignment, not comparison).
func countWrites(content, varName string) int {
	q := regexp.QuoteMeta(varName)
	re := regexp.MustCompile(
		`\b` + q + `\s*(?:->|\.)\s*\w+\s*=|` +
			`\b` + q + `\s*=\s*[^=]`)
	return len(re.FindAllStringIndex(content, -1))
}

// countReads matches four read shapes: member access not followed by an
// assignment, the variable as a call argument, the variable after a
// comparison or assignment operator, and the variable after return.
func countReads(content, varName string) int {
	q := regexp.QuoteMeta(varName)

	// Member access. The "not followed by =" condition cannot be a
	// lookahead here, so each match is post-checked against the text
	// that follows it.
	memberRe := regexp.MustCompile(`\b` + q + `\s*(?:->|\.)\s*\w+`)
	reads := 0
	for _, m := range memberRe.FindAllStringIndex(content, -1) {
		if !followedByAssign(content, m[1]) {
			reads++
		}
	}

	argRe := regexp.MustCompile(`\(\s*` + q + `\s*[,)]`)
	reads += len(argRe.FindAllStringIndex(content, -1))

	rhsRe := regexp.MustCompile(`[=!<>]=?\s*` + q + `\b`)
	reads += len(rhsRe.FindAllStringIndex(content, -1))

	retRe := regexp.MustCompile(`\breturn\s+` + q + `\b`)
	reads += len(retRe.FindAllStringIndex(content, -1))

	return reads
}

// followedByAssign reports whether the next non-space character at
// offset is a bare '='.
func followedByAssign(content string, offset int) bool {
	i := offset
	for i < len(content) && (content[i] == ' ' || content[i] == '\t' || content[i] == '\n' || content[i] == '\r') {
		i++
	}
	return i < len(content) && content[i] == '='
}

func sortedNames(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

package extract

import (
	"regexp"
	"strings"
)

// Pattern matchers for C/C++ constructs. These run over cleaned text
// (comments and literals blanked), so they never match inside strings.
var (
	// Covers "struct Name { ... }" and "typedef struct { ... } Name;",
	// unions included. Groups 1/2 carry the named form, 3/4 the
	// typedef-anonymous form.
	structRe = regexp.MustCompile(
		`(?:typedef\s+)?(?:struct|union)\s+(\w+)\s*\{([^}]*)\}|` +
			`typedef\s+(?:struct|union)\s*\{([^}]*)\}\s*(\w+)\s*;`)

	// Same two-form shape for enums. The name group is \w* so a bare
	// "enum { ... }" still matches with an empty name.
	enumRe = regexp.MustCompile(
		`(?:typedef\s+)?enum\s+(\w*)\s*\{([^}]*)\}|` +
			`typedef\s+enum\s*\{([^}]*)\}\s*(\w+)\s*;`)

	typedefRe = regexp.MustCompile(`typedef\s+(.+?)\s+(\w+)\s*;`)

	// Declarations end in ';', definitions in '{'. Both share the
	// return-type / name / parameter shape.
	funcDeclRe = regexp.MustCompile(
		`(?m)^\s*(?:extern\s+)?(?:static\s+)?(?:inline\s+)?` +
			`(?:const\s+)?(\w+(?:\s*\*)*)\s+` +
			`(\w+)\s*\(([^)]*)\)\s*;`)

	funcDefRe = regexp.MustCompile(
		`(?m)^(?:static\s+)?(?:inline\s+)?(?:const\s+)?` +
			`(\w+(?:\s*\*)*)\s+(\w+)\s*\(([^)]*)\)\s*\{`)

	funcCallRe = regexp.MustCompile(`\b(\w+)\s*\(`)

	macroRe = regexp.MustCompile(`(?m)^#define\s+(\w+)(?:\([^)]*\))?\s+(.*)$`)
)

// Control-flow matchers used for complexity scoring.
var (
	ifRe     = regexp.MustCompile(`\bif\s*\(`)
	elseRe   = regexp.MustCompile(`\belse\b`)
	forRe    = regexp.MustCompile(`\bfor\s*\(`)
	whileRe  = regexp.MustCompile(`\bwhile\s*\(`)
	switchRe = regexp.MustCompile(`\bswitch\s*\(`)
	caseRe   = regexp.MustCompile(`\bcase\s+`)
	returnRe = regexp.MustCompile(`\breturn\b`)
)

// CKeywords are identifiers that can never be user-defined functions or
// types. Call-shaped matches and field-type candidates hitting this set
// are discarded.
var CKeywords = map[string]bool{
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"switch": true, "case": true, "default": true,
	"return": true, "break": true, "continue": true, "goto": true,
	"sizeof": true, "typeof": true,
	"struct": true, "union": true, "enum": true, "typedef": true,
	"const": true, "static": true, "extern": true, "inline": true,
	"volatile": true, "register": true, "auto": true,
	"signed": true, "unsigned": true,
	"void": true, "char": true, "short": true, "int": true,
	"long": true, "float": true, "double": true,
	"NULL": true, "true": true, "false": true,
}

// ControlFlow holds control-flow statement counts for one function body.
type ControlFlow struct {
	If     int
	Else   int
	For    int
	While  int
	Switch int
	Case   int
	Return int
}

// CountControlFlow tallies control-flow statements in a cleaned
// function body.
func CountControlFlow(body string) ControlFlow {
	return ControlFlow{
		If:     len(ifRe.FindAllStringIndex(body, -1)),
		Else:   len(elseRe.FindAllStringIndex(body, -1)),
		For:    len(forRe.FindAllStringIndex(body, -1)),
		While:  len(whileRe.FindAllStringIndex(body, -1)),
		Switch: len(switchRe.FindAllStringIndex(body, -1)),
		Case:   len(caseRe.FindAllStringIndex(body, -1)),
		Return: len(returnRe.FindAllStringIndex(body, -1)),
	}
}

// FuncDefRe exposes the definition matcher for the usage-phase scanners,
// which need to anchor it per line.
func FuncDefRe() *regexp.Regexp { return funcDefRe }

// FuncCallRe exposes the call-shaped token matcher.
func FuncCallRe() *regexp.Regexp { return funcCallRe }

// lineAt converts a byte offset into a 1-based line number by counting
// newlines before it. Valid against the raw file because normalization
// preserves newline positions.
func lineAt(content string, offset int) int {
	if offset > len(content) {
		offset = len(content)
	}
	return strings.Count(content[:offset], "\n") + 1
}

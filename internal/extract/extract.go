// Package extract pulls structural entities out of cleaned C/C++ text:
// struct, union and enum definitions, simple typedefs, function
// declarations and definitions, and macros. It does no resolution; the
// entities feed the include resolver and the cross-reference phases.
package extract

import (
	"strings"

	"creview/internal/scanner"
)

const macroValuePreview = 50

// Struct is one struct or union definition with its naive field split.
type Struct struct {
	Name       string
	File       string
	Line       int
	Fields     []string
	References []string // non-keyword type tokens the fields mention
}

// Enum is one enum definition. Anonymous enums carry the placeholder
// name "(anonymous)" and are excluded from usage lookups.
type Enum struct {
	Name   string
	File   string
	Line   int
	Values []string
}

// Typedef is a simple alias. Struct/enum typedefs are not recorded here
// since the struct and enum matchers already capture them.
type Typedef struct {
	Name     string
	Original string
	File     string
	Line     int
}

// FuncDecl is a prototype found in a header.
type FuncDecl struct {
	Name       string
	ReturnType string
	Params     string
	File       string
	Line       int
}

// FuncDef is a function body site. These seed the call graph; the name
// is the whole key, so a later definition of the same name replaces an
// earlier one during merge.
type FuncDef struct {
	Name       string
	ReturnType string
	Params     string
	File       string
	Line       int
}

// Macro is a #define with a truncated value preview.
type Macro struct {
	Name  string
	Value string
	File  string
	Line  int
}

// FileFacts is everything extracted from one file. A file either
// contributes a complete FileFacts or nothing at all.
type FileFacts struct {
	Path     string
	Structs  []Struct
	Enums    []Enum
	Typedefs []Typedef
	Decls    []FuncDecl
	Defs     []FuncDef
	Macros   []Macro
}

// AnonymousEnum is the placeholder name for enums defined without one.
const AnonymousEnum = "(anonymous)"

// ScanFile extracts all entities from one file. Interface entities
// (structs, enums, typedefs, declarations, macros) are read from
// headers only; function definitions are collected from every file so
// static functions in sources still enter the call graph.
func ScanFile(f *scanner.File) (*FileFacts, error) {
	clean, err := f.ReadClean()
	if err != nil {
		return nil, err
	}

	facts := &FileFacts{Path: f.Path}
	if f.IsHeader {
		facts.Structs = parseStructs(clean, f.Path)
		facts.Enums = parseEnums(clean, f.Path)
		facts.Typedefs = parseTypedefs(clean, f.Path)
		facts.Decls = parseDecls(clean, f.Path)
		facts.Macros = parseMacros(clean, f.Path)
	}
	facts.Defs = parseDefs(clean, f.Path)
	return facts, nil
}

func parseStructs(content, path string) []Struct {
	var out []Struct
	for _, m := range structRe.FindAllStringSubmatchIndex(content, -1) {
		var name, body string
		switch {
		case m[2] >= 0: // struct Name { body }
			name = content[m[2]:m[3]]
			body = content[m[4]:m[5]]
		case m[8] >= 0: // typedef struct { body } Name;
			name = content[m[8]:m[9]]
			body = content[m[6]:m[7]]
		default:
			continue
		}

		fields, refs := parseFields(body)
		out = append(out, Struct{
			Name:       name,
			File:       path,
			Line:       lineAt(content, m[0]),
			Fields:     fields,
			References: refs,
		})
	}
	return out
}

// parseFields splits a struct body into ';'-terminated fields. The last
// token of a field is taken as the identifier and everything before it
// as the type, with pointer stars stripped from the type text.
func parseFields(body string) (fields, refs []string) {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(line, ";") {
			continue
		}
		field := strings.TrimSpace(strings.TrimRight(line, ";"))
		if field == "" {
			continue
		}
		fields = append(fields, field)

		parts := strings.Fields(field)
		if len(parts) < 2 {
			continue
		}
		typeText := strings.TrimSpace(strings.ReplaceAll(strings.Join(parts[:len(parts)-1], " "), "*", ""))
		if typeText != "" && !CKeywords[typeText] {
			refs = append(refs, typeText)
		}
	}
	return fields, refs
}

func parseEnums(content, path string) []Enum {
	var out []Enum
	for _, m := range enumRe.FindAllStringSubmatchIndex(content, -1) {
		var name, body string
		switch {
		case m[2] >= 0: // enum Name { body }, name may be empty
			name = content[m[2]:m[3]]
			if name == "" {
				name = AnonymousEnum
			}
			body = content[m[4]:m[5]]
		case m[8] >= 0: // typedef enum { body } Name;
			name = content[m[8]:m[9]]
			body = content[m[6]:m[7]]
		default:
			continue
		}

		var values []string
		for _, item := range strings.Split(body, ",") {
			value, _, _ := strings.Cut(strings.TrimSpace(item), "=")
			if value = strings.TrimSpace(value); value != "" {
				values = append(values, value)
			}
		}

		out = append(out, Enum{
			Name:   name,
			File:   path,
			Line:   lineAt(content, m[0]),
			Values: values,
		})
	}
	return out
}

func parseTypedefs(content, path string) []Typedef {
	var out []Typedef
	for _, m := range typedefRe.FindAllStringSubmatchIndex(content, -1) {
		original := strings.TrimSpace(content[m[2]:m[3]])
		alias := content[m[4]:m[5]]

		// Struct and enum typedefs are already captured above. The
		// substring check can misfire on identifiers containing
		// "struct", a known limitation of the heuristic.
		if strings.Contains(original, "struct") || strings.Contains(original, "enum") {
			continue
		}

		out = append(out, Typedef{
			Name:     alias,
			Original: original,
			File:     path,
			Line:     lineAt(content, m[0]),
		})
	}
	return out
}

func parseDecls(content, path string) []FuncDecl {
	var out []FuncDecl
	for _, m := range funcDeclRe.FindAllStringSubmatchIndex(content, -1) {
		name := content[m[4]:m[5]]
		if name == strings.ToUpper(name) || CKeywords[name] {
			continue // macro-shaped or keyword
		}
		out = append(out, FuncDecl{
			Name:       name,
			ReturnType: strings.TrimSpace(content[m[2]:m[3]]),
			Params:     strings.TrimSpace(content[m[6]:m[7]]),
			File:       path,
			Line:       lineAt(content, m[0]),
		})
	}
	return out
}

func parseDefs(content, path string) []FuncDef {
	var out []FuncDef
	for _, m := range funcDefRe.FindAllStringSubmatchIndex(content, -1) {
		name := content[m[4]:m[5]]
		if CKeywords[name] {
			continue
		}
		out = append(out, FuncDef{
			Name:       name,
			ReturnType: strings.TrimSpace(content[m[2]:m[3]]),
			Params:     strings.TrimSpace(content[m[6]:m[7]]),
			File:       path,
			Line:       lineAt(content, m[0]),
		})
	}
	return out
}

func parseMacros(content, path string) []Macro {
	var out []Macro
	for _, m := range macroRe.FindAllStringSubmatchIndex(content, -1) {
		name := content[m[2]:m[3]]

		// Include guards and compiler-provided names are noise.
		if strings.HasPrefix(name, "_") && strings.HasSuffix(name, "_H") {
			continue
		}
		if name == "__cplusplus" || name == "__STDC__" {
			continue
		}

		value := ""
		if m[4] >= 0 {
			value = strings.TrimSpace(content[m[4]:m[5]])
		}
		if len(value) > macroValuePreview {
			value = value[:macroValuePreview] + "..."
		}

		out = append(out, Macro{
			Name:  name,
			Value: value,
			File:  path,
			Line:  lineAt(content, m[0]),
		})
	}
	return out
}

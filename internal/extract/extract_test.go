package extract

import (
	"os"
	"path/filepath"
	"testing"

	"creview/internal/scanner"
)

func tempFile(t *testing.T, name, content string) *scanner.File {
	t.Helper()
	dir := t.TempDir()
	full := filepath.Join(dir, name)
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	ext := filepath.Ext(name)
	return &scanner.File{
		Path:     name,
		AbsPath:  full,
		Name:     name,
		Ext:      ext,
		IsHeader: ext == ".h" || ext == ".hpp",
	}
}

func TestScanFile_Structs(t *testing.T) {
	f := tempFile(t, "types.h", `
struct Point {
    int x;
    int y;
};

typedef struct {
    float width;
    float height;
    Point origin;
} Rect;
`)
	facts, err := ScanFile(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(facts.Structs) != 2 {
		t.Fatalf("expected 2 structs, got %+v", facts.Structs)
	}

	pt := facts.Structs[0]
	if pt.Name != "Point" || len(pt.Fields) != 2 {
		t.Errorf("Point parsed wrong: %+v", pt)
	}

	rect := facts.Structs[1]
	if rect.Name != "Rect" || len(rect.Fields) != 3 {
		t.Errorf("Rect parsed wrong: %+v", rect)
	}
	found := false
	for _, ref := range rect.References {
		if ref == "Point" {
			found = true
		}
	}
	if !found {
		t.Errorf("Rect should reference Point, got %v", rect.References)
	}
}

func TestScanFile_Enums(t *testing.T) {
	f := tempFile(t, "modes.h", `
enum Color { RED, GREEN = 3, BLUE };
typedef enum{ MODE_A, MODE_B } Mode;
enum { ANON_ONE, ANON_TWO };
`)
	facts, err := ScanFile(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(facts.Enums) != 3 {
		t.Fatalf("expected 3 enums, got %+v", facts.Enums)
	}

	color := facts.Enums[0]
	if color.Name != "Color" {
		t.Errorf("got name %q", color.Name)
	}
	if len(color.Values) != 3 || color.Values[1] != "GREEN" {
		t.Errorf("values parsed wrong: %v", color.Values)
	}
	if facts.Enums[1].Name != "Mode" {
		t.Errorf("typedef enum name: %q", facts.Enums[1].Name)
	}
	if facts.Enums[2].Name != AnonymousEnum {
		t.Errorf("anonymous enum name: %q", facts.Enums[2].Name)
	}
}

func TestScanFile_Typedefs(t *testing.T) {
	f := tempFile(t, "alias.h", `
typedef unsigned int uint32;
typedef struct Point PointAlias;
typedef enum Color ColorAlias;
`)
	facts, err := ScanFile(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(facts.Typedefs) != 1 {
		t.Fatalf("struct/enum typedefs should be skipped, got %+v", facts.Typedefs)
	}
	td := facts.Typedefs[0]
	if td.Name != "uint32" || td.Original != "unsigned int" {
		t.Errorf("typedef parsed wrong: %+v", td)
	}
}

func TestScanFile_DeclsAndDefs(t *testing.T) {
	header := tempFile(t, "api.h", `
int add(int a, int b);
extern void reset(void);
static inline char* name_of(int id);
MY_MACRO(something);
`)
	hf, err := ScanFile(header)
	if err != nil {
		t.Fatal(err)
	}
	if len(hf.Decls) != 3 {
		t.Fatalf("expected 3 declarations, got %+v", hf.Decls)
	}
	if hf.Decls[0].Name != "add" || hf.Decls[0].ReturnType != "int" || hf.Decls[0].Params != "int a, int b" {
		t.Errorf("add decl parsed wrong: %+v", hf.Decls[0])
	}
	if len(hf.Defs) != 0 {
		t.Errorf("header has no definitions, got %+v", hf.Defs)
	}

	source := tempFile(t, "impl.c", `int add(int a, int b) {
    return a + b;
}

static void helper(void) {
}
`)
	sf, err := ScanFile(source)
	if err != nil {
		t.Fatal(err)
	}
	if len(sf.Defs) != 2 {
		t.Fatalf("expected 2 definitions, got %+v", sf.Defs)
	}
	if sf.Defs[0].Name != "add" || sf.Defs[0].Line != 1 {
		t.Errorf("add def parsed wrong: %+v", sf.Defs[0])
	}
	if sf.Defs[1].Name != "helper" || sf.Defs[1].Line != 5 {
		t.Errorf("helper def parsed wrong: %+v", sf.Defs[1])
	}
	if len(sf.Structs) != 0 || len(sf.Macros) != 0 {
		t.Errorf("interface entities should come from headers only")
	}
}

func TestScanFile_Macros(t *testing.T) {
	f := tempFile(t, "defs.h", `
#define _DEFS_H
#define __cplusplus 201103L
#define MAX_SIZE 1024
#define SQUARE(x) ((x) * (x))
#define LONG_ONE aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa
`)
	facts, err := ScanFile(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(facts.Macros) != 3 {
		t.Fatalf("guards and reserved names should be skipped, got %+v", facts.Macros)
	}
	if facts.Macros[0].Name != "MAX_SIZE" || facts.Macros[0].Value != "1024" {
		t.Errorf("MAX_SIZE parsed wrong: %+v", facts.Macros[0])
	}
	long := facts.Macros[2]
	if len(long.Value) != macroValuePreview+3 {
		t.Errorf("long value not truncated: %q", long.Value)
	}
}

func TestScanFile_IgnoresCommentsAndStrings(t *testing.T) {
	f := tempFile(t, "noise.h", `
// struct Fake { int x; };
/* enum Ghost { A, B }; */
struct Real { int v; };
`)
	facts, err := ScanFile(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(facts.Structs) != 1 || facts.Structs[0].Name != "Real" {
		t.Errorf("commented-out entities leaked: %+v", facts.Structs)
	}
	if len(facts.Enums) != 0 {
		t.Errorf("commented-out enum leaked: %+v", facts.Enums)
	}
}

func TestScanAll_LastDefinitionWins(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"one.c": "void shared(void) {\n}\n",
		"two.c": "void shared(int x) {\n}\n",
	}
	set := &scanner.FileSet{Root: dir, Files: map[string]*scanner.File{}}
	for name, content := range files {
		full := filepath.Join(dir, name)
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		set.Files[name] = &scanner.File{Path: name, AbsPath: full, Name: name, Ext: ".c"}
	}
	set.Order = []string{"one.c", "two.c"}

	for i := 0; i < 5; i++ {
		facts := ScanAll(set, 4)
		def, ok := facts.Defs["shared"]
		if !ok {
			t.Fatal("shared not found")
		}
		if def.File != "two.c" {
			t.Fatalf("expected last definition to win, got %q", def.File)
		}
	}
}

package scanner

import "testing"

func TestParseIncludes(t *testing.T) {
	raw := `#include "local.h"
#include <stdio.h>
  #  include  "spaced/path.h"
#include <sys/types.h>
int main() { return 0; }
`
	incs := parseIncludes(raw, false, DefaultSystemPrefixes)
	want := []string{"local.h", "spaced/path.h"}
	if len(incs) != len(want) {
		t.Fatalf("expected %d includes, got %d: %v", len(want), len(incs), incs)
	}
	for i, w := range want {
		if incs[i].Path != w {
			t.Errorf("include %d: got %q want %q", i, incs[i].Path, w)
		}
	}
}

func TestParseIncludes_SystemKept(t *testing.T) {
	raw := "#include <stdio.h>\n#include <myproj/api.h>\n#include \"own.h\"\n"
	incs := parseIncludes(raw, true, DefaultSystemPrefixes)
	if len(incs) != 3 {
		t.Fatalf("expected 3 includes, got %d", len(incs))
	}
	if !incs[0].System || !incs[1].System || incs[2].System {
		t.Errorf("system flags wrong: %+v", incs)
	}
}

func TestIsSystemHeader(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"stdio.h", true},
		{"stdlib.h", true},
		{"sys/types.h", true},
		{"string.h", true},
		{"mystring.h", false},
		{"app/stdio.h", false},
		{"vector", true},
	}
	for _, tc := range cases {
		if got := IsSystemHeader(tc.path, DefaultSystemPrefixes); got != tc.want {
			t.Errorf("IsSystemHeader(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

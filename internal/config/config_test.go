package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	content := `
root = "./src"
include_system = true
workers = 8

[exclude]
dirs = [".git", "build"]
files = ["*.generated.c"]

[watch]
enabled = true
debounce = "1s"

[output]
dot = "deps.dot"
tsv = "deps.tsv"

[history]
path = "history.db"

[metrics]
addr = ":9090"

[thresholds]
complexity = 15
function_lines = 80

[[architecture.layers]]
name = "domain"
paths = ["core"]

[[architecture.layers]]
name = "adapter"
paths = ["io", "platform"]

[categories]
wire = ["Packet"]
`
	tmpfile, err := os.CreateTemp("", "config*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Root != "./src" {
		t.Errorf("Expected root ./src, got %s", cfg.Root)
	}
	if !cfg.IncludeSystem {
		t.Error("Expected include_system true")
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Output.DOT != "deps.dot" {
		t.Errorf("Expected DOT deps.dot, got %s", cfg.Output.DOT)
	}
	if cfg.Thresholds.Complexity != 15 {
		t.Errorf("Expected complexity threshold 15, got %d", cfg.Thresholds.Complexity)
	}
	if len(cfg.Architecture.Layers) != 2 {
		t.Errorf("Expected 2 layers, got %v", cfg.Architecture.Layers)
	}
	if cfg.Categories["wire"][0] != "Packet" {
		t.Errorf("Unexpected categories: %v", cfg.Categories)
	}
}

func TestDefaults(t *testing.T) {
	content := `root = "."`
	tmpfile, err := os.CreateTemp("", "config*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	tmpfile.Write([]byte(content))
	tmpfile.Close()

	cfg, _ := Load(tmpfile.Name())
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("Expected default debounce 500ms, got %v", cfg.Watch.Debounce)
	}
	if cfg.Thresholds.Complexity != 10 || cfg.Thresholds.FunctionLines != 50 {
		t.Errorf("Unexpected default thresholds: %+v", cfg.Thresholds)
	}

	def := Default()
	if def.Root != "." {
		t.Errorf("Expected default root '.', got %s", def.Root)
	}
}

func TestLoadError(t *testing.T) {
	_, err := Load("nonexistent.toml")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}

	tmpfile, _ := os.CreateTemp("", "badconfig*.toml")
	defer os.Remove(tmpfile.Name())
	tmpfile.Write([]byte("bad = toml = format"))
	tmpfile.Close()

	_, err = Load(tmpfile.Name())
	if err == nil {
		t.Error("Expected error for malformed TOML")
	}
}

func TestLayerOf(t *testing.T) {
	cfg := Default()
	cfg.Architecture.Layers = []Layer{
		{Name: "domain", Paths: []string{"core"}},
		{Name: "adapter", Paths: []string{"core/io", "platform"}},
	}

	cases := map[string]string{
		"core/engine.c":    "domain",
		"core/io/file.c":   "adapter", // longer prefix wins
		"platform/gl.c":    "adapter",
		"scripts/helper.c": "",
	}
	for path, want := range cases {
		if got := cfg.LayerOf(path); got != want {
			t.Errorf("LayerOf(%q) = %q, want %q", path, got, want)
		}
	}

	layers := cfg.FileLayers([]string{"core/engine.c", "scripts/helper.c"})
	if layers["core/engine.c"] != "domain" {
		t.Errorf("FileLayers wrong: %v", layers)
	}
	if _, ok := layers["scripts/helper.c"]; ok {
		t.Error("unmatched file should be absent from layer map")
	}
}

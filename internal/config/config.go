package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Root           string              `toml:"root"`
	IncludeSystem  bool                `toml:"include_system"`
	SystemPrefixes []string            `toml:"system_prefixes"`
	Workers        int                 `toml:"workers"`
	Exclude        Exclude             `toml:"exclude"`
	Watch          Watch               `toml:"watch"`
	Output         Output              `toml:"output"`
	History        History             `toml:"history"`
	Metrics        Metrics             `toml:"metrics"`
	Tracing        Tracing             `toml:"tracing"`
	Thresholds     Thresholds          `toml:"thresholds"`
	Architecture   Architecture        `toml:"architecture"`
	Categories     map[string][]string `toml:"categories"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Enabled  bool          `toml:"enabled"`
	Debounce time.Duration `toml:"debounce"`
}

type Output struct {
	DOT string `toml:"dot"`
	TSV string `toml:"tsv"`
}

type History struct {
	Path string `toml:"path"`
}

type Metrics struct {
	Addr string `toml:"addr"`
}

type Tracing struct {
	Endpoint string `toml:"endpoint"`
}

type Thresholds struct {
	Complexity    int `toml:"complexity"`
	FunctionLines int `toml:"function_lines"`
}

type Architecture struct {
	Layers []Layer `toml:"layers"`
}

type Layer struct {
	Name  string   `toml:"name"`
	Paths []string `toml:"paths"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Root == "" {
		c.Root = "."
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = 500 * time.Millisecond
	}
	if c.Thresholds.Complexity == 0 {
		c.Thresholds.Complexity = 10
	}
	if c.Thresholds.FunctionLines == 0 {
		c.Thresholds.FunctionLines = 50
	}
}

// LayerOf classifies a relative file path against the architecture
// layers by longest matching path prefix. Empty when nothing matches.
func (c *Config) LayerOf(relPath string) string {
	slashed := filepath.ToSlash(relPath)
	best, bestLen := "", -1
	for _, layer := range c.Architecture.Layers {
		for _, p := range layer.Paths {
			prefix := strings.TrimSuffix(filepath.ToSlash(p), "/")
			if prefix == "" {
				continue
			}
			if slashed != prefix && !strings.HasPrefix(slashed, prefix+"/") {
				continue
			}
			if len(prefix) > bestLen {
				best, bestLen = layer.Name, len(prefix)
			}
		}
	}
	return best
}

// FileLayers maps every path in the list to its layer, skipping files
// that match no layer.
func (c *Config) FileLayers(paths []string) map[string]string {
	if len(c.Architecture.Layers) == 0 {
		return nil
	}
	out := make(map[string]string, len(paths))
	for _, p := range paths {
		if layer := c.LayerOf(p); layer != "" {
			out[p] = layer
		}
	}
	return out
}

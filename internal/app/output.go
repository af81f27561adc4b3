package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"creview/internal/output"
)

// GenerateOutputs writes the configured DOT and TSV artifacts. Empty
// target paths disable the corresponding artifact.
func (a *App) GenerateOutputs(analysis *Analysis) error {
	targets := a.resolveOutputTargets()

	if targets.DOT != "" {
		gen := output.NewDOTGenerator(analysis.Graph(), analysis.Modules)
		dot, err := gen.Generate(analysis.Cycles)
		if err != nil {
			return fmt.Errorf("generate DOT output: %w", err)
		}
		if err := writeArtifact(targets.DOT, dot); err != nil {
			return fmt.Errorf("write DOT output %q: %w", targets.DOT, err)
		}
	}

	if targets.TSV != "" {
		edges, unresolved, err := output.GenerateFromResult(analysis.Includes)
		if err != nil {
			return fmt.Errorf("generate TSV output: %w", err)
		}
		tsv := edges
		if analysis.Includes.UnresolvedCount() > 0 {
			tsv = strings.TrimRight(edges, "\n") + "\n\n" + strings.TrimRight(unresolved, "\n") + "\n"
		}

		if err := writeArtifact(targets.TSV, tsv); err != nil {
			return fmt.Errorf("write TSV output %q: %w", targets.TSV, err)
		}
	}

	return nil
}

type outputTargets struct {
	DOT string
	TSV string
}

func (a *App) resolveOutputTargets() outputTargets {
	return outputTargets{
		DOT: resolveOutputPath(strings.TrimSpace(a.Config.Output.DOT), a.Config.Root),
		TSV: resolveOutputPath(strings.TrimSpace(a.Config.Output.TSV), a.Config.Root),
	}
}

func resolveOutputPath(path, root string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}

func writeArtifact(path, content string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0644)
}

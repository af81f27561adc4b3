package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creview/internal/config"
)

func createTestTree(t *testing.T, tmpDir string) {
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "core"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "util"), 0755))

	write := func(rel, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, rel), []byte(content), 0644))
	}

	write("core/engine.h", `#include "util/log.h"
#include "core/state.h"
#include <stdio.h>

typedef struct {
    int width;
    int height;
} FrameBuffer;

int engine_run(int steps);
`)
	write("core/state.h", `#include "core/engine.h"

typedef enum { STATE_IDLE, STATE_RUNNING } EngineState;
`)
	write("core/engine.c", `#include "core/engine.h"

int engine_run(int steps) {
    FrameBuffer fb;
    fb.width = 640;
    if (steps > 0) {
        log_msg(fb.width);
    }
    return steps;
}
`)
	write("util/log.h", `void log_msg(int value);
`)
	write("util/log.c", `#include "util/log.h"
#include "missing/nowhere.h"

void log_msg(int value) {
    return;
}
`)
	write("main.c", `#include "core/engine.h"

int main(void) {
    return engine_run(3);
}
`)
}

func newTestApp(t *testing.T, tmpDir string) *App {
	cfg := config.Default()
	cfg.Root = tmpDir
	cfg.Output.DOT = "out/deps.dot"
	cfg.Output.TSV = "out/deps.tsv"
	cfg.History.Path = filepath.Join(tmpDir, "history.db")

	a, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestFullPipeline(t *testing.T) {
	tmpDir := t.TempDir()
	createTestTree(t, tmpDir)
	a := newTestApp(t, tmpDir)

	analysis, err := a.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, len(analysis.Files.Order))
	assert.Equal(t, 3, analysis.Files.Headers())
	assert.Equal(t, 3, analysis.Files.Sources())

	// core/engine.h and core/state.h include each other.
	require.Len(t, analysis.Cycles, 1)
	assert.Contains(t, analysis.Cycles[0], "core/engine.h")
	assert.Contains(t, analysis.Cycles[0], "core/state.h")

	// util/log.c points at a header that does not exist.
	assert.Equal(t, 1, analysis.Includes.UnresolvedCount())
	assert.Equal(t, []string{"missing/nowhere.h"}, analysis.Includes.Unresolved["util/log.c"])

	// Call graph: main -> engine_run -> log_msg.
	require.Contains(t, analysis.Xrefs.Functions, "engine_run")
	assert.True(t, analysis.Xrefs.Functions["engine_run"].Calls["log_msg"])
	assert.True(t, analysis.Xrefs.Functions["main"].Calls["engine_run"])

	// FrameBuffer lands in the algorithm category.
	assert.Equal(t, "algorithm", a.Categorizer.Categorize("FrameBuffer"))

	// Directory aggregation: root, core and util.
	assert.Len(t, analysis.Modules, 3)
	require.Contains(t, analysis.Modules, "core")
	assert.True(t, analysis.Modules["core"].Dependencies["util"])
}

func TestRefreshWritesArtifactsAndSnapshot(t *testing.T) {
	tmpDir := t.TempDir()
	createTestTree(t, tmpDir)
	a := newTestApp(t, tmpDir)

	_, err := a.Refresh(context.Background())
	require.NoError(t, err)

	dot, err := os.ReadFile(filepath.Join(tmpDir, "out", "deps.dot"))
	require.NoError(t, err)
	assert.Contains(t, string(dot), "digraph includes")

	tsv, err := os.ReadFile(filepath.Join(tmpDir, "out", "deps.tsv"))
	require.NoError(t, err)
	assert.Contains(t, string(tsv), "From\tTo")
	assert.Contains(t, string(tsv), "unresolved_include")

	report, err := a.TrendReport(time.Time{}, 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, report.Points, 1)
	assert.Equal(t, 6, report.Points[0].FileCount)
	assert.Equal(t, 1, report.Points[0].CycleCount)
}

func TestHealthTransitions(t *testing.T) {
	tmpDir := t.TempDir()
	createTestTree(t, tmpDir)
	a := newTestApp(t, tmpDir)

	status := a.Health()
	assert.Equal(t, "up", status.Status)
	assert.Zero(t, status.FilesKnown)

	_, err := a.Run(context.Background())
	require.NoError(t, err)

	status = a.Health()
	assert.Equal(t, "up", status.Status)
	assert.True(t, status.LastRunOK)
	assert.Equal(t, 6, status.FilesKnown)
}

func TestRunFailsOnMissingRoot(t *testing.T) {
	cfg := config.Default()
	cfg.Root = filepath.Join(t.TempDir(), "does-not-exist")

	a, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	_, err = a.Run(context.Background())
	require.Error(t, err)

	status := a.Health()
	assert.Equal(t, "degraded", status.Status)
	assert.False(t, status.LastRunOK)
}

func TestBuildQueryService(t *testing.T) {
	tmpDir := t.TempDir()
	createTestTree(t, tmpDir)
	a := newTestApp(t, tmpDir)

	_, err := a.BuildQueryService()
	require.Error(t, err)

	_, err = a.Run(context.Background())
	require.NoError(t, err)

	svc, err := a.BuildQueryService()
	require.NoError(t, err)

	mods, err := svc.ListModules(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Len(t, mods, 3)
}

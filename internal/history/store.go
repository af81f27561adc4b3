// Package history persists per-run analysis snapshots to sqlite and
// derives trend reports from them.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *Store) SaveSnapshot(projectKey string, snapshot Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	projectKey = strings.TrimSpace(projectKey)
	if projectKey == "" {
		projectKey = "default"
	}

	if snapshot.RunID == "" {
		snapshot.RunID = uuid.NewString()
	}
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = time.Now().UTC()
	}
	if snapshot.SchemaVersion == 0 {
		snapshot.SchemaVersion = SchemaVersion
	}
	if snapshot.SchemaVersion != SchemaVersion {
		return fmt.Errorf("unsupported snapshot schema version %d", snapshot.SchemaVersion)
	}

	query := `
INSERT INTO snapshots (
  project_key, run_id, schema_version, ts_utc, file_count, header_count, source_count,
  line_count, module_count, edge_count, cycle_count, unresolved_count, function_count,
  call_edge_count, struct_count, avg_complexity, max_complexity,
  avg_fan_in, avg_fan_out, max_fan_in, max_fan_out
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(project_key, run_id) DO UPDATE SET
  schema_version=excluded.schema_version,
  ts_utc=excluded.ts_utc,
  file_count=excluded.file_count,
  header_count=excluded.header_count,
  source_count=excluded.source_count,
  line_count=excluded.line_count,
  module_count=excluded.module_count,
  edge_count=excluded.edge_count,
  cycle_count=excluded.cycle_count,
  unresolved_count=excluded.unresolved_count,
  function_count=excluded.function_count,
  call_edge_count=excluded.call_edge_count,
  struct_count=excluded.struct_count,
  avg_complexity=excluded.avg_complexity,
  max_complexity=excluded.max_complexity,
  avg_fan_in=excluded.avg_fan_in,
  avg_fan_out=excluded.avg_fan_out,
  max_fan_in=excluded.max_fan_in,
  max_fan_out=excluded.max_fan_out
`
	return s.withRetry("save snapshot", func() error {
		_, err := s.db.Exec(
			query,
			projectKey,
			snapshot.RunID,
			snapshot.SchemaVersion,
			snapshot.Timestamp.UTC().Format(time.RFC3339Nano),
			snapshot.FileCount,
			snapshot.HeaderCount,
			snapshot.SourceCount,
			snapshot.LineCount,
			snapshot.ModuleCount,
			snapshot.EdgeCount,
			snapshot.CycleCount,
			snapshot.UnresolvedCount,
			snapshot.FunctionCount,
			snapshot.CallEdgeCount,
			snapshot.StructCount,
			snapshot.AvgComplexity,
			snapshot.MaxComplexity,
			snapshot.AvgFanIn,
			snapshot.AvgFanOut,
			snapshot.MaxFanIn,
			snapshot.MaxFanOut,
		)
		return err
	})
}

func (s *Store) LoadSnapshots(projectKey string, since time.Time) ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projectKey = strings.TrimSpace(projectKey)
	if projectKey == "" {
		projectKey = "default"
	}

	query := `
SELECT
  project_key, run_id, schema_version, ts_utc, file_count, header_count, source_count,
  line_count, module_count, edge_count, cycle_count, unresolved_count, function_count,
  call_edge_count, struct_count, avg_complexity, max_complexity,
  avg_fan_in, avg_fan_out, max_fan_in, max_fan_out
FROM snapshots
WHERE project_key = ?`
	args := []any{projectKey}
	if !since.IsZero() {
		query += " AND ts_utc >= ?"
		args = append(args, since.UTC().Format(time.RFC3339Nano))
	}
	query += " ORDER BY ts_utc ASC, run_id ASC"

	var rows *sql.Rows
	err := s.withRetry("load snapshots", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := make([]Snapshot, 0)
	for rows.Next() {
		var (
			tsRaw    string
			snapshot Snapshot
		)
		if err := rows.Scan(
			&snapshot.ProjectKey,
			&snapshot.RunID,
			&snapshot.SchemaVersion,
			&tsRaw,
			&snapshot.FileCount,
			&snapshot.HeaderCount,
			&snapshot.SourceCount,
			&snapshot.LineCount,
			&snapshot.ModuleCount,
			&snapshot.EdgeCount,
			&snapshot.CycleCount,
			&snapshot.UnresolvedCount,
			&snapshot.FunctionCount,
			&snapshot.CallEdgeCount,
			&snapshot.StructCount,
			&snapshot.AvgComplexity,
			&snapshot.MaxComplexity,
			&snapshot.AvgFanIn,
			&snapshot.AvgFanOut,
			&snapshot.MaxFanIn,
			&snapshot.MaxFanOut,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}

		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse snapshot timestamp %q: %w", tsRaw, err)
		}
		snapshot.Timestamp = ts.UTC()
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}

	return snapshots, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

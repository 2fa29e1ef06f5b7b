package persistence

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Status is the terminal state of one recorded pair run
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// RunRecord is the audit row kept for every processed subtitle pair
type RunRecord struct {
	ID               int64
	PairKey          string
	ReferencePath    string
	TargetPath       string
	CueCount         int
	SkippedReference int
	SkippedTarget    int
	Status           Status
	Error            string
	CreatedAt        time.Time
}

// SQLiteStore persists run history so batch mode can skip pairs that already
// processed successfully and failures stay auditable between runs.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &SQLiteStore{db: db}
	if err := store.init(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
		return fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		return fmt.Errorf("set busy timeout: %w", err)
	}
	// Bootstrap schema_migrations table so we can track applied versions.
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		version, err := migrationVersion(entry.Name())
		if err != nil {
			return err
		}

		var applied int
		err = s.db.QueryRowContext(ctx,
			"SELECT COUNT(1) FROM schema_migrations WHERE version = ?", version).Scan(&applied)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", version, err)
		}
		if applied > 0 {
			continue
		}

		script, err := migrationFiles.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		if _, err := s.db.ExecContext(ctx, string(script)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
		if _, err := s.db.ExecContext(ctx,
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("record migration %d: %w", version, err)
		}
	}

	return nil
}

func migrationVersion(name string) (int, error) {
	prefix, _, ok := strings.Cut(name, "_")
	if !ok {
		return 0, fmt.Errorf("migration %s has no version prefix", name)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, fmt.Errorf("migration %s has no numeric version: %w", name, err)
	}
	return version, nil
}

// RecordRun appends one run outcome
func (s *SQLiteStore) RecordRun(ctx context.Context, record RunRecord) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO runs
		(pair_key, reference_path, target_path, cue_count, skipped_reference, skipped_target, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.PairKey,
		record.ReferencePath,
		record.TargetPath,
		record.CueCount,
		record.SkippedReference,
		record.SkippedTarget,
		string(record.Status),
		record.Error,
	)
	if err != nil {
		return fmt.Errorf("record run for %s: %w", record.PairKey, err)
	}
	return nil
}

// LastSuccess returns the most recent successful run for a pair key,
// or nil when the pair never completed.
func (s *SQLiteStore) LastSuccess(ctx context.Context, pairKey string) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT
		id, pair_key, reference_path, target_path, cue_count,
		skipped_reference, skipped_target, status, error, created_at
		FROM runs WHERE pair_key = ? AND status = ?
		ORDER BY id DESC LIMIT 1`, pairKey, string(StatusSuccess))

	record, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load last success for %s: %w", pairKey, err)
	}
	return record, nil
}

// History returns the most recent runs, newest first
func (s *SQLiteStore) History(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `SELECT
		id, pair_key, reference_path, target_path, cue_count,
		skipped_reference, skipped_target, status, error, created_at
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("load run history: %w", err)
	}
	defer rows.Close()

	ret := make([]RunRecord, 0, limit)
	for rows.Next() {
		record, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run history: %w", err)
		}
		ret = append(ret, *record)
	}
	return ret, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var record RunRecord
	var status string
	err := row.Scan(
		&record.ID,
		&record.PairKey,
		&record.ReferencePath,
		&record.TargetPath,
		&record.CueCount,
		&record.SkippedReference,
		&record.SkippedTarget,
		&status,
		&record.Error,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	record.Status = Status(status)
	return &record, nil
}

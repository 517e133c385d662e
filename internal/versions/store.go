package versions

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages registry persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Version is one registry row.
type Version struct {
	ID            int64
	Tag           string
	RunID         string
	Seed          int64
	TrainCount    int64
	ValCount      int64
	TestCount     int64
	ExcludedCount int64
	DurationSec   float64
	OutputDir     string
	CreatedAt     time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS dataset_versions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    tag TEXT NOT NULL UNIQUE,
    run_id TEXT NOT NULL,
    seed INTEGER NOT NULL,
    train_count INTEGER NOT NULL,
    val_count INTEGER NOT NULL,
    test_count INTEGER NOT NULL,
    excluded_count INTEGER NOT NULL,
    total_duration_sec REAL NOT NULL,
    output_dir TEXT NOT NULL,
    created_at TEXT NOT NULL
)`

// Open initializes or connects to the registry database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure registry directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// NextTag returns the next free v<n> tag: one past the highest numeric tag
// already recorded, or v1 for an empty registry.
func (s *Store) NextTag(ctx context.Context) (string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT tag FROM dataset_versions`)
	if err != nil {
		return "", fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	highest := 0
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return "", fmt.Errorf("scan tag: %w", err)
		}
		n, ok := numericTag(tag)
		if ok && n > highest {
			highest = n
		}
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterate tags: %w", err)
	}
	return "v" + strconv.Itoa(highest+1), nil
}

func numericTag(tag string) (int, bool) {
	rest, ok := strings.CutPrefix(tag, "v")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Record inserts a completed run into the registry.
func (s *Store) Record(ctx context.Context, v Version) error {
	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO dataset_versions (
            tag, run_id, seed, train_count, val_count, test_count,
            excluded_count, total_duration_sec, output_dir, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.Tag,
		v.RunID,
		v.Seed,
		v.TrainCount,
		v.ValCount,
		v.TestCount,
		v.ExcludedCount,
		v.DurationSec,
		v.OutputDir,
		v.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert version %s: %w", v.Tag, err)
	}
	return nil
}

// List returns every recorded version, oldest first.
func (s *Store) List(ctx context.Context) ([]Version, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, tag, run_id, seed, train_count, val_count, test_count,
               excluded_count, total_duration_sec, output_dir, created_at
        FROM dataset_versions ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query versions: %w", err)
	}
	defer rows.Close()

	var out []Version
	for rows.Next() {
		var v Version
		var createdAt string
		if err := rows.Scan(
			&v.ID, &v.Tag, &v.RunID, &v.Seed, &v.TrainCount, &v.ValCount,
			&v.TestCount, &v.ExcludedCount, &v.DurationSec, &v.OutputDir, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		if ts, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			v.CreatedAt = ts
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate versions: %w", err)
	}
	return out, nil
}

// Package history keeps a local log of verification runs. Only this log is
// ever written; the encrypted assignment store stays read-only.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Run is one recorded verification of one project.
type Run struct {
	ID        int
	LoginID   string
	Project   string
	PortsUsed int
	Conflicts int
	IsValid   bool
	RanAt     time.Time
}

// Store is the sqlite-backed run log.
type Store struct {
	db *sql.DB
}

// DefaultPath returns ~/.portward/history.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".portward", "history.db"), nil
}

// Open creates or opens the run log at path, creating parent directories
// as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS verification_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		login_id TEXT NOT NULL,
		project TEXT NOT NULL,
		ports_used INTEGER NOT NULL,
		conflicts INTEGER NOT NULL,
		is_valid INTEGER NOT NULL,
		ran_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_login ON verification_runs(login_id);
	CREATE INDEX IF NOT EXISTS idx_runs_ran_at ON verification_runs(ran_at);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return nil
}

// Record appends one verification run to the log.
func (s *Store) Record(run Run) error {
	ranAt := run.RanAt
	if ranAt.IsZero() {
		ranAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO verification_runs (login_id, project, ports_used, conflicts, is_valid, ran_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.LoginID, run.Project, run.PortsUsed, run.Conflicts, boolToInt(run.IsValid),
		ranAt.Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("failed to record verification run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first. limit <= 0 means all.
func (s *Store) List(limit int) ([]Run, error) {
	query := `
		SELECT id, login_id, project, ports_used, conflicts, is_valid, ran_at
		FROM verification_runs
		ORDER BY ran_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query verification runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		var isValid int
		var ranAt string

		if err := rows.Scan(&r.ID, &r.LoginID, &r.Project, &r.PortsUsed, &r.Conflicts, &isValid, &ranAt); err != nil {
			return nil, err
		}
		r.IsValid = isValid != 0
		r.RanAt, _ = time.Parse(time.RFC3339, ranAt)
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// Prune deletes runs older than the given number of days and reports how
// many were removed.
func (s *Store) Prune(olderThanDays int) (int, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays).Format(time.RFC3339)

	res, err := s.db.Exec("DELETE FROM verification_runs WHERE ran_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune verification runs: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Run represents a single recorded generation run
type Run struct {
	ID             int64
	RunID          string
	SourcePath     string
	OutputPath     string
	DirectoryCount int
	FileCount      int
	TotalBytes     int
	ScriptBytes    int
	Duration       time.Duration
	CreatedAt      time.Time
}

// Store manages the SQLite database of generation runs
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore creates a new Store instance and initializes the database
func NewStore(dbPath string) (*Store, error) {
	// Handle in-memory database
	if dbPath == ":memory:" {
		return openAndInitStore(dbPath)
	}

	// Ensure parent directory exists for file-based databases
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	return openAndInitStore(dbPath)
}

// openAndInitStore opens the database connection and initializes schema
func openAndInitStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Configure SQLite for concurrent access with retry logic.
	// Set busy_timeout FIRST so subsequent operations wait on locks.
	pragmas := []string{
		"PRAGMA busy_timeout=5000", // Must be first
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := execWithRetry(db, schemaSQL, 5, 10*time.Millisecond); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// execWithRetry executes a SQL statement with exponential backoff retry on lock errors.
func execWithRetry(db *sql.DB, sql string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(sql)
		if err == nil {
			return nil
		}

		// Only retry on "database is locked" errors
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}

		lastErr = err
		delay := baseDelay * time.Duration(1<<attempt)
		time.Sleep(delay)
	}
	return lastErr
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun inserts a generation run and returns its assigned run id.
// The RunID field is generated when empty.
func (s *Store) RecordRun(run Run) (string, error) {
	runID := run.RunID
	if runID == "" {
		runID = uuid.New().String()
	}

	query := `INSERT INTO generation_runs
		(run_id, source_path, output_path, directory_count, file_count, total_bytes, script_bytes, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.Exec(query,
		runID,
		run.SourcePath,
		run.OutputPath,
		run.DirectoryCount,
		run.FileCount,
		run.TotalBytes,
		run.ScriptBytes,
		run.Duration.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}

	return runID, nil
}

// ListRuns returns the most recent runs, newest first, up to limit
// (0 = no limit).
func (s *Store) ListRuns(limit int) ([]Run, error) {
	query := `SELECT id, run_id, source_path, output_path, directory_count,
		file_count, total_bytes, script_bytes, duration_ms, created_at
		FROM generation_runs
		ORDER BY id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var durationMS int64
		if err := rows.Scan(
			&run.ID,
			&run.RunID,
			&run.SourcePath,
			&run.OutputPath,
			&run.DirectoryCount,
			&run.FileCount,
			&run.TotalBytes,
			&run.ScriptBytes,
			&durationMS,
			&run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// Prune deletes all but the newest keepRuns rows. keepRuns <= 0 keeps
// everything.
func (s *Store) Prune(keepRuns int) (int64, error) {
	if keepRuns <= 0 {
		return 0, nil
	}

	result, err := s.db.Exec(
		`DELETE FROM generation_runs
		 WHERE id NOT IN (SELECT id FROM generation_runs ORDER BY id DESC LIMIT ?)`,
		keepRuns,
	)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return result.RowsAffected()
}

// Clear deletes every recorded run and returns the number removed.
func (s *Store) Clear() (int64, error) {
	result, err := s.db.Exec(`DELETE FROM generation_runs`)
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	return result.RowsAffected()
}

// Count returns the number of recorded runs.
func (s *Store) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM generation_runs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return count, nil
}

// Package storage provides SQLite-based persistence for screensaver runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-pipes/internal/engine"
)

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// Run is one finished screensaver session.
type Run struct {
	ID          int64
	Source      string // "local" or "ssh:<user>"
	Backend     string
	Seed        int64
	Width       int
	Height      int
	Ticks       int64
	PiecesTotal int64
	PipesTotal  int64
	LayersTotal int64
	Clears      int64
	Duration    time.Duration
	CreatedAt   time.Time
}

// NewRun builds a run record from the final engine counters.
func NewRun(source, backend string, seed int64, eng *engine.Engine, started time.Time) Run {
	stats := eng.Stats()
	size := eng.Canvas().Size()
	return Run{
		Source:      source,
		Backend:     backend,
		Seed:        seed,
		Width:       size.W,
		Height:      size.H,
		Ticks:       stats.Ticks,
		PiecesTotal: stats.PiecesTotal,
		PipesTotal:  stats.PipesTotal,
		LayersTotal: stats.LayersTotal,
		Clears:      stats.Clears,
		Duration:    time.Since(started).Truncate(time.Second),
	}
}

// Totals aggregates every recorded run.
type Totals struct {
	Runs     int
	Pieces   int64
	Pipes    int64
	Clears   int64
	Duration time.Duration
	LastRun  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			backend TEXT NOT NULL,
			seed INTEGER NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			ticks INTEGER NOT NULL DEFAULT 0,
			pieces_total INTEGER NOT NULL DEFAULT 0,
			pipes_total INTEGER NOT NULL DEFAULT 0,
			layers_total INTEGER NOT NULL DEFAULT 0,
			clears INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(r Run) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs
		 (source, backend, seed, width, height, ticks, pieces_total, pipes_total, layers_total, clears, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Source,
		r.Backend,
		r.Seed,
		r.Width,
		r.Height,
		r.Ticks,
		r.PiecesTotal,
		r.PipesTotal,
		r.LayersTotal,
		r.Clears,
		int64(r.Duration/time.Second),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentRuns retrieves the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, source, backend, seed, width, height, ticks,
		        pieces_total, pipes_total, layers_total, clears, duration_secs, created_at
		 FROM runs
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var durationSecs int64
		var createdAt any
		if err := rows.Scan(
			&r.ID,
			&r.Source,
			&r.Backend,
			&r.Seed,
			&r.Width,
			&r.Height,
			&r.Ticks,
			&r.PiecesTotal,
			&r.PipesTotal,
			&r.LayersTotal,
			&r.Clears,
			&durationSecs,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Duration = time.Duration(durationSecs) * time.Second
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// Totals retrieves aggregated counters over all runs.
func (s *Store) Totals() (Totals, error) {
	var t Totals
	var durationSecs int64
	var lastRun any

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(pieces_total), 0), COALESCE(SUM(pipes_total), 0),
		        COALESCE(SUM(clears), 0), COALESCE(SUM(duration_secs), 0), MAX(created_at)
		 FROM runs`,
	).Scan(&t.Runs, &t.Pieces, &t.Pipes, &t.Clears, &durationSecs, &lastRun)
	if err != nil {
		return Totals{}, fmt.Errorf("storage: cannot get totals: %w", err)
	}

	t.Duration = time.Duration(durationSecs) * time.Second
	t.LastRun = parseTime(lastRun)
	return t, nil
}

// ClearRuns deletes the whole history.
func (s *Store) ClearRuns() error {
	if _, err := s.db.Exec("DELETE FROM runs"); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

package storage

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"house_crush/models"
)

// SQLiteStore is the operational store: run history and run logs.
// Listings themselves live in the ads file and optionally in the
// Postgres archive.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY,
		provider TEXT,
		location TEXT,
		started_at DATETIME,
		finished_at DATETIME,
		status TEXT,
		listings_found INTEGER DEFAULT 0,
		listings_kept INTEGER DEFAULT 0,
		errors_count INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS run_logs (
		id INTEGER PRIMARY KEY,
		run_id INTEGER,
		timestamp DATETIME,
		level TEXT,
		message TEXT,
		provider TEXT
	);

	CREATE TABLE IF NOT EXISTS feedback (
		id INTEGER PRIMARY KEY,
		message TEXT NOT NULL,
		user_agent TEXT,
		created_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_runs_provider ON runs(provider, started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status, started_at);
	CREATE INDEX IF NOT EXISTS idx_logs_run ON run_logs(run_id, timestamp);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) CreateRun(ctx context.Context, run *models.CollectRun) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (provider, location, started_at, status, listings_found, listings_kept, errors_count)
		VALUES (?, ?, ?, ?, 0, 0, 0)`,
		run.Provider, run.Location, run.StartedAt, run.Status)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	run.ID = id
	return id, nil
}

func (s *SQLiteStore) FinishRun(ctx context.Context, id int64, status models.RunStatus, found, kept int) error {
	errors := 0
	if status == models.RunStatusFailed {
		errors = 1
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, status = ?, listings_found = ?, listings_kept = ?, errors_count = errors_count + ?
		WHERE id = ?`,
		time.Now(), status, found, kept, errors, id)
	return err
}

func (s *SQLiteStore) AddLog(ctx context.Context, entry *models.RunLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO run_logs (run_id, timestamp, level, message, provider)
		VALUES (?, ?, ?, ?, ?)`,
		entry.RunID, entry.Timestamp, entry.Level, entry.Message, entry.Provider)
	return err
}

func (s *SQLiteStore) RecentRuns(ctx context.Context, limit int) ([]models.CollectRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, provider, location, started_at, finished_at, status, listings_found, listings_kept, errors_count
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.CollectRun
	for rows.Next() {
		var run models.CollectRun
		var finished sql.NullTime
		if err := rows.Scan(&run.ID, &run.Provider, &run.Location, &run.StartedAt, &finished,
			&run.Status, &run.ListingsFound, &run.ListingsKept, &run.ErrorsCount); err != nil {
			return nil, err
		}
		if finished.Valid {
			run.FinishedAt = &finished.Time
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) AddFeedback(ctx context.Context, entry *models.Feedback) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback (message, user_agent, created_at)
		VALUES (?, ?, ?)`,
		entry.Message, entry.UserAgent, entry.CreatedAt)
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		entry.ID = id
	}
	return nil
}

func (s *SQLiteStore) RecentFeedback(ctx context.Context, limit int) ([]models.Feedback, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, message, user_agent, created_at
		FROM feedback ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.Feedback
	for rows.Next() {
		var f models.Feedback
		if err := rows.Scan(&f.ID, &f.Message, &f.UserAgent, &f.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, f)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) ProviderStats(ctx context.Context, provider string) (*models.ProviderStats, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(listings_kept), 0),
			COALESCE(AVG(CASE WHEN finished_at IS NOT NULL
				THEN (julianday(finished_at) - julianday(started_at)) * 86400 END), 0),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END) * 1.0 / NULLIF(COUNT(*), 0), 0)
		FROM runs WHERE provider = ?`, provider)

	stats := &models.ProviderStats{Provider: provider}
	var avgDuration float64
	if err := row.Scan(&stats.TotalRuns, &stats.TotalListings, &avgDuration, &stats.SuccessRate); err != nil {
		return nil, err
	}
	stats.AvgDurationSec = int(avgDuration)

	last := s.db.QueryRowContext(ctx, `
		SELECT started_at, status FROM runs WHERE provider = ? ORDER BY started_at DESC LIMIT 1`, provider)
	var lastAt time.Time
	var lastStatus string
	if err := last.Scan(&lastAt, &lastStatus); err == nil {
		stats.LastRunAt = &lastAt
		stats.LastRunStatus = lastStatus
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	return stats, nil
}

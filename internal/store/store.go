// Package store keeps an append-only SQLite log of translations served by
// the API. It is never consulted to answer a request.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// Request is one accepted call to the translation endpoint.
type Request struct {
	ID         string
	SourceText string
	SourceLang string
	TargetLang string
	// ResolvedSource is the language sent upstream after auto detection.
	ResolvedSource string
	Timestamp      time.Time
}

// Result is the outcome of a Request.
type Result struct {
	RequestID      string
	ServiceName    string
	TranslatedText string
	StatusCode     int
	Latency        time.Duration
	Error          string
}

// Entry is a request joined with its result.
type Entry struct {
	ID             string
	SourceText     string
	SourceLang     string
	ResolvedSource string
	TargetLang     string
	ServiceName    string
	TranslatedText string
	StatusCode     int
	LatencyMs      int
	Error          string
	CreatedAt      time.Time
}

// Stats summarises the history log.
type Stats struct {
	TotalRequests int
	Succeeded     int
	Failed        int
	AvgLatencyMs  float64
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS translation_requests (
		id TEXT PRIMARY KEY,
		source_text TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		resolved_source TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS translation_results (
		request_id TEXT PRIMARY KEY,
		service_name TEXT NOT NULL,
		translated_text TEXT NOT NULL,
		status_code INTEGER NOT NULL,
		latency_ms INTEGER,
		error TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (request_id) REFERENCES translation_requests(id)
	);

	CREATE INDEX IF NOT EXISTS idx_requests_created ON translation_requests(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) SaveRequest(ctx context.Context, req Request) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO translation_requests (id, source_text, source_lang, resolved_source, target_lang, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		req.ID, req.SourceText, req.SourceLang, req.ResolvedSource, req.TargetLang, req.Timestamp)
	return err
}

func (s *Store) SaveResult(ctx context.Context, res Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO translation_results (request_id, service_name, translated_text, status_code, latency_ms, error) VALUES (?, ?, ?, ?, ?, ?)`,
		res.RequestID, res.ServiceName, res.TranslatedText, res.StatusCode, res.Latency.Milliseconds(), res.Error)
	return err
}

// ListHistory returns up to limit entries, newest first. limit <= 0 lists everything.
func (s *Store) ListHistory(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT r.id, r.source_text, r.source_lang, r.resolved_source, r.target_lang,
			COALESCE(t.service_name, ''), COALESCE(t.translated_text, ''),
			COALESCE(t.status_code, 0), COALESCE(t.latency_ms, 0), COALESCE(t.error, ''),
			r.created_at
		FROM translation_requests r
		LEFT JOIN translation_results t ON t.request_id = r.id
		ORDER BY r.created_at DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.SourceText, &e.SourceLang, &e.ResolvedSource, &e.TargetLang,
			&e.ServiceName, &e.TranslatedText, &e.StatusCode, &e.LatencyMs, &e.Error, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN t.status_code = 200 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN t.status_code <> 200 THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(t.latency_ms), 0)
		FROM translation_requests r
		LEFT JOIN translation_results t ON t.request_id = r.id`).Scan(
		&stats.TotalRequests,
		&stats.Succeeded,
		&stats.Failed,
		&stats.AvgLatencyMs,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Clear removes all history and returns the number of requests deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM translation_results`); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM translation_requests`)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

func (s *Store) Close() error {
	return s.db.Close()
}

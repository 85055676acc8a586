// Package store persists targets and price history in a single sqlite
// file. Targets are keyed by their normalized URL — callers normalize
// before calling in. History is append-only: rows are inserted exactly
// once and never updated, so it survives target deletion as an audit
// trail by design.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/pricewatch/record"
)

// Store wraps the sqlite handle.
type Store struct {
	DB *sql.DB
}

// Open opens (creating if needed) the sqlite file and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}

	return &Store{DB: db}, nil
}

// NewStore wraps an existing database handle (tests, shared pools).
func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// Close closes the underlying handle.
func (s *Store) Close() error {
	return s.DB.Close()
}

// AddTarget registers a normalized URL for monitoring. Returns true when
// the target is new; an existing identical key is a silent no-op, which
// is what keeps the store free of normalized duplicates.
func (s *Store) AddTarget(ctx context.Context, normalizedURL string) (bool, error) {
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO targets (url, added_at) VALUES (?, ?)
		ON CONFLICT(url) DO NOTHING`,
		normalizedURL, time.Now().UnixMilli(),
	)
	if err != nil {
		return false, fmt.Errorf("store: add target: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListTargets returns all targets in insertion order.
func (s *Store) ListTargets(ctx context.Context) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT url FROM targets ORDER BY added_at, url`)
	if err != nil {
		return nil, fmt.Errorf("store: list targets: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

// RemoveTarget deletes one target. History for it remains untouched.
func (s *Store) RemoveTarget(ctx context.Context, normalizedURL string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM targets WHERE url = ?`, normalizedURL)
	return err
}

// PurgeTargets deletes all targets. History remains untouched.
func (s *Store) PurgeTargets(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM targets`)
	return err
}

// CountTargets returns the number of stored targets.
func (s *Store) CountTargets(ctx context.Context) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM targets`).Scan(&n)
	return n, err
}

// AppendRecord inserts one price observation. Insert-only by contract.
func (s *Store) AppendRecord(ctx context.Context, rec *record.PriceRecord) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO price_history (id, product_name, price, currency, source_url, captured_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ProductName, rec.Price, rec.Currency, rec.SourceURL,
		rec.CapturedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("store: append record: %w", err)
	}
	return nil
}

// History returns observations for one source URL, newest first, capped
// at limit (0 = no cap).
func (s *Store) History(ctx context.Context, sourceURL string, limit int) ([]record.PriceRecord, error) {
	q := `SELECT id, product_name, price, currency, source_url, captured_at
		FROM price_history WHERE source_url = ? ORDER BY captured_at DESC`
	args := []any{sourceURL}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: history: %w", err)
	}
	defer rows.Close()

	var out []record.PriceRecord
	for rows.Next() {
		var rec record.PriceRecord
		var capturedAt int64
		if err := rows.Scan(&rec.ID, &rec.ProductName, &rec.Price,
			&rec.Currency, &rec.SourceURL, &capturedAt); err != nil {
			return nil, err
		}
		rec.CapturedAt = time.UnixMilli(capturedAt).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// PurgeHistory deletes all observations. This is the one destructive
// history operation and it is never called by the scraping core.
func (s *Store) PurgeHistory(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM price_history`)
	return err
}

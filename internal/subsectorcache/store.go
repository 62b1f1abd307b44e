package subsectorcache

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"astrogen/internal/world"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes. Older databases are
// rejected; the cache is disposable so users can simply delete the file.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Store persists cached TravellerMap payloads in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Stats summarizes cache contents.
type Stats struct {
	Sectors    int
	Subsectors int
	Oldest     time.Time
	Newest     time.Time
}

// Open initializes or connects to the cache database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("cache database path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
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

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (run 'astrogen cache clear' or delete %s)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

func sectorKey(sector string) string {
	return strings.ToLower(strings.TrimSpace(sector))
}

// Subsector returns the cached listing and when it was fetched.
func (s *Store) Subsector(ctx context.Context, sector string, index int) (string, time.Time, bool, error) {
	var (
		body      string
		fetchedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT body, fetched_at FROM subsectors WHERE sector = ? AND idx = ?",
		sectorKey(sector), index,
	).Scan(&body, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", time.Time{}, false, nil
	}
	if err != nil {
		return "", time.Time{}, false, fmt.Errorf("read cached subsector: %w", err)
	}
	return body, time.Unix(fetchedAt, 0), true, nil
}

// PutSubsector stores or replaces a subsector listing.
func (s *Store) PutSubsector(ctx context.Context, sector string, index int, body string, fetchedAt time.Time) error {
	return s.execWithRetry(ctx,
		`INSERT INTO subsectors (sector, idx, body, fetched_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(sector, idx) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		sectorKey(sector), index, body, fetchedAt.Unix(),
	)
}

// Metadata returns the cached subsector descriptors of sector.
func (s *Store) Metadata(ctx context.Context, sector string) ([]world.SubsectorMetadata, time.Time, bool, error) {
	var (
		body      string
		fetchedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT body, fetched_at FROM metadata WHERE sector = ?",
		sectorKey(sector),
	).Scan(&body, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("read cached metadata: %w", err)
	}
	var subsectors []world.SubsectorMetadata
	if err := json.Unmarshal([]byte(body), &subsectors); err != nil {
		return nil, time.Time{}, false, fmt.Errorf("decode cached metadata: %w", err)
	}
	return subsectors, time.Unix(fetchedAt, 0), true, nil
}

// PutMetadata stores or replaces the subsector descriptors of sector.
func (s *Store) PutMetadata(ctx context.Context, sector string, subsectors []world.SubsectorMetadata, fetchedAt time.Time) error {
	body, err := json.Marshal(subsectors)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	return s.execWithRetry(ctx,
		`INSERT INTO metadata (sector, body, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(sector) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		sectorKey(sector), string(body), fetchedAt.Unix(),
	)
}

// Purge removes cached entries. An empty sector clears everything.
func (s *Store) Purge(ctx context.Context, sector string) (int64, error) {
	var removed int64
	tables := []string{"metadata", "subsectors"}
	for _, table := range tables {
		query := "DELETE FROM " + table
		args := []any{}
		if strings.TrimSpace(sector) != "" {
			query += " WHERE sector = ?"
			args = append(args, sectorKey(sector))
		}
		var res sql.Result
		err := retryOnBusy(ctx, func() error {
			var execErr error
			res, execErr = s.db.ExecContext(ctx, query, args...)
			return execErr
		})
		if err != nil {
			return removed, fmt.Errorf("purge %s: %w", table, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			removed += n
		}
	}
	return removed, nil
}

// Stats reports how much the cache holds.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var (
		stats          Stats
		oldest, newest sql.NullInt64
	)
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM metadata").Scan(&stats.Sectors); err != nil {
		return Stats{}, fmt.Errorf("count metadata: %w", err)
	}
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1), MIN(fetched_at), MAX(fetched_at) FROM subsectors",
	).Scan(&stats.Subsectors, &oldest, &newest)
	if err != nil {
		return Stats{}, fmt.Errorf("count subsectors: %w", err)
	}
	if oldest.Valid {
		stats.Oldest = time.Unix(oldest.Int64, 0)
	}
	if newest.Valid {
		stats.Newest = time.Unix(newest.Int64, 0)
	}
	return stats, nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

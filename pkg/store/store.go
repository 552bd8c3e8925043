package store

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver

	"github.com/wildmeta/marketpulse/pkg/domain"
)

//go:embed schema.sql
var schema string

// Seen is the durable dedup store: a set of previously delivered item ids
// backed by SQLite. One pipeline process owns one store (single-writer),
// but MarkSeen still uses an atomic insert-if-absent so a future
// multi-writer setup stays correct.
type Seen struct {
	conn *sqlx.DB
}

// Config represents store configuration
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// New opens the store, applies pragmas and initializes the schema
func New(cfg Config) (*Seen, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("store DSN is required")
	}

	conn, err := sqlx.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	// WAL keeps committed marks durable across process crashes
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			return nil, fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	s := &Seen{conn: conn}
	if _, err := conn.ExecContext(context.Background(), schema); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying connection
func (s *Seen) Close() error {
	return s.conn.Close()
}

// IsNew reports whether no admission record exists for the id
func (s *Seen) IsNew(ctx context.Context, itemID string) (bool, error) {
	var exists int
	err := s.conn.GetContext(ctx, &exists, "SELECT 1 FROM seen WHERE item_id = ? LIMIT 1", itemID)
	if err == nil {
		return false, nil
	}
	if strings.Contains(err.Error(), "no rows") {
		return true, nil
	}
	return false, fmt.Errorf("check seen record: %w", err)
}

// MarkSeen records the item as processed. Insert-if-absent: marking an
// already seen id is a no-op. Retries on SQLite lock errors with backoff.
func (s *Seen) MarkSeen(ctx context.Context, itemID, source string, ts time.Time) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		_, err := s.conn.ExecContext(ctx,
			"INSERT OR IGNORE INTO seen (item_id, source, first_seen_ts) VALUES (?, ?, ?)",
			itemID, source, ts.Unix())
		if err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: fmt.Errorf("mark seen: %w", err)}
		}
		return nil
	})
}

// GetRecord returns the admission record for an id, nil when absent
func (s *Seen) GetRecord(ctx context.Context, itemID string) (*domain.SeenRecord, error) {
	var row struct {
		ItemID      string `db:"item_id"`
		Source      string `db:"source"`
		FirstSeenTS int64  `db:"first_seen_ts"`
	}
	err := s.conn.GetContext(ctx, &row, "SELECT item_id, source, first_seen_ts FROM seen WHERE item_id = ?", itemID)
	if err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return nil, nil
		}
		return nil, fmt.Errorf("get seen record: %w", err)
	}
	return &domain.SeenRecord{
		ItemID:      row.ItemID,
		Source:      row.Source,
		FirstSeenTS: time.Unix(row.FirstSeenTS, 0),
	}, nil
}

// Count returns the number of admission records
func (s *Seen) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.conn.GetContext(ctx, &count, "SELECT COUNT(*) FROM seen"); err != nil {
		return 0, fmt.Errorf("count seen records: %w", err)
	}
	return count, nil
}

// Truncate removes all admission records, the only supported reset
func (s *Seen) Truncate(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, "DELETE FROM seen"); err != nil {
		return fmt.Errorf("truncate seen: %w", err)
	}
	return nil
}

// criticalError wraps an error to signal repeater to stop retrying
type criticalError struct {
	err error
}

func (e *criticalError) Error() string {
	return e.err.Error()
}

// isLockError checks if an error is a SQLite lock/busy error
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked")
}

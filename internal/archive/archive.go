// Package archive is an optional write-only audit log of published
// refresh cycles, kept in SQLite. The core stays in-memory; nothing in
// the query surface reads from here.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/osintlab/conflictradar/internal/monitor"
)

const schema = `
CREATE TABLE IF NOT EXISTS cycle_items (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	cycle_at     TIMESTAMP NOT NULL,
	feed_id      TEXT NOT NULL,
	title        TEXT NOT NULL,
	description  TEXT,
	link         TEXT,
	published_at TEXT,
	situations   TEXT NOT NULL,
	places       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cycle_items_at ON cycle_items(cycle_at);
`

// Store appends classified items per cycle to SQLite.
type Store struct {
	db *sqlx.DB
}

// Open opens the archive database and creates the schema.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create archive schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveCycle appends one cycle's items in a single transaction.
func (s *Store) SaveCycle(ctx context.Context, at time.Time, items []monitor.Item) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive tx: %w", err)
	}
	defer tx.Rollback()

	for _, it := range items {
		situations, _ := json.Marshal(it.Situations)
		places, _ := json.Marshal(it.Places)

		_, err := tx.ExecContext(ctx, `
			INSERT INTO cycle_items (cycle_at, feed_id, title, description, link, published_at, situations, places)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, at.UTC(), it.FeedID, it.Title, it.Description, it.Link, it.PublishedAt,
			string(situations), string(places))
		if err != nil {
			return fmt.Errorf("insert archive item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit archive tx: %w", err)
	}
	return nil
}

// CountItems returns the total archived item rows.
func (s *Store) CountItems(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM cycle_items"); err != nil {
		return 0, fmt.Errorf("count archive items: %w", err)
	}
	return n, nil
}

package leaderboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/automoto/snackman-client/shared/messages"

	_ "modernc.org/sqlite"
)

// Cache keeps the last known leaderboard in a SQLite file so it can be shown
// while the server is unreachable.
type Cache struct {
	db *sql.DB
}

func OpenCache(path string) (*Cache, error) {
	if path == "" {
		return nil, errors.New("empty cache path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS leaderboard_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		duration TEXT NOT NULL,
		release_date TEXT NOT NULL
	);`)
	return err
}

// Replace overwrites the cached board with entries.
func (c *Cache) Replace(ctx context.Context, entries []messages.LeaderboardEntry) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM leaderboard_entries;`); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO leaderboard_entries (name, duration, release_date) VALUES (?, ?, ?);`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.Name, e.Duration, e.ReleaseDate); err != nil {
			return fmt.Errorf("cache entry %q: %w", e.Name, err)
		}
	}
	return tx.Commit()
}

// Insert appends one entry.
func (c *Cache) Insert(ctx context.Context, e messages.LeaderboardEntry) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO leaderboard_entries (name, duration, release_date) VALUES (?, ?, ?);`,
		e.Name, e.Duration, e.ReleaseDate)
	return err
}

// Load returns the cached entries in board order.
func (c *Cache) Load(ctx context.Context) ([]messages.LeaderboardEntry, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT name, duration, release_date FROM leaderboard_entries ORDER BY duration, release_date, name;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []messages.LeaderboardEntry
	for rows.Next() {
		var e messages.LeaderboardEntry
		if err := rows.Scan(&e.Name, &e.Duration, &e.ReleaseDate); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (c *Cache) Close() error {
	return c.db.Close()
}

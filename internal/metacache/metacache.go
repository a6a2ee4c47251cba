// Package metacache persists song metadata lookups in a local SQLite
// database so repeated generations avoid the network.
package metacache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"chordgen"
)

const schema = `
CREATE TABLE IF NOT EXISTS song_metadata (
	ccli       TEXT PRIMARY KEY,
	composer   TEXT NOT NULL,
	year       TEXT NOT NULL,
	publisher  TEXT NOT NULL,
	fetched_at INTEGER NOT NULL
);`

// Cache is a SQLite-backed metadata cache.
type Cache struct {
	db *sql.DB
}

var _ chordgen.MetadataCache = (*Cache)(nil)

// Open opens (creating if needed) the cache database at the given path.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Get returns the cached metadata for a CCLI number, or nil when the
// number has not been cached.
func (c *Cache) Get(ctx context.Context, ccliNumber string) (*chordgen.SongMetadata, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT composer, year, publisher FROM song_metadata WHERE ccli = ?`, ccliNumber)

	var meta chordgen.SongMetadata
	err := row.Scan(&meta.Composer, &meta.Year, &meta.Publisher)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}
	return &meta, nil
}

// Put stores metadata for a CCLI number, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, ccliNumber string, meta *chordgen.SongMetadata) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO song_metadata (ccli, composer, year, publisher, fetched_at)
		 VALUES (?, ?, ?, ?, ?)`,
		ccliNumber, meta.Composer, meta.Year, meta.Publisher, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

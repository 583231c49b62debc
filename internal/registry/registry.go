// Package registry keeps a local record of every site jekyll-studio has
// materialized so `jekyll-studio list` can show them later.
package registry

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite"

	serrors "git.home.luguber.info/inful/jekyll-studio/internal/errors"
)

// DatabaseName is the registry file created inside the data directory.
const DatabaseName = "sites.db"

// Source records how a site's structure was obtained.
type Source string

const (
	SourceBackend Source = "backend"
	SourceFile    Source = "file"
)

// Site is one registry row.
type Site struct {
	ID        string
	Name      string
	Path      string
	Title     string
	Files     int
	Counts    map[string]int
	Source    Source
	CreatedAt time.Time
}

// Store persists Site records in SQLite.
type Store struct {
	db    *sql.DB
	mu    sync.RWMutex
	clock clockwork.Clock
}

// Open opens (or creates) <dataDir>/sites.db.
func Open(dataDir string, clock clockwork.Clock) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, serrors.RegistryError("open", err).WithContext("path", dataDir)
	}
	return OpenPath(filepath.Join(dataDir, DatabaseName), clock)
}

// OpenPath opens the registry at an explicit path. ":memory:" works for tests.
func OpenPath(dbPath string, clock clockwork.Clock) (*Store, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, serrors.RegistryError("open", err).WithContext("path", dbPath)
	}
	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, clock: clock}
	if err := s.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, serrors.RegistryError("initialize", err).WithContext("path", dbPath)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sites (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		path TEXT NOT NULL,
		title TEXT,
		files INTEGER NOT NULL,
		counts TEXT,
		source TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sites_created_at ON sites(created_at);
	CREATE INDEX IF NOT EXISTS idx_sites_path ON sites(path);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record inserts a site, replacing any earlier entry with the same path. A
// zero CreatedAt is filled from the store clock and written back into site.
func (s *Store) Record(ctx context.Context, site *Site) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if site.CreatedAt.IsZero() {
		site.CreatedAt = s.clock.Now()
	}
	var counts []byte
	if site.Counts != nil {
		var err error
		counts, err = json.Marshal(site.Counts)
		if err != nil {
			return serrors.RegistryError("record", err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return serrors.RegistryError("record", err).WithContext("site", site.Name)
	}
	defer func() { _ = tx.Rollback() }() // no-op after Commit

	// A site rewritten in place replaces its earlier entry.
	if _, err := tx.ExecContext(ctx, "DELETE FROM sites WHERE path = ?", site.Path); err != nil {
		return serrors.RegistryError("record", err).WithContext("site", site.Name)
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO sites (id, name, path, title, files, counts, source, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		site.ID, site.Name, site.Path, site.Title, site.Files, string(counts), string(site.Source), site.CreatedAt.UnixNano(),
	)
	if err != nil {
		return serrors.RegistryError("record", err).WithContext("site", site.Name)
	}
	if err := tx.Commit(); err != nil {
		return serrors.RegistryError("record", err).WithContext("site", site.Name)
	}
	return nil
}

// List returns up to limit sites, newest first. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Site, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT id, name, path, title, files, counts, source, created_at FROM sites ORDER BY created_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, serrors.RegistryError("list", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSites(rows)
}

func scanSites(rows *sql.Rows) ([]Site, error) {
	var sites []Site
	for rows.Next() {
		var (
			site    Site
			title   sql.NullString
			counts  sql.NullString
			source  string
			created int64
		)
		if err := rows.Scan(&site.ID, &site.Name, &site.Path, &title, &site.Files, &counts, &source, &created); err != nil {
			return nil, serrors.RegistryError("scan", err)
		}
		site.Title = title.String
		site.Source = Source(source)
		site.CreatedAt = time.Unix(0, created)
		if counts.String != "" {
			if err := json.Unmarshal([]byte(counts.String), &site.Counts); err != nil {
				return nil, serrors.RegistryError("scan", err).WithContext("site", site.Name)
			}
		}
		sites = append(sites, site)
	}
	if err := rows.Err(); err != nil {
		return nil, serrors.RegistryError("list", err)
	}
	return sites, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

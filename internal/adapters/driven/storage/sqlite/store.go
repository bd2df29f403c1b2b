package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/wikisearch/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/wikisearch/internal/core/domain"
	"github.com/custodia-labs/wikisearch/internal/core/ports/driven"
)

// DatabaseFile is the corpus database file name inside the data directory.
const DatabaseFile = "wiki.db"

// Store is the SQLite-based corpus storage.
type Store struct {
	db   *sql.DB
	path string
}

// DefaultDataDir returns ~/.wikisearch/data.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".wikisearch", "data"), nil
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.wikisearch/data/wiki.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		var err error
		if dataDir, err = DefaultDataDir(); err != nil {
			return nil, err
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CorpusStore returns a CorpusStore interface backed by this store.
// Closing it closes the store.
func (s *Store) CorpusStore() driven.CorpusStore {
	return &corpusStore{store: s}
}

// migrate runs all pending migrations, recording each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_pages.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return fmt.Errorf("recording version: %w", err)
	}
	return tx.Commit()
}

// ==================== Corpus Store ====================

// corpusStore implements driven.CorpusStore.
type corpusStore struct {
	store *Store
}

var _ driven.CorpusStore = (*corpusStore)(nil)

const pageColumns = `path, locale_code, title, description, render, is_published, is_private, updated_at`

// ListIndexableDocuments returns published, non-private pages ordered by path.
func (s *corpusStore) ListIndexableDocuments(ctx context.Context) ([]domain.Document, error) {
	return s.query(ctx, `
		SELECT `+pageColumns+`
		FROM pages WHERE is_published = 1 AND is_private = 0
		ORDER BY path
	`)
}

// ListDocuments returns all pages ordered by path.
func (s *corpusStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	return s.query(ctx, `SELECT `+pageColumns+` FROM pages ORDER BY path`)
}

// GetDocument retrieves a page by path.
func (s *corpusStore) GetDocument(ctx context.Context, path string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE path = ?`, path)

	doc, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return doc, err
}

// SaveDocument stores or updates a page.
func (s *corpusStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO pages (`+pageColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			locale_code = excluded.locale_code,
			title = excluded.title,
			description = excluded.description,
			render = excluded.render,
			is_published = excluded.is_published,
			is_private = excluded.is_private,
			updated_at = excluded.updated_at
	`, doc.Path, doc.LocaleCode, doc.Title, doc.Description, doc.Render,
		doc.IsPublished, doc.IsPrivate, doc.UpdatedAt.UTC())

	if err != nil {
		return fmt.Errorf("saving page: %w", err)
	}
	return nil
}

// DeleteDocument removes a page.
func (s *corpusStore) DeleteDocument(ctx context.Context, path string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM pages WHERE path = ?", path)
	if err != nil {
		return fmt.Errorf("deleting page: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Close closes the underlying store.
func (s *corpusStore) Close() error {
	return s.store.Close()
}

func (s *corpusStore) query(ctx context.Context, query string, args ...any) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying pages: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pages: %w", err)
	}

	return docs, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanPage scans a single page row.
func scanPage(row scanner) (*domain.Document, error) {
	var doc domain.Document
	if err := row.Scan(&doc.Path, &doc.LocaleCode, &doc.Title, &doc.Description, &doc.Render,
		&doc.IsPublished, &doc.IsPrivate, &doc.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning page: %w", err)
	}
	return &doc, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus manages the interest corpus: the reference documents the
// similarity scorer compares candidates against. Documents live in a small
// SQLite database so interests accumulate across runs; a plain overview
// file can stand in as a one-document corpus.
package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/arxivlens/pkg/types"
)

const dbFile = "corpus.db"

// Store manages the interest corpus SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the corpus database at dir/corpus.db and
// creates the schema if it does not exist.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating corpus directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening corpus database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(
		`CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			text TEXT NOT NULL,
			added_at TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Add inserts a document with the given timestamp and returns its ID.
// Empty or whitespace-only text is rejected.
func (s *Store) Add(ctx context.Context, text string, addedAt time.Time) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, fmt.Errorf("empty document text")
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (text, added_at) VALUES (?, ?)`,
		text, addedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("inserting document: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading insert id: %w", err)
	}
	return id, nil
}

// List returns all documents ordered by added_at descending (most recent
// first), matching the order the similarity scorer weights them in.
func (s *Store) List(ctx context.Context) ([]types.ReferenceDocument, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, added_at FROM documents ORDER BY added_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []types.ReferenceDocument
	for rows.Next() {
		var (
			doc     types.ReferenceDocument
			addedAt string
		)
		if err := rows.Scan(&doc.ID, &doc.Text, &addedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, addedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing added_at %q: %w", addedAt, err)
		}
		doc.AddedAt = t
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Count returns the number of documents in the store.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// Clear removes all documents.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("clearing documents: %w", err)
	}
	return nil
}

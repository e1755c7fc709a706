// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists parsed document nodes in a SQLite cache so
// compare, export, and status runs do not re-parse unchanged trees.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/docparity/docparity/pkg/types"
)

const dbFile = "nodes.db"

// Store manages the node cache database. One database holds every
// language's tree; rows are keyed by (id, language).
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the cache database under cacheDir and
// creates the schema if it does not exist.
func NewStore(cacheDir string) (*Store, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(cacheDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
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
	statements := []string{
		`CREATE TABLE IF NOT EXISTS nodes (
			id TEXT NOT NULL,
			language TEXT NOT NULL,
			kind TEXT NOT NULL,
			content TEXT NOT NULL,
			level INTEGER,
			title TEXT,
			label TEXT,
			name TEXT,
			caption TEXT,
			code_language TEXT,
			parent_id TEXT,
			children_ids TEXT,
			file_path TEXT NOT NULL,
			line_number INTEGER,
			metadata TEXT,
			PRIMARY KEY (id, language)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_file ON nodes(language, file_path, line_number)`,
		`CREATE TABLE IF NOT EXISTS parse_status (
			language TEXT NOT NULL,
			file_path TEXT NOT NULL,
			content_hash TEXT NOT NULL,
			parsed_at TEXT NOT NULL,
			PRIMARY KEY (language, file_path)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// ContentHash fingerprints a file's raw bytes for incremental skipping.
func ContentHash(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

// FileUnchanged reports whether filePath was already cached for lang
// with the same content hash.
func (s *Store) FileUnchanged(ctx context.Context, lang, filePath, contentHash string) (bool, error) {
	var stored string
	err := s.db.QueryRowContext(ctx,
		`SELECT content_hash FROM parse_status WHERE language = ? AND file_path = ?`,
		lang, filePath,
	).Scan(&stored)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying parse status: %w", err)
	}
	return stored == contentHash, nil
}

// SaveFile replaces the cached nodes of one file in one language and
// records its content hash. The whole replacement is transactional.
func (s *Store) SaveFile(ctx context.Context, lang, filePath, contentHash string, nodes []types.DocumentNode) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM nodes WHERE language = ? AND file_path = ?`, lang, filePath,
	); err != nil {
		return fmt.Errorf("deleting old nodes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO nodes
		 (id, language, kind, content, level, title, label, name, caption,
		  code_language, parent_id, children_ids, file_path, line_number, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, n := range nodes {
		childrenJSON, _ := json.Marshal(n.ChildrenIDs)
		metadataJSON, _ := json.Marshal(n.Metadata)
		_, err := stmt.ExecContext(ctx,
			n.ID, lang, string(n.Kind), n.Content, n.Level, n.Title, n.Label,
			n.Name, n.Caption, n.Language, n.ParentID, string(childrenJSON),
			n.FilePath, n.LineNumber, string(metadataJSON),
		)
		if err != nil {
			return fmt.Errorf("inserting node %s: %w", n.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO parse_status (language, file_path, content_hash, parsed_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(language, file_path) DO UPDATE SET
			content_hash=excluded.content_hash, parsed_at=excluded.parsed_at`,
		lang, filePath, contentHash, time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("updating parse status: %w", err)
	}

	return tx.Commit()
}

// Nodes returns every cached node for lang in document order, file path
// first, then line number.
func (s *Store) Nodes(ctx context.Context, lang string) ([]types.DocumentNode, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, content, level, title, label, name, caption,
		        code_language, parent_id, children_ids, file_path, line_number, metadata
		 FROM nodes WHERE language = ?
		 ORDER BY file_path, line_number`, lang)
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()

	var nodes []types.DocumentNode
	for rows.Next() {
		var (
			n            types.DocumentNode
			kind         string
			childrenJSON string
			metadataJSON string
		)
		if err := rows.Scan(
			&n.ID, &kind, &n.Content, &n.Level, &n.Title, &n.Label, &n.Name,
			&n.Caption, &n.Language, &n.ParentID, &childrenJSON,
			&n.FilePath, &n.LineNumber, &metadataJSON,
		); err != nil {
			return nil, fmt.Errorf("scanning node: %w", err)
		}
		n.Kind = types.NodeKind(kind)
		n.DocLanguage = lang
		if childrenJSON != "" {
			if err := json.Unmarshal([]byte(childrenJSON), &n.ChildrenIDs); err != nil {
				return nil, fmt.Errorf("decoding children of %s: %w", n.ID, err)
			}
		}
		if metadataJSON != "" {
			if err := json.Unmarshal([]byte(metadataJSON), &n.Metadata); err != nil {
				return nil, fmt.Errorf("decoding metadata of %s: %w", n.ID, err)
			}
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// Languages lists the languages with cached nodes, sorted.
func (s *Store) Languages(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT language FROM nodes ORDER BY language`)
	if err != nil {
		return nil, fmt.Errorf("querying languages: %w", err)
	}
	defer rows.Close()

	var langs []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, err
		}
		langs = append(langs, l)
	}
	return langs, rows.Err()
}

// NodeCount returns the number of cached nodes for lang.
func (s *Store) NodeCount(ctx context.Context, lang string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM nodes WHERE language = ?`, lang).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting nodes: %w", err)
	}
	return count, nil
}

// ApplyTranslations writes translated content onto existing nodes in
// the target language. It returns how many ids were applied and how
// many were unknown; unknown ids are not an error, since a translation
// file may outlive a re-parse.
func (s *Store) ApplyTranslations(ctx context.Context, lang string, translations map[string]string) (applied, unknown int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`UPDATE nodes SET content = ? WHERE id = ? AND language = ?`)
	if err != nil {
		return 0, 0, fmt.Errorf("preparing update: %w", err)
	}
	defer stmt.Close()

	for id, content := range translations {
		res, err := stmt.ExecContext(ctx, content, id, lang)
		if err != nil {
			return 0, 0, fmt.Errorf("updating node %s: %w", id, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, 0, fmt.Errorf("checking update of %s: %w", id, err)
		}
		if affected > 0 {
			applied++
		} else {
			unknown++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("committing translations: %w", err)
	}
	return applied, unknown, nil
}

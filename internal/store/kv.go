// Copyright Ginger Science, 2026. All rights reserved.

// Package store owns the committed knowledge graph. It persists graphs
// through a key-value collaborator and reacts to hypothesis updates and
// manual refresh requests by replacing the whole graph atomically.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Ginger-Science/hypogen-ai/pkg/types"
)

// Logical keys used by the graph store.
const (
	// KeyCurrentHypothesis holds the most recent hypothesis artifact (JSON),
	// written by the hypothesis producer.
	KeyCurrentHypothesis = "current_hypothesis"

	// KeyGraph holds the last committed knowledge graph (JSON).
	KeyGraph = "knowledge_graph"

	// KeyGraphTimestamp holds the commit time of KeyGraph (RFC 3339).
	KeyGraphTimestamp = "knowledge_graph_updated_at"
)

// KV is the persistent key-value collaborator. Absence of a key is
// reported through the ok return, not an error.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

const dbFile = "hypogen.db"

// SQLiteKV is a KV backed by a single SQLite table.
type SQLiteKV struct {
	db *sql.DB
}

// OpenKV opens or creates the SQLite store at dataDir/hypogen.db,
// creating the schema if it does not exist.
func OpenKV(cfg types.StoreConfig) (*SQLiteKV, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteKV{db: db}, nil
}

// Close releases the database connection.
func (s *SQLiteKV) Close() error {
	return s.db.Close()
}

// Get reads the value for key. ok is false when the key is absent.
func (s *SQLiteKV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE key = ?`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading key %q: %w", key, err)
	}
	return value, true, nil
}

// Set writes or replaces the value for key.
func (s *SQLiteKV) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *SQLiteKV) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting key %q: %w", key, err)
	}
	return nil
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package recent persists the recently opened images list in an embedded
// SQLite database under the per-user config directory.
package recent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cropdesk/internal/config"
	applog "cropdesk/internal/log"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// DBFileName is the database file inside the config directory.
	DBFileName = "recent.sqlite"

	// MaxEntries caps the list; older rows are pruned on insert.
	MaxEntries = 20

	schemaVersion = 1
)

// Entry is one recently opened image.
type Entry struct {
	Origin   string // file path, URL, "clipboard" or "sample"
	Width    int
	Height   int
	OpenedAt time.Time
	Thumb    []byte // small PNG, may be nil
}

// Store wraps the SQLite handle.
type Store struct {
	db   *sql.DB
	path string
}

// DefaultPath returns the database path under the per-user config directory.
func DefaultPath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DBFileName), nil
}

// Open creates or opens the recent-images database at path, enables WAL
// mode, and ensures the schema exists.
func Open(path string) (*Store, error) {
	l := applog.WithOperation(applog.WithComponent("recent"), "open").With(
		slog.String("path", path),
	)
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		l.Error("create config dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	// Use a URI with shared cache and set busy timeout. Convert to forward slashes for SQLite URI.
	uriPath := filepath.ToSlash(path)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", uriPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Single connection is enough for a per-user embedded store.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, err
	}

	l.Info("recent store ready")
	return &Store{db: db, path: path}, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS version (
			id      INTEGER PRIMARY KEY CHECK (id = 1),
			schema  INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS recent_images (
			origin     TEXT PRIMARY KEY,
			width      INTEGER NOT NULL,
			height     INTEGER NOT NULL,
			opened_at  TEXT NOT NULL,
			thumb      BLOB
		);`,
		`CREATE INDEX IF NOT EXISTS idx_recent_opened_at ON recent_images(opened_at DESC);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO version (id, schema) VALUES (1, ?) ON CONFLICT(id) DO NOTHING`, schemaVersion); err != nil {
		return fmt.Errorf("write schema version: %w", err)
	}
	return nil
}

// Touch records origin as just opened: it inserts or refreshes the row and
// prunes the list down to MaxEntries by recency.
func (s *Store) Touch(ctx context.Context, e Entry) error {
	if strings.TrimSpace(e.Origin) == "" {
		return errors.New("origin is required")
	}
	if e.OpenedAt.IsZero() {
		e.OpenedAt = time.Now().UTC()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO recent_images (origin, width, height, opened_at, thumb)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(origin) DO UPDATE SET
			width = excluded.width,
			height = excluded.height,
			opened_at = excluded.opened_at,
			thumb = COALESCE(excluded.thumb, recent_images.thumb)`,
		e.Origin, e.Width, e.Height, e.OpenedAt.Format(time.RFC3339), e.Thumb)
	if err != nil {
		return fmt.Errorf("upsert recent: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM recent_images WHERE origin NOT IN (
			SELECT origin FROM recent_images ORDER BY opened_at DESC LIMIT ?
		)`, MaxEntries)
	if err != nil {
		return fmt.Errorf("prune recent: %w", err)
	}
	return tx.Commit()
}

// List returns entries newest first, at most limit (MaxEntries when <= 0).
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > MaxEntries {
		limit = MaxEntries
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT origin, width, height, opened_at, thumb
		FROM recent_images ORDER BY opened_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var e Entry
		var ts string
		if err := rows.Scan(&e.Origin, &e.Width, &e.Height, &ts, &e.Thumb); err != nil {
			return nil, fmt.Errorf("scan recent: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			e.OpenedAt = t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Remove deletes the entry for origin. Missing rows are not an error.
func (s *Store) Remove(ctx context.Context, origin string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM recent_images WHERE origin = ?`, origin)
	if err != nil {
		return fmt.Errorf("remove recent: %w", err)
	}
	return nil
}

// Clear empties the list.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM recent_images`)
	if err != nil {
		return fmt.Errorf("clear recent: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

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

	applog "sketchpad/internal/log"
	"sketchpad/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

// JournalFileName is the default journal database name inside the config dir.
const JournalFileName = "exports.sqlite"

const journalSchemaVersion = 1

// Entry is one completed export.
type Entry struct {
	ID      int64
	Path    string
	Format  string
	Width   int
	Height  int
	Bytes   int64
	Strokes int
	At      time.Time
}

// Journal is a local record of completed exports. It stores metadata only,
// never drawing content. It is safe for concurrent use.
type Journal struct {
	db   *sql.DB
	path string
	log  *slog.Logger
}

// OpenJournal creates or opens the journal database at path, enables WAL
// mode and ensures the schema exists.
func OpenJournal(path string) (*Journal, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "journal_open").With(slog.String("path", path))
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("journal path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureJournalSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, err
	}
	l.Debug("journal ready")
	return &Journal{db: db, path: path, log: applog.WithComponent("storage")}, nil
}

func ensureJournalSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS exports (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			path        TEXT NOT NULL,
			format      TEXT NOT NULL,
			width       INTEGER NOT NULL,
			height      INTEGER NOT NULL,
			bytes       INTEGER NOT NULL,
			strokes     INTEGER NOT NULL,
			created_at  TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_exports_created ON exports(created_at);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	var cur int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		now := time.Now().UTC().Format(time.RFC3339)
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at) VALUES(1, ?, ?, ?)`,
			journalSchemaVersion, version.String(), now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	case cur > journalSchemaVersion:
		return fmt.Errorf("journal schema %d is newer than supported %d", cur, journalSchemaVersion)
	}
	return nil
}

// Path is the database file location.
func (j *Journal) Path() string { return j.path }

// Record appends e. A zero At is set to now. The stored ID is returned.
func (j *Journal) Record(ctx context.Context, e Entry) (int64, error) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	res, err := j.db.ExecContext(ctx,
		`INSERT INTO exports (path, format, width, height, bytes, strokes, created_at) VALUES(?, ?, ?, ?, ?, ?, ?)`,
		e.Path, e.Format, e.Width, e.Height, e.Bytes, e.Strokes, e.At.UTC().Format(time.RFC3339Nano))
	if err != nil {
		j.log.Error("journal insert failed", slog.Any("err", err))
		return 0, fmt.Errorf("record export: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit entries, newest first. limit <= 0 means 20.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, path, format, width, height, bytes, strokes, created_at FROM exports ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query exports: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []Entry
	for rows.Next() {
		var e Entry
		var at string
		if err := rows.Scan(&e.ID, &e.Path, &e.Format, &e.Width, &e.Height, &e.Bytes, &e.Strokes, &at); err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		if t, perr := time.Parse(time.RFC3339Nano, at); perr == nil {
			e.At = t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the database.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

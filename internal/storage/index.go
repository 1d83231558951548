/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
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

	"screenwright/internal/domain"
	"screenwright/internal/fountain"
	applog "screenwright/internal/log"
	"screenwright/internal/tags"
	"screenwright/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// IndexDirName stores all per-project ephemeral/index data under the project root.
	IndexDirName  = ".swr"
	IndexFileName = "index.sqlite"

	// schemaVersion tracks the local SQLite schema for the embedded index.
	// Bump this when you perform breaking schema changes and add migrations.
	schemaVersion = 2
)

// IndexPath returns the full path to the project's embedded index database file.
func IndexPath(projectRoot string) string {
	return filepath.Join(projectRoot, IndexDirName, IndexFileName)
}

// InitOrOpenIndex ensures that the per-project SQLite index exists at
// .swr/index.sqlite, opens the database, enables WAL mode, and ensures the
// meta/version tables exist. The returned *sql.DB is ready for use.
func InitOrOpenIndex(projectRoot string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_init").With(
		slog.String("root", projectRoot),
	)
	if strings.TrimSpace(projectRoot) == "" {
		return nil, errors.New("project root is required")
	}
	if err := os.MkdirAll(filepath.Join(projectRoot, IndexDirName), 0o755); err != nil {
		l.Error("create .swr dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .swr dir: %w", err)
	}

	path := IndexPath(projectRoot)
	// Use a URI with shared cache and set busy timeout. Convert to forward slashes for SQLite URI.
	uriPath := filepath.ToSlash(path)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", uriPath)
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
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON;"); err != nil {
		l.Warn("enable foreign_keys failed", slog.Any("err", err))
	}

	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure index schema failed", slog.Any("err", err))
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}

	l.Info("index ready", slog.String("path", path))
	return db, nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		// Update app and timestamp only; keep existing schema for migrations
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if cur > schemaVersion {
		// Do not downgrade; just continue
		return nil
	}
	for cur < schemaVersion {
		next := cur + 1
		switch next {
		case 2:
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				return fmt.Errorf("begin migration %d: %w", next, err)
			}
			stmts := []string{
				`CREATE INDEX IF NOT EXISTS idx_scene_chars_char ON scene_characters(character_doc);`,
				`CREATE INDEX IF NOT EXISTS idx_scene_chars_scene ON scene_characters(scene_doc);`,
			}
			for _, q := range stmts {
				if _, err := tx.ExecContext(ctx, q); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("migration %d stmt failed: %w", next, err)
				}
			}
			if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d update version: %w", next, err)
			}
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("migration %d commit: %w", next, err)
			}
			// Best-effort FTS optimize (outside the tx)
			if _, err := db.ExecContext(ctx, `INSERT INTO fts_documents(fts_documents) VALUES('optimize')`); err != nil {
				// ignore
			}
		default:
			// Unknown future step
		}
		cur = next
	}
	return nil
}

// ensureIndexSchema creates core index tables and FTS structures if they do not exist.
func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		// Core documents table: script lines, scene headings, registry entries.
		`CREATE TABLE IF NOT EXISTS documents (
			doc_id       INTEGER PRIMARY KEY,
			type         TEXT    NOT NULL,
			path         TEXT    NOT NULL,
			scene        TEXT,
			character_id TEXT,
			line_no      INTEGER,
			text         TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_path ON documents(path);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_scene ON documents(scene);`,

		// Contentless FTS5 index fed from documents via triggers.
		`CREATE VIRTUAL TABLE IF NOT EXISTS fts_documents USING fts5(
			text,
			content='',
			tokenize = 'unicode61'
		);`,

		// Scene-to-character references derived from @characters directives.
		`CREATE TABLE IF NOT EXISTS scene_characters (
			scene_doc     INTEGER NOT NULL,
			character_doc INTEGER NOT NULL,
			PRIMARY KEY(scene_doc, character_doc),
			FOREIGN KEY(scene_doc)     REFERENCES documents(doc_id) ON DELETE CASCADE,
			FOREIGN KEY(character_doc) REFERENCES documents(doc_id) ON DELETE CASCADE
		);`,

		// Script snapshots (history of script text for change tracking)
		`CREATE TABLE IF NOT EXISTS script_snapshots (
			id    INTEGER PRIMARY KEY,
			ts    TEXT    NOT NULL,
			text  TEXT    NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_script_snapshots_ts ON script_snapshots(ts);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure index schema: %w", err)
		}
	}
	// Triggers for contentless FTS synchronization with documents.text
	triggers := []string{
		`CREATE TRIGGER IF NOT EXISTS documents_ai AFTER INSERT ON documents BEGIN
			INSERT INTO fts_documents(rowid, text) VALUES (new.doc_id, new.text);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS documents_ad AFTER DELETE ON documents BEGIN
			INSERT INTO fts_documents(fts_documents, rowid, text) VALUES ('delete', old.doc_id, old.text);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS documents_au AFTER UPDATE OF text ON documents BEGIN
			INSERT INTO fts_documents(fts_documents, rowid, text) VALUES ('delete', old.doc_id, old.text);
			INSERT INTO fts_documents(rowid, text) VALUES (new.doc_id, new.text);
		END;`,
	}
	for _, q := range triggers {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure fts triggers: %w", err)
		}
	}
	return nil
}

// DetectAndRebuildIndex checks for corruption or missing schema and rebuilds
// the index if needed. It returns true when a rebuild was performed.
func DetectAndRebuildIndex(ctx context.Context, ph *ProjectHandle) (bool, error) {
	if ph == nil {
		return false, errors.New("nil ProjectHandle")
	}
	path := IndexPath(ph.Root)
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		backupIndexFile(path)
		_ = os.Remove(path)
		if rbErr := RebuildIndex(ctx, ph); rbErr != nil {
			return false, fmt.Errorf("rebuild after open failure: %w (open err: %v)", rbErr, err)
		}
		return true, nil
	}
	defer db.Close()
	needs := false
	var chk string
	if err := db.QueryRowContext(ctx, `PRAGMA quick_check;`).Scan(&chk); err != nil || !strings.Contains(strings.ToLower(chk), "ok") {
		needs = true
	}
	if !needs {
		if _, err := db.ExecContext(ctx, `SELECT 1 FROM documents LIMIT 1;`); err != nil {
			needs = true
		}
	}
	if !needs {
		return false, nil
	}
	backupIndexFile(path)
	_ = os.Remove(path)
	if err := RebuildIndex(ctx, ph); err != nil {
		return false, err
	}
	return true, nil
}

// backupIndexFile copies the current index file into a timestamped backup in .swr/backups.
func backupIndexFile(indexPath string) {
	bdir := filepath.Join(filepath.Dir(indexPath), "backups")
	_ = os.MkdirAll(bdir, 0o755)
	stamp := time.Now().Format("20060102-150405")
	bak := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(indexPath), stamp))
	if data, err := os.ReadFile(indexPath); err == nil {
		_ = os.WriteFile(bak, data, 0o644)
	}
}

// BuildIndexIfEmpty ensures the DB exists and, if the documents table is
// empty, populates it from the manifest and script text.
func BuildIndexIfEmpty(ctx context.Context, ph *ProjectHandle) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return err
	}
	defer db.Close()
	var cnt int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents;").Scan(&cnt); err != nil {
		return fmt.Errorf("check documents count: %w", err)
	}
	if cnt > 0 {
		return nil // already built
	}
	return rebuildDocuments(ctx, db, ph)
}

// UpdateIndex replaces the indexed content from the current manifest and
// script text.
func UpdateIndex(ctx context.Context, ph *ProjectHandle) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return err
	}
	defer db.Close()
	return rebuildDocuments(ctx, db, ph)
}

// RebuildIndex drops and recreates core index tables and rebuilds content
// from the manifest and script. It preserves meta/version and the snapshot
// history; the rest of the index is derived data.
func RebuildIndex(ctx context.Context, ph *ProjectHandle) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return err
	}
	defer db.Close()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	drops := []string{
		"DROP TABLE IF EXISTS scene_characters;",
		"DROP TRIGGER IF EXISTS documents_ai;",
		"DROP TRIGGER IF EXISTS documents_ad;",
		"DROP TRIGGER IF EXISTS documents_au;",
		"DROP TABLE IF EXISTS documents;",
		"DROP TABLE IF EXISTS fts_documents;",
	}
	for _, q := range drops {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("drop schema: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("drop commit: %w", err)
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		return err
	}
	if err := runMigrations(ctx, db); err != nil {
		return err
	}
	return rebuildDocuments(ctx, db, ph)
}

// indexRow is one documents-table entry before insertion.
type indexRow struct {
	typeStr     string
	path        string
	scene       sql.NullString
	characterID sql.NullString
	lineNo      sql.NullInt64
	text        string
}

// rebuildDocuments replaces the documents table content from the project
// manifest and the classified script text.
func rebuildDocuments(ctx context.Context, db *sql.DB, ph *ProjectHandle) error {
	proj := ph.Project
	rows := make([]indexRow, 0, 256)
	if s := strings.TrimSpace(proj.Name); s != "" {
		rows = append(rows, indexRow{typeStr: "project_name", path: "project:name", text: s})
	}
	if s := strings.TrimSpace(proj.Metadata.Title); s != "" {
		rows = append(rows, indexRow{typeStr: "title", path: "project:title", text: s})
	}
	if s := strings.TrimSpace(proj.Metadata.Author); s != "" {
		rows = append(rows, indexRow{typeStr: "author", path: "project:author", text: s})
	}
	if s := strings.TrimSpace(proj.Metadata.Notes); s != "" {
		rows = append(rows, indexRow{typeStr: "project_notes", path: "project:notes", text: s})
	}
	characterDocPath := make(map[string]string) // registry ID -> document path
	for _, c := range proj.Characters {
		if strings.TrimSpace(c.Name) == "" {
			continue
		}
		p := "registry:character:" + c.ID
		characterDocPath[c.ID] = p
		rows = append(rows, indexRow{typeStr: "character", path: p, characterID: sql.NullString{String: c.ID, Valid: true}, text: c.Name})
		if s := strings.TrimSpace(c.Description); s != "" {
			rows = append(rows, indexRow{typeStr: "character_notes", path: p + ":notes", characterID: sql.NullString{String: c.ID, Valid: true}, text: s})
		}
	}
	for _, l := range proj.Locations {
		if strings.TrimSpace(l.Name) == "" {
			continue
		}
		rows = append(rows, indexRow{typeStr: "location", path: "registry:location:" + l.ID, text: l.Name})
	}

	script, err := ReadScript(ph)
	if err != nil {
		return err
	}
	sceneDocPath := make(map[int]string)      // scene index -> document path
	sceneCharacters := make(map[int][]string) // scene index -> character registry IDs
	if strings.TrimSpace(script) != "" {
		scenes := tags.Extract(script)
		for i, sc := range scenes {
			p := fmt.Sprintf("script:scene:%d", i)
			sceneDocPath[i] = p
			sceneCharacters[i] = sc.Characters
			rows = append(rows, indexRow{
				typeStr: "scene",
				path:    p,
				scene:   sql.NullString{String: sc.SceneHeading, Valid: true},
				lineNo:  sql.NullInt64{Int64: int64(sc.StartLine), Valid: true},
				text:    sc.SceneHeading,
			})
		}
		rows = append(rows, classifyScriptLines(script, scenes)...)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM scene_characters;"); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear scene_characters: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents;"); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear documents: %w", err)
	}
	ins, err := tx.PrepareContext(ctx, "INSERT INTO documents(type, path, scene, character_id, line_no, text) VALUES(?,?,?,?,?,?);")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer ins.Close()
	docIDByPath := make(map[string]int64, len(rows))
	for _, r := range rows {
		res, err := ins.ExecContext(ctx, r.typeStr, r.path, r.scene, r.characterID, r.lineNo, r.text)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert document: %w", err)
		}
		if id, err := res.LastInsertId(); err == nil {
			docIDByPath[r.path] = id
		}
	}
	// Scene-to-character references from the tag directives.
	for sceneIdx, charIDs := range sceneCharacters {
		sceneDoc, ok := docIDByPath[sceneDocPath[sceneIdx]]
		if !ok {
			continue
		}
		for _, cid := range charIDs {
			charDoc, ok := docIDByPath[characterDocPath[cid]]
			if !ok {
				continue
			}
			if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO scene_characters(scene_doc, character_doc) VALUES(?,?);", sceneDoc, charDoc); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("insert scene_characters: %w", err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// classifyScriptLines turns the script into one indexed row per content
// line, attributing dialogue to the preceding character cue.
func classifyScriptLines(script string, scenes []tags.SceneTags) []indexRow {
	lines := strings.Split(script, "\n")
	sceneForLine := func(n int) (string, bool) {
		for _, sc := range scenes {
			if n >= sc.StartLine && n <= sc.EndLine {
				return sc.SceneHeading, true
			}
		}
		return "", false
	}
	var out []indexRow
	currentCue := ""
	for i, line := range lines {
		t := strings.TrimSpace(line)
		if t == "" || fountain.IsTagDirective(t) {
			continue
		}
		prev := ""
		if i > 0 {
			prev = lines[i-1]
		}
		next := ""
		if i+1 < len(lines) {
			next = lines[i+1]
		}
		kind := fountain.Classify(line, prev, next)
		heading, _ := sceneForLine(i)
		sceneCol := sql.NullString{String: heading, Valid: heading != ""}
		lineCol := sql.NullInt64{Int64: int64(i), Valid: true}
		switch kind {
		case fountain.SceneHeading:
			// Scene rows come from tags.Extract with span info.
		case fountain.CharacterName:
			currentCue = t
		case fountain.Dialogue:
			out = append(out, indexRow{
				typeStr:     "dialogue",
				path:        fmt.Sprintf("script:line:%d", i),
				scene:       sceneCol,
				characterID: sql.NullString{String: currentCue, Valid: currentCue != ""},
				lineNo:      lineCol,
				text:        t,
			})
		case fountain.Parenthetical, fountain.Transition:
			// Not searchable content.
		default:
			currentCue = ""
			out = append(out, indexRow{
				typeStr: "action",
				path:    fmt.Sprintf("script:line:%d", i),
				scene:   sceneCol,
				lineNo:  lineCol,
				text:    t,
			})
		}
	}
	return out
}

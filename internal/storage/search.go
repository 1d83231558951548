/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SearchQuery describes the in-app search request.
// Text uses SQLite FTS5 syntax (simple terms, phrases in quotes, AND/OR/NOT).
// Filters are optional. Types can restrict to kinds like: dialogue, action,
// scene, character, location. Limit/Offset implement pagination; reasonable
// defaults applied if zero.
type SearchQuery struct {
	Text      string
	Character string // cue or registry ID
	Scene     string // substring of the scene heading
	Types     []string
	Limit     int
	Offset    int
}

// SearchResult represents a single match row.
// Snippet is an optional highlighted excerpt using [ ] markers when FTS text
// is used. Line is -1 when unknown. DocID can be used with ScenesFeaturing
// to find scene references.
type SearchResult struct {
	DocID   int64
	Type    string
	Path    string
	Scene   string
	Line    int
	Snippet string
}

// Search performs full-text search with optional filters over the embedded
// index. When q.Text is empty, it falls back to a non-FTS scan over
// documents with filters applied.
func Search(ctx context.Context, projectRoot string, q SearchQuery) ([]SearchResult, error) {
	if strings.TrimSpace(projectRoot) == "" {
		return nil, errors.New("project root is required")
	}
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return searchDB(ctx, db, q)
}

func searchDB(ctx context.Context, db *sql.DB, q SearchQuery) ([]SearchResult, error) {
	var args []any
	var sb strings.Builder
	useFTS := strings.TrimSpace(q.Text) != ""
	if useFTS {
		sb.WriteString("SELECT d.doc_id, d.type, d.path, COALESCE(d.scene,''), COALESCE(d.line_no,-1), snippet(fts_documents, 0, '[', ']', '...', 10)\n")
		sb.WriteString("FROM fts_documents JOIN documents d ON fts_documents.rowid = d.doc_id\n")
		sb.WriteString("WHERE fts_documents MATCH ?\n")
		args = append(args, q.Text)
	} else {
		sb.WriteString("SELECT d.doc_id, d.type, d.path, COALESCE(d.scene,''), COALESCE(d.line_no,-1), ''\n")
		sb.WriteString("FROM documents d\nWHERE 1=1\n")
	}
	if len(q.Types) > 0 {
		sb.WriteString(" AND d.type IN (" + placeholders(len(q.Types)) + ")\n")
		for _, t := range q.Types {
			args = append(args, t)
		}
	}
	// Character filter: exact character_id (cue text or registry ID), with a
	// text fallback so unattributed lines still surface.
	if s := strings.TrimSpace(q.Character); s != "" {
		ss := strings.ToLower(s)
		sb.WriteString(" AND ( (d.character_id IS NOT NULL AND lower(d.character_id)=?) OR lower(d.text) LIKE ? )\n")
		args = append(args, ss, likeContains(ss))
	}
	// Scene filter: substring match on the owning scene heading.
	if s := strings.TrimSpace(q.Scene); s != "" {
		sb.WriteString(" AND lower(COALESCE(d.scene,'')) LIKE ?\n")
		args = append(args, likeContains(strings.ToLower(s)))
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	sb.WriteString("ORDER BY d.line_no NULLS LAST, d.doc_id\n")
	sb.WriteString("LIMIT ? OFFSET ?")
	args = append(args, limit, q.Offset)

	rows, err := db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()
	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		var line sql.NullInt64
		var sn sql.NullString
		if err := rows.Scan(&r.DocID, &r.Type, &r.Path, &r.Scene, &line, &sn); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		r.Line = -1
		if line.Valid {
			r.Line = int(line.Int64)
		}
		if sn.Valid {
			r.Snippet = sn.String
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ScenesFeaturing returns the scene documents that reference the given
// character registry entry, using the scene_characters links derived from
// @characters directives.
func ScenesFeaturing(ctx context.Context, projectRoot string, characterID string, limit, offset int) ([]SearchResult, error) {
	if strings.TrimSpace(characterID) == "" {
		return nil, errors.New("character ID is required")
	}
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	q := `SELECT s.doc_id, s.type, s.path, COALESCE(s.scene,''), COALESCE(s.line_no,-1), ''
		FROM scene_characters x
		JOIN documents s ON s.doc_id = x.scene_doc
		JOIN documents c ON c.doc_id = x.character_doc
		WHERE c.character_id = ?
		ORDER BY s.line_no NULLS LAST, s.doc_id
		LIMIT ? OFFSET ?`
	rows, err := db.QueryContext(ctx, q, characterID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("scenes-featuring query: %w", err)
	}
	defer rows.Close()
	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		var line sql.NullInt64
		if err := rows.Scan(&r.DocID, &r.Type, &r.Path, &r.Scene, &line, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		r.Line = -1
		if line.Valid {
			r.Line = int(line.Int64)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func likeContains(s string) string { return "%" + s + "%" }

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	b := strings.Builder{}
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("?")
	}
	return b.String()
}

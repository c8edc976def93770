package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sakif/snippet-manager/internal/apperror"
	"github.com/sakif/snippet-manager/internal/model"
	"github.com/sakif/snippet-manager/internal/repository"
)

// Compile-time check that *DB implements repository.SnippetRepository.
var _ repository.SnippetRepository = (*DB)(nil)

const snippetColumns = `id, user_id, title, code, language, description,
	ai_description, ai_explanation, tags, is_favorite, created_at, updated_at`

// sortColumns whitelists the ORDER BY targets. Anything not in this map
// falls back to created_at; values are never interpolated from user input.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "title",
}

// Create inserts a new snippet, assigning its ID and timestamps.
func (db *DB) Create(ctx context.Context, snippet *model.Snippet) error {
	snippet.ID = uuid.NewString()

	now := time.Now().UTC()
	snippet.CreatedAt = now
	snippet.UpdatedAt = now

	tags, err := marshalTags(snippet.Tags)
	if err != nil {
		return err
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO snippets (`+snippetColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snippet.ID,
		snippet.UserID,
		snippet.Title,
		snippet.Code,
		snippet.Language,
		snippet.Description,
		snippet.AIDescription,
		snippet.AIExplanation,
		tags,
		snippet.IsFavorite,
		snippet.CreatedAt,
		snippet.UpdatedAt,
	)
	if err != nil {
		return wrapDBError("creating snippet", err)
	}

	return nil
}

// GetByID retrieves a snippet by ID for the given owner. A row owned by a
// different user and a missing row both come back as NotFound.
func (db *DB) GetByID(ctx context.Context, id, userID string) (*model.Snippet, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+snippetColumns+` FROM snippets WHERE id = ? AND user_id = ?`,
		id, userID,
	)

	snippet, err := scanSnippet(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Snippet")
		}
		return nil, wrapDBError(fmt.Sprintf("getting snippet %s", id), err)
	}

	return snippet, nil
}

// List retrieves one page of the owner's snippets plus the total count of
// rows matching the filters.
func (db *DB) List(ctx context.Context, userID string, opts repository.ListOptions) ([]model.Snippet, int, error) {
	where := []string{"user_id = ?"}
	args := []any{userID}

	if opts.Language != "" {
		where = append(where, "language = ?")
		args = append(args, opts.Language)
	}

	if len(opts.Tags) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(opts.Tags)), ",")
		where = append(where,
			`EXISTS (SELECT 1 FROM json_each(snippets.tags)
			 WHERE json_each.value IN (`+placeholders+`))`)
		for _, tag := range opts.Tags {
			args = append(args, tag)
		}
	}

	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		where = append(where,
			`(title LIKE ? OR COALESCE(description, '') LIKE ?
			  OR COALESCE(ai_description, '') LIKE ?)`)
		args = append(args, pattern, pattern, pattern)
	}

	cond := strings.Join(where, " AND ")

	var total int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM snippets WHERE `+cond, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, wrapDBError("counting snippets", err)
	}

	column, ok := sortColumns[opts.Sort]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if opts.Order == "asc" {
		direction = "ASC"
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+snippetColumns+` FROM snippets
		 WHERE `+cond+`
		 ORDER BY `+column+` `+direction+`
		 LIMIT ? OFFSET ?`,
		append(args, opts.Limit, opts.Offset)...,
	)
	if err != nil {
		return nil, 0, wrapDBError("listing snippets", err)
	}
	defer rows.Close()

	snippets := make([]model.Snippet, 0, opts.Limit)
	for rows.Next() {
		snippet, err := scanSnippet(rows)
		if err != nil {
			return nil, 0, wrapDBError("scanning snippet row", err)
		}
		snippets = append(snippets, *snippet)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapDBError("iterating snippets", err)
	}

	return snippets, total, nil
}

// Update writes the snippet's mutable fields, scoped to its owner, and
// refreshes updated_at. Zero rows affected means the row is gone (or never
// was the caller's) and surfaces as NotFound.
func (db *DB) Update(ctx context.Context, snippet *model.Snippet) error {
	snippet.UpdatedAt = time.Now().UTC()

	tags, err := marshalTags(snippet.Tags)
	if err != nil {
		return err
	}

	result, err := db.conn.ExecContext(ctx,
		`UPDATE snippets
		 SET title = ?, code = ?, language = ?, description = ?,
		     ai_description = ?, ai_explanation = ?, tags = ?,
		     is_favorite = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		snippet.Title,
		snippet.Code,
		snippet.Language,
		snippet.Description,
		snippet.AIDescription,
		snippet.AIExplanation,
		tags,
		snippet.IsFavorite,
		snippet.UpdatedAt,
		snippet.ID,
		snippet.UserID,
	)
	if err != nil {
		return wrapDBError(fmt.Sprintf("updating snippet %s", snippet.ID), err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return wrapDBError("checking rows affected", err)
	}
	if affected == 0 {
		return apperror.NotFound("Snippet")
	}

	return nil
}

// Delete removes a snippet by ID for the given owner.
func (db *DB) Delete(ctx context.Context, id, userID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM snippets WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return wrapDBError(fmt.Sprintf("deleting snippet %s", id), err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return wrapDBError("checking rows affected", err)
	}
	if affected == 0 {
		return apperror.NotFound("Snippet")
	}

	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSnippet(s scanner) (*model.Snippet, error) {
	var (
		snippet model.Snippet
		tags    string
	)
	err := s.Scan(
		&snippet.ID,
		&snippet.UserID,
		&snippet.Title,
		&snippet.Code,
		&snippet.Language,
		&snippet.Description,
		&snippet.AIDescription,
		&snippet.AIExplanation,
		&tags,
		&snippet.IsFavorite,
		&snippet.CreatedAt,
		&snippet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tags), &snippet.Tags); err != nil {
		return nil, fmt.Errorf("decoding tags: %w", err)
	}
	snippet.Normalize()

	return &snippet, nil
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("sqlite: encoding tags: %w", err)
	}
	return string(encoded), nil
}

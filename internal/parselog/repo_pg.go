package parselog

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new entry.
func (r *PGRepo) Create(ctx context.Context, entry Entry) error {
	const query = `
INSERT INTO parse_log (
	id, request_id, file_name, file_bytes, text_chars, prompt_hash, model,
	outcome, error_kind, duration_ms, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.DB.ExecContext(ctx, query,
		entry.ID,
		entry.RequestID,
		entry.FileName,
		entry.FileBytes,
		entry.TextChars,
		entry.PromptHash,
		entry.Model,
		entry.Outcome,
		entry.ErrorKind,
		entry.DurationMs,
		entry.CreatedAt,
	)
	return err
}

// ListRecent returns up to limit entries, newest first.
func (r *PGRepo) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	const query = `
SELECT id, request_id, file_name, file_bytes, text_chars, prompt_hash, model,
       outcome, error_kind, duration_ms, created_at
FROM parse_log
ORDER BY created_at DESC
LIMIT $1`
	rows, err := r.DB.QueryContext(ctx, query, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID,
			&e.RequestID,
			&e.FileName,
			&e.FileBytes,
			&e.TextChars,
			&e.PromptHash,
			&e.Model,
			&e.Outcome,
			&e.ErrorKind,
			&e.DurationMs,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

const resumeColumns = `id, user_id, file_name, storage_key, mime_type, size_bytes, status, raw_text, skills, parsed_data,
  parse_error, vector_id, is_indexed, index_error, created_at, updated_at`

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, res Resume) error {
	const query = `
INSERT INTO resumes (id, user_id, file_name, storage_key, mime_type, size_bytes, status, skills, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`
	status := res.Status
	if status == "" {
		status = StatusCreated
	}
	skills := res.Skills
	if skills == nil {
		skills = []string{}
	}
	_, err := r.DB.ExecContext(ctx, query,
		res.ID,
		res.UserID,
		res.FileName,
		res.StorageKey,
		res.MimeType,
		res.SizeBytes,
		string(status),
		pq.Array(skills),
		res.CreatedAt,
	)
	return err
}

func (r *PGRepo) Get(ctx context.Context, id string) (Resume, error) {
	return r.getOne(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id)
}

func (r *PGRepo) GetForUser(ctx context.Context, userID, id string) (Resume, error) {
	return r.getOne(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE id = $1 AND user_id = $2`, id, userID)
}

// ListByUser lists résumés newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	limit, offset = clampPage(limit, offset)
	const query = `SELECT ` + resumeColumns + `
FROM resumes
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Resume{}
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *PGRepo) MarkParsed(ctx context.Context, id, rawText string, data ParsedData, at time.Time) error {
	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode parsed data: %w", err)
	}
	skills := data.Sections.Skills
	if skills == nil {
		skills = []string{}
	}
	const query = `
UPDATE resumes
SET status = $2, raw_text = $3, skills = $4, parsed_data = $5, parse_error = NULL, updated_at = $6
WHERE id = $1`
	return r.exec(ctx, query, id, string(StatusParsed), rawText, pq.Array(skills), encoded, at)
}

func (r *PGRepo) MarkParseFailed(ctx context.Context, id, reason string, at time.Time) error {
	const query = `UPDATE resumes SET status = $2, parse_error = $3, updated_at = $4 WHERE id = $1`
	return r.exec(ctx, query, id, string(StatusParseFailed), reason, at)
}

func (r *PGRepo) MarkIndexed(ctx context.Context, id, vectorID string, at time.Time) error {
	const query = `
UPDATE resumes
SET status = $2, vector_id = $3, is_indexed = TRUE, index_error = NULL, updated_at = $4
WHERE id = $1`
	return r.exec(ctx, query, id, string(StatusIndexed), vectorID, at)
}

func (r *PGRepo) MarkIndexFailed(ctx context.Context, id, reason string, at time.Time) error {
	const query = `
UPDATE resumes
SET status = $2, is_indexed = FALSE, index_error = $3, updated_at = $4
WHERE id = $1`
	return r.exec(ctx, query, id, string(StatusIndexFailed), reason, at)
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
}

func (r *PGRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT count(*) FROM resumes WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PGRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) getOne(ctx context.Context, query string, args ...any) (Resume, error) {
	res, err := scanResume(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return res, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var res Resume
	var status string
	var rawText sql.NullString
	var skills []string
	var parsed []byte
	var parseErr sql.NullString
	var vectorID sql.NullString
	var indexErr sql.NullString
	if err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.FileName,
		&res.StorageKey,
		&res.MimeType,
		&res.SizeBytes,
		&status,
		&rawText,
		pq.Array(&skills),
		&parsed,
		&parseErr,
		&vectorID,
		&res.IsIndexed,
		&indexErr,
		&res.CreatedAt,
		&res.UpdatedAt,
	); err != nil {
		return Resume{}, err
	}
	res.Status = Status(status)
	res.RawText = rawText.String
	res.Skills = skills
	if res.Skills == nil {
		res.Skills = []string{}
	}
	res.ParseError = parseErr.String
	res.VectorID = vectorID.String
	res.IndexError = indexErr.String
	if len(parsed) > 0 {
		var data ParsedData
		if err := json.Unmarshal(parsed, &data); err != nil {
			return Resume{}, fmt.Errorf("decode parsed data for %s: %w", res.ID, err)
		}
		res.ParsedData = &data
	}
	return res, nil
}

var _ Repo = (*PGRepo)(nil)

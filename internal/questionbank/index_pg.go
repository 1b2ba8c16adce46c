package questionbank

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// PGIndex implements Index on Postgres with the pgvector extension.
type PGIndex struct {
	DB *sql.DB
}

// NewPGIndex constructs a PGIndex.
func NewPGIndex(db *sql.DB) *PGIndex {
	return &PGIndex{DB: db}
}

// UpsertQuestions writes all questions in one transaction.
func (r *PGIndex) UpsertQuestions(ctx context.Context, questions []ReferenceQuestion, vectors [][]float32) (err error) {
	if len(questions) != len(vectors) {
		return ErrDimensionMismatch
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	const query = `
INSERT INTO reference_questions (id, company, role, question, category, difficulty, keywords, embedding)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE SET
    company = EXCLUDED.company,
    role = EXCLUDED.role,
    question = EXCLUDED.question,
    category = EXCLUDED.category,
    difficulty = EXCLUDED.difficulty,
    keywords = EXCLUDED.keywords,
    embedding = EXCLUDED.embedding`
	for i, q := range questions {
		keywords := q.ExpectedKeywords
		if keywords == nil {
			keywords = []string{}
		}
		if _, err = tx.ExecContext(ctx, query,
			q.ID,
			q.Company,
			q.Role,
			q.Question,
			q.Category,
			q.Difficulty,
			pq.Array(keywords),
			pgvector.NewVector(vectors[i]),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// QueryQuestions orders by cosine distance; score is 1 - distance.
func (r *PGIndex) QueryQuestions(ctx context.Context, vector []float32, opts SearchOptions) ([]Match, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	const query = `
SELECT id, company, role, question, category, difficulty, keywords, 1 - (embedding <=> $1) AS score
FROM reference_questions
WHERE ($2 = '' OR lower(company) = lower($2))
  AND ($3 = '' OR lower(role) = lower($3))
  AND 1 - (embedding <=> $1) >= $4
ORDER BY embedding <=> $1
LIMIT $5`

	rows, err := r.DB.QueryContext(ctx, query,
		pgvector.NewVector(vector),
		opts.Company,
		opts.Role,
		opts.MinScore,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Match{}
	for rows.Next() {
		var m Match
		var keywords []string
		if err := rows.Scan(
			&m.ID,
			&m.Company,
			&m.Role,
			&m.Question,
			&m.Category,
			&m.Difficulty,
			pq.Array(&keywords),
			&m.Score,
		); err != nil {
			return nil, err
		}
		if keywords == nil {
			keywords = []string{}
		}
		m.ExpectedKeywords = keywords
		out = append(out, m)
	}
	return out, rows.Err()
}

// UpsertResume stores the résumé vector, replacing any previous one for the résumé.
func (r *PGIndex) UpsertResume(ctx context.Context, vectorID string, v ResumeVector, vector []float32) error {
	const query = `
INSERT INTO resume_vectors (id, resume_id, user_id, file_name, skills, summary, embedding)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
    file_name = EXCLUDED.file_name,
    skills = EXCLUDED.skills,
    summary = EXCLUDED.summary,
    embedding = EXCLUDED.embedding`
	skills := v.Skills
	if skills == nil {
		skills = []string{}
	}
	_, err := r.DB.ExecContext(ctx, query,
		vectorID,
		v.ResumeID,
		v.UserID,
		v.FileName,
		pq.Array(skills),
		v.Summary,
		pgvector.NewVector(vector),
	)
	return err
}

// DeleteResume removes a résumé vector; deleting a missing row succeeds.
func (r *PGIndex) DeleteResume(ctx context.Context, vectorID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM resume_vectors WHERE id = $1`, vectorID)
	return err
}

var _ Index = (*PGIndex)(nil)

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"talent-match/internal/database"
	"talent-match/internal/domain/resume"

	"github.com/google/uuid"
)

var ErrResumeNotFound = errors.New("resume not found")

type ResumeRepository interface {
	Create(ctx context.Context, r resume.Resume) (resume.Resume, error)
	GetByID(ctx context.Context, id uuid.UUID) (resume.Resume, error)
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]resume.Resume, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	SaveParsed(ctx context.Context, id uuid.UUID, parsed resume.Parsed) error
	ListStale(ctx context.Context, status string, before time.Time, limit int) ([]resume.Resume, error)
}

type PostgresResumeRepository struct {
	db database.DB
}

func NewPostgresResumeRepository(db database.DB) *PostgresResumeRepository {
	return &PostgresResumeRepository{db: db}
}

const resumeColumns = `id, candidate_id, file_path, content_type, status, parsed, created_at, updated_at`

func (r *PostgresResumeRepository) Create(ctx context.Context, res resume.Resume) (resume.Resume, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO resumes (id, candidate_id, file_path, content_type, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+resumeColumns,
		res.ID, res.CandidateID, res.FilePath, res.ContentType, res.Status,
	)
	return scanResume(row)
}

func (r *PostgresResumeRepository) GetByID(ctx context.Context, id uuid.UUID) (resume.Resume, error) {
	return scanResume(r.db.QueryRow(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id))
}

func (r *PostgresResumeRepository) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]resume.Resume, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE candidate_id = $1 ORDER BY created_at DESC`,
		candidateID,
	)
	if err != nil {
		return nil, err
	}
	return collectResumes(rows)
}

// ListStale returns resumes still in status whose last update is older than
// before, oldest first.
func (r *PostgresResumeRepository) ListStale(ctx context.Context, status string, before time.Time, limit int) ([]resume.Resume, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes
		 WHERE status = $1 AND updated_at < $2
		 ORDER BY updated_at ASC
		 LIMIT $3`,
		status, before, limit,
	)
	if err != nil {
		return nil, err
	}
	return collectResumes(rows)
}

func collectResumes(rows database.Rows) ([]resume.Resume, error) {
	defer rows.Close()

	out := make([]resume.Resume, 0)
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresResumeRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	n, err := r.db.Exec(ctx, `UPDATE resumes SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrResumeNotFound
	}
	return nil
}

func (r *PostgresResumeRepository) SaveParsed(ctx context.Context, id uuid.UUID, parsed resume.Parsed) error {
	b, err := json.Marshal(parsed)
	if err != nil {
		return fmt.Errorf("encode parsed resume: %w", err)
	}
	n, err := r.db.Exec(ctx,
		`UPDATE resumes SET parsed = $2, status = $3, updated_at = now() WHERE id = $1`,
		id, b, resume.StatusProcessed,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrResumeNotFound
	}
	return nil
}

func scanResume(row database.Row) (resume.Resume, error) {
	var res resume.Resume
	var parsed []byte
	err := row.Scan(
		&res.ID, &res.CandidateID, &res.FilePath, &res.ContentType, &res.Status,
		&parsed, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if database.IsNoRows(err) {
			return resume.Resume{}, ErrResumeNotFound
		}
		return resume.Resume{}, err
	}
	if len(parsed) > 0 && string(parsed) != "null" {
		var p resume.Parsed
		if err := json.Unmarshal(parsed, &p); err != nil {
			return resume.Resume{}, fmt.Errorf("decode parsed resume %s: %w", res.ID, err)
		}
		res.Parsed = &p
	}
	return res, nil
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"talent-match/internal/database"
	"talent-match/internal/domain/job"

	"github.com/google/uuid"
)

var ErrJobNotFound = errors.New("job not found")

type JobRepository interface {
	Create(ctx context.Context, j job.Job) (job.Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (job.Job, error)
	ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]job.Job, error)
	ListActive(ctx context.Context) ([]job.Job, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (job.Job, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobColumns = `id, employer_id, title, description, skills, min_experience, threshold, status, created_at, updated_at`

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) (job.Job, error) {
	skills, err := json.Marshal(j.Skills)
	if err != nil {
		return job.Job{}, fmt.Errorf("encode skills: %w", err)
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO jobs (id, employer_id, title, description, skills, min_experience, threshold, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+jobColumns,
		j.ID, j.EmployerID, j.Title, j.Description, skills, j.MinExperience, j.Threshold, j.Status,
	)
	return scanJob(row)
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	row := r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	return scanJob(row)
}

func (r *PostgresJobRepository) ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]job.Job, error) {
	return r.list(ctx, `SELECT `+jobColumns+` FROM jobs WHERE employer_id = $1 ORDER BY created_at DESC`, employerID)
}

func (r *PostgresJobRepository) ListActive(ctx context.Context) ([]job.Job, error) {
	return r.list(ctx, `SELECT `+jobColumns+` FROM jobs WHERE status = $1 ORDER BY created_at ASC`, job.StatusActive)
}

func (r *PostgresJobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (job.Job, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE jobs SET status = $2, updated_at = now() WHERE id = $1 RETURNING `+jobColumns,
		id, status,
	)
	return scanJob(row)
}

func (r *PostgresJobRepository) list(ctx context.Context, query string, args ...any) ([]job.Job, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanJob(row database.Row) (job.Job, error) {
	var j job.Job
	var skills []byte
	err := row.Scan(
		&j.ID, &j.EmployerID, &j.Title, &j.Description, &skills,
		&j.MinExperience, &j.Threshold, &j.Status, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		if database.IsNoRows(err) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, err
	}
	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &j.Skills); err != nil {
			return job.Job{}, fmt.Errorf("decode skills for job %s: %w", j.ID, err)
		}
	}
	return j, nil
}

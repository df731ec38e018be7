package repository

import (
	"context"

	"talent-match/internal/database"
	"talent-match/internal/domain/match"

	"github.com/google/uuid"
)

type ShortlistRepository interface {
	Upsert(ctx context.Context, s match.Shortlist) error
}

type PostgresShortlistRepository struct {
	db database.DB
}

func NewPostgresShortlistRepository(db database.DB) *PostgresShortlistRepository {
	return &PostgresShortlistRepository{db: db}
}

func (r *PostgresShortlistRepository) Upsert(ctx context.Context, s match.Shortlist) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = match.ShortlistStatusShortlisted
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO shortlists (id, job_id, resume_id, status)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (job_id, resume_id)
		 DO UPDATE SET status = EXCLUDED.status, updated_at = now()`,
		s.ID, s.JobID, s.ResumeID, s.Status,
	)
	return err
}

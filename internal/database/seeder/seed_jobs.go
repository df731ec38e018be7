package seeder

import (
	"context"
	"encoding/json"
	"fmt"

	"talent-match/internal/database"
	"talent-match/internal/domain/job"
	"talent-match/internal/domain/matching"

	"github.com/google/uuid"
)

type JobsSeeder struct {
	EmployerEmail string
}

func (JobsSeeder) Name() string { return "jobs" }

func (s JobsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "jobs",
		"id",
		"employer_id",
		"title",
		"description",
		"skills",
		"min_experience",
		"threshold",
		"status",
	); err != nil {
		return err
	}

	var employerID uuid.UUID
	if err := db.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, s.EmployerEmail).Scan(&employerID); err != nil {
		if database.IsNoRows(err) {
			return fmt.Errorf("employer %s not seeded", s.EmployerEmail)
		}
		return err
	}

	items := []struct {
		Title         string
		Description   string
		Skills        []matching.SkillRequirement
		MinExperience int
		Threshold     int
	}{
		{
			Title:       "Data Analyst",
			Description: "Own reporting pipelines, build dashboards for the operations team and answer ad-hoc questions with SQL and Python.",
			Skills: []matching.SkillRequirement{
				{Name: "Python", Weight: 5},
				{Name: "SQL", Weight: 5},
				{Name: "Tableau", Weight: 2},
			},
			MinExperience: 2,
			Threshold:     job.DefaultThreshold,
		},
		{
			Title:       "Backend Engineer (Go)",
			Description: "Design and operate HTTP services in Go backed by PostgreSQL and Redis, deployed on Kubernetes.",
			Skills: []matching.SkillRequirement{
				{Name: "Go", Weight: 8},
				{Name: "PostgreSQL", Weight: 6},
				{Name: "Redis", Weight: 3},
				{Name: "Kubernetes", Weight: 3},
			},
			MinExperience: 3,
			Threshold:     60,
		},
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, it := range items {
		skills, err := json.Marshal(it.Skills)
		if err != nil {
			return err
		}
		_, err = tx.Exec(
			ctx,
			`INSERT INTO jobs (id, employer_id, title, description, skills, min_experience, threshold, status)
			 SELECT gen_random_uuid(), $1, $2, $3, $4::jsonb, $5, $6, $7
			 WHERE NOT EXISTS (SELECT 1 FROM jobs WHERE employer_id = $1 AND title = $2)`,
			employerID,
			it.Title,
			it.Description,
			string(skills),
			it.MinExperience,
			it.Threshold,
			job.StatusActive,
		)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

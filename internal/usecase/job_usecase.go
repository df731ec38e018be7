package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"talent-match/internal/domain/job"
	"talent-match/internal/domain/matching"
	"talent-match/internal/infrastructure/cache"
	"talent-match/internal/pkg/validation"
	"talent-match/internal/repository"

	"github.com/google/uuid"
)

type JobSkillInput struct {
	Name   string `json:"name" validate:"notblank,max=100"`
	Weight int    `json:"weight" validate:"min=1,max=10"`
}

type CreateJobInput struct {
	Title         string          `json:"title" validate:"min=3,max=200"`
	Description   string          `json:"description" validate:"min=50"`
	Skills        []JobSkillInput `json:"skills" validate:"min=1,dive"`
	MinExperience int             `json:"min_experience" validate:"min=0"`
	Threshold     *int            `json:"threshold" validate:"omitempty,min=0,max=100"`
}

type JobUsecase interface {
	Create(ctx context.Context, employerID uuid.UUID, in CreateJobInput) (job.Job, error)
	ListMine(ctx context.Context, employerID uuid.UUID) ([]job.Job, error)
	Get(ctx context.Context, employerID, jobID uuid.UUID) (job.Job, error)
	UpdateStatus(ctx context.Context, employerID, jobID uuid.UUID, status string) (job.Job, error)
	ListMatches(ctx context.Context, employerID, jobID uuid.UUID) ([]repository.JobMatchRow, error)
}

type Jobs struct {
	jobs    repository.JobRepository
	matches repository.MatchRepository
	cache   Cache
	logger  *log.Logger
}

func NewJobUsecase(jobs repository.JobRepository, matches repository.MatchRepository, c Cache, logger *log.Logger) *Jobs {
	if logger == nil {
		logger = log.Default()
	}
	return &Jobs{jobs: jobs, matches: matches, cache: cacheOrNoop(c), logger: logger}
}

func (u *Jobs) Create(ctx context.Context, employerID uuid.UUID, in CreateJobInput) (job.Job, error) {
	if employerID == uuid.Nil {
		return job.Job{}, ErrUnauthorized
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := validation.Struct(in); err != nil {
		return job.Job{}, err
	}

	threshold := job.DefaultThreshold
	if in.Threshold != nil {
		threshold = *in.Threshold
	}

	skills := make([]matching.SkillRequirement, 0, len(in.Skills))
	for _, s := range in.Skills {
		skills = append(skills, matching.SkillRequirement{Name: strings.TrimSpace(s.Name), Weight: s.Weight})
	}

	created, err := u.jobs.Create(ctx, job.Job{
		ID:            uuid.New(),
		EmployerID:    employerID,
		Title:         in.Title,
		Description:   in.Description,
		Skills:        skills,
		MinExperience: in.MinExperience,
		Threshold:     threshold,
		Status:        job.StatusActive,
	})
	if err != nil {
		u.logger.Printf("usecase=jobs op=create employer_id=%s status=error err=%v", employerID, err)
		return job.Job{}, ErrInternal
	}
	return created, nil
}

func (u *Jobs) ListMine(ctx context.Context, employerID uuid.UUID) ([]job.Job, error) {
	if employerID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	items, err := u.jobs.ListByEmployer(ctx, employerID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Jobs) Get(ctx context.Context, employerID, jobID uuid.UUID) (job.Job, error) {
	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, ErrInternal
	}
	if j.EmployerID != employerID {
		return job.Job{}, ErrForbidden
	}
	return j, nil
}

func (u *Jobs) UpdateStatus(ctx context.Context, employerID, jobID uuid.UUID, status string) (job.Job, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !job.IsValidStatus(status) {
		return job.Job{}, ErrInvalidInput
	}
	if _, err := u.Get(ctx, employerID, jobID); err != nil {
		return job.Job{}, err
	}

	updated, err := u.jobs.UpdateStatus(ctx, jobID, status)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, ErrInternal
	}
	return updated, nil
}

func (u *Jobs) ListMatches(ctx context.Context, employerID, jobID uuid.UUID) ([]repository.JobMatchRow, error) {
	if _, err := u.Get(ctx, employerID, jobID); err != nil {
		return nil, err
	}

	key := cache.JobMatchesKey(jobID)
	var cached []repository.JobMatchRow
	if ok, err := u.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}

	items, err := u.matches.ListByJob(ctx, jobID)
	if err != nil {
		u.logger.Printf("usecase=jobs op=list_matches job_id=%s status=error err=%v", jobID, err)
		return nil, ErrInternal
	}
	if err := u.cache.SetJSON(ctx, key, items, 0); err != nil {
		u.logger.Printf("usecase=jobs op=list_matches job_id=%s cache=set status=error err=%v", jobID, err)
	}
	return items, nil
}

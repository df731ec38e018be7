package usecase

import (
	"context"
	"io"
	"log"
	"strings"
	"testing"

	"talent-match/internal/domain/job"
	"talent-match/internal/infrastructure/cache"
	"talent-match/internal/pkg/validation"
	"talent-match/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validJobInput() CreateJobInput {
	return CreateJobInput{
		Title:       "  Data Analyst  ",
		Description: strings.Repeat("Analyse product data and build dashboards. ", 2),
		Skills:      []JobSkillInput{{Name: " Python ", Weight: 5}, {Name: "SQL", Weight: 3}},
	}
}

func newJobsUsecase(jobs *fakeJobs, matches *fakeMatches, c Cache) *Jobs {
	return NewJobUsecase(jobs, matches, c, log.New(io.Discard, "", 0))
}

func TestJobsCreate_DefaultsThresholdAndTrims(t *testing.T) {
	jobs := &fakeJobs{}
	uc := newJobsUsecase(jobs, &fakeMatches{}, nil)
	employerID := uuid.New()

	created, err := uc.Create(context.Background(), employerID, validJobInput())
	require.NoError(t, err)

	assert.Equal(t, employerID, created.EmployerID)
	assert.Equal(t, "Data Analyst", created.Title)
	assert.Equal(t, job.DefaultThreshold, created.Threshold)
	assert.Equal(t, job.StatusActive, created.Status)
	assert.Equal(t, "Python", created.Skills[0].Name)
	assert.Len(t, jobs.items, 1)
}

func TestJobsCreate_KeepsExplicitZeroThreshold(t *testing.T) {
	uc := newJobsUsecase(&fakeJobs{}, &fakeMatches{}, nil)
	in := validJobInput()
	zero := 0
	in.Threshold = &zero

	created, err := uc.Create(context.Background(), uuid.New(), in)
	require.NoError(t, err)
	assert.Equal(t, 0, created.Threshold)
}

func TestJobsCreate_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*CreateJobInput)
		field string
	}{
		{"short title", func(in *CreateJobInput) { in.Title = " ab " }, "title"},
		{"short description", func(in *CreateJobInput) { in.Description = "too short" }, "description"},
		{"no skills", func(in *CreateJobInput) { in.Skills = nil }, "skills"},
		{"weight out of range", func(in *CreateJobInput) { in.Skills[1].Weight = 11 }, "skills[1].weight"},
		{"blank skill name", func(in *CreateJobInput) { in.Skills[0].Name = "  " }, "skills[0].name"},
		{"negative experience", func(in *CreateJobInput) { in.MinExperience = -1 }, "min_experience"},
		{"threshold above 100", func(in *CreateJobInput) { v := 101; in.Threshold = &v }, "threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs := &fakeJobs{}
			uc := newJobsUsecase(jobs, &fakeMatches{}, nil)
			in := validJobInput()
			tt.edit(&in)

			_, err := uc.Create(context.Background(), uuid.New(), in)
			verr, ok := validation.IsValidationError(err)
			require.True(t, ok, "expected validation error, got %v", err)

			fields := make([]string, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				fields = append(fields, f.Field)
			}
			assert.Contains(t, fields, tt.field)
			assert.Empty(t, jobs.items)
		})
	}
}

func TestJobsGet_OwnershipAndNotFound(t *testing.T) {
	owner := uuid.New()
	j := job.Job{ID: uuid.New(), EmployerID: owner, Status: job.StatusActive}
	uc := newJobsUsecase(&fakeJobs{items: []job.Job{j}}, &fakeMatches{}, nil)

	got, err := uc.Get(context.Background(), owner, j.ID)
	require.NoError(t, err)
	assert.Equal(t, j.ID, got.ID)

	_, err = uc.Get(context.Background(), uuid.New(), j.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = uc.Get(context.Background(), owner, uuid.New())
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestJobsUpdateStatus(t *testing.T) {
	owner := uuid.New()
	j := job.Job{ID: uuid.New(), EmployerID: owner, Status: job.StatusActive}
	jobs := &fakeJobs{items: []job.Job{j}}
	uc := newJobsUsecase(jobs, &fakeMatches{}, nil)

	updated, err := uc.UpdateStatus(context.Background(), owner, j.ID, " Closed ")
	require.NoError(t, err)
	assert.Equal(t, job.StatusClosed, updated.Status)

	_, err = uc.UpdateStatus(context.Background(), owner, j.ID, "archived")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.UpdateStatus(context.Background(), uuid.New(), j.ID, job.StatusActive)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestJobsListMatches_UsesCache(t *testing.T) {
	owner := uuid.New()
	j := job.Job{ID: uuid.New(), EmployerID: owner}
	matches := &fakeMatches{byJob: []repository.JobMatchRow{{CandidateName: "Jane", Shortlisted: true}}}
	mem := newMemCache()
	uc := newJobsUsecase(&fakeJobs{items: []job.Job{j}}, matches, mem)

	first, err := uc.ListMatches(context.Background(), owner, j.ID)
	require.NoError(t, err)
	second, err := uc.ListMatches(context.Background(), owner, j.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, matches.listCalls)
	assert.Equal(t, first[0].CandidateName, second[0].CandidateName)
	assert.True(t, second[0].Shortlisted)
	assert.Contains(t, mem.data, cache.JobMatchesKey(j.ID))

	_, err = uc.ListMatches(context.Background(), uuid.New(), j.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

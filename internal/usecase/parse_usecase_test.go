package usecase

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"talent-match/internal/domain/job"
	"talent-match/internal/domain/matching"
	"talent-match/internal/domain/resume"
	"talent-match/internal/infrastructure/cache"
	"talent-match/internal/infrastructure/storage"
	"talent-match/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type parseFixture struct {
	uc         *Parse
	resumes    *fakeResumes
	jobs       *fakeJobs
	matches    *fakeMatches
	shortlists *fakeShortlists
	audit      *fakeAudit
	store      *fakeStore
	extractor  *fakeExtractor
	cache      *memCache
	notifier   *fakeNotifier

	candidateID uuid.UUID
	employerID  uuid.UUID
	resumeID    uuid.UUID
	analystJob  job.Job
	goJob       job.Job
}

func newParseFixture(t *testing.T) *parseFixture {
	t.Helper()

	f := &parseFixture{
		candidateID: uuid.New(),
		employerID:  uuid.New(),
		resumeID:    uuid.New(),
		matches:     &fakeMatches{},
		shortlists:  &fakeShortlists{},
		audit:       &fakeAudit{},
		store:       newFakeStore(),
		cache:       newMemCache(),
		notifier:    &fakeNotifier{},
		extractor: &fakeExtractor{parsed: resume.Parsed{
			Name:   "Jane Doe",
			Skills: []string{"python", "Excel"},
		}},
	}

	f.analystJob = job.Job{
		ID:         uuid.New(),
		EmployerID: f.employerID,
		Title:      "Data Analyst",
		Skills:     []matching.SkillRequirement{{Name: "Python", Weight: 5}, {Name: "SQL", Weight: 5}},
		Threshold:  50,
		Status:     job.StatusActive,
	}
	f.goJob = job.Job{
		ID:         uuid.New(),
		EmployerID: f.employerID,
		Title:      "Go Engineer",
		Skills:     []matching.SkillRequirement{{Name: "Go", Weight: 10}},
		Threshold:  70,
		Status:     job.StatusActive,
	}
	closed := job.Job{ID: uuid.New(), EmployerID: f.employerID, Title: "Old", Status: job.StatusClosed}
	f.jobs = &fakeJobs{items: []job.Job{f.analystJob, f.goJob, closed}}

	key := f.candidateID.String() + "/1700000000000-cv.txt"
	f.resumes = newFakeResumes(resume.Resume{
		ID:          f.resumeID,
		CandidateID: f.candidateID,
		FilePath:    key,
		ContentType: resume.ContentTypeText,
		Status:      resume.StatusPending,
	})
	require.NoError(t, f.store.Put(context.Background(), key, []byte("Jane Doe\nSkills: Python, Excel"), resume.ContentTypeText))

	f.uc = NewParseUsecase(ParseDeps{
		Resumes:    f.resumes,
		Jobs:       f.jobs,
		Matches:    f.matches,
		Shortlists: f.shortlists,
		Audit:      f.audit,
		Store:      f.store,
		Extractor:  f.extractor,
		Cache:      f.cache,
		Notifier:   f.notifier,
		Logger:     log.New(io.Discard, "", 0),
	})
	return f
}

func TestParseResume_ScoresActiveJobsAndShortlists(t *testing.T) {
	f := newParseFixture(t)

	out, err := f.uc.ParseResume(context.Background(), f.resumeID)
	require.NoError(t, err)

	assert.Equal(t, 2, out.MatchesCreated)
	assert.Equal(t, "Jane Doe", out.Parsed.Name)

	stored := f.resumes.get(f.resumeID)
	assert.Equal(t, resume.StatusProcessed, stored.Status)
	require.NotNil(t, stored.Parsed)

	require.Len(t, f.matches.upserts, 2)
	scores := map[uuid.UUID]int{}
	for _, m := range f.matches.upserts {
		assert.Equal(t, f.resumeID, m.ResumeID)
		assert.Equal(t, m.Score, m.Breakdown.Score)
		scores[m.JobID] = m.Score
	}
	assert.Equal(t, 50, scores[f.analystJob.ID])
	assert.Equal(t, 0, scores[f.goJob.ID])

	require.Len(t, f.shortlists.items, 1)
	assert.Equal(t, f.analystJob.ID, f.shortlists.items[0].JobID)
	assert.Equal(t, "shortlisted", f.shortlists.items[0].Status)

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, repository.AuditActionResumeParsed, f.audit.entries[0].Action)
	assert.Equal(t, f.candidateID, *f.audit.entries[0].UserID)

	assert.ElementsMatch(t, []sentEvent{
		{UserID: f.employerID, Event: EventCandidateShortlisted},
		{UserID: f.candidateID, Event: EventResumeParsed},
	}, f.notifier.events)

	assert.Contains(t, f.cache.deleted, cache.RecommendationsKey(f.candidateID))
	assert.Contains(t, f.cache.deleted, cache.JobMatchesKey(f.analystJob.ID))
	assert.Contains(t, f.cache.deleted, cache.ParseLockKey(f.resumeID))
}

func TestParseResume_PerJobFailureDoesNotAbort(t *testing.T) {
	f := newParseFixture(t)
	f.matches.failJob = f.analystJob.ID

	out, err := f.uc.ParseResume(context.Background(), f.resumeID)
	require.NoError(t, err)

	assert.Equal(t, 2, out.MatchesCreated)
	require.Len(t, f.matches.upserts, 1)
	assert.Equal(t, f.goJob.ID, f.matches.upserts[0].JobID)
	assert.Len(t, f.shortlists.items, 1)
}

func TestParseResume_ExtractorFailureMarksFailed(t *testing.T) {
	f := newParseFixture(t)
	f.extractor.err = errors.New("gateway 502")

	_, err := f.uc.ParseResume(context.Background(), f.resumeID)
	require.Error(t, err)

	assert.Equal(t, resume.StatusFailed, f.resumes.get(f.resumeID).Status)
	assert.Empty(t, f.matches.upserts)
	assert.Empty(t, f.audit.entries)
	assert.Empty(t, f.notifier.events)
}

func TestParseResume_MissingFileMarksFailed(t *testing.T) {
	f := newParseFixture(t)
	f.store.objects = map[string]storage.Object{}

	_, err := f.uc.ParseResume(context.Background(), f.resumeID)
	require.Error(t, err)
	assert.Equal(t, resume.StatusFailed, f.resumes.get(f.resumeID).Status)
	assert.Zero(t, f.extractor.calls)
}

func TestParseResume_SaveFailureMarksFailed(t *testing.T) {
	f := newParseFixture(t)
	f.resumes.saveErr = errors.New("db down")

	_, err := f.uc.ParseResume(context.Background(), f.resumeID)
	require.Error(t, err)
	assert.Equal(t, []string{resume.StatusFailed}, f.resumes.statuses)
}

func TestParseResume_UnknownResume(t *testing.T) {
	f := newParseFixture(t)

	_, err := f.uc.ParseResume(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrResumeNotFound)
	assert.Empty(t, f.resumes.statuses)
}

func TestParseResume_JobListingFailureStillProcesses(t *testing.T) {
	f := newParseFixture(t)
	f.jobs.listErr = errors.New("timeout")

	out, err := f.uc.ParseResume(context.Background(), f.resumeID)
	require.NoError(t, err)
	assert.Zero(t, out.MatchesCreated)
	assert.Equal(t, resume.StatusProcessed, f.resumes.get(f.resumeID).Status)
	assert.Len(t, f.audit.entries, 1)
}

func TestParseResume_RejectsConcurrentRun(t *testing.T) {
	f := newParseFixture(t)
	_, err := f.cache.SetIfNotExists(context.Background(), cache.ParseLockKey(f.resumeID), "1", 0)
	require.NoError(t, err)

	_, err = f.uc.ParseResume(context.Background(), f.resumeID)
	assert.ErrorIs(t, err, ErrParseInProgress)
	assert.Zero(t, f.extractor.calls)
}

func TestParseResume_KeepsLockTakenOverByAnotherRun(t *testing.T) {
	f := newParseFixture(t)
	lockKey := cache.ParseLockKey(f.resumeID)
	// The lock expired mid-parse and a second run now holds it.
	f.extractor.onExtract = func() {
		f.cache.mu.Lock()
		f.cache.data[lockKey] = []byte("other-run")
		f.cache.mu.Unlock()
	}

	_, err := f.uc.ParseResume(context.Background(), f.resumeID)
	require.NoError(t, err)
	assert.Equal(t, []byte("other-run"), f.cache.data[lockKey])
	assert.NotContains(t, f.cache.deleted, lockKey)
}

func TestParseOwnResume_ChecksOwnership(t *testing.T) {
	f := newParseFixture(t)

	_, err := f.uc.ParseOwnResume(context.Background(), uuid.New(), f.resumeID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.uc.ParseOwnResume(context.Background(), f.candidateID, f.resumeID)
	assert.NoError(t, err)
}

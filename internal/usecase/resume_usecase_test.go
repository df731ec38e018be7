package usecase

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"talent-match/internal/domain/match"
	"talent-match/internal/domain/resume"
	"talent-match/internal/domain/user"
	"talent-match/internal/infrastructure/storage"
	"talent-match/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resumeFixture struct {
	uc        *Resumes
	resumes   *fakeResumes
	matches   *fakeMatches
	users     *fakeUsers
	store     *fakeStore
	publisher *fakePublisher
}

func newResumeFixture() *resumeFixture {
	f := &resumeFixture{
		resumes:   newFakeResumes(),
		matches:   &fakeMatches{best: map[uuid.UUID]repository.CandidateMatchRow{}},
		users:     newFakeUsers(),
		store:     newFakeStore(),
		publisher: &fakePublisher{},
	}
	f.uc = NewResumeUsecase(f.resumes, f.matches, f.users, f.store, f.publisher, 16, log.New(io.Discard, "", 0))
	f.uc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return f
}

func TestResumesUpload_StoresAndQueues(t *testing.T) {
	f := newResumeFixture()
	candidateID := uuid.New()

	created, err := f.uc.Upload(context.Background(), candidateID, UploadInput{
		Filename:    "../cv final.pdf",
		ContentType: "application/pdf; charset=binary",
		Data:        []byte("%PDF-1.4"),
	})
	require.NoError(t, err)

	assert.Equal(t, resume.StatusPending, created.Status)
	assert.Equal(t, resume.ContentTypePDF, created.ContentType)
	assert.True(t, strings.HasPrefix(created.FilePath, candidateID.String()+"/1700000000000-"))
	assert.Contains(t, f.store.objects, created.FilePath)

	require.Len(t, f.publisher.reqs, 1)
	assert.Equal(t, created.ID, f.publisher.reqs[0].ResumeID)
	assert.Equal(t, candidateID, f.publisher.reqs[0].CandidateID)
}

func TestResumesUpload_Rejections(t *testing.T) {
	f := newResumeFixture()
	ctx := context.Background()

	_, err := f.uc.Upload(ctx, uuid.New(), UploadInput{Filename: "a.png", ContentType: "image/png", Data: []byte("x")})
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	_, err = f.uc.Upload(ctx, uuid.New(), UploadInput{Filename: "a.pdf", ContentType: resume.ContentTypePDF, Data: []byte(strings.Repeat("x", 17))})
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = f.uc.Upload(ctx, uuid.New(), UploadInput{Filename: "a.pdf", ContentType: resume.ContentTypePDF})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Upload(ctx, uuid.Nil, UploadInput{Filename: "a.pdf", ContentType: resume.ContentTypePDF, Data: []byte("x")})
	assert.ErrorIs(t, err, ErrUnauthorized)

	assert.Empty(t, f.store.objects)
	assert.Empty(t, f.publisher.reqs)
}

func TestResumesUpload_PublishFailureKeepsResume(t *testing.T) {
	f := newResumeFixture()
	f.publisher.err = errors.New("broker down")

	created, err := f.uc.Upload(context.Background(), uuid.New(), UploadInput{
		Filename:    "cv.docx",
		ContentType: resume.ContentTypeDOCX,
		Data:        []byte("PK"),
	})
	require.NoError(t, err)
	assert.Equal(t, resume.StatusPending, f.resumes.get(created.ID).Status)
}

func TestResumesUpload_StoreFailure(t *testing.T) {
	f := newResumeFixture()
	f.store.putErr = errors.New("s3 down")

	_, err := f.uc.Upload(context.Background(), uuid.New(), UploadInput{
		Filename:    "cv.pdf",
		ContentType: resume.ContentTypePDF,
		Data:        []byte("%PDF"),
	})
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, f.resumes.byID)
}

func seedMatchedResume(f *resumeFixture) (candidate user.User, employerID uuid.UUID, res resume.Resume) {
	candidate = user.User{ID: uuid.New(), Email: "jane@example.com", FullName: "Jane Doe", Role: user.RoleCandidate}
	f.users.byID[candidate.ID] = candidate

	res = resume.Resume{
		ID:          uuid.New(),
		CandidateID: candidate.ID,
		FilePath:    candidate.ID.String() + "/1700000000000-cv.pdf",
		ContentType: resume.ContentTypePDF,
		Status:      resume.StatusProcessed,
	}
	f.resumes.byID[res.ID] = res
	f.store.objects[res.FilePath] = storage.Object{Body: []byte("%PDF"), ContentType: resume.ContentTypePDF}

	employerID = uuid.New()
	f.matches.best[employerID] = repository.CandidateMatchRow{
		Match:    match.Match{ResumeID: res.ID, Score: 80},
		JobTitle: "Data Analyst",
	}
	return candidate, employerID, res
}

func TestResumesDetails(t *testing.T) {
	f := newResumeFixture()
	candidate, employerID, res := seedMatchedResume(f)

	got, err := f.uc.Details(context.Background(), employerID, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.CandidateName)
	assert.Equal(t, candidate.Email, got.CandidateEmail)
	assert.Equal(t, 80, got.Match.Score)

	_, err = f.uc.Details(context.Background(), uuid.New(), res.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestResumesFile_AccessRules(t *testing.T) {
	f := newResumeFixture()
	candidate, employerID, res := seedMatchedResume(f)
	ctx := context.Background()

	file, err := f.uc.File(ctx, candidate.ID, user.RoleCandidate, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "cv.pdf", file.Filename)
	assert.Equal(t, resume.ContentTypePDF, file.ContentType)

	_, err = f.uc.File(ctx, employerID, user.RoleEmployer, res.ID)
	assert.NoError(t, err)

	_, err = f.uc.File(ctx, uuid.New(), user.RoleCandidate, res.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.uc.File(ctx, uuid.New(), user.RoleEmployer, res.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.uc.File(ctx, candidate.ID, user.RoleCandidate, uuid.New())
	assert.ErrorIs(t, err, ErrResumeNotFound)
}

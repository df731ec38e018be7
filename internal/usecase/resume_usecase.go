package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"talent-match/internal/domain/resume"
	"talent-match/internal/domain/user"
	"talent-match/internal/infrastructure/queue"
	"talent-match/internal/infrastructure/storage"
	"talent-match/internal/repository"

	"github.com/google/uuid"
)

type UploadInput struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ResumeDetails is what an employer sees for a resume that matched one of
// their jobs.
type ResumeDetails struct {
	Resume         resume.Resume                `json:"resume"`
	CandidateName  string                       `json:"candidate_name"`
	CandidateEmail string                       `json:"candidate_email"`
	Match          repository.CandidateMatchRow `json:"match"`
}

type ResumeFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

type ResumeUsecase interface {
	Upload(ctx context.Context, candidateID uuid.UUID, in UploadInput) (resume.Resume, error)
	ListMine(ctx context.Context, candidateID uuid.UUID) ([]resume.Resume, error)
	Details(ctx context.Context, employerID, resumeID uuid.UUID) (ResumeDetails, error)
	File(ctx context.Context, userID uuid.UUID, role string, resumeID uuid.UUID) (ResumeFile, error)
}

type Resumes struct {
	resumes   repository.ResumeRepository
	matches   repository.MatchRepository
	users     user.Repository
	store     storage.Store
	publisher queue.Publisher
	maxBytes  int64
	logger    *log.Logger
	now       func() time.Time
}

func NewResumeUsecase(
	resumes repository.ResumeRepository,
	matches repository.MatchRepository,
	users user.Repository,
	store storage.Store,
	publisher queue.Publisher,
	maxBytes int64,
	logger *log.Logger,
) *Resumes {
	if logger == nil {
		logger = log.Default()
	}
	if maxBytes <= 0 {
		maxBytes = resume.MaxUploadBytes
	}
	return &Resumes{
		resumes:   resumes,
		matches:   matches,
		users:     users,
		store:     store,
		publisher: publisher,
		maxBytes:  maxBytes,
		logger:    logger,
		now:       time.Now,
	}
}

func (u *Resumes) Upload(ctx context.Context, candidateID uuid.UUID, in UploadInput) (resume.Resume, error) {
	if candidateID == uuid.Nil {
		return resume.Resume{}, ErrUnauthorized
	}

	ct := strings.ToLower(strings.TrimSpace(in.ContentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if !resume.IsAllowedUploadType(ct) {
		return resume.Resume{}, ErrUnsupportedFile
	}
	if len(in.Data) == 0 {
		return resume.Resume{}, ErrInvalidInput
	}
	if int64(len(in.Data)) > u.maxBytes {
		return resume.Resume{}, ErrFileTooLarge
	}

	key := storage.ResumeKey(candidateID, in.Filename, u.now())
	if err := u.store.Put(ctx, key, in.Data, ct); err != nil {
		u.logger.Printf("usecase=resumes op=upload candidate_id=%s step=store status=error err=%v", candidateID, err)
		return resume.Resume{}, ErrInternal
	}

	created, err := u.resumes.Create(ctx, resume.Resume{
		ID:          uuid.New(),
		CandidateID: candidateID,
		FilePath:    key,
		ContentType: ct,
		Status:      resume.StatusPending,
	})
	if err != nil {
		u.logger.Printf("usecase=resumes op=upload candidate_id=%s step=insert status=error err=%v", candidateID, err)
		return resume.Resume{}, ErrInternal
	}

	// The resume stays pending when the queue is down; POST /resumes/:id/parse recovers it.
	if u.publisher != nil {
		if err := u.publisher.PublishParse(ctx, queue.ParseRequest{ResumeID: created.ID, CandidateID: candidateID}); err != nil {
			u.logger.Printf("usecase=resumes op=upload resume_id=%s step=publish status=error err=%v", created.ID, err)
		}
	}

	return created, nil
}

func (u *Resumes) ListMine(ctx context.Context, candidateID uuid.UUID) ([]resume.Resume, error) {
	if candidateID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	items, err := u.resumes.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Resumes) Details(ctx context.Context, employerID, resumeID uuid.UUID) (ResumeDetails, error) {
	m, err := u.matches.BestForEmployer(ctx, resumeID, employerID)
	if err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			return ResumeDetails{}, ErrForbidden
		}
		return ResumeDetails{}, ErrInternal
	}

	res, err := u.resumes.GetByID(ctx, resumeID)
	if err != nil {
		if errors.Is(err, repository.ErrResumeNotFound) {
			return ResumeDetails{}, ErrResumeNotFound
		}
		return ResumeDetails{}, ErrInternal
	}

	out := ResumeDetails{Resume: res, Match: m}
	candidate, err := u.users.GetUserByID(ctx, res.CandidateID)
	switch {
	case err == nil:
		out.CandidateName = candidate.FullName
		out.CandidateEmail = candidate.Email
	case errors.Is(err, user.ErrNotFound):
	default:
		return ResumeDetails{}, ErrInternal
	}
	return out, nil
}

// File returns the stored resume to its owner or to an employer whose job it
// matched.
func (u *Resumes) File(ctx context.Context, userID uuid.UUID, role string, resumeID uuid.UUID) (ResumeFile, error) {
	res, err := u.resumes.GetByID(ctx, resumeID)
	if err != nil {
		if errors.Is(err, repository.ErrResumeNotFound) {
			return ResumeFile{}, ErrResumeNotFound
		}
		return ResumeFile{}, ErrInternal
	}

	switch role {
	case user.RoleCandidate:
		if res.CandidateID != userID {
			return ResumeFile{}, ErrForbidden
		}
	case user.RoleEmployer:
		if _, err := u.matches.BestForEmployer(ctx, resumeID, userID); err != nil {
			if errors.Is(err, repository.ErrMatchNotFound) {
				return ResumeFile{}, ErrForbidden
			}
			return ResumeFile{}, ErrInternal
		}
	default:
		return ResumeFile{}, ErrForbidden
	}

	obj, err := u.store.Get(ctx, res.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return ResumeFile{}, ErrResumeNotFound
		}
		u.logger.Printf("usecase=resumes op=file resume_id=%s status=error err=%v", resumeID, err)
		return ResumeFile{}, ErrInternal
	}

	ct := obj.ContentType
	if ct == "" {
		ct = res.ContentType
	}
	return ResumeFile{Filename: storage.DisplayName(res.FilePath), ContentType: ct, Body: obj.Body}, nil
}

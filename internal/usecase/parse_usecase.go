package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"talent-match/internal/domain/job"
	"talent-match/internal/domain/match"
	"talent-match/internal/domain/matching"
	"talent-match/internal/domain/resume"
	"talent-match/internal/infrastructure/ai"
	"talent-match/internal/infrastructure/cache"
	"talent-match/internal/infrastructure/storage"
	"talent-match/internal/infrastructure/textextract"
	"talent-match/internal/repository"

	"github.com/google/uuid"
)

const (
	EventResumeParsed         = "resume_parsed"
	EventCandidateShortlisted = "candidate_shortlisted"

	parseLockTTL = 5 * time.Minute
)

// Notifier pushes realtime events to a connected user.
type Notifier interface {
	Notify(userID uuid.UUID, event string, payload any)
}

type ParseResult struct {
	Parsed         resume.Parsed `json:"parsed"`
	MatchesCreated int           `json:"matchesCreated"`
}

type ParseUsecase interface {
	ParseResume(ctx context.Context, resumeID uuid.UUID) (ParseResult, error)
	ParseOwnResume(ctx context.Context, candidateID, resumeID uuid.UUID) (ParseResult, error)
}

type ParseDeps struct {
	Resumes    repository.ResumeRepository
	Jobs       repository.JobRepository
	Matches    repository.MatchRepository
	Shortlists repository.ShortlistRepository
	Audit      repository.AuditRepository
	Store      storage.Store
	Extractor  ai.Extractor
	Cache      Cache
	Notifier   Notifier
	Logger     *log.Logger
}

type Parse struct {
	deps ParseDeps
	log  *log.Logger
}

func NewParseUsecase(deps ParseDeps) *Parse {
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	deps.Cache = cacheOrNoop(deps.Cache)
	return &Parse{deps: deps, log: deps.Logger}
}

func (u *Parse) ParseOwnResume(ctx context.Context, candidateID, resumeID uuid.UUID) (ParseResult, error) {
	res, err := u.deps.Resumes.GetByID(ctx, resumeID)
	if err != nil {
		if errors.Is(err, repository.ErrResumeNotFound) {
			return ParseResult{}, ErrResumeNotFound
		}
		return ParseResult{}, ErrInternal
	}
	if res.CandidateID != candidateID {
		return ParseResult{}, ErrForbidden
	}
	return u.ParseResume(ctx, resumeID)
}

// ParseResume extracts structured data from a stored resume, scores it
// against every active job and auto-shortlists where the job threshold is met.
// A failure before the parsed data is saved marks the resume failed.
func (u *Parse) ParseResume(ctx context.Context, resumeID uuid.UUID) (ParseResult, error) {
	// A parse outliving parseLockTTL loses the lock; the token keeps it from
	// releasing the lock of whichever run acquired it next.
	lockKey, lockToken := cache.ParseLockKey(resumeID), uuid.NewString()
	acquired, err := u.deps.Cache.SetIfNotExists(ctx, lockKey, lockToken, parseLockTTL)
	if err == nil && !acquired {
		return ParseResult{}, ErrParseInProgress
	}
	defer func() {
		_, _ = u.deps.Cache.DeleteIfValue(context.WithoutCancel(ctx), lockKey, lockToken)
	}()

	start := time.Now()
	res, parsed, err := u.extract(ctx, resumeID)
	if err != nil {
		u.log.Printf("pipeline=parse resume_id=%s status=error err=%v", resumeID, err)
		if !errors.Is(err, ErrResumeNotFound) {
			u.markFailed(ctx, resumeID)
		}
		return ParseResult{}, err
	}

	jobs, err := u.deps.Jobs.ListActive(ctx)
	if err != nil {
		u.log.Printf("pipeline=parse resume_id=%s step=list_jobs status=error err=%v", resumeID, err)
		jobs = nil
	}

	touched := make([]string, 0, len(jobs)+1)
	for _, j := range jobs {
		u.scoreAgainst(ctx, res, parsed, j)
		touched = append(touched, cache.JobMatchesKey(j.ID))
	}

	u.audit(ctx, res.CandidateID, resumeID, parsed)

	touched = append(touched, cache.RecommendationsKey(res.CandidateID))
	if err := u.deps.Cache.Delete(ctx, touched...); err != nil {
		u.log.Printf("pipeline=parse resume_id=%s step=invalidate status=error err=%v", resumeID, err)
	}

	out := ParseResult{Parsed: parsed, MatchesCreated: len(jobs)}
	u.notify(res.CandidateID, EventResumeParsed, map[string]any{
		"resume_id":       resumeID,
		"status":          resume.StatusProcessed,
		"matches_created": out.MatchesCreated,
	})

	u.log.Printf("pipeline=parse resume_id=%s status=ok skills=%d jobs=%d took=%s",
		resumeID, len(parsed.Skills), len(jobs), time.Since(start))
	return out, nil
}

// extract covers the steps whose failure marks the resume failed.
func (u *Parse) extract(ctx context.Context, resumeID uuid.UUID) (resume.Resume, resume.Parsed, error) {
	res, err := u.deps.Resumes.GetByID(ctx, resumeID)
	if err != nil {
		if errors.Is(err, repository.ErrResumeNotFound) {
			return resume.Resume{}, resume.Parsed{}, ErrResumeNotFound
		}
		return resume.Resume{}, resume.Parsed{}, fmt.Errorf("load resume: %w", err)
	}

	obj, err := u.deps.Store.Get(ctx, res.FilePath)
	if err != nil {
		return res, resume.Parsed{}, fmt.Errorf("download resume: %w", err)
	}

	contentType := res.ContentType
	if contentType == "" {
		contentType = obj.ContentType
	}
	text, err := textextract.Extract(contentType, obj.Body)
	if err != nil {
		return res, resume.Parsed{}, fmt.Errorf("extract text: %w", err)
	}

	parsed, err := u.deps.Extractor.ExtractResume(ctx, text)
	if err != nil {
		return res, resume.Parsed{}, fmt.Errorf("extract resume data: %w", err)
	}

	if err := u.deps.Resumes.SaveParsed(ctx, resumeID, parsed); err != nil {
		return res, resume.Parsed{}, fmt.Errorf("save parsed resume: %w", err)
	}
	return res, parsed, nil
}

func (u *Parse) scoreAgainst(ctx context.Context, res resume.Resume, parsed resume.Parsed, j job.Job) {
	result := matching.Score(parsed.Skills, j.Skills)

	if _, err := u.deps.Matches.Upsert(ctx, match.Match{
		JobID:     j.ID,
		ResumeID:  res.ID,
		Score:     result.Score,
		Breakdown: result,
	}); err != nil {
		u.log.Printf("pipeline=parse resume_id=%s job_id=%s step=upsert_match status=error err=%v", res.ID, j.ID, err)
	}

	if !j.Shortlists(result.Score) {
		return
	}
	if err := u.deps.Shortlists.Upsert(ctx, match.Shortlist{
		JobID:    j.ID,
		ResumeID: res.ID,
		Status:   match.ShortlistStatusShortlisted,
	}); err != nil {
		u.log.Printf("pipeline=parse resume_id=%s job_id=%s step=shortlist status=error err=%v", res.ID, j.ID, err)
		return
	}
	u.notify(j.EmployerID, EventCandidateShortlisted, map[string]any{
		"job_id":    j.ID,
		"job_title": j.Title,
		"resume_id": res.ID,
		"score":     result.Score,
	})
}

func (u *Parse) audit(ctx context.Context, candidateID, resumeID uuid.UUID, parsed resume.Parsed) {
	if u.deps.Audit == nil {
		return
	}
	err := u.deps.Audit.Create(ctx, repository.AuditEntry{
		UserID: &candidateID,
		Action: repository.AuditActionResumeParsed,
		Metadata: map[string]any{
			"resumeId":   resumeID,
			"parsedData": parsed,
		},
	})
	if err != nil {
		u.log.Printf("pipeline=parse resume_id=%s step=audit status=error err=%v", resumeID, err)
	}
}

func (u *Parse) markFailed(ctx context.Context, resumeID uuid.UUID) {
	// The request context may already be cancelled; the status must still land.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := u.deps.Resumes.UpdateStatus(ctx, resumeID, resume.StatusFailed); err != nil {
		u.log.Printf("pipeline=parse resume_id=%s step=mark_failed status=error err=%v", resumeID, err)
	}
}

func (u *Parse) notify(userID uuid.UUID, event string, payload any) {
	if u.deps.Notifier == nil {
		return
	}
	u.deps.Notifier.Notify(userID, event, payload)
}

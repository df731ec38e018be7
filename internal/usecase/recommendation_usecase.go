package usecase

import (
	"context"
	"log"

	"talent-match/internal/domain/matching"
	"talent-match/internal/infrastructure/cache"
	"talent-match/internal/repository"

	"github.com/google/uuid"
)

type RecommendationUsecase interface {
	SkillRecommendations(ctx context.Context, candidateID uuid.UUID) ([]matching.SkillFrequency, error)
	CandidateMatches(ctx context.Context, candidateID uuid.UUID) ([]repository.CandidateMatchRow, error)
}

type Recommendations struct {
	matches repository.MatchRepository
	cache   Cache
	limit   int
	logger  *log.Logger
}

func NewRecommendationUsecase(matches repository.MatchRepository, c Cache, logger *log.Logger) *Recommendations {
	if logger == nil {
		logger = log.Default()
	}
	return &Recommendations{
		matches: matches,
		cache:   cacheOrNoop(c),
		limit:   matching.DefaultRecommendationLimit,
		logger:  logger,
	}
}

// SkillRecommendations ranks the skills most often missing across every match
// of the candidate's resumes.
func (u *Recommendations) SkillRecommendations(ctx context.Context, candidateID uuid.UUID) ([]matching.SkillFrequency, error) {
	if candidateID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	key := cache.RecommendationsKey(candidateID)
	var cached []matching.SkillFrequency
	if ok, err := u.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}

	missing, err := u.matches.MissingByCandidate(ctx, candidateID)
	if err != nil {
		u.logger.Printf("usecase=recommendations candidate_id=%s status=error err=%v", candidateID, err)
		return nil, ErrInternal
	}

	out := matching.AggregateMissing(missing, u.limit)
	if err := u.cache.SetJSON(ctx, key, out, 0); err != nil {
		u.logger.Printf("usecase=recommendations candidate_id=%s cache=set status=error err=%v", candidateID, err)
	}
	return out, nil
}

func (u *Recommendations) CandidateMatches(ctx context.Context, candidateID uuid.UUID) ([]repository.CandidateMatchRow, error) {
	if candidateID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	items, err := u.matches.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

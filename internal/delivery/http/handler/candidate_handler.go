package handler

import (
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/domain/user"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// CandidateHandler serves the candidate's own match data under /me.
type CandidateHandler struct {
	uc usecase.RecommendationUsecase
}

func NewCandidateHandler(uc usecase.RecommendationUsecase) *CandidateHandler {
	return &CandidateHandler{uc: uc}
}

func (h *CandidateHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	candidate := middleware.RequireRole(user.RoleCandidate)
	r.Get("/skill-recommendations", candidate, h.SkillRecommendations)
	r.Get("/matches", candidate, h.Matches)
}

func (h *CandidateHandler) SkillRecommendations(c fiber.Ctx) error {
	candidateID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	items, err := h.uc.SkillRecommendations(c.Context(), candidateID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *CandidateHandler) Matches(c fiber.Ctx) error {
	candidateID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	items, err := h.uc.CandidateMatches(c.Context(), candidateID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

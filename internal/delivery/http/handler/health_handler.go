package handler

import (
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type HealthHandler struct {
	uc usecase.HealthUsecase
}

func NewHealthHandler(uc usecase.HealthUsecase) *HealthHandler {
	return &HealthHandler{uc: uc}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/health", h.Health)
}

// Health answers 503 when the database is down; redis and the queue are
// reported but optional.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	st := h.uc.Check(c.Context())
	if !st.DatabaseHealthy {
		return response.Success(c, fiber.StatusServiceUnavailable, "degraded", st)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, st)
}

package handler

import (
	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/domain/user"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type JobHandler struct {
	uc usecase.JobUsecase
}

func NewJobHandler(uc usecase.JobUsecase) *JobHandler {
	return &JobHandler{uc: uc}
}

func (h *JobHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	employer := middleware.RequireRole(user.RoleEmployer)
	r.Post("/", employer, h.Create)
	r.Get("/", employer, h.ListMine)
	r.Get("/:id", employer, h.Get)
	r.Patch("/:id/status", employer, h.UpdateStatus)
	r.Get("/:id/matches", employer, h.ListMatches)
}

func (h *JobHandler) Create(c fiber.Ctx) error {
	employerID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	var req usecase.CreateJobInput
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.Create(c.Context(), employerID, req)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, created)
}

func (h *JobHandler) ListMine(c fiber.Ctx) error {
	employerID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListMine(c.Context(), employerID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *JobHandler) Get(c fiber.Ctx) error {
	employerID, _, err := currentUser(c)
	if err != nil {
		return err
	}
	jobID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	j, err := h.uc.Get(c.Context(), employerID, jobID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, j)
}

func (h *JobHandler) UpdateStatus(c fiber.Ctx) error {
	employerID, _, err := currentUser(c)
	if err != nil {
		return err
	}
	jobID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.JobStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	updated, err := h.uc.UpdateStatus(c.Context(), employerID, jobID, req.Status)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, updated)
}

func (h *JobHandler) ListMatches(c fiber.Ctx) error {
	employerID, _, err := currentUser(c)
	if err != nil {
		return err
	}
	jobID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	items, err := h.uc.ListMatches(c.Context(), employerID, jobID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

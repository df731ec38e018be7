package handler

import (
	"fmt"
	"io"
	"path"
	"strings"

	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/domain/resume"
	"talent-match/internal/domain/user"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ResumeHandler struct {
	resumes  usecase.ResumeUsecase
	parser   usecase.ParseUsecase
	maxBytes int64
}

func NewResumeHandler(resumes usecase.ResumeUsecase, parser usecase.ParseUsecase, maxBytes int64) *ResumeHandler {
	if maxBytes <= 0 {
		maxBytes = resume.MaxUploadBytes
	}
	return &ResumeHandler{resumes: resumes, parser: parser, maxBytes: maxBytes}
}

func (h *ResumeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	candidate := middleware.RequireRole(user.RoleCandidate)
	employer := middleware.RequireRole(user.RoleEmployer)

	r.Post("/", candidate, h.Upload)
	r.Get("/", candidate, h.ListMine)
	r.Post("/:id/parse", candidate, h.Parse)
	r.Get("/:id/details", employer, h.Details)
	r.Get("/:id/file", middleware.RequireRole(user.RoleCandidate, user.RoleEmployer), h.File)
}

func (h *ResumeHandler) Upload(c fiber.Ctx) error {
	candidateID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Missing file", nil, err)
	}
	if fh.Size > h.maxBytes {
		return mapUsecaseError(usecase.ErrFileTooLarge)
	}

	f, err := fh.Open()
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unreadable file", nil, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unreadable file", nil, err)
	}

	created, err := h.resumes.Upload(c.Context(), candidateID, usecase.UploadInput{
		Filename:    fh.Filename,
		ContentType: uploadContentType(fh.Header.Get(fiber.HeaderContentType), fh.Filename),
		Data:        data,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, dto.NewResumeResponse(created))
}

func (h *ResumeHandler) ListMine(c fiber.Ctx) error {
	candidateID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	items, err := h.resumes.ListMine(c.Context(), candidateID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewResumeListResponse(items))
}

func (h *ResumeHandler) Parse(c fiber.Ctx) error {
	candidateID, _, err := currentUser(c)
	if err != nil {
		return err
	}
	resumeID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	out, err := h.parser.ParseOwnResume(c.Context(), candidateID, resumeID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *ResumeHandler) Details(c fiber.Ctx) error {
	employerID, _, err := currentUser(c)
	if err != nil {
		return err
	}
	resumeID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	out, err := h.resumes.Details(c.Context(), employerID, resumeID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *ResumeHandler) File(c fiber.Ctx) error {
	userID, role, err := currentUser(c)
	if err != nil {
		return err
	}
	resumeID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	file, err := h.resumes.File(c.Context(), userID, role, resumeID)
	if err != nil {
		return mapUsecaseError(err)
	}

	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", file.Filename))
	return c.Status(fiber.StatusOK).Send(file.Body)
}

// Browsers often send octet-stream for DOCX; fall back to the extension.
func uploadContentType(header, filename string) string {
	ct := strings.ToLower(strings.TrimSpace(header))
	if ct != "" && ct != "application/octet-stream" {
		return ct
	}
	switch strings.ToLower(path.Ext(filename)) {
	case ".pdf":
		return resume.ContentTypePDF
	case ".docx":
		return resume.ContentTypeDOCX
	}
	return ct
}

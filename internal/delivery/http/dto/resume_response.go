package dto

import (
	"time"

	"talent-match/internal/domain/resume"
	"talent-match/internal/infrastructure/storage"

	"github.com/google/uuid"
)

// ResumeResponse hides the storage key and exposes the original filename.
type ResumeResponse struct {
	ID          uuid.UUID      `json:"id"`
	FileName    string         `json:"file_name"`
	ContentType string         `json:"content_type"`
	Status      string         `json:"status"`
	Parsed      *resume.Parsed `json:"parsed"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func NewResumeResponse(r resume.Resume) ResumeResponse {
	return ResumeResponse{
		ID:          r.ID,
		FileName:    storage.DisplayName(r.FilePath),
		ContentType: r.ContentType,
		Status:      r.Status,
		Parsed:      r.Parsed,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func NewResumeListResponse(items []resume.Resume) []ResumeResponse {
	out := make([]ResumeResponse, 0, len(items))
	for _, r := range items {
		out = append(out, NewResumeResponse(r))
	}
	return out
}

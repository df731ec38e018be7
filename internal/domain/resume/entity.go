package resume

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pending"
	StatusProcessed = "processed"
	StatusFailed    = "failed"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypeText = "text/plain"

	MaxUploadBytes = 5 * 1024 * 1024
)

type Resume struct {
	ID          uuid.UUID `json:"id"`
	CandidateID uuid.UUID `json:"candidate_id"`
	FilePath    string    `json:"file_path"`
	ContentType string    `json:"content_type"`
	Status      string    `json:"status"`
	Parsed      *Parsed   `json:"parsed,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Parsed is the structured data an extractor pulls out of resume text.
type Parsed struct {
	Name            string   `json:"name"`
	Email           string   `json:"email,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	Skills          []string `json:"skills"`
	ExperienceYears float64  `json:"experience_years,omitempty"`
	Education       string   `json:"education,omitempty"`
	Summary         string   `json:"summary,omitempty"`
}

func IsAllowedUploadType(contentType string) bool {
	return contentType == ContentTypePDF || contentType == ContentTypeDOCX
}

package match

import (
	"time"

	"talent-match/internal/domain/matching"

	"github.com/google/uuid"
)

const ShortlistStatusShortlisted = "shortlisted"

type Match struct {
	ID        uuid.UUID       `json:"id"`
	JobID     uuid.UUID       `json:"job_id"`
	ResumeID  uuid.UUID       `json:"resume_id"`
	Score     int             `json:"score"`
	Breakdown matching.Result `json:"breakdown"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type Shortlist struct {
	ID        uuid.UUID `json:"id"`
	JobID     uuid.UUID `json:"job_id"`
	ResumeID  uuid.UUID `json:"resume_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

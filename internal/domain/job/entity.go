package job

import (
	"time"

	"talent-match/internal/domain/matching"

	"github.com/google/uuid"
)

const (
	StatusActive = "active"
	StatusClosed = "closed"

	DefaultThreshold = 70
)

type Job struct {
	ID            uuid.UUID                   `json:"id"`
	EmployerID    uuid.UUID                   `json:"employer_id"`
	Title         string                      `json:"title"`
	Description   string                      `json:"description"`
	Skills        []matching.SkillRequirement `json:"skills"`
	MinExperience int                         `json:"min_experience"`
	Threshold     int                         `json:"threshold"`
	Status        string                      `json:"status"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

func IsValidStatus(status string) bool {
	return status == StatusActive || status == StatusClosed
}

// Shortlists reports whether a score clears the job's auto-shortlist threshold.
func (j Job) Shortlists(score int) bool {
	return score >= j.Threshold
}

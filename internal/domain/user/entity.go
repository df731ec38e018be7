package user

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleEmployer  = "employer"
	RoleCandidate = "candidate"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func IsValidRole(role string) bool {
	return role == RoleEmployer || role == RoleCandidate
}

package user

import (
	"strings"
	"time"

	"uphera/internal/domain/matching"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the part of a user the matching engine reads.
type Profile struct {
	UserID          uuid.UUID
	FullName        string
	Skills          []string
	ExperienceLevel string
	Location        string
	Program         string
	UpdatedAt       time.Time
}

func (p Profile) MatchingProfile() matching.UserProfile {
	return matching.UserProfile{
		Skills:          p.Skills,
		ExperienceLevel: matching.ExperienceLevel(strings.ToLower(strings.TrimSpace(p.ExperienceLevel))),
		Location:        p.Location,
		Program:         p.Program,
	}
}

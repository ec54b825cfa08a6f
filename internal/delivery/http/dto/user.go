package dto

import (
	"time"

	"uphera/internal/domain/user"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserResponse(u user.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, FullName: u.FullName, CreatedAt: u.CreatedAt}
}

type TokensResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type AuthResponse struct {
	User UserResponse `json:"user"`
	TokensResponse
}

type ProfileResponse struct {
	UserID          uuid.UUID `json:"user_id"`
	FullName        string    `json:"full_name"`
	Skills          []string  `json:"skills"`
	ExperienceLevel string    `json:"experience_level"`
	Location        string    `json:"location"`
	Program         string    `json:"program"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewProfileResponse(p user.Profile) ProfileResponse {
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	return ProfileResponse{
		UserID:          p.UserID,
		FullName:        p.FullName,
		Skills:          skills,
		ExperienceLevel: p.ExperienceLevel,
		Location:        p.Location,
		Program:         p.Program,
		UpdatedAt:       p.UpdatedAt,
	}
}

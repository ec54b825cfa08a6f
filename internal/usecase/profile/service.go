package profile

import (
	"context"
	"errors"
	"log"
	"strings"

	"uphera/internal/domain/matching"
	"uphera/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("profile not found")
	ErrInternal     = errors.New("internal error")
)

const maxSkills = 50

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	FullName        *string
	Skills          []string
	SkillsSet       bool
	ExperienceLevel *string
	Location        *string
	Program         *string
}

type Usecase interface {
	Get(ctx context.Context, userID uuid.UUID) (user.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, in UpdateInput) (user.Profile, error)
}

type Service struct {
	users  user.Repository
	logger *log.Logger
}

func NewService(users user.Repository, logger *log.Logger) *Service {
	return &Service{users: users, logger: logger}
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (user.Profile, error) {
	p, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.Profile{}, ErrNotFound
		}
		return user.Profile{}, ErrInternal
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, userID uuid.UUID, in UpdateInput) (user.Profile, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return user.Profile{}, err
	}

	if in.FullName != nil {
		p.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.SkillsSet {
		skills := normalizeSkills(in.Skills)
		if len(skills) > maxSkills {
			return user.Profile{}, ErrInvalidInput
		}
		p.Skills = skills
	}
	if in.ExperienceLevel != nil {
		raw := strings.TrimSpace(*in.ExperienceLevel)
		if raw == "" {
			p.ExperienceLevel = ""
		} else {
			lvl, ok := matching.ParseExperienceLevel(raw)
			if !ok {
				return user.Profile{}, ErrInvalidInput
			}
			p.ExperienceLevel = string(lvl)
		}
	}
	if in.Location != nil {
		p.Location = strings.TrimSpace(*in.Location)
	}
	if in.Program != nil {
		p.Program = strings.TrimSpace(*in.Program)
	}

	if err := s.users.UpdateProfile(ctx, p); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.Profile{}, ErrNotFound
		}
		return user.Profile{}, ErrInternal
	}
	if s.logger != nil {
		s.logger.Printf("Profile updated | user_id=%s skills=%d level=%s", userID, len(p.Skills), p.ExperienceLevel)
	}
	return s.Get(ctx, userID)
}

// normalizeSkills trims, drops blanks and removes case-insensitive duplicates
// while keeping the first spelling.
func normalizeSkills(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		k := strings.ToLower(s)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}

package recommendation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"uphera/internal/domain/job"
	"uphera/internal/domain/matching"
	"uphera/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrProfileNotFound = errors.New("profile not found")
	ErrJobNotFound     = errors.New("job not found")
	ErrInternal        = errors.New("internal error")
)

const (
	DefaultLimit = 10
	MaxLimit     = 50

	// candidatePool caps how many active jobs are scored per request.
	candidatePool = 500

	NotifyThreshold = 80.0
	notifyDedupTTL  = 24 * time.Hour
	notifyKeyPrefix = "notify:match:"
)

type Params struct {
	Limit    int
	MinScore float64
}

type Notifier interface {
	NotifyJobMatch(ctx context.Context, userID uuid.UUID, jobTitle, company string, score int) error
}

// Deduper records that a key was seen; it returns false when the key already exists.
type Deduper interface {
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}

type Usecase interface {
	Recommend(ctx context.Context, userID uuid.UUID, p Params) ([]matching.MatchResult, error)
	Match(ctx context.Context, userID, jobID uuid.UUID) (matching.MatchResult, error)
}

type Service struct {
	users    user.Repository
	jobs     job.Repository
	engine   *matching.Engine
	notifier Notifier
	dedup    Deduper
	logger   *log.Logger
}

func NewService(users user.Repository, jobs job.Repository, engine *matching.Engine, notifier Notifier, dedup Deduper, logger *log.Logger) *Service {
	if engine == nil {
		engine = matching.NewEngine(matching.DefaultWeights)
	}
	return &Service{
		users:    users,
		jobs:     jobs,
		engine:   engine,
		notifier: notifier,
		dedup:    dedup,
		logger:   logger,
	}
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

func (s *Service) profile(ctx context.Context, userID uuid.UUID) (matching.UserProfile, error) {
	p, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return matching.UserProfile{}, ErrProfileNotFound
		}
		s.logf("Recommendation profile error | user_id=%s error=%v", userID, err)
		return matching.UserProfile{}, ErrInternal
	}
	return p.MatchingProfile(), nil
}

func (s *Service) Recommend(ctx context.Context, userID uuid.UUID, p Params) ([]matching.MatchResult, error) {
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		return nil, ErrInvalidInput
	}
	if math.IsNaN(p.MinScore) || p.MinScore < 0 || p.MinScore > 100 {
		return nil, ErrInvalidInput
	}

	profile, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.jobs.ListActive(ctx, candidatePool)
	if err != nil {
		s.logf("Recommendation jobs error | user_id=%s error=%v", userID, err)
		return nil, ErrInternal
	}

	postings := make([]matching.JobPosting, 0, len(rows))
	for _, j := range rows {
		postings = append(postings, j.Posting())
	}

	ranked := s.engine.RankJobs(profile, postings)
	out := make([]matching.MatchResult, 0, p.Limit)
	for _, r := range ranked {
		if r.MatchScore < p.MinScore {
			// Ranked descending; nothing further can qualify.
			break
		}
		out = append(out, r)
		if len(out) == p.Limit {
			break
		}
	}

	s.logf("Recommendation ranked | user_id=%s candidates=%d returned=%d", userID, len(rows), len(out))

	if len(out) > 0 && out[0].MatchScore >= NotifyThreshold {
		s.notifyTopMatch(ctx, userID, out[0])
	}
	return out, nil
}

func (s *Service) notifyTopMatch(ctx context.Context, userID uuid.UUID, top matching.MatchResult) {
	if s.notifier == nil {
		return
	}
	if s.dedup != nil {
		key := fmt.Sprintf("%s%s:%s", notifyKeyPrefix, userID, top.Job.ID)
		// A dedup error (cache down) sends anyway; a repeat beats a lost match.
		first, err := s.dedup.SetIfNotExists(ctx, key, "1", notifyDedupTTL)
		if err == nil && !first {
			return
		}
	}
	score := int(math.Round(top.MatchScore))
	if err := s.notifier.NotifyJobMatch(ctx, userID, top.Job.Title, top.Job.Company, score); err != nil {
		s.logf("Recommendation notify error | user_id=%s job_id=%s error=%v", userID, top.Job.ID, err)
	}
}

func (s *Service) Match(ctx context.Context, userID, jobID uuid.UUID) (matching.MatchResult, error) {
	profile, err := s.profile(ctx, userID)
	if err != nil {
		return matching.MatchResult{}, err
	}

	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return matching.MatchResult{}, ErrJobNotFound
		}
		s.logf("Recommendation job error | job_id=%s error=%v", jobID, err)
		return matching.MatchResult{}, ErrInternal
	}

	return s.engine.Score(profile, j.Posting()), nil
}

package jobs

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"uphera/internal/domain/job"
	"uphera/internal/domain/matching"
	"uphera/internal/search"
	"uphera/internal/ws"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("job not found")
	ErrInternal     = errors.New("internal error")
)

const (
	DefaultLimit = 20
	MaxLimit     = 50

	lockTTL = 30 * time.Second
)

type ListParams struct {
	Limit           int
	Offset          int
	Location        string
	JobType         string
	ExperienceLevel string
	RemoteOnly      bool
	Search          string
}

type ListResult struct {
	Jobs   []job.Job
	Total  int
	Limit  int
	Offset int
}

type CreateInput struct {
	Title           string
	Company         string
	Description     string
	Location        string
	JobType         string
	Salary          string
	ExperienceLevel string
	RequiredSkills  []string
	RemoteFriendly  bool
	PostedBy        uuid.UUID
}

// Summary is the job_update payload pushed to online users.
type Summary struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	Location        string    `json:"location"`
	JobType         string    `json:"job_type"`
	ExperienceLevel string    `json:"experience_level"`
	RemoteFriendly  bool      `json:"remote_friendly"`
	RequiredSkills  []string  `json:"required_skills"`
	CreatedAt       time.Time `json:"created_at"`
}

type Broadcaster interface {
	SendJobUpdate(ctx context.Context, job any) error
}

var _ Broadcaster = (*ws.Service)(nil)

type Usecase interface {
	List(ctx context.Context, p ListParams) (ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (job.Job, error)
	Create(ctx context.Context, in CreateInput) (job.Job, error)
}

type Service struct {
	jobs        job.Repository
	cache       Cache
	broadcaster Broadcaster
	logger      *log.Logger

	now      func() time.Time
	lockWait time.Duration
}

func NewService(jobs job.Repository, cache Cache, broadcaster Broadcaster, logger *log.Logger) *Service {
	return &Service{
		jobs:        jobs,
		cache:       cache,
		broadcaster: broadcaster,
		logger:      logger,
		now:         time.Now,
		lockWait:    300 * time.Millisecond,
	}
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

func (s *Service) List(ctx context.Context, p ListParams) (ListResult, error) {
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit < 1 || p.Limit > MaxLimit || p.Offset < 0 {
		return ListResult{}, ErrInvalidInput
	}
	if lvl := strings.TrimSpace(p.ExperienceLevel); lvl != "" {
		if _, ok := matching.ParseExperienceLevel(lvl); !ok {
			return ListResult{}, ErrInvalidInput
		}
	}

	key := ListCacheKey(p)
	lockKey := ListLockKey(key)

	if res, ok := s.cached(ctx, key); ok {
		return res, nil
	}

	if s.cache != nil {
		ok, err := s.cache.SetIfNotExists(ctx, lockKey, "1", lockTTL)
		switch {
		case err != nil:
			// No usable cache; go straight to Postgres.
		case ok:
			defer s.releaseLock(ctx, lockKey)
		default:
			// Another request is filling this page; give it a moment.
			jitter := time.Duration(s.now().UnixNano()%201) * time.Millisecond
			select {
			case <-ctx.Done():
				return ListResult{}, ctx.Err()
			case <-time.After(s.lockWait + jitter):
			}
			if res, ok := s.cached(ctx, key); ok {
				return res, nil
			}
			s.logf("Jobs lock wait fallback | key=%s", lockKey)
		}
	}

	qc := search.ProcessQuery(p.Search)
	rows, total, err := s.jobs.List(ctx, job.ListFilter{
		Location:        p.Location,
		JobType:         p.JobType,
		ExperienceLevel: p.ExperienceLevel,
		RemoteOnly:      p.RemoteOnly,
		SearchTerms:     qc.Variants,
		Limit:           p.Limit,
		Offset:          p.Offset,
	})
	if err != nil {
		s.logf("Jobs list error | error=%v", err)
		return ListResult{}, ErrInternal
	}

	res := ListResult{
		Jobs:   search.RankJobs(rows, qc.Variants, s.now()),
		Total:  total,
		Limit:  p.Limit,
		Offset: p.Offset,
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, res, 0); err == nil {
			s.logf("Jobs cache SET | key=%s", key)
		}
	}
	return res, nil
}

// releaseLock is deferred by List once the lock is held, so it also runs on
// repository errors and cancelled requests.
func (s *Service) releaseLock(ctx context.Context, lockKey string) {
	if err := s.cache.Delete(context.WithoutCancel(ctx), lockKey); err != nil {
		s.logf("Jobs lock release error | key=%s error=%v", lockKey, err)
	}
}

func (s *Service) cached(ctx context.Context, key string) (ListResult, bool) {
	if s.cache == nil {
		return ListResult{}, false
	}
	var res ListResult
	hit, err := s.cache.GetJSON(ctx, key, &res)
	if err != nil || !hit {
		s.logf("Jobs cache MISS | key=%s", key)
		return ListResult{}, false
	}
	s.logf("Jobs cache HIT | key=%s", key)
	return res, true
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (job.Job, error) {
	j, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Job{}, ErrNotFound
		}
		return job.Job{}, ErrInternal
	}
	return j, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (job.Job, error) {
	title := strings.TrimSpace(in.Title)
	company := strings.TrimSpace(in.Company)
	if title == "" || company == "" {
		return job.Job{}, ErrInvalidInput
	}

	level := ""
	if raw := strings.TrimSpace(in.ExperienceLevel); raw != "" {
		lvl, ok := matching.ParseExperienceLevel(raw)
		if !ok {
			return job.Job{}, ErrInvalidInput
		}
		level = string(lvl)
	}

	skills := make([]string, 0, len(in.RequiredSkills))
	for _, sk := range in.RequiredSkills {
		if sk = strings.TrimSpace(sk); sk != "" {
			skills = append(skills, sk)
		}
	}

	now := s.now().UTC()
	j := job.Job{
		ID:              uuid.New(),
		Title:           title,
		Company:         company,
		Description:     normalizeDescription(in.Description),
		Location:        strings.TrimSpace(in.Location),
		JobType:         strings.TrimSpace(in.JobType),
		Salary:          strings.TrimSpace(in.Salary),
		ExperienceLevel: level,
		RequiredSkills:  skills,
		RemoteFriendly:  in.RemoteFriendly,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.PostedBy != uuid.Nil {
		by := in.PostedBy
		j.PostedBy = &by
	}

	if err := s.jobs.Create(ctx, j); err != nil {
		s.logf("Jobs create error | error=%v", err)
		return job.Job{}, ErrInternal
	}

	if s.cache != nil {
		if err := s.cache.InvalidateJobs(ctx); err != nil {
			s.logf("Jobs cache invalidate error | error=%v", err)
		}
	}
	if s.broadcaster != nil {
		if err := s.broadcaster.SendJobUpdate(ctx, SummaryOf(j)); err != nil {
			s.logf("Jobs broadcast error | job_id=%s error=%v", j.ID, err)
		}
	}

	s.logf("Jobs created | job_id=%s title=%q", j.ID, j.Title)
	return j, nil
}

func SummaryOf(j job.Job) Summary {
	skills := j.RequiredSkills
	if skills == nil {
		skills = []string{}
	}
	return Summary{
		ID:              j.ID,
		Title:           j.Title,
		Company:         j.Company,
		Location:        j.Location,
		JobType:         j.JobType,
		ExperienceLevel: j.ExperienceLevel,
		RemoteFriendly:  j.RemoteFriendly,
		RequiredSkills:  skills,
		CreatedAt:       j.CreatedAt,
	}
}

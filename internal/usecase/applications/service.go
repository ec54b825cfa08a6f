package applications

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"uphera/internal/domain/job"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrJobNotFound    = errors.New("job not found")
	ErrAlreadyApplied = errors.New("already applied to this job")
	ErrInternal       = errors.New("internal error")
)

const (
	maxCoverLetter   = 5000
	maxResumeContent = 20000
)

type ApplyInput struct {
	CoverLetter   string
	ResumeContent string
}

type Notifier interface {
	NotifyApplicationUpdate(ctx context.Context, userID uuid.UUID, jobTitle, status string) error
}

type Usecase interface {
	Apply(ctx context.Context, userID, jobID uuid.UUID, in ApplyInput) (job.Application, error)
	ListApplications(ctx context.Context, userID uuid.UUID) ([]job.Application, error)
	ToggleBookmark(ctx context.Context, userID, jobID uuid.UUID) (bool, error)
	ListBookmarks(ctx context.Context, userID uuid.UUID) ([]job.Bookmark, error)
}

type Service struct {
	jobs         job.Repository
	applications job.ApplicationRepository
	bookmarks    job.BookmarkRepository
	notifier     Notifier
	logger       *log.Logger
	now          func() time.Time
}

func NewService(jobs job.Repository, applications job.ApplicationRepository, bookmarks job.BookmarkRepository, notifier Notifier, logger *log.Logger) *Service {
	return &Service{
		jobs:         jobs,
		applications: applications,
		bookmarks:    bookmarks,
		notifier:     notifier,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

func (s *Service) loadJob(ctx context.Context, jobID uuid.UUID) (job.Job, error) {
	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Job{}, ErrJobNotFound
		}
		s.logf("Applications job lookup error | job_id=%s error=%v", jobID, err)
		return job.Job{}, ErrInternal
	}
	if !j.IsActive {
		return job.Job{}, ErrJobNotFound
	}
	return j, nil
}

func (s *Service) Apply(ctx context.Context, userID, jobID uuid.UUID, in ApplyInput) (job.Application, error) {
	cover := strings.TrimSpace(in.CoverLetter)
	resume := strings.TrimSpace(in.ResumeContent)
	if utf8.RuneCountInString(cover) > maxCoverLetter || utf8.RuneCountInString(resume) > maxResumeContent {
		return job.Application{}, ErrInvalidInput
	}

	j, err := s.loadJob(ctx, jobID)
	if err != nil {
		return job.Application{}, err
	}

	now := s.now().UTC()
	a := job.Application{
		ID:            uuid.New(),
		UserID:        userID,
		JobID:         jobID,
		CoverLetter:   cover,
		ResumeContent: resume,
		Status:        job.ApplicationPending,
		CreatedAt:     now,
		UpdatedAt:     now,
		Job:           &j,
	}

	if err := s.applications.Create(ctx, a); err != nil {
		if errors.Is(err, job.ErrAlreadyApplied) {
			return job.Application{}, ErrAlreadyApplied
		}
		s.logf("Applications create error | user_id=%s job_id=%s error=%v", userID, jobID, err)
		return job.Application{}, ErrInternal
	}

	s.logf("Applications submitted | user_id=%s job_id=%s", userID, jobID)

	if s.notifier != nil {
		if err := s.notifier.NotifyApplicationUpdate(ctx, userID, j.Title, string(a.Status)); err != nil {
			s.logf("Applications notify error | user_id=%s error=%v", userID, err)
		}
	}
	return a, nil
}

func (s *Service) ListApplications(ctx context.Context, userID uuid.UUID) ([]job.Application, error) {
	items, err := s.applications.ListByUser(ctx, userID)
	if err != nil {
		s.logf("Applications list error | user_id=%s error=%v", userID, err)
		return nil, ErrInternal
	}
	if items == nil {
		items = []job.Application{}
	}
	return items, nil
}

func (s *Service) ToggleBookmark(ctx context.Context, userID, jobID uuid.UUID) (bool, error) {
	if _, err := s.loadJob(ctx, jobID); err != nil {
		return false, err
	}
	on, err := s.bookmarks.Toggle(ctx, userID, jobID)
	if err != nil {
		s.logf("Bookmarks toggle error | user_id=%s job_id=%s error=%v", userID, jobID, err)
		return false, ErrInternal
	}
	return on, nil
}

func (s *Service) ListBookmarks(ctx context.Context, userID uuid.UUID) ([]job.Bookmark, error) {
	items, err := s.bookmarks.ListByUser(ctx, userID)
	if err != nil {
		s.logf("Bookmarks list error | user_id=%s error=%v", userID, err)
		return nil, ErrInternal
	}
	if items == nil {
		items = []job.Bookmark{}
	}
	return items, nil
}

package notifications

import (
	"context"
	"errors"
	"log"
	"time"

	"uphera/internal/domain/notification"
	"uphera/internal/ws"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("notification not found")
	ErrInternal     = errors.New("internal error")
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Pusher delivers a payload to every live connection of one user.
type Pusher interface {
	SendNotification(ctx context.Context, userID ws.UserID, notification any) error
}

var _ Pusher = (*ws.Service)(nil)

// View is the wire shape of a notification, both over HTTP and the socket.
type View struct {
	ID        uuid.UUID      `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	Priority  string         `json:"priority"`
	IsRead    bool           `json:"is_read"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func ViewOf(n notification.Notification) View {
	return View{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		Priority:  string(n.Priority),
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		ExpiresAt: n.ExpiresAt,
		CreatedAt: n.CreatedAt,
	}
}

type ListParams struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

type Usecase interface {
	Create(ctx context.Context, n notification.Notification) error
	List(ctx context.Context, userID uuid.UUID, p ListParams) ([]notification.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	NotifyJobMatch(ctx context.Context, userID uuid.UUID, jobTitle, company string, score int) error
	NotifyApplicationUpdate(ctx context.Context, userID uuid.UUID, jobTitle, status string) error
	CleanupExpired(ctx context.Context) (int64, error)
}

type Service struct {
	repo   notification.Repository
	pusher Pusher
	logger *log.Logger
	now    func() time.Time
}

func NewService(repo notification.Repository, pusher Pusher, logger *log.Logger) *Service {
	return &Service{repo: repo, pusher: pusher, logger: logger, now: time.Now}
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

// Create persists n and then pushes it to the user's live connections.
// A failed push does not fail the call; the row is already stored.
func (s *Service) Create(ctx context.Context, n notification.Notification) error {
	if n.UserID == uuid.Nil || n.Title == "" {
		return ErrInvalidInput
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now().UTC()
	}
	if n.Priority == "" {
		n.Priority = notification.PriorityMedium
	}

	if err := s.repo.Create(ctx, n); err != nil {
		s.logf("Notification create error | user_id=%s type=%s error=%v", n.UserID, n.Type, err)
		return ErrInternal
	}

	if s.pusher != nil {
		if err := s.pusher.SendNotification(ctx, ws.UserID(n.UserID.String()), ViewOf(n)); err != nil {
			s.logf("Notification push error | user_id=%s id=%s error=%v", n.UserID, n.ID, err)
		}
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, p ListParams) ([]notification.Notification, error) {
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit < 1 || p.Limit > MaxLimit || p.Offset < 0 {
		return nil, ErrInvalidInput
	}
	items, err := s.repo.ListByUser(ctx, userID, notification.ListFilter{
		UnreadOnly: p.UnreadOnly,
		Limit:      p.Limit,
		Offset:     p.Offset,
	})
	if err != nil {
		s.logf("Notification list error | user_id=%s error=%v", userID, err)
		return nil, ErrInternal
	}
	if items == nil {
		items = []notification.Notification{}
	}
	return items, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	err := s.repo.MarkRead(ctx, id, userID, s.now().UTC())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, notification.ErrNotFound):
		return ErrNotFound
	default:
		s.logf("Notification mark read error | id=%s error=%v", id, err)
		return ErrInternal
	}
}

func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, userID, s.now().UTC())
	if err != nil {
		s.logf("Notification mark all read error | user_id=%s error=%v", userID, err)
		return 0, ErrInternal
	}
	return n, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	n, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		s.logf("Notification unread count error | user_id=%s error=%v", userID, err)
		return 0, ErrInternal
	}
	return n, nil
}

func (s *Service) NotifyJobMatch(ctx context.Context, userID uuid.UUID, jobTitle, company string, score int) error {
	return s.Create(ctx, notification.NewJobMatch(userID, jobTitle, company, score, s.now()))
}

func (s *Service) NotifyApplicationUpdate(ctx context.Context, userID uuid.UUID, jobTitle, status string) error {
	return s.Create(ctx, notification.NewApplicationUpdate(userID, jobTitle, status, s.now()))
}

func (s *Service) CleanupExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		s.logf("Notification cleanup error | error=%v", err)
		return 0, ErrInternal
	}
	if n > 0 {
		s.logf("Notification cleanup | deleted=%d", n)
	}
	return n, nil
}

package coaching

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"uphera/internal/domain/coach"
	"uphera/internal/domain/user"
	"uphera/internal/infrastructure/llm"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnavailable  = errors.New("coach unavailable")
	ErrUpstream     = errors.New("coach upstream error")
	ErrRateLimited  = errors.New("too many coach requests")
	ErrInternal     = errors.New("internal error")

	ErrProfileNotFound = errors.New("profile not found")
)

const (
	maxMessageLength    = 2000
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 50
)

type Generator interface {
	Generate(ctx context.Context, systemPrompt, message string, opts llm.Options) (string, error)
}

// ProfileReader is the slice of user.Repository that Insights reads.
type ProfileReader interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (user.Profile, error)
}

type ChatInput struct {
	Message string
	Context string
	Mode    string
}

type Reply struct {
	Response  string
	Context   string
	CreatedAt time.Time
}

type Insights struct {
	UserID      uuid.UUID
	Text        string
	Categories  []string
	GeneratedAt time.Time
}

type Usecase interface {
	Chat(ctx context.Context, userID uuid.UUID, in ChatInput) (Reply, error)
	History(ctx context.Context, userID uuid.UUID, limit int) ([]coach.HistoryEntry, error)
	Insights(ctx context.Context, userID uuid.UUID) (Insights, error)
}

type Service struct {
	generator Generator
	history   coach.HistoryRepository
	profiles  ProfileReader
	logger    *log.Logger
	limiter   *userLimiter
	now       func() time.Time
}

// NewService accepts a nil generator; Chat then reports ErrUnavailable.
func NewService(generator Generator, history coach.HistoryRepository, logger *log.Logger) *Service {
	return &Service{generator: generator, history: history, logger: logger, now: time.Now}
}

// WithProfiles enables Insights; without it Insights reports ErrUnavailable.
func (s *Service) WithProfiles(profiles ProfileReader) *Service {
	s.profiles = profiles
	return s
}

// WithRateLimit caps Chat and Insights calls per user; perMinute <= 0 removes the cap.
func (s *Service) WithRateLimit(perMinute int) *Service {
	if perMinute <= 0 {
		s.limiter = nil
		return s
	}
	s.limiter = newUserLimiter(perMinute)
	return s
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

func (s *Service) Chat(ctx context.Context, userID uuid.UUID, in ChatInput) (Reply, error) {
	msg := strings.TrimSpace(in.Message)
	if msg == "" || utf8.RuneCountInString(msg) > maxMessageLength {
		return Reply{}, ErrInvalidInput
	}
	if s.generator == nil {
		return Reply{}, ErrUnavailable
	}
	if s.limiter != nil && !s.limiter.allow(userID, s.now()) {
		return Reply{}, ErrRateLimited
	}

	topic := NormalizeContext(in.Context)
	mode := NormalizeMode(in.Mode)
	text, err := s.generator.Generate(ctx, SystemPrompt(topic, mode), msg, GenerationOptions(mode))
	if errors.Is(err, llm.ErrNotConfigured) {
		return Reply{}, ErrUnavailable
	}
	if err != nil {
		s.logf("Coach generate error | user_id=%s context=%s mode=%s error=%v", userID, topic, mode, err)
		return Reply{}, ErrUpstream
	}

	now := s.now().UTC()
	if s.history != nil {
		entry := coach.HistoryEntry{
			ID:        uuid.New(),
			UserID:    userID,
			Message:   msg,
			Response:  text,
			Context:   topic,
			CreatedAt: now,
		}
		if err := s.history.Save(ctx, entry); err != nil {
			s.logf("Coach history save error | user_id=%s error=%v", userID, err)
		}
	}

	return Reply{Response: text, Context: topic, CreatedAt: now}, nil
}

// Insights asks the model for a sectioned career report built from the
// caller's profile. Nothing is written to chat history.
func (s *Service) Insights(ctx context.Context, userID uuid.UUID) (Insights, error) {
	if s.generator == nil || s.profiles == nil {
		return Insights{}, ErrUnavailable
	}
	if s.limiter != nil && !s.limiter.allow(userID, s.now()) {
		return Insights{}, ErrRateLimited
	}

	p, err := s.profiles.GetProfile(ctx, userID)
	if errors.Is(err, user.ErrNotFound) {
		return Insights{}, ErrProfileNotFound
	}
	if err != nil {
		s.logf("Coach insights profile error | user_id=%s error=%v", userID, err)
		return Insights{}, ErrInternal
	}

	opts := llm.Options{MaxOutputTokens: insightsMaxTokens}
	text, err := s.generator.Generate(ctx, SystemPrompt("career", ModeLong), insightsPrompt(p), opts)
	if errors.Is(err, llm.ErrNotConfigured) {
		return Insights{}, ErrUnavailable
	}
	if err != nil {
		s.logf("Coach insights generate error | user_id=%s error=%v", userID, err)
		return Insights{}, ErrUpstream
	}

	return Insights{
		UserID:      userID,
		Text:        text,
		Categories:  append([]string(nil), InsightCategories...),
		GeneratedAt: s.now().UTC(),
	}, nil
}

func (s *Service) History(ctx context.Context, userID uuid.UUID, limit int) ([]coach.HistoryEntry, error) {
	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	if limit < 1 || limit > MaxHistoryLimit {
		return nil, ErrInvalidInput
	}
	if s.history == nil {
		return []coach.HistoryEntry{}, nil
	}
	items, err := s.history.ListByUser(ctx, userID, limit)
	if err != nil {
		s.logf("Coach history list error | user_id=%s error=%v", userID, err)
		return nil, ErrInternal
	}
	if items == nil {
		items = []coach.HistoryEntry{}
	}
	return items, nil
}

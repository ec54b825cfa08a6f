package coaching

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"uphera/internal/domain/coach"
	"uphera/internal/domain/user"
	"uphera/internal/infrastructure/llm"

	"github.com/google/uuid"
)

type fakeGenerator struct {
	reply      string
	err        error
	lastPrompt string
	lastMsg    string
	lastOpts   llm.Options
}

func (f *fakeGenerator) Generate(_ context.Context, systemPrompt, message string, opts llm.Options) (string, error) {
	f.lastPrompt = systemPrompt
	f.lastMsg = message
	f.lastOpts = opts
	return f.reply, f.err
}

type memHistory struct {
	entries []coach.HistoryEntry
	saveErr error
}

func (m *memHistory) Save(_ context.Context, e coach.HistoryEntry) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *memHistory) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]coach.HistoryEntry, error) {
	var out []coach.HistoryEntry
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if m.entries[i].UserID == userID {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

func TestChat_UsesContextPromptAndSavesHistory(t *testing.T) {
	gen := &fakeGenerator{reply: "Practise the STAR method."}
	hist := &memHistory{}
	svc := NewService(gen, hist, nil)
	uid := uuid.New()

	r, err := svc.Chat(context.Background(), uid, ChatInput{Message: "  How do I prepare?  ", Context: "Interview", Mode: ModeShort})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if r.Response != gen.reply || r.Context != "interview" {
		t.Fatalf("unexpected reply: %+v", r)
	}
	if gen.lastMsg != "How do I prepare?" {
		t.Fatalf("message must be trimmed, got %q", gen.lastMsg)
	}
	if !strings.Contains(gen.lastPrompt, "interview preparation") || !strings.Contains(gen.lastPrompt, "short") {
		t.Fatalf("prompt misses context or mode: %q", gen.lastPrompt)
	}
	if len(hist.entries) != 1 || hist.entries[0].Context != "interview" || hist.entries[0].Response != gen.reply {
		t.Fatalf("unexpected history: %+v", hist.entries)
	}
}

func TestSystemPrompt_UnknownContextFallsBack(t *testing.T) {
	if NormalizeContext("astrology") != "general" || NormalizeContext("") != "general" {
		t.Fatalf("unknown contexts must normalise to general")
	}
	if SystemPrompt("astrology", "") != basePrompt {
		t.Fatalf("unknown context must use the base prompt only")
	}
	for c := range contextPrompts {
		if !strings.HasPrefix(SystemPrompt(c, ModeAuto), basePrompt) || SystemPrompt(c, ModeAuto) == basePrompt {
			t.Fatalf("context %q must extend the base prompt", c)
		}
	}
}

func TestModes(t *testing.T) {
	cases := []struct {
		mode     string
		want     string
		opts     llm.Options
		promptOn string
	}{
		{"", ModeAuto, llm.Options{}, ""},
		{"auto", ModeAuto, llm.Options{}, ""},
		{" SHORT ", ModeShort, llm.Options{MaxOutputTokens: 128, MinTemperature: 0.5, MaxTemperature: 0.7}, "short and clear"},
		{"long", ModeLong, llm.Options{MaxOutputTokens: 512, MinTemperature: 0.7, MaxTemperature: 0.9}, "thorough answer"},
		{"detailed", ModeLong, llm.Options{MaxOutputTokens: 512, MinTemperature: 0.7, MaxTemperature: 0.9}, "thorough answer"},
		{"verbose", ModeAuto, llm.Options{}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.mode, func(t *testing.T) {
			if got := NormalizeMode(tc.mode); got != tc.want {
				t.Fatalf("NormalizeMode(%q) = %q, want %q", tc.mode, got, tc.want)
			}
			if got := GenerationOptions(tc.mode); got != tc.opts {
				t.Fatalf("GenerationOptions(%q) = %+v, want %+v", tc.mode, got, tc.opts)
			}
			p := SystemPrompt("general", tc.mode)
			if tc.promptOn == "" && p != basePrompt {
				t.Fatalf("auto mode must not extend the prompt: %q", p)
			}
			if tc.promptOn != "" && !strings.Contains(p, tc.promptOn) {
				t.Fatalf("mode %q prompt misses %q", tc.mode, tc.promptOn)
			}
		})
	}

	if SystemPrompt("general", ModeLong) == SystemPrompt("general", ModeAuto) {
		t.Fatalf("long and auto prompts must differ")
	}
}

func TestChat_PassesModeOptions(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	svc := NewService(gen, nil, nil)
	ctx := context.Background()

	if _, err := svc.Chat(ctx, uuid.New(), ChatInput{Message: "hi", Mode: "long"}); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if gen.lastOpts.MaxOutputTokens != 512 || gen.lastOpts.MinTemperature != 0.7 {
		t.Fatalf("long mode options not passed: %+v", gen.lastOpts)
	}

	if _, err := svc.Chat(ctx, uuid.New(), ChatInput{Message: "hi", Mode: "short"}); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if gen.lastOpts.MaxOutputTokens != 128 || gen.lastOpts.MaxTemperature != 0.7 {
		t.Fatalf("short mode options not passed: %+v", gen.lastOpts)
	}

	if _, err := svc.Chat(ctx, uuid.New(), ChatInput{Message: "hi"}); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if gen.lastOpts != (llm.Options{}) {
		t.Fatalf("auto mode must keep model defaults: %+v", gen.lastOpts)
	}
}

type memProfiles map[uuid.UUID]user.Profile

func (m memProfiles) GetProfile(_ context.Context, id uuid.UUID) (user.Profile, error) {
	p, ok := m[id]
	if !ok {
		return user.Profile{}, user.ErrNotFound
	}
	return p, nil
}

func TestInsights(t *testing.T) {
	ctx := context.Background()
	uid := uuid.New()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	profiles := memProfiles{uid: {
		UserID:          uid,
		FullName:        "Ada Lovelace",
		Skills:          []string{"Go", "PostgreSQL"},
		ExperienceLevel: "junior",
		Program:         "Backend Bootcamp",
	}}
	gen := &fakeGenerator{reply: "1. Career Trajectory ..."}
	hist := &memHistory{}
	svc := NewService(gen, hist, nil).WithProfiles(profiles)
	svc.now = func() time.Time { return now }

	out, err := svc.Insights(ctx, uid)
	if err != nil {
		t.Fatalf("insights: %v", err)
	}
	if out.UserID != uid || out.Text != gen.reply || !out.GeneratedAt.Equal(now) {
		t.Fatalf("unexpected insights: %+v", out)
	}
	if len(out.Categories) != len(InsightCategories) || out.Categories[9] != "Actionable Steps" {
		t.Fatalf("unexpected categories: %v", out.Categories)
	}
	for _, want := range []string{"Ada Lovelace", "Go, PostgreSQL", "junior", "Location: not provided", "10. Actionable Steps"} {
		if !strings.Contains(gen.lastMsg, want) {
			t.Fatalf("prompt misses %q:\n%s", want, gen.lastMsg)
		}
	}
	if gen.lastOpts.MaxOutputTokens != insightsMaxTokens {
		t.Fatalf("insights must raise the token cap: %+v", gen.lastOpts)
	}
	if len(hist.entries) != 0 {
		t.Fatalf("insights must not be written to chat history")
	}

	if _, err := svc.Insights(ctx, uuid.New()); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
	if _, err := NewService(gen, nil, nil).Insights(ctx, uid); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("no profile reader: expected ErrUnavailable, got %v", err)
	}
	if _, err := NewService(nil, nil, nil).WithProfiles(profiles).Insights(ctx, uid); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("nil generator: expected ErrUnavailable, got %v", err)
	}
	failing := NewService(&fakeGenerator{err: errors.New("500")}, nil, nil).WithProfiles(profiles)
	if _, err := failing.Insights(ctx, uid); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestChat_Errors(t *testing.T) {
	ctx := context.Background()
	uid := uuid.New()

	if _, err := NewService(nil, nil, nil).Chat(ctx, uid, ChatInput{Message: "hi"}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("nil generator: expected ErrUnavailable, got %v", err)
	}
	if _, err := NewService(&fakeGenerator{err: llm.ErrNotConfigured}, nil, nil).Chat(ctx, uid, ChatInput{Message: "hi"}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("unconfigured client: expected ErrUnavailable, got %v", err)
	}
	if _, err := NewService(&fakeGenerator{err: errors.New("429")}, nil, nil).Chat(ctx, uid, ChatInput{Message: "hi"}); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}

	svc := NewService(&fakeGenerator{reply: "ok"}, nil, nil)
	for _, msg := range []string{"", "   ", strings.Repeat("x", maxMessageLength+1)} {
		if _, err := svc.Chat(ctx, uid, ChatInput{Message: msg}); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Chat(len=%d) expected ErrInvalidInput, got %v", len(msg), err)
		}
	}
}

func TestChat_HistoryFailureDoesNotFailReply(t *testing.T) {
	svc := NewService(&fakeGenerator{reply: "ok"}, &memHistory{saveErr: errors.New("db down")}, nil)
	if _, err := svc.Chat(context.Background(), uuid.New(), ChatInput{Message: "hi"}); err != nil {
		t.Fatalf("history failure must not fail chat: %v", err)
	}
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	hist := &memHistory{}
	svc := NewService(&fakeGenerator{reply: "ok"}, hist, nil)
	uid := uuid.New()
	for i := 0; i < 12; i++ {
		if _, err := svc.Chat(ctx, uid, ChatInput{Message: "hi"}); err != nil {
			t.Fatalf("chat: %v", err)
		}
	}

	items, err := svc.History(ctx, uid, 0)
	if err != nil || len(items) != DefaultHistoryLimit {
		t.Fatalf("default limit: %d %v", len(items), err)
	}
	if _, err := svc.History(ctx, uid, MaxHistoryLimit+1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	other, err := svc.History(ctx, uuid.New(), 5)
	if err != nil || other == nil || len(other) != 0 {
		t.Fatalf("expected empty history for a new user, got %#v %v", other, err)
	}
}

func TestChat_RateLimitedPerUser(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc := NewService(&fakeGenerator{reply: "ok"}, nil, nil).WithRateLimit(2)
	svc.now = func() time.Time { return now }
	ctx := context.Background()
	ada, bob := uuid.New(), uuid.New()

	for i := 0; i < 2; i++ {
		if _, err := svc.Chat(ctx, ada, ChatInput{Message: "hi"}); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if _, err := svc.Chat(ctx, ada, ChatInput{Message: "hi"}); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if _, err := svc.Chat(ctx, bob, ChatInput{Message: "hi"}); err != nil {
		t.Fatalf("other users keep their own budget: %v", err)
	}

	now = now.Add(31 * time.Second)
	if _, err := svc.Chat(ctx, ada, ChatInput{Message: "hi"}); err != nil {
		t.Fatalf("budget must refill over time: %v", err)
	}
}

package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"uphera/internal/domain/job"
	"uphera/internal/infrastructure/cache"

	"github.com/google/uuid"
)

type mockJobRepo struct {
	items     []job.Job
	listErr   error
	createErr error

	lastFilter job.ListFilter
	listCalls  int
	created    []job.Job
}

func (m *mockJobRepo) List(_ context.Context, f job.ListFilter) ([]job.Job, int, error) {
	m.listCalls++
	m.lastFilter = f
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.items, len(m.items), nil
}

func (m *mockJobRepo) GetByID(_ context.Context, id uuid.UUID) (job.Job, error) {
	for _, j := range m.items {
		if j.ID == id {
			return j, nil
		}
	}
	return job.Job{}, job.ErrNotFound
}

func (m *mockJobRepo) Create(_ context.Context, j job.Job) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, j)
	return nil
}

func (m *mockJobRepo) ListActive(context.Context, int) ([]job.Job, error) { return m.items, nil }

type memCache struct {
	mu          sync.Mutex
	data        map[string][]byte
	locks       map[string]bool
	invalidated int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, locks: map[string]bool{}}
}

func (c *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = b
	c.mu.Unlock()
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.data, key)
	delete(c.locks, key)
	c.mu.Unlock()
	return nil
}

func (c *memCache) SetIfNotExists(_ context.Context, key, _ string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locks[key] {
		return false, nil
	}
	c.locks[key] = true
	return true, nil
}

func (c *memCache) InvalidateJobs(context.Context) error {
	c.mu.Lock()
	c.data = map[string][]byte{}
	c.invalidated++
	c.mu.Unlock()
	return nil
}

type recordingBroadcaster struct {
	payloads []any
	err      error
}

func (b *recordingBroadcaster) SendJobUpdate(_ context.Context, v any) error {
	b.payloads = append(b.payloads, v)
	return b.err
}

func sampleJobs(now time.Time) []job.Job {
	return []job.Job{
		{ID: uuid.New(), Title: "Marketing Lead", Company: "Acme", CreatedAt: now.Add(-20 * 24 * time.Hour)},
		{ID: uuid.New(), Title: "Backend Engineer", Company: "Initech", Description: "Go and PostgreSQL", CreatedAt: now.Add(-24 * time.Hour)},
	}
}

func TestList_InvalidParams(t *testing.T) {
	svc := NewService(&mockJobRepo{}, nil, nil, nil)
	cases := []ListParams{
		{Limit: -1},
		{Limit: MaxLimit + 1},
		{Limit: 10, Offset: -5},
		{ExperienceLevel: "wizard"},
	}
	for _, p := range cases {
		if _, err := svc.List(context.Background(), p); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("List(%+v) expected ErrInvalidInput, got %v", p, err)
		}
	}
}

func TestList_DefaultsAndSearchRanking(t *testing.T) {
	now := time.Now()
	repo := &mockJobRepo{items: sampleJobs(now)}
	svc := NewService(repo, nil, nil, nil)

	res, err := svc.List(context.Background(), ListParams{Search: "backend"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Limit != DefaultLimit || res.Total != 2 {
		t.Fatalf("unexpected paging: %+v", res)
	}
	if len(repo.lastFilter.SearchTerms) == 0 || repo.lastFilter.SearchTerms[0] != "backend" {
		t.Fatalf("search terms not forwarded: %v", repo.lastFilter.SearchTerms)
	}
	if res.Jobs[0].Title != "Backend Engineer" {
		t.Fatalf("expected relevant job first, got %q", res.Jobs[0].Title)
	}
}

func TestList_RepoError(t *testing.T) {
	svc := NewService(&mockJobRepo{listErr: errors.New("db down")}, nil, nil, nil)
	if _, err := svc.List(context.Background(), ListParams{}); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestList_CacheHitSkipsRepository(t *testing.T) {
	repo := &mockJobRepo{items: sampleJobs(time.Now())}
	c := newMemCache()
	svc := NewService(repo, c, nil, nil)
	ctx := context.Background()

	first, err := svc.List(ctx, ListParams{Location: "Jakarta"})
	if err != nil {
		t.Fatalf("first list: %v", err)
	}
	second, err := svc.List(ctx, ListParams{Location: "  JAKARTA "})
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected one repository call, got %d", repo.listCalls)
	}
	if len(second.Jobs) != len(first.Jobs) || second.Jobs[0].ID != first.Jobs[0].ID {
		t.Fatalf("cached result differs: %+v vs %+v", second, first)
	}
	if len(c.locks) != 0 {
		t.Fatalf("lock must be released, still held: %v", c.locks)
	}
}

func TestList_LockHeldFallsBackToRepository(t *testing.T) {
	repo := &mockJobRepo{items: sampleJobs(time.Now())}
	c := newMemCache()
	svc := NewService(repo, c, nil, nil)
	svc.lockWait = time.Millisecond

	p := ListParams{JobType: "full-time"}
	c.locks[ListLockKey(ListCacheKey(p))] = true

	res, err := svc.List(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.listCalls != 1 || len(res.Jobs) != 2 {
		t.Fatalf("expected repository fallback, calls=%d jobs=%d", repo.listCalls, len(res.Jobs))
	}
}

func TestList_RepoErrorReleasesLock(t *testing.T) {
	c := newMemCache()
	svc := NewService(&mockJobRepo{listErr: errors.New("db down")}, c, nil, nil)

	if _, err := svc.List(context.Background(), ListParams{Search: "go"}); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
	if len(c.locks) != 0 {
		t.Fatalf("lock must be released after a failed query, still held: %v", c.locks)
	}
}

func TestList_UnavailableCacheDoesNotWait(t *testing.T) {
	repo := &mockJobRepo{items: sampleJobs(time.Now())}
	svc := NewService(repo, cache.NewWithClient(nil, 0, nil), nil, nil)
	svc.lockWait = 2 * time.Second

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := svc.List(context.Background(), ListParams{}); err != nil {
			t.Fatalf("list %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("bypassed cache must not wait on the lock, took %s", elapsed)
	}
	if repo.listCalls != 3 {
		t.Fatalf("expected every call to reach the repository, got %d", repo.listCalls)
	}
}

func TestListCacheKey(t *testing.T) {
	a := ListCacheKey(ListParams{Search: "Go  Developer", Limit: 20})
	b := ListCacheKey(ListParams{Search: "go developer", Limit: 20})
	c := ListCacheKey(ListParams{Search: "go developer", Limit: 20, Offset: 20})
	if a != b {
		t.Fatalf("equivalent params must share a key")
	}
	if a == c {
		t.Fatalf("different pages must not share a key")
	}
	if !strings.HasPrefix(a, "jobs:list:") || !strings.HasPrefix(ListLockKey(a), "jobs:lock:") {
		t.Fatalf("unexpected key layout: %s %s", a, ListLockKey(a))
	}
}

func TestGet(t *testing.T) {
	jobs := sampleJobs(time.Now())
	svc := NewService(&mockJobRepo{items: jobs}, nil, nil, nil)
	got, err := svc.Get(context.Background(), jobs[1].ID)
	if err != nil || got.ID != jobs[1].ID {
		t.Fatalf("unexpected get: %+v %v", got, err)
	}
	if _, err := svc.Get(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreate_BroadcastsAndInvalidates(t *testing.T) {
	repo := &mockJobRepo{}
	c := newMemCache()
	b := &recordingBroadcaster{err: errors.New("nobody online")}
	svc := NewService(repo, c, b, nil)
	poster := uuid.New()

	j, err := svc.Create(context.Background(), CreateInput{
		Title:           " Data Analyst ",
		Company:         "Acme",
		ExperienceLevel: "Junior",
		RequiredSkills:  []string{"SQL", " ", "Python"},
		PostedBy:        poster,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if j.Title != "Data Analyst" || j.ExperienceLevel != "junior" || !j.IsActive {
		t.Fatalf("unexpected job: %+v", j)
	}
	if len(j.RequiredSkills) != 2 || j.PostedBy == nil || *j.PostedBy != poster {
		t.Fatalf("unexpected skills or poster: %+v", j)
	}
	if len(repo.created) != 1 || c.invalidated != 1 {
		t.Fatalf("expected persist and invalidate, created=%d invalidated=%d", len(repo.created), c.invalidated)
	}
	if len(b.payloads) != 1 {
		t.Fatalf("expected one broadcast, got %d", len(b.payloads))
	}
	sum, ok := b.payloads[0].(Summary)
	if !ok || sum.ID != j.ID {
		t.Fatalf("unexpected payload: %#v", b.payloads[0])
	}
}

func TestCreate_Invalid(t *testing.T) {
	svc := NewService(&mockJobRepo{}, nil, nil, nil)
	cases := []CreateInput{
		{Company: "Acme"},
		{Title: "Engineer"},
		{Title: "Engineer", Company: "Acme", ExperienceLevel: "guru"},
	}
	for _, in := range cases {
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Create(%+v) expected ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestCreate_RepoError(t *testing.T) {
	b := &recordingBroadcaster{}
	svc := NewService(&mockJobRepo{createErr: errors.New("db down")}, nil, b, nil)
	if _, err := svc.Create(context.Background(), CreateInput{Title: "x", Company: "y"}); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
	if len(b.payloads) != 0 {
		t.Fatalf("failed create must not broadcast")
	}
}

func TestNormalizeDescription(t *testing.T) {
	if got := normalizeDescription("  Plain text with 3 < 5  "); got != "Plain text with 3 < 5" {
		t.Fatalf("plain text must only be trimmed, got %q", got)
	}

	got := normalizeDescription("<p>Build <strong>APIs</strong> in Go</p><ul><li>PostgreSQL</li></ul>")
	if strings.Contains(got, "<p>") || strings.Contains(got, "<li>") {
		t.Fatalf("html tags must be converted, got %q", got)
	}
	if !strings.Contains(got, "**APIs**") || !strings.Contains(got, "PostgreSQL") {
		t.Fatalf("content lost in conversion: %q", got)
	}
}

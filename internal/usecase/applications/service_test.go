package applications

import (
	"context"
	"errors"
	"strings"
	"testing"

	"uphera/internal/domain/job"

	"github.com/google/uuid"
)

type stubJobs struct {
	items map[uuid.UUID]job.Job
	err   error
}

func (s *stubJobs) List(context.Context, job.ListFilter) ([]job.Job, int, error) { return nil, 0, nil }
func (s *stubJobs) GetByID(_ context.Context, id uuid.UUID) (job.Job, error) {
	if s.err != nil {
		return job.Job{}, s.err
	}
	j, ok := s.items[id]
	if !ok {
		return job.Job{}, job.ErrNotFound
	}
	return j, nil
}
func (s *stubJobs) Create(context.Context, job.Job) error                { return nil }
func (s *stubJobs) ListActive(context.Context, int) ([]job.Job, error) { return nil, nil }

type memApplications struct {
	items []job.Application
}

func (m *memApplications) Create(_ context.Context, a job.Application) error {
	for _, x := range m.items {
		if x.UserID == a.UserID && x.JobID == a.JobID {
			return job.ErrAlreadyApplied
		}
	}
	m.items = append(m.items, a)
	return nil
}

func (m *memApplications) ListByUser(_ context.Context, userID uuid.UUID) ([]job.Application, error) {
	var out []job.Application
	for _, a := range m.items {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

type memBookmarks struct {
	set map[[2]uuid.UUID]bool
}

func (m *memBookmarks) Toggle(_ context.Context, userID, jobID uuid.UUID) (bool, error) {
	k := [2]uuid.UUID{userID, jobID}
	if m.set[k] {
		delete(m.set, k)
		return false, nil
	}
	m.set[k] = true
	return true, nil
}

func (m *memBookmarks) ListByUser(_ context.Context, userID uuid.UUID) ([]job.Bookmark, error) {
	var out []job.Bookmark
	for k := range m.set {
		if k[0] == userID {
			out = append(out, job.Bookmark{UserID: k[0], JobID: k[1]})
		}
	}
	return out, nil
}

type recordingNotifier struct {
	titles []string
}

func (r *recordingNotifier) NotifyApplicationUpdate(_ context.Context, _ uuid.UUID, title, status string) error {
	r.titles = append(r.titles, title+":"+status)
	return nil
}

type fixture struct {
	svc      *Service
	active   job.Job
	closed   job.Job
	notifier *recordingNotifier
}

func newFixture() fixture {
	active := job.Job{ID: uuid.New(), Title: "Data Analyst", IsActive: true}
	closed := job.Job{ID: uuid.New(), Title: "Old Role", IsActive: false}
	jobs := &stubJobs{items: map[uuid.UUID]job.Job{active.ID: active, closed.ID: closed}}
	n := &recordingNotifier{}
	svc := NewService(jobs, &memApplications{}, &memBookmarks{set: map[[2]uuid.UUID]bool{}}, n, nil)
	return fixture{svc: svc, active: active, closed: closed, notifier: n}
}

func TestApply(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	uid := uuid.New()

	a, err := f.svc.Apply(ctx, uid, f.active.ID, ApplyInput{CoverLetter: "  hello  "})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if a.Status != job.ApplicationPending || a.CoverLetter != "hello" || a.Job == nil || a.Job.ID != f.active.ID {
		t.Fatalf("unexpected application: %+v", a)
	}
	if len(f.notifier.titles) != 1 || f.notifier.titles[0] != "Data Analyst:pending" {
		t.Fatalf("expected an application notification, got %v", f.notifier.titles)
	}

	if _, err := f.svc.Apply(ctx, uid, f.active.ID, ApplyInput{}); !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
	if len(f.notifier.titles) != 1 {
		t.Fatalf("duplicate apply must not notify")
	}

	list, err := f.svc.ListApplications(ctx, uid)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %d %v", len(list), err)
	}
}

func TestApply_Errors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	uid := uuid.New()

	if _, err := f.svc.Apply(ctx, uid, uuid.New(), ApplyInput{}); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("unknown job: expected ErrJobNotFound, got %v", err)
	}
	if _, err := f.svc.Apply(ctx, uid, f.closed.ID, ApplyInput{}); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("inactive job: expected ErrJobNotFound, got %v", err)
	}
	long := strings.Repeat("a", maxCoverLetter+1)
	if _, err := f.svc.Apply(ctx, uid, f.active.ID, ApplyInput{CoverLetter: long}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	broken := NewService(&stubJobs{err: errors.New("db down")}, &memApplications{}, nil, nil, nil)
	if _, err := broken.Apply(ctx, uid, uuid.New(), ApplyInput{}); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestToggleBookmark(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	uid := uuid.New()

	on, err := f.svc.ToggleBookmark(ctx, uid, f.active.ID)
	if err != nil || !on {
		t.Fatalf("first toggle: %v %v", on, err)
	}
	list, _ := f.svc.ListBookmarks(ctx, uid)
	if len(list) != 1 {
		t.Fatalf("expected one bookmark, got %d", len(list))
	}

	on, err = f.svc.ToggleBookmark(ctx, uid, f.active.ID)
	if err != nil || on {
		t.Fatalf("second toggle: %v %v", on, err)
	}
	list, _ = f.svc.ListBookmarks(ctx, uid)
	if list == nil || len(list) != 0 {
		t.Fatalf("expected an empty non-nil list, got %#v", list)
	}

	if _, err := f.svc.ToggleBookmark(ctx, uid, uuid.New()); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	"uphera/internal/database"
	"uphera/internal/domain/job"

	"github.com/google/uuid"
)

type execCall struct {
	query string
	args  []any
}

// fakeDB records Exec calls and answers them from execResults in order.
type fakeDB struct {
	execResults []execResult
	calls       []execCall
	committed   bool
	rolledBack  bool
}

type execResult struct {
	n   int64
	err error
}

func (f *fakeDB) Ping(context.Context) error { return nil }
func (f *fakeDB) Close() error               { return nil }
func (f *fakeDB) SQLDB() *sql.DB             { return nil }

func (f *fakeDB) Exec(_ context.Context, query string, args ...any) (int64, error) {
	f.calls = append(f.calls, execCall{query: query, args: args})
	if len(f.execResults) == 0 {
		return 0, nil
	}
	r := f.execResults[0]
	f.execResults = f.execResults[1:]
	return r.n, r.err
}

func (f *fakeDB) Query(context.Context, string, ...any) (database.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) database.Row {
	return nil
}

func (f *fakeDB) Begin(context.Context) (database.Tx, error) { return fakeTx{f}, nil }

type fakeTx struct{ db *fakeDB }

func (t fakeTx) Exec(ctx context.Context, q string, args ...any) (int64, error) {
	return t.db.Exec(ctx, q, args...)
}
func (t fakeTx) Query(ctx context.Context, q string, args ...any) (database.Rows, error) {
	return t.db.Query(ctx, q, args...)
}
func (t fakeTx) QueryRow(ctx context.Context, q string, args ...any) database.Row {
	return t.db.QueryRow(ctx, q, args...)
}
func (t fakeTx) Commit(context.Context) error {
	t.db.committed = true
	return nil
}
func (t fakeTx) Rollback(context.Context) error {
	if !t.db.committed {
		t.db.rolledBack = true
	}
	return nil
}

func TestBuildJobWhere(t *testing.T) {
	where, args := buildJobWhere(job.ListFilter{
		Location:        " Istanbul ",
		JobType:         "full-time",
		ExperienceLevel: "mid",
		RemoteOnly:      true,
		SearchTerms:     []string{"frontend", "", "front end"},
	})

	for _, want := range []string{
		"j.is_active = true",
		"j.location ILIKE $1",
		"LOWER(j.job_type) = LOWER($2)",
		"LOWER(j.experience_level) = LOWER($3)",
		"j.remote_friendly = true",
		"j.title ILIKE $4",
		"j.description ILIKE $5",
	} {
		if !strings.Contains(where, want) {
			t.Fatalf("expected %q in %q", want, where)
		}
	}
	if len(args) != 5 {
		t.Fatalf("expected 5 args, got %d: %v", len(args), args)
	}
	if args[0] != "%Istanbul%" || args[4] != "%front end%" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestBuildJobWhere_EscapesLikeWildcards(t *testing.T) {
	where, args := buildJobWhere(job.ListFilter{
		Location:    "100%_remote",
		SearchTerms: []string{`c:\go`},
	})

	if !strings.Contains(where, `j.location ILIKE $1 ESCAPE '\'`) || !strings.Contains(where, `j.title ILIKE $2 ESCAPE '\'`) {
		t.Fatalf("missing ESCAPE clause in %q", where)
	}
	if args[0] != `%100\%\_remote%` {
		t.Fatalf("location not escaped: %v", args[0])
	}
	if args[1] != `%c:\\go%` {
		t.Fatalf("backslash not escaped: %v", args[1])
	}
}

func TestBuildJobWhere_Empty(t *testing.T) {
	where, args := buildJobWhere(job.ListFilter{})
	if where != "WHERE j.is_active = true" || len(args) != 0 {
		t.Fatalf("unexpected clause %q args=%v", where, args)
	}
}

func TestBookmarkToggle(t *testing.T) {
	ctx := context.Background()
	uid, jid := uuid.New(), uuid.New()

	// Nothing deleted, so the bookmark gets inserted.
	db := &fakeDB{execResults: []execResult{{n: 0}, {n: 1}}}
	on, err := NewPostgresBookmarkRepository(db).Toggle(ctx, uid, jid)
	if err != nil || !on {
		t.Fatalf("expected bookmarked, got %v %v", on, err)
	}
	if len(db.calls) != 2 || !db.committed {
		t.Fatalf("expected delete+insert committed, calls=%d committed=%v", len(db.calls), db.committed)
	}

	db = &fakeDB{execResults: []execResult{{n: 1}}}
	on, err = NewPostgresBookmarkRepository(db).Toggle(ctx, uid, jid)
	if err != nil || on {
		t.Fatalf("expected removed, got %v %v", on, err)
	}
	if len(db.calls) != 1 {
		t.Fatalf("expected single delete, got %d calls", len(db.calls))
	}

	db = &fakeDB{execResults: []execResult{{err: errors.New("boom")}}}
	if _, err := NewPostgresBookmarkRepository(db).Toggle(ctx, uid, jid); err == nil {
		t.Fatalf("expected error")
	}
	if db.committed || !db.rolledBack {
		t.Fatalf("expected rollback on failure")
	}
}

func TestApplicationCreate_Duplicate(t *testing.T) {
	dup := fmt.Errorf("%w: applications_user_job_key", database.ErrUniqueViolation)
	db := &fakeDB{execResults: []execResult{{err: dup}}}

	err := NewPostgresApplicationRepository(db).Create(context.Background(), job.Application{
		ID: uuid.New(), UserID: uuid.New(), JobID: uuid.New(), Status: job.ApplicationPending,
	})
	if !errors.Is(err, job.ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
}

package job

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("job not found")
	ErrAlreadyApplied = errors.New("already applied")
)

type Repository interface {
	List(ctx context.Context, f ListFilter) ([]Job, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (Job, error)
	Create(ctx context.Context, j Job) error
	ListActive(ctx context.Context, limit int) ([]Job, error)
}

type ApplicationRepository interface {
	// Create returns ErrAlreadyApplied when (user, job) already exists.
	Create(ctx context.Context, a Application) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Application, error)
}

type BookmarkRepository interface {
	// Toggle returns the bookmark state after the call.
	Toggle(ctx context.Context, userID, jobID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Bookmark, error)
}

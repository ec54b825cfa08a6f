package coach

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type HistoryEntry struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Message   string
	Response  string
	Context   string
	CreatedAt time.Time
}

type HistoryRepository interface {
	Save(ctx context.Context, e HistoryEntry) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]HistoryEntry, error)
}

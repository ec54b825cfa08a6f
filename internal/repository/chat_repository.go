package repository

import (
	"context"
	"time"

	"uphera/internal/database"
	"uphera/internal/domain/coach"
	"uphera/internal/ws"

	"github.com/google/uuid"
)

// PostgresChatMessageRepository stores room chat sent over websocket.
type PostgresChatMessageRepository struct {
	db database.DB
}

func NewPostgresChatMessageRepository(db database.DB) *PostgresChatMessageRepository {
	return &PostgresChatMessageRepository{db: db}
}

func (r *PostgresChatMessageRepository) SaveChatMessage(ctx context.Context, msg ws.ChatMessageEvent) error {
	at, err := time.Parse(time.RFC3339, msg.Timestamp)
	if err != nil {
		at = time.Now().UTC()
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO chat_messages (id, room_id, user_id, content, created_at) VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO NOTHING`,
		msg.MessageID, string(msg.RoomID), string(msg.UserID), msg.Content, at,
	)
	return err
}

type PostgresCoachHistoryRepository struct {
	db database.DB
}

func NewPostgresCoachHistoryRepository(db database.DB) *PostgresCoachHistoryRepository {
	return &PostgresCoachHistoryRepository{db: db}
}

func (r *PostgresCoachHistoryRepository) Save(ctx context.Context, e coach.HistoryEntry) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO chat_history (id, user_id, message, response, context, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.UserID, e.Message, e.Response, e.Context, e.CreatedAt,
	)
	return err
}

func (r *PostgresCoachHistoryRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]coach.HistoryEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, message, response, context, created_at
		 FROM chat_history WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]coach.HistoryEntry, 0)
	for rows.Next() {
		var e coach.HistoryEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Message, &e.Response, &e.Context, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

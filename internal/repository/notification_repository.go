package repository

import (
	"context"
	"encoding/json"
	"time"

	"uphera/internal/database"
	"uphera/internal/domain/notification"

	"github.com/google/uuid"
)

type PostgresNotificationRepository struct {
	db database.DB
}

func NewPostgresNotificationRepository(db database.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, n notification.Notification) error {
	var data []byte
	if len(n.Data) > 0 {
		b, err := json.Marshal(n.Data)
		if err != nil {
			return err
		}
		data = b
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO notifications (id, user_id, type, title, message, data, priority, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		n.ID, n.UserID, string(n.Type), n.Title, n.Message, data, string(n.Priority), n.ExpiresAt, n.CreatedAt,
	)
	return err
}

func (r *PostgresNotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, f notification.ListFilter) ([]notification.Notification, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, type, title, message, data, priority, is_read, read_at, expires_at, created_at
		 FROM notifications
		 WHERE user_id = $1
		   AND ($2 = false OR is_read = false)
		   AND (expires_at IS NULL OR expires_at > now())
		 ORDER BY created_at DESC
		 LIMIT $3 OFFSET $4`,
		userID, f.UnreadOnly, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]notification.Notification, 0)
	for rows.Next() {
		var n notification.Notification
		var typ, prio string
		var data []byte
		if err := rows.Scan(&n.ID, &n.UserID, &typ, &n.Title, &n.Message, &data, &prio, &n.IsRead, &n.ReadAt, &n.ExpiresAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Type = notification.Type(typ)
		n.Priority = notification.Priority(prio)
		if len(data) > 0 {
			if err := json.Unmarshal(data, &n.Data); err != nil {
				return nil, err
			}
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID, at time.Time) error {
	n, err := r.db.Exec(ctx,
		`UPDATE notifications SET is_read = true, read_at = COALESCE(read_at, $3) WHERE id = $1 AND user_id = $2`,
		id, userID, at,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return notification.ErrNotFound
	}
	return nil
}

func (r *PostgresNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	return r.db.Exec(ctx,
		`UPDATE notifications SET is_read = true, read_at = $2 WHERE user_id = $1 AND is_read = false`,
		userID, at,
	)
}

func (r *PostgresNotificationRepository) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var c int
	row := r.db.QueryRow(ctx,
		`SELECT COUNT(1) FROM notifications
		 WHERE user_id = $1 AND is_read = false AND (expires_at IS NULL OR expires_at > now())`,
		userID,
	)
	if err := row.Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func (r *PostgresNotificationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.db.Exec(ctx, `DELETE FROM notifications WHERE expires_at IS NOT NULL AND expires_at < $1`, now)
}

package repository

import (
	"context"

	"uphera/internal/database"
	"uphera/internal/domain/job"

	"github.com/google/uuid"
)

type PostgresBookmarkRepository struct {
	db database.DB
}

func NewPostgresBookmarkRepository(db database.DB) *PostgresBookmarkRepository {
	return &PostgresBookmarkRepository{db: db}
}

func (r *PostgresBookmarkRepository) Toggle(ctx context.Context, userID, jobID uuid.UUID) (bool, error) {
	bookmarked := false
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		n, err := tx.Exec(ctx, `DELETE FROM bookmarks WHERE user_id = $1 AND job_id = $2`, userID, jobID)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO bookmarks (user_id, job_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			userID, jobID,
		); err != nil {
			return err
		}
		bookmarked = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return bookmarked, nil
}

func (r *PostgresBookmarkRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]job.Bookmark, error) {
	rows, err := r.db.Query(ctx,
		`SELECT b.user_id, b.job_id, b.created_at, `+jobColumns+`
		 FROM bookmarks b
		 JOIN jobs j ON j.id = b.job_id
		 WHERE b.user_id = $1
		 ORDER BY b.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Bookmark, 0)
	for rows.Next() {
		var b job.Bookmark
		j := &b.Job
		if err := rows.Scan(
			&b.UserID, &b.JobID, &b.CreatedAt,
			&j.ID, &j.Title, &j.Company, &j.Description, &j.Location, &j.JobType, &j.Salary,
			&j.ExperienceLevel, &j.RequiredSkills, &j.RemoteFriendly, &j.IsActive, &j.PostedBy, &j.CreatedAt, &j.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

package repository

import (
	"context"
	"errors"

	"uphera/internal/database"
	"uphera/internal/domain/job"

	"github.com/google/uuid"
)

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

func (r *PostgresApplicationRepository) Create(ctx context.Context, a job.Application) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO applications (id, user_id, job_id, cover_letter, resume_content, status)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.UserID, a.JobID, a.CoverLetter, a.ResumeContent, string(a.Status),
	)
	if errors.Is(err, database.ErrUniqueViolation) {
		return job.ErrAlreadyApplied
	}
	return err
}

func (r *PostgresApplicationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]job.Application, error) {
	rows, err := r.db.Query(ctx,
		`SELECT a.id, a.user_id, a.job_id, a.cover_letter, a.resume_content, a.status, a.created_at, a.updated_at, `+jobColumns+`
		 FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 WHERE a.user_id = $1
		 ORDER BY a.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Application, 0)
	for rows.Next() {
		var a job.Application
		var status string
		var j job.Job
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.JobID, &a.CoverLetter, &a.ResumeContent, &status, &a.CreatedAt, &a.UpdatedAt,
			&j.ID, &j.Title, &j.Company, &j.Description, &j.Location, &j.JobType, &j.Salary,
			&j.ExperienceLevel, &j.RequiredSkills, &j.RemoteFriendly, &j.IsActive, &j.PostedBy, &j.CreatedAt, &j.UpdatedAt,
		); err != nil {
			return nil, err
		}
		a.Status = job.ApplicationStatus(status)
		a.Job = &j
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

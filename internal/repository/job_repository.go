package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"uphera/internal/database"
	"uphera/internal/domain/job"

	"github.com/google/uuid"
)

const jobColumns = `j.id, j.title, j.company, j.description, j.location, j.job_type, j.salary,
	j.experience_level, j.required_skills, j.remote_friendly, j.is_active, j.posted_by, j.created_at, j.updated_at`

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns user text into a literal substring ILIKE pattern.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// buildJobWhere renders the listing filter as a WHERE clause over alias j.
func buildJobWhere(f job.ListFilter) (string, []any) {
	conds := []string{"j.is_active = true"}
	args := make([]any, 0, 6)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if loc := strings.TrimSpace(f.Location); loc != "" {
		conds = append(conds, "j.location ILIKE "+next(containsPattern(loc))+` ESCAPE '\'`)
	}
	if jt := strings.TrimSpace(f.JobType); jt != "" {
		conds = append(conds, "LOWER(j.job_type) = LOWER("+next(jt)+")")
	}
	if lvl := strings.TrimSpace(f.ExperienceLevel); lvl != "" {
		conds = append(conds, "LOWER(j.experience_level) = LOWER("+next(lvl)+")")
	}
	if f.RemoteOnly {
		conds = append(conds, "j.remote_friendly = true")
	}

	terms := make([]string, 0, len(f.SearchTerms))
	for _, t := range f.SearchTerms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		p := next(containsPattern(t))
		terms = append(terms, fmt.Sprintf(`(j.title ILIKE %[1]s ESCAPE '\' OR j.company ILIKE %[1]s ESCAPE '\' OR j.description ILIKE %[1]s ESCAPE '\')`, p))
	}
	if len(terms) > 0 {
		conds = append(conds, "("+strings.Join(terms, " OR ")+")")
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}

func (r *PostgresJobRepository) List(ctx context.Context, f job.ListFilter) ([]job.Job, int, error) {
	where, args := buildJobWhere(f)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM jobs j `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	n := len(args)
	q := fmt.Sprintf(`SELECT %s FROM jobs j %s ORDER BY j.created_at DESC, j.id ASC LIMIT $%d OFFSET $%d`,
		jobColumns, where, n+1, n+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := collectJobs(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	row := r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs j WHERE j.id = $1`, id)
	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, err
	}
	return j, nil
}

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) error {
	skills := j.RequiredSkills
	if skills == nil {
		skills = []string{}
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO jobs (id, title, company, description, location, job_type, salary,
			experience_level, required_skills, remote_friendly, is_active, posted_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		j.ID, j.Title, j.Company, j.Description, j.Location, j.JobType, j.Salary,
		j.ExperienceLevel, skills, j.RemoteFriendly, j.IsActive, j.PostedBy,
	)
	return err
}

func (r *PostgresJobRepository) ListActive(ctx context.Context, limit int) ([]job.Job, error) {
	if limit <= 0 {
		limit = 500
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs j WHERE j.is_active = true ORDER BY j.created_at DESC, j.id ASC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectJobs(rows)
}

func collectJobs(rows database.Rows) ([]job.Job, error) {
	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanJob(row database.Row) (job.Job, error) {
	var j job.Job
	err := row.Scan(
		&j.ID, &j.Title, &j.Company, &j.Description, &j.Location, &j.JobType, &j.Salary,
		&j.ExperienceLevel, &j.RequiredSkills, &j.RemoteFriendly, &j.IsActive, &j.PostedBy, &j.CreatedAt, &j.UpdatedAt,
	)
	return j, err
}

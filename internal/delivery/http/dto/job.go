package dto

import (
	"time"

	"uphera/internal/domain/job"
	"uphera/internal/domain/matching"

	"github.com/google/uuid"
)

type JobResponse struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Company         string     `json:"company"`
	Description     string     `json:"description"`
	Location        string     `json:"location"`
	JobType         string     `json:"job_type"`
	Salary          string     `json:"salary"`
	ExperienceLevel string     `json:"experience_level"`
	RequiredSkills  []string   `json:"required_skills"`
	RemoteFriendly  bool       `json:"remote_friendly"`
	PostedBy        *uuid.UUID `json:"posted_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func NewJobResponse(j job.Job) JobResponse {
	skills := j.RequiredSkills
	if skills == nil {
		skills = []string{}
	}
	return JobResponse{
		ID:              j.ID,
		Title:           j.Title,
		Company:         j.Company,
		Description:     j.Description,
		Location:        j.Location,
		JobType:         j.JobType,
		Salary:          j.Salary,
		ExperienceLevel: j.ExperienceLevel,
		RequiredSkills:  skills,
		RemoteFriendly:  j.RemoteFriendly,
		PostedBy:        j.PostedBy,
		CreatedAt:       j.CreatedAt,
	}
}

func NewJobResponses(items []job.Job) []JobResponse {
	out := make([]JobResponse, 0, len(items))
	for _, j := range items {
		out = append(out, NewJobResponse(j))
	}
	return out
}

type BreakdownResponse struct {
	SkillSimilarity float64 `json:"skill_similarity"`
	SkillBoost      float64 `json:"skill_boost"`
	Experience      float64 `json:"experience"`
	Location        float64 `json:"location"`
	Program         float64 `json:"program"`
}

type MatchJobResponse struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	Location        string    `json:"location"`
	JobType         string    `json:"job_type"`
	Salary          string    `json:"salary"`
	ExperienceLevel string    `json:"experience_level"`
	RequiredSkills  []string  `json:"required_skills"`
	RemoteFriendly  bool      `json:"remote_friendly"`
}

type MatchResponse struct {
	Job        MatchJobResponse  `json:"job"`
	MatchScore float64           `json:"match_score"`
	Breakdown  BreakdownResponse `json:"breakdown"`
}

func NewMatchResponse(r matching.MatchResult) MatchResponse {
	skills := r.Job.RequiredSkills
	if skills == nil {
		skills = []string{}
	}
	return MatchResponse{
		Job: MatchJobResponse{
			ID:              r.Job.ID,
			Title:           r.Job.Title,
			Company:         r.Job.Company,
			Location:        r.Job.Location,
			JobType:         r.Job.JobType,
			Salary:          r.Job.Salary,
			ExperienceLevel: string(r.Job.ExperienceLevel),
			RequiredSkills:  skills,
			RemoteFriendly:  r.Job.RemoteFriendly,
		},
		MatchScore: r.MatchScore,
		Breakdown: BreakdownResponse{
			SkillSimilarity: r.Breakdown.SkillSimilarity,
			SkillBoost:      r.Breakdown.SkillBoost,
			Experience:      r.Breakdown.Experience,
			Location:        r.Breakdown.Location,
			Program:         r.Breakdown.Program,
		},
	}
}

type ApplicationResponse struct {
	ID          uuid.UUID    `json:"id"`
	JobID       uuid.UUID    `json:"job_id"`
	Status      string       `json:"status"`
	CoverLetter string       `json:"cover_letter"`
	CreatedAt   time.Time    `json:"created_at"`
	Job         *JobResponse `json:"job,omitempty"`
}

func NewApplicationResponse(a job.Application) ApplicationResponse {
	res := ApplicationResponse{
		ID:          a.ID,
		JobID:       a.JobID,
		Status:      string(a.Status),
		CoverLetter: a.CoverLetter,
		CreatedAt:   a.CreatedAt,
	}
	if a.Job != nil {
		j := NewJobResponse(*a.Job)
		res.Job = &j
	}
	return res
}

type BookmarkResponse struct {
	JobID     uuid.UUID   `json:"job_id"`
	CreatedAt time.Time   `json:"created_at"`
	Job       JobResponse `json:"job"`
}

func NewBookmarkResponse(b job.Bookmark) BookmarkResponse {
	return BookmarkResponse{JobID: b.JobID, CreatedAt: b.CreatedAt, Job: NewJobResponse(b.Job)}
}

package job

import (
	"strings"
	"time"

	"uphera/internal/domain/matching"

	"github.com/google/uuid"
)

type Job struct {
	ID              uuid.UUID
	Title           string
	Company         string
	Description     string
	Location        string
	JobType         string
	Salary          string
	ExperienceLevel string
	RequiredSkills  []string
	RemoteFriendly  bool
	IsActive        bool
	PostedBy        *uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (j Job) Posting() matching.JobPosting {
	return matching.JobPosting{
		ID:              j.ID,
		Title:           j.Title,
		Company:         j.Company,
		Description:     j.Description,
		Location:        j.Location,
		JobType:         j.JobType,
		Salary:          j.Salary,
		ExperienceLevel: matching.ExperienceLevel(strings.ToLower(strings.TrimSpace(j.ExperienceLevel))),
		RequiredSkills:  j.RequiredSkills,
		RemoteFriendly:  j.RemoteFriendly,
	}
}

// ListFilter narrows the active job listing. Empty fields do not filter.
// SearchTerms are OR-ed against title, company and description.
type ListFilter struct {
	Location        string
	JobType         string
	ExperienceLevel string
	RemoteOnly      bool
	SearchTerms     []string
	Limit           int
	Offset          int
}

type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationReviewing ApplicationStatus = "reviewing"
	ApplicationAccepted  ApplicationStatus = "accepted"
	ApplicationRejected  ApplicationStatus = "rejected"
)

type Application struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	JobID         uuid.UUID
	CoverLetter   string
	ResumeContent string
	Status        ApplicationStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Job is filled by listing queries.
	Job *Job
}

type Bookmark struct {
	UserID    uuid.UUID
	JobID     uuid.UUID
	CreatedAt time.Time
	Job       Job
}

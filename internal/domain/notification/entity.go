package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("notification not found")

type Type string

const (
	TypeJobMatch          Type = "job_match"
	TypeApplicationUpdate Type = "application_update"
	TypeProfileView       Type = "profile_view"
	TypeInterviewReminder Type = "interview_reminder"
	TypeSystem            Type = "system"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      Type
	Title     string
	Message   string
	Data      map[string]any
	Priority  Priority
	IsRead    bool
	ReadAt    *time.Time
	ExpiresAt *time.Time
	CreatedAt time.Time
}

func newNotification(userID uuid.UUID, typ Type, prio Priority, title, message string, data map[string]any, ttl time.Duration, now time.Time) Notification {
	n := Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Data:      data,
		Priority:  prio,
		CreatedAt: now.UTC(),
	}
	if ttl > 0 {
		exp := now.Add(ttl).UTC()
		n.ExpiresAt = &exp
	}
	return n
}

func NewJobMatch(userID uuid.UUID, jobTitle, company string, score int, now time.Time) Notification {
	return newNotification(
		userID, TypeJobMatch, PriorityHigh,
		"New job match",
		fmt.Sprintf("%s at %s matches your profile by %d%%", jobTitle, company, score),
		map[string]any{"job_title": jobTitle, "company": company, "match_score": score},
		72*time.Hour, now,
	)
}

func NewApplicationUpdate(userID uuid.UUID, jobTitle string, status string, now time.Time) Notification {
	return newNotification(
		userID, TypeApplicationUpdate, PriorityMedium,
		"Application status updated",
		fmt.Sprintf("Your application for %s: %s", jobTitle, status),
		map[string]any{"job_title": jobTitle, "status": status},
		7*24*time.Hour, now,
	)
}

type ListFilter struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

type Repository interface {
	Create(ctx context.Context, n Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, f ListFilter) ([]Notification, error)
	// MarkRead returns ErrNotFound when the notification is not the user's.
	MarkRead(ctx context.Context, id, userID uuid.UUID, at time.Time) error
	MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

package domain

import "time"

// TaskAudience determines how a task is targeted.
type TaskAudience string

const (
	// TaskAudienceStudent targets a single profile.
	TaskAudienceStudent TaskAudience = "student"
	// TaskAudienceLevel targets every student at an enrollment level.
	TaskAudienceLevel TaskAudience = "level"
)

// Task is a unit of work assigned by an admin, either to one student or to a
// whole enrollment level.
type Task struct {
	ID          string
	Title       string
	Description string
	Audience    TaskAudience
	ProfileID   *string
	Level       *Level
	Deadline    *time.Time
	CreatedAt   time.Time
	CreatedBy   string
}

// Expired reports whether the task deadline has passed at the given instant.
// Tasks without a deadline never expire.
func (t *Task) Expired(now time.Time) bool {
	return t.Deadline != nil && !t.Deadline.After(now)
}

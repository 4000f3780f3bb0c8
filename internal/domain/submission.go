package domain

import "time"

// Submission is a student's response to an assigned task.
type Submission struct {
	ID        string
	TaskID    string
	ProfileID string
	Level     Level
	Message   string
	Link      *string
	CreatedAt time.Time
}

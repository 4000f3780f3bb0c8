package dto

import (
	"time"

	"github.com/spec-kit/internship-service/internal/domain"
)

// AssignTaskRequest payload for admin task assignment.
type AssignTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Audience    string     `json:"audience"`
	ProfileID   *string    `json:"profile_id,omitempty"`
	Level       *string    `json:"level,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// SubmitWorkRequest payload for task submissions.
type SubmitWorkRequest struct {
	Message string `json:"message"`
	Link    string `json:"link,omitempty"`
}

// TaskResponse is the JSON form of a task.
type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Audience    string     `json:"audience"`
	ProfileID   *string    `json:"profile_id,omitempty"`
	Level       *string    `json:"level,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewTaskResponse maps a domain task.
func NewTaskResponse(task *domain.Task) *TaskResponse {
	if task == nil {
		return nil
	}
	resp := &TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Audience:    string(task.Audience),
		ProfileID:   task.ProfileID,
		Deadline:    task.Deadline,
		CreatedAt:   task.CreatedAt,
	}
	if task.Level != nil {
		level := string(*task.Level)
		resp.Level = &level
	}
	return resp
}

// SubmissionResponse is the JSON form of a submission.
type SubmissionResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	ProfileID string    `json:"profile_id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Link      *string   `json:"link,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSubmissionResponse maps a domain submission.
func NewSubmissionResponse(submission *domain.Submission) *SubmissionResponse {
	if submission == nil {
		return nil
	}
	return &SubmissionResponse{
		ID:        submission.ID,
		TaskID:    submission.TaskID,
		ProfileID: submission.ProfileID,
		Level:     string(submission.Level),
		Message:   submission.Message,
		Link:      submission.Link,
		CreatedAt: submission.CreatedAt,
	}
}

package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/internship-service/internal/domain"
	"github.com/spec-kit/internship-service/internal/events"
	"github.com/spec-kit/internship-service/internal/repository"
	apperrors "github.com/spec-kit/internship-service/pkg/util"
)

// TaskService coordinates task assignment and submissions.
type TaskService struct {
	tasks       repository.TaskRepository
	submissions repository.SubmissionRepository
	dispatcher  events.Dispatcher
	now         func() time.Time
}

// NewTaskService builds the service.
func NewTaskService(tasks repository.TaskRepository, submissions repository.SubmissionRepository, dispatcher events.Dispatcher) *TaskService {
	return &TaskService{
		tasks:       tasks,
		submissions: submissions,
		dispatcher:  dispatcher,
		now:         time.Now,
	}
}

// TaskAssignInput describes an admin task assignment.
type TaskAssignInput struct {
	Title       string
	Description string
	Audience    domain.TaskAudience
	ProfileID   *string
	Level       *domain.Level
	Deadline    *time.Time
}

// Assign creates a task for one student or a whole enrollment level.
func (s *TaskService) Assign(ctx context.Context, adminID string, input TaskAssignInput) (*domain.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	switch input.Audience {
	case domain.TaskAudienceStudent:
		if input.ProfileID == nil || *input.ProfileID == "" {
			return nil, apperrors.NewValidationError("profile_id required for student tasks", nil)
		}
		input.Level = nil
	case domain.TaskAudienceLevel:
		if input.Level == nil {
			return nil, apperrors.NewValidationError("level required for level tasks", nil)
		}
		input.ProfileID = nil
	default:
		return nil, apperrors.NewValidationError("unknown task audience", nil)
	}

	task := &domain.Task{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Audience:    input.Audience,
		ProfileID:   input.ProfileID,
		Level:       input.Level,
		Deadline:    input.Deadline,
		CreatedBy:   adminID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTaskAssigned,
		ProfileID: stringOrEmpty(task.ProfileID),
		Actor:     events.Actor{Role: domain.RoleAdmin, ProfileID: adminID},
		Payload: events.TaskAssignedPayload{
			TaskID:   task.ID,
			Audience: task.Audience,
			Title:    task.Title,
		},
	})
	return task, nil
}

// ListForStudent merges the student's personal tasks with their level's tasks,
// hides expired ones and orders by deadline, tasks without a deadline last.
func (s *TaskService) ListForStudent(ctx context.Context, profile *domain.Profile) ([]domain.Task, error) {
	personal, err := s.tasks.ListByProfile(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	byLevel, err := s.tasks.ListByLevel(ctx, profile.Level)
	if err != nil {
		return nil, err
	}

	now := s.now()
	merged := map[string]domain.Task{}
	for _, task := range append(personal, byLevel...) {
		if task.Expired(now) {
			continue
		}
		merged[task.ID] = task
	}

	tasks := make([]domain.Task, 0, len(merged))
	for _, task := range merged {
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return deadlineOrder(tasks[i].Deadline) < deadlineOrder(tasks[j].Deadline)
	})
	return tasks, nil
}

// SubmitWork records a student's submission for a task assigned to them.
func (s *TaskService) SubmitWork(ctx context.Context, profile *domain.Profile, taskID, message, link string) (*domain.Submission, error) {
	message = strings.TrimSpace(message)
	link = strings.TrimSpace(link)
	if len(message) < 5 {
		return nil, apperrors.NewValidationError("submission message too short", nil)
	}
	if link != "" && !strings.HasPrefix(strings.ToLower(link), "http://") && !strings.HasPrefix(strings.ToLower(link), "https://") {
		return nil, apperrors.NewValidationError("link must start with http:// or https://", nil)
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("task", map[string]any{"task_id": taskID})
		}
		return nil, err
	}
	if task.Expired(s.now()) {
		return nil, apperrors.NewConflict("task deadline has passed", nil)
	}
	if !taskTargets(task, profile) {
		return nil, apperrors.NewForbidden("task is not assigned to you")
	}

	submission := &domain.Submission{
		ID:        uuid.NewString(),
		TaskID:    task.ID,
		ProfileID: profile.ID,
		Level:     profile.Level,
		Message:   message,
	}
	if link != "" {
		submission.Link = &link
	}
	if err := s.submissions.Create(ctx, submission); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventWorkSubmitted,
		ProfileID: profile.ID,
		Actor:     events.Actor{Role: domain.RoleStudent, ProfileID: profile.ID},
		Payload: events.WorkSubmittedPayload{
			TaskID:       task.ID,
			SubmissionID: submission.ID,
		},
	})
	return submission, nil
}

// ListSubmissions returns submissions for a task, newest first.
func (s *TaskService) ListSubmissions(ctx context.Context, taskID string) ([]domain.Submission, error) {
	return s.submissions.ListByTask(ctx, taskID)
}

func taskTargets(task *domain.Task, profile *domain.Profile) bool {
	switch task.Audience {
	case domain.TaskAudienceStudent:
		return task.ProfileID != nil && *task.ProfileID == profile.ID
	case domain.TaskAudienceLevel:
		return task.Level != nil && *task.Level == profile.Level
	default:
		return false
	}
}

func deadlineOrder(deadline *time.Time) int64 {
	if deadline == nil {
		return int64(^uint64(0) >> 1)
	}
	return deadline.UnixNano()
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (s *TaskService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/internship-service/internal/api/dto"
	"github.com/spec-kit/internship-service/internal/auth"
	"github.com/spec-kit/internship-service/internal/service"
	apperrors "github.com/spec-kit/internship-service/pkg/util"
)

// TasksHandler exposes the student task endpoints.
type TasksHandler struct {
	tasks *service.TaskService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(tasks *service.TaskService) *TasksHandler {
	return &TasksHandler{tasks: tasks}
}

// List handles GET /tasks. The caller reaches this only as an activated
// student, so a profile row is guaranteed.
func (h *TasksHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Profile == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	tasks, err := h.tasks.ListForStudent(c.Context(), principal.Profile)
	if err != nil {
		return err
	}

	out := make([]*dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, dto.NewTaskResponse(&tasks[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Submit handles POST /tasks/:id/submissions.
func (h *TasksHandler) Submit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Profile == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.SubmitWorkRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	submission, err := h.tasks.SubmitWork(c.Context(), principal.Profile, c.Params("id"), req.Message, req.Link)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewSubmissionResponse(submission),
	})
}

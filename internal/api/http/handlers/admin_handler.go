package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/internship-service/internal/api/dto"
	"github.com/spec-kit/internship-service/internal/auth"
	"github.com/spec-kit/internship-service/internal/domain"
	"github.com/spec-kit/internship-service/internal/repository"
	"github.com/spec-kit/internship-service/internal/service"
	apperrors "github.com/spec-kit/internship-service/pkg/util"
)

// AdminHandler exposes the admin review surface: student roster, payment
// review queue, activation codes and task assignment.
type AdminHandler struct {
	profiles   repository.ProfileRepository
	payments   *service.PaymentService
	activation *service.ActivationService
	tasks      *service.TaskService
	pageLimit  int
}

// NewAdminHandler constructs handler.
func NewAdminHandler(profiles repository.ProfileRepository, payments *service.PaymentService, activation *service.ActivationService, tasks *service.TaskService, pageLimit int) *AdminHandler {
	return &AdminHandler{
		profiles:   profiles,
		payments:   payments,
		activation: activation,
		tasks:      tasks,
		pageLimit:  pageLimit,
	}
}

// ListStudents handles GET /admin/students.
func (h *AdminHandler) ListStudents(c *fiber.Ctx) error {
	students, err := h.profiles.ListStudents(c.Context(), h.pageLimit)
	if err != nil {
		return err
	}

	out := make([]*dto.ProfileResponse, 0, len(students))
	for i := range students {
		out = append(out, dto.NewProfileResponse(&students[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// ListPayments handles GET /admin/payments.
func (h *AdminHandler) ListPayments(c *fiber.Ctx) error {
	payments, err := h.payments.ListRecent(c.Context())
	if err != nil {
		return err
	}

	out := make([]*dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		out = append(out, dto.NewPaymentResponse(&payments[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// ReviewPayment handles POST /admin/payments/:id/review.
func (h *AdminHandler) ReviewPayment(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	var req dto.ReviewPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	payment, err := h.payments.Review(c.Context(), principal.Profile.ID, c.Params("id"), req.Verified)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.NewPaymentResponse(payment)})
}

// CreateCode handles POST /admin/activation-codes.
func (h *AdminHandler) CreateCode(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	var req dto.CreateCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.ProfileID == "" {
		return apperrors.NewValidationError("profile_id required", nil)
	}

	code, err := h.activation.CreateCode(c.Context(), principal.Profile.ID, req.ProfileID)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"code":       code.Code,
			"profile_id": code.ProfileID,
			"created_at": code.CreatedAt,
		},
	})
}

// AssignTask handles POST /admin/tasks.
func (h *AdminHandler) AssignTask(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	var req dto.AssignTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	input := service.TaskAssignInput{
		Title:       req.Title,
		Description: req.Description,
		Audience:    domain.TaskAudience(req.Audience),
		ProfileID:   req.ProfileID,
		Deadline:    req.Deadline,
	}
	if req.Level != nil {
		level, err := domain.ParseLevel(*req.Level)
		if err != nil {
			return apperrors.NewValidationError("invalid level", map[string]any{
				"level": "must be one of L3, L4, L5",
			})
		}
		input.Level = &level
	}

	task, err := h.tasks.Assign(c.Context(), principal.Profile.ID, input)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// ListSubmissions handles GET /admin/tasks/:id/submissions.
func (h *AdminHandler) ListSubmissions(c *fiber.Ctx) error {
	submissions, err := h.tasks.ListSubmissions(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	out := make([]*dto.SubmissionResponse, 0, len(submissions))
	for i := range submissions {
		out = append(out, dto.NewSubmissionResponse(&submissions[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

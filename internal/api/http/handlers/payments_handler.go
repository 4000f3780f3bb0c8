package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/internship-service/internal/api/dto"
	"github.com/spec-kit/internship-service/internal/auth"
	"github.com/spec-kit/internship-service/internal/service"
	apperrors "github.com/spec-kit/internship-service/pkg/util"
)

// PaymentsHandler exposes the student payment-proof endpoints.
type PaymentsHandler struct {
	payments *service.PaymentService
}

// NewPaymentsHandler constructs handler.
func NewPaymentsHandler(payments *service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{payments: payments}
}

// Submit handles POST /payments.
func (h *PaymentsHandler) Submit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.SubmitPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	payment, err := h.payments.SubmitProof(c.Context(), principal.Identity.ID, req.TransactionID)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewPaymentResponse(payment),
	})
}

// Latest handles GET /payments/latest.
func (h *PaymentsHandler) Latest(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	payment, err := h.payments.Latest(c.Context(), principal.Identity.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.NewPaymentResponse(payment),
	})
}

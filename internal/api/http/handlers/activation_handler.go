package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/internship-service/internal/api/dto"
	"github.com/spec-kit/internship-service/internal/auth"
	"github.com/spec-kit/internship-service/internal/service"
	apperrors "github.com/spec-kit/internship-service/pkg/util"
)

// ActivationHandler exposes activation code redemption.
type ActivationHandler struct {
	activation *service.ActivationService
}

// NewActivationHandler constructs handler.
func NewActivationHandler(activation *service.ActivationService) *ActivationHandler {
	return &ActivationHandler{activation: activation}
}

// Redeem handles POST /activation/redeem.
func (h *ActivationHandler) Redeem(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.RedeemCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	profile, err := h.activation.Redeem(c.Context(), principal.Identity.ID, req.Code)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.NewProfileResponse(profile),
	})
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/internship-service/internal/api/dto"
	"github.com/spec-kit/internship-service/internal/auth"
	"github.com/spec-kit/internship-service/internal/domain"
	"github.com/spec-kit/internship-service/internal/service"
	"github.com/spec-kit/internship-service/internal/session"
	apperrors "github.com/spec-kit/internship-service/pkg/util"
)

// AccountsHandler exposes registration and login endpoints.
type AccountsHandler struct {
	accounts *service.AccountService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(accounts *service.AccountService) *AccountsHandler {
	return &AccountsHandler{accounts: accounts}
}

// Register handles POST /auth/register.
func (h *AccountsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	level, err := domain.ParseLevel(req.Level)
	if err != nil {
		return apperrors.NewValidationError("invalid registration payload", map[string]any{
			"level": "must be one of L3, L4, L5",
		})
	}

	identity, profile, err := h.accounts.Register(c.Context(), session.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		School:   req.School,
		Level:    level,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	token, exp, err := h.accounts.IssueToken(identity)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"profile": dto.NewProfileResponse(profile),
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Login handles POST /auth/login.
func (h *AccountsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	identity, profile, token, exp, err := h.accounts.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"identity": fiber.Map{
				"id":    identity.ID,
				"email": identity.Email,
			},
			"profile": dto.NewProfileResponse(profile),
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Logout handles POST /auth/logout.
func (h *AccountsHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		// signing out while signed out is a no-op
		return c.SendStatus(http.StatusNoContent)
	}
	if err := h.accounts.Logout(c.Context(), principal.Identity.ID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Me handles GET /auth/me.
func (h *AccountsHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"identity": fiber.Map{
				"id":    principal.Identity.ID,
				"email": principal.Identity.Email,
			},
			"profile": dto.NewProfileResponse(principal.Profile),
			"active":  principal.Profile.IsActive(),
			"admin":   principal.Profile.IsAdmin(),
		},
	})
}

package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/internship-service/internal/domain"
	"github.com/spec-kit/internship-service/internal/repository"
	apperrors "github.com/spec-kit/internship-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller. Profile is nil when
// registration never completed its second phase; route gating treats that the
// same as an inactive account.
type Principal struct {
	Identity *domain.Identity
	Profile  *domain.Profile
}

// Middleware validates bearer tokens and loads principals. Requests without a
// token pass through anonymously; the gate decides admission.
type Middleware struct {
	tokens     *TokenManager
	identities repository.IdentityRepository
	profiles   repository.ProfileRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, identities repository.IdentityRepository, profiles repository.ProfileRepository) *Middleware {
	return &Middleware{tokens: tokens, identities: identities, profiles: profiles}
}

// Handle resolves the caller's principal when a bearer token is present.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Next()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	identity, err := m.identities.GetByID(c.Context(), claims.IdentityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("account not found")
		}
		return apperrors.MapError(err)
	}

	principal := &Principal{Identity: identity}

	profile, err := m.profiles.GetByID(c.Context(), identity.ID)
	switch {
	case err == nil:
		principal.Profile = profile
	case errors.Is(err, pgx.ErrNoRows):
		// registration phase 2 never completed; principal stays profile-less
	default:
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

package gate

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/internship-service/internal/auth"
	"github.com/spec-kit/internship-service/internal/observability"
	"github.com/spec-kit/internship-service/internal/session"
)

// Middleware evaluates the route's admission rules against a snapshot built
// from the request principal. Redirects use 303 with a Location header so
// clients replace rather than grow their history.
func Middleware(route Route, targets Targets, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap := session.Snapshot{}
		if principal, ok := auth.PrincipalFromContext(c); ok {
			snap.Identity = principal.Identity
			snap.Profile = principal.Profile
		}

		decision := Evaluate(snap, route, targets)
		metrics.RecordGateDecision(c.Path(), string(decision.Outcome))

		switch decision.Outcome {
		case OutcomeAllow:
			return c.Next()
		case OutcomeDefer:
			c.Set("Retry-After", "1")
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
				"decision": string(OutcomeDefer),
			})
		default:
			c.Set("Location", decision.Target)
			return c.Status(http.StatusSeeOther).JSON(fiber.Map{
				"decision": string(OutcomeRedirect),
				"target":   decision.Target,
			})
		}
	}
}

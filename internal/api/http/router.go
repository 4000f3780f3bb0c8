package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/internship-service/internal/api/http/handlers"
	"github.com/spec-kit/internship-service/internal/auth"
	"github.com/spec-kit/internship-service/internal/gate"
	"github.com/spec-kit/internship-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Accounts       *handlers.AccountsHandler
	Payments       *handlers.PaymentsHandler
	Activation     *handlers.ActivationHandler
	Tasks          *handlers.TasksHandler
	Admin          *handlers.AdminHandler
	Session        *handlers.SessionHandler
	AuthMiddleware *auth.Middleware
	GateTargets    gate.Targets
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes. Every route passes the auth middleware so
// the gate always sees the caller's snapshot; the gate then admits, defers or
// redirects per the route's rules.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	guard := func(route gate.Route) fiber.Handler {
		return gate.Middleware(route, cfg.GateTargets, cfg.Metrics)
	}

	app.Use(cfg.AuthMiddleware.Handle)

	app.Get("/session", cfg.Session.Snapshot)
	app.Get("/session/stream", cfg.Session.Stream)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", guard(gate.Route{GuestOnly: true}), cfg.Accounts.Register)
	authGroup.Post("/login", guard(gate.Route{GuestOnly: true}), cfg.Accounts.Login)
	authGroup.Post("/logout", cfg.Accounts.Logout)
	authGroup.Get("/me", guard(gate.Route{RequiresAuth: true}), cfg.Accounts.Me)

	payments := app.Group("/payments", guard(gate.Route{RequiresAuth: true}))
	payments.Post("/", cfg.Payments.Submit)
	payments.Get("/latest", cfg.Payments.Latest)

	activation := app.Group("/activation", guard(gate.Route{RequiresAuth: true}))
	activation.Post("/redeem", cfg.Activation.Redeem)

	tasks := app.Group("/tasks", guard(gate.Route{RequiresAuth: true, RequiresActivated: true}))
	tasks.Get("/", cfg.Tasks.List)
	tasks.Post("/:id/submissions", cfg.Tasks.Submit)

	// admin routes rely on RequiresAdmin alone so anonymous callers are sent
	// to registration rather than login
	admin := app.Group("/admin", guard(gate.Route{RequiresAdmin: true}))
	admin.Get("/students", cfg.Admin.ListStudents)
	admin.Get("/payments", cfg.Admin.ListPayments)
	admin.Post("/payments/:id/review", cfg.Admin.ReviewPayment)
	admin.Post("/activation-codes", cfg.Admin.CreateCode)
	admin.Post("/tasks", cfg.Admin.AssignTask)
	admin.Get("/tasks/:id/submissions", cfg.Admin.ListSubmissions)
}

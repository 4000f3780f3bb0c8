package gate

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/internship-service/internal/observability"
)

func newGateApp(route Route) *fiber.App {
	app := fiber.New()
	app.Get("/probe", Middleware(route, testTargets, observability.NewMetrics()), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestMiddlewareAllowsOpenRoute(t *testing.T) {
	app := newGateApp(Route{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/probe", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddlewareRedirectsAnonymousFromAuthRoute(t *testing.T) {
	app := newGateApp(Route{RequiresAuth: true})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/probe", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestMiddlewareRedirectsAnonymousFromAdminRoute(t *testing.T) {
	app := newGateApp(Route{RequiresAdmin: true})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/probe", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/register", resp.Header.Get("Location"))
}

func TestMiddlewareAllowsAnonymousGuestRoute(t *testing.T) {
	app := newGateApp(Route{GuestOnly: true})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/probe", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

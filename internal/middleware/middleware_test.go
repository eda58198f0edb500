package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storerating/internal/handlers"
	"storerating/internal/metrics"
	"storerating/internal/middleware"
	"storerating/internal/models"
	"storerating/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*fiber.App, *services.AuthService) {
	t.Helper()
	authService := services.NewAuthService(nil, services.AuthOptions{JWTSecret: "test_jwt_secret", TokenTTL: time.Hour})
	app := fiber.New(fiber.Config{ErrorHandler: handlers.NewErrorHandler(zerolog.Nop())})
	app.Get("/me",
		middleware.AuthRequired(authService, zerolog.Nop()),
		func(c *fiber.Ctx) error {
			return c.SendString(middleware.ClaimsFrom(c).UserID)
		})
	app.Get("/owners",
		middleware.AuthRequired(authService, zerolog.Nop()),
		middleware.RequireRole(models.RoleStoreOwner, models.RoleAdmin),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	return app, authService
}

func call(t *testing.T, app *fiber.App, path, authorization string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuthRequired(t *testing.T) {
	app, authService := newTestApp(t)
	token, err := authService.IssueToken(&models.User{ID: "user-1", Email: "a@b.co", Role: models.RoleNormalUser})
	require.NoError(t, err)

	resp := call(t, app, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := new(bytes.Buffer)
	_, _ = body.ReadFrom(resp.Body)
	assert.Equal(t, "user-1", body.String())

	assert.Equal(t, http.StatusUnauthorized, call(t, app, "/me", "").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, call(t, app, "/me", "Token "+token).StatusCode)
	assert.Equal(t, http.StatusUnauthorized, call(t, app, "/me", "Bearer ").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, call(t, app, "/me", "Bearer not.a.token").StatusCode)
}

func TestRequireRole(t *testing.T) {
	app, authService := newTestApp(t)

	for role, want := range map[models.Role]int{
		models.RoleNormalUser: http.StatusForbidden,
		models.RoleStoreOwner: http.StatusNoContent,
		models.RoleAdmin:      http.StatusNoContent,
	} {
		token, err := authService.IssueToken(&models.User{ID: "u", Email: "u@b.co", Role: role})
		require.NoError(t, err)
		assert.Equal(t, want, call(t, app, "/owners", "Bearer "+token).StatusCode, role)
	}
}

func TestRequestLoggerRendersErrorsAndCounts(t *testing.T) {
	m := metrics.New()
	app := fiber.New(fiber.Config{ErrorHandler: handlers.NewErrorHandler(zerolog.Nop())})
	app.Use(middleware.RequestLogger(zerolog.Nop(), m))
	app.Get("/boom", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })

	resp := call(t, app, "/boom", "")
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	n, err := testutil.GatherAndCount(m.Registry(), "storerating_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

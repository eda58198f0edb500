package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storerating/internal/database"
	"storerating/internal/handlers"
	"storerating/internal/middleware"
	"storerating/internal/models"
	"storerating/internal/repositories"
	"storerating/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const adminEmail = "admin@example.com"

type testEnv struct {
	app   *fiber.App
	auth  *services.AuthService
	admin *services.AdminService
}

// setupApp sets up a Fiber app for testing with in-memory SQLite and all handlers/services.
func setupApp(t *testing.T) *testEnv {
	t.Helper()
	log := zerolog.Nop()

	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	userRepo := repositories.NewGORMUserRepository(db)
	storeRepo := repositories.NewGORMStoreRepository(db)
	ratingRepo := repositories.NewGORMRatingRepository(db)

	authService := services.NewAuthService(userRepo, services.AuthOptions{
		JWTSecret:  "test_jwt_secret",
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
		Logger:     log,
	})
	storeService := services.NewStoreService(storeRepo, userRepo, ratingRepo, nil, nil, log)
	adminService := services.NewAdminService(userRepo, storeRepo, ratingRepo, bcrypt.MinCost, log)

	_, err = adminService.EnsureAdmin(context.Background(), "Platform Administrator Account", adminEmail, "Admin#2024")
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: handlers.NewErrorHandler(log)})
	auth := middleware.AuthRequired(authService, log)
	handlers.NewHealthHandler(nil).RegisterRoutes(app)
	handlers.NewAuthHandler(authService).RegisterRoutes(app)
	handlers.NewStoreHandler(storeService).RegisterRoutes(app, auth, middleware.RequireRole(models.RoleStoreOwner))
	handlers.NewAdminHandler(adminService, storeService).RegisterRoutes(app, auth, middleware.RequireRole(models.RoleAdmin))

	return &testEnv{app: app, auth: authService, admin: adminService}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1) // -1 for no timeout
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	resp, raw := e.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	return body.Token
}

func (e *testEnv) signup(t *testing.T, name, email string) string {
	t.Helper()
	resp, raw := e.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"name": name, "email": email, "password": "password123", "address": "1 Main Street",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	return body.Token
}

func decodeError(t *testing.T, raw []byte) handlers.ErrorResponse {
	t.Helper()
	var body handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return body
}

func TestAuthSignupAndLogin(t *testing.T) {
	env := setupApp(t)

	resp, raw := env.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"name": "Jane Shopper", "email": "jane@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var created map[string]any
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.NotEmpty(t, created["token"])
	user := created["user"].(map[string]any)
	assert.Equal(t, "Normal User", user["role"])
	assert.NotContains(t, user, "password")

	resp, raw = env.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"name": "Jane Again", "email": "JANE@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_EMAIL", string(decodeError(t, raw).Code))

	token := env.login(t, "jane@example.com", "password123")
	assert.NotEmpty(t, token)

	resp, raw = env.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "jane@example.com", "password": "nope"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	wrongPassword := decodeError(t, raw)
	assert.Equal(t, "INVALID_CREDENTIALS", string(wrongPassword.Code))

	resp, raw = env.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "ghost@example.com", "password": "nope"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, wrongPassword.Message, decodeError(t, raw).Message)

	resp, raw = env.do(t, http.MethodPost, "/auth/login", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.ElementsMatch(t, []string{"Email is required.", "Password is required."}, decodeError(t, raw).Errors)
}

func TestSignupValidationReportsEveryField(t *testing.T) {
	env := setupApp(t)

	resp, raw := env.do(t, http.MethodPost, "/auth/signup", "", map[string]string{"email": "bad"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeError(t, raw)
	assert.Equal(t, "VALIDATION_ERROR", string(body.Code))
	assert.ElementsMatch(t, []string{"Name is required.", "Email is not valid.", "Password is required."}, body.Errors)

	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	res, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := setupApp(t)

	resp, _ := env.do(t, http.MethodPost, "/stores/any/rate", "", map[string]int{"rating": 3})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/admin/dashboard", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	shopper := env.signup(t, "Jane Shopper", "jane@example.com")
	resp, raw := env.do(t, http.MethodGet, "/admin/dashboard", shopper, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", string(decodeError(t, raw).Code))

	resp, _ = env.do(t, http.MethodGet, "/stores/owner-dashboard", shopper, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRatingFlow(t *testing.T) {
	env := setupApp(t)
	adminToken := env.login(t, adminEmail, "Admin#2024")

	resp, raw := env.do(t, http.MethodPost, "/admin/users", adminToken, map[string]string{
		"name": "Olivia Storekeeper Owner", "email": "owner@example.com", "password": "Owner#123",
		"address": "9 Market Road", "role": "Store Owner",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var owner models.User
	require.NoError(t, json.Unmarshal(raw, &owner))

	resp, raw = env.do(t, http.MethodPost, "/admin/stores", adminToken, map[string]string{
		"name": "Corner Shop", "email": "shop@example.com", "address": "2 High Street", "ownerId": owner.Email,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var createdStore struct {
		Message string       `json:"message"`
		Store   models.Store `json:"store"`
	}
	require.NoError(t, json.Unmarshal(raw, &createdStore))
	storeID := createdStore.Store.ID
	require.NotEmpty(t, storeID)

	shopper := env.signup(t, "Jane Shopper", "jane@example.com")
	ratePath := fmt.Sprintf("/stores/%s/rate", storeID)

	resp, raw = env.do(t, http.MethodPost, ratePath, shopper, map[string]int{"rating": 4})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var rated struct {
		Message string `json:"message"`
		Rating  struct {
			Rating int `json:"rating"`
		} `json:"rating"`
	}
	require.NoError(t, json.Unmarshal(raw, &rated))
	assert.Equal(t, "Rating submitted", rated.Message)
	assert.Equal(t, 4, rated.Rating.Rating)

	resp, raw = env.do(t, http.MethodPost, ratePath, shopper, map[string]int{"rating": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	require.NoError(t, json.Unmarshal(raw, &rated))
	assert.Equal(t, "Rating updated", rated.Message)

	for _, bad := range []int{0, 6} {
		resp, raw = env.do(t, http.MethodPost, ratePath, shopper, map[string]int{"rating": bad})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Rating must be between 1 and 5.", decodeError(t, raw).Message)
	}

	resp, _ = env.do(t, http.MethodPost, "/stores/missing/rate", shopper, map[string]int{"rating": 3})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// One row per (user, store): the average reflects only the latest score.
	resp, raw = env.do(t, http.MethodGet, "/stores?name=corner", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Data []services.StoreSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, 2.0, list.Data[0].AverageRating)
	assert.Equal(t, 1, list.Data[0].RatingCount)

	ownerToken := env.login(t, "owner@example.com", "Owner#123")
	resp, raw = env.do(t, http.MethodGet, "/stores/owner-dashboard", ownerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var dashboard []services.OwnerStoreView
	require.NoError(t, json.Unmarshal(raw, &dashboard))
	require.Len(t, dashboard, 1)
	require.Len(t, dashboard[0].Ratings, 1)
	assert.Equal(t, "Jane Shopper", dashboard[0].Ratings[0].User.Name)

	resp, raw = env.do(t, http.MethodGet, "/admin/users/"+owner.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var details map[string]any
	require.NoError(t, json.Unmarshal(raw, &details))
	assert.Len(t, details["stores"], 1)

	resp, raw = env.do(t, http.MethodGet, "/admin/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats services.DashboardStats
	require.NoError(t, json.Unmarshal(raw, &stats))
	assert.Equal(t, services.DashboardStats{TotalUsers: 3, TotalStores: 1, TotalRatings: 1}, stats)
}

func TestAdminCreateUserRules(t *testing.T) {
	env := setupApp(t)
	adminToken := env.login(t, adminEmail, "Admin#2024")

	resp, raw := env.do(t, http.MethodPost, "/admin/users", adminToken, map[string]string{
		"name": "Ten Chars!", "email": "short@example.com", "password": "Owner#123", "role": "Normal User",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeError(t, raw).Errors, "Name must be at least 20 characters.")

	resp, raw = env.do(t, http.MethodPost, "/admin/stores", adminToken, map[string]string{
		"name": "Shop", "address": "Somewhere", "ownerId": "nobody@example.com",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", string(decodeError(t, raw).Code))
}

func TestStoreListPagination(t *testing.T) {
	env := setupApp(t)
	adminToken := env.login(t, adminEmail, "Admin#2024")

	for i := 0; i < 25; i++ {
		resp, raw := env.do(t, http.MethodPost, "/admin/stores", adminToken, map[string]string{
			"name": fmt.Sprintf("Store %02d", i), "address": "Main Street",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	}

	resp, raw := env.do(t, http.MethodGet, "/stores?page=2&limit=10", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page struct {
		Data  []services.StoreSummary `json:"data"`
		Count int                     `json:"count"`
		Total int64                   `json:"total"`
		Page  int                     `json:"page"`
		Limit int                     `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(raw, &page))
	assert.Len(t, page.Data, 10)
	assert.Equal(t, 10, page.Count)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, "Store 10", page.Data[0].Name)

	resp, raw = env.do(t, http.MethodGet, "/stores?sortBy=owner", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", string(decodeError(t, raw).Code))

	resp, raw = env.do(t, http.MethodGet, "/admin/users?role=Admin", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var users struct {
		Data  []map[string]any `json:"data"`
		Total int64            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(raw, &users))
	assert.Equal(t, int64(1), users.Total)
	assert.NotContains(t, users.Data[0], "password")
}

func TestHealth(t *testing.T) {
	env := setupApp(t)
	resp, _ := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

package handlers

import (
	"storerating/internal/apperrors"
	"storerating/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the administrator routes. Every route expects the
// caller to be an authenticated Admin.
type AdminHandler struct {
	admin  *services.AdminService
	stores *services.StoreService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admin *services.AdminService, stores *services.StoreService) *AdminHandler {
	return &AdminHandler{
		admin:  admin,
		stores: stores,
	}
}

// RegisterRoutes registers the /admin group behind guards.
func (h *AdminHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	adminRoutes := router.Group("/admin", guards...)
	adminRoutes.Get("/dashboard", h.HandleDashboard)
	adminRoutes.Post("/users", h.HandleCreateUser)
	adminRoutes.Get("/users", h.HandleListUsers)
	adminRoutes.Get("/users/:id", h.HandleGetUser)
	adminRoutes.Post("/stores", h.HandleCreateStore)
	adminRoutes.Get("/stores", h.HandleListStores)
}

// HandleDashboard returns the user, store and rating totals.
func (h *AdminHandler) HandleDashboard(c *fiber.Ctx) error {
	stats, err := h.admin.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// HandleCreateUser creates an account of any role.
func (h *AdminHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req services.CreateUserInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.admin.CreateUser(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *AdminHandler) HandleListUsers(c *fiber.Ctx) error {
	var q services.UserQuery
	if err := c.QueryParser(&q); err != nil {
		return apperrors.BadRequest("Invalid query parameters")
	}
	page, err := h.admin.ListUsers(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *AdminHandler) HandleGetUser(c *fiber.Ctx) error {
	details, err := h.admin.GetUserDetails(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(details)
}

// HandleCreateStore creates a store, optionally assigned to a Store Owner.
func (h *AdminHandler) HandleCreateStore(c *fiber.Ctx) error {
	var req services.CreateStoreInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	store, err := h.stores.CreateStore(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Store created",
		"store":   store,
	})
}

func (h *AdminHandler) HandleListStores(c *fiber.Ctx) error {
	var q services.StoreQuery
	if err := c.QueryParser(&q); err != nil {
		return apperrors.BadRequest("Invalid query parameters")
	}
	page, err := h.stores.ListStores(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

package handlers

import (
	"storerating/internal/apperrors"
	"storerating/internal/middleware"
	"storerating/internal/services"

	"github.com/gofiber/fiber/v2"
)

// StoreHandler handles HTTP requests for store listings and ratings.
type StoreHandler struct {
	service *services.StoreService
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(service *services.StoreService) *StoreHandler {
	return &StoreHandler{
		service: service,
	}
}

// RegisterRoutes registers the store routes. auth authenticates the caller;
// ownerOnly additionally restricts the dashboard to Store Owners.
func (h *StoreHandler) RegisterRoutes(router fiber.Router, auth, ownerOnly fiber.Handler) {
	storeRoutes := router.Group("/stores")
	storeRoutes.Get("/", h.HandleListStores)
	storeRoutes.Get("/owner-dashboard", auth, ownerOnly, h.HandleOwnerDashboard)
	storeRoutes.Post("/:id/rate", auth, h.HandleRateStore)
}

// HandleListStores lists stores with their average rating.
func (h *StoreHandler) HandleListStores(c *fiber.Ctx) error {
	var q services.StoreQuery
	if err := c.QueryParser(&q); err != nil {
		return apperrors.BadRequest("Invalid query parameters")
	}
	page, err := h.service.ListStores(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// RateRequest is the body of POST /stores/:id/rate.
type RateRequest struct {
	Rating int `json:"rating"`
}

// HandleRateStore submits or updates the caller's rating for a store.
func (h *StoreHandler) HandleRateStore(c *fiber.Ctx) error {
	var req RateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	claims := middleware.ClaimsFrom(c)
	rating, created, err := h.service.RateStore(c.UserContext(), c.Params("id"), claims.UserID, req.Rating)
	if err != nil {
		return err
	}

	message := "Rating updated"
	if created {
		message = "Rating submitted"
	}
	return c.JSON(fiber.Map{
		"message": message,
		"rating":  rating,
	})
}

// HandleOwnerDashboard lists the caller's stores with their ratings.
func (h *StoreHandler) HandleOwnerDashboard(c *fiber.Ctx) error {
	claims := middleware.ClaimsFrom(c)
	views, err := h.service.OwnerDashboard(c.UserContext(), claims.Email)
	if err != nil {
		return err
	}
	return c.JSON(views)
}

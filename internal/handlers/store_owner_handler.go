package handlers

import (
	"log"

	"tokorating/internal/middleware"
	"tokorating/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// StoreOwnerHandler handles the store-owner self-service routes.
type StoreOwnerHandler struct {
	storeService *services.StoreService
	validate     *validator.Validate
}

// NewStoreOwnerHandler creates a new StoreOwnerHandler.
func NewStoreOwnerHandler(storeService *services.StoreService) *StoreOwnerHandler {
	return &StoreOwnerHandler{
		storeService: storeService,
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the store-owner routes under /store-owner,
// guarded by the given auth and role middleware.
func (h *StoreOwnerHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler, ownerOnly fiber.Handler) {
	ownerRoutes := router.Group("/store-owner", auth, ownerOnly)
	ownerRoutes.Post("/stores", h.HandleCreateOrReplaceStore)
	ownerRoutes.Put("/stores/:id", h.HandleUpdateStore)
	ownerRoutes.Delete("/stores/:id", h.HandleDeleteStore)
}

// OwnStoreRequest represents the store-owner store body.
type OwnStoreRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"required,max=400"`
}

// HandleCreateOrReplaceStore creates the caller's store, or replaces its
// fields if one already exists. A store owner has at most one store on this
// path.
func (h *StoreOwnerHandler) HandleCreateOrReplaceStore(c *fiber.Ctx) error {
	var req OwnStoreRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing store body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	store, created, err := h.storeService.CreateOrReplaceOwnStore(middleware.UserID(c), services.StoreInput{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		return serviceError(c, err, "Could not create store")
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(store)
}

// OwnStoreUpdateRequest carries the optional store fields.
type OwnStoreUpdateRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address *string `json:"address" validate:"omitempty,max=400"`
}

// HandleUpdateStore applies a partial update to a store the caller owns.
func (h *StoreOwnerHandler) HandleUpdateStore(c *fiber.Ctx) error {
	var req OwnStoreUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing store update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	store, err := h.storeService.UpdateOwnStore(middleware.UserID(c), c.Params("id"), services.OwnStoreUpdate{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		return serviceError(c, err, "Could not update store")
	}
	return c.JSON(store)
}

// HandleDeleteStore deletes a store the caller owns along with its ratings.
func (h *StoreOwnerHandler) HandleDeleteStore(c *fiber.Ctx) error {
	if err := h.storeService.DeleteOwnStore(middleware.UserID(c), c.Params("id")); err != nil {
		return serviceError(c, err, "Could not delete store")
	}
	return c.JSON(fiber.Map{
		"message": "Store deleted successfully",
	})
}

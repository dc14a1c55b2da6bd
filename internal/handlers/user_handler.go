package handlers

import (
	"log"

	"tokorating/internal/middleware"
	"tokorating/internal/models"
	"tokorating/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for the authenticated user's own data.
type UserHandler struct {
	userService   *services.UserService
	storeService  *services.StoreService
	ratingService *services.RatingService
	validate      *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, storeService *services.StoreService, ratingService *services.RatingService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		storeService:  storeService,
		ratingService: ratingService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the user routes under /users, guarded by the
// given auth middleware. The guard is attached to the group itself so it
// never leaks onto sibling prefixes.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	userRoutes := router.Group("/users", auth)
	userRoutes.Get("/profile", h.HandleGetProfile)
	userRoutes.Put("/profile", h.HandleUpdateProfile)
	userRoutes.Put("/password", h.HandleUpdatePassword)
	userRoutes.Get("/stores", h.HandleGetOwnStores)
	userRoutes.Get("/ratings", h.HandleGetOwnRatings)
}

// HandleGetProfile returns the caller's profile.
func (h *UserHandler) HandleGetProfile(c *fiber.Ctx) error {
	user, err := h.userService.GetProfile(middleware.UserID(c))
	if err != nil {
		return serviceError(c, err, "Could not fetch profile")
	}
	return c.JSON(user)
}

// ProfileUpdateRequest carries the optional profile fields.
type ProfileUpdateRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address *string `json:"address" validate:"omitempty,max=400"`
}

// HandleUpdateProfile applies a partial update to the caller's profile.
func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing profile update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	user, err := h.userService.UpdateProfile(middleware.UserID(c), services.ProfileUpdate{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		return serviceError(c, err, "Could not update profile")
	}
	return c.JSON(user)
}

// PasswordUpdateRequest carries the new password.
type PasswordUpdateRequest struct {
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// HandleUpdatePassword replaces the caller's password.
func (h *UserHandler) HandleUpdatePassword(c *fiber.Ctx) error {
	var req PasswordUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing password update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	if err := h.userService.UpdatePassword(middleware.UserID(c), req.NewPassword); err != nil {
		return serviceError(c, err, "Could not update password")
	}
	return c.JSON(fiber.Map{
		"message": "Password updated successfully",
	})
}

// HandleGetOwnStores lists the caller's stores with aggregates. Only store
// owners have stores; everyone else is rejected.
func (h *UserHandler) HandleGetOwnStores(c *fiber.Ctx) error {
	if middleware.UserRole(c) != models.RoleStoreOwner {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Access denied. Store owner role required.",
		})
	}

	stores, err := h.storeService.GetStoresByOwner(middleware.UserID(c))
	if err != nil {
		return serviceError(c, err, "Could not fetch stores")
	}
	return c.JSON(stores)
}

// HandleGetOwnRatings lists the caller's ratings with store info.
func (h *UserHandler) HandleGetOwnRatings(c *fiber.Ctx) error {
	ratings, err := h.ratingService.GetUserRatings(middleware.UserID(c))
	if err != nil {
		return serviceError(c, err, "Could not fetch ratings")
	}
	return c.JSON(ratings)
}

package handlers

import (
	"log"

	"tokorating/internal/models"
	"tokorating/internal/repositories"
	"tokorating/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles the admin management and dashboard routes.
type AdminHandler struct {
	userService      *services.UserService
	storeService     *services.StoreService
	dashboardService *services.DashboardService
	validate         *validator.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(userService *services.UserService, storeService *services.StoreService, dashboardService *services.DashboardService) *AdminHandler {
	return &AdminHandler{
		userService:      userService,
		storeService:     storeService,
		dashboardService: dashboardService,
		validate:         validator.New(),
	}
}

// RegisterRoutes registers the admin routes under /admin, guarded by the
// given auth and role middleware.
func (h *AdminHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler, adminOnly fiber.Handler) {
	adminRoutes := router.Group("/admin", auth, adminOnly)

	adminRoutes.Get("/users", h.HandleListUsers)
	adminRoutes.Get("/users/:id", h.HandleGetUser)
	adminRoutes.Post("/users", h.HandleCreateUser)
	adminRoutes.Put("/users/:id", h.HandleUpdateUser)
	adminRoutes.Delete("/users/:id", h.HandleDeleteUser)

	adminRoutes.Get("/stores", h.HandleListStores)
	adminRoutes.Get("/stores/:id", h.HandleGetStore)
	adminRoutes.Post("/stores", h.HandleCreateStore)
	adminRoutes.Put("/stores/:id", h.HandleUpdateStore)
	adminRoutes.Delete("/stores/:id", h.HandleDeleteStore)

	adminRoutes.Get("/dashboard", h.HandleDashboard)
}

// HandleListUsers lists users, filterable by name/email/address (substring)
// and role (exact).
func (h *AdminHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.userService.SearchUsers(repositories.UserFilter{
		Name:    c.Query("name"),
		Email:   c.Query("email"),
		Address: c.Query("address"),
		Role:    c.Query("role"),
	})
	if err != nil {
		return serviceError(c, err, "Could not retrieve users")
	}
	return c.JSON(users)
}

// HandleGetUser returns one user; store owners come enriched with their
// stores and aggregates.
func (h *AdminHandler) HandleGetUser(c *fiber.Ctx) error {
	details, err := h.userService.GetUserDetails(c.Params("id"))
	if err != nil {
		return serviceError(c, err, "Could not retrieve user")
	}
	return c.JSON(details)
}

// AdminCreateUserRequest represents the admin user-creation body. Unlike
// registration, the role is required.
type AdminCreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Address  string `json:"address" validate:"required,max=400"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=user store_owner admin"`
}

// HandleCreateUser creates a user with an explicit role.
func (h *AdminHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req AdminCreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing admin user body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Address:  req.Address,
		Password: req.Password,
		Role:     models.Role(req.Role),
	}
	if err := h.userService.CreateUser(&user); err != nil {
		return serviceError(c, err, "Could not create user")
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// AdminUpdateUserRequest carries the optional admin-editable user fields.
type AdminUpdateUserRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address *string `json:"address" validate:"omitempty,max=400"`
	Role    *string `json:"role" validate:"omitempty,oneof=user store_owner admin"`
}

// HandleUpdateUser applies a partial update, including role changes.
func (h *AdminHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var req AdminUpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing admin user update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	user, err := h.userService.UpdateUser(c.Params("id"), services.AdminUserUpdate{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		Role:    req.Role,
	})
	if err != nil {
		return serviceError(c, err, "Could not update user")
	}
	return c.JSON(user)
}

// HandleDeleteUser deletes a user and cascades their ratings and stores.
func (h *AdminHandler) HandleDeleteUser(c *fiber.Ctx) error {
	if err := h.userService.DeleteUser(c.Params("id")); err != nil {
		return serviceError(c, err, "Could not delete user")
	}
	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
	})
}

// HandleListStores lists stores, filterable by name/email/address.
func (h *AdminHandler) HandleListStores(c *fiber.Ctx) error {
	stores, err := h.storeService.SearchStores(repositories.StoreFilter{
		Name:    c.Query("name"),
		Email:   c.Query("email"),
		Address: c.Query("address"),
	})
	if err != nil {
		return serviceError(c, err, "Could not retrieve stores")
	}
	return c.JSON(stores)
}

// HandleGetStore returns one store with its rating aggregate.
func (h *AdminHandler) HandleGetStore(c *fiber.Ctx) error {
	store, err := h.storeService.GetStoreByID(c.Params("id"))
	if err != nil {
		return serviceError(c, err, "Could not retrieve store")
	}
	return c.JSON(store)
}

// AdminCreateStoreRequest represents the admin store-creation body. The
// owner is assigned explicitly and may own several stores.
type AdminCreateStoreRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"required,max=400"`
	OwnerID string `json:"ownerId" validate:"required"`
}

// HandleCreateStore creates a store for an explicitly assigned owner. The
// owner must exist and hold the store_owner role.
func (h *AdminHandler) HandleCreateStore(c *fiber.Ctx) error {
	var req AdminCreateStoreRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing admin store body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	store, err := h.storeService.CreateStoreForOwner(req.OwnerID, services.StoreInput{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		return serviceError(c, err, "Could not create store")
	}
	return c.Status(fiber.StatusCreated).JSON(store)
}

// HandleUpdateStore applies a partial admin update to any store.
func (h *AdminHandler) HandleUpdateStore(c *fiber.Ctx) error {
	var req OwnStoreUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing admin store update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	store, err := h.storeService.UpdateStore(c.Params("id"), services.OwnStoreUpdate{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		return serviceError(c, err, "Could not update store")
	}
	return c.JSON(store)
}

// HandleDeleteStore deletes any store along with its ratings.
func (h *AdminHandler) HandleDeleteStore(c *fiber.Ctx) error {
	if err := h.storeService.DeleteStore(c.Params("id")); err != nil {
		return serviceError(c, err, "Could not delete store")
	}
	return c.JSON(fiber.Map{
		"message": "Store deleted successfully",
	})
}

// HandleDashboard returns the aggregate admin summary.
func (h *AdminHandler) HandleDashboard(c *fiber.Ctx) error {
	stats, err := h.dashboardService.GetStats()
	if err != nil {
		return serviceError(c, err, "Could not retrieve dashboard stats")
	}
	return c.JSON(stats)
}

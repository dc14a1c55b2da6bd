package handlers

import (
	"log"

	"tokorating/internal/middleware"
	"tokorating/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// StoreHandler handles the public store listings and rating submission.
type StoreHandler struct {
	storeService  *services.StoreService
	ratingService *services.RatingService
	validate      *validator.Validate
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(storeService *services.StoreService, ratingService *services.RatingService) *StoreHandler {
	return &StoreHandler{
		storeService:  storeService,
		ratingService: ratingService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the store routes under /stores. The listings are
// public; only rating submission carries the auth middleware, attached at
// the route level so the GET routes stay open.
func (h *StoreHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	storeRoutes := router.Group("/stores")
	storeRoutes.Get("/", h.HandleGetStores)
	storeRoutes.Get("/top", h.HandleGetTopStores)
	storeRoutes.Get("/:id", h.HandleGetStoreByID)
	storeRoutes.Get("/:id/ratings", h.HandleGetStoreRatings)
	storeRoutes.Post("/:id/ratings", auth, h.HandleSubmitRating)
}

// HandleGetStores lists all stores with their rating aggregates.
func (h *StoreHandler) HandleGetStores(c *fiber.Ctx) error {
	stores, err := h.storeService.GetAllStores()
	if err != nil {
		return serviceError(c, err, "Could not retrieve stores")
	}
	return c.JSON(stores)
}

// HandleGetTopStores lists the best-rated stores.
func (h *StoreHandler) HandleGetTopStores(c *fiber.Ctx) error {
	stores, err := h.storeService.GetTopStores(services.TopStoreLimit)
	if err != nil {
		return serviceError(c, err, "Could not retrieve top stores")
	}
	return c.JSON(stores)
}

// HandleGetStoreByID returns one store with its rating aggregate.
func (h *StoreHandler) HandleGetStoreByID(c *fiber.Ctx) error {
	store, err := h.storeService.GetStoreByID(c.Params("id"))
	if err != nil {
		return serviceError(c, err, "Could not retrieve store")
	}
	return c.JSON(store)
}

// HandleGetStoreRatings lists a store's ratings with rater names.
func (h *StoreHandler) HandleGetStoreRatings(c *fiber.Ctx) error {
	ratings, err := h.ratingService.GetStoreRatings(c.Params("id"))
	if err != nil {
		return serviceError(c, err, "Could not retrieve ratings")
	}
	return c.JSON(ratings)
}

// SubmitRatingRequest represents the rating submission body. Comment is a
// pointer so an omitted comment can be told apart from an explicit empty
// one: omitted preserves the stored comment, explicit replaces it.
type SubmitRatingRequest struct {
	Value   int     `json:"value" validate:"required,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=1000"`
}

// HandleSubmitRating creates or updates the caller's rating for the store.
// Returns 201 when a new rating was created, 200 when an existing one was
// updated.
func (h *StoreHandler) HandleSubmitRating(c *fiber.Ctx) error {
	var req SubmitRatingRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing rating request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	rating, created, err := h.ratingService.SubmitRating(middleware.UserID(c), c.Params("id"), req.Value, req.Comment)
	if err != nil {
		return serviceError(c, err, "Could not submit rating")
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(rating)
}

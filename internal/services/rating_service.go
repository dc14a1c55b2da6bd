package services

import (
	"encoding/json"
	"fmt"
	"log"

	"tokorating/internal/models"
	"tokorating/internal/repositories"
)

// EventPublisher publishes rating events to the message broker. Satisfied
// by *rabbitmq.Client; nil disables eventing.
type EventPublisher interface {
	PublishRatingSubmitted(body []byte) error
}

// RatingService handles rating submission and the rating listings.
type RatingService struct {
	ratingRepo repositories.RatingRepository
	storeRepo  repositories.StoreRepository
	userRepo   repositories.UserRepository
	publisher  EventPublisher
}

// NewRatingService creates a new RatingService.
func NewRatingService(ratingRepo repositories.RatingRepository, storeRepo repositories.StoreRepository, userRepo repositories.UserRepository, publisher EventPublisher) *RatingService {
	return &RatingService{
		ratingRepo: ratingRepo,
		storeRepo:  storeRepo,
		userRepo:   userRepo,
		publisher:  publisher,
	}
}

// SubmitRating creates or updates the caller's rating for a store. The
// value must be an integer from 1 to 5 and the store must exist. A nil
// comment preserves the previously stored comment; a non-nil one (even
// empty) replaces it. The returned flag reports whether a new rating row
// was created.
func (s *RatingService) SubmitRating(userID, storeID string, value int, comment *string) (*models.Rating, bool, error) {
	if value < 1 || value > 5 {
		return nil, false, fmt.Errorf("%w: rating value must be between 1 and 5", ErrValidation)
	}

	if _, err := s.storeRepo.GetByID(storeID); err != nil {
		return nil, false, fmt.Errorf("%w: store %s", ErrNotFound, storeID)
	}

	rating := &models.Rating{
		Value:   value,
		UserID:  userID,
		StoreID: storeID,
	}
	if comment != nil {
		rating.Comment = *comment
	}

	stored, created, err := s.ratingRepo.Upsert(rating, comment != nil)
	if err != nil {
		return nil, false, err
	}

	s.publishSubmitted(stored, created)
	return stored, created, nil
}

// publishSubmitted emits a rating-submitted event. Failures are logged and
// never fail the submission.
func (s *RatingService) publishSubmitted(rating *models.Rating, created bool) {
	if s.publisher == nil {
		return
	}

	event := map[string]interface{}{
		"ratingID": rating.ID,
		"userID":   rating.UserID,
		"storeID":  rating.StoreID,
		"value":    rating.Value,
		"created":  created,
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal rating event: %v", err)
		return
	}
	if err := s.publisher.PublishRatingSubmitted(body); err != nil {
		log.Printf("Warning: failed to publish rating event for rating %s: %v", rating.ID, err)
	}
}

// GetStoreRatings returns all ratings for a store, newest first, each
// enriched with the rater's name. The store must exist.
func (s *RatingService) GetStoreRatings(storeID string) ([]models.RatingWithUser, error) {
	if _, err := s.storeRepo.GetByID(storeID); err != nil {
		return nil, fmt.Errorf("%w: store %s", ErrNotFound, storeID)
	}

	ratings, err := s.ratingRepo.GetByStore(storeID)
	if err != nil {
		return nil, err
	}

	enriched := make([]models.RatingWithUser, 0, len(ratings))
	for _, rating := range ratings {
		entry := models.RatingWithUser{Rating: rating}
		if user, err := s.userRepo.GetByID(rating.UserID); err == nil {
			entry.User = models.RaterSummary{ID: user.ID, Name: user.Name}
		}
		enriched = append(enriched, entry)
	}
	return enriched, nil
}

// GetUserRatings returns the user's own ratings, newest first, each
// enriched with its store.
func (s *RatingService) GetUserRatings(userID string) ([]models.RatingWithStore, error) {
	ratings, err := s.ratingRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}

	enriched := make([]models.RatingWithStore, 0, len(ratings))
	for _, rating := range ratings {
		entry := models.RatingWithStore{Rating: rating}
		if store, err := s.storeRepo.GetByID(rating.StoreID); err == nil {
			entry.Store = models.RatedStoreSummary{
				ID:      store.ID,
				Name:    store.Name,
				Address: store.Address,
				Email:   store.Email,
			}
		}
		enriched = append(enriched, entry)
	}
	return enriched, nil
}

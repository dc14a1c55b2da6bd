package services

import (
	"fmt"
	"log"
	"sort"

	"tokorating/internal/models"
	"tokorating/internal/repositories"
)

// TopStoreLimit is the number of entries returned by the public top-stores
// listing.
const TopStoreLimit = 6

// StoreService handles store listings, the store-owner self-service path and
// the admin store operations. Rating aggregates are always computed at read
// time from the rating repository.
type StoreService struct {
	storeRepo  repositories.StoreRepository
	userRepo   repositories.UserRepository
	ratingRepo repositories.RatingRepository
}

// NewStoreService creates a new StoreService.
func NewStoreService(storeRepo repositories.StoreRepository, userRepo repositories.UserRepository, ratingRepo repositories.RatingRepository) *StoreService {
	return &StoreService{
		storeRepo:  storeRepo,
		userRepo:   userRepo,
		ratingRepo: ratingRepo,
	}
}

func (s *StoreService) withAggregates(stores []models.Store) []models.StoreWithRating {
	enriched := make([]models.StoreWithRating, 0, len(stores))
	for _, store := range stores {
		agg, err := s.ratingRepo.AggregateByStore(store.ID)
		if err != nil {
			log.Printf("Failed to aggregate ratings for store %s: %v", store.ID, err)
			agg = models.RatingAggregate{}
		}
		enriched = append(enriched, models.StoreWithRating{
			Store:         store,
			AverageRating: agg.Average,
			TotalRatings:  agg.Count,
		})
	}
	return enriched
}

// GetAllStores returns every store with its rating aggregate.
func (s *StoreService) GetAllStores() ([]models.StoreWithRating, error) {
	stores, err := s.storeRepo.GetAll()
	if err != nil {
		return nil, err
	}
	return s.withAggregates(stores), nil
}

// GetTopStores returns at most limit stores ranked by average rating,
// descending. The sort is stable, so ties keep their original order.
func (s *StoreService) GetTopStores(limit int) ([]models.StoreWithRating, error) {
	stores, err := s.GetAllStores()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(stores, func(i, j int) bool {
		return stores[i].AverageRating > stores[j].AverageRating
	})
	if len(stores) > limit {
		stores = stores[:limit]
	}
	return stores, nil
}

// GetStoreByID returns one store with its rating aggregate.
func (s *StoreService) GetStoreByID(id string) (*models.StoreWithRating, error) {
	store, err := s.storeRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: store %s", ErrNotFound, id)
	}

	agg, err := s.ratingRepo.AggregateByStore(store.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings for store %s: %w", store.ID, err)
	}
	return &models.StoreWithRating{
		Store:         *store,
		AverageRating: agg.Average,
		TotalRatings:  agg.Count,
	}, nil
}

// GetStoresByOwner returns the owner's stores with aggregates.
func (s *StoreService) GetStoresByOwner(ownerID string) ([]models.StoreWithRating, error) {
	stores, err := s.storeRepo.GetByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	return s.withAggregates(stores), nil
}

// StoreInput carries the writable store fields.
type StoreInput struct {
	Name    string
	Email   string
	Address string
}

// CreateOrReplaceOwnStore is the store-owner self-service path: one store
// per owner. If the owner already has a store its fields are replaced,
// otherwise a new store is created. The returned flag reports creation.
func (s *StoreService) CreateOrReplaceOwnStore(ownerID string, input StoreInput) (*models.Store, bool, error) {
	existing, err := s.storeRepo.GetFirstByOwner(ownerID)
	if err == nil {
		existing.Name = input.Name
		existing.Email = input.Email
		existing.Address = input.Address
		if err := s.storeRepo.Update(existing); err != nil {
			return nil, false, fmt.Errorf("failed to update own store: %w", err)
		}
		return existing, false, nil
	}

	store := &models.Store{
		Name:    input.Name,
		Email:   input.Email,
		Address: input.Address,
		OwnerID: ownerID,
	}
	if err := s.storeRepo.Create(store); err != nil {
		return nil, false, fmt.Errorf("failed to create own store: %w", err)
	}
	return store, true, nil
}

// OwnStoreUpdate carries the optional store fields; nil means "keep".
type OwnStoreUpdate struct {
	Name    *string
	Email   *string
	Address *string
}

// UpdateOwnStore applies a partial update to a store the caller owns. A
// store that exists but belongs to someone else is indistinguishable from a
// missing one.
func (s *StoreService) UpdateOwnStore(ownerID, storeID string, update OwnStoreUpdate) (*models.Store, error) {
	store, err := s.storeRepo.GetByIDAndOwner(storeID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: store %s for owner %s", ErrNotFound, storeID, ownerID)
	}

	if update.Name != nil {
		store.Name = *update.Name
	}
	if update.Email != nil {
		store.Email = *update.Email
	}
	if update.Address != nil {
		store.Address = *update.Address
	}

	if err := s.storeRepo.Update(store); err != nil {
		return nil, fmt.Errorf("failed to update store %s: %w", storeID, err)
	}
	return store, nil
}

// DeleteOwnStore deletes a store the caller owns, cascading its ratings.
func (s *StoreService) DeleteOwnStore(ownerID, storeID string) error {
	store, err := s.storeRepo.GetByIDAndOwner(storeID, ownerID)
	if err != nil {
		return fmt.Errorf("%w: store %s for owner %s", ErrNotFound, storeID, ownerID)
	}
	return s.deleteStoreCascading(store.ID)
}

// CreateStoreForOwner is the admin path: the owner is assigned explicitly
// and may own several stores. The owner must exist and hold the
// store_owner role.
func (s *StoreService) CreateStoreForOwner(ownerID string, input StoreInput) (*models.Store, error) {
	owner, err := s.userRepo.GetByID(ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: owner %s", ErrNotFound, ownerID)
	}
	if owner.Role != models.RoleStoreOwner {
		return nil, fmt.Errorf("%w: user %s must have the store_owner role to own a store", ErrValidation, ownerID)
	}

	store := &models.Store{
		Name:    input.Name,
		Email:   input.Email,
		Address: input.Address,
		OwnerID: ownerID,
	}
	if err := s.storeRepo.Create(store); err != nil {
		return nil, fmt.Errorf("failed to create store for owner %s: %w", ownerID, err)
	}
	return store, nil
}

// StoreWithOwner is an admin listing entry: the store with its aggregate
// and a summary of its owner.
type StoreWithOwner struct {
	models.StoreWithRating
	Owner *models.OwnerSummary `json:"owner,omitempty"`
}

// SearchStores returns stores matching the admin listing filters.
func (s *StoreService) SearchStores(filter repositories.StoreFilter) ([]StoreWithOwner, error) {
	stores, err := s.storeRepo.Search(filter)
	if err != nil {
		return nil, err
	}

	result := make([]StoreWithOwner, 0, len(stores))
	for _, enriched := range s.withAggregates(stores) {
		entry := StoreWithOwner{StoreWithRating: enriched}
		if owner, err := s.userRepo.GetByID(enriched.OwnerID); err == nil {
			entry.Owner = &models.OwnerSummary{ID: owner.ID, Name: owner.Name, Email: owner.Email}
		}
		result = append(result, entry)
	}
	return result, nil
}

// UpdateStore applies a partial admin update to any store.
func (s *StoreService) UpdateStore(storeID string, update OwnStoreUpdate) (*models.Store, error) {
	store, err := s.storeRepo.GetByID(storeID)
	if err != nil {
		return nil, fmt.Errorf("%w: store %s", ErrNotFound, storeID)
	}

	if update.Name != nil {
		store.Name = *update.Name
	}
	if update.Email != nil {
		store.Email = *update.Email
	}
	if update.Address != nil {
		store.Address = *update.Address
	}

	if err := s.storeRepo.Update(store); err != nil {
		return nil, fmt.Errorf("failed to update store %s: %w", storeID, err)
	}
	return store, nil
}

// DeleteStore deletes any store (admin path), cascading its ratings.
func (s *StoreService) DeleteStore(storeID string) error {
	if _, err := s.storeRepo.GetByID(storeID); err != nil {
		return fmt.Errorf("%w: store %s", ErrNotFound, storeID)
	}
	return s.deleteStoreCascading(storeID)
}

func (s *StoreService) deleteStoreCascading(storeID string) error {
	if err := s.ratingRepo.DeleteByStore(storeID); err != nil {
		return fmt.Errorf("failed to delete ratings of store %s: %w", storeID, err)
	}
	if err := s.storeRepo.Delete(storeID); err != nil {
		return fmt.Errorf("failed to delete store %s: %w", storeID, err)
	}
	return nil
}

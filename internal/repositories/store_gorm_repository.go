package repositories

import (
	"fmt"

	"tokorating/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMStoreRepository is a GORM implementation of StoreRepository.
type GORMStoreRepository struct {
	db *gorm.DB
}

// NewGORMStoreRepository creates a new instance of GORMStoreRepository.
func NewGORMStoreRepository(db *gorm.DB) *GORMStoreRepository {
	return &GORMStoreRepository{
		db: db,
	}
}

// Create creates a new store in the database.
func (r *GORMStoreRepository) Create(store *models.Store) error {
	if store.ID == "" {
		store.ID = uuid.New().String()
	}
	if err := r.db.Create(store).Error; err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	return nil
}

// GetAll retrieves all stores from the database.
func (r *GORMStoreRepository) GetAll() ([]models.Store, error) {
	var stores []models.Store
	if err := r.db.Find(&stores).Error; err != nil {
		return nil, fmt.Errorf("failed to get all stores: %w", err)
	}
	return stores, nil
}

// GetByID retrieves a single store by its ID from the database.
func (r *GORMStoreRepository) GetByID(id string) (*models.Store, error) {
	var store models.Store
	if err := r.db.First(&store, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("store with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get store by ID %s: %w", id, err)
	}
	return &store, nil
}

// GetByOwner retrieves all stores owned by the given user.
func (r *GORMStoreRepository) GetByOwner(ownerID string) ([]models.Store, error) {
	var stores []models.Store
	if err := r.db.Find(&stores, "owner_id = ?", ownerID).Error; err != nil {
		return nil, fmt.Errorf("failed to get stores for owner %s: %w", ownerID, err)
	}
	return stores, nil
}

// GetFirstByOwner retrieves the owner's store for the self-service
// one-store-per-owner path. Returns an error when the owner has no store
// yet.
func (r *GORMStoreRepository) GetFirstByOwner(ownerID string) (*models.Store, error) {
	var store models.Store
	if err := r.db.First(&store, "owner_id = ?", ownerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("no store found for owner %s", ownerID)
		}
		return nil, fmt.Errorf("failed to get store for owner %s: %w", ownerID, err)
	}
	return &store, nil
}

// GetByIDAndOwner retrieves a store only if it belongs to the given owner.
func (r *GORMStoreRepository) GetByIDAndOwner(id, ownerID string) (*models.Store, error) {
	var store models.Store
	if err := r.db.First(&store, "id = ? AND owner_id = ?", id, ownerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("store with ID %s not found for owner %s", id, ownerID)
		}
		return nil, fmt.Errorf("failed to get store %s for owner %s: %w", id, ownerID, err)
	}
	return &store, nil
}

// Search retrieves stores matching the given filter. Empty filter fields
// are ignored.
func (r *GORMStoreRepository) Search(filter StoreFilter) ([]models.Store, error) {
	query := r.db
	if filter.Name != "" {
		query = query.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Email != "" {
		query = query.Where("email LIKE ?", "%"+filter.Email+"%")
	}
	if filter.Address != "" {
		query = query.Where("address LIKE ?", "%"+filter.Address+"%")
	}

	var stores []models.Store
	if err := query.Find(&stores).Error; err != nil {
		return nil, fmt.Errorf("failed to search stores: %w", err)
	}
	return stores, nil
}

// Update updates an existing store in the database.
func (r *GORMStoreRepository) Update(store *models.Store) error {
	res := r.db.Save(store)
	if res.Error != nil {
		return fmt.Errorf("failed to update store: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("store with ID %s not found for update", store.ID)
	}
	return nil
}

// Delete deletes a store by its ID from the database.
func (r *GORMStoreRepository) Delete(id string) error {
	res := r.db.Delete(&models.Store{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete store: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("store with ID %s not found for deletion", id)
	}
	return nil
}

// Count returns the total number of stores.
func (r *GORMStoreRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Store{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count stores: %w", err)
	}
	return count, nil
}

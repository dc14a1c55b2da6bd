package repositories

import "tokorating/internal/models"

// StoreFilter holds the optional admin store listing filters, all matched
// as substrings.
type StoreFilter struct {
	Name    string
	Email   string
	Address string
}

// StoreRepository defines the interface for store data access.
type StoreRepository interface {
	Create(store *models.Store) error
	GetAll() ([]models.Store, error)
	GetByID(id string) (*models.Store, error)
	GetByOwner(ownerID string) ([]models.Store, error)
	GetFirstByOwner(ownerID string) (*models.Store, error)
	GetByIDAndOwner(id, ownerID string) (*models.Store, error)
	Search(filter StoreFilter) ([]models.Store, error)
	Update(store *models.Store) error
	Delete(id string) error
	Count() (int64, error)
}

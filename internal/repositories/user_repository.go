package repositories

import "tokorating/internal/models"

// UserFilter holds the optional admin listing filters. Name, Email and
// Address match as substrings; Role matches exactly.
type UserFilter struct {
	Name    string
	Email   string
	Address string
	Role    string
}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Search(filter UserFilter) ([]models.User, error)
	Update(user *models.User) error
	Delete(id string) error
	Count() (int64, error)
	CountByRole(role models.Role) (int64, error)
}

package services

import (
	"fmt"
	"log"
	"strings"

	"tokorating/internal/models"
	"tokorating/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles profile management and the admin user operations.
type UserService struct {
	userRepo   repositories.UserRepository
	storeRepo  repositories.StoreRepository
	ratingRepo repositories.RatingRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, storeRepo repositories.StoreRepository, ratingRepo repositories.RatingRepository) *UserService {
	return &UserService{
		userRepo:   userRepo,
		storeRepo:  storeRepo,
		ratingRepo: ratingRepo,
	}
}

// GetProfile returns the user record for the given ID.
func (s *UserService) GetProfile(userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	return user, nil
}

// ProfileUpdate carries the optional profile fields; nil means "keep".
type ProfileUpdate struct {
	Name    *string
	Email   *string
	Address *string
}

// UpdateProfile applies a partial update to the user's own profile.
func (s *UserService) UpdateProfile(userID string, update ProfileUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Address != nil {
		user.Address = *update.Address
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// UpdatePassword replaces the user's password with a fresh bcrypt hash.
func (s *UserService) UpdatePassword(userID, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password required", ErrValidation)
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)

	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// SearchUsers returns users matching the admin listing filters.
func (s *UserService) SearchUsers(filter repositories.UserFilter) ([]models.User, error) {
	if filter.Role != "" && !models.Role(filter.Role).Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, filter.Role)
	}
	return s.userRepo.Search(filter)
}

// UserDetails is a user enriched, for store owners, with their stores and
// rating aggregates.
type UserDetails struct {
	models.User
	Stores []models.StoreWithRating `json:"stores,omitempty"`
}

// GetUserDetails returns a single user; store_owner users additionally carry
// their stores with aggregates.
func (s *UserService) GetUserDetails(userID string) (*UserDetails, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	details := &UserDetails{User: *user}
	if user.Role != models.RoleStoreOwner {
		return details, nil
	}

	stores, err := s.storeRepo.GetByOwner(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stores for owner %s: %w", user.ID, err)
	}
	for _, store := range stores {
		agg, err := s.ratingRepo.AggregateByStore(store.ID)
		if err != nil {
			// One broken aggregate should not hide the store itself.
			log.Printf("Failed to aggregate ratings for store %s: %v", store.ID, err)
			agg = models.RatingAggregate{}
		}
		details.Stores = append(details.Stores, models.StoreWithRating{
			Store:         store,
			AverageRating: agg.Average,
			TotalRatings:  agg.Count,
		})
	}
	return details, nil
}

// CreateUser creates a user on behalf of an admin; the role is explicit and
// every field is required.
func (s *UserService) CreateUser(user *models.User) error {
	if !user.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrValidation, user.Role)
	}
	if existing, err := s.userRepo.GetByEmail(user.Email); err == nil && existing != nil {
		return fmt.Errorf("%w: email '%s' already registered", ErrConflict, user.Email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)

	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// AdminUserUpdate carries the optional admin-editable fields.
type AdminUserUpdate struct {
	Name    *string
	Email   *string
	Address *string
	Role    *string
}

// UpdateUser applies a partial admin update, including role changes.
func (s *UserService) UpdateUser(userID string, update AdminUserUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Address != nil {
		user.Address = *update.Address
	}
	if update.Role != nil {
		role := models.Role(strings.TrimSpace(*update.Role))
		if !role.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
		}
		user.Role = role
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteUser deletes a user and cascades: the user's own ratings go, and so
// does every store they own together with that store's ratings.
func (s *UserService) DeleteUser(userID string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	if err := s.ratingRepo.DeleteByUser(user.ID); err != nil {
		return fmt.Errorf("failed to delete ratings of user %s: %w", user.ID, err)
	}

	stores, err := s.storeRepo.GetByOwner(user.ID)
	if err != nil {
		return fmt.Errorf("failed to load stores of user %s: %w", user.ID, err)
	}
	for _, store := range stores {
		if err := s.ratingRepo.DeleteByStore(store.ID); err != nil {
			return fmt.Errorf("failed to delete ratings of store %s: %w", store.ID, err)
		}
		if err := s.storeRepo.Delete(store.ID); err != nil {
			return fmt.Errorf("failed to delete store %s: %w", store.ID, err)
		}
	}

	if err := s.userRepo.Delete(user.ID); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", user.ID, err)
	}
	return nil
}

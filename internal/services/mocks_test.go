package services_test

import (
	"tokorating/internal/models"
	"tokorating/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Search(filter repositories.UserFilter) ([]models.User, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUserRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountByRole(role models.Role) (int64, error) {
	args := m.Called(role)
	return args.Get(0).(int64), args.Error(1)
}

// MockStoreRepository is a mock implementation of repositories.StoreRepository
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) Create(store *models.Store) error {
	args := m.Called(store)
	return args.Error(0)
}

func (m *MockStoreRepository) GetAll() ([]models.Store, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Store), args.Error(1)
}

func (m *MockStoreRepository) GetByID(id string) (*models.Store, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Store), args.Error(1)
}

func (m *MockStoreRepository) GetByOwner(ownerID string) ([]models.Store, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Store), args.Error(1)
}

func (m *MockStoreRepository) GetFirstByOwner(ownerID string) (*models.Store, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Store), args.Error(1)
}

func (m *MockStoreRepository) GetByIDAndOwner(id, ownerID string) (*models.Store, error) {
	args := m.Called(id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Store), args.Error(1)
}

func (m *MockStoreRepository) Search(filter repositories.StoreFilter) ([]models.Store, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Store), args.Error(1)
}

func (m *MockStoreRepository) Update(store *models.Store) error {
	args := m.Called(store)
	return args.Error(0)
}

func (m *MockStoreRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStoreRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockRatingRepository is a mock implementation of repositories.RatingRepository
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Upsert(rating *models.Rating, updateComment bool) (*models.Rating, bool, error) {
	args := m.Called(rating, updateComment)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Rating), args.Bool(1), args.Error(2)
}

func (m *MockRatingRepository) GetByStore(storeID string) ([]models.Rating, error) {
	args := m.Called(storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Rating), args.Error(1)
}

func (m *MockRatingRepository) GetByUser(userID string) ([]models.Rating, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Rating), args.Error(1)
}

func (m *MockRatingRepository) AggregateByStore(storeID string) (models.RatingAggregate, error) {
	args := m.Called(storeID)
	return args.Get(0).(models.RatingAggregate), args.Error(1)
}

func (m *MockRatingRepository) GetRecent(limit int) ([]models.Rating, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Rating), args.Error(1)
}

func (m *MockRatingRepository) DeleteByStore(storeID string) error {
	args := m.Called(storeID)
	return args.Error(0)
}

func (m *MockRatingRepository) DeleteByUser(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockRatingRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishRatingSubmitted(body []byte) error {
	args := m.Called(body)
	return args.Error(0)
}

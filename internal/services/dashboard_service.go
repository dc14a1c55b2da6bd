package services

import (
	"fmt"
	"log"

	"tokorating/internal/models"
	"tokorating/internal/repositories"
)

// dashboardTopStores and dashboardRecent bound the dashboard listings.
const (
	dashboardTopStores = 5
	dashboardRecent    = 5
)

// DashboardService assembles the admin summary. The three basic counts must
// succeed; each of the derived sections degrades to an empty collection on
// failure so one broken query cannot take down the whole dashboard.
type DashboardService struct {
	userRepo     repositories.UserRepository
	storeRepo    repositories.StoreRepository
	ratingRepo   repositories.RatingRepository
	storeService *StoreService
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(userRepo repositories.UserRepository, storeRepo repositories.StoreRepository, ratingRepo repositories.RatingRepository, storeService *StoreService) *DashboardService {
	return &DashboardService{
		userRepo:     userRepo,
		storeRepo:    storeRepo,
		ratingRepo:   ratingRepo,
		storeService: storeService,
	}
}

// GetStats returns the dashboard payload.
func (s *DashboardService) GetStats() (*models.DashboardStats, error) {
	totalUsers, err := s.userRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	totalStores, err := s.storeRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count stores: %w", err)
	}
	totalRatings, err := s.ratingRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count ratings: %w", err)
	}

	stats := &models.DashboardStats{
		TotalUsers:     totalUsers,
		TotalStores:    totalStores,
		TotalRatings:   totalRatings,
		UsersByRole:    []models.RoleCount{},
		TopStores:      []models.StoreWithRating{},
		RecentActivity: []models.ActivityEntry{},
	}

	if usersByRole, err := s.usersByRole(); err != nil {
		log.Printf("Error fetching user role counts: %v", err)
	} else {
		stats.UsersByRole = usersByRole
	}

	if topStores, err := s.storeService.GetTopStores(dashboardTopStores); err != nil {
		log.Printf("Error fetching top stores: %v", err)
	} else {
		stats.TopStores = topStores
	}

	if recent, err := s.recentActivity(); err != nil {
		log.Printf("Error fetching recent activity: %v", err)
	} else {
		stats.RecentActivity = recent
	}

	return stats, nil
}

// usersByRole counts users per role. Every role value appears in the
// result, zero counts included, so the client renders a stable set.
func (s *DashboardService) usersByRole() ([]models.RoleCount, error) {
	counts := make([]models.RoleCount, 0, 3)
	for _, role := range models.AllRoles() {
		count, err := s.userRepo.CountByRole(role)
		if err != nil {
			return nil, err
		}
		counts = append(counts, models.RoleCount{Role: role, Count: count})
	}
	return counts, nil
}

// recentActivity returns the latest ratings enriched with user and store
// names.
func (s *DashboardService) recentActivity() ([]models.ActivityEntry, error) {
	ratings, err := s.ratingRepo.GetRecent(dashboardRecent)
	if err != nil {
		return nil, err
	}

	entries := make([]models.ActivityEntry, 0, len(ratings))
	for _, rating := range ratings {
		entry := models.ActivityEntry{Rating: rating}
		if user, err := s.userRepo.GetByID(rating.UserID); err == nil {
			entry.User = models.RaterSummary{ID: user.ID, Name: user.Name}
		}
		if store, err := s.storeRepo.GetByID(rating.StoreID); err == nil {
			entry.Store = models.RatedStoreSummary{ID: store.ID, Name: store.Name, Address: store.Address, Email: store.Email}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

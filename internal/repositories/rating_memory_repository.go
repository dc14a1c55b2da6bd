package repositories

import (
	"sort"
	"sync"
	"time"

	"tokorating/internal/models"

	"github.com/google/uuid"
)

// MemoryRatingRepository is an in-memory implementation of RatingRepository,
// keyed by (userID, storeID). The mutex serializes Upsert, so it provides
// the same one-rating-per-pair guarantee as the database unique index.
type MemoryRatingRepository struct {
	ratings map[[2]string]models.Rating
	mu      sync.RWMutex
}

// NewMemoryRatingRepository creates a new instance of MemoryRatingRepository.
func NewMemoryRatingRepository() *MemoryRatingRepository {
	return &MemoryRatingRepository{
		ratings: make(map[[2]string]models.Rating),
	}
}

func pairKey(userID, storeID string) [2]string {
	return [2]string{userID, storeID}
}

// Upsert creates or updates the rating for its (user, store) pair.
func (r *MemoryRatingRepository) Upsert(rating *models.Rating, updateComment bool) (*models.Rating, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(rating.UserID, rating.StoreID)
	now := time.Now()

	existing, ok := r.ratings[key]
	if !ok {
		stored := *rating
		stored.ID = uuid.New().String()
		stored.CreatedAt = now
		stored.UpdatedAt = now
		r.ratings[key] = stored
		return &stored, true, nil
	}

	existing.Value = rating.Value
	if updateComment {
		existing.Comment = rating.Comment
	}
	existing.UpdatedAt = now
	r.ratings[key] = existing
	return &existing, false, nil
}

// GetByStore returns all ratings for a store, newest first.
func (r *MemoryRatingRepository) GetByStore(storeID string) ([]models.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ratings := make([]models.Rating, 0)
	for key, rating := range r.ratings {
		if key[1] == storeID {
			ratings = append(ratings, rating)
		}
	}
	sortNewestFirst(ratings)
	return ratings, nil
}

// GetByUser returns all ratings submitted by a user, newest first.
func (r *MemoryRatingRepository) GetByUser(userID string) ([]models.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ratings := make([]models.Rating, 0)
	for key, rating := range r.ratings {
		if key[0] == userID {
			ratings = append(ratings, rating)
		}
	}
	sortNewestFirst(ratings)
	return ratings, nil
}

// AggregateByStore computes the average and count over a store's ratings.
func (r *MemoryRatingRepository) AggregateByStore(storeID string) (models.RatingAggregate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var agg models.RatingAggregate
	var total int
	for key, rating := range r.ratings {
		if key[1] == storeID {
			total += rating.Value
			agg.Count++
		}
	}
	if agg.Count > 0 {
		agg.Average = float64(total) / float64(agg.Count)
	}
	return agg, nil
}

// GetRecent returns the most recently created ratings.
func (r *MemoryRatingRepository) GetRecent(limit int) ([]models.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ratings := make([]models.Rating, 0, len(r.ratings))
	for _, rating := range r.ratings {
		ratings = append(ratings, rating)
	}
	sortNewestFirst(ratings)
	if len(ratings) > limit {
		ratings = ratings[:limit]
	}
	return ratings, nil
}

// DeleteByStore removes all ratings for a store.
func (r *MemoryRatingRepository) DeleteByStore(storeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.ratings {
		if key[1] == storeID {
			delete(r.ratings, key)
		}
	}
	return nil
}

// DeleteByUser removes all ratings submitted by a user.
func (r *MemoryRatingRepository) DeleteByUser(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.ratings {
		if key[0] == userID {
			delete(r.ratings, key)
		}
	}
	return nil
}

// Count returns the total number of ratings.
func (r *MemoryRatingRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.ratings)), nil
}

func sortNewestFirst(ratings []models.Rating) {
	sort.SliceStable(ratings, func(i, j int) bool {
		return ratings[i].CreatedAt.After(ratings[j].CreatedAt)
	})
}

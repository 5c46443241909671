package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bapesu/storefront-api/internal/domains/orders/domain"
	"github.com/bapesu/storefront-api/internal/domains/orders/ports"
)

var _ ports.RatingStore = (*RatingStore)(nil)

type ratingKey struct {
	productID int64
	orderID   string
	userID    string
}

// RatingStore keeps product ratings in memory, keyed by the composite
// (product, order, user) identity.
type RatingStore struct {
	mu      sync.RWMutex
	ratings map[ratingKey]domain.Rating
	now     func() time.Time
}

func NewRatingStore() *RatingStore {
	return &RatingStore{
		ratings: map[ratingKey]domain.Rating{},
		now:     time.Now,
	}
}

func (s *RatingStore) Upsert(_ context.Context, rating domain.Rating) (*domain.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := ratingKey{productID: rating.ProductID, orderID: rating.OrderID, userID: rating.UserID}
	now := s.now()
	if existing, ok := s.ratings[key]; ok {
		rating.CreatedAt = existing.CreatedAt
	} else {
		rating.CreatedAt = now
	}
	rating.UpdatedAt = now
	s.ratings[key] = rating
	clone := rating
	return &clone, nil
}

func (s *RatingStore) ListByOrder(_ context.Context, orderID, userID string) ([]domain.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Rating{}
	for key, rating := range s.ratings {
		if key.orderID == orderID && key.userID == userID {
			out = append(out, rating)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

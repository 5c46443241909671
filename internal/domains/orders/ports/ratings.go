package ports

import (
	"context"

	"github.com/bapesu/storefront-api/internal/domains/orders/domain"
)

// RatingStore persists product ratings keyed by (product, order, user).
// Upsert must be a true upsert: two near-simultaneous submissions for the same
// key resolve to last-write-wins, never a duplicate or an insert failure.
type RatingStore interface {
	Upsert(ctx context.Context, rating domain.Rating) (*domain.Rating, error)
	// ListByOrder returns the caller's ratings for the order's items.
	ListByOrder(ctx context.Context, orderID, userID string) ([]domain.Rating, error)
}

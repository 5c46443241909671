package ports

import (
	"context"

	"github.com/bapesu/storefront-api/internal/domains/cart/domain"
)

// CacheStore mirrors cart/wishlist snapshots to durable storage so a session
// can rehydrate after a restart. Load returns an empty snapshot, not an
// error, when nothing is stored for the user.
type CacheStore interface {
	Load(ctx context.Context, userID string) (domain.Snapshot, error)
	Save(ctx context.Context, userID string, snapshot domain.Snapshot) error
}

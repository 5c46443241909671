package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/bapesu/storefront-api/internal/domains/cart/domain"
	"github.com/bapesu/storefront-api/internal/domains/cart/ports"
)

// Store holds the live cart/wishlist state per user, rehydrating from the
// durable cache on first touch and mirroring every mutation back to it.
// Cache failures are non-fatal: a failed load starts the user from an empty
// snapshot and a failed save keeps the in-memory mutation.
type Store struct {
	mu     sync.RWMutex
	carts  map[string]domain.Snapshot
	loaded map[string]bool
	cache  ports.CacheStore
	logger *slog.Logger
}

// Option configures optional store collaborators.
type Option func(*Store)

// WithLogger attaches a logger for cache failure reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// NewStore wires the cart store over a durable cache.
func NewStore(cache ports.CacheStore, opts ...Option) *Store {
	s := &Store{
		carts:  map[string]domain.Snapshot{},
		loaded: map[string]bool{},
		cache:  cache,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// AddItem merges the product into the user's cart.
func (s *Store) AddItem(ctx context.Context, userID string, product domain.Product, qty int) (domain.Snapshot, error) {
	return s.apply(ctx, userID, domain.AddItem{Product: product, Quantity: qty})
}

// RemoveItem drops the product's line. Absent lines are a no-op.
func (s *Store) RemoveItem(ctx context.Context, userID string, productID int64) (domain.Snapshot, error) {
	return s.apply(ctx, userID, domain.RemoveItem{ProductID: productID})
}

// SetQuantity replaces a line's quantity; zero or less removes the line.
func (s *Store) SetQuantity(ctx context.Context, userID string, productID int64, qty int) (domain.Snapshot, error) {
	return s.apply(ctx, userID, domain.SetQuantity{ProductID: productID, Quantity: qty})
}

// Clear empties the user's cart.
func (s *Store) Clear(ctx context.Context, userID string) (domain.Snapshot, error) {
	return s.apply(ctx, userID, domain.Clear{})
}

// AddToWishlist favorites the product. The boolean reports whether the entry
// was added; false means it was already present.
func (s *Store) AddToWishlist(ctx context.Context, userID string, product domain.Product) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.loadLocked(ctx, userID)
	if current.InWishlist(product.ID) {
		return false, nil
	}
	next, err := current.Apply(domain.AddWishlist{Product: product})
	if err != nil {
		return false, err
	}
	s.commitLocked(ctx, userID, next)
	return true, nil
}

// RemoveFromWishlist unfavorites the product.
func (s *Store) RemoveFromWishlist(ctx context.Context, userID string, productID int64) (domain.Snapshot, error) {
	return s.apply(ctx, userID, domain.RemoveWishlist{ProductID: productID})
}

// IsInWishlist reports whether the product is favorited.
func (s *Store) IsInWishlist(ctx context.Context, userID string, productID int64) bool {
	return s.Snapshot(ctx, userID).InWishlist(productID)
}

// Snapshot returns the user's current state, rehydrating from the cache on
// first touch.
func (s *Store) Snapshot(ctx context.Context, userID string) domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx, userID)
}

// Total is the current cart total for the user.
func (s *Store) Total(ctx context.Context, userID string) int64 {
	return s.Snapshot(ctx, userID).Total()
}

// Count is the current cart item count for the user.
func (s *Store) Count(ctx context.Context, userID string) int {
	return s.Snapshot(ctx, userID).Count()
}

func (s *Store) apply(ctx context.Context, userID string, cmd domain.Command) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.loadLocked(ctx, userID)
	next, err := current.Apply(cmd)
	if err != nil {
		return current, err
	}
	s.commitLocked(ctx, userID, next)
	return next, nil
}

func (s *Store) loadLocked(ctx context.Context, userID string) domain.Snapshot {
	if s.loaded[userID] {
		return s.carts[userID]
	}
	s.loaded[userID] = true
	if s.cache == nil {
		return s.carts[userID]
	}
	snapshot, err := s.cache.Load(ctx, userID)
	if err != nil {
		s.logWarn(ctx, "cart cache load failed, starting empty", userID, err)
		return s.carts[userID]
	}
	s.carts[userID] = snapshot
	return snapshot
}

func (s *Store) commitLocked(ctx context.Context, userID string, snapshot domain.Snapshot) {
	s.carts[userID] = snapshot
	if s.cache == nil {
		return
	}
	if err := s.cache.Save(ctx, userID, snapshot); err != nil {
		s.logWarn(ctx, "cart cache save failed, in-memory state kept", userID, err)
	}
}

func (s *Store) logWarn(ctx context.Context, msg, userID string, err error) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, msg,
		slog.String("user_id", userID), slog.String("error", err.Error()))
}

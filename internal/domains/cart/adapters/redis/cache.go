package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/bapesu/storefront-api/internal/domains/cart/domain"
	"github.com/bapesu/storefront-api/internal/domains/cart/ports"
)

var _ ports.CacheStore = (*Cache)(nil)

const keyPrefix = "storefront:cart:"

// Cache mirrors cart snapshots into Redis so sessions survive restarts.
// Snapshots are stored as JSON under one key per user.
type Cache struct {
	client *redis.Client
}

// NewCache wires a Redis-backed cart cache. Accepts either a redis:// URL or
// a plain host:port address.
func NewCache(addr string) (*Cache, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			DialTimeout:  10 * time.Second,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		}
	}
	return &Cache{client: redis.NewClient(opts)}, nil
}

// NewCacheWithClient wires the cache over an existing client. Caller manages
// client lifecycle.
func NewCacheWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

type cachedSnapshot struct {
	Lines    []cachedLine          `json:"lines"`
	Wishlist []cachedWishlistEntry `json:"wishlist"`
}

type cachedLine struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	ImageRef  string `json:"image_ref,omitempty"`
}

type cachedWishlistEntry struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	ImageRef  string `json:"image_ref,omitempty"`
}

// Load reads the user's snapshot. A missing key yields an empty snapshot.
func (c *Cache) Load(ctx context.Context, userID string) (domain.Snapshot, error) {
	raw, err := c.client.Get(ctx, keyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Snapshot{}, nil
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("redis get: %w", err)
	}
	var cached cachedSnapshot
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode cart snapshot: %w", err)
	}
	return cached.toDomain(), nil
}

// Save overwrites the user's snapshot.
func (c *Cache) Save(ctx context.Context, userID string, snapshot domain.Snapshot) error {
	payload, err := json.Marshal(fromDomain(snapshot))
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+userID, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Ping verifies the Redis connection.
func (c *Cache) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return c.client.Ping(pingCtx).Err()
}

// Close releases the underlying client.
func (c *Cache) Close() error { return c.client.Close() }

func fromDomain(snapshot domain.Snapshot) cachedSnapshot {
	cached := cachedSnapshot{
		Lines:    make([]cachedLine, 0, len(snapshot.Lines)),
		Wishlist: make([]cachedWishlistEntry, 0, len(snapshot.Wishlist)),
	}
	for _, line := range snapshot.Lines {
		cached.Lines = append(cached.Lines, cachedLine{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			ImageRef:  line.ImageRef,
		})
	}
	for _, entry := range snapshot.Wishlist {
		cached.Wishlist = append(cached.Wishlist, cachedWishlistEntry{
			ProductID: entry.ProductID,
			Name:      entry.Name,
			UnitPrice: entry.UnitPrice,
			ImageRef:  entry.ImageRef,
		})
	}
	return cached
}

func (c cachedSnapshot) toDomain() domain.Snapshot {
	snapshot := domain.Snapshot{}
	for _, line := range c.Lines {
		snapshot.Lines = append(snapshot.Lines, domain.Line{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			ImageRef:  line.ImageRef,
		})
	}
	for _, entry := range c.Wishlist {
		snapshot.Wishlist = append(snapshot.Wishlist, domain.WishlistEntry{
			ProductID: entry.ProductID,
			Name:      entry.Name,
			UnitPrice: entry.UnitPrice,
			ImageRef:  entry.ImageRef,
		})
	}
	return snapshot
}

package ports

import (
	"context"
	"errors"

	"github.com/bapesu/storefront-api/internal/domains/orders/domain"
)

var (
	// ErrNotFound indicates the order does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrDuplicateOrderNumber indicates the generated order number collided.
	ErrDuplicateOrderNumber = errors.New("order number already exists")
)

// ListQuery carries the admin list filters and pagination.
type ListQuery struct {
	// Status narrows to a single status when non-nil.
	Status *domain.Status
	// Search matches order number, customer name, or customer email,
	// case-insensitive substring.
	Search string
	// OwnerID scopes to one owner; empty means all owners (admin surface).
	OwnerID  string
	Page     int
	PageSize int
}

// Offset returns the zero-based row offset for the query.
func (q ListQuery) Offset() int {
	page := q.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * q.Limit()
}

// Limit returns the effective page size.
func (q ListQuery) Limit() int {
	if q.PageSize < 1 {
		return 50
	}
	return q.PageSize
}

// Repository persists order aggregates. Every write is a single atomic update
// to one record (order row plus its item snapshots).
type Repository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// Update replaces the stored record with the given aggregate state.
	Update(ctx context.Context, order *domain.Order) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
	// List returns one page sorted by creation time descending, plus the
	// total match count.
	List(ctx context.Context, query ListQuery) ([]*domain.Order, int64, error)
}

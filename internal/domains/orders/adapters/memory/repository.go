package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/bapesu/storefront-api/internal/domains/orders/domain"
	"github.com/bapesu/storefront-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter for development and tests.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

func NewRepository() *Repository {
	return &Repository{orders: map[string]*domain.Order{}}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.orders {
		if existing.OrderNumber == order.OrderNumber {
			return nil, ports.ErrDuplicateOrderNumber
		}
	}
	clone := cloneOrder(order)
	r.orders[clone.ID] = clone
	return cloneOrder(clone), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *Repository) Update(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	clone := cloneOrder(order)
	r.orders[clone.ID] = clone
	return cloneOrder(clone), nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *Repository) List(_ context.Context, query ports.ListQuery) ([]*domain.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if matches(order, query) {
			matched = append(matched, order)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := int64(len(matched))
	offset := query.Offset()
	if offset >= len(matched) {
		return []*domain.Order{}, total, nil
	}
	end := offset + query.Limit()
	if end > len(matched) {
		end = len(matched)
	}
	page := make([]*domain.Order, 0, end-offset)
	for _, order := range matched[offset:end] {
		page = append(page, cloneOrder(order))
	}
	return page, total, nil
}

func matches(order *domain.Order, query ports.ListQuery) bool {
	if query.OwnerID != "" && order.OwnerID != query.OwnerID {
		return false
	}
	if query.Status != nil && order.Status != *query.Status {
		return false
	}
	if search := strings.ToLower(strings.TrimSpace(query.Search)); search != "" {
		haystack := strings.ToLower(order.OrderNumber + " " + order.CustomerName + " " + order.CustomerEmail)
		if !strings.Contains(haystack, search) {
			return false
		}
	}
	return true
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Items = append([]domain.Item(nil), order.Items...)
	return &clone
}

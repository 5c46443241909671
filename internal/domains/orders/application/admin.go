package application

import (
	"context"

	"github.com/bapesu/storefront-api/internal/domains/orders/domain"
	"github.com/bapesu/storefront-api/internal/domains/orders/ports"
)

// ListOrders returns one admin page of orders matching the filters.
func (s *Service) ListOrders(ctx context.Context, query ports.ListQuery) ([]*domain.Order, int64, error) {
	return s.repo.List(ctx, query)
}

// UpdateOrder applies the patch atomically. A bundled status change goes
// through the transition rules; on rejection the stored record is unchanged.
func (s *Service) UpdateOrder(ctx context.Context, orderID string, patch domain.Patch) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.ApplyPatch(patch); err != nil {
		return nil, mapError(err)
	}
	order.UpdatedAt = s.now()
	return s.repo.Update(ctx, order)
}

// DeleteOrder hard-deletes the record and its item snapshots.
func (s *Service) DeleteOrder(ctx context.Context, orderID string) error {
	return s.repo.Delete(ctx, orderID)
}

// OrderStats summarizes the order book: total count, per-status counts, and
// sales over delivered orders.
func (s *Service) OrderStats(ctx context.Context) (*ports.OrderStats, error) {
	orders, total, err := s.repo.List(ctx, ports.ListQuery{Page: 1, PageSize: int(^uint(0) >> 1)})
	if err != nil {
		return nil, err
	}
	stats := &ports.OrderStats{
		TotalOrders:  total,
		StatusCounts: map[domain.Status]int64{},
	}
	for _, order := range orders {
		stats.StatusCounts[order.Status]++
		if order.Status == domain.StatusDelivered {
			stats.TotalSales += order.Total
		}
	}
	return stats, nil
}

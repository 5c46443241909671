package application

import (
	"context"

	"github.com/bapesu/storefront-api/internal/domains/orders/domain"
	"github.com/bapesu/storefront-api/internal/domains/orders/ports"
)

// ListMine returns one page of the caller's own orders.
func (s *Service) ListMine(ctx context.Context, userID string, query ports.HistoryQuery) ([]*domain.Order, int64, error) {
	return s.repo.List(ctx, ports.ListQuery{
		Status:   query.Status,
		OwnerID:  userID,
		Page:     query.Page,
		PageSize: query.Limit,
	})
}

// GetMine loads one order with the caller's existing ratings, enforcing the
// ownership check before returning any data.
func (s *Service) GetMine(ctx context.Context, userID, orderID string) (*ports.OrderDetail, error) {
	order, err := s.loadOwned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	ratings, err := s.ratings.ListByOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	return &ports.OrderDetail{Order: order, Ratings: ratings}, nil
}

// RateProduct upserts a star rating. Eligibility: the order belongs to the
// caller, has reached delivered, and snapshotted the product.
func (s *Service) RateProduct(ctx context.Context, userID, orderID string, productID int64, stars int) (*domain.Rating, error) {
	order, err := s.loadOwned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.StatusDelivered || !order.Contains(productID) {
		return nil, ports.ErrRatingNotAllowed
	}
	rating := domain.Rating{
		ProductID: productID,
		OrderID:   orderID,
		UserID:    userID,
		Stars:     stars,
		UpdatedAt: s.now(),
	}
	if err := rating.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.ratings.Upsert(ctx, rating)
}

func (s *Service) loadOwned(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.OwnerID != userID {
		return nil, ports.ErrForbidden
	}
	return order, nil
}

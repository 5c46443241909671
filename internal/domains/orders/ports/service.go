package ports

import (
	"context"
	"errors"

	"github.com/bapesu/storefront-api/internal/domains/orders/domain"
)

var (
	// ErrForbidden indicates an ownership violation. The HTTP layer responds
	// to it exactly as it does to ErrNotFound so order existence never leaks.
	ErrForbidden = errors.New("order does not belong to the caller")
	// ErrRatingNotAllowed indicates the rating eligibility rule failed.
	ErrRatingNotAllowed = errors.New("product cannot be rated through this order")
)

// CreateOrderInput is the priced snapshot submitted by checkout.
type CreateOrderInput struct {
	OwnerID        string
	IdempotencyKey string

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	ShippingAddress string
	ShippingCity    string
	ShippingState   string
	ShippingZip     string
	ShippingCountry string

	ShippingMethod string
	PaymentMethod  string

	Items        []domain.Item
	Subtotal     int64
	ShippingCost int64
	Total        int64

	Comments string
}

// HistoryQuery carries the customer-facing list filters.
type HistoryQuery struct {
	Status *domain.Status
	Page   int
	Limit  int
}

// OrderDetail bundles an order with the caller's existing item ratings.
type OrderDetail struct {
	Order   *domain.Order
	Ratings []domain.Rating
}

// OrderStats summarizes the order book for the admin dashboard.
type OrderStats struct {
	TotalOrders  int64
	StatusCounts map[domain.Status]int64
	// TotalSales sums total_amount over delivered orders.
	TotalSales int64
}

// Service is the orders bounded-context contract shared by the admin surface
// and the customer order history.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)

	ListOrders(ctx context.Context, query ListQuery) ([]*domain.Order, int64, error)
	UpdateOrder(ctx context.Context, orderID string, patch domain.Patch) (*domain.Order, error)
	DeleteOrder(ctx context.Context, orderID string) error
	OrderStats(ctx context.Context) (*OrderStats, error)

	ListMine(ctx context.Context, userID string, query HistoryQuery) ([]*domain.Order, int64, error)
	GetMine(ctx context.Context, userID, orderID string) (*OrderDetail, error)
	RateProduct(ctx context.Context, userID, orderID string, productID int64, stars int) (*domain.Rating, error)
}

package ports

import (
	"context"
	"errors"
)

// ErrSubmissionFailed wraps transient placement failures. The checkout state
// is preserved so the caller may retry.
var ErrSubmissionFailed = errors.New("order submission failed")

// OrderItem is one priced line snapshot sent to the order service.
type OrderItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest is the atomic order-create payload built at submission.
type CreateOrderRequest struct {
	IdempotencyKey  string      `json:"idempotency_key,omitempty"`
	CustomerName    string      `json:"customer_name"`
	CustomerEmail   string      `json:"customer_email"`
	CustomerPhone   string      `json:"customer_phone"`
	ShippingAddress string      `json:"shipping_address"`
	ShippingCity    string      `json:"shipping_city"`
	ShippingState   string      `json:"shipping_state"`
	ShippingZip     string      `json:"shipping_zip"`
	ShippingCountry string      `json:"shipping_country"`
	ShippingMethod  string      `json:"shipping_method"`
	PaymentMethod   string      `json:"payment_method"`
	Items           []OrderItem `json:"items"`
	Subtotal        int64       `json:"subtotal"`
	ShippingCost    int64       `json:"shipping_cost"`
	TotalAmount     int64       `json:"total_amount"`
	Comments        string      `json:"comments"`
}

// OrderReceipt is the confirmation returned once an order record exists.
type OrderReceipt struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	TotalAmount int64  `json:"total_amount"`
}

// PlacementResult pairs the receipt with the handoff link the buyer uses to
// complete the off-platform payment.
type PlacementResult struct {
	Receipt     OrderReceipt `json:"receipt"`
	HandoffLink string       `json:"handoff_link,omitempty"`
}

// OrderPlacer submits the order-create request to the order service.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, token string, request CreateOrderRequest) (*OrderReceipt, error)
}

// HandoffNotifier produces the off-platform payment handoff for a placed
// order. Failures are non-fatal to placement.
type HandoffNotifier interface {
	Notify(ctx context.Context, request CreateOrderRequest, receipt OrderReceipt) (string, error)
}

// PlacementInput carries everything the placement orchestration needs.
type PlacementInput struct {
	Token   string             `json:"token"`
	Request CreateOrderRequest `json:"request"`
}

// PlacementOrchestrator runs the order placement, durably or inline.
type PlacementOrchestrator interface {
	PlaceOrder(ctx context.Context, input PlacementInput) (*PlacementResult, error)
}

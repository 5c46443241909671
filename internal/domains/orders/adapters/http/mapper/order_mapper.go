package mapper

import (
	"time"

	ordersdomain "github.com/bapesu/storefront-api/internal/domains/orders/domain"
	ordersports "github.com/bapesu/storefront-api/internal/domains/orders/ports"
)

// Order is the transport-layer shape of an order.
type Order struct {
	ID              string      `json:"id"`
	OrderNumber     string      `json:"order_number"`
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
	Status          string      `json:"status"`
	TrackingNumber  string      `json:"tracking_number,omitempty"`
	TrackingURL     string      `json:"tracking_url,omitempty"`
	Comments        string      `json:"comments,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderItem is the transport-layer shape of a purchased line snapshot.
type OrderItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// Rating is the transport-layer shape of a product rating.
type Rating struct {
	ProductID int64     `json:"product_id"`
	OrderID   string    `json:"order_id"`
	Stars     int       `json:"stars"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateOrderRequest is the transport-layer shape of the order creation call.
type CreateOrderRequest struct {
	IdempotencyKey  string      `json:"idempotency_key,omitempty"`
	CustomerName    string      `json:"customer_name" binding:"required"`
	CustomerEmail   string      `json:"customer_email" binding:"required,email"`
	CustomerPhone   string      `json:"customer_phone" binding:"required"`
	ShippingAddress string      `json:"shipping_address" binding:"required"`
	ShippingCity    string      `json:"shipping_city" binding:"required"`
	ShippingState   string      `json:"shipping_state" binding:"required"`
	ShippingZip     string      `json:"shipping_zip" binding:"required"`
	ShippingCountry string      `json:"shipping_country"`
	ShippingMethod  string      `json:"shipping_method" binding:"required"`
	PaymentMethod   string      `json:"payment_method" binding:"required"`
	Items           []OrderItem `json:"items" binding:"required"`
	Subtotal        int64       `json:"subtotal"`
	ShippingCost    int64       `json:"shipping_cost"`
	TotalAmount     int64       `json:"total_amount"`
	Comments        string      `json:"comments"`
}

// UpdateOrderRequest is the transport-layer shape of the admin patch call.
// Pointer fields distinguish "absent" from "set to empty".
type UpdateOrderRequest struct {
	Status          *string `json:"status"`
	TrackingNumber  *string `json:"tracking_number"`
	TrackingURL     *string `json:"tracking_url"`
	Comments        *string `json:"comments"`
	CustomerName    *string `json:"customer_name"`
	CustomerEmail   *string `json:"customer_email"`
	CustomerPhone   *string `json:"customer_phone"`
	ShippingAddress *string `json:"shipping_address"`
	ShippingCity    *string `json:"shipping_city"`
	ShippingState   *string `json:"shipping_state"`
	ShippingZip     *string `json:"shipping_zip"`
}

// ToCreateInput converts the transport request into the application input.
func (r CreateOrderRequest) ToCreateInput(ownerID string) ordersports.CreateOrderInput {
	items := make([]ordersdomain.Item, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, ordersdomain.Item{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.Price,
			Quantity:  item.Quantity,
		})
	}
	return ordersports.CreateOrderInput{
		OwnerID:         ownerID,
		IdempotencyKey:  r.IdempotencyKey,
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   r.CustomerPhone,
		ShippingAddress: r.ShippingAddress,
		ShippingCity:    r.ShippingCity,
		ShippingState:   r.ShippingState,
		ShippingZip:     r.ShippingZip,
		ShippingCountry: r.ShippingCountry,
		ShippingMethod:  r.ShippingMethod,
		PaymentMethod:   r.PaymentMethod,
		Items:           items,
		Subtotal:        r.Subtotal,
		ShippingCost:    r.ShippingCost,
		Total:           r.TotalAmount,
		Comments:        r.Comments,
	}
}

// ToPatch converts the transport request into a domain patch.
func (r UpdateOrderRequest) ToPatch() ordersdomain.Patch {
	patch := ordersdomain.Patch{
		TrackingNumber:  r.TrackingNumber,
		TrackingURL:     r.TrackingURL,
		Comments:        r.Comments,
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   r.CustomerPhone,
		ShippingAddress: r.ShippingAddress,
		ShippingCity:    r.ShippingCity,
		ShippingState:   r.ShippingState,
		ShippingZip:     r.ShippingZip,
	}
	if r.Status != nil {
		status := ordersdomain.Status(*r.Status)
		patch.Status = &status
	}
	return patch
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *ordersdomain.Order) Order {
	if order == nil {
		return Order{}
	}
	items := make([]OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	return Order{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		CustomerPhone:   order.CustomerPhone,
		ShippingAddress: order.ShippingAddress,
		ShippingCity:    order.ShippingCity,
		ShippingState:   order.ShippingState,
		ShippingZip:     order.ShippingZip,
		ShippingCountry: order.ShippingCountry,
		ShippingMethod:  order.ShippingMethod,
		PaymentMethod:   order.PaymentMethod,
		Items:           items,
		Subtotal:        order.Subtotal,
		ShippingCost:    order.ShippingCost,
		TotalAmount:     order.Total,
		Status:          string(order.Status),
		TrackingNumber:  order.TrackingNumber,
		TrackingURL:     order.TrackingURL,
		Comments:        order.Comments,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

// FromDomainOrders converts a page of domain orders.
func FromDomainOrders(orders []*ordersdomain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, order := range orders {
		out = append(out, FromDomainOrder(order))
	}
	return out
}

// FromDomainRating converts a domain rating to the transport representation.
func FromDomainRating(rating *ordersdomain.Rating) Rating {
	if rating == nil {
		return Rating{}
	}
	return Rating{
		ProductID: rating.ProductID,
		OrderID:   rating.OrderID,
		Stars:     rating.Stars,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	}
}

// FromDomainRatings converts a set of domain ratings.
func FromDomainRatings(ratings []ordersdomain.Rating) []Rating {
	out := make([]Rating, 0, len(ratings))
	for i := range ratings {
		out = append(out, FromDomainRating(&ratings[i]))
	}
	return out
}

package local

import (
	"context"
	"errors"

	checkoutports "github.com/bapesu/storefront-api/internal/domains/checkout/ports"
	ordersdomain "github.com/bapesu/storefront-api/internal/domains/orders/domain"
	ordersports "github.com/bapesu/storefront-api/internal/domains/orders/ports"
	"github.com/bapesu/storefront-api/internal/platform/auth"
)

var _ checkoutports.OrderPlacer = (*Placer)(nil)

// Placer fulfills the checkout OrderPlacer port against the in-process
// orders service. The bearer token is verified here because placement may
// run on a Temporal worker, outside the request middleware.
type Placer struct {
	orders   ordersports.Service
	verifier *auth.Verifier
}

// NewPlacer wires the in-process placer.
func NewPlacer(orders ordersports.Service, verifier *auth.Verifier) *Placer {
	return &Placer{orders: orders, verifier: verifier}
}

// PlaceOrder creates the order record on behalf of the token's subject.
func (p *Placer) PlaceOrder(ctx context.Context, token string, request checkoutports.CreateOrderRequest) (*checkoutports.OrderReceipt, error) {
	if p == nil || p.orders == nil {
		return nil, errors.New("order placer not configured")
	}
	claims, err := p.verifier.ParseToken(token)
	if err != nil {
		return nil, err
	}
	order, err := p.orders.CreateOrder(ctx, toCreateInput(claims.UserID, request))
	if err != nil {
		return nil, err
	}
	return &checkoutports.OrderReceipt{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TotalAmount: order.Total,
	}, nil
}

func toCreateInput(ownerID string, request checkoutports.CreateOrderRequest) ordersports.CreateOrderInput {
	items := make([]ordersdomain.Item, 0, len(request.Items))
	for _, item := range request.Items {
		items = append(items, ordersdomain.Item{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.Price,
			Quantity:  item.Quantity,
		})
	}
	return ordersports.CreateOrderInput{
		OwnerID:         ownerID,
		IdempotencyKey:  request.IdempotencyKey,
		CustomerName:    request.CustomerName,
		CustomerEmail:   request.CustomerEmail,
		CustomerPhone:   request.CustomerPhone,
		ShippingAddress: request.ShippingAddress,
		ShippingCity:    request.ShippingCity,
		ShippingState:   request.ShippingState,
		ShippingZip:     request.ShippingZip,
		ShippingCountry: request.ShippingCountry,
		ShippingMethod:  request.ShippingMethod,
		PaymentMethod:   request.PaymentMethod,
		Items:           items,
		Subtotal:        request.Subtotal,
		ShippingCost:    request.ShippingCost,
		Total:           request.TotalAmount,
		Comments:        request.Comments,
	}
}

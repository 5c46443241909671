package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	checkoutports "github.com/bapesu/storefront-api/internal/domains/checkout/ports"
)

const (
	// PlaceOrderActivityName submits the order-create request to the order service.
	PlaceOrderActivityName = "orders.activities.PlaceOrder"
	// NotifyHandoffActivityName builds the payment handoff for a placed order.
	NotifyHandoffActivityName = "orders.activities.NotifyHandoff"
)

// Activities groups activities that operate on order placement.
type Activities struct {
	placer   checkoutports.OrderPlacer
	notifier checkoutports.HandoffNotifier
}

// NewActivities wires the placement collaborators into the Temporal activities bundle.
func NewActivities(placer checkoutports.OrderPlacer, notifier checkoutports.HandoffNotifier) *Activities {
	return &Activities{placer: placer, notifier: notifier}
}

// PlaceOrder submits the order-create request and returns the receipt.
func (a *Activities) PlaceOrder(ctx context.Context, input checkoutports.PlacementInput) (*checkoutports.OrderReceipt, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.placer == nil {
		logger.Error("place order activity not initialized")
		return nil, errors.New("place order activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "idempotencyKey", input.Request.IdempotencyKey)
	receipt, err := a.placer.PlaceOrder(ctx, input.Token, input.Request)
	if err != nil {
		logger.Error("PlaceOrder activity failed", "error", err)
		return nil, err
	}
	logger.Info("PlaceOrder activity completed", "orderNumber", receipt.OrderNumber)
	return receipt, nil
}

// NotifyHandoffInput pairs the original request with the placement receipt.
type NotifyHandoffInput struct {
	Request checkoutports.CreateOrderRequest
	Receipt checkoutports.OrderReceipt
}

// NotifyHandoff builds the off-platform payment handoff link.
func (a *Activities) NotifyHandoff(ctx context.Context, input NotifyHandoffInput) (string, error) {
	logger := activity.GetLogger(ctx)
	if a == nil {
		logger.Error("handoff activity not initialized")
		return "", errors.New("handoff activity not initialized")
	}
	if a.notifier == nil {
		logger.Info("handoff notifier not configured; skipping", "orderNumber", input.Receipt.OrderNumber)
		return "", nil
	}
	link, err := a.notifier.Notify(ctx, input.Request, input.Receipt)
	if err != nil {
		logger.Error("NotifyHandoff activity failed", "orderNumber", input.Receipt.OrderNumber, "error", err)
		return "", err
	}
	logger.Info("NotifyHandoff activity completed", "orderNumber", input.Receipt.OrderNumber)
	return link, nil
}

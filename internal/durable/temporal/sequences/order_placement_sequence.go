package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	checkoutports "github.com/bapesu/storefront-api/internal/domains/checkout/ports"
	orderactivities "github.com/bapesu/storefront-api/internal/durable/temporal/activities/orders"
)

// RunOrderPlacementSequence executes the ordered set of activities needed to
// place an order and produce the payment handoff.
func RunOrderPlacementSequence(ctx workflow.Context, input checkoutports.PlacementInput) (*checkoutports.PlacementResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started", "idempotencyKey", input.Request.IdempotencyKey)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var receipt checkoutports.OrderReceipt
	if err := workflow.ExecuteActivity(ctx, orderactivities.PlaceOrderActivityName, input).Get(ctx, &receipt); err != nil {
		logger.Error("order placement sequence failed", "error", err)
		return nil, err
	}

	var link string
	notifyInput := orderactivities.NotifyHandoffInput{Request: input.Request, Receipt: receipt}
	if err := workflow.ExecuteActivity(ctx, orderactivities.NotifyHandoffActivityName, notifyInput).Get(ctx, &link); err != nil {
		// The order exists; a failed handoff must not fail the placement.
		logger.Error("handoff notification failed", "orderNumber", receipt.OrderNumber, "error", err)
	}

	logger.Info("order placement sequence completed", "orderNumber", receipt.OrderNumber)
	return &checkoutports.PlacementResult{Receipt: receipt, HandoffLink: link}, nil
}

package orders

import (
	"go.temporal.io/sdk/workflow"

	checkoutports "github.com/bapesu/storefront-api/internal/domains/checkout/ports"
	"github.com/bapesu/storefront-api/internal/durable/temporal/sequences"
)

const (
	// OrderPlacementWorkflowName is the public identifier for registering the workflow.
	OrderPlacementWorkflowName = "orders.workflows.Placement"
	// OrderPlacementTaskQueue is the queue consumed by the worker processing order workflows.
	OrderPlacementTaskQueue = "ORDER_PLACEMENT"
)

// OrderPlacementWorkflowInput captures the payload required to place an order.
type OrderPlacementWorkflowInput struct {
	Input   checkoutports.PlacementInput
	TraceID string
}

// OrderPlacementWorkflow orchestrates the activities that place an order and
// hand the buyer off to the external payment channel.
func OrderPlacementWorkflow(ctx workflow.Context, input OrderPlacementWorkflowInput) (*checkoutports.PlacementResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderPlacementWorkflow started", withTraceID(input.TraceID, "idempotencyKey", input.Input.Request.IdempotencyKey)...)
	result, err := sequences.RunOrderPlacementSequence(ctx, input.Input)
	if err != nil {
		logger.Error("OrderPlacementWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return nil, err
	}
	logger.Info("OrderPlacementWorkflow completed", withTraceID(input.TraceID, "orderNumber", result.Receipt.OrderNumber)...)
	return result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}

package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/bapesu/storefront-api/internal/domains/checkout/ports"
	orderworkflows "github.com/bapesu/storefront-api/internal/durable/temporal/workflows/orders"
)

var (
	_ ports.PlacementOrchestrator = (*TemporalPlacement)(nil)
	_ ports.PlacementOrchestrator = (*InlinePlacement)(nil)
)

// TemporalPlacement starts order placement workflows on a Temporal cluster.
type TemporalPlacement struct {
	client    client.Client
	taskQueue string
}

// NewTemporalPlacement wires a Temporal client into the orchestrator.
func NewTemporalPlacement(c client.Client) *TemporalPlacement {
	return &TemporalPlacement{client: c, taskQueue: orderworkflows.OrderPlacementTaskQueue}
}

// PlaceOrder starts the durable workflow that places the order. A retried
// submission with the same idempotency key attaches to the running workflow
// instead of starting a second one.
func (o *TemporalPlacement) PlaceOrder(ctx context.Context, input ports.PlacementInput) (*ports.PlacementResult, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal placement orchestrator not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildPlacementWorkflowID(input, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.OrderPlacementWorkflow,
		orderworkflows.OrderPlacementWorkflowInput{Input: input, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) && strings.TrimSpace(input.Request.IdempotencyKey) != "" {
			existingRun := o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
			var result ports.PlacementResult
			if err := existingRun.Get(ctx, &result); err != nil {
				return nil, err
			}
			return &result, nil
		}
		return nil, err
	}
	var result ports.PlacementResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// InlinePlacement executes the placement directly without Temporal, useful
// for tests or dev fallbacks.
type InlinePlacement struct {
	placer   ports.OrderPlacer
	notifier ports.HandoffNotifier
}

// NewInlinePlacement wraps the placement collaborators for synchronous execution.
func NewInlinePlacement(placer ports.OrderPlacer, notifier ports.HandoffNotifier) *InlinePlacement {
	return &InlinePlacement{placer: placer, notifier: notifier}
}

// PlaceOrder submits the order and builds the handoff without durable orchestration.
func (o *InlinePlacement) PlaceOrder(ctx context.Context, input ports.PlacementInput) (*ports.PlacementResult, error) {
	if o == nil || o.placer == nil {
		return nil, errors.New("inline placement orchestrator not configured")
	}
	receipt, err := o.placer.PlaceOrder(ctx, input.Token, input.Request)
	if err != nil {
		return nil, err
	}
	result := &ports.PlacementResult{Receipt: *receipt}
	if o.notifier != nil {
		link, err := o.notifier.Notify(ctx, input.Request, *receipt)
		if err == nil {
			result.HandoffLink = link
		}
	}
	return result, nil
}

func buildPlacementWorkflowID(input ports.PlacementInput, traceComponent string) string {
	if key := strings.TrimSpace(input.Request.IdempotencyKey); key != "" {
		return fmt.Sprintf("order-placement-idem-%s", hashIdempotencyKey(key))
	}
	return fmt.Sprintf("order-placement-%s", traceComponent)
}

func hashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	// Use the first 16 hex chars to keep workflow IDs readable while remaining deterministic.
	return hex.EncodeToString(sum[:8])
}

func workflowTraceComponent(ctx context.Context) string {
	traceComponent := workflowTraceID(ctx)
	if traceComponent != "" {
		return traceComponent
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}

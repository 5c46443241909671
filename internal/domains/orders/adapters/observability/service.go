package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordersdomain "github.com/bapesu/storefront-api/internal/domains/orders/domain"
	ordersports "github.com/bapesu/storefront-api/internal/domains/orders/ports"
)

const tracerName = "github.com/bapesu/storefront-api/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) CreateOrder(ctx context.Context, input ordersports.CreateOrderInput) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.CreateOrder",
		trace.WithAttributes(attribute.String("order.owner_id", input.OwnerID), attribute.Int("order.item_count", len(input.Items))))
	defer span.End()

	s.logInfo(ctx, "creating order", slog.String("owner_id", input.OwnerID), slog.Int("item_count", len(input.Items)))
	result, err := s.inner.CreateOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order", slog.String("owner_id", input.OwnerID))
	}
	s.metrics.recordCreated(ctx, result.Status)
	s.logInfo(ctx, "order created",
		slog.String("order.id", result.ID),
		slog.String("order.number", result.OrderNumber),
		slog.Int64("order.total", result.Total))
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context, query ordersports.ListQuery) ([]*ordersdomain.Order, int64, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListOrders")
	defer span.End()

	orders, total, err := s.inner.ListOrders(ctx, query)
	if err != nil {
		return nil, 0, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int64("orders.total", total))
	return orders, total, nil
}

func (s *Service) UpdateOrder(ctx context.Context, orderID string, patch ordersdomain.Patch) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.UpdateOrder", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	s.logInfo(ctx, "updating order", slog.String("order.id", orderID))
	result, err := s.inner.UpdateOrder(ctx, orderID, patch)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order", slog.String("order.id", orderID))
	}
	if patch.Status != nil {
		s.metrics.recordTransition(ctx, result.Status)
	}
	s.logInfo(ctx, "order updated", slog.String("order.id", result.ID), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) DeleteOrder(ctx context.Context, orderID string) error {
	ctx, span := s.tracer.Start(ctx, "OrdersService.DeleteOrder", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	s.logInfo(ctx, "deleting order", slog.String("order.id", orderID))
	if err := s.inner.DeleteOrder(ctx, orderID); err != nil {
		return s.handleError(ctx, span, err, "failed to delete order", slog.String("order.id", orderID))
	}
	s.logInfo(ctx, "order deleted", slog.String("order.id", orderID))
	return nil
}

func (s *Service) OrderStats(ctx context.Context) (*ordersports.OrderStats, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.OrderStats")
	defer span.End()

	stats, err := s.inner.OrderStats(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to compute order stats")
	}
	span.SetAttributes(attribute.Int64("orders.total", stats.TotalOrders))
	return stats, nil
}

func (s *Service) ListMine(ctx context.Context, userID string, query ordersports.HistoryQuery) ([]*ordersdomain.Order, int64, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListMine", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	orders, total, err := s.inner.ListMine(ctx, userID, query)
	if err != nil {
		return nil, 0, s.handleError(ctx, span, err, "failed to list order history", slog.String("user.id", userID))
	}
	span.SetAttributes(attribute.Int64("orders.total", total))
	return orders, total, nil
}

func (s *Service) GetMine(ctx context.Context, userID, orderID string) (*ordersports.OrderDetail, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.GetMine",
		trace.WithAttributes(attribute.String("user.id", userID), attribute.String("order.id", orderID)))
	defer span.End()

	detail, err := s.inner.GetMine(ctx, userID, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", orderID))
	}
	return detail, nil
}

func (s *Service) RateProduct(ctx context.Context, userID, orderID string, productID int64, stars int) (*ordersdomain.Rating, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.RateProduct",
		trace.WithAttributes(attribute.String("order.id", orderID), attribute.Int64("product.id", productID)))
	defer span.End()

	s.logInfo(ctx, "rating product", slog.String("order.id", orderID), slog.Int64("product.id", productID))
	rating, err := s.inner.RateProduct(ctx, userID, orderID, productID, stars)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to rate product", slog.String("order.id", orderID))
	}
	s.metrics.recordRated(ctx)
	return rating, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersCreated metric.Int64Counter
	transitions   metric.Int64Counter
	productsRated metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersCreated, _ := m.Int64Counter("orders.service.created", metric.WithDescription("Number of orders created"))
	transitions, _ := m.Int64Counter("orders.service.status_transitions", metric.WithDescription("Number of order status transitions"))
	productsRated, _ := m.Int64Counter("orders.service.products_rated", metric.WithDescription("Number of product ratings recorded"))
	return serviceMetrics{ordersCreated: ordersCreated, transitions: transitions, productsRated: productsRated}
}

func (m serviceMetrics) recordCreated(ctx context.Context, status ordersdomain.Status) {
	if m.ordersCreated != nil {
		m.ordersCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordTransition(ctx context.Context, status ordersdomain.Status) {
	if m.transitions != nil {
		m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordRated(ctx context.Context) {
	if m.productsRated != nil {
		m.productsRated.Add(ctx, 1)
	}
}

var _ ordersports.Service = (*Service)(nil)

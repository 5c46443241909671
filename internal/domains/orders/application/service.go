package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bapesu/storefront-api/internal/domains/orders/domain"
	"github.com/bapesu/storefront-api/internal/domains/orders/ports"
)

// Service orchestrates the orders bounded context use cases: order creation
// from checkout, the privileged admin surface, and the customer history.
type Service struct {
	repo        ports.Repository
	ratings     ports.RatingStore
	idempotency ports.IdempotencyStore
	now         func() time.Time
	newID       func() string
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithIdempotencyStore enables create-order deduplication.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) { s.idempotency = store }
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the orders service with its dependencies.
func NewService(repo ports.Repository, ratings ports.RatingStore, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		ratings: ratings,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateOrder persists the checkout snapshot in the initial pending state.
// When an idempotency key is supplied, a replay of the same payload returns
// the previously created order instead of a duplicate.
func (s *Service) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	var fingerprint string
	if key != "" && s.idempotency != nil {
		var err error
		fingerprint, err = FingerprintCreateOrder(input)
		if err != nil {
			return nil, err
		}
		existing, err := s.idempotency.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if existing.RequestHash != fingerprint {
				return nil, ports.ErrIdempotencyConflict
			}
			return s.repo.GetByID(ctx, existing.OrderID)
		}
	}

	order := s.buildOrder(input)
	if err := order.Validate(); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, err
	}
	if key != "" && s.idempotency != nil {
		record := ports.IdempotencyRecord{Key: key, RequestHash: fingerprint, OrderID: saved.ID}
		if _, err := s.idempotency.Save(ctx, record); err != nil {
			return nil, err
		}
	}
	return saved, nil
}

func (s *Service) buildOrder(input ports.CreateOrderInput) *domain.Order {
	now := s.now()
	country := strings.TrimSpace(input.ShippingCountry)
	if country == "" {
		country = "Colombia"
	}
	return &domain.Order{
		ID:              s.newID(),
		OrderNumber:     s.newOrderNumber(now),
		OwnerID:         input.OwnerID,
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		CustomerPhone:   input.CustomerPhone,
		ShippingAddress: input.ShippingAddress,
		ShippingCity:    input.ShippingCity,
		ShippingState:   input.ShippingState,
		ShippingZip:     input.ShippingZip,
		ShippingCountry: country,
		ShippingMethod:  input.ShippingMethod,
		PaymentMethod:   input.PaymentMethod,
		Items:           append([]domain.Item(nil), input.Items...),
		Subtotal:        input.Subtotal,
		ShippingCost:    input.ShippingCost,
		Total:           input.Total,
		Status:          domain.StatusPending,
		Comments:        input.Comments,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (s *Service) newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(s.newID(), "-", ""))[:6]
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

var _ ports.Service = (*Service)(nil)

package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	cartapp "github.com/bapesu/storefront-api/internal/domains/cart/application"
	cartdomain "github.com/bapesu/storefront-api/internal/domains/cart/domain"
	"github.com/bapesu/storefront-api/internal/domains/checkout/domain"
	"github.com/bapesu/storefront-api/internal/domains/checkout/ports"
)

var (
	// ErrCheckoutNotStarted is returned when a step operation arrives before Begin.
	ErrCheckoutNotStarted = errors.New("checkout not started")
	// ErrOrderNotPlaced is returned when handoff confirmation arrives before a
	// successful submission.
	ErrOrderNotPlaced = errors.New("order not placed yet")
)

// Session is the per-user checkout state exposed to callers.
type Session struct {
	Step   domain.Step
	Form   domain.FormState
	Placed *ports.PlacementResult
}

type session struct {
	step           domain.Step
	form           domain.FormState
	idempotencyKey string
	placed         *ports.PlacementResult
}

// Controller walks users through the three checkout steps, prices the cart,
// and submits the order snapshot through the placement orchestrator. Form and
// cart state survive failed submissions so the user can retry.
type Controller struct {
	mu           sync.Mutex
	sessions     map[string]*session
	cart         *cartapp.Store
	orchestrator ports.PlacementOrchestrator
	logger       *slog.Logger
	newKey       func() string
}

// Option configures optional controller collaborators.
type Option func(*Controller)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// NewController wires the checkout controller.
func NewController(cart *cartapp.Store, orchestrator ports.PlacementOrchestrator, opts ...Option) *Controller {
	c := &Controller{
		sessions:     map[string]*session{},
		cart:         cart,
		orchestrator: orchestrator,
		newKey:       func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Begin opens a checkout session at the info step. A checkout over an empty
// cart is rejected before step 1 is reachable.
func (c *Controller) Begin(ctx context.Context, userID string) (Session, error) {
	if c.cart.Snapshot(ctx, userID).Empty() {
		return Session{}, domain.ErrEmptyCart
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	existing, ok := c.sessions[userID]
	if ok && existing.placed == nil {
		return existing.public(), nil
	}
	s := &session{step: domain.StepInfo, idempotencyKey: c.newKey()}
	c.sessions[userID] = s
	return s.public(), nil
}

// UpdateForm merges the submitted fields into the session form.
func (c *Controller) UpdateForm(_ context.Context, userID string, form domain.FormState) (Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[userID]
	if !ok {
		return Session{}, ErrCheckoutNotStarted
	}
	s.form = form
	return s.public(), nil
}

// Next advances one step after validating the current step's required fields.
func (c *Controller) Next(_ context.Context, userID string) (Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[userID]
	if !ok {
		return Session{}, ErrCheckoutNotStarted
	}
	if s.step >= domain.StepPayment {
		return s.public(), domain.ErrInvalidStep
	}
	if !domain.CanAdvance(s.step, s.form) {
		return s.public(), domain.ErrValidationFailed
	}
	s.step++
	return s.public(), nil
}

// Back moves one step backward without re-validating.
func (c *Controller) Back(_ context.Context, userID string) (Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[userID]
	if !ok {
		return Session{}, ErrCheckoutNotStarted
	}
	if s.step > domain.StepInfo {
		s.step--
	}
	return s.public(), nil
}

// Submit prices the cart and places the order. The session's idempotency key
// is generated once and reused across retries, so a retried submission after
// a timeout cannot create a second order. On failure the cart and form are
// left untouched.
func (c *Controller) Submit(ctx context.Context, userID, token string) (*ports.PlacementResult, error) {
	c.mu.Lock()
	s, ok := c.sessions[userID]
	if !ok {
		c.mu.Unlock()
		return nil, ErrCheckoutNotStarted
	}
	if s.placed != nil {
		placed := s.placed
		c.mu.Unlock()
		return placed, nil
	}
	if s.step != domain.StepPayment || !domain.CanAdvance(domain.StepPayment, s.form) {
		c.mu.Unlock()
		return nil, domain.ErrValidationFailed
	}
	form := s.form
	key := s.idempotencyKey
	c.mu.Unlock()

	snapshot := c.cart.Snapshot(ctx, userID)
	if snapshot.Empty() {
		return nil, domain.ErrEmptyCart
	}
	request, err := buildRequest(form, snapshot, key)
	if err != nil {
		return nil, err
	}
	result, err := c.orchestrator.PlaceOrder(ctx, ports.PlacementInput{Token: token, Request: request})
	if err != nil {
		c.logWarn(ctx, "order submission failed", userID, err)
		return nil, fmt.Errorf("%w: %w", ports.ErrSubmissionFailed, err)
	}

	c.mu.Lock()
	s.placed = result
	c.mu.Unlock()
	return result, nil
}

// ConfirmHandoff marks the off-platform payment handoff as done. Only now is
// the cart cleared and the session closed.
func (c *Controller) ConfirmHandoff(ctx context.Context, userID string) error {
	c.mu.Lock()
	s, ok := c.sessions[userID]
	if !ok {
		c.mu.Unlock()
		return ErrCheckoutNotStarted
	}
	if s.placed == nil {
		c.mu.Unlock()
		return ErrOrderNotPlaced
	}
	delete(c.sessions, userID)
	c.mu.Unlock()

	if _, err := c.cart.Clear(ctx, userID); err != nil {
		return err
	}
	return nil
}

// State returns the current session.
func (c *Controller) State(_ context.Context, userID string) (Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[userID]
	if !ok {
		return Session{}, ErrCheckoutNotStarted
	}
	return s.public(), nil
}

func buildRequest(form domain.FormState, snapshot cartdomain.Snapshot, idempotencyKey string) (ports.CreateOrderRequest, error) {
	totals, err := domain.ComputeTotals(snapshot.Total(), form.ShippingMethod)
	if err != nil {
		return ports.CreateOrderRequest{}, err
	}
	if _, err := domain.PaymentMethodByID(form.PaymentMethod); err != nil {
		return ports.CreateOrderRequest{}, err
	}
	items := make([]ports.OrderItem, 0, len(snapshot.Lines))
	for _, line := range snapshot.Lines {
		items = append(items, ports.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}
	return ports.CreateOrderRequest{
		IdempotencyKey:  idempotencyKey,
		CustomerName:    form.FullName(),
		CustomerEmail:   form.Email,
		CustomerPhone:   form.Phone,
		ShippingAddress: form.Address,
		ShippingCity:    form.City,
		ShippingState:   form.State,
		ShippingZip:     form.ZipCode,
		ShippingCountry: form.Country,
		ShippingMethod:  form.ShippingMethod,
		PaymentMethod:   form.PaymentMethod,
		Items:           items,
		Subtotal:        totals.Subtotal,
		ShippingCost:    totals.ShippingCost,
		TotalAmount:     totals.Total,
		Comments:        form.Comments,
	}, nil
}

func (s *session) public() Session {
	return Session{Step: s.step, Form: s.form, Placed: s.placed}
}

func (c *Controller) logWarn(ctx context.Context, msg, userID string, err error) {
	if c.logger == nil {
		return
	}
	c.logger.LogAttrs(ctx, slog.LevelWarn, msg,
		slog.String("user_id", userID), slog.String("error", err.Error()))
}

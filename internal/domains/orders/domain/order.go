package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrMissingOwner        = errors.New("order owner is required")
	ErrNoItems             = errors.New("order must contain at least one item")
	ErrInvalidQuantity     = errors.New("item quantity must be greater than zero")
	ErrInvalidUnitPrice    = errors.New("item price must not be negative")
	ErrSubtotalMismatch    = errors.New("subtotal does not match item totals")
	ErrTotalMismatch       = errors.New("total must equal subtotal plus shipping cost")
	ErrInvalidStatus       = errors.New("order status is invalid")
	ErrInvalidTransition   = errors.New("status transition is not allowed")
	ErrMissingTrackingInfo = errors.New("tracking number and tracking url are required to mark an order shipped")
	ErrEmptyPatch          = errors.New("no updatable fields in patch")
)

// Item is a purchase-time snapshot of one cart line. Name and price are frozen
// here so later catalog changes never alter past orders.
type Item struct {
	ProductID int64
	Name      string
	UnitPrice int64
	Quantity  int
}

// Order models the purchase aggregate shared by checkout, administration, and
// order history.
type Order struct {
	ID          string
	OrderNumber string
	OwnerID     string

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	ShippingAddress string
	ShippingCity    string
	ShippingState   string
	ShippingZip     string
	ShippingCountry string

	ShippingMethod string
	PaymentMethod  string

	Items        []Item
	Subtotal     int64
	ShippingCost int64
	Total        int64

	Status         Status
	TrackingNumber string
	TrackingURL    string
	Comments       string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if strings.TrimSpace(o.OwnerID) == "" {
		return ErrMissingOwner
	}
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	var itemTotal int64
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if item.UnitPrice < 0 {
			return ErrInvalidUnitPrice
		}
		itemTotal += item.UnitPrice * int64(item.Quantity)
	}
	if o.Subtotal != itemTotal {
		return ErrSubtotalMismatch
	}
	if o.Total != o.Subtotal+o.ShippingCost {
		return ErrTotalMismatch
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	return checkRequirements(o)
}

// Contains reports whether the order snapshotted the given product.
func (o *Order) Contains(productID int64) bool {
	for _, item := range o.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// Patch carries the admin-updatable subset of an order. Nil fields are left
// untouched; a status change is routed through the transition rules.
type Patch struct {
	Status          *Status
	CustomerName    *string
	CustomerEmail   *string
	CustomerPhone   *string
	ShippingAddress *string
	ShippingCity    *string
	ShippingState   *string
	ShippingZip     *string
	Comments        *string
	TrackingNumber  *string
	TrackingURL     *string
}

// Empty reports whether the patch would change nothing.
func (p Patch) Empty() bool {
	return p.Status == nil && p.CustomerName == nil && p.CustomerEmail == nil &&
		p.CustomerPhone == nil && p.ShippingAddress == nil && p.ShippingCity == nil &&
		p.ShippingState == nil && p.ShippingZip == nil && p.Comments == nil &&
		p.TrackingNumber == nil && p.TrackingURL == nil
}

// ApplyPatch applies all bundled field updates and the status change as one
// unit: either every change lands or the order is left untouched.
func (o *Order) ApplyPatch(p Patch) error {
	if p.Empty() {
		return ErrEmptyPatch
	}
	next := o.clone()
	assign(&next.CustomerName, p.CustomerName)
	assign(&next.CustomerEmail, p.CustomerEmail)
	assign(&next.CustomerPhone, p.CustomerPhone)
	assign(&next.ShippingAddress, p.ShippingAddress)
	assign(&next.ShippingCity, p.ShippingCity)
	assign(&next.ShippingState, p.ShippingState)
	assign(&next.ShippingZip, p.ShippingZip)
	assign(&next.Comments, p.Comments)
	assign(&next.TrackingNumber, p.TrackingNumber)
	assign(&next.TrackingURL, p.TrackingURL)
	if p.Status != nil && *p.Status != o.Status {
		if err := CanTransition(o.Status, *p.Status); err != nil {
			return err
		}
		next.Status = *p.Status
	}
	if err := checkRequirements(next); err != nil {
		return err
	}
	*o = *next
	return nil
}

func (o *Order) clone() *Order {
	next := *o
	next.Items = append([]Item(nil), o.Items...)
	return &next
}

func assign(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// Rating is one user's star rating of a product bought through a specific
// order. The (ProductID, OrderID, UserID) triple is the upsert key.
type Rating struct {
	ProductID int64
	OrderID   string
	UserID    string
	Stars     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

var ErrInvalidStars = errors.New("rating must be between 1 and 5 stars")

// Validate enforces the star range.
func (r Rating) Validate() error {
	if r.Stars < 1 || r.Stars > 5 {
		return ErrInvalidStars
	}
	if strings.TrimSpace(r.OrderID) == "" || strings.TrimSpace(r.UserID) == "" || r.ProductID <= 0 {
		return errors.New("rating key is incomplete")
	}
	return nil
}

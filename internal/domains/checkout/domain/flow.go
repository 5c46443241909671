package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyCart             = errors.New("cart is empty")
	ErrValidationFailed      = errors.New("required checkout fields missing")
	ErrUnknownShippingMethod = errors.New("unknown shipping method")
	ErrUnknownPaymentMethod  = errors.New("unknown payment method")
	ErrInvalidStep           = errors.New("invalid checkout step")
)

// Step identifies one of the three ordered checkout steps.
type Step int

const (
	StepInfo Step = iota + 1
	StepShipping
	StepPayment
)

// FormState accumulates the buyer's input across the checkout steps.
type FormState struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Address        string
	City           string
	State          string
	ZipCode        string
	Country        string
	ShippingMethod string
	PaymentMethod  string
	Comments       string
}

// FullName joins first and last name for the order snapshot.
func (f FormState) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(f.FirstName) + " " + strings.TrimSpace(f.LastName))
}

// ShippingMethod is one entry of the fixed-price carrier catalog.
type ShippingMethod struct {
	ID    string
	Name  string
	Price int64
}

// PaymentMethod is one accepted payment option.
type PaymentMethod struct {
	ID   string
	Name string
}

// Fixed carrier tiers by destination zone. Prices are integer COP.
var shippingMethods = []ShippingMethod{
	{ID: "interrapidisimo_bogota", Name: "Interrapidisimo - Bogota", Price: 10000},
	{ID: "interrapidisimo_other_cities", Name: "Interrapidisimo - Otras ciudades", Price: 14500},
}

var paymentMethods = []PaymentMethod{
	{ID: "transfer", Name: "Transferencia bancaria"},
}

// ShippingMethods returns the carrier catalog.
func ShippingMethods() []ShippingMethod {
	return append([]ShippingMethod(nil), shippingMethods...)
}

// ShippingMethodByID resolves one carrier tier.
func ShippingMethodByID(id string) (ShippingMethod, error) {
	for _, method := range shippingMethods {
		if method.ID == id {
			return method, nil
		}
	}
	return ShippingMethod{}, ErrUnknownShippingMethod
}

// PaymentMethods returns the accepted payment options.
func PaymentMethods() []PaymentMethod {
	return append([]PaymentMethod(nil), paymentMethods...)
}

// PaymentMethodByID resolves one payment option.
func PaymentMethodByID(id string) (PaymentMethod, error) {
	for _, method := range paymentMethods {
		if method.ID == id {
			return method, nil
		}
	}
	return PaymentMethod{}, ErrUnknownPaymentMethod
}

// CanAdvance reports whether the form satisfies the step's required fields.
// Backward navigation never consults this predicate.
func CanAdvance(step Step, form FormState) bool {
	switch step {
	case StepInfo:
		required := []string{
			form.FirstName, form.LastName, form.Email, form.Phone,
			form.Address, form.City, form.State, form.ZipCode,
		}
		for _, field := range required {
			if strings.TrimSpace(field) == "" {
				return false
			}
		}
		return true
	case StepShipping:
		_, err := ShippingMethodByID(form.ShippingMethod)
		return err == nil
	case StepPayment:
		_, err := PaymentMethodByID(form.PaymentMethod)
		return err == nil
	default:
		return false
	}
}

// Totals is the priced snapshot computed at submission.
type Totals struct {
	Subtotal     int64
	ShippingCost int64
	Total        int64
}

// ComputeTotals prices the order from the cart subtotal and the selected
// shipping method.
func ComputeTotals(subtotal int64, shippingMethodID string) (Totals, error) {
	method, err := ShippingMethodByID(shippingMethodID)
	if err != nil {
		return Totals{}, err
	}
	return Totals{
		Subtotal:     subtotal,
		ShippingCost: method.Price,
		Total:        subtotal + method.Price,
	}, nil
}

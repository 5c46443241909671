package server

import (
	"errors"

	cartdomain "github.com/bapesu/storefront-api/internal/domains/cart/domain"
	checkoutapp "github.com/bapesu/storefront-api/internal/domains/checkout/application"
	checkoutdomain "github.com/bapesu/storefront-api/internal/domains/checkout/domain"
	checkoutports "github.com/bapesu/storefront-api/internal/domains/checkout/ports"
	ordersdomain "github.com/bapesu/storefront-api/internal/domains/orders/domain"
	ordersports "github.com/bapesu/storefront-api/internal/domains/orders/ports"
	sharederrors "github.com/bapesu/storefront-api/internal/shared/errors"
)

// newResponder builds the problem responder with the domain error mappings.
// Ownership violations deliberately produce the same problem body as a
// missing order so callers cannot probe for other users' order ids.
func newResponder() *sharederrors.ChainedResponder {
	return sharederrors.NewChainedResponder("", mapOrderErrors, mapCheckoutErrors)
}

func mapOrderErrors(err error) (sharederrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ordersports.ErrNotFound), errors.Is(err, ordersports.ErrForbidden):
		return sharederrors.ErrNotFound.WithDetail("order not found"), true
	case errors.Is(err, ordersports.ErrIdempotencyConflict):
		return sharederrors.ErrConflict.WithDetail("idempotency key already used with a different payload"), true
	case errors.Is(err, ordersports.ErrDuplicateOrderNumber):
		return sharederrors.ErrConflict.WithDetail("order number already exists"), true
	case errors.Is(err, ordersports.ErrRatingNotAllowed):
		return sharederrors.ErrUnprocessable.WithDetail("product can only be rated through a delivered order containing it"), true
	case errors.Is(err, ordersdomain.ErrMissingTrackingInfo):
		return sharederrors.NewValidationProblem(map[string]string{
			"tracking_number": "required when status is shipped",
			"tracking_url":    "must be an absolute http(s) URL when status is shipped",
		}), true
	case errors.Is(err, ordersdomain.ErrInvalidTransition):
		return sharederrors.NewValidationProblem(map[string]string{
			"status": "transition not allowed from the current status",
		}), true
	case errors.Is(err, ordersdomain.ErrInvalidStatus):
		return sharederrors.NewValidationProblem(map[string]string{
			"status": "unknown status value",
		}), true
	case errors.Is(err, ordersdomain.ErrInvalidStars):
		return sharederrors.NewValidationProblem(map[string]string{
			"rating": "stars must be between 1 and 5",
		}), true
	case errors.Is(err, ordersdomain.ErrEmptyPatch):
		return sharederrors.ErrBadRequest.WithDetail("update contains no fields"), true
	case errors.Is(err, ordersdomain.ErrNoItems),
		errors.Is(err, ordersdomain.ErrInvalidQuantity),
		errors.Is(err, ordersdomain.ErrInvalidUnitPrice),
		errors.Is(err, ordersdomain.ErrSubtotalMismatch),
		errors.Is(err, ordersdomain.ErrTotalMismatch),
		errors.Is(err, ordersdomain.ErrMissingOwner):
		return sharederrors.ErrValidation.WithDetail(err.Error()), true
	}
	return sharederrors.ProblemDetail{}, false
}

func mapCheckoutErrors(err error) (sharederrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, checkoutdomain.ErrEmptyCart):
		return sharederrors.ErrBadRequest.WithDetail("cart is empty"), true
	case errors.Is(err, checkoutdomain.ErrValidationFailed):
		return sharederrors.ErrValidation.WithDetail("required checkout fields missing for the current step"), true
	case errors.Is(err, checkoutdomain.ErrUnknownShippingMethod):
		return sharederrors.NewValidationProblem(map[string]string{"shipping_method": "unknown shipping method"}), true
	case errors.Is(err, checkoutdomain.ErrUnknownPaymentMethod):
		return sharederrors.NewValidationProblem(map[string]string{"payment_method": "unknown payment method"}), true
	case errors.Is(err, checkoutdomain.ErrInvalidStep):
		return sharederrors.ErrBadRequest.WithDetail("no further checkout step"), true
	case errors.Is(err, checkoutapp.ErrCheckoutNotStarted):
		return sharederrors.ErrBadRequest.WithDetail("checkout has not been started"), true
	case errors.Is(err, checkoutapp.ErrOrderNotPlaced):
		return sharederrors.ErrConflict.WithDetail("order has not been placed yet"), true
	case errors.Is(err, checkoutports.ErrSubmissionFailed):
		return sharederrors.ProblemDetail{
			Type:   "/problems/submission-failed",
			Title:  "Order Submission Failed",
			Status: 502,
			Detail: "order could not be placed, retry with the same checkout session",
		}, true
	case errors.Is(err, cartdomain.ErrUnknownCommand):
		return sharederrors.ErrBadRequest.WithDetail(err.Error()), true
	}
	return sharederrors.ProblemDetail{}, false
}

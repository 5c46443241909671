package domain

import (
	"net/url"
	"strings"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// forwardRank defines the one-step forward order. Cancelled sits outside the
// sequence and is reachable from any non-terminal status.
var forwardRank = map[Status]int{
	StatusPending:    0,
	StatusConfirmed:  1,
	StatusProcessing: 2,
	StatusShipped:    3,
	StatusDelivered:  4,
}

// Valid reports whether the status is a known value.
func (s Status) Valid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := forwardRank[s]
	return ok
}

// Terminal reports whether no further transition may leave the status.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition validates a status-machine move without applying it.
func CanTransition(from, to Status) error {
	if !from.Valid() || !to.Valid() {
		return ErrInvalidStatus
	}
	if from == to {
		return nil
	}
	if from.Terminal() {
		return ErrInvalidTransition
	}
	if to == StatusCancelled {
		return nil
	}
	if forwardRank[to] == forwardRank[from]+1 {
		return nil
	}
	return ErrInvalidTransition
}

// statusRequirement checks the extra fields a status demands on the record it
// would produce. Keyed by target status so new statuses with new requirements
// stay additive.
type statusRequirement func(o *Order) error

var statusRequirements = map[Status]statusRequirement{
	StatusShipped:   requireTracking,
	StatusDelivered: requireTracking,
}

func requireTracking(o *Order) error {
	if strings.TrimSpace(o.TrackingNumber) == "" {
		return ErrMissingTrackingInfo
	}
	if !validTrackingURL(o.TrackingURL) {
		return ErrMissingTrackingInfo
	}
	return nil
}

func validTrackingURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// checkRequirements enforces the rule table for the order's current status.
func checkRequirements(o *Order) error {
	rule, ok := statusRequirements[o.Status]
	if !ok {
		return nil
	}
	return rule(o)
}

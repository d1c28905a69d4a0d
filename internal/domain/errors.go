package domain

import "errors"

var (
	ErrZoneNotFound           = errors.New("zone not found")
	ErrEventNotFound          = errors.New("event not found")
	ErrInsufficientCapacity   = errors.New("insufficient capacity")
	ErrInvalidQuantity        = errors.New("invalid quantity")
	ErrReservationNotFound    = errors.New("reservation not found")
	ErrReservationExpired     = errors.New("reservation expired")
	ErrInvalidStateTransition = errors.New("invalid reservation state for this operation")
	ErrEventNameRequired      = errors.New("event name required")
	ErrZoneNameRequired       = errors.New("zone name required")
	ErrInvalidCapacity        = errors.New("invalid capacity")
	ErrInvalidPrice           = errors.New("invalid price")
	ErrZoneAlreadyExists      = errors.New("zone already exists")
	ErrInvalidID              = errors.New("invalid id")
	ErrOwnerRequired          = errors.New("owner required")

	// ErrInconsistentState means the confirm sequence found storage in a state
	// the capacity invariant forbids. Requires out-of-band reconciliation.
	ErrInconsistentState = errors.New("inconsistent inventory state")
)

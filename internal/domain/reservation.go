package domain

import "time"

type ReservationStatus string

const (
	StatusHold           ReservationStatus = "HOLD"
	StatusPendingPayment ReservationStatus = "PENDING_PAYMENT"
)

// Reservation is a temporary, time-bounded claim on zone inventory. It exists
// only while active: cancellation, confirmation and expiry all remove the row
// rather than flipping it to a terminal status.
type Reservation struct {
	ID        string
	ZoneID    string
	OwnerID   string
	Quantity  int
	Status    ReservationStatus
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the reservation's deadline has passed at the given
// instant.
func (r Reservation) Expired(now time.Time) bool {
	return r.ExpiresAt.Before(now)
}

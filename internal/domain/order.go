package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the permanent sale record written exactly once when a reservation
// is confirmed. Immutable after creation.
type Order struct {
	ID          string
	ZoneID      string
	OwnerID     string
	Quantity    int
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
}

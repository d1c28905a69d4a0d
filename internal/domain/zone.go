package domain

import "github.com/shopspring/decimal"

// Zone is the capacity unit of an event: a sellable inventory partition with
// a finite capacity. SoldCount only ever grows, and only through a confirmed
// sale. At all times 0 <= SoldCount <= MaxCapacity.
type Zone struct {
	ID          string
	EventID     string
	Name        string
	Price       decimal.Decimal
	MaxCapacity int
	SoldCount   int
}

// Remaining is the saleable inventory before active reservations are
// subtracted.
func (z Zone) Remaining() int {
	return z.MaxCapacity - z.SoldCount
}

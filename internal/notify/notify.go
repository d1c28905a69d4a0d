package notify

import (
	"context"
	"time"
)

// OrderConfirmed is the message published once a sale is finalized.
type OrderConfirmed struct {
	OrderID     string    `json:"order_id"`
	ZoneID      string    `json:"zone_id"`
	OwnerID     string    `json:"owner_id"`
	Quantity    int       `json:"quantity"`
	TotalAmount string    `json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`
}

// OrderPublisher fans confirmed sales out to downstream consumers
// (notifications, fulfillment). Publishing is best effort; the sale record is
// already durable when this is called.
type OrderPublisher interface {
	PublishOrderConfirmed(ctx context.Context, msg OrderConfirmed) error
}

// Noop drops every message. Used when no broker is configured.
type Noop struct{}

func (Noop) PublishOrderConfirmed(context.Context, OrderConfirmed) error { return nil }

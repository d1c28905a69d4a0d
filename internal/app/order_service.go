package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cimillas/ticket-reserve/internal/clock"
	"github.com/cimillas/ticket-reserve/internal/domain"
	"github.com/cimillas/ticket-reserve/internal/notify"
)

// OrderRepository is the storage contract for the order finalizer.
// IncrementSoldCount must be a guarded, server-side increment: it only
// applies when sold_count + quantity stays within max_capacity and reports
// domain.ErrInconsistentState otherwise.
type OrderRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetReservationForUpdate(ctx context.Context, id string) (domain.Reservation, error)
	IncrementSoldCount(ctx context.Context, zoneID string, quantity int) (domain.Zone, error)
	CreateOrder(ctx context.Context, order domain.Order) error
	DeleteReservation(ctx context.Context, id string) (bool, error)
	GetEventNameByZone(ctx context.Context, zoneID string) (string, error)
}

// OrderService converts confirmed reservations into permanent sale records.
type OrderService struct {
	repo     OrderRepository
	clock    clock.Clock
	notifier notify.OrderPublisher
	logger   *zap.Logger
}

func NewOrderService(repo OrderRepository, clk clock.Clock, notifier notify.OrderPublisher, logger *zap.Logger) *OrderService {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		repo:     repo,
		clock:    clk,
		notifier: notifier,
		logger:   logger,
	}
}

// OrderView is an order enriched with the zone and event display fields.
type OrderView struct {
	Order     domain.Order
	ZoneName  string
	ZonePrice decimal.Decimal
	EventName string
}

// ConfirmReservation finalizes a sale. In a single transaction it increments
// the zone's sold count, writes the order, and deletes the reservation, in
// that sequence so a failure can only roll the whole confirm back, never
// leave inventory silently lost.
//
// Confirmation is accepted from both HOLD and PENDING_PAYMENT: a reservation
// holds its allocation in either state, and the pending step exists precisely
// so a payment flow can finish with a confirm.
func (s *OrderService) ConfirmReservation(ctx context.Context, reservationID string) (OrderView, error) {
	now := s.clock.Now()
	var view OrderView

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		res, err := s.repo.GetReservationForUpdate(txCtx, reservationID)
		if err != nil {
			return err
		}
		if res.Expired(now) {
			return domain.ErrReservationExpired
		}
		if res.Status != domain.StatusHold && res.Status != domain.StatusPendingPayment {
			return domain.ErrInvalidStateTransition
		}

		zone, err := s.repo.IncrementSoldCount(txCtx, res.ZoneID, res.Quantity)
		if err != nil {
			if err == domain.ErrInconsistentState {
				s.logger.Error("sold count increment rejected while a reservation held its allocation",
					zap.String("reservation_id", res.ID),
					zap.String("zone_id", res.ZoneID),
					zap.Int("quantity", res.Quantity),
					zap.String("reconcile", "capacity-ledger"),
				)
			}
			return err
		}

		order := domain.Order{
			ID:          uuid.NewString(),
			ZoneID:      res.ZoneID,
			OwnerID:     res.OwnerID,
			Quantity:    res.Quantity,
			TotalAmount: zone.Price.Mul(decimal.NewFromInt(int64(res.Quantity))),
			CreatedAt:   now,
		}
		if err := s.repo.CreateOrder(txCtx, order); err != nil {
			return err
		}

		if _, err := s.repo.DeleteReservation(txCtx, res.ID); err != nil {
			return err
		}

		view = OrderView{
			Order:     order,
			ZoneName:  zone.Name,
			ZonePrice: zone.Price,
		}
		return nil
	})
	if err != nil {
		return OrderView{}, err
	}

	if name, err := s.repo.GetEventNameByZone(ctx, view.Order.ZoneID); err == nil {
		view.EventName = name
	}

	s.publishConfirmed(ctx, view.Order)
	return view, nil
}

// publishConfirmed is best effort: the sale is already durable, a lost
// notification only delays downstream consumers.
func (s *OrderService) publishConfirmed(ctx context.Context, order domain.Order) {
	msg := notify.OrderConfirmed{
		OrderID:     order.ID,
		ZoneID:      order.ZoneID,
		OwnerID:     order.OwnerID,
		Quantity:    order.Quantity,
		TotalAmount: order.TotalAmount.String(),
		CreatedAt:   order.CreatedAt,
	}
	if err := s.notifier.PublishOrderConfirmed(ctx, msg); err != nil {
		s.logger.Warn("publish order confirmed failed",
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
	}
}

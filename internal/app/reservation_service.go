package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cimillas/ticket-reserve/internal/clock"
	"github.com/cimillas/ticket-reserve/internal/domain"
)

// ReservationRepository is the storage contract for the reservation engine.
// TryReserve is the single admission primitive: it must compute availability
// and insert the reservation as one indivisible operation per zone, so two
// concurrent holds can never both be admitted against the same remaining
// capacity.
type ReservationRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	TryReserve(ctx context.Context, res domain.Reservation) error
	GetReservation(ctx context.Context, id string) (domain.Reservation, error)
	GetReservationForUpdate(ctx context.Context, id string) (domain.Reservation, error)
	UpdateStatusAndExpiry(ctx context.Context, id string, status domain.ReservationStatus, expiresAt time.Time) error
	DeleteReservation(ctx context.Context, id string) (bool, error)
	GetZone(ctx context.Context, zoneID string) (domain.Zone, error)
	GetEventName(ctx context.Context, eventID string) (string, error)
}

const (
	defaultHoldTTL    = 15 * time.Minute
	defaultPendingTTL = 10 * time.Minute
)

type ReservationService struct {
	repo       ReservationRepository
	clock      clock.Clock
	holdTTL    time.Duration
	pendingTTL time.Duration
}

func NewReservationService(repo ReservationRepository, clk clock.Clock, opts ...ReservationServiceOption) *ReservationService {
	svc := &ReservationService{
		repo:       repo,
		clock:      clk,
		holdTTL:    defaultHoldTTL,
		pendingTTL: defaultPendingTTL,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ReservationServiceOption func(*ReservationService)

// WithHoldTTL overrides the deadline given to new holds.
func WithHoldTTL(d time.Duration) ReservationServiceOption {
	return func(s *ReservationService) {
		if d > 0 {
			s.holdTTL = d
		}
	}
}

// WithPendingTTL overrides the extended deadline given when a hold moves to
// pending payment.
func WithPendingTTL(d time.Duration) ReservationServiceOption {
	return func(s *ReservationService) {
		if d > 0 {
			s.pendingTTL = d
		}
	}
}

// ReservationView is a reservation enriched with the zone and event display
// fields callers render.
type ReservationView struct {
	Reservation domain.Reservation
	ZoneName    string
	ZonePrice   decimal.Decimal
	EventName   string
}

type HoldTicketsInput struct {
	ZoneID   string
	OwnerID  string
	Quantity int
}

// HoldTickets places a time-bounded claim on zone inventory. Admission is
// delegated to the store's TryReserve; a capacity shortfall surfaces as
// ErrInsufficientCapacity, which is an expected business outcome.
func (s *ReservationService) HoldTickets(ctx context.Context, in HoldTicketsInput) (ReservationView, error) {
	if in.Quantity <= 0 {
		return ReservationView{}, domain.ErrInvalidQuantity
	}
	if in.OwnerID == "" {
		return ReservationView{}, domain.ErrOwnerRequired
	}

	now := s.clock.Now()
	res := domain.Reservation{
		ID:        uuid.NewString(),
		ZoneID:    in.ZoneID,
		OwnerID:   in.OwnerID,
		Quantity:  in.Quantity,
		Status:    domain.StatusHold,
		CreatedAt: now,
		ExpiresAt: now.Add(s.holdTTL),
	}

	if err := s.repo.TryReserve(ctx, res); err != nil {
		return ReservationView{}, err
	}

	return s.enrich(ctx, res)
}

// MarkAsPendingPayment moves a HOLD reservation to PENDING_PAYMENT and
// extends its deadline. The reservation already holds its allocation, so no
// capacity re-check happens here.
func (s *ReservationService) MarkAsPendingPayment(ctx context.Context, reservationID string) (ReservationView, error) {
	now := s.clock.Now()
	var res domain.Reservation

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		loaded, err := s.repo.GetReservationForUpdate(txCtx, reservationID)
		if err != nil {
			return err
		}
		if loaded.Status != domain.StatusHold {
			return domain.ErrInvalidStateTransition
		}

		loaded.Status = domain.StatusPendingPayment
		loaded.ExpiresAt = now.Add(s.pendingTTL)
		if err := s.repo.UpdateStatusAndExpiry(txCtx, loaded.ID, loaded.Status, loaded.ExpiresAt); err != nil {
			return err
		}
		res = loaded
		return nil
	})
	if err != nil {
		return ReservationView{}, err
	}

	return s.enrich(ctx, res)
}

// CancelReservation releases a hold by deleting it. Deleting an unknown id is
// not an error; cancellation is idempotent. No capacity adjustment is needed
// because sold counts are only touched on confirm.
func (s *ReservationService) CancelReservation(ctx context.Context, reservationID string) error {
	_, err := s.repo.DeleteReservation(ctx, reservationID)
	return err
}

// GetReservationByID fetches a reservation for display.
func (s *ReservationService) GetReservationByID(ctx context.Context, reservationID string) (ReservationView, error) {
	res, err := s.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return ReservationView{}, err
	}
	return s.enrich(ctx, res)
}

func (s *ReservationService) enrich(ctx context.Context, res domain.Reservation) (ReservationView, error) {
	view := ReservationView{Reservation: res}

	zone, err := s.repo.GetZone(ctx, res.ZoneID)
	if err != nil {
		return ReservationView{}, err
	}
	view.ZoneName = zone.Name
	view.ZonePrice = zone.Price

	name, err := s.repo.GetEventName(ctx, zone.EventID)
	if err != nil {
		if err == domain.ErrEventNotFound {
			return view, nil
		}
		return ReservationView{}, err
	}
	view.EventName = name
	return view, nil
}

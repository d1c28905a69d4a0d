package app

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cimillas/ticket-reserve/internal/clock"
	"github.com/cimillas/ticket-reserve/internal/domain"
	"github.com/cimillas/ticket-reserve/internal/notify"
)

func TestOrderService_ConfirmReservation(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	price := decimal.NewFromInt(40)

	makeSvc := func(zones []domain.Zone, reservations []domain.Reservation) (*OrderService, *fakeOrderRepo, *capturePublisher) {
		repo := newFakeOrderRepo(zones, reservations)
		pub := &capturePublisher{}
		svc := NewOrderService(repo, clock.NewFixed(now), pub, zap.NewNop())
		return svc, repo, pub
	}

	t.Run("confirms a hold", func(t *testing.T) {
		svc, repo, pub := makeSvc(
			[]domain.Zone{{ID: "zone-1", EventID: "event-1", Name: "Floor", Price: price, MaxCapacity: 5, SoldCount: 2}},
			[]domain.Reservation{
				{ID: "res-1", ZoneID: "zone-1", OwnerID: "owner-1", Quantity: 3, Status: domain.StatusHold, ExpiresAt: now.Add(5 * time.Minute)},
			},
		)

		view, err := svc.ConfirmReservation(context.Background(), "res-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		order := view.Order
		if order.ZoneID != "zone-1" || order.OwnerID != "owner-1" || order.Quantity != 3 {
			t.Fatalf("unexpected order: %+v", order)
		}
		wantTotal := price.Mul(decimal.NewFromInt(3))
		if !order.TotalAmount.Equal(wantTotal) {
			t.Fatalf("expected total %s, got %s", wantTotal, order.TotalAmount)
		}
		if view.ZoneName != "Floor" || view.EventName != "Summer Fest" {
			t.Fatalf("expected enriched view, got %+v", view)
		}

		if got := repo.zones["zone-1"].SoldCount; got != 5 {
			t.Fatalf("expected sold count 5, got %d", got)
		}
		if _, ok := repo.reservations["res-1"]; ok {
			t.Fatalf("expected reservation deleted on confirm")
		}
		if len(repo.orders) != 1 {
			t.Fatalf("expected one order, got %d", len(repo.orders))
		}
		if len(pub.published) != 1 || pub.published[0].OrderID != order.ID {
			t.Fatalf("expected order confirmed notification, got %+v", pub.published)
		}
	})

	t.Run("second confirm reports not found and never double counts", func(t *testing.T) {
		svc, repo, _ := makeSvc(
			[]domain.Zone{{ID: "zone-1", EventID: "event-1", Price: price, MaxCapacity: 10}},
			[]domain.Reservation{
				{ID: "res-1", ZoneID: "zone-1", OwnerID: "owner-1", Quantity: 2, Status: domain.StatusHold, ExpiresAt: now.Add(5 * time.Minute)},
			},
		)

		if _, err := svc.ConfirmReservation(context.Background(), "res-1"); err != nil {
			t.Fatalf("first confirm: expected no error, got %v", err)
		}
		_, err := svc.ConfirmReservation(context.Background(), "res-1")
		if err != domain.ErrReservationNotFound {
			t.Fatalf("expected ErrReservationNotFound, got %v", err)
		}
		if got := repo.zones["zone-1"].SoldCount; got != 2 {
			t.Fatalf("expected sold count 2 after double confirm, got %d", got)
		}
		if len(repo.orders) != 1 {
			t.Fatalf("expected a single order, got %d", len(repo.orders))
		}
	})

	t.Run("accepts pending payment reservations", func(t *testing.T) {
		svc, _, _ := makeSvc(
			[]domain.Zone{{ID: "zone-1", EventID: "event-1", Price: price, MaxCapacity: 10}},
			[]domain.Reservation{
				{ID: "res-1", ZoneID: "zone-1", OwnerID: "owner-1", Quantity: 2, Status: domain.StatusPendingPayment, ExpiresAt: now.Add(5 * time.Minute)},
			},
		)

		if _, err := svc.ConfirmReservation(context.Background(), "res-1"); err != nil {
			t.Fatalf("expected pending reservation to confirm, got %v", err)
		}
	})

	t.Run("rejects expired reservations", func(t *testing.T) {
		svc, repo, _ := makeSvc(
			[]domain.Zone{{ID: "zone-1", EventID: "event-1", Price: price, MaxCapacity: 10}},
			[]domain.Reservation{
				{ID: "res-1", ZoneID: "zone-1", OwnerID: "owner-1", Quantity: 2, Status: domain.StatusHold, ExpiresAt: now.Add(-1 * time.Minute)},
			},
		)

		_, err := svc.ConfirmReservation(context.Background(), "res-1")
		if err != domain.ErrReservationExpired {
			t.Fatalf("expected ErrReservationExpired, got %v", err)
		}
		if got := repo.zones["zone-1"].SoldCount; got != 0 {
			t.Fatalf("expected sold count untouched, got %d", got)
		}
	})

	t.Run("guarded increment failure surfaces as inconsistent state", func(t *testing.T) {
		svc, repo, _ := makeSvc(
			[]domain.Zone{{ID: "zone-1", EventID: "event-1", Price: price, MaxCapacity: 3, SoldCount: 2}},
			[]domain.Reservation{
				// Quantity no longer fits; storage must refuse the increment.
				{ID: "res-1", ZoneID: "zone-1", OwnerID: "owner-1", Quantity: 2, Status: domain.StatusHold, ExpiresAt: now.Add(5 * time.Minute)},
			},
		)

		_, err := svc.ConfirmReservation(context.Background(), "res-1")
		if err != domain.ErrInconsistentState {
			t.Fatalf("expected ErrInconsistentState, got %v", err)
		}
		if _, ok := repo.reservations["res-1"]; !ok {
			t.Fatalf("expected reservation kept for reconciliation")
		}
		if len(repo.orders) != 0 {
			t.Fatalf("expected no order, got %d", len(repo.orders))
		}
	})

	t.Run("unknown reservation", func(t *testing.T) {
		svc, _, _ := makeSvc([]domain.Zone{{ID: "zone-1", EventID: "event-1", Price: price, MaxCapacity: 10}}, nil)

		_, err := svc.ConfirmReservation(context.Background(), "missing")
		if err != domain.ErrReservationNotFound {
			t.Fatalf("expected ErrReservationNotFound, got %v", err)
		}
	})
}

type fakeOrderRepo struct {
	zones        map[string]domain.Zone
	events       map[string]string
	reservations map[string]domain.Reservation
	orders       map[string]domain.Order
}

func newFakeOrderRepo(zones []domain.Zone, reservations []domain.Reservation) *fakeOrderRepo {
	f := &fakeOrderRepo{
		zones:        make(map[string]domain.Zone),
		events:       map[string]string{"event-1": "Summer Fest"},
		reservations: make(map[string]domain.Reservation),
		orders:       make(map[string]domain.Order),
	}
	for _, zone := range zones {
		f.zones[zone.ID] = zone
	}
	for _, res := range reservations {
		f.reservations[res.ID] = res
	}
	return f
}

func (f *fakeOrderRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeOrderRepo) GetReservationForUpdate(_ context.Context, id string) (domain.Reservation, error) {
	res, ok := f.reservations[id]
	if !ok {
		return domain.Reservation{}, domain.ErrReservationNotFound
	}
	return res, nil
}

func (f *fakeOrderRepo) IncrementSoldCount(_ context.Context, zoneID string, quantity int) (domain.Zone, error) {
	zone, ok := f.zones[zoneID]
	if !ok || zone.SoldCount+quantity > zone.MaxCapacity {
		return domain.Zone{}, domain.ErrInconsistentState
	}
	zone.SoldCount += quantity
	f.zones[zoneID] = zone
	return zone, nil
}

func (f *fakeOrderRepo) CreateOrder(_ context.Context, order domain.Order) error {
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) DeleteReservation(_ context.Context, id string) (bool, error) {
	_, ok := f.reservations[id]
	delete(f.reservations, id)
	return ok, nil
}

func (f *fakeOrderRepo) GetEventNameByZone(_ context.Context, zoneID string) (string, error) {
	zone, ok := f.zones[zoneID]
	if !ok {
		return "", domain.ErrEventNotFound
	}
	name, ok := f.events[zone.EventID]
	if !ok {
		return "", domain.ErrEventNotFound
	}
	return name, nil
}

type capturePublisher struct {
	published []notify.OrderConfirmed
}

func (c *capturePublisher) PublishOrderConfirmed(_ context.Context, msg notify.OrderConfirmed) error {
	c.published = append(c.published, msg)
	return nil
}

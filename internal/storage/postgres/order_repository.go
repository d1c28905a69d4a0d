package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cimillas/ticket-reserve/internal/domain"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *OrderRepository) GetReservationForUpdate(ctx context.Context, id string) (domain.Reservation, error) {
	const query = `
SELECT id, zone_id, owner_id, quantity, status, created_at, expires_at
FROM reservations
WHERE id = $1
FOR UPDATE`

	var res domain.Reservation
	var status string
	err := r.queryRow(ctx, query, id).
		Scan(&res.ID, &res.ZoneID, &res.OwnerID, &res.Quantity, &status, &res.CreatedAt, &res.ExpiresAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Reservation{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Reservation{}, domain.ErrReservationNotFound
		}
		return domain.Reservation{}, fmt.Errorf("get reservation: %w", err)
	}
	res.Status = domain.ReservationStatus(status)
	return res, nil
}

// IncrementSoldCount applies the sold-count increment as a single guarded
// statement. The WHERE clause re-states the capacity invariant, so even a
// bug elsewhere cannot push sold_count past max_capacity; zero affected rows
// while a reservation holds its allocation is an inconsistency, not a
// business rejection.
func (r *OrderRepository) IncrementSoldCount(ctx context.Context, zoneID string, quantity int) (domain.Zone, error) {
	const stmt = `
UPDATE zones
SET sold_count = sold_count + $2
WHERE id = $1 AND sold_count + $2 <= max_capacity
RETURNING id, event_id, name, price, max_capacity, sold_count`

	var z domain.Zone
	err := r.queryRow(ctx, stmt, zoneID, quantity).
		Scan(&z.ID, &z.EventID, &z.Name, &z.Price, &z.MaxCapacity, &z.SoldCount)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Zone{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Zone{}, domain.ErrInconsistentState
		}
		return domain.Zone{}, fmt.Errorf("increment sold count: %w", err)
	}
	return z, nil
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order domain.Order) error {
	const stmt = `
INSERT INTO orders (id, zone_id, owner_id, quantity, total_amount, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.exec(ctx, stmt,
		order.ID,
		order.ZoneID,
		order.OwnerID,
		order.Quantity,
		order.TotalAmount,
		order.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (r *OrderRepository) DeleteReservation(ctx context.Context, id string) (bool, error) {
	const stmt = `DELETE FROM reservations WHERE id = $1`

	tag, err := r.exec(ctx, stmt, id)
	if err != nil {
		if isInvalidUUID(err) {
			return false, nil
		}
		return false, fmt.Errorf("delete reservation: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *OrderRepository) GetEventNameByZone(ctx context.Context, zoneID string) (string, error) {
	const query = `
SELECT e.name
FROM events e
JOIN zones z ON z.event_id = e.id
WHERE z.id = $1`

	var name string
	err := r.queryRow(ctx, query, zoneID).Scan(&name)
	if err != nil {
		if isInvalidUUID(err) {
			return "", domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return "", domain.ErrEventNotFound
		}
		return "", fmt.Errorf("get event name by zone: %w", err)
	}
	return name, nil
}

func (r *OrderRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *OrderRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

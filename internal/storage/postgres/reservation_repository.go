package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cimillas/ticket-reserve/internal/domain"
)

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

func (r *ReservationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// TryReserve is the atomic admission primitive. The zone row is locked FOR
// UPDATE before availability is computed, which serializes admissions per
// zone: a concurrent TryReserve on the same zone blocks until this
// transaction commits and then sees the inserted reservation. Admissions on
// different zones do not block each other.
func (r *ReservationRepository) TryReserve(ctx context.Context, res domain.Reservation) error {
	return withTx(ctx, r.pool, func(txCtx context.Context) error {
		const zoneQuery = `SELECT max_capacity, sold_count FROM zones WHERE id = $1 FOR UPDATE`
		var maxCapacity, soldCount int
		err := r.queryRow(txCtx, zoneQuery, res.ZoneID).Scan(&maxCapacity, &soldCount)
		if err != nil {
			if isInvalidUUID(err) {
				return domain.ErrInvalidID
			}
			if err == pgx.ErrNoRows {
				return domain.ErrZoneNotFound
			}
			return fmt.Errorf("lock zone: %w", err)
		}

		const activeQuery = `
SELECT COALESCE(SUM(quantity), 0)
FROM reservations
WHERE zone_id = $1 AND expires_at > $2`
		var active int
		if err := r.queryRow(txCtx, activeQuery, res.ZoneID, res.CreatedAt).Scan(&active); err != nil {
			return fmt.Errorf("sum active reservations: %w", err)
		}

		if maxCapacity-soldCount-active < res.Quantity {
			return domain.ErrInsufficientCapacity
		}

		const stmt = `
INSERT INTO reservations (id, zone_id, owner_id, quantity, status, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
		_, err = r.exec(txCtx, stmt,
			res.ID,
			res.ZoneID,
			res.OwnerID,
			res.Quantity,
			res.Status,
			res.CreatedAt,
			res.ExpiresAt,
		)
		if err != nil {
			if isInvalidUUID(err) {
				return domain.ErrInvalidID
			}
			return fmt.Errorf("insert reservation: %w", err)
		}
		return nil
	})
}

func (r *ReservationRepository) GetReservation(ctx context.Context, id string) (domain.Reservation, error) {
	const query = `
SELECT id, zone_id, owner_id, quantity, status, created_at, expires_at
FROM reservations
WHERE id = $1`
	return r.scanReservation(r.queryRow(ctx, query, id))
}

func (r *ReservationRepository) GetReservationForUpdate(ctx context.Context, id string) (domain.Reservation, error) {
	const query = `
SELECT id, zone_id, owner_id, quantity, status, created_at, expires_at
FROM reservations
WHERE id = $1
FOR UPDATE`
	return r.scanReservation(r.queryRow(ctx, query, id))
}

func (r *ReservationRepository) UpdateStatusAndExpiry(ctx context.Context, id string, status domain.ReservationStatus, expiresAt time.Time) error {
	const stmt = `UPDATE reservations SET status = $2, expires_at = $3 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, id, status, expiresAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

// DeleteReservation removes a reservation if it exists. Unknown and malformed
// ids report deleted=false without an error, keeping cancellation idempotent.
func (r *ReservationRepository) DeleteReservation(ctx context.Context, id string) (bool, error) {
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

// DeleteExpired removes every reservation whose deadline has passed,
// releasing the held inventory back to the pool. Used by the expiry reaper.
func (r *ReservationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const stmt = `DELETE FROM reservations WHERE expires_at < $1`

	tag, err := r.exec(ctx, stmt, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired reservations: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *ReservationRepository) GetZone(ctx context.Context, zoneID string) (domain.Zone, error) {
	const query = `
SELECT id, event_id, name, price, max_capacity, sold_count
FROM zones
WHERE id = $1`

	var z domain.Zone
	err := r.queryRow(ctx, query, zoneID).
		Scan(&z.ID, &z.EventID, &z.Name, &z.Price, &z.MaxCapacity, &z.SoldCount)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Zone{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Zone{}, domain.ErrZoneNotFound
		}
		return domain.Zone{}, fmt.Errorf("get zone: %w", err)
	}
	return z, nil
}

func (r *ReservationRepository) GetEventName(ctx context.Context, eventID string) (string, error) {
	const query = `SELECT name FROM events WHERE id = $1`

	var name string
	err := r.queryRow(ctx, query, eventID).Scan(&name)
	if err != nil {
		if isInvalidUUID(err) {
			return "", domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return "", domain.ErrEventNotFound
		}
		return "", fmt.Errorf("get event name: %w", err)
	}
	return name, nil
}

func (r *ReservationRepository) scanReservation(row pgx.Row) (domain.Reservation, error) {
	var res domain.Reservation
	var status string
	err := row.Scan(&res.ID, &res.ZoneID, &res.OwnerID, &res.Quantity, &status, &res.CreatedAt, &res.ExpiresAt)
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

func (r *ReservationRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *ReservationRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

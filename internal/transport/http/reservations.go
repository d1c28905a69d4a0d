package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/cimillas/ticket-reserve/internal/app"
	"github.com/cimillas/ticket-reserve/internal/domain"
	"github.com/cimillas/ticket-reserve/internal/metrics"
)

// TicketHolder is the minimal interface needed to place a hold.
type TicketHolder interface {
	HoldTickets(ctx context.Context, in app.HoldTicketsInput) (app.ReservationView, error)
}

// ReservationReader is the minimal interface needed to fetch a reservation.
type ReservationReader interface {
	GetReservationByID(ctx context.Context, reservationID string) (app.ReservationView, error)
}

// PendingMarker is the minimal interface needed to move a hold to pending
// payment.
type PendingMarker interface {
	MarkAsPendingPayment(ctx context.Context, reservationID string) (app.ReservationView, error)
}

// ReservationCanceler is the minimal interface needed to cancel a hold.
type ReservationCanceler interface {
	CancelReservation(ctx context.Context, reservationID string) error
}

// HandleHoldTickets returns an HTTP handler for placing a hold. The owner
// comes from the authenticated request, never from the body.
func HandleHoldTickets(svc TicketHolder, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := OwnerFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "authentication required")
			return
		}

		var req holdTicketsRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.ZoneID == "" {
			writeError(w, http.StatusBadRequest, codeInvalidID, "zoneId is required")
			return
		}

		view, err := svc.HoldTickets(r.Context(), app.HoldTicketsInput{
			ZoneID:   req.ZoneID,
			OwnerID:  owner,
			Quantity: req.Quantity,
		})
		if err != nil {
			if m != nil && err == domain.ErrInsufficientCapacity {
				m.HoldsRejected.Inc()
			}
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(toReservationResponse(view))
	}
}

// HandleGetReservation returns an HTTP handler for reading a reservation.
func HandleGetReservation(svc ReservationReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.GetReservationByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toReservationResponse(view))
	}
}

// HandleMarkPendingPayment returns an HTTP handler for the
// hold -> pending-payment transition.
func HandleMarkPendingPayment(svc PendingMarker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.MarkAsPendingPayment(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toReservationResponse(view))
	}
}

// HandleCancelReservation returns an HTTP handler for cancellation.
// Cancellation is idempotent: unknown ids still answer 204.
func HandleCancelReservation(svc ReservationCanceler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.CancelReservation(r.Context(), mux.Vars(r)["id"]); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type holdTicketsRequest struct {
	ZoneID   string `json:"zoneId"`
	Quantity int    `json:"quantity"`
}

type reservationResponse struct {
	ID        string          `json:"id"`
	ZoneID    string          `json:"zoneId"`
	NameZone  string          `json:"nameZone"`
	NameEvent string          `json:"nameEvent"`
	PriceZone decimal.Decimal `json:"priceZone"`
	OwnerID   string          `json:"ownerId"`
	Quantity  int             `json:"quantity"`
	CreatedAt time.Time       `json:"createdAt"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Status    string          `json:"status"`
}

func toReservationResponse(view app.ReservationView) reservationResponse {
	res := view.Reservation
	return reservationResponse{
		ID:        res.ID,
		ZoneID:    res.ZoneID,
		NameZone:  view.ZoneName,
		NameEvent: view.EventName,
		PriceZone: view.ZonePrice,
		OwnerID:   res.OwnerID,
		Quantity:  res.Quantity,
		CreatedAt: res.CreatedAt,
		ExpiresAt: res.ExpiresAt,
		Status:    string(res.Status),
	}
}

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/cimillas/ticket-reserve/internal/app"
)

// ReservationConfirmer is the minimal interface needed to finalize a sale.
type ReservationConfirmer interface {
	ConfirmReservation(ctx context.Context, reservationID string) (app.OrderView, error)
}

// HandleConfirmReservation returns an HTTP handler that converts a
// reservation into a permanent order.
func HandleConfirmReservation(svc ReservationConfirmer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.ConfirmReservation(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := orderResponse{
			ID:          view.Order.ID,
			ZoneID:      view.Order.ZoneID,
			OwnerID:     view.Order.OwnerID,
			Quantity:    view.Order.Quantity,
			TotalAmount: view.Order.TotalAmount,
			CreatedAt:   view.Order.CreatedAt,
			PriceZone:   view.ZonePrice,
			NameZone:    view.ZoneName,
			NameEvent:   view.EventName,
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type orderResponse struct {
	ID          string          `json:"id"`
	ZoneID      string          `json:"zoneId"`
	OwnerID     string          `json:"ownerId"`
	Quantity    int             `json:"quantity"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
	PriceZone   decimal.Decimal `json:"priceZone"`
	NameZone    string          `json:"nameZone"`
	NameEvent   string          `json:"nameEvent"`
}

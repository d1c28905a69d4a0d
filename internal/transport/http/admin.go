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
)

// AdminEventService is the minimal interface needed for admin event endpoints.
type AdminEventService interface {
	CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
}

// AdminZoneService is the minimal interface needed for admin zone endpoints.
type AdminZoneService interface {
	CreateZone(ctx context.Context, in app.CreateZoneInput) (domain.Zone, error)
	ListZones(ctx context.Context, eventID string) ([]domain.Zone, error)
}

// HandleAdminEvents returns an HTTP handler for admin event creation/listing.
func HandleAdminEvents(svc AdminEventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			events, err := svc.ListEvents(r.Context())
			if err != nil {
				writeServiceError(w, err)
				return
			}
			resp := make([]eventResponse, 0, len(events))
			for _, event := range events {
				resp = append(resp, eventResponse{
					ID:       event.ID,
					Name:     event.Name,
					StartsAt: event.StartsAt,
				})
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
		case http.MethodPost:
			var req createEventRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			if req.Name == "" {
				writeError(w, http.StatusBadRequest, codeEventNameRequired, domain.ErrEventNameRequired.Error())
				return
			}

			var startsAt *time.Time
			if req.StartsAt != "" {
				parsed, err := time.Parse(time.RFC3339, req.StartsAt)
				if err != nil {
					writeError(w, http.StatusBadRequest, codeInvalidStartsAt, "invalid startsAt format")
					return
				}
				startsAt = &parsed
			}

			event, err := svc.CreateEvent(r.Context(), app.CreateEventInput{
				Name:     req.Name,
				StartsAt: startsAt,
			})
			if err != nil {
				writeServiceError(w, err)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(eventResponse{
				ID:       event.ID,
				Name:     event.Name,
				StartsAt: event.StartsAt,
			})
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleAdminZones returns an HTTP handler for admin zone creation/listing.
func HandleAdminZones(svc AdminZoneService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := mux.Vars(r)["id"]

		switch r.Method {
		case http.MethodGet:
			zones, err := svc.ListZones(r.Context(), eventID)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			resp := make([]zoneResponse, 0, len(zones))
			for _, zone := range zones {
				resp = append(resp, toZoneResponse(zone))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
		case http.MethodPost:
			var req createZoneRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			price, err := decimal.NewFromString(req.Price)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidPrice, "invalid price format")
				return
			}

			zone, err := svc.CreateZone(r.Context(), app.CreateZoneInput{
				EventID:     eventID,
				Name:        req.Name,
				Price:       price,
				MaxCapacity: req.MaxCapacity,
			})
			if err != nil {
				switch err {
				case domain.ErrZoneNameRequired:
					writeError(w, http.StatusBadRequest, codeZoneNameRequired, err.Error())
				case domain.ErrInvalidCapacity:
					writeError(w, http.StatusBadRequest, codeInvalidCapacity, err.Error())
				case domain.ErrInvalidPrice:
					writeError(w, http.StatusBadRequest, codeInvalidPrice, err.Error())
				default:
					writeServiceError(w, err)
				}
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(toZoneResponse(zone))
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

type createEventRequest struct {
	Name     string `json:"name"`
	StartsAt string `json:"startsAt"`
}

type eventResponse struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	StartsAt time.Time `json:"startsAt"`
}

type createZoneRequest struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	MaxCapacity int    `json:"maxCapacity"`
}

type zoneResponse struct {
	ID          string          `json:"id"`
	EventID     string          `json:"eventId"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	MaxCapacity int             `json:"maxCapacity"`
	SoldCount   int             `json:"soldCount"`
}

func toZoneResponse(zone domain.Zone) zoneResponse {
	return zoneResponse{
		ID:          zone.ID,
		EventID:     zone.EventID,
		Name:        zone.Name,
		Price:       zone.Price,
		MaxCapacity: zone.MaxCapacity,
		SoldCount:   zone.SoldCount,
	}
}

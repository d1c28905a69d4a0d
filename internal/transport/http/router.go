package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/cimillas/ticket-reserve/internal/metrics"
)

// ReservationEngine combines the reservation operations the router mounts.
type ReservationEngine interface {
	TicketHolder
	ReservationReader
	PendingMarker
	ReservationCanceler
}

// AdminProvisioner combines the admin operations the router mounts.
type AdminProvisioner interface {
	AdminEventService
	AdminZoneService
}

type RouterDeps struct {
	Reservations ReservationEngine
	Orders       ReservationConfirmer
	Admin        AdminProvisioner
	Logger       *zap.Logger
	Metrics      *metrics.Metrics
	JWTSecret    []byte
	CORSOrigins  []string
}

// NewRouter wires the HTTP surface. Hold and read endpoints require a bearer
// token (the owner comes from it); confirm and cancel are reachable by the
// payment collaborator without one, matching the original surface.
func NewRouter(d RouterDeps) http.Handler {
	r := mux.NewRouter()
	r.Use(RequestLogger(d.Logger, d.Metrics))

	r.HandleFunc("/health", HealthHandler).Methods(http.MethodGet)
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler()).Methods(http.MethodGet)
	}

	r.Handle("/reservations/hold",
		RequireAuth(d.JWTSecret, HandleHoldTickets(d.Reservations, d.Metrics))).Methods(http.MethodPost)
	r.Handle("/reservations/{id}",
		RequireAuth(d.JWTSecret, HandleGetReservation(d.Reservations))).Methods(http.MethodGet)
	r.Handle("/reservations/{id}/pending-payment",
		RequireAuth(d.JWTSecret, HandleMarkPendingPayment(d.Reservations))).Methods(http.MethodPost)
	r.HandleFunc("/reservations/{id}/confirm",
		HandleConfirmReservation(d.Orders)).Methods(http.MethodPost)
	r.HandleFunc("/reservations/{id}",
		HandleCancelReservation(d.Reservations)).Methods(http.MethodDelete)

	r.HandleFunc("/admin/events", HandleAdminEvents(d.Admin)).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/admin/events/{id}/zones", HandleAdminZones(d.Admin)).Methods(http.MethodGet, http.MethodPost)

	r.NotFoundHandler = NotFoundHandler()
	r.MethodNotAllowedHandler = MethodNotAllowedHandler()

	return CORS(d.CORSOrigins, r)
}

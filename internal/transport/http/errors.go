package http

import (
	"encoding/json"
	"net/http"

	"github.com/cimillas/ticket-reserve/internal/domain"
)

const (
	codeMethodNotAllowed     = "method_not_allowed"
	codeNotFound             = "not_found"
	codeInvalidRequestBody   = "invalid_request_body"
	codeInvalidStartsAt      = "invalid_starts_at"
	codeInvalidID            = "invalid_id"
	codeInvalidQuantity      = "invalid_quantity"
	codeInvalidCapacity      = "invalid_capacity"
	codeInvalidPrice         = "invalid_price"
	codeEventNameRequired    = "event_name_required"
	codeZoneNameRequired     = "zone_name_required"
	codeZoneAlreadyExists    = "zone_already_exists"
	codeZoneNotFound         = "zone_not_found"
	codeEventNotFound        = "event_not_found"
	codeInsufficientCapacity = "insufficient_capacity"
	codeReservationNotFound  = "reservation_not_found"
	codeReservationExpired   = "reservation_expired"
	codeInvalidState         = "invalid_state"
	codeUnauthorized         = "unauthorized"
	codeForbidden            = "forbidden"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeServiceError maps the engine's error taxonomy onto HTTP statuses.
// Business rejections stay 4xx; only unknown failures and the inconsistent
// state surface as 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrInvalidQuantity:
		writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case domain.ErrOwnerRequired:
		writeError(w, http.StatusUnauthorized, codeUnauthorized, err.Error())
	case domain.ErrZoneNotFound:
		writeError(w, http.StatusNotFound, codeZoneNotFound, err.Error())
	case domain.ErrEventNotFound:
		writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
	case domain.ErrReservationNotFound:
		writeError(w, http.StatusNotFound, codeReservationNotFound, err.Error())
	case domain.ErrInsufficientCapacity:
		writeError(w, http.StatusConflict, codeInsufficientCapacity, err.Error())
	case domain.ErrReservationExpired:
		writeError(w, http.StatusConflict, codeReservationExpired, err.Error())
	case domain.ErrInvalidStateTransition:
		writeError(w, http.StatusConflict, codeInvalidState, err.Error())
	case domain.ErrZoneAlreadyExists:
		writeError(w, http.StatusConflict, codeZoneAlreadyExists, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

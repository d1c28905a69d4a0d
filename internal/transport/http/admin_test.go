package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/cimillas/ticket-reserve/internal/app"
	"github.com/cimillas/ticket-reserve/internal/domain"
)

func TestHandleAdminEvents(t *testing.T) {
	t.Parallel()

	t.Run("creates event", func(t *testing.T) {
		admin := &recordingAdmin{
			createEventResult: domain.Event{ID: "event-1", Name: "Summer Fest"},
		}
		handler := HandleAdminEvents(admin)

		req := httptest.NewRequest(http.MethodPost, "/admin/events", strings.NewReader(`{"name":"Summer Fest"}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
		}
		if admin.createEventInput.Name != "Summer Fest" {
			t.Fatalf("unexpected input: %+v", admin.createEventInput)
		}
	})

	t.Run("missing name is 400", func(t *testing.T) {
		handler := HandleAdminEvents(&recordingAdmin{})

		req := httptest.NewRequest(http.MethodPost, "/admin/events", strings.NewReader(`{"name":""}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("bad startsAt is 400", func(t *testing.T) {
		handler := HandleAdminEvents(&recordingAdmin{})

		req := httptest.NewRequest(http.MethodPost, "/admin/events", strings.NewReader(`{"name":"Fest","startsAt":"tomorrow"}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "invalid_starts_at") {
			t.Fatalf("expected invalid_starts_at code, got %s", rec.Body.String())
		}
	})
}

func TestHandleAdminZones(t *testing.T) {
	t.Parallel()

	t.Run("creates zone through router path", func(t *testing.T) {
		admin := &recordingAdmin{
			createZoneResult: domain.Zone{
				ID:          "zone-1",
				EventID:     "event-1",
				Name:        "VIP",
				Price:       decimal.RequireFromString("99.50"),
				MaxCapacity: 20,
			},
		}
		router := NewRouter(RouterDeps{
			Reservations: &fakeEngine{},
			Orders:       &fakeConfirmer{},
			Admin:        admin,
			JWTSecret:    testSecret,
		})

		req := httptest.NewRequest(http.MethodPost, "/admin/events/event-1/zones",
			strings.NewReader(`{"name":"VIP","price":"99.50","maxCapacity":20}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
		}
		if admin.createZoneInput.EventID != "event-1" {
			t.Fatalf("expected event id from path, got %q", admin.createZoneInput.EventID)
		}
		var resp map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp["price"] != "99.5" || resp["soldCount"] != float64(0) {
			t.Fatalf("unexpected response: %v", resp)
		}
	})

	t.Run("unparseable price is 400", func(t *testing.T) {
		handler := HandleAdminZones(&recordingAdmin{})

		req := httptest.NewRequest(http.MethodPost, "/admin/events/event-1/zones",
			strings.NewReader(`{"name":"VIP","price":"cheap","maxCapacity":20}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("duplicate zone is 409", func(t *testing.T) {
		handler := HandleAdminZones(&recordingAdmin{createZoneErr: domain.ErrZoneAlreadyExists})

		req := httptest.NewRequest(http.MethodPost, "/admin/events/event-1/zones",
			strings.NewReader(`{"name":"VIP","price":"10","maxCapacity":20}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})
}

type recordingAdmin struct {
	createEventInput  app.CreateEventInput
	createEventResult domain.Event
	createEventErr    error
	createZoneInput   app.CreateZoneInput
	createZoneResult  domain.Zone
	createZoneErr     error
}

func (f *recordingAdmin) CreateEvent(_ context.Context, in app.CreateEventInput) (domain.Event, error) {
	f.createEventInput = in
	if f.createEventErr != nil {
		return domain.Event{}, f.createEventErr
	}
	return f.createEventResult, nil
}

func (f *recordingAdmin) ListEvents(_ context.Context) ([]domain.Event, error) {
	return nil, nil
}

func (f *recordingAdmin) CreateZone(_ context.Context, in app.CreateZoneInput) (domain.Zone, error) {
	f.createZoneInput = in
	if f.createZoneErr != nil {
		return domain.Zone{}, f.createZoneErr
	}
	return f.createZoneResult, nil
}

func (f *recordingAdmin) ListZones(_ context.Context, _ string) ([]domain.Zone, error) {
	return nil, nil
}

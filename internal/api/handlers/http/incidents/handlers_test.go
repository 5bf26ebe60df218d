package incidents_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"github.com/wobin1/citizen-safety-backend/internal/api/handlers/http/incidents"
	mock_incidents "github.com/wobin1/citizen-safety-backend/internal/api/handlers/http/incidents/mocks"
	"github.com/wobin1/citizen-safety-backend/internal/domain"
	"github.com/wobin1/citizen-safety-backend/internal/middleware"
	"github.com/wobin1/citizen-safety-backend/pkg/e"
)

func newHandler(t *testing.T) (*incidents.Handler, *mock_incidents.MockIncidents) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	svc := mock_incidents.NewMockIncidents(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return incidents.NewHandler(logger, svc), svc
}

func authedRequest(method, target string, body []byte, role domain.Role) *http.Request {
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	actor := domain.Actor{ID: uuid.New(), Role: role}
	return r.WithContext(middleware.ContextWithActor(r.Context(), actor))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestReport_OK(t *testing.T) {
	h, svc := newHandler(t)

	body := []byte(`{"type":"vandalism","description":"broken shop window","location_lat":6.52,"location_lon":3.37}`)
	req := authedRequest(http.MethodPost, "/api/v1/incidents", body, domain.RoleCitizen)
	rec := httptest.NewRecorder()

	svc.EXPECT().Report(gomock.Any(), gomock.Any(), gomock.Any()).Return(uuid.New(), nil)

	h.Report(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestReport_BadCoordinates(t *testing.T) {
	h, _ := newHandler(t)

	body := []byte(`{"type":"vandalism","description":"d","location_lat":6.52,"location_lon":200}`)
	req := authedRequest(http.MethodPost, "/api/v1/incidents", body, domain.RoleCitizen)
	rec := httptest.NewRecorder()

	h.Report(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateStatus_CitizenDenied(t *testing.T) {
	h, svc := newHandler(t)

	id := uuid.New()
	body := []byte(`{"status":"VALIDATED"}`)
	req := withURLParam(authedRequest(http.MethodPost, "/api/v1/incidents/"+id.String()+"/status", body, domain.RoleCitizen), "id", id.String())
	rec := httptest.NewRecorder()

	svc.EXPECT().UpdateStatus(gomock.Any(), id, gomock.Any(), gomock.Any()).Return(e.ErrPermissionDenied)

	h.UpdateStatus(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestUpdateStatus_InvalidStatusRejected(t *testing.T) {
	h, _ := newHandler(t)

	id := uuid.New()
	body := []byte(`{"status":"ARCHIVED"}`)
	req := withURLParam(authedRequest(http.MethodPost, "/api/v1/incidents/"+id.String()+"/status", body, domain.RoleEmergencyService), "id", id.String())
	rec := httptest.NewRecorder()

	h.UpdateStatus(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

package emergency_test

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

	"github.com/wobin1/citizen-safety-backend/internal/api/handlers/http/emergency"
	mock_emergency "github.com/wobin1/citizen-safety-backend/internal/api/handlers/http/emergency/mocks"
	"github.com/wobin1/citizen-safety-backend/internal/domain"
	"github.com/wobin1/citizen-safety-backend/internal/middleware"
	"github.com/wobin1/citizen-safety-backend/pkg/e"
)

func newHandler(t *testing.T) (*emergency.Handler, *mock_emergency.MockEmergencies) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	svc := mock_emergency.NewMockEmergencies(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return emergency.NewHandler(logger, svc), svc
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

func TestSubmit_OK(t *testing.T) {
	h, svc := newHandler(t)

	body := []byte(`{"type":"medical","description":"collapsed pedestrian","location_lat":6.46,"location_lon":3.38,"severity":"high"}`)
	req := authedRequest(http.MethodPost, "/api/v1/emergencies", body, domain.RoleCitizen)
	rec := httptest.NewRecorder()

	id := uuid.New()
	svc.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Return(id, nil)

	h.Submit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSubmit_BadSeverity(t *testing.T) {
	h, _ := newHandler(t)

	body := []byte(`{"type":"medical","description":"d","location_lat":6.46,"location_lon":3.38,"severity":"catastrophic"}`)
	req := authedRequest(http.MethodPost, "/api/v1/emergencies", body, domain.RoleCitizen)
	rec := httptest.NewRecorder()

	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestValidate_RejectWithoutReasonRejected(t *testing.T) {
	h, svc := newHandler(t)

	id := uuid.New()
	body := []byte(`{"status":"REJECTED"}`)
	req := withURLParam(authedRequest(http.MethodPost, "/api/v1/emergencies/"+id.String()+"/validate", body, domain.RoleEmergencyService), "id", id.String())
	rec := httptest.NewRecorder()

	svc.EXPECT().Validate(gomock.Any(), id, gomock.Any(), gomock.Any()).Return(e.Wrap("rejection requires a reason", e.ErrInvalidInput))

	h.Validate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCancel_ForbiddenForStranger(t *testing.T) {
	h, svc := newHandler(t)

	id := uuid.New()
	req := withURLParam(authedRequest(http.MethodPost, "/api/v1/emergencies/"+id.String()+"/cancel", nil, domain.RoleCitizen), "id", id.String())
	rec := httptest.NewRecorder()

	svc.EXPECT().Cancel(gomock.Any(), id, gomock.Any()).Return(e.ErrPermissionDenied)

	h.Cancel(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

package alerts

import (
	"context"
	"encoding/json"
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/wobin1/citizen-safety-backend/internal/domain"
	"github.com/wobin1/citizen-safety-backend/internal/middleware"
	"github.com/wobin1/citizen-safety-backend/pkg/validator"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type Alerts interface {
	Trigger(ctx context.Context, req domain.TriggerAlertRequest, actor domain.Actor) (domain.TriggerAlertResponse, error)
	Resolve(ctx context.Context, id uuid.UUID, actor domain.Actor) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Alert, error)
	ListActive(ctx context.Context) ([]*domain.Alert, error)
	List(ctx context.Context, req domain.ListAlertsRequest) (*domain.ListAlertsResponse, error)
}

type Handler struct {
	logger *slog.Logger
	Alerts Alerts
}

func NewHandler(logger *slog.Logger, alerts Alerts) *Handler {
	return &Handler{
		logger: logger,
		Alerts: alerts,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func (h *Handler) Trigger(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("AlertTrigger", slog.String("remote", r.RemoteAddr))

	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req domain.TriggerAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if err := validator.ValidateStruct(&req); err != nil {
		l.Warn("validation failed", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	l.Info("triggering alert",
		slog.String("type", req.Type),
		slog.String("broadcast_type", string(req.BroadcastType)),
		slog.Float64("radius_km", req.RadiusKM),
	)

	resp, err := h.Alerts.Trigger(r.Context(), req, actor)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("alert triggered", slog.String("alert_id", resp.AlertID))
	h.writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("AlertResolve", slog.String("remote", r.RemoteAddr))

	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		l.Warn("invalid id", slog.String("id", idStr), slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.Alerts.Resolve(r.Context(), id, actor); err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"alert_id": id.String()})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		l.Warn("invalid id", slog.String("id", idStr), slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	alert, err := h.Alerts.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, alert)
}

func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.Alerts.ListActive(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if alerts == nil {
		alerts = []*domain.Alert{}
	}
	h.writeJSON(w, http.StatusOK, alerts)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("AlertList", slog.String("query", r.URL.RawQuery), slog.String("remote", r.RemoteAddr))

	req := domain.ListAlertsRequest{
		Status:   r.URL.Query().Get("status"),
		Search:   r.URL.Query().Get("search"),
		Page:     parseInt(r.URL.Query().Get("page"), 1),
		PageSize: parseInt(r.URL.Query().Get("page_size"), 10),
	}
	if req.PageSize > 100 {
		l.Warn("page_size capped", slog.Int("requested", req.PageSize))
		req.PageSize = 100
	}

	resp, err := h.Alerts.List(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("alerts listed", slog.Int("count", len(resp.Alerts)), slog.Int64("total", resp.Total))
	h.writeJSON(w, http.StatusOK, resp)
}

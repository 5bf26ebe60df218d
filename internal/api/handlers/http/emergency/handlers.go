package emergency

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
type Emergencies interface {
	Submit(ctx context.Context, req domain.SubmitEmergencyRequest, actor domain.Actor) (uuid.UUID, error)
	Validate(ctx context.Context, id uuid.UUID, req domain.ValidateEmergencyRequest, actor domain.Actor) error
	Cancel(ctx context.Context, id uuid.UUID, actor domain.Actor) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Emergency, error)
	List(ctx context.Context, req domain.ListEmergenciesRequest) (*domain.ListEmergenciesResponse, error)
}

type Handler struct {
	logger      *slog.Logger
	Emergencies Emergencies
}

func NewHandler(logger *slog.Logger, emergencies Emergencies) *Handler {
	return &Handler{
		logger:      logger,
		Emergencies: emergencies,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("EmergencySubmit", slog.String("remote", r.RemoteAddr))

	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req domain.SubmitEmergencyRequest
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

	id, err := h.Emergencies.Submit(r.Context(), req, actor)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("emergency submitted", slog.String("emergency_id", id.String()), slog.String("severity", req.Severity))
	h.writeJSON(w, http.StatusCreated, map[string]string{"emergency_id": id.String()})
}

func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	id, err := h.parseID(w, r)
	if err != nil {
		return
	}

	var req domain.ValidateEmergencyRequest
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

	if err := h.Emergencies.Validate(r.Context(), id, req, actor); err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("emergency status updated", slog.String("emergency_id", id.String()), slog.String("status", string(req.Status)))
	h.writeJSON(w, http.StatusOK, map[string]string{"emergency_id": id.String()})
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	id, err := h.parseID(w, r)
	if err != nil {
		return
	}

	if err := h.Emergencies.Cancel(r.Context(), id, actor); err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("emergency cancelled", slog.String("emergency_id", id.String()))
	h.writeJSON(w, http.StatusOK, map[string]string{"emergency_id": id.String()})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.parseID(w, r)
	if err != nil {
		return
	}

	em, err := h.Emergencies.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, em)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req := domain.ListEmergenciesRequest{
		Status:   r.URL.Query().Get("status"),
		Page:     parseInt(r.URL.Query().Get("page"), 1),
		PageSize: parseInt(r.URL.Query().Get("page_size"), 10),
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	resp, err := h.Emergencies.List(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		h.log(r).Warn("invalid id", slog.String("id", idStr), slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return uuid.Nil, err
	}
	return id, nil
}

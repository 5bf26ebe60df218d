package emergency

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"log/slog"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/wobin1/citizen-safety-backend/pkg/e"
)

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	l := h.logger.With(slog.String("request_id", chimw.GetReqID(r.Context())))

	switch {
	case errors.Is(err, e.ErrPermissionDenied):
		l.Warn("permission denied", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusForbidden, map[string]string{"error": "permission denied"})
	case errors.Is(err, e.ErrNotFound):
		l.Warn("not found", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, e.ErrInvalidInput), errors.Is(err, e.ErrInvalidCoordinates):
		l.Warn("invalid input", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, e.ErrConflict), errors.Is(err, e.ErrUniqueViolation):
		l.Warn("conflict", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusConflict, map[string]string{"error": "conflict"})
	default:
		l.Error("internal error", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

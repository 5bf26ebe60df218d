package service

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/google/uuid"

	"github.com/wobin1/citizen-safety-backend/internal/domain"
	"github.com/wobin1/citizen-safety-backend/internal/ws"
	"github.com/wobin1/citizen-safety-backend/pkg/e"
)

const eventEmergencyReported = "emergency_reported"

type emergencyService struct {
	repo   EmergencyRepository
	hub    Broadcaster
	logger *slog.Logger
}

func NewEmergencyService(repo EmergencyRepository, hub Broadcaster, logger *slog.Logger) EmergencyService {
	return &emergencyService{
		repo:   repo,
		hub:    hub,
		logger: logger,
	}
}

func (s *emergencyService) Submit(ctx context.Context, req domain.SubmitEmergencyRequest, actor domain.Actor) (uuid.UUID, error) {
	em := &domain.Emergency{
		ID:          uuid.New(),
		UserID:      actor.ID,
		Type:        req.Type,
		Description: req.Description,
		LocationLat: req.LocationLat,
		LocationLon: req.LocationLon,
		Severity:    req.Severity,
		Status:      domain.EmergencyReported,
	}

	if err := s.repo.Create(ctx, em); err != nil {
		return uuid.Nil, err
	}

	// Best-effort heads-up for connected staff; the row is the source of truth.
	s.hub.Broadcast(ws.TopicStaff, ws.Event{Event: eventEmergencyReported, Data: em})

	s.logger.Info("emergency submitted",
		slog.String("emergency_id", em.ID.String()),
		slog.String("severity", em.Severity),
	)
	return em.ID, nil
}

func (s *emergencyService) Validate(ctx context.Context, id uuid.UUID, req domain.ValidateEmergencyRequest, actor domain.Actor) error {
	if !actor.IsStaff() {
		return e.ErrPermissionDenied
	}
	if req.Status == domain.EmergencyRejected && (req.RejectionReason == nil || *req.RejectionReason == "") {
		return fmt.Errorf("rejection needs a reason: %w", e.ErrInvalidInput)
	}

	if err := s.repo.UpdateStatus(ctx, id, req.Status, req.RejectionReason, actor.ID); err != nil {
		return err
	}

	s.logger.Info("emergency status updated",
		slog.String("emergency_id", id.String()),
		slog.String("status", string(req.Status)),
		slog.String("responder", actor.ID.String()),
	)
	return nil
}

func (s *emergencyService) Cancel(ctx context.Context, id uuid.UUID, actor domain.Actor) error {
	em, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if em.UserID != actor.ID && !actor.IsStaff() {
		return e.ErrPermissionDenied
	}

	return s.repo.UpdateStatus(ctx, id, domain.EmergencyCancelled, nil, actor.ID)
}

func (s *emergencyService) Get(ctx context.Context, id uuid.UUID) (*domain.Emergency, error) {
	return s.repo.Get(ctx, id)
}

func (s *emergencyService) List(ctx context.Context, req domain.ListEmergenciesRequest) (*domain.ListEmergenciesResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize <= 0 || req.PageSize > 100 {
		req.PageSize = 10
	}

	items, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, err
	}

	return &domain.ListEmergenciesResponse{
		Emergencies: items,
		Total:       total,
		Page:        req.Page,
		PageSize:    req.PageSize,
	}, nil
}

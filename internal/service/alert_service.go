package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/wobin1/citizen-safety-backend/internal/domain"
	"github.com/wobin1/citizen-safety-backend/pkg/e"
)

// resolveCooldown is how long a resolved alert stays in cooldown before a
// similar one may auto-trigger again.
const resolveCooldown = time.Hour

type alertService struct {
	repo       AlertRepository
	dispatcher *Dispatcher
	logger     *slog.Logger
}

func NewAlertService(repo AlertRepository, dispatcher *Dispatcher, logger *slog.Logger) AlertService {
	return &alertService{
		repo:       repo,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (s *alertService) Trigger(ctx context.Context, req domain.TriggerAlertRequest, actor domain.Actor) (domain.TriggerAlertResponse, error) {
	if actor.Role != domain.RoleEmergencyService {
		s.logger.Warn("alert trigger denied",
			slog.String("actor", actor.ID.String()),
			slog.String("role", string(actor.Role)),
		)
		return domain.TriggerAlertResponse{}, e.ErrPermissionDenied
	}

	if req.BroadcastType == domain.BroadcastNeighborhood {
		if req.RadiusKM <= 0 {
			return domain.TriggerAlertResponse{}, fmt.Errorf("neighborhood broadcast needs positive radius: %w", e.ErrInvalidInput)
		}
		if req.LocationLon == nil {
			return domain.TriggerAlertResponse{}, fmt.Errorf("neighborhood broadcast needs longitude: %w", e.ErrInvalidInput)
		}
	}

	alert := &domain.Alert{
		ID:            uuid.New(),
		TriggerSource: req.TriggerSource,
		Type:          req.Type,
		Message:       req.Message,
		LocationLat:   req.LocationLat,
		LocationLon:   req.LocationLon,
		RadiusKM:      req.RadiusKM,
		BroadcastType: req.BroadcastType,
		Status:        domain.AlertActive,
		TriggeredBy:   actor.ID,
	}

	if err := s.repo.Create(ctx, alert); err != nil {
		return domain.TriggerAlertResponse{}, err
	}

	s.logger.Info("alert created",
		slog.String("alert_id", alert.ID.String()),
		slog.String("broadcast_type", string(alert.BroadcastType)),
	)

	// The row is committed by now. A dispatch failure surfaces to the caller
	// but the alert stays queryable.
	if err := s.dispatcher.Dispatch(ctx, alert); err != nil {
		s.logger.Error("alert dispatch failed",
			slog.String("alert_id", alert.ID.String()),
			slog.Any("error", err),
		)
		return domain.TriggerAlertResponse{}, err
	}

	return domain.TriggerAlertResponse{
		AlertID:   alert.ID.String(),
		CreatedAt: alert.CreatedAt,
	}, nil
}

func (s *alertService) Resolve(ctx context.Context, id uuid.UUID, actor domain.Actor) error {
	if actor.Role != domain.RoleEmergencyService {
		s.logger.Warn("alert resolve denied",
			slog.String("actor", actor.ID.String()),
			slog.String("role", string(actor.Role)),
		)
		return e.ErrPermissionDenied
	}

	cooldownUntil := time.Now().UTC().Add(resolveCooldown)
	if err := s.repo.Resolve(ctx, id, cooldownUntil); err != nil {
		return err
	}

	s.logger.Info("alert resolved", slog.String("alert_id", id.String()))
	return nil
}

func (s *alertService) Get(ctx context.Context, id uuid.UUID) (*domain.Alert, error) {
	return s.repo.Get(ctx, id)
}

func (s *alertService) ListActive(ctx context.Context) ([]*domain.Alert, error) {
	return s.repo.ListActive(ctx)
}

func (s *alertService) List(ctx context.Context, req domain.ListAlertsRequest) (*domain.ListAlertsResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize <= 0 || req.PageSize > 100 {
		req.PageSize = 10
	}

	alerts, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, err
	}

	resp := &domain.ListAlertsResponse{
		Alerts:   alerts,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if int64(req.Page*req.PageSize) < total {
		resp.NextPage = pageLink(req, req.Page+1)
	}
	if req.Page > 1 {
		resp.PrevPage = pageLink(req, req.Page-1)
	}

	return resp, nil
}

func pageLink(req domain.ListAlertsRequest, page int) *string {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("page_size", fmt.Sprint(req.PageSize))
	if req.Status != "" {
		q.Set("status", req.Status)
	}
	if req.Search != "" {
		q.Set("search", req.Search)
	}
	link := "/api/v1/alerts?" + q.Encode()
	return &link
}

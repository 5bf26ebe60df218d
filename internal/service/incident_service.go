package service

import (
	"context"

	"log/slog"

	"github.com/google/uuid"

	"github.com/wobin1/citizen-safety-backend/internal/domain"
	"github.com/wobin1/citizen-safety-backend/pkg/e"
)

type incidentService struct {
	repo   IncidentRepository
	logger *slog.Logger
}

func NewIncidentService(repo IncidentRepository, logger *slog.Logger) IncidentService {
	return &incidentService{repo: repo, logger: logger}
}

func (s *incidentService) Report(ctx context.Context, req domain.ReportIncidentRequest, actor domain.Actor) (uuid.UUID, error) {
	inc := &domain.Incident{
		ID:          uuid.New(),
		UserID:      actor.ID,
		Type:        req.Type,
		Description: req.Description,
		LocationLat: req.LocationLat,
		LocationLon: req.LocationLon,
		Status:      domain.IncidentPending,
	}

	if err := s.repo.Create(ctx, inc); err != nil {
		return uuid.Nil, err
	}

	s.logger.Info("incident reported", slog.String("incident_id", inc.ID.String()))
	return inc.ID, nil
}

func (s *incidentService) UpdateStatus(ctx context.Context, id uuid.UUID, req domain.UpdateIncidentStatusRequest, actor domain.Actor) error {
	if !actor.IsStaff() {
		return e.ErrPermissionDenied
	}

	if err := s.repo.UpdateStatus(ctx, id, req.Status); err != nil {
		return err
	}

	s.logger.Info("incident status updated",
		slog.String("incident_id", id.String()),
		slog.String("status", string(req.Status)),
	)
	return nil
}

func (s *incidentService) Get(ctx context.Context, id uuid.UUID) (*domain.Incident, error) {
	return s.repo.Get(ctx, id)
}

func (s *incidentService) List(ctx context.Context, req domain.ListIncidentsRequest) (*domain.ListIncidentsResponse, error) {
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

	return &domain.ListIncidentsResponse{
		Incidents: items,
		Total:     total,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}, nil
}

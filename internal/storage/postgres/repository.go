package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wobin1/citizen-safety-backend/internal/domain"
)

type AlertRepository interface {
	Create(ctx context.Context, alert *domain.Alert) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Alert, error)
	Resolve(ctx context.Context, id uuid.UUID, cooldownUntil time.Time) error
	ListActive(ctx context.Context) ([]*domain.Alert, error)
	List(ctx context.Context, req domain.ListAlertsRequest) ([]*domain.Alert, int64, error)
}

type EmergencyRepository interface {
	Create(ctx context.Context, em *domain.Emergency) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Emergency, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.EmergencyStatus, rejectionReason *string, responderID uuid.UUID) error
	List(ctx context.Context, req domain.ListEmergenciesRequest) ([]*domain.Emergency, int64, error)
}

type IncidentRepository interface {
	Create(ctx context.Context, inc *domain.Incident) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Incident, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.IncidentStatus) error
	List(ctx context.Context, req domain.ListIncidentsRequest) ([]*domain.Incident, int64, error)
}

type UserRepository interface {
	AllPushTokens(ctx context.Context) ([]string, error)
}

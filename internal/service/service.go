package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wobin1/citizen-safety-backend/internal/domain"
	"github.com/wobin1/citizen-safety-backend/internal/ws"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go
type AlertService interface {
	Trigger(ctx context.Context, req domain.TriggerAlertRequest, actor domain.Actor) (domain.TriggerAlertResponse, error)
	Resolve(ctx context.Context, id uuid.UUID, actor domain.Actor) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Alert, error)
	ListActive(ctx context.Context) ([]*domain.Alert, error)
	List(ctx context.Context, req domain.ListAlertsRequest) (*domain.ListAlertsResponse, error)
}

type EmergencyService interface {
	Submit(ctx context.Context, req domain.SubmitEmergencyRequest, actor domain.Actor) (uuid.UUID, error)
	Validate(ctx context.Context, id uuid.UUID, req domain.ValidateEmergencyRequest, actor domain.Actor) error
	Cancel(ctx context.Context, id uuid.UUID, actor domain.Actor) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Emergency, error)
	List(ctx context.Context, req domain.ListEmergenciesRequest) (*domain.ListEmergenciesResponse, error)
}

type IncidentService interface {
	Report(ctx context.Context, req domain.ReportIncidentRequest, actor domain.Actor) (uuid.UUID, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req domain.UpdateIncidentStatusRequest, actor domain.Actor) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Incident, error)
	List(ctx context.Context, req domain.ListIncidentsRequest) (*domain.ListIncidentsResponse, error)
}

// Repository seams, mirrored from storage so services mock them in isolation.
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

// Broadcaster is the live fan-out seam implemented by ws.Hub.
type Broadcaster interface {
	Broadcast(topic string, msg ws.Event) int
	BroadcastWhere(msg ws.Event, keep func(ws.Member) bool) int
}

// NotifyQueue hands notifications to the out-of-band push gateway worker.
type NotifyQueue interface {
	Enqueue(ctx context.Context, payload domain.PushNotification) error
}

type Service struct {
	AlertService     AlertService
	EmergencyService EmergencyService
	IncidentService  IncidentService
}

func NewService(
	alertService AlertService,
	emergencyService EmergencyService,
	incidentService IncidentService,
) *Service {
	return &Service{
		AlertService:     alertService,
		EmergencyService: emergencyService,
		IncidentService:  incidentService,
	}
}

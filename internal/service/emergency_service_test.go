package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"github.com/wobin1/citizen-safety-backend/internal/domain"
	"github.com/wobin1/citizen-safety-backend/internal/service"
	mock_service "github.com/wobin1/citizen-safety-backend/internal/service/mocks"
	"github.com/wobin1/citizen-safety-backend/internal/ws"
	"github.com/wobin1/citizen-safety-backend/pkg/e"
)

func TestEmergencyService_Submit_NotifiesStaffTopic(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockEmergencyRepository(ctrl)
	hub := mock_service.NewMockBroadcaster(ctrl)
	svc := service.NewEmergencyService(repo, hub, newTestLogger())

	actor := citizenActor()

	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, em *domain.Emergency) error {
			if em.UserID != actor.ID {
				t.Fatalf("expected reporter %s got %s", actor.ID, em.UserID)
			}
			if em.Status != domain.EmergencyReported {
				t.Fatalf("expected initial status REPORTED, got %s", em.Status)
			}
			return nil
		}).
		Times(1)
	hub.EXPECT().
		Broadcast(ws.TopicStaff, gomock.Any()).
		Return(1).
		Times(1)

	id, err := svc.Submit(context.Background(), domain.SubmitEmergencyRequest{
		Type:        "accident",
		Description: "two-car collision",
		LocationLat: 6.5,
		LocationLon: 3.4,
		Severity:    "high",
	}, actor)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if id == uuid.Nil {
		t.Fatalf("expected non-nil id")
	}
}

func TestEmergencyService_Validate_CitizenDenied(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockEmergencyRepository(ctrl)
	hub := mock_service.NewMockBroadcaster(ctrl)
	svc := service.NewEmergencyService(repo, hub, newTestLogger())

	err := svc.Validate(context.Background(), uuid.New(), domain.ValidateEmergencyRequest{
		Status: domain.EmergencyValidated,
	}, citizenActor())
	if !errors.Is(err, e.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestEmergencyService_Validate_RejectWithoutReason(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockEmergencyRepository(ctrl)
	hub := mock_service.NewMockBroadcaster(ctrl)
	svc := service.NewEmergencyService(repo, hub, newTestLogger())

	err := svc.Validate(context.Background(), uuid.New(), domain.ValidateEmergencyRequest{
		Status: domain.EmergencyRejected,
	}, staffActor())
	if !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestEmergencyService_Cancel_OnlyReporterOrStaff(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockEmergencyRepository(ctrl)
	hub := mock_service.NewMockBroadcaster(ctrl)
	svc := service.NewEmergencyService(repo, hub, newTestLogger())

	reporter := citizenActor()
	stranger := citizenActor()
	id := uuid.New()

	repo.EXPECT().
		Get(gomock.Any(), id).
		Return(&domain.Emergency{ID: id, UserID: reporter.ID}, nil).
		Times(2)
	repo.EXPECT().
		UpdateStatus(gomock.Any(), id, domain.EmergencyCancelled, nil, reporter.ID).
		Return(nil).
		Times(1)

	if err := svc.Cancel(context.Background(), id, reporter); err != nil {
		t.Fatalf("reporter cancel failed: %v", err)
	}

	err := svc.Cancel(context.Background(), id, stranger)
	if !errors.Is(err, e.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for stranger, got %v", err)
	}
}

package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"log/slog"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"github.com/wobin1/citizen-safety-backend/internal/domain"
	"github.com/wobin1/citizen-safety-backend/internal/service"
	mock_service "github.com/wobin1/citizen-safety-backend/internal/service/mocks"
	"github.com/wobin1/citizen-safety-backend/internal/ws"
	"github.com/wobin1/citizen-safety-backend/pkg/e"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func f64ptr(v float64) *float64 { return &v }

func staffActor() domain.Actor {
	return domain.Actor{ID: uuid.New(), Role: domain.RoleEmergencyService}
}

func citizenActor() domain.Actor {
	return domain.Actor{ID: uuid.New(), Role: domain.RoleCitizen}
}

func newAlertService(t *testing.T, ctrl *gomock.Controller) (
	service.AlertService,
	*mock_service.MockAlertRepository,
	*mock_service.MockBroadcaster,
	*mock_service.MockNotifyQueue,
	*mock_service.MockUserRepository,
) {
	t.Helper()
	repo := mock_service.NewMockAlertRepository(ctrl)
	hub := mock_service.NewMockBroadcaster(ctrl)
	queue := mock_service.NewMockNotifyQueue(ctrl)
	users := mock_service.NewMockUserRepository(ctrl)
	dispatcher := service.NewDispatcher(hub, queue, users, newTestLogger())
	return service.NewAlertService(repo, dispatcher, newTestLogger()), repo, hub, queue, users
}

func TestAlertService_Trigger_BroadcastAll_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, hub, queue, users := newAlertService(t, ctrl)
	actor := staffActor()

	var got *domain.Alert
	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *domain.Alert) error {
			got = a
			a.CreatedAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
			return nil
		}).
		Times(1)
	hub.EXPECT().
		Broadcast(ws.TopicBroadcastAll, gomock.Any()).
		Return(3).
		Times(1)
	users.EXPECT().
		AllPushTokens(gomock.Any()).
		Return([]string{"tok-1", "tok-2"}, nil).
		Times(1)
	queue.EXPECT().
		Enqueue(gomock.Any(), gomock.Any()).
		Return(nil).
		Times(1)

	resp, err := svc.Trigger(context.Background(), domain.TriggerAlertRequest{
		TriggerSource: domain.TriggerEmergencyService,
		Type:          "flood",
		Message:       "evacuate low ground",
		LocationLat:   6.5244,
		LocationLon:   f64ptr(3.3792),
		RadiusKM:      5,
		BroadcastType: domain.BroadcastAll,
	}, actor)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if resp.AlertID == "" {
		t.Fatalf("expected alert id")
	}
	if resp.CreatedAt.IsZero() {
		t.Fatalf("expected created_at from persistence")
	}

	if got == nil {
		t.Fatalf("alert not persisted")
	}
	if got.Status != domain.AlertActive {
		t.Fatalf("expected status=%q got=%q", domain.AlertActive, got.Status)
	}
	if got.TriggeredBy != actor.ID {
		t.Fatalf("expected triggered_by=%s got=%s", actor.ID, got.TriggeredBy)
	}
}

func TestAlertService_Trigger_GatewayFailureDoesNotFail(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, hub, queue, users := newAlertService(t, ctrl)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	hub.EXPECT().Broadcast(ws.TopicBroadcastAll, gomock.Any()).Return(0).Times(1)
	users.EXPECT().AllPushTokens(gomock.Any()).Return([]string{"tok-1"}, nil).Times(1)
	queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(errors.New("redis down")).Times(1)

	_, err := svc.Trigger(context.Background(), domain.TriggerAlertRequest{
		TriggerSource: domain.TriggerManual,
		Type:          "fire",
		Message:       "warehouse fire",
		LocationLat:   1,
		BroadcastType: domain.BroadcastAll,
	}, staffActor())
	if err != nil {
		t.Fatalf("gateway failure must not fail trigger: %v", err)
	}
}

func TestAlertService_Trigger_Neighborhood_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, hub, _, _ := newAlertService(t, ctrl)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	hub.EXPECT().BroadcastWhere(gomock.Any(), gomock.Any()).Return(2).Times(1)

	_, err := svc.Trigger(context.Background(), domain.TriggerAlertRequest{
		TriggerSource: domain.TriggerSensor,
		Type:          "gas_leak",
		Message:       "leave the area",
		LocationLat:   0,
		LocationLon:   f64ptr(0),
		RadiusKM:      10,
		BroadcastType: domain.BroadcastNeighborhood,
	}, staffActor())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestAlertService_Trigger_CitizenDenied_NoRowWritten(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _, _ := newAlertService(t, ctrl)

	_, err := svc.Trigger(context.Background(), domain.TriggerAlertRequest{
		TriggerSource: domain.TriggerManual,
		Type:          "fire",
		Message:       "test",
		LocationLat:   1,
		BroadcastType: domain.BroadcastAll,
	}, citizenActor())
	if !errors.Is(err, e.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	// repo.Create has no EXPECT: any call would fail the controller.
}

func TestAlertService_Trigger_Neighborhood_InvalidRadius(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _, _ := newAlertService(t, ctrl)

	_, err := svc.Trigger(context.Background(), domain.TriggerAlertRequest{
		TriggerSource: domain.TriggerManual,
		Type:          "fire",
		Message:       "test",
		LocationLat:   1,
		LocationLon:   f64ptr(2),
		RadiusKM:      0,
		BroadcastType: domain.BroadcastNeighborhood,
	}, staffActor())
	if !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAlertService_Trigger_Neighborhood_MissingLongitude(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _, _ := newAlertService(t, ctrl)

	_, err := svc.Trigger(context.Background(), domain.TriggerAlertRequest{
		TriggerSource: domain.TriggerManual,
		Type:          "fire",
		Message:       "test",
		LocationLat:   1,
		RadiusKM:      5,
		BroadcastType: domain.BroadcastNeighborhood,
	}, staffActor())
	if !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAlertService_Resolve_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, _, _, _ := newAlertService(t, ctrl)
	id := uuid.New()

	repo.EXPECT().
		Resolve(gomock.Any(), id, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, cooldownUntil time.Time) error {
			until := time.Until(cooldownUntil)
			if until < 59*time.Minute || until > 61*time.Minute {
				t.Fatalf("expected cooldown about one hour out, got %v", until)
			}
			return nil
		}).
		Times(1)

	if err := svc.Resolve(context.Background(), id, staffActor()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestAlertService_Resolve_NotFound(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, _, _, _ := newAlertService(t, ctrl)
	id := uuid.New()

	repo.EXPECT().Resolve(gomock.Any(), id, gomock.Any()).Return(e.ErrNotFound).Times(1)

	err := svc.Resolve(context.Background(), id, staffActor())
	if !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAlertService_Resolve_CitizenDenied(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _, _ := newAlertService(t, ctrl)

	err := svc.Resolve(context.Background(), uuid.New(), citizenActor())
	if !errors.Is(err, e.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestAlertService_List_PaginationLinks(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, _, _, _ := newAlertService(t, ctrl)

	repo.EXPECT().
		List(gomock.Any(), gomock.Any()).
		Return([]*domain.Alert{{}, {}}, int64(25), nil).
		Times(1)

	resp, err := svc.List(context.Background(), domain.ListAlertsRequest{
		Status:   "ACTIVE",
		Search:   "flood",
		Page:     2,
		PageSize: 10,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if resp.Total != 25 {
		t.Fatalf("expected total=25 got=%d", resp.Total)
	}
	if resp.NextPage == nil || resp.PrevPage == nil {
		t.Fatalf("expected both page links on middle page, got next=%v prev=%v", resp.NextPage, resp.PrevPage)
	}
	for _, link := range []string{*resp.NextPage, *resp.PrevPage} {
		if !bytes.Contains([]byte(link), []byte("status=ACTIVE")) ||
			!bytes.Contains([]byte(link), []byte("search=flood")) {
			t.Fatalf("page link must preserve filters: %s", link)
		}
	}
}

func TestAlertService_List_LastPageHasNoNext(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, _, _, _ := newAlertService(t, ctrl)

	repo.EXPECT().
		List(gomock.Any(), gomock.Any()).
		Return([]*domain.Alert{{}}, int64(11), nil).
		Times(1)

	resp, err := svc.List(context.Background(), domain.ListAlertsRequest{Page: 2, PageSize: 10})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if resp.NextPage != nil {
		t.Fatalf("expected no next page, got %v", *resp.NextPage)
	}
	if resp.PrevPage == nil {
		t.Fatalf("expected prev page link")
	}
}

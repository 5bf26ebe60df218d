package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wobin1/citizen-safety-backend/internal/domain"
	"github.com/wobin1/citizen-safety-backend/internal/service"
	mock_service "github.com/wobin1/citizen-safety-backend/internal/service/mocks"
	"github.com/wobin1/citizen-safety-backend/internal/ws"
)

type recordConn struct {
	mu     sync.Mutex
	events []ws.Event
}

func (c *recordConn) Send(event ws.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *recordConn) Close() error { return nil }

func (c *recordConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func newHubDispatcher(t *testing.T, ctrl *gomock.Controller) (*service.Dispatcher, *ws.Hub, *mock_service.MockNotifyQueue, *mock_service.MockUserRepository) {
	t.Helper()
	hub := ws.NewHub(newTestLogger())
	queue := mock_service.NewMockNotifyQueue(ctrl)
	users := mock_service.NewMockUserRepository(ctrl)
	return service.NewDispatcher(hub, queue, users, newTestLogger()), hub, queue, users
}

func neighborhoodAlert(lat, lon, radius float64) *domain.Alert {
	return &domain.Alert{
		Type:          "flood",
		Message:       "move to higher ground",
		LocationLat:   lat,
		LocationLon:   &lon,
		RadiusKM:      radius,
		BroadcastType: domain.BroadcastNeighborhood,
		Status:        domain.AlertActive,
	}
}

func TestDispatcher_BroadcastAll_IgnoresLocations(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d, hub, queue, users := newHubDispatcher(t, ctrl)

	conns := []*recordConn{{}, {}, {}}
	for _, c := range conns {
		hub.Subscribe(c, ws.TopicBroadcastAll)
	}
	// Locations are irrelevant for broadcast_all; only one has any.
	hub.UpdateLocation(conns[0], 80, 170, "u1")

	users.EXPECT().AllPushTokens(gomock.Any()).Return([]string{"t1"}, nil).Times(1)
	queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	lon := 3.3792
	err := d.Dispatch(context.Background(), &domain.Alert{
		Type:          "storm",
		Message:       "stay indoors",
		LocationLat:   6.5244,
		LocationLon:   &lon,
		RadiusKM:      2,
		BroadcastType: domain.BroadcastAll,
	})
	require.NoError(t, err)

	for _, c := range conns {
		assert.Equal(t, 1, c.count())
	}
}

func TestDispatcher_Neighborhood_RadiusFilter(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d, hub, _, _ := newHubDispatcher(t, ctrl)

	atCenter := &recordConn{}
	nearby := &recordConn{}
	far := &recordConn{}
	for _, c := range []*recordConn{atCenter, nearby, far} {
		hub.Subscribe(c, ws.TopicBroadcastAll)
	}
	hub.UpdateLocation(atCenter, 0, 0, "a")     // 0 km
	hub.UpdateLocation(nearby, 0, 0.05, "b")    // ~5.5 km
	hub.UpdateLocation(far, 1, 1, "c")          // ~157 km

	err := d.Dispatch(context.Background(), neighborhoodAlert(0, 0, 10))
	require.NoError(t, err)

	assert.Equal(t, 1, atCenter.count())
	assert.Equal(t, 1, nearby.count())
	assert.Equal(t, 0, far.count())
}

func TestDispatcher_Neighborhood_NoLocationNeverRecipient(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d, hub, _, _ := newHubDispatcher(t, ctrl)

	silent := &recordConn{}
	hub.Subscribe(silent, ws.TopicBroadcastAll)

	// Effectively infinite radius still excludes locationless connections.
	err := d.Dispatch(context.Background(), neighborhoodAlert(0, 0, 1e9))
	require.NoError(t, err)

	assert.Equal(t, 0, silent.count())
}

func TestDispatcher_Neighborhood_MissingLongitudeRejected(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d, _, _, _ := newHubDispatcher(t, ctrl)

	err := d.Dispatch(context.Background(), &domain.Alert{
		Type:          "flood",
		Message:       "x",
		LocationLat:   0,
		RadiusKM:      5,
		BroadcastType: domain.BroadcastNeighborhood,
	})
	assert.Error(t, err)
}

func TestDispatcher_BroadcastAll_NoTokensSkipsGateway(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d, _, _, users := newHubDispatcher(t, ctrl)

	users.EXPECT().AllPushTokens(gomock.Any()).Return(nil, nil).Times(1)
	// queue.Enqueue has no EXPECT: any call would fail the controller.

	err := d.Dispatch(context.Background(), &domain.Alert{
		Type:          "storm",
		Message:       "stay indoors",
		LocationLat:   1,
		BroadcastType: domain.BroadcastAll,
	})
	require.NoError(t, err)
}

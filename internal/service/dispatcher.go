package service

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/wobin1/citizen-safety-backend/internal/domain"
	"github.com/wobin1/citizen-safety-backend/internal/geo"
	"github.com/wobin1/citizen-safety-backend/internal/ws"
	"github.com/wobin1/citizen-safety-backend/pkg/e"
)

const eventAlertTriggered = "alert_triggered"

// Dispatcher pushes a freshly persisted alert to connected clients and, for
// broadcast_all alerts, to the out-of-band push gateway. Delivery is at most
// once per recipient per call, best effort, never acknowledged.
type Dispatcher struct {
	hub    Broadcaster
	queue  NotifyQueue
	users  UserRepository
	logger *slog.Logger
}

func NewDispatcher(hub Broadcaster, queue NotifyQueue, users UserRepository, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		hub:    hub,
		queue:  queue,
		users:  users,
		logger: logger,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, alert *domain.Alert) error {
	event := ws.Event{Event: eventAlertTriggered, Data: alert}

	if alert.BroadcastType == domain.BroadcastAll {
		sent := d.hub.Broadcast(ws.TopicBroadcastAll, event)
		d.logger.Info("alert broadcast to all",
			slog.String("alert_id", alert.ID.String()),
			slog.Int("recipients", sent),
		)
		d.notifyGateway(ctx, alert)
		return nil
	}

	if alert.LocationLon == nil {
		return fmt.Errorf("dispatch alert %s: longitude required for neighborhood broadcast: %w", alert.ID, e.ErrInvalidInput)
	}
	lat, lon, radius := alert.LocationLat, *alert.LocationLon, alert.RadiusKM

	sent := d.hub.BroadcastWhere(event, func(m ws.Member) bool {
		if m.Location == nil {
			return false
		}
		// A NaN distance from a malformed stored location compares false,
		// so that connection is skipped without aborting the rest.
		dist := geo.DistanceKm(lat, lon, m.Location.Lat, m.Location.Lon)
		return dist <= radius
	})
	d.logger.Info("alert broadcast to neighborhood",
		slog.String("alert_id", alert.ID.String()),
		slog.Float64("radius_km", radius),
		slog.Int("recipients", sent),
	)
	return nil
}

// notifyGateway queues one push/SMS/email notification for every registered
// device token. Gateway problems never fail the triggering request.
func (d *Dispatcher) notifyGateway(ctx context.Context, alert *domain.Alert) {
	tokens, err := d.users.AllPushTokens(ctx)
	if err != nil {
		d.logger.Error("fetch push tokens failed", slog.Any("error", err))
		return
	}
	if len(tokens) == 0 {
		d.logger.Warn("no push tokens registered, skipping gateway notification")
		return
	}

	lon := ""
	if alert.LocationLon != nil {
		lon = fmt.Sprintf("%g", *alert.LocationLon)
	}
	payload := domain.PushNotification{
		Title: "Emergency Alert",
		Body:  alert.Message,
		Data: map[string]string{
			"alert_id":       alert.ID.String(),
			"type":           alert.Type,
			"broadcast_type": string(alert.BroadcastType),
			"location_lat":   fmt.Sprintf("%g", alert.LocationLat),
			"location_lon":   lon,
			"radius_km":      fmt.Sprintf("%g", alert.RadiusKM),
			"created_at":     alert.CreatedAt.Format(time.RFC3339),
		},
		Tokens:   tokens,
		QueuedAt: time.Now().UTC(),
	}

	if err := d.queue.Enqueue(ctx, payload); err != nil {
		d.logger.Error("enqueue push notification failed",
			slog.String("alert_id", alert.ID.String()),
			slog.Any("error", err),
		)
		return
	}
	d.logger.Info("push notification enqueued",
		slog.String("alert_id", alert.ID.String()),
		slog.Int("tokens", len(tokens)),
	)
}

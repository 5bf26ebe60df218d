package domain

import (
	"time"

	"github.com/google/uuid"
)

type AlertStatus string

const (
	AlertActive   AlertStatus = "ACTIVE"
	AlertCooldown AlertStatus = "COOLDOWN"
	AlertResolved AlertStatus = "RESOLVED"
)

type TriggerSource string

const (
	TriggerEmergencyService TriggerSource = "emergency_service"
	TriggerSensor           TriggerSource = "sensor"
	TriggerManual           TriggerSource = "manual"
)

type BroadcastType string

const (
	BroadcastAll          BroadcastType = "broadcast_all"
	BroadcastNeighborhood BroadcastType = "broadcast_neighborhood"
)

type Alert struct {
	ID            uuid.UUID     `json:"id"`
	TriggerSource TriggerSource `json:"trigger_source"`
	Type          string        `json:"type"`
	Message       string        `json:"message"`
	LocationLat   float64       `json:"location_lat"`
	LocationLon   *float64      `json:"location_lon"`
	RadiusKM      float64       `json:"radius_km"`
	BroadcastType BroadcastType `json:"broadcast_type"`
	Status        AlertStatus   `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	CooldownUntil *time.Time    `json:"cooldown_until"`
	TriggeredBy   uuid.UUID     `json:"triggered_by"`
}

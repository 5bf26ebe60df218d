package domain

import "time"

type TriggerAlertRequest struct {
	TriggerSource TriggerSource `json:"trigger_source" validate:"required,oneof=emergency_service sensor manual"`
	Type          string        `json:"type" validate:"required"`
	Message       string        `json:"message" validate:"required"`
	LocationLat   float64       `json:"location_lat" validate:"lat"`
	LocationLon   *float64      `json:"location_lon" validate:"omitempty,lon"`
	RadiusKM      float64       `json:"radius_km" validate:"radius_km"`
	BroadcastType BroadcastType `json:"broadcast_type" validate:"required,oneof=broadcast_all broadcast_neighborhood"`
}

type TriggerAlertResponse struct {
	AlertID   string    `json:"alert_id"`
	CreatedAt time.Time `json:"created_at"`
}

type ListAlertsRequest struct {
	Status   string `query:"status" validate:"omitempty,oneof=ACTIVE COOLDOWN RESOLVED"`
	Search   string `query:"search"`
	Page     int    `query:"page" validate:"min=1"`
	PageSize int    `query:"page_size" validate:"min=1,max=100"`
}

type ListAlertsResponse struct {
	Alerts   []*Alert `json:"alerts"`
	Total    int64    `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
	NextPage *string  `json:"next_page"`
	PrevPage *string  `json:"prev_page"`
}

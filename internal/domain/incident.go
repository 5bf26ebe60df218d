package domain

import (
	"time"

	"github.com/google/uuid"
)

type IncidentStatus string

const (
	IncidentPending   IncidentStatus = "PENDING"
	IncidentValidated IncidentStatus = "VALIDATED"
	IncidentRejected  IncidentStatus = "REJECTED"
	IncidentResolved  IncidentStatus = "RESOLVED"
)

type Incident struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"user_id"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	LocationLat float64        `json:"location_lat"`
	LocationLon float64        `json:"location_lon"`
	Status      IncidentStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   *time.Time     `json:"updated_at"`
}

type ReportIncidentRequest struct {
	Type        string  `json:"type" validate:"required"`
	Description string  `json:"description" validate:"required"`
	LocationLat float64 `json:"location_lat" validate:"lat"`
	LocationLon float64 `json:"location_lon" validate:"lon"`
}

type UpdateIncidentStatusRequest struct {
	Status IncidentStatus `json:"status" validate:"required,oneof=VALIDATED REJECTED RESOLVED"`
}

type ListIncidentsRequest struct {
	Status   string `query:"status"`
	Page     int    `query:"page" validate:"min=1"`
	PageSize int    `query:"page_size" validate:"min=1,max=100"`
}

type ListIncidentsResponse struct {
	Incidents []*Incident `json:"incidents"`
	Total     int64       `json:"total"`
	Page      int         `json:"page"`
	PageSize  int         `json:"page_size"`
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

type EmergencyStatus string

const (
	EmergencyReported    EmergencyStatus = "REPORTED"
	EmergencyValidated   EmergencyStatus = "VALIDATED"
	EmergencyDispatched  EmergencyStatus = "DISPATCHED"
	EmergencyActionTaken EmergencyStatus = "ACTION_TAKEN"
	EmergencyRejected    EmergencyStatus = "REJECTED"
	EmergencyCancelled   EmergencyStatus = "CANCELLED"
	EmergencyResolved    EmergencyStatus = "RESOLVED"
)

type Emergency struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	Type            string          `json:"type"`
	Description     string          `json:"description"`
	LocationLat     float64         `json:"location_lat"`
	LocationLon     float64         `json:"location_lon"`
	Severity        string          `json:"severity"`
	Status          EmergencyStatus `json:"status"`
	RejectionReason *string         `json:"rejection_reason"`
	ResponderID     *uuid.UUID      `json:"responder_id"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       *time.Time      `json:"updated_at"`
}

type SubmitEmergencyRequest struct {
	Type        string  `json:"type" validate:"required"`
	Description string  `json:"description" validate:"required"`
	LocationLat float64 `json:"location_lat" validate:"lat"`
	LocationLon float64 `json:"location_lon" validate:"lon"`
	Severity    string  `json:"severity" validate:"required,oneof=low medium high critical"`
}

type ValidateEmergencyRequest struct {
	Status          EmergencyStatus `json:"status" validate:"required,oneof=VALIDATED DISPATCHED ACTION_TAKEN REJECTED RESOLVED"`
	RejectionReason *string         `json:"rejection_reason" validate:"omitempty,max=500"`
}

type ListEmergenciesRequest struct {
	Status   string `query:"status"`
	Page     int    `query:"page" validate:"min=1"`
	PageSize int    `query:"page_size" validate:"min=1,max=100"`
}

type ListEmergenciesResponse struct {
	Emergencies []*Emergency `json:"emergencies"`
	Total       int64        `json:"total"`
	Page        int          `json:"page"`
	PageSize    int          `json:"page_size"`
}

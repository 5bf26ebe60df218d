package domain

import "time"

// PushNotification is the payload handed to the external push/SMS/email
// gateway. Targets every registered device token.
type PushNotification struct {
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data"`
	Tokens   []string          `json:"tokens"`
	QueuedAt time.Time         `json:"queued_at"`
}

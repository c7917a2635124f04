package domain

import "time"

// Notification is an out-of-band message handed to the configured sinks.
// Body carries plaintext and may contain a passcode; never return it to a client.
type Notification struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"user_id"`
	Subject   string    `json:"subject"`
	Body      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

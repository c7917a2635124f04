package domain

import "time"

// OTPRecord is one outstanding passcode for one subject.
// At most one exists per SubjectID; issuing a new one replaces it.
type OTPRecord struct {
	SubjectID string    `json:"user_id"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the record is past its expiry at now.
func (r *OTPRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

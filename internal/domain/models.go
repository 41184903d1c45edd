package domain

// Domain contains core models shared across packages.

import "time"

// Exchange records one completed request dispatch.
type Exchange struct {
	RequestID    string    `json:"request_id"`
	Method       string    `json:"method"`
	URL          string    `json:"url"`
	Status       int       `json:"status"`
	BodyBytes    int       `json:"body_bytes"`
	DispatchedAt time.Time `json:"dispatched_at"`
}

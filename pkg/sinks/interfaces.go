package sinks

import (
	"context"
	"time"
)

// Sink receives the displayable outcome of a dispatched request.
type Sink interface {
	ID() string
	Type() string
	Deliver(ctx context.Context, d Delivery) error
}

// Delivery carries the rendered response text plus exchange metadata.
// Text-oriented sinks (console, file) write Body only; queue sinks ship
// the whole record as JSON.
type Delivery struct {
	RequestID  string    `json:"request_id"`
	Method     string    `json:"method"`
	URL        string    `json:"url"`
	Status     int       `json:"status"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`
}

package sinks

import (
	"context"
	"errors"
	"fmt"
)

// Fanout forwards deliveries to all configured sinks.
type Fanout struct {
	sinks []Sink
}

// NewFanout builds a fanout across the provided sinks.
func NewFanout(sinks []Sink) *Fanout {
	cp := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s == nil {
			continue
		}
		cp = append(cp, s)
	}
	return &Fanout{sinks: cp}
}

// ID identifies the fanout when used as a Sink itself.
func (f *Fanout) ID() string { return "fanout" }

// Type returns the pseudo sink type.
func (f *Fanout) Type() string { return "fanout" }

// Deliver forwards the delivery to every registered sink. Failures are
// joined; every sink still gets the delivery.
func (f *Fanout) Deliver(ctx context.Context, d Delivery) error {
	if f == nil || len(f.sinks) == 0 {
		return nil
	}

	var errs []error
	for _, s := range f.sinks {
		if err := s.Deliver(ctx, d); err != nil {
			errs = append(errs, fmt.Errorf("%s sink[%s]: %w", s.Type(), s.ID(), err))
		}
	}
	return errors.Join(errs...)
}

// Size returns the number of active sinks.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.sinks)
}

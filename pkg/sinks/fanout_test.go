package sinks

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// captureSink records deliveries and can inject errors.
type captureSink struct {
	mu         sync.Mutex
	id         string
	deliveries []Delivery
	err        error
}

func (c *captureSink) ID() string   { return c.id }
func (c *captureSink) Type() string { return "capture" }
func (c *captureSink) Deliver(_ context.Context, d Delivery) error {
	c.mu.Lock()
	c.deliveries = append(c.deliveries, d)
	c.mu.Unlock()
	return c.err
}

func TestFanoutDeliversToAllSinks(t *testing.T) {
	a := &captureSink{id: "a"}
	b := &captureSink{id: "b"}
	f := NewFanout([]Sink{a, nil, b})

	if f.Size() != 2 {
		t.Fatalf("Size = %d", f.Size())
	}

	if err := f.Deliver(context.Background(), Delivery{Body: "x"}); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if len(a.deliveries) != 1 || len(b.deliveries) != 1 {
		t.Fatalf("not all sinks received the delivery")
	}
}

func TestFanoutContinuesPastFailures(t *testing.T) {
	a := &captureSink{id: "a", err: errors.New("boom")}
	b := &captureSink{id: "b"}
	f := NewFanout([]Sink{a, b})

	err := f.Deliver(context.Background(), Delivery{Body: "x"})
	if err == nil {
		t.Fatalf("expected joined error")
	}
	if len(b.deliveries) != 1 {
		t.Fatalf("later sink skipped after earlier failure")
	}
}

func TestEmptyFanoutIsNoop(t *testing.T) {
	f := NewFanout(nil)
	if err := f.Deliver(context.Background(), Delivery{Body: "x"}); err != nil {
		t.Fatalf("Deliver on empty fanout: %v", err)
	}
}

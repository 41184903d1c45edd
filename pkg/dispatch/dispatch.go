package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/reqdesk-hq/reqdesk/internal/domain"
	"github.com/reqdesk-hq/reqdesk/internal/history"
	"github.com/reqdesk-hq/reqdesk/pkg/request"
	"github.com/reqdesk-hq/reqdesk/pkg/sinks"
	"github.com/reqdesk-hq/reqdesk/pkg/transport"
)

// ErrNoPendingRequest is returned when Send or Validate is invoked with
// an empty slot. Callers must configure a request before sending.
var ErrNoPendingRequest = errors.New("a request must be configured before sending")

// pending is the single-slot state: the held spec plus the definition id
// it came from, if any.
type pending struct {
	id   string
	spec request.Spec
}

// Dispatcher holds at most one pending request Spec and executes it on
// demand through an injected Transport. The latest SetPending wins; no
// history of slots is kept. Send reads a snapshot of the slot, so a
// concurrent SetPending only affects later sends.
type Dispatcher struct {
	mu        sync.RWMutex
	pending   *pending
	transport transport.Transport
	store     history.Store
	log       Logger
}

// NewDispatcher builds a dispatcher around the given transport. The
// history store may be nil when no record keeping is wanted.
func NewDispatcher(t transport.Transport, store history.Store, log Logger) *Dispatcher {
	return &Dispatcher{
		transport: t,
		store:     store,
		log:       ensureLogger(log),
	}
}

// SetPending replaces the currently held spec.
func (d *Dispatcher) SetPending(id string, spec request.Spec) {
	d.mu.Lock()
	d.pending = &pending{id: id, spec: spec}
	d.mu.Unlock()
}

// Clear empties the slot.
func (d *Dispatcher) Clear() {
	d.mu.Lock()
	d.pending = nil
	d.mu.Unlock()
}

// Validate reports whether a request is configured.
func (d *Dispatcher) Validate() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.pending == nil {
		return ErrNoPendingRequest
	}
	return nil
}

// Send executes the held spec and delivers the displayable outcome to
// the sink. A response body that parses as JSON is delivered indented;
// anything else is delivered verbatim. A parse failure is display
// policy, not an error. Transport and sink failures propagate to the
// caller; nothing is retried.
func (d *Dispatcher) Send(ctx context.Context, sink sinks.Sink) error {
	d.mu.RLock()
	snapshot := d.pending
	d.mu.RUnlock()

	if snapshot == nil {
		return ErrNoPendingRequest
	}
	if d.transport == nil {
		return errors.New("dispatcher has no transport configured")
	}
	if sink == nil {
		return errors.New("dispatcher has no sink configured")
	}

	descriptor := snapshot.spec.Materialize()

	resp, err := d.transport.Do(ctx, descriptor)
	if err != nil {
		return fmt.Errorf("dispatch %s %s: %w", descriptor.Method, descriptor.URL, err)
	}

	text, err := resp.Text(ctx)
	if err != nil {
		return &transport.TransportError{URL: descriptor.URL, Err: err}
	}

	delivery := sinks.Delivery{
		RequestID:  snapshot.id,
		Method:     descriptor.Method,
		URL:        descriptor.URL,
		Status:     resp.StatusCode(),
		Body:       renderBody(text),
		ReceivedAt: time.Now().UTC(),
	}

	if err := sink.Deliver(ctx, delivery); err != nil {
		return fmt.Errorf("deliver response: %w", err)
	}

	d.record(domain.Exchange{
		RequestID:    snapshot.id,
		Method:       descriptor.Method,
		URL:          descriptor.URL,
		Status:       resp.StatusCode(),
		BodyBytes:    len(text),
		DispatchedAt: delivery.ReceivedAt,
	})

	return nil
}

// record appends the exchange to history. Best effort: a failed append
// is logged and never fails the send.
func (d *Dispatcher) record(ex domain.Exchange) {
	if d.store == nil {
		return
	}
	if err := d.store.Append(ex); err != nil {
		d.log.WarnObj("history append failed", "history_error", map[string]any{
			"request_id": ex.RequestID,
			"error":      err.Error(),
		})
	}
}

// renderBody pretty-prints JSON response bodies and passes everything
// else through unchanged.
func renderBody(text string) string {
	raw := []byte(text)
	if !json.Valid(raw) {
		return text
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return text
	}
	return buf.String()
}

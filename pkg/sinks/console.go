package sinks

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

// writerSink writes the rendered response text to an io.Writer. This is
// the default display target.
type writerSink struct {
	id  string
	typ string
	mu  sync.Mutex
	w   io.Writer
}

// NewWriterSink wraps an arbitrary writer as a console-type sink.
func NewWriterSink(id string, w io.Writer) Sink {
	return &writerSink{id: id, typ: TypeConsole, w: w}
}

func newConsoleSink(_ context.Context, cfg SinkConfig, _ Logger) (Sink, error) {
	return &writerSink{id: cfg.ID, typ: TypeConsole, w: os.Stdout}, nil
}

func (s *writerSink) ID() string   { return s.id }
func (s *writerSink) Type() string { return s.typ }

// Deliver writes the body text followed by a newline.
func (s *writerSink) Deliver(_ context.Context, d Delivery) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.w, d.Body+"\n"); err != nil {
		return fmt.Errorf("write response text: %w", err)
	}
	return nil
}

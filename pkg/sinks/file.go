package sinks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// fileSink appends rendered response text to a file. The file is opened
// per delivery so a long-lived console does not hold the handle.
type fileSink struct {
	id   string
	typ  string
	mu   sync.Mutex
	path string
}

func newFileSink(_ context.Context, cfg SinkConfig, _ Logger) (Sink, error) {
	if cfg.File == nil {
		return nil, fmt.Errorf("sink %q missing file configuration", cfg.ID)
	}

	dir := filepath.Dir(cfg.File.Path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sink directory: %w", err)
		}
	}

	return &fileSink{id: cfg.ID, typ: TypeFile, path: cfg.File.Path}, nil
}

func (s *fileSink) ID() string   { return s.id }
func (s *fileSink) Type() string { return s.typ }

// Deliver appends the body text followed by a newline.
func (s *fileSink) Deliver(_ context.Context, d Delivery) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open sink file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(d.Body + "\n"); err != nil {
		return fmt.Errorf("append response text: %w", err)
	}
	return nil
}

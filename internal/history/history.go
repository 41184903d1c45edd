package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/reqdesk-hq/reqdesk/internal/domain"
)

// Package history keeps a record of completed request dispatches.

// Store appends and reads back dispatched exchanges.
type Store interface {
	Close() error
	Append(ex domain.Exchange) error
	Recent(limit int) ([]domain.Exchange, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	ExchangeTTL     time.Duration
	CleanupInterval time.Duration
	MaxEntries      int
}

const (
	defaultExchangeTTL     = 5 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
	defaultMaxEntries      = 256
)

// NewStore creates the configured history backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "memory":
		return newMemoryStore(opts.MaxEntries), nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt history requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported history type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.ExchangeTTL <= 0 {
		opts.ExchangeTTL = defaultExchangeTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = defaultMaxEntries
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                          { return nil }
func (noopStore) Append(domain.Exchange) error          { return nil }
func (noopStore) Recent(int) ([]domain.Exchange, error) { return nil, nil }

package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/reqdesk-hq/reqdesk/internal/config"
	"github.com/reqdesk-hq/reqdesk/internal/history"
	"github.com/reqdesk-hq/reqdesk/internal/logger"
	"github.com/reqdesk-hq/reqdesk/pkg/dispatch"
	"github.com/reqdesk-hq/reqdesk/pkg/request"
	"github.com/reqdesk-hq/reqdesk/pkg/sinks"
	"github.com/reqdesk-hq/reqdesk/pkg/transport"
)

// Console wires together the request registry, transport, history store,
// sinks, and the dispatcher, and runs one pass over the configured
// requests. Requests are invoked strictly sequentially; there is no
// scheduling and no retry.
type Console struct {
	cfg        *config.Config
	requests   *request.ConfigRegistry
	dispatcher *dispatch.Dispatcher
	fanout     *sinks.Fanout
	store      history.Store
	log        logger.Logger
}

// NewConsole builds a console runtime from config files.
func NewConsole(ctx context.Context, cfg *config.Config, log logger.Logger) (*Console, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	requestReg, err := request.LoadRegistry(cfg.RequestsFile)
	if err != nil {
		return nil, fmt.Errorf("load requests registry: %w", err)
	}
	log.InfoObj("requests registry loaded", "requests", requestReg.All())

	fanout, err := buildSinks(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	store, err := history.NewStore(cfg.HistoryType, cfg.BBoltPath, history.Options{
		ExchangeTTL:     cfg.HistoryTTL,
		CleanupInterval: cfg.HistoryCleanupInterval,
		MaxEntries:      cfg.HistoryMaxEntries,
	})
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}

	tr := transport.NewRestyTransport(cfg.RequestTimeout)

	return &Console{
		cfg:        cfg,
		requests:   requestReg,
		dispatcher: dispatch.NewDispatcher(tr, store, log),
		fanout:     fanout,
		store:      store,
		log:        log,
	}, nil
}

// buildSinks loads the sink registry and instantiates every enabled sink.
// A missing sinks file falls back to a stdout console sink so a bare run
// still displays responses.
func buildSinks(ctx context.Context, cfg *config.Config, log logger.Logger) (*sinks.Fanout, error) {
	sinkReg, err := sinks.LoadRegistry(cfg.SinksFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.WarnObj("sinks file missing; using stdout sink", "sinks_file", cfg.SinksFile)
			return sinks.NewFanout([]sinks.Sink{sinks.NewWriterSink("stdout", os.Stdout)}), nil
		}
		return nil, fmt.Errorf("load sinks registry: %w", err)
	}

	enabled := sinkReg.Enabled()
	if len(enabled) == 0 {
		return nil, fmt.Errorf("no sinks configured")
	}

	built, err := sinks.BuildAll(ctx, sinks.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build sinks: %w", err)
	}
	log.InfoObj("sinks registry loaded", "sinks", enabled)

	return sinks.NewFanout(built), nil
}

// Run dispatches every enabled request definition once, in order. A
// failing definition is logged and does not stop the pass; Run fails
// only when the context is cancelled or every request failed.
func (c *Console) Run(ctx context.Context) error {
	if c == nil || c.dispatcher == nil {
		return fmt.Errorf("console is not initialized")
	}

	defs := c.requests.Enabled()
	if len(defs) == 0 {
		c.log.WarnObj("no requests enabled; nothing to dispatch", "requests_file", c.cfg.RequestsFile)
		return nil
	}

	c.log.InfoObj("dispatch pass starting", "console_state", map[string]any{
		"requests_count": len(defs),
		"sinks_count":    c.fanout.Size(),
	})

	start := time.Now()
	var errs []error
	successful := 0

	for _, def := range defs {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := c.dispatchOne(ctx, def); err != nil {
			c.log.ErrorObj("request dispatch failed", "dispatch_error", map[string]any{
				"request_id": def.ID,
				"error":      err.Error(),
			})
			errs = append(errs, fmt.Errorf("request[%s]: %w", def.ID, err))
			continue
		}
		successful++
	}

	c.log.InfoObj("dispatch pass completed", "dispatch_meta", map[string]any{
		"requests_count": len(defs),
		"successful":     successful,
		"elapsed_ms":     time.Since(start).Milliseconds(),
	})

	if successful == 0 {
		return fmt.Errorf("all %d requests failed: %w", len(defs), errors.Join(errs...))
	}
	return nil
}

// dispatchOne configures the dispatcher with the definition and sends it.
func (c *Console) dispatchOne(ctx context.Context, def request.Definition) error {
	spec, err := def.Spec()
	if err != nil {
		return fmt.Errorf("build spec: %w", err)
	}

	c.dispatcher.SetPending(def.ID, spec)
	if err := c.dispatcher.Validate(); err != nil {
		return err
	}
	return c.dispatcher.Send(ctx, c.fanout)
}

// Close releases the history store.
func (c *Console) Close() error {
	if c == nil || c.store == nil {
		return nil
	}
	return c.store.Close()
}

package transport

import (
	"context"
	"fmt"

	"github.com/reqdesk-hq/reqdesk/pkg/request"
)

// Response is a minimal contract over a received HTTP response.
type Response interface {
	StatusCode() int
	// Text reads the response body as text. Buffered implementations
	// ignore the context; streaming ones honor cancellation.
	Text(ctx context.Context) (string, error)
}

// Transport executes a materialized request descriptor. Implementations
// are injected by the caller so tests can substitute fakes; nothing in
// this module reaches for an ambient client.
type Transport interface {
	Do(ctx context.Context, d request.Descriptor) (Response, error)
}

// TransportError wraps a network-level send failure (unreachable host,
// timeout). It is never retried here.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("send request to %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

package transport

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/reqdesk-hq/reqdesk/pkg/request"
)

// RestyTransport adapts resty.Client to the Transport interface.
type RestyTransport struct {
	client *resty.Client
}

// NewRestyTransport creates a RestyTransport with the specified timeout.
func NewRestyTransport(timeout time.Duration) *RestyTransport {
	c := resty.New()
	c.SetTimeout(timeout)
	return &RestyTransport{client: c}
}

// Do sends the descriptor and returns the buffered response.
func (t *RestyTransport) Do(ctx context.Context, d request.Descriptor) (Response, error) {
	req := t.client.R().SetContext(ctx)
	if len(d.Headers) > 0 {
		req.SetHeaders(d.Headers)
	}
	if d.HasBody {
		req.SetBody(d.Body)
	}

	resp, err := req.Execute(d.Method, d.URL)
	if err != nil {
		return nil, &TransportError{URL: d.URL, Err: err}
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// restyResponseAdapter adapts resty.Response to the Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) StatusCode() int { return r.resp.StatusCode() }

// Text returns the already-buffered body; resty reads it eagerly.
func (r *restyResponseAdapter) Text(context.Context) (string, error) {
	return string(r.resp.Body()), nil
}

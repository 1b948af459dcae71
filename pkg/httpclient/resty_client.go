package httpclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// MaxRedirects is the number of redirects followed before a call is aborted.
const MaxRedirects = 10

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a client that follows up to MaxRedirects redirects, speaks
// HTTP/1.1 only and never times out. A zero timeout waits until the remote answers
// or the connection fails.
func NewRestyClient(timeout time.Duration) *RestyClient {
	c := newRestyBaseClient(timeout)
	c.SetTransport(http1Transport())
	c.SetRedirectPolicy(resty.FlexibleRedirectPolicy(MaxRedirects))
	return &RestyClient{client: c}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	return c
}

// http1Transport disables HTTP/2 negotiation.
func http1Transport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2: false,
		TLSNextProto:      make(map[string]func(string, *tls.Conn) http.RoundTripper),
		MaxIdleConns:      100,
		IdleConnTimeout:   90 * time.Second,
	}
}

// Send performs exactly one request described by spec. Non-2xx statuses are returned
// as regular responses; only connection-level failures produce a *TransportError.
func (r *RestyClient) Send(ctx context.Context, spec RequestSpec) (Response, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	resp, err := r.client.R().SetContext(ctx).Execute(spec.Method, spec.URL)
	if err != nil {
		return nil, &TransportError{Method: spec.Method, URL: spec.URL, Err: err}
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte    { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int { return r.resp.StatusCode() }

package httpclient

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// RequestSpec describes a single outbound call. It carries no body: the ledger node
// encodes submission parameters in the path.
type RequestSpec struct {
	URL    string
	Method string
}

// NewRequestSpec validates method and URL and returns an immutable spec.
func NewRequestSpec(method, rawURL string) (RequestSpec, error) {
	spec := RequestSpec{
		URL:    strings.TrimSpace(rawURL),
		Method: strings.ToUpper(strings.TrimSpace(method)),
	}
	if err := spec.Validate(); err != nil {
		return RequestSpec{}, err
	}
	return spec, nil
}

// Validate checks that the method is supported and the URL is absolute.
func (s RequestSpec) Validate() error {
	switch s.Method {
	case http.MethodGet, http.MethodPost:
	default:
		return fmt.Errorf("unsupported method %q", s.Method)
	}

	u, err := url.Parse(s.URL)
	if err != nil {
		return fmt.Errorf("parse url %q: %w", s.URL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("url %q must be absolute (scheme and host)", s.URL)
	}
	return nil
}

// TransportError reports a failure below HTTP: DNS, refused or interrupted
// connections, redirect loops. A response carrying any status code is never a
// TransportError.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

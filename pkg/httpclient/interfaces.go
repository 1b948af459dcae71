package httpclient

import "context"

// Response is a completed exchange: whatever body the server sent and its status.
// Non-2xx statuses are responses, not errors.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client performs exactly one request per Send. Connection-level failures are
// reported as *TransportError.
type Client interface {
	Send(ctx context.Context, spec RequestSpec) (Response, error)
}

package wallet

import (
	"context"

	"github.com/Adda-Baaj/noobcash-web/internal/domain"
)

// EventSink receives the classified outcome of every submission that reached the node
// (or failed trying). Sink errors are logged and never alter the submission result.
type EventSink interface {
	Name() string
	Handle(ctx context.Context, evt domain.SubmissionEvent) error
}

type traceKey struct{}

// ContextWithTraceID attaches a request trace id picked up by submission events.
func ContextWithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceKey{}, id)
}

// TraceID returns the trace id stored in ctx, if any.
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}

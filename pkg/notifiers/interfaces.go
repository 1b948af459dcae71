package notifiers

import "context"

// Notifier sends submission events to a downstream sink (SQS, SNS, Pub/Sub, HTTP).
type Notifier interface {
	ID() string
	Type() string
	Send(ctx context.Context, evt Event) error
}

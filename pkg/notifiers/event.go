package notifiers

import (
	"time"

	"github.com/Adda-Baaj/noobcash-web/internal/domain"
)

// Event represents the payload sent downstream.
type Event struct {
	Source     string                 `json:"source"`
	Submission domain.SubmissionEvent `json:"submission"`
	EmittedAt  time.Time              `json:"emitted_at"`
}

// NewEvent wraps a submission outcome emitted by source.
func NewEvent(source string, sub domain.SubmissionEvent) Event {
	return Event{
		Source:     source,
		Submission: sub,
		EmittedAt:  time.Now().UTC(),
	}
}

// attributes are the routing attributes attached to queue/topic messages.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"outcome":   e.Submission.Outcome,
		"sender_id": e.Submission.SenderID,
	}
}

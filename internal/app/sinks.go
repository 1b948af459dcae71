package app

import (
	"context"

	"github.com/Adda-Baaj/noobcash-web/internal/domain"
	"github.com/Adda-Baaj/noobcash-web/internal/storage"
	"github.com/Adda-Baaj/noobcash-web/pkg/notifiers"
)

// journalSink records every classified submission in the local store.
type journalSink struct {
	store storage.Store
}

func (journalSink) Name() string { return "journal" }

func (j journalSink) Handle(_ context.Context, evt domain.SubmissionEvent) error {
	if j.store == nil {
		return nil
	}
	_, err := j.store.Record(evt)
	return err
}

// notifierSink forwards submissions to every configured notifier.
type notifierSink struct {
	fanout *notifiers.Fanout
	source string
}

func (notifierSink) Name() string { return "notifiers" }

func (n notifierSink) Handle(ctx context.Context, evt domain.SubmissionEvent) error {
	if n.fanout == nil || n.fanout.Size() == 0 {
		return nil
	}
	_, err := n.fanout.Publish(ctx, notifiers.NewEvent(n.source, evt))
	return err
}

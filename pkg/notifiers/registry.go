package notifiers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Adda-Baaj/noobcash-web/internal/logger"
)

// Builder creates a Notifier from a config entry.
type Builder func(ctx context.Context, cfg NotifierConfig, log logger.Logger) (Notifier, error)

// Builders maps a notifier type to its constructor. Keys are lower case.
type Builders map[string]Builder

// DefaultBuilders returns constructors for every supported sink type.
func DefaultBuilders() Builders {
	return Builders{
		TypeHTTP:   newHTTPNotifier,
		TypeSQS:    newSQSNotifier,
		TypeSNS:    newSNSNotifier,
		TypePubSub: newPubSubNotifier,
	}
}

// With returns a copy of b where typ is built by builder.
func (b Builders) With(typ string, builder Builder) Builders {
	out := make(Builders, len(b)+1)
	for k, v := range b {
		out[k] = v
	}
	if typ = strings.ToLower(strings.TrimSpace(typ)); typ != "" && builder != nil {
		out[typ] = builder
	}
	return out
}

// Build constructs the notifier described by cfg.
func (b Builders) Build(ctx context.Context, cfg NotifierConfig, log logger.Logger) (Notifier, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("notifier %q has no type configured", cfg.ID)
	}
	builder, ok := b[strings.ToLower(cfg.Type)]
	if !ok || builder == nil {
		return nil, fmt.Errorf("no notifier registered for type %q", cfg.Type)
	}
	return builder(ctx, cfg, logger.Ensure(log))
}

// BuildAll constructs every notifier in cfgs. When one fails, the ones already
// built are closed before the error is returned.
func (b Builders) BuildAll(ctx context.Context, cfgs []NotifierConfig, log logger.Logger) ([]Notifier, error) {
	ns := make([]Notifier, 0, len(cfgs))
	for _, cfg := range cfgs {
		n, err := b.Build(ctx, cfg, log)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("build notifier %q: %w", cfg.ID, err), closeAll(ns))
		}
		ns = append(ns, n)
	}
	return ns, nil
}

func closeAll(ns []Notifier) error {
	var errs []error
	for _, n := range ns {
		if c, ok := n.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close notifier[%s]: %w", n.ID(), err))
			}
		}
	}
	return errors.Join(errs...)
}

package notifiers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Adda-Baaj/noobcash-web/internal/logger"
	"github.com/Adda-Baaj/noobcash-web/pkg/httpclient"
)

// TraceHeader carries the submission trace id on webhook deliveries.
const TraceHeader = "X-Trace-Id"

const webhookSnippetLen = 512

// httpNotifier posts each event as JSON to a webhook.
type httpNotifier struct {
	id     string
	cfg    HTTPNotifierConfig
	client *resty.Client
	log    logger.Logger
}

func newHTTPNotifier(_ context.Context, cfg NotifierConfig, log logger.Logger) (Notifier, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("notifier %q missing http configuration", cfg.ID)
	}

	timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
	client := httpclient.NewRestyHTTPClient(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeaders(cfg.HTTP.Headers)

	return &httpNotifier{
		id:     cfg.ID,
		cfg:    *cfg.HTTP,
		client: client,
		log:    logger.Ensure(log),
	}, nil
}

func (h *httpNotifier) ID() string   { return h.id }
func (h *httpNotifier) Type() string { return TypeHTTP }

// Send delivers evt; any non-2xx answer is an error.
func (h *httpNotifier) Send(ctx context.Context, evt Event) error {
	req := h.client.R().SetContext(ctx).SetBody(evt)
	if id := evt.Submission.TraceID; id != "" {
		req.SetHeader(TraceHeader, id)
	}

	resp, err := req.Execute(h.cfg.Method, h.cfg.URL)
	if err != nil {
		return fmt.Errorf("webhook %s %s: %w", h.cfg.Method, h.cfg.URL, err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook answered %d: %s", resp.StatusCode(), bodySnippet(resp.Body()))
	}

	h.log.DebugObj("webhook delivered", "notifier_http_delivery", map[string]any{
		"notifier_id": h.id,
		"trace_id":    evt.Submission.TraceID,
		"status_code": resp.StatusCode(),
	})
	return nil
}

func bodySnippet(body []byte) string {
	if len(body) > webhookSnippetLen {
		body = body[:webhookSnippetLen]
	}
	return strings.TrimSpace(string(body))
}

// Package wallet implements the view client for a NoobCash ledger node: balance,
// history and transaction submission over the node's HTTP API.
package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Adda-Baaj/noobcash-web/internal/domain"
	"github.com/Adda-Baaj/noobcash-web/internal/logger"
	"github.com/Adda-Baaj/noobcash-web/pkg/httpclient"
)

const bodySnippetLen = 256

// Config identifies the node and the wallet this client acts for.
type Config struct {
	BaseURL         string `json:"base_url" validate:"required,url"`
	SenderID        string `json:"sender_id" validate:"required"`
	FallbackBalance domain.Amount
}

// Client is stateless apart from its configuration; every call builds its own
// request and result.
type Client struct {
	cfg       Config
	transport httpclient.Client
	sinks     []EventSink
	validator *inputValidator
	log       logger.Logger
	now       func() time.Time
}

// New validates cfg and returns a client using transport for all node calls.
func New(cfg Config, transport httpclient.Client, log logger.Logger, sinks ...EventSink) (*Client, error) {
	if transport == nil {
		return nil, errors.New("transport must not be nil")
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.SenderID = strings.TrimSpace(cfg.SenderID)

	iv := newInputValidator()
	if err := iv.check(cfg); err != nil {
		return nil, fmt.Errorf("invalid wallet config: %w", err)
	}

	active := make([]EventSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			active = append(active, s)
		}
	}

	return &Client{
		cfg:       cfg,
		transport: transport,
		sinks:     active,
		validator: iv,
		log:       logger.Ensure(log),
		now:       time.Now,
	}, nil
}

// SenderID returns the wallet identifier used for submissions.
func (c *Client) SenderID() string { return c.cfg.SenderID }

// BalanceResult carries the displayed balance and how it was obtained.
type BalanceResult struct {
	Balance    domain.Amount
	Outcome    Outcome
	StatusCode int
	Err        error
}

// Degraded reports whether Balance is the configured fallback.
func (r BalanceResult) Degraded() bool { return r.Outcome != OutcomeSuccess }

// HistoryResult carries the node's history or the reason it is unavailable.
type HistoryResult struct {
	History    domain.TransactionHistory
	Outcome    Outcome
	StatusCode int
	Err        error
}

// SubmissionResult is the classified outcome of SubmitTransaction.
type SubmissionResult struct {
	Submission domain.TransactionSubmission
	Outcome    Outcome
	StatusCode int
	Err        error
}

// FetchBalance asks the node for the wallet balance. Any failure yields the
// configured fallback balance with the failure recorded in the result.
func (c *Client) FetchBalance(ctx context.Context) BalanceResult {
	resp, err := c.call(ctx, http.MethodGet, "balance")
	res := BalanceResult{StatusCode: statusOf(resp)}
	if err == nil {
		var amount domain.Amount
		amount, err = domain.ParseAmount(strings.TrimSpace(string(resp.Body())))
		if err == nil {
			res.Balance = amount
			res.Outcome = OutcomeSuccess
			return res
		}
		err = &DataFormatError{Payload: "balance", Err: err}
	}

	res.Balance = c.cfg.FallbackBalance
	res.Outcome = Classify(err)
	res.Err = err
	c.log.WarnObj("balance fetch degraded to fallback", "balance_error", map[string]any{
		"outcome":     res.Outcome.String(),
		"status_code": res.StatusCode,
		"fallback":    res.Balance.String(),
		"error":       err.Error(),
	})
	return res
}

type historyPayload struct {
	TransactionList *[]historyEntry `json:"transactionList"`
}

type historyEntry struct {
	FromTo string  `json:"fromTo"`
	Node   string  `json:"node"`
	Amount float64 `json:"amount"`
}

// FetchHistory asks the node for the wallet transaction history, preserving the
// node's ordering and numbering rows from 0.
func (c *Client) FetchHistory(ctx context.Context) HistoryResult {
	resp, err := c.call(ctx, http.MethodGet, "history")
	res := HistoryResult{StatusCode: statusOf(resp)}
	if err == nil {
		var history domain.TransactionHistory
		history, err = decodeHistory(resp.Body())
		if err == nil {
			res.History = history
			res.Outcome = OutcomeSuccess
			return res
		}
	}

	res.Outcome = Classify(err)
	res.Err = err
	c.log.WarnObj("history fetch failed", "history_error", map[string]any{
		"outcome":     res.Outcome.String(),
		"status_code": res.StatusCode,
		"error":       err.Error(),
	})
	return res
}

func decodeHistory(body []byte) (domain.TransactionHistory, error) {
	var payload historyPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &DataFormatError{Payload: "history", Err: err}
	}
	if payload.TransactionList == nil {
		return nil, &DataFormatError{Payload: "history", Err: errors.New("transactionList missing")}
	}

	entries := *payload.TransactionList
	history := make(domain.TransactionHistory, 0, len(entries))
	for i, e := range entries {
		history = append(history, domain.TransactionRecord{
			Index:  i,
			FromTo: e.FromTo,
			Node:   e.Node,
			Amount: domain.Amount(e.Amount),
		})
	}
	return history, nil
}

// SubmitTransaction transfers amount from the configured sender to receiver. Empty
// inputs short-circuit with a validation error before any request is made.
func (c *Client) SubmitTransaction(ctx context.Context, receiver, amount string) SubmissionResult {
	sub := domain.TransactionSubmission{
		SenderID: c.cfg.SenderID,
		Receiver: receiver,
		Amount:   amount,
	}
	res := SubmissionResult{Submission: sub}

	if err := c.validator.check(sub); err != nil {
		res.Outcome = Classify(err)
		res.Err = err
		c.log.InfoObj("transaction submission rejected", "submission_validation", map[string]any{
			"error": err.Error(),
		})
		return res
	}

	resp, err := c.call(ctx, http.MethodPost, "transaction", sub.SenderID, sub.Receiver, sub.Amount)
	res.StatusCode = statusOf(resp)
	res.Outcome = Classify(err)
	res.Err = err

	if err != nil {
		c.log.WarnObj("transaction submission failed", "submission_error", map[string]any{
			"outcome":     res.Outcome.String(),
			"status_code": res.StatusCode,
			"receiver":    sub.Receiver,
			"error":       err.Error(),
		})
	} else {
		c.log.InfoObj("transaction submitted", "submission", map[string]any{
			"sender":   sub.SenderID,
			"receiver": sub.Receiver,
			"amount":   sub.Amount,
		})
	}

	c.emit(ctx, res)
	return res
}

// emit hands the outcome to every sink; sink failures are only logged.
func (c *Client) emit(ctx context.Context, res SubmissionResult) {
	if len(c.sinks) == 0 {
		return
	}
	evt := domain.SubmissionEvent{
		TraceID:     TraceID(ctx),
		SenderID:    res.Submission.SenderID,
		Receiver:    res.Submission.Receiver,
		Amount:      res.Submission.Amount,
		Outcome:     res.Outcome.String(),
		StatusCode:  res.StatusCode,
		SubmittedAt: c.now().UTC(),
	}
	for _, s := range c.sinks {
		if err := s.Handle(ctx, evt); err != nil {
			c.log.ErrorObj("submission sink failed", "sink_error", map[string]any{
				"sink":  s.Name(),
				"error": err.Error(),
			})
		}
	}
}

// call performs one request against the node and turns a non-200 status into an
// *HTTPError. The response is returned alongside an *HTTPError so callers can read
// the status code.
func (c *Client) call(ctx context.Context, method string, segments ...string) (httpclient.Response, error) {
	spec, err := httpclient.NewRequestSpec(method, c.endpoint(segments...))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.transport.Send(ctx, spec)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return resp, &HTTPError{Code: resp.StatusCode(), Body: snippet(resp.Body())}
	}
	return resp, nil
}

func (c *Client) endpoint(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.cfg.BaseURL + "/" + strings.Join(escaped, "/")
}

func statusOf(resp httpclient.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode()
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > bodySnippetLen {
		return s[:bodySnippetLen] + "..."
	}
	return s
}

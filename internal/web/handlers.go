// Package web serves the browser-facing pages on top of the wallet view client.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/Adda-Baaj/noobcash-web/internal/logger"
	"github.com/Adda-Baaj/noobcash-web/internal/render"
	"github.com/Adda-Baaj/noobcash-web/internal/wallet"
)

const (
	defaultReceiptLimit = 20
	maxReceiptLimit     = 200
)

// Handlers manages the set of wallet pages.
type Handlers struct {
	AppName  string
	Log      logger.Logger
	Wallet   ViewClient
	Renderer *render.Renderer
	Journal  ReceiptLister
}

// Home renders the landing page.
func (h Handlers) Home(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Renderer.Home(&buf, render.HomePage{AppName: h.AppName}); err != nil {
		h.renderFailed(w, r, err)
		return
	}
	writeHTML(w, &buf)
}

// Transactions renders the balance, history and transfer form.
func (h Handlers) Transactions(w http.ResponseWriter, r *http.Request) {
	h.renderTransactions(w, r, nil)
}

// SubmitTransaction handles the transfer form and renders the page with the
// node's verdict.
func (h Handlers) SubmitTransaction(w http.ResponseWriter, r *http.Request) {
	// Unparsable bodies leave both fields empty and fail validation.
	receiver := r.PostFormValue("receiver")
	amount := r.PostFormValue("amount")

	res := h.Wallet.SubmitTransaction(r.Context(), receiver, amount)
	view := render.Submission(res)
	h.renderTransactions(w, r, &view)
}

// Health reports liveness of this process (not of the node).
func (h Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Receipts lists recent journaled submissions, newest first.
func (h Handlers) Receipts(w http.ResponseWriter, r *http.Request) {
	limit := defaultReceiptLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxReceiptLimit)
	}

	if h.Journal == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	receipts, err := h.Journal.Recent(limit)
	if err != nil {
		h.Log.ErrorObj("journal read failed", "journal_error", map[string]any{
			"trace_id": wallet.TraceID(r.Context()),
			"error":    err.Error(),
		})
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "journal unavailable"})
		return
	}
	if receipts == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, receipts)
}

func (h Handlers) renderTransactions(w http.ResponseWriter, r *http.Request, sub *render.SubmissionView) {
	balance, history := h.fetchPanels(r.Context())

	page := render.TransactionsPage{
		AppName:    h.AppName,
		SenderID:   h.Wallet.SenderID(),
		Balance:    render.Balance(balance),
		History:    render.History(history),
		Submission: sub,
	}

	var buf bytes.Buffer
	if err := h.Renderer.Transactions(&buf, page); err != nil {
		h.renderFailed(w, r, err)
		return
	}
	writeHTML(w, &buf)
}

// fetchPanels loads balance and history concurrently; they share no data.
func (h Handlers) fetchPanels(ctx context.Context) (wallet.BalanceResult, wallet.HistoryResult) {
	var (
		balance wallet.BalanceResult
		history wallet.HistoryResult
	)

	var g errgroup.Group
	g.Go(func() error {
		balance = h.Wallet.FetchBalance(ctx)
		return nil
	})
	g.Go(func() error {
		history = h.Wallet.FetchHistory(ctx)
		return nil
	})
	_ = g.Wait()

	return balance, history
}

func (h Handlers) renderFailed(w http.ResponseWriter, r *http.Request, err error) {
	h.Log.ErrorObj("page render failed", "render_error", map[string]any{
		"trace_id": wallet.TraceID(r.Context()),
		"path":     r.URL.Path,
		"error":    err.Error(),
	})
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func writeHTML(w http.ResponseWriter, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dimfeld/httptreemux/v5"
	"github.com/google/uuid"

	"github.com/Adda-Baaj/noobcash-web/internal/logger"
	"github.com/Adda-Baaj/noobcash-web/internal/render"
	"github.com/Adda-Baaj/noobcash-web/internal/wallet"
)

// TraceHeader carries the per-request trace id back to the browser.
const TraceHeader = "X-Trace-Id"

// MuxConfig contains all the mandatory systems required by handlers.
type MuxConfig struct {
	AppName  string
	Log      logger.Logger
	Wallet   ViewClient
	Renderer *render.Renderer
	Journal  ReceiptLister
}

// NewMux constructs the router with every page route and the logging middleware.
func NewMux(cfg MuxConfig) http.Handler {
	log := logger.Ensure(cfg.Log)
	h := Handlers{
		AppName:  cfg.AppName,
		Log:      log,
		Wallet:   cfg.Wallet,
		Renderer: cfg.Renderer,
		Journal:  cfg.Journal,
	}

	mux := httptreemux.NewContextMux()
	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, err interface{}) {
		log.ErrorObj("handler panic", "panic", map[string]any{
			"trace_id": wallet.TraceID(r.Context()),
			"path":     r.URL.Path,
			"error":    fmt.Sprint(err),
		})
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}

	mux.GET("/", h.Home)
	mux.GET("/transactions", h.Transactions)
	mux.POST("/transactions", h.SubmitTransaction)
	mux.GET("/healthz", h.Health)
	mux.GET("/debug/submissions", h.Receipts)

	return logRequests(log, mux)
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// logRequests assigns a trace id and logs one line per request.
func logRequests(log logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		traceID := uuid.NewString()
		w.Header().Set(TraceHeader, traceID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(wallet.ContextWithTraceID(r.Context(), traceID)))

		log.InfoObj("request completed", "request", map[string]any{
			"trace_id":    traceID,
			"method":      r.Method,
			"path":        r.URL.Path,
			"status_code": rec.status,
			"remote_addr": r.RemoteAddr,
			"elapsed_ms":  time.Since(start).Milliseconds(),
		})
	})
}

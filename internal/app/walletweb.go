package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/Adda-Baaj/noobcash-web/internal/config"
	"github.com/Adda-Baaj/noobcash-web/internal/domain"
	"github.com/Adda-Baaj/noobcash-web/internal/logger"
	"github.com/Adda-Baaj/noobcash-web/internal/render"
	"github.com/Adda-Baaj/noobcash-web/internal/storage"
	"github.com/Adda-Baaj/noobcash-web/internal/wallet"
	"github.com/Adda-Baaj/noobcash-web/internal/web"
	"github.com/Adda-Baaj/noobcash-web/pkg/httpclient"
	"github.com/Adda-Baaj/noobcash-web/pkg/notifiers"
)

// WalletWeb represents the wallet web runtime. It owns the node client, the
// submission journal, the notifier fanout and the HTTP handler serving the pages.
type WalletWeb struct {
	cfg     *config.Config
	log     logger.Logger
	wallet  *wallet.Client
	store   storage.Store
	fanout  *notifiers.Fanout
	handler http.Handler

	closeOnce sync.Once
}

// NewWalletWeb builds the runtime from config.
func NewWalletWeb(ctx context.Context, cfg *config.Config, log logger.Logger) (*WalletWeb, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	renderer, err := render.New()
	if err != nil {
		return nil, fmt.Errorf("init renderer: %w", err)
	}

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	storeOpts := storage.Options{
		ReceiptTTL:      cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"receipt_ttl_seconds":      int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	walletCfg := wallet.Config{
		BaseURL:         cfg.NodeBaseURL,
		SenderID:        cfg.SenderID,
		FallbackBalance: domain.Amount(cfg.FallbackBalance),
	}
	client, err := wallet.New(walletCfg, httpclient.NewRestyClient(0), log,
		journalSink{store: store},
		notifierSink{fanout: fanout, source: cfg.AppName},
	)
	if err != nil {
		_ = fanout.Close()
		_ = store.Close()
		return nil, fmt.Errorf("init wallet client: %w", err)
	}

	handler := web.NewMux(web.MuxConfig{
		AppName:  cfg.AppName,
		Log:      log,
		Wallet:   client,
		Renderer: renderer,
		Journal:  store,
	})

	return &WalletWeb{
		cfg:     cfg,
		log:     log,
		wallet:  client,
		store:   store,
		fanout:  fanout,
		handler: handler,
	}, nil
}

// buildFanout loads the optional notifiers file. No file means no notifiers.
func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*notifiers.Fanout, error) {
	if cfg.NotifiersFile == "" {
		return notifiers.NewFanout(nil), nil
	}

	reg, err := notifiers.LoadRegistry(cfg.NotifiersFile)
	if err != nil {
		return nil, fmt.Errorf("load notifiers registry: %w", err)
	}
	enabled := reg.Enabled()

	clients, err := notifiers.DefaultBuilders().BuildAll(ctx, enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build notifiers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, n := range enabled {
		summaries = append(summaries, map[string]string{"id": n.ID, "type": n.Type})
	}
	log.InfoObj("notifiers registry loaded", "notifiers_meta", map[string]any{
		"count":     len(summaries),
		"notifiers": summaries,
	})

	return notifiers.NewFanout(clients), nil
}

// Handler returns the router serving every page.
func (w *WalletWeb) Handler() http.Handler { return w.handler }

// Wallet returns the underlying view client.
func (w *WalletWeb) Wallet() *wallet.Client { return w.wallet }

// Run serves HTTP on cfg.HTTPHost until ctx is cancelled, then shuts down gracefully.
func (w *WalletWeb) Run(ctx context.Context) error {
	if w == nil || w.handler == nil {
		return fmt.Errorf("wallet web is not initialized")
	}
	defer w.close()

	srv := &http.Server{
		Addr:         w.cfg.HTTPHost,
		Handler:      w.handler,
		ReadTimeout:  w.cfg.ReadTimeout,
		WriteTimeout: w.cfg.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}
	if zl, ok := w.log.(interface{ Desugar() *zap.Logger }); ok {
		srv.ErrorLog = zap.NewStdLog(zl.Desugar())
	}

	serverErrors := make(chan error, 1)
	go func() {
		w.log.InfoObj("http server listening", "http_host", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		w.log.InfoObj("shutdown started", "reason", ctx.Err())
		defer w.log.InfoObj("shutdown complete", "http_host", srv.Addr)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), w.cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

// close releases the journal and notifier clients once, logging any errors encountered.
func (w *WalletWeb) close() {
	w.closeOnce.Do(func() {
		if w.fanout != nil {
			if err := w.fanout.Close(); err != nil {
				w.log.ErrorObj("notifiers close failed", "error", err.Error())
			}
		}
		if w.store != nil {
			if err := w.store.Close(); err != nil {
				w.log.ErrorObj("storage close failed", "error", err.Error())
			}
		}
	})
}

// Close releases resources for runtimes that were built but never Run.
func (w *WalletWeb) Close() {
	if w == nil {
		return
	}
	w.close()
}

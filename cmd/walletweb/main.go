package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/common-nighthawk/go-figure"

	"github.com/Adda-Baaj/noobcash-web/internal/app"
	"github.com/Adda-Baaj/noobcash-web/internal/config"
	"github.com/Adda-Baaj/noobcash-web/internal/logger"
)

// build is the git version of this program. Set with -ldflags "-X main.build=...".
var build = "develop"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "walletweb start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	figure.NewFigure("NoobCash", "", true).Print()

	logger.InfoObj("walletweb starting", "version", build)
	logger.InfoObj("configuration", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	walletWeb, err := app.NewWalletWeb(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize walletweb", "error", err.Error())
		return err
	}

	if err := walletWeb.Run(ctx); err != nil {
		return fmt.Errorf("walletweb run: %w", err)
	}

	return nil
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/highsierra/storefront-gateway/internal/api"
	"github.com/highsierra/storefront-gateway/internal/auth"
	"github.com/highsierra/storefront-gateway/internal/config"
	"github.com/highsierra/storefront-gateway/internal/mailer"
	"github.com/highsierra/storefront-gateway/internal/pkg/logger"
	"github.com/highsierra/storefront-gateway/internal/shopify"
	"github.com/highsierra/storefront-gateway/internal/zendesk"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err.Error())
		os.Exit(1)
	}

	if os.Getenv("LOG_LEVEL") == "debug" {
		logger.SetLevel(logger.DEBUG)
	}

	// Missing backend credentials are reported per request, not at boot:
	// the gateway stays up so the configured channels keep working.
	if !cfg.Shopify.Configured() {
		logger.Warn("Shopify not configured; metaobject endpoints will reject requests")
	}
	if !cfg.Zendesk.Configured() {
		logger.Warn("Zendesk not configured; the ticket endpoint will reject requests")
	}
	if !cfg.SMTP.Configured() {
		logger.Warn("SMTP not configured; the support email endpoint will reject requests")
	}

	authn := auth.NewAuthenticator(cfg.Admin, cfg.Shopify.StoreDomain)
	shopifyClient := shopify.NewClient(cfg.Shopify)
	zendeskClient := zendesk.NewClient(cfg.Zendesk)
	smtpSender := mailer.NewSender(cfg.SMTP)

	handlers := api.NewHandlers(cfg, authn, shopifyClient, zendeskClient, smtpSender)
	router := api.SetupRoutes(handlers)

	addr := fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Server.GetPort())
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront gateway listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("server exited", "error", err.Error())
		os.Exit(1)
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/storefront-gate/internal/application/notification"
	"github.com/storefront-gate/internal/application/otp"
	"github.com/storefront-gate/internal/config"
	"github.com/storefront-gate/internal/infrastructure/memstore"
	"github.com/storefront-gate/internal/infrastructure/smtp"
	"github.com/storefront-gate/internal/infrastructure/sns"
	"github.com/storefront-gate/internal/infrastructure/webhook"
	"github.com/storefront-gate/internal/pkg/clock"
	"github.com/storefront-gate/internal/pkg/logging"
	transporthttp "github.com/storefront-gate/internal/transport/http"
	"github.com/storefront-gate/internal/transport/http/proxy"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log, os.Stdout)
	slog.SetDefault(logger)
	if envErr != nil {
		logger.Info("no .env file found, reading from environment")
	}

	// Primary notification sinks (each optional). With none configured the
	// diagnostic log fallback is the only channel.
	var sinks []notification.Sink
	if cfg.Notify.WebhookURL != "" {
		sinks = append(sinks, webhook.NewSender(cfg.Notify.WebhookURL, cfg.Notify.Timeout))
	}
	if cfg.Notify.SNSTopicARN != "" {
		if client, err := sns.NewClient(context.Background(), cfg); err == nil {
			sinks = append(sinks, sns.NewPublisher(client, cfg.Notify.SNSTopicARN))
		} else {
			logger.Warn("SNS sink not available", "err", err)
		}
	}
	if cfg.SMTP.Enabled() {
		if mailer, err := smtp.NewMailer(cfg.SMTP, cfg.Notify.Timeout); err == nil {
			sinks = append(sinks, mailer)
		} else {
			logger.Warn("SMTP sink not available", "err", err)
		}
	}
	if len(sinks) == 0 {
		logger.Warn("no notification sink configured, passcodes go to the diagnostic log")
	}

	notifier := notification.NewService(sinks, notification.NewLogSink(logger), cfg.Notify.Timeout, logger)
	otpSvc := otp.NewService(otp.ServiceDeps{
		Store:    memstore.NewOTPRepo(),
		Notifier: notifier,
		Clock:    clock.Real(),
		Logger:   logger,
		TTL:      cfg.OTP.TTL,
	})

	tokenRoute, err := proxy.NewRoute("/get-token", cfg.Upstreams.TokenURL)
	if err != nil {
		logger.Error("invalid token upstream", "err", err)
		os.Exit(1)
	}
	commerceRoute, err := proxy.NewRoute("/api", cfg.Upstreams.CommerceURL)
	if err != nil {
		logger.Error("invalid commerce upstream", "err", err)
		os.Exit(1)
	}

	deps := &transporthttp.Deps{
		OTPService: otpSvc,
		Routes:     []proxy.Route{tokenRoute, commerceRoute},
		Logger:     logger,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Upstreams.Timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			"addr", srv.Addr, "env", cfg.AppEnv,
			"token_upstream", cfg.Upstreams.TokenURL, "commerce_upstream", cfg.Upstreams.CommerceURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/coroadoradores/portal/internal/api"
	"github.com/coroadoradores/portal/internal/config"
	"github.com/coroadoradores/portal/internal/httpserver"
	"github.com/coroadoradores/portal/internal/logging"
	"github.com/coroadoradores/portal/internal/notify"
	"github.com/coroadoradores/portal/internal/scheduler"
	"github.com/coroadoradores/portal/internal/session"
	"github.com/coroadoradores/portal/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Environment)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	authClient := api.NewAuthClient(cfg.API.AuthBaseURL, logger)
	signupClient := api.NewSignupClient(cfg.API.SignupBaseURL, logger)
	appointmentsClient := api.NewAppointmentsClient(cfg.API.AppointmentsBaseURL, logger)

	sessions := session.NewManager(cfg)
	toasts := notify.NewCenter()
	loader := scheduler.NewLoader(appointmentsClient, logger)

	uiHandler := ui.NewHandler(cfg, logger, sessions, toasts, authClient, signupClient, appointmentsClient, loader)
	r := httpserver.NewRouter(cfg, logger, sessions, uiHandler)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}

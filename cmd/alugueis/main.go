package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"alugueis/internal/backend"
	"alugueis/internal/cli"
	apphttp "alugueis/internal/http"
	applog "alugueis/internal/log"
	"alugueis/internal/session"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		cli.SetupLogger("info").Error("Configuration validation failed",
			applog.FieldError, err,
			applog.FieldErrorType, applog.ErrorTypeConfiguration)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg.LogLevel)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	result, err := backend.NewFactory(logger.Logger).CreateBackend(startupCtx, backendCfg)
	cancel()
	if err != nil {
		logger.Error("Failed to create backend",
			applog.FieldError, err,
			"backend", backendCfg.Type.String())
		os.Exit(1)
	}

	sessions := session.NewManager(
		session.NewMemoryStore(cfg.SessionMaxEntries, cfg.SessionTTL),
		cfg.SessionCookieName,
		cfg.SessionTTL,
	)

	srv := apphttp.NewServer(":"+cfg.Port, result.Service, sessions, logger)
	srv.MaxHeaderBytes = 1 << 16

	done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", applog.FieldError, err)
		}
	})

	logger.Info("Starting alugueis server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"cash_label", cfg.CashMethodLabel,
		"amqp_enabled", cfg.AMQPURL != "",
		applog.FieldOperation, applog.OpStartup)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		_ = result.Cleanup()
		os.Exit(1)
	}

	<-done
	logger.Info("Server stopped gracefully")
}

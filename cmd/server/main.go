package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/vortex/ooxml-audit/internal/config"
	"github.com/vortex/ooxml-audit/internal/handler"
	"github.com/vortex/ooxml-audit/internal/schema"
	"github.com/vortex/ooxml-audit/internal/schematron"
	"github.com/vortex/ooxml-audit/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg := config.Load()

	schemas, err := schema.LoadDirectory(cfg.SchemaDir)
	if err != nil {
		logger.Error("loading schema registry", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rulesJSON, err := os.ReadFile(cfg.SchematronRulesPath)
	if err != nil {
		logger.Error("reading schematron rules", slog.String("error", err.Error()))
		os.Exit(1)
	}
	rules, err := schematron.LoadRegistry(rulesJSON)
	if err != nil {
		logger.Error("loading schematron registry", slog.String("error", err.Error()))
		os.Exit(1)
	}

	svc := service.NewAuditService(schemas, rules)

	maxBody := cfg.MaxUploadSizeMB << 20 // convert MB to bytes
	router := handler.NewRouter(logger, svc, maxBody)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.Int("port", cfg.Port))
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// Command mousetrackd serves the mouse ear-photo tracking API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mousetrack/internal/adapters/httpapi"
	"mousetrack/internal/archive"
	"mousetrack/internal/blob"
	"mousetrack/internal/config"
	"mousetrack/internal/photostore"
	"mousetrack/internal/recordstore"
	"mousetrack/internal/registry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mousetrackd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	logger := cfg.SetupLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := recordstore.Open(ctx)
	if err != nil {
		return fmt.Errorf("registry backend: %w", err)
	}
	session := registry.NewSession(ctx, store,
		registry.WithTTL(cfg.RegistryTTL),
		registry.WithLogger(logger),
	)
	logger.Info("registry backend ready", "guarantee", store.Guarantee())

	mirror, err := blob.Open(ctx)
	if err != nil {
		return fmt.Errorf("blob mirror: %w", err)
	}
	photoOpts := []photostore.Option{photostore.WithLogger(logger)}
	if mirror != nil {
		photoOpts = append(photoOpts, photostore.WithMirror(mirror))
		logger.Info("photo mirroring enabled", "driver", mirror.Driver())
	}
	photos, err := photostore.New(cfg.PhotoRoot, photoOpts...)
	if err != nil {
		return fmt.Errorf("photo store: %w", err)
	}
	archives := archive.New(photos)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/", httpapi.Metrics(httpapi.NewHandler(session, photos, archives, logger)))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", server.Addr, "photo_root", cfg.PhotoRoot)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("stopped")
	return nil
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"derrclan.com/verse-finder/internal/config"
	"derrclan.com/verse-finder/internal/logging"
	"derrclan.com/verse-finder/internal/server"
	"derrclan.com/verse-finder/internal/versefinder"
)

const (
	readHeaderTimeout = 20 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil && !errors.Is(err, config.ErrMissingAPIKey) {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := logging.Setup(os.Stderr, cfg.LogLevel); err != nil {
		slog.Error("failed to configure logging", "error", err)
		os.Exit(1)
	}
	if cfg.APIKey == "" {
		// Serve anyway; /healthz reports the problem and lookups explain it.
		slog.Warn("OPENAI_API_KEY is not set, verse lookups will fail")
	}

	finder := versefinder.NewClient(&http.Client{Timeout: cfg.RequestTimeout}, cfg.Endpoint)

	handler, err := server.New(finder, cfg.APIKey, os.Stdout)
	if err != nil {
		slog.Error("failed to build http handler", "error", err)
		os.Exit(1)
	}

	srv := http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	idleConns := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("error shutting down http server", "error", err)
		}
		close(idleConns)
	}()

	slog.Info("http server starting", "addr", cfg.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("http server died", "error", err)
		os.Exit(1)
	}
	<-idleConns
}

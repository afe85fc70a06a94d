package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/base-14/examples/go/parking-allocator/internal/config"
	"github.com/base-14/examples/go/parking-allocator/internal/logging"
	"github.com/base-14/examples/go/parking-allocator/internal/server"
	"github.com/base-14/examples/go/parking-allocator/internal/session"
	"github.com/base-14/examples/go/parking-allocator/internal/shell"
	"github.com/base-14/examples/go/parking-allocator/internal/telemetry"
)

var (
	mode     = flag.String("mode", "", "Mode to run: cli, server, or both")
	port     = flag.String("port", "", "Port for HTTP server")
	capacity = flag.Int("capacity", 0, "Create a parking lot with this many slots at startup")
	file     = flag.String("file", "", "Read shell commands from this file instead of stdin")
)

type app struct {
	cfg       *config.Config
	telemetry *telemetry.Provider
	session   *session.Session
	registry  *prometheus.Registry
}

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyFlags(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName: cfg.OTelServiceName,
		Endpoint:    cfg.OTelEndpoint,
		Environment: cfg.Environment,
	})
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}
	logging.Init(os.Stderr, cfg.OTelServiceName, cfg.Environment, cfg.LogLevel)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a := &app{
		cfg:       cfg,
		telemetry: tp,
		session:   session.New(tp, registry),
		registry:  registry,
	}

	if cfg.Capacity > 0 {
		if _, err := a.session.Create(ctx, cfg.Capacity); err != nil {
			logging.Error(ctx, "failed to create parking lot", slog.Any("error", err))
			os.Exit(1)
		}
	}

	switch cfg.Mode {
	case "cli":
		a.runCLI(ctx)
	case "server":
		a.runServer(ctx)
	case "both":
		a.runBoth(ctx, cancel)
	default:
		logging.Error(ctx, "invalid mode, must be cli, server, or both", slog.String("mode", cfg.Mode))
		a.shutdownTelemetry()
		os.Exit(2)
	}

	a.shutdownTelemetry()
}

func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.Mode = *mode
		case "port":
			cfg.Port = *port
		case "capacity":
			cfg.Capacity = *capacity
		}
	})
}

func (a *app) input() (io.ReadCloser, error) {
	if *file == "" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(*file)
}

func (a *app) runShell(ctx context.Context) {
	in, err := a.input()
	if err != nil {
		logging.Error(ctx, "failed to open command file", slog.Any("error", err))
		return
	}
	defer in.Close()

	sh := shell.New(a.session, in, os.Stdout, a.telemetry.Tracer)
	if err := sh.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error(ctx, "shell stopped", slog.Any("error", err))
	}
}

func (a *app) runCLI(ctx context.Context) {
	a.runShell(ctx)
}

func (a *app) newServer() *server.Server {
	return server.NewServer(a.cfg.Port, a.cfg.OTelServiceName, a.session, a.registry)
}

func (a *app) runServer(ctx context.Context) {
	srv := a.newServer()

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- srv.Start()
	}()

	select {
	case err := <-serverDone:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error(ctx, "server error", slog.Any("error", err))
		}
		return
	case <-ctx.Done():
		logging.Info(context.Background(), "received shutdown signal")
	}

	a.shutdownServer(srv)
}

func (a *app) runBoth(ctx context.Context, cancel context.CancelFunc) {
	srv := a.newServer()

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- srv.Start()
	}()

	cliDone := make(chan struct{})
	go func() {
		a.runShell(ctx)
		close(cliDone)
	}()

	select {
	case err := <-serverDone:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error(ctx, "server error", slog.Any("error", err))
		}
		cancel()
		return
	case <-cliDone:
		logging.Info(ctx, "CLI exited")
	case <-ctx.Done():
		logging.Info(context.Background(), "received shutdown signal")
	}

	a.shutdownServer(srv)
}

func (a *app) shutdownServer(srv *server.Server) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error(shutdownCtx, "server shutdown error", slog.Any("error", err))
	}
}

func (a *app) shutdownTelemetry() {
	logging.Info(context.Background(), "shutting down telemetry")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := a.telemetry.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down telemetry: %v", err)
	}
}

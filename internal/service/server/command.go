package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	api "github.com/oshokin/sos-button/internal/api/grpc/safety"
	httpapi "github.com/oshokin/sos-button/internal/api/http"
	"github.com/oshokin/sos-button/internal/chat"
	"github.com/oshokin/sos-button/internal/config"
	"github.com/oshokin/sos-button/internal/logger"
	repository "github.com/oshokin/sos-button/internal/repository/safety"
	"github.com/oshokin/sos-button/internal/telemetry"
)

// Options controls the sos-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// HTTPAddress provides an optional listen address override for the HTTP API.
	HTTPAddress string
	// Database overrides the SQLite database path from the settings.
	Database string
}

const (
	// readHeaderTimeout bounds how long a client may take to send request headers.
	readHeaderTimeout = 10 * time.Second
	// shutdownTimeout bounds graceful shutdown of the HTTP API.
	shutdownTimeout = 5 * time.Second
)

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the gRPC and HTTP servers and blocks until context is canceled or a server fails.
// Loads configuration first, then determines listen addresses from config or overrides.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "sos-server")

	// Load configuration first to get server settings.
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	database := settings.Database
	if opts.Database != "" {
		database = opts.Database
	}

	httpAddress := settings.HTTPAddress
	if opts.HTTPAddress != "" {
		httpAddress = opts.HTTPAddress
	}

	// Determine listen address: CLI argument overrides config port extraction.
	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	shutdownTracing, err := telemetry.Setup(ctx, "sos-server", settings.Telemetry)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}

	defer func() {
		if err := shutdownTracing(context.WithoutCancel(ctx)); err != nil {
			logger.WarnKV(ctx, "Failed to flush traces", "error", err)
		}
	}()

	// Open the store and apply pending migrations.
	store, err := repository.Open(ctx, database)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	defer func() {
		if err := store.Close(); err != nil {
			logger.WarnKV(ctx, "Failed to close store", "error", err)
		}
	}()

	svc := newService(store)

	// Setup TCP listeners before serving so address errors surface immediately.
	lc := net.ListenConfig{}

	grpcListener, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	httpListener, err := lc.Listen(ctx, "tcp", httpAddress)
	if err != nil {
		_ = grpcListener.Close()
		return fmt.Errorf("listen on %s: %w", httpAddress, err)
	}

	// Create and configure gRPC server with the safety service.
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(api.UnaryUserInterceptor),
		telemetry.ServerOption(),
	)
	api.RegisterSafetyServiceServer(grpcServer, api.NewServer(svc))

	if settings.AI.APIKey == "" {
		logger.WarnKV(ctx, "AI API key is not configured, chat relay will reject requests")
	}

	httpServer := &http.Server{
		Handler:           httpapi.NewRouter(chat.NewRelay(settings.AI)),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	logger.InfoKV(ctx, "SOS server listening",
		"grpc_address", grpcListener.Addr().String(),
		"http_address", httpListener.Addr().String(),
		"database", database,
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}

		return nil
	})

	group.Go(func() error {
		if err := httpServer.Serve(httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve HTTP: %w", err)
		}

		return nil
	})

	// Stop both servers once the context is canceled or either server fails.
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info(ctx, "Shutting down servers")

		grpcServer.GracefulStop()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP: %w", err)
		}

		return nil
	})

	if err := group.Wait(); err != nil {
		return err
	}

	logger.Info(ctx, "Servers stopped")

	return nil
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr.
// Returns appropriate listen address (e.g., ":50051" for port-only binding).
func resolveListenAddress(configAddr, override string) (string, error) {
	// Use override address if provided (e.g., ":9090", "0.0.0.0:50051").
	if override != "" {
		return override, nil
	}

	// Extract port from config address (e.g., "server.example.com:50051" -> ":50051").
	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	// Parse the address to extract port.
	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	// Return port-only listen address to bind on all interfaces.
	return ":" + port, nil
}

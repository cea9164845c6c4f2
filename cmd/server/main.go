package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"notify-lab/infrastructure/httpapi"
	"notify-lab/internal"
	"notify-lab/observability"
	"notify-lab/runtime"
	"notify-lab/runtime/workers"
	"notify-lab/services"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes
// error reporting so that deferred cleanup always executes before exit.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Core wiring: one bus, explicitly constructed and injected.
	monitor := observability.NewMonitor()
	bus := runtime.NewEventBus(logger, monitor)
	service := services.NewNotifyService(logger, bus, monitor)
	api := httpapi.NewServer(logger, bus, service, monitor)
	httpServer := httpapi.NewHTTPServer(config.Addr(), api.Routes())

	// 3. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Request contexts derive from ctx so that parked stream handlers
	// unblock and tear down when a shutdown signal arrives.
	httpServer.BaseContext = func(net.Listener) context.Context { return ctx }

	// 4. Background telemetry under supervision
	sup := workers.NewSupervisor(logger)
	sup.Add(workers.NewTelemetryWorker(logger, monitor, config.MetricInterval))

	supDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supDone)
	}()

	// 5. HTTP server
	errChan := make(chan error, 1)
	go func() {
		logger.Info("Notification server listening", "addr", config.Addr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 6. Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Graceful shutdown incomplete, forcing close", "err", err)
		_ = httpServer.Close()
	}

	<-supDone
	logger.Info("Server stopped")

	return exitOK, nil
}

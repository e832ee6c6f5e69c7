package main

//
//  @title           quotegate API
//  @version         1.0
//  @description     Per-ticker market datasets republished as sanitized JSON.
//  @termsOfService  https://github.com/guttosm/quotegate
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/quotegate
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        stock
//  @tag.description Per-ticker company info and datasets
//
//  @tag.name        stocks
//  @tag.description Multi-ticker close-price series
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guttosm/quotegate/config"
	_ "github.com/guttosm/quotegate/docs" // swagger docs
	"github.com/guttosm/quotegate/internal/app"
	"github.com/guttosm/quotegate/internal/logger"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Releases idle provider connections after the server stops.
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// main is the entry point of the quotegate application.
//
// Modes (selected via --mode flag):
//   - api:    Starts the REST gateway.
//   - export: Fetches one dataset for --ticker and prints it as JSON to stdout.
//
// Flags:
//   - --mode:    Execution mode ("api" or "export"). Default: "api".
//   - --port:    Port for the API server. Defaults to value from config (SERVER_PORT).
//   - --ticker:  Ticker for export mode; comma-separated list for close_prices.
//   - --dataset: info, close_prices or any /stock/:ticker/<dataset> name. Default: "info".
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	logger.Init(config.AppConfig.Log.Level, config.AppConfig.Log.Pretty)

	mode := flag.String("mode", "api", "Mode: api or export")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	ticker := flag.String("ticker", "", "Ticker (comma-separated for close_prices) for export mode")
	dataset := flag.String("dataset", datasetInfo, "Dataset for export mode")
	flag.Parse()

	switch *mode {
	case "export":
		svc, _, err := app.InitService(config.AppConfig)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		exportCtx, cancel := context.WithTimeout(ctx, config.AppConfig.Server.RequestTimeout)
		defer cancel()
		if err := runExport(exportCtx, svc, os.Stdout, *ticker, *dataset); err != nil {
			logger.L().Fatal().Err(err).Str("ticker", *ticker).Str("dataset", *dataset).Msg("export failed")
		}

	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}

package app

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/quotegate/config"
	"github.com/guttosm/quotegate/internal/api"
	"github.com/guttosm/quotegate/internal/logger"
	"github.com/guttosm/quotegate/internal/service"
	"github.com/guttosm/quotegate/internal/upstream"
)

// InitService builds the provider client and the StockService on top of it.
// The client is returned too so callers can reach Ping.
func InitService(cfg config.Config) (service.StockService, *upstream.Client, error) {
	client, err := upstreamOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize upstream client: %w", err)
	}
	return service.NewStockService(client, cfg.Prices.WindowDays), client, nil
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Builds the market-data provider client (InitUpstream).
//   - Initializes the service layer (StockService).
//   - Creates the HTTP handler layer and the Gin router.
//   - Registers health and readiness probes (readiness pings the provider).
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	svc, client, err := InitService(cfg)
	if err != nil {
		return nil, nil, err
	}

	handler := api.NewHandler(svc)
	router := api.NewRouter(handler, cfg.Server.RequestTimeout)

	api.NewHealthHandler(client.Ping).Register(router)

	logger.L().Info().
		Str("upstream", cfg.Upstream.BaseURL).
		Int("max_parallel", cfg.Upstream.MaxParallel).
		Int("price_window_days", cfg.Prices.WindowDays).
		Msg("app initialized")

	cleanup := func() {
		client.CloseIdleConnections()
	}

	return router, cleanup, nil
}

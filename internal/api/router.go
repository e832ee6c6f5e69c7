package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/quotegate/internal/domain/dto"
	"github.com/guttosm/quotegate/internal/middleware"
	"github.com/guttosm/quotegate/internal/service"
)

// NewRouter creates a Gin engine with routes configured.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, Timeout).
//   - Mounts Swagger docs (/swagger/*any).
//   - Configures /stock/:ticker[/<dataset>] and /stocks/* routes.
//   - Answers unknown routes with a JSON 404.
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
//   - Trailing-slash redirects are off: GET /stock/ is a 404, not a redirect.
func NewRouter(handler *Handler, requestTimeout time.Duration) *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = false

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.Timeout(requestTimeout),
	)

	// ─── Swagger ──────────────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ─── Per-ticker ───────────────────────────────
	stock := router.Group("/stock/:ticker")
	{
		stock.GET("", handler.GetInfo)
		for _, kind := range service.Kinds() {
			stock.GET("/"+string(kind), handler.GetDataset(kind))
		}
	}

	// ─── Multi-ticker ─────────────────────────────
	stocks := router.Group("/stocks")
	{
		stocks.POST("/close_prices", handler.PostClosePrices)
		stocks.GET("/close_prices_range", handler.GetClosePricesRange)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("route not found", nil))
	})

	return router
}

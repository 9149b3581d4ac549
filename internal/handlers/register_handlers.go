package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/openbooks/bookkeeping_backend/cmd/docs"
	portssvc "github.com/openbooks/bookkeeping_backend/internal/core/ports/services"
	"github.com/openbooks/bookkeeping_backend/internal/middleware"
	"github.com/openbooks/bookkeeping_backend/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", getHome)

	// Setup API v1 routes with auth middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// API tokens get first crack at the request; anything unauthenticated
	// falls through to the JWT middleware.
	v1 := r.Group("/api/v1",
		middleware.APITokenAuthMiddleware(services.APIToken),
		middleware.AuthMiddleware(cfg.JWTSecret),
	)

	registerGlobalAccountRoutes(v1, services.Account)

	address := v1.Group("/addresses/:addressID")
	{
		registerTransactionRoutes(address, services.Transaction)
		registerAllocationRoutes(address, services.Allocation)
		registerCheckpointRoutes(address, services.Checkpoint)
		registerAccountRoutes(address, services.Account)
		registerTaxRateRoutes(address, services.TaxRate)
		registerAPITokenRoutes(address, services.APIToken)
	}
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

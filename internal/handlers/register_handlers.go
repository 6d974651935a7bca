package handlers

import (
	"net/http"

	"github.com/StarGiftLabs/star_gifting_app/internal/core/ports/gateways"
	portssvc "github.com/StarGiftLabs/star_gifting_app/internal/core/ports/services"
	"github.com/StarGiftLabs/star_gifting_app/internal/middleware"
	"github.com/StarGiftLabs/star_gifting_app/pkg/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// using interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	gateway gateways.PaymentGateway,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/", getHome)

	// Public authentication routes
	registerAuthRoutes(r, services.Token)

	// Everything under /api/v1 requires an operator token
	setupAPIV1Routes(r, cfg, services, gateway)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to
// per-entity route registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	gateway gateways.PaymentGateway,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerAccountRoutes(v1, services.Account)
	registerDepositRoutes(v1, cfg, services.Account, services.Ledger, services.Operator)
	registerWithdrawalRoutes(v1, services.Account, services.Refund, services.Operator)
	registerOperatorRoutes(v1, services.Operator)
	registerCatalogRoutes(v1, gateway)
}

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/StarGiftLabs/star_gifting_app/internal/core/ports/gateways"
	"github.com/StarGiftLabs/star_gifting_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// catalogHandler proxies filtered catalog lookups to the provider.
type catalogHandler struct {
	gateway gateways.PaymentGateway
}

func registerCatalogRoutes(rg *gin.RouterGroup, gateway gateways.PaymentGateway) {
	h := &catalogHandler{gateway: gateway}
	rg.GET("/catalog", h.listCatalog)
}

func (h *catalogHandler) listCatalog(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	filter := gateways.CatalogFilter{
		MinPrice:  queryInt64(c, "minPrice", 0),
		MaxPrice:  queryInt64(c, "maxPrice", 0),
		MinSupply: queryInt64(c, "minSupply", 0),
		MaxSupply: queryInt64(c, "maxSupply", 0),
	}

	items, err := h.gateway.FilteredCatalog(c.Request.Context(), filter)
	if err != nil {
		logger.Error("Failed to fetch catalog", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to fetch catalog"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func queryInt64(c *gin.Context, key string, fallback int64) int64 {
	value, err := strconv.ParseInt(c.DefaultQuery(key, strconv.FormatInt(fallback, 10)), 10, 64)
	if err != nil {
		return fallback
	}
	return value
}

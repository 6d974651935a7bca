package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/StarGiftLabs/star_gifting_app/internal/apperrors"
	portssvc "github.com/StarGiftLabs/star_gifting_app/internal/core/ports/services"
	"github.com/StarGiftLabs/star_gifting_app/internal/dto"
	"github.com/StarGiftLabs/star_gifting_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// authHandler handles operator authentication.
type authHandler struct {
	tokenService portssvc.TokenSvc
}

// registerAuthRoutes sets up the public login route with its own
// tight rate limit.
func registerAuthRoutes(r *gin.Engine, tokenService portssvc.TokenSvc) {
	h := &authHandler{tokenService: tokenService}

	// 5 attempts per minute per IP
	rate, _ := limiter.NewRateFromFormatted("5-M")
	limitMiddleware := limitergin.NewMiddleware(limiter.New(memory.NewStore(), rate))

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", limitMiddleware, h.login)
	}
}

func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Login", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	token, err := h.tokenService.Login(c.Request.Context(), req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Failed operator login attempt", slog.String("remote_addr", c.ClientIP()))
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid credentials"})
		} else {
			logger.Error("Failed to process login", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to process login"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{Token: token})
}

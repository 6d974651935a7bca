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
	"github.com/shopspring/decimal"
)

// operatorHandler exposes the operator ledger and dashboard.
type operatorHandler struct {
	operatorService portssvc.OperatorSvc
}

func registerOperatorRoutes(rg *gin.RouterGroup, operatorService portssvc.OperatorSvc) {
	h := &operatorHandler{operatorService: operatorService}

	operator := rg.Group("/operator")
	{
		operator.GET("", h.getOperator)
		operator.PUT("/commission-rate", h.setCommissionRate)
		operator.POST("/withdrawals", h.withdrawCommission)
		operator.GET("/analytics", h.getAnalytics)
	}
}

func (h *operatorHandler) getOperator(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	operator, err := h.operatorService.GetOperator(c.Request.Context())
	if err != nil {
		logger.Error("Failed to get operator ledger", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve operator ledger"})
		return
	}
	c.JSON(http.StatusOK, dto.ToOperatorResponse(operator))
}

func (h *operatorHandler) setCommissionRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SetCommissionRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	rate, err := decimal.NewFromString(req.Rate)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid rate: " + err.Error()})
		return
	}

	if err := h.operatorService.SetCommissionRate(c.Request.Context(), rate); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Concurrent update, retry"})
		default:
			logger.Error("Failed to set commission rate", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to set commission rate"})
		}
		return
	}

	logger.Info("Commission rate updated", slog.String("rate", rate.String()))
	c.Status(http.StatusNoContent)
}

func (h *operatorHandler) withdrawCommission(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.WithdrawCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	if err := h.operatorService.WithdrawCommission(c.Request.Context(), req.Amount); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInsufficientFunds):
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "Insufficient commission balance"})
		case errors.Is(err, apperrors.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to withdraw commission", slog.Int64("amount", req.Amount), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to withdraw commission"})
		}
		return
	}

	logger.Info("Commission withdrawn", slog.Int64("amount", req.Amount))
	c.Status(http.StatusNoContent)
}

func (h *operatorHandler) getAnalytics(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	analytics, err := h.operatorService.Analytics(c.Request.Context())
	if err != nil {
		logger.Error("Failed to compute analytics", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to compute analytics"})
		return
	}
	c.JSON(http.StatusOK, analytics)
}

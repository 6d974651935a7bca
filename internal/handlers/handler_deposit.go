package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/StarGiftLabs/star_gifting_app/internal/apperrors"
	portssvc "github.com/StarGiftLabs/star_gifting_app/internal/core/ports/services"
	"github.com/StarGiftLabs/star_gifting_app/internal/dto"
	"github.com/StarGiftLabs/star_gifting_app/internal/middleware"
	"github.com/StarGiftLabs/star_gifting_app/pkg/config"
	"github.com/gin-gonic/gin"
)

// depositHandler credits confirmed provider payments, splitting the
// commission off the gross amount.
type depositHandler struct {
	cfg             *config.Config
	accountService  portssvc.AccountSvc
	ledgerService   portssvc.LedgerSvc
	operatorService portssvc.OperatorSvc
}

func registerDepositRoutes(rg *gin.RouterGroup, cfg *config.Config, as portssvc.AccountSvc, ls portssvc.LedgerSvc, os portssvc.OperatorSvc) {
	h := &depositHandler{cfg: cfg, accountService: as, ledgerService: ls, operatorService: os}
	rg.POST("/accounts/:id/deposits", h.deposit)
}

func (h *depositHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}
	if req.Gross < h.cfg.MinDeposit || req.Gross > h.cfg.MaxDeposit {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: fmt.Sprintf("Deposit must be between %d and %d", h.cfg.MinDeposit, h.cfg.MaxDeposit),
		})
		return
	}

	// Snapshot the rate before applying so the response reports the rate
	// actually recorded with the entry.
	operator, err := h.operatorService.GetOperator(c.Request.Context())
	if err != nil {
		logger.Error("Failed to read operator ledger", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to process deposit"})
		return
	}

	net, commission, err := h.ledgerService.ApplyCommission(c.Request.Context(), accountID, req.Gross)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Account not found"})
		case errors.Is(err, apperrors.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to apply deposit", slog.Int64("account_id", accountID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to process deposit"})
		}
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		logger.Error("Failed to re-read account after deposit", slog.Int64("account_id", accountID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to process deposit"})
		return
	}

	logger.Info("Deposit credited",
		slog.Int64("account_id", accountID),
		slog.Int64("gross", req.Gross),
		slog.Int64("net", net),
		slog.Int64("commission", commission),
		slog.String("transaction_id", req.TransactionID))

	c.JSON(http.StatusOK, dto.DepositResponse{
		Net:        net,
		Commission: commission,
		Rate:       operator.CommissionRate.String(),
		NewBalance: account.Balance,
	})
}

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

// withdrawalHandler runs refund reconciliation for an account.
type withdrawalHandler struct {
	accountService  portssvc.AccountSvc
	refundService   portssvc.RefundSvc
	operatorService portssvc.OperatorSvc
}

func registerWithdrawalRoutes(rg *gin.RouterGroup, as portssvc.AccountSvc, rs portssvc.RefundSvc, os portssvc.OperatorSvc) {
	h := &withdrawalHandler{accountService: as, refundService: rs, operatorService: os}
	rg.POST("/accounts/:id/withdrawals", h.withdraw)
}

func (h *withdrawalHandler) withdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}

	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	target := req.Target
	if target == 0 {
		// Withdraw-everything. The balance is net of commission while
		// provider transactions are gross, so gross the balance back up
		// by 1/(1-rate) or deposits larger than the balance would never
		// be selectable.
		account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				c.JSON(http.StatusNotFound, ErrorResponse{Error: "Account not found"})
			} else {
				logger.Error("Failed to read account for withdrawal", slog.Int64("account_id", accountID), slog.String("error", err.Error()))
				c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to process withdrawal"})
			}
			return
		}
		operator, err := h.operatorService.GetOperator(c.Request.Context())
		if err != nil {
			logger.Error("Failed to read operator ledger for withdrawal", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to process withdrawal"})
			return
		}
		retained := decimal.NewFromInt(1).Sub(operator.CommissionRate)
		target = decimal.NewFromInt(account.Balance).Div(retained).IntPart()
	}

	outcome, err := h.refundService.Reconcile(c.Request.Context(), accountID, target)
	if err != nil {
		logger.Error("Refund reconciliation failed", slog.Int64("account_id", accountID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to process withdrawal"})
		return
	}

	logger.Info("Withdrawal reconciled",
		slog.Int64("account_id", accountID),
		slog.Int64("target", target),
		slog.Int64("refunded", outcome.Refunded),
		slog.Int("count", outcome.Count),
		slog.Int64("leftover", outcome.Leftover))

	resp := dto.WithdrawResponse{
		Refunded:       outcome.Refunded,
		Count:          outcome.Count,
		TransactionIDs: outcome.TransactionIDs,
		Leftover:       outcome.Leftover,
	}
	if outcome.NextDeposit != nil {
		resp.NextDeposit = &dto.NextDepositHintResponse{
			TransactionID: outcome.NextDeposit.TransactionID,
			Amount:        outcome.NextDeposit.Amount,
		}
	}
	c.JSON(http.StatusOK, resp)
}

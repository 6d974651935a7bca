package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/StarGiftLabs/star_gifting_app/internal/apperrors"
	portssvc "github.com/StarGiftLabs/star_gifting_app/internal/core/ports/services"
	"github.com/StarGiftLabs/star_gifting_app/internal/dto"
	"github.com/StarGiftLabs/star_gifting_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts and their
// auto-purchase profiles.
type accountHandler struct {
	accountService portssvc.AccountSvc
}

func newAccountHandler(as portssvc.AccountSvc) *accountHandler {
	return &accountHandler{accountService: as}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvc) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.PUT("/:id", h.ensureAccount)
		accounts.GET("/:id", h.getAccount)
		accounts.GET("", h.listAccounts)
		accounts.PUT("/:id/language", h.setLanguage)
		accounts.PUT("/:id/blocked", h.setBlocked)
		accounts.POST("/:id/profiles", h.addProfile)
		accounts.PUT("/:id/profiles/:profileID", h.updateProfile)
		accounts.DELETE("/:id/profiles/:profileID", h.removeProfile)
		accounts.POST("/:id/profiles/:profileID/reset", h.resetProfile)
	}
}

// parseAccountID extracts the numeric account id from the path and
// writes the 400 response itself on failure.
func parseAccountID(c *gin.Context) (int64, bool) {
	accountID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || accountID <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid account ID"})
		return 0, false
	}
	return accountID, true
}

// ensureAccount creates the account with its default profile on first
// contact and is a no-op for existing accounts.
func (h *accountHandler) ensureAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}

	account, err := h.accountService.EnsureAccount(c.Request.Context(), accountID)
	if err != nil {
		logger.Error("Failed to ensure account", slog.Int64("account_id", accountID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to ensure account"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Account not found"})
		} else {
			logger.Error("Failed to get account", slog.Int64("account_id", accountID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve account"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Error("Failed to list accounts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list accounts"})
		return
	}

	responses := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		responses = append(responses, dto.ToAccountResponse(&accounts[i]))
	}
	c.JSON(http.StatusOK, gin.H{"accounts": responses})
}

func (h *accountHandler) setLanguage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}

	var req dto.SetLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	if err := h.accountService.SetLanguage(c.Request.Context(), accountID, req.Language); err != nil {
		h.respondMutationError(c, logger, accountID, "set language", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *accountHandler) setBlocked(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}

	var req dto.SetBlockedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	if err := h.accountService.SetBlocked(c.Request.Context(), accountID, req.Blocked); err != nil {
		h.respondMutationError(c, logger, accountID, "set blocked", err)
		return
	}

	logger.Info("Account blocked flag updated", slog.Int64("account_id", accountID), slog.Bool("blocked", req.Blocked))
	c.Status(http.StatusNoContent)
}

func (h *accountHandler) addProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}

	var req dto.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	profile, err := h.accountService.AddProfile(c.Request.Context(), accountID, req)
	if err != nil {
		h.respondMutationError(c, logger, accountID, "add profile", err)
		return
	}

	logger.Info("Profile added", slog.Int64("account_id", accountID), slog.String("profile_id", profile.ProfileID))
	c.JSON(http.StatusCreated, profile)
}

func (h *accountHandler) updateProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}
	profileID := c.Param("profileID")

	var req dto.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	profile, err := h.accountService.UpdateProfile(c.Request.Context(), accountID, profileID, req)
	if err != nil {
		h.respondMutationError(c, logger, accountID, "update profile", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *accountHandler) removeProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}

	if err := h.accountService.RemoveProfile(c.Request.Context(), accountID, c.Param("profileID")); err != nil {
		h.respondMutationError(c, logger, accountID, "remove profile", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *accountHandler) resetProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}

	profile, err := h.accountService.ResetProfile(c.Request.Context(), accountID, c.Param("profileID"))
	if err != nil {
		h.respondMutationError(c, logger, accountID, "reset profile", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// respondMutationError maps service errors for account mutations onto
// HTTP statuses.
func (h *accountHandler) respondMutationError(c *gin.Context, logger *slog.Logger, accountID int64, action string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Concurrent update, retry"})
	default:
		logger.Error("Failed to "+action, slog.Int64("account_id", accountID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to " + action})
	}
}

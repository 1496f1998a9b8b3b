package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openledgerhq/bankledger/internal/apperrors"
	"github.com/openledgerhq/bankledger/internal/core/domain"
	portssvc "github.com/openledgerhq/bankledger/internal/core/ports/services"
	"github.com/openledgerhq/bankledger/internal/dto"
	"github.com/openledgerhq/bankledger/internal/middleware"
)

// accountHandler handles the mutating command endpoints for accounts.
type accountHandler struct {
	commandService portssvc.AccountCommandSvc
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(cs portssvc.AccountCommandSvc) *accountHandler {
	return &accountHandler{commandService: cs}
}

// registerAccountRoutes registers the command routes for accounts.
func registerAccountRoutes(rg *gin.RouterGroup, commandService portssvc.AccountCommandSvc) {
	h := newAccountHandler(commandService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.POST("/:id/deposit", h.deposit)
		accounts.POST("/:id/withdraw", h.withdraw)
		accounts.POST("/:id/close", h.closeAccount)
	}
}

// createAccount opens a new account. Commands are accepted with 202: the
// events are durable but the read models catch up asynchronously.
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to create account", slog.String("account_id", req.AccountID))

	if err := h.commandService.CreateAccount(c.Request.Context(), req); err != nil {
		respondCommandError(c, logger, err, "Failed to create account")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Account creation accepted."})
}

// deposit credits an account. Resubmitting the same transactionId is a safe
// no-op and still reports 202.
func (h *accountHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Deposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received deposit request", slog.String("account_id", accountID), slog.String("transaction_id", req.TransactionID))

	if err := h.commandService.Deposit(c.Request.Context(), accountID, req); err != nil {
		respondCommandError(c, logger, err, "Failed to deposit")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Deposit accepted."})
}

// withdraw debits an account.
func (h *accountHandler) withdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Withdraw", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received withdrawal request", slog.String("account_id", accountID), slog.String("transaction_id", req.TransactionID))

	if err := h.commandService.Withdraw(c.Request.Context(), accountID, req); err != nil {
		respondCommandError(c, logger, err, "Failed to withdraw")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Withdrawal accepted."})
}

// closeAccount closes an account with a zero balance.
func (h *accountHandler) closeAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var req dto.CloseAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CloseAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received close request", slog.String("account_id", accountID))

	if err := h.commandService.CloseAccount(c.Request.Context(), accountID, req); err != nil {
		respondCommandError(c, logger, err, "Failed to close account")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Account closed."})
}

// respondCommandError maps domain error kinds to transport responses.
func respondCommandError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Command rejected by validation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Command target not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInsufficientFunds):
		logger.Warn("Command rejected: insufficient funds", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrStateConflict):
		logger.Warn("Command rejected by lifecycle state", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConcurrencyConflict):
		logger.Warn("Command lost a concurrency race", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Command failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openledgerhq/bankledger/internal/apperrors"
	portssvc "github.com/openledgerhq/bankledger/internal/core/ports/services"
	"github.com/openledgerhq/bankledger/internal/dto"
	"github.com/openledgerhq/bankledger/internal/middleware"
)

// queryHandler handles the read-side endpoints. These serve materialized
// read models and raw event streams only.
type queryHandler struct {
	queryService portssvc.AccountQuerySvc
}

// newQueryHandler creates a new queryHandler.
func newQueryHandler(qs portssvc.AccountQuerySvc) *queryHandler {
	return &queryHandler{queryService: qs}
}

// registerQueryRoutes registers the read-side routes for accounts.
func registerQueryRoutes(rg *gin.RouterGroup, queryService portssvc.AccountQuerySvc) {
	h := newQueryHandler(queryService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("/:id", h.getAccount)
		accounts.GET("/:id/transactions", h.listTransactions)
		accounts.GET("/:id/events", h.getAccountEvents)
		accounts.GET("/:id/balance-at/:timestamp", h.getBalanceAt)
	}
}

func (h *queryHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	summary, err := h.queryService.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		logger.Error("Failed to get account summary", slog.String("account_id", accountID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve account"})
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(summary))
}

func (h *queryHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	var nextToken *string
	if token := c.Query("nextToken"); token != "" {
		nextToken = &token
	}

	entries, newToken, err := h.queryService.ListTransactions(c.Request.Context(), accountID, limit, nextToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list transactions", slog.String("account_id", accountID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transactions"})
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionListResponse(entries, newToken))
}

func (h *queryHandler) getAccountEvents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	events, err := h.queryService.GetAccountEvents(c.Request.Context(), accountID)
	if err != nil {
		logger.Error("Failed to get account events", slog.String("account_id", accountID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve events"})
		return
	}
	c.JSON(http.StatusOK, dto.ToEventResponses(events))
}

func (h *queryHandler) getBalanceAt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	at, err := time.Parse(time.RFC3339, c.Param("timestamp"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid timestamp, expected RFC3339"})
		return
	}

	balance, err := h.queryService.GetBalanceAt(c.Request.Context(), accountID, at)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		logger.Error("Failed to reconstruct balance", slog.String("account_id", accountID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reconstruct balance"})
		return
	}
	c.JSON(http.StatusOK, balance)
}

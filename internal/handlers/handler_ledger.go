package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ledgerHandler struct {
	ledgerService portssvc.LedgerQuerySvc
}

func newLedgerHandler(ls portssvc.LedgerQuerySvc) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers the read-only ledger projections.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerQuerySvc) {
	h := newLedgerHandler(ledgerService)

	ledger := rg.Group("/ledger")
	{
		ledger.GET("/summary", h.getAccountSummary)
		ledger.GET("/accounts/:accountID", h.getAccountLedger)
	}
}

// getAccountSummary godoc
// @Summary Account summary
// @Description Total debits, total credits and signed balance of every account, ordered by code
// @Tags ledger
// @Produce  json
// @Success 200 {object} dto.LedgerSummaryResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to compute summary"
// @Security BearerAuth
// @Router /ledger/summary [get]
func (h *ledgerHandler) getAccountSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summaries, err := h.ledgerService.AccountSummary(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to compute account summary")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerSummaryResponse(summaries))
}

// getAccountLedger godoc
// @Summary Account ledger
// @Description Lines posted to one account in date and sequence order with a running balance
// @Tags ledger
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountLedgerResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to compute ledger"
// @Security BearerAuth
// @Router /ledger/accounts/{accountID} [get]
func (h *ledgerHandler) getAccountLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	rows, err := h.ledgerService.AccountLedger(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, logger.With(slog.String("account_id", accountID)), err, "Failed to compute account ledger")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountLedgerResponse(accountID, rows))
}

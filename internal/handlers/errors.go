package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/gin-gonic/gin"
)

// statusForLedgerError maps a structured ledger failure to an HTTP status.
func statusForLedgerError(le *domain.LedgerError) int {
	switch le.Kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindPolicy:
		if le.Reason == domain.ReasonCapabilityMissing {
			return http.StatusForbidden
		}
		return http.StatusUnprocessableEntity
	case domain.KindState:
		if le.Reason == domain.ReasonEntryNotFound {
			return http.StatusNotFound
		}
		return http.StatusConflict
	case domain.KindTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a dto.ErrorResponse. Unexpected failures are logged at Error and
// their details hidden behind fallback.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	if le, ok := domain.AsLedgerError(err); ok {
		status := statusForLedgerError(le)
		if status >= http.StatusInternalServerError {
			logger.Error(fallback, slog.String("error", err.Error()), slog.String("reason", string(le.Reason)))
		} else {
			logger.Warn(fallback, slog.String("error", err.Error()), slog.String("reason", string(le.Reason)))
		}
		c.JSON(status, dto.ErrorResponse{Error: le.Message, Kind: string(le.Kind), Reason: string(le.Reason)})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		logger.Warn(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrTransient):
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "Ledger storage unavailable, retry later"})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: fallback})
	}
}

func badRequest(c *gin.Context, logger *slog.Logger, msg string, err error) {
	logger.Warn(msg, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg + ": " + err.Error()})
}

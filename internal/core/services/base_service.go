package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/middleware"
)

// BaseService gives every service the request-scoped logger.
type BaseService struct{}

// GetLogger returns the logger stored on ctx by the request middleware, or the default logger.
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

func (s *BaseService) LogError(ctx context.Context, err error, msg string, attrs ...any) {
	s.GetLogger(ctx).Error(msg, withErr(err, attrs)...)
}

func (s *BaseService) LogWarn(ctx context.Context, err error, msg string, attrs ...any) {
	s.GetLogger(ctx).Warn(msg, withErr(err, attrs)...)
}

func (s *BaseService) LogInfo(ctx context.Context, msg string, attrs ...any) {
	s.GetLogger(ctx).Info(msg, attrs...)
}

func (s *BaseService) LogDebug(ctx context.Context, msg string, attrs ...any) {
	s.GetLogger(ctx).Debug(msg, attrs...)
}

// LogLedgerError logs a failed ledger operation. Rejections of the caller's
// request go to Warn with their reason; storage and unexpected failures go to Error.
func (s *BaseService) LogLedgerError(ctx context.Context, op string, err error) {
	le, ok := domain.AsLedgerError(err)
	switch {
	case !ok:
		s.LogError(ctx, err, "Ledger operation failed", slog.String("op", op))
	case le.Kind == domain.KindTransient:
		s.LogError(ctx, err, "Ledger storage unavailable", slog.String("op", op))
	default:
		s.LogWarn(ctx, err, "Ledger operation rejected",
			slog.String("op", op),
			slog.String("kind", string(le.Kind)),
			slog.String("reason", string(le.Reason)))
	}
}

func withErr(err error, attrs []any) []any {
	args := make([]any, 0, len(attrs)+1)
	args = append(args, slog.String("error", err.Error()))
	return append(args, attrs...)
}

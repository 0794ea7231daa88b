package middleware

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"jrpc/message"
)

// Logging wraps handler invocation with a structured duration/outcome log
// line.
func Logging(logger *zap.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, method string, params json.RawMessage) (json.RawMessage, *message.ErrorData) {
			start := time.Now()
			result, errData := next(ctx, method, params)
			fields := []zap.Field{
				zap.String("method", method),
				zap.Duration("duration", time.Since(start)),
			}
			if errData != nil {
				fields = append(fields, zap.Int32("code", errData.Code), zap.String("error", errData.Message))
				logger.Warn("handler returned error", fields...)
			} else {
				logger.Debug("handler completed", fields...)
			}
			return result, errData
		}
	}
}

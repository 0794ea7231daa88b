package middleware

import (
	"context"
	"encoding/json"
	"time"

	"jrpc/message"
)

type timeoutResult struct {
	result  json.RawMessage
	errData *message.ErrorData
}

// Timeout bounds a single handler invocation so one pathological handler
// cannot wedge the engine's sequential dispatch loop. A tripped timeout
// maps to the existing -32603 Internal error code — it introduces no new
// wire behavior, only an implementation safety margin on top of the
// engine's synchronous, one-at-a-time handler invocation.
func Timeout(timeout time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, method string, params json.RawMessage) (json.RawMessage, *message.ErrorData) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			done := make(chan timeoutResult, 1)
			go func() {
				result, errData := next(ctx, method, params)
				done <- timeoutResult{result: result, errData: errData}
			}()

			select {
			case r := <-done:
				return r.result, r.errData
			case <-ctx.Done():
				return nil, message.InternalError()
			}
		}
	}
}

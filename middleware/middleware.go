// Package middleware decorates inbound request-handler invocation. It
// never touches wire semantics — a middleware wraps the call from the
// engine into a registered handler, not the codec or the correlation
// maps.
package middleware

import (
	"context"
	"encoding/json"

	"jrpc/message"
)

// HandlerFunc is the shape the engine invokes for a registered request
// handler: method and opaque params in, opaque result or a structured
// error out. The error is already encoded as message.ErrorData so
// middlewares need not know about a handler's internal error variants.
type HandlerFunc func(ctx context.Context, method string, params json.RawMessage) (json.RawMessage, *message.ErrorData)

type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes middlewares so the first one given runs outermost:
// Chain(A, B)(handler) == A(B(handler)).
func Chain(middlewares ...Middleware) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

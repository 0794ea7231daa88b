package engine

import (
	"context"
	"encoding/json"

	"jrpc/message"
)

// RequestHandler serves an inbound request. Handlers must not fail
// unobservably, so the signature has no panic escape hatch — a handler
// that can fail returns a HandlerError.
type RequestHandler func(ctx context.Context, params json.RawMessage) (json.RawMessage, *HandlerError)

// NotificationHandler serves an inbound notification. It returns nothing
// and cannot fail observably — there is no peer to report a failure to.
type NotificationHandler func(ctx context.Context, params json.RawMessage)

// HandlerErrorKind distinguishes the three ways a request handler may
// decline to produce a result.
type HandlerErrorKind int

const (
	// InvalidParams maps to the standard -32602 code, no data.
	InvalidParams HandlerErrorKind = iota
	// InternalError maps to the standard -32603 code, no data.
	InternalError
	// Custom is surfaced to the peer verbatim.
	Custom
)

// HandlerError is a registered handler's failure outcome.
type HandlerError struct {
	Kind   HandlerErrorKind
	Custom *message.ErrorData
}

func ErrInvalidParams() *HandlerError { return &HandlerError{Kind: InvalidParams} }
func ErrInternal() *HandlerError      { return &HandlerError{Kind: InternalError} }
func ErrCustom(code int32, msg string, data any) *HandlerError {
	return &HandlerError{Kind: Custom, Custom: message.NewErrorWithData(code, msg, data)}
}

// toErrorData renders a HandlerError into the wire ErrorData the
// dispatcher sends back.
func (h *HandlerError) toErrorData() *message.ErrorData {
	switch h.Kind {
	case InvalidParams:
		return message.InvalidParams()
	case InternalError:
		return message.InternalError()
	default:
		return h.Custom
	}
}

package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"jrpc/middleware"
)

// RpcBuilder collects handler registrations and middleware before binding
// to a transport: Handle/HandleNotification/Use happen before Bind builds
// the middleware chain once. Handler tables are immutable after Bind.
type RpcBuilder struct {
	methods       map[string]RequestHandler
	notifications map[string]NotificationHandler
	middlewares   []middleware.Middleware
	logger        *zap.Logger
}

// NewBuilder creates an empty builder.
func NewBuilder() *RpcBuilder {
	return &RpcBuilder{
		methods:       make(map[string]RequestHandler),
		notifications: make(map[string]NotificationHandler),
	}
}

// Handle registers a request handler for method.
func (b *RpcBuilder) Handle(method string, h RequestHandler) *RpcBuilder {
	b.methods[method] = h
	return b
}

// HandleNotification registers a notification handler for method.
func (b *RpcBuilder) HandleNotification(method string, h NotificationHandler) *RpcBuilder {
	b.notifications[method] = h
	return b
}

// Use appends a middleware to the dispatch chain, applied in registration
// order: the first one registered runs outermost.
func (b *RpcBuilder) Use(mw middleware.Middleware) *RpcBuilder {
	b.middlewares = append(b.middlewares, mw)
	return b
}

// Logger sets the structured logger used for observable diagnostics.
// Defaults to a no-op logger if never called.
func (b *RpcBuilder) Logger(l *zap.Logger) *RpcBuilder {
	b.logger = l
	return b
}

// errorType and ctxType validate a reflected handler's signature.
var errorType = reflect.TypeOf((*error)(nil)).Elem()
var ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()

// HandleTyped registers a method backed by a typed Go function of shape
// func(context.Context, *Args) (*Reply, error), adapting it into a
// RequestHandler via reflection: a plain Go function replaces a
// struct-of-methods registry, and a non-nil error return is reported as
// an internal error rather than echoed verbatim, since a handler's
// observable failures are expressed through HandlerError, not bare Go
// errors.
func (b *RpcBuilder) HandleTyped(method string, fn any) *RpcBuilder {
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if ft.Kind() != reflect.Func || ft.NumIn() != 2 || ft.NumOut() != 2 ||
		!ft.In(0).Implements(ctxType) || ft.In(1).Kind() != reflect.Ptr ||
		ft.Out(1) != errorType {
		panic(fmt.Sprintf("jrpc: HandleTyped(%q): fn must be func(context.Context, *Args) (*Reply, error)", method))
	}
	argType := ft.In(1).Elem()

	b.methods[method] = func(ctx context.Context, params json.RawMessage) (json.RawMessage, *HandlerError) {
		argPtr := reflect.New(argType)
		if len(params) > 0 {
			if err := json.Unmarshal(params, argPtr.Interface()); err != nil {
				return nil, ErrInvalidParams()
			}
		}
		results := fv.Call([]reflect.Value{reflect.ValueOf(ctx), argPtr})
		if errVal := results[1].Interface(); errVal != nil {
			return nil, ErrInternal()
		}
		reply := results[0].Interface()
		encoded, err := json.Marshal(reply)
		if err != nil {
			return nil, ErrInternal()
		}
		return encoded, nil
	}
	return b
}

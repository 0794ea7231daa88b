// Package engine implements the per-connection JSON-RPC state machine: a
// single-owner actor that holds the handler tables, the pending-call
// correlation maps, and the bound transport sender, and that serializes
// all inbound frames and outbound application commands through one loop
// goroutine.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"

	"jrpc/codec"
	"jrpc/message"
	"jrpc/middleware"
)

// SendFunc is the host-supplied transport sender, with the connection
// already bound into the closure by whoever calls Bind.
type SendFunc func(text []byte) error

// ErrEngineStopped is returned by any entry point called after the
// engine has stopped, normally or abnormally.
var ErrEngineStopped = errors.New("jrpc: engine stopped")

// Engine is the per-connection handle application code holds: it is both
// the JSON-RPC client (Call/Notify/CallBatch) and the dispatch target for
// inbound frames (HandleText/HandleBinary) over one bound connection.
type Engine struct {
	send      SendFunc
	codec     codec.Codec
	logger    *zap.Logger
	methods   map[string]middleware.HandlerFunc
	notifiers map[string]NotificationHandler

	frames   chan frameMsg
	commands chan any

	stopped atomic.Bool
	done    chan struct{}
	stopErr error
}

type frameMsg struct {
	text   []byte
	binary bool
}

// Bind creates the Engine's state from the builder's registrations and a
// bound send function, and starts its actor loop. Handlers are immutable
// from this point on.
func (b *RpcBuilder) Bind(send SendFunc) *Engine {
	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	chain := middleware.Chain(b.middlewares...)

	e := &Engine{
		send:      send,
		codec:     codec.Default,
		logger:    logger,
		methods:   make(map[string]middleware.HandlerFunc, len(b.methods)),
		notifiers: b.notifications,
		frames:    make(chan frameMsg, 64),
		commands:  make(chan any, 64),
		done:      make(chan struct{}),
	}
	for method, h := range b.methods {
		e.methods[method] = adaptHandler(h)
	}
	for method := range e.methods {
		e.methods[method] = chain(e.methods[method])
	}
	go e.run()
	return e
}

// adaptHandler lifts a RequestHandler into a middleware.HandlerFunc,
// translating HandlerError into wire ErrorData at the boundary so
// middlewares never need to know about HandlerError's variants.
func adaptHandler(h RequestHandler) middleware.HandlerFunc {
	return func(ctx context.Context, method string, params json.RawMessage) (json.RawMessage, *message.ErrorData) {
		result, hErr := h(ctx, params)
		if hErr != nil {
			return nil, hErr.toErrorData()
		}
		return result, nil
	}
}

// Done closes once the engine has stopped, normally (Close) or abnormally
// (a send failure). Err reports which.
func (e *Engine) Done() <-chan struct{} { return e.done }

func (e *Engine) Err() error { return e.stopErr }

func (e *Engine) stop(err error) {
	if e.stopped.CompareAndSwap(false, true) {
		e.stopErr = err
		close(e.done)
	}
}

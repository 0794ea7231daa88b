package engine

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"jrpc/message"
)

// HandleText feeds one inbound text frame to the engine, once per frame
// the host receives on the bound connection. It returns ErrEngineStopped
// if the engine has already stopped.
func (e *Engine) HandleText(text []byte) error {
	return e.enqueueFrame(frameMsg{text: text})
}

// HandleBinary feeds one inbound binary frame. Binary frames are never
// parsed — they are always rejected with a parse-error reply.
func (e *Engine) HandleBinary(data []byte) error {
	return e.enqueueFrame(frameMsg{binary: true})
}

func (e *Engine) enqueueFrame(f frameMsg) error {
	if e.stopped.Load() {
		return ErrEngineStopped
	}
	select {
	case e.frames <- f:
		return nil
	case <-e.done:
		return ErrEngineStopped
	}
}

// Call sends a request and blocks until the matching response arrives,
// timeout elapses, or ctx is cancelled. If no id is supplied by the
// caller a fresh UUID v4 string id is generated. Duplicate
// caller-supplied ids are not reconciled: a later call with the same id
// replaces the earlier call's waiting entry, so a response for that id
// goes to the latest call and the earlier call receives none.
func (e *Engine) Call(ctx context.Context, method string, params any, timeout time.Duration) (json.RawMessage, error) {
	return e.CallWithId(ctx, NewAutoId(), method, params, timeout)
}

// NewAutoId generates the UUID-v4 string id used when a caller does not
// pre-assign one.
func NewAutoId() message.Id {
	return message.NewStringId(uuid.NewString())
}

// CallWithId is Call with an explicit id, for callers that must control
// id assignment (e.g. re-sending a request under an id a peer already
// expects).
func (e *Engine) CallWithId(ctx context.Context, id message.Id, method string, params any, timeout time.Duration) (json.RawMessage, error) {
	raw, err := marshalParams(params)
	if err != nil {
		return nil, callError(err)
	}

	reply := make(chan callResult, 1)
	cmd := &requestCmd{id: id, method: method, params: raw, reply: reply}
	if err := e.sendCommand(cmd); err != nil {
		return nil, callError(err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-reply:
		e.removeWaiting(id)
		if res.err != nil {
			return nil, returnedError(res.err)
		}
		return res.result, nil
	case <-timer.C:
		e.removeWaiting(id)
		return nil, callError(context.DeadlineExceeded)
	case <-ctx.Done():
		e.removeWaiting(id)
		return nil, callError(ctx.Err())
	case <-e.done:
		return nil, callError(ErrEngineStopped)
	}
}

// CallInto is Call with a caller-supplied decode target: it unmarshals the
// raw result into out and returns a DecodeError-kind RequestError if that
// fails, instead of handing the caller raw JSON to decode themselves.
func (e *Engine) CallInto(ctx context.Context, method string, params any, out any, timeout time.Duration) error {
	return e.CallWithIdInto(ctx, NewAutoId(), method, params, out, timeout)
}

// CallWithIdInto is CallInto with an explicit id; see CallWithId.
func (e *Engine) CallWithIdInto(ctx context.Context, id message.Id, method string, params any, out any, timeout time.Duration) error {
	raw, err := e.CallWithId(ctx, id, method, params, timeout)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return decodeError(err)
	}
	return nil
}

// Notify sends a fire-and-forget notification: no id, no waiter, no
// reply ever possible.
func (e *Engine) Notify(method string, params any) error {
	raw, err := marshalParams(params)
	if err != nil {
		return err
	}
	return e.sendCommand(&notificationCmd{method: method, params: raw})
}

// Close stops the engine normally.
func (e *Engine) Close() error {
	return e.sendCommand(&closeCmd{})
}

// removeWaiting issues the explicit removal required after a call
// completes, win or lose, so a late response finds no entry.
func (e *Engine) removeWaiting(id message.Id) {
	// Best-effort: if the engine already stopped there is nothing to
	// remove.
	select {
	case e.commands <- &removeWaitingCmd{id: id}:
	case <-e.done:
	}
}

func (e *Engine) sendCommand(cmd any) error {
	if e.stopped.Load() {
		return ErrEngineStopped
	}
	select {
	case e.commands <- cmd:
		return nil
	case <-e.done:
		return ErrEngineStopped
	}
}

func marshalParams(params any) (json.RawMessage, error) {
	if params == nil {
		return nil, nil
	}
	if raw, ok := params.(json.RawMessage); ok {
		return raw, nil
	}
	return json.Marshal(params)
}

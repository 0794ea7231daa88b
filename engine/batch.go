package engine

import (
	"context"
	"encoding/json"
	"time"

	"jrpc/message"
)

// BatchItem is one element of an outbound batch: built with BatchCall for
// a request (expects a correlated response) or BatchNotify for a
// notification (no response, excluded from the batch's id-set).
type BatchItem struct {
	id     message.Id
	method string
	params json.RawMessage
	notify bool
}

func BatchCall(method string, params any) BatchItem {
	raw, _ := marshalParams(params)
	return BatchItem{id: NewAutoId(), method: method, params: raw}
}

func BatchNotify(method string, params any) BatchItem {
	raw, _ := marshalParams(params)
	return BatchItem{method: method, params: raw, notify: true}
}

// BatchResult is one entry of the map CallBatch resolves with: either a
// decoded Value or a Peer error.
type BatchResult struct {
	Value json.RawMessage
	Peer  *message.ErrorData
}

// CallBatch sends a JSON-array batch containing any mix of requests and
// notifications and blocks until a matching response array arrives or
// the caller's timeout/context elapses. The returned map is keyed by
// request id; notifications contribute nothing since they have no id and
// no reply.
func (e *Engine) CallBatch(ctx context.Context, items []BatchItem, timeout time.Duration) (map[message.Id]BatchResult, error) {
	elements := make([]message.BatchElement, 0, len(items))
	ids := make([]message.Id, 0, len(items))
	for _, it := range items {
		if it.notify {
			elements = append(elements, message.BatchElement{Notification: &message.Notification{Method: it.method, Params: it.params}})
			continue
		}
		elements = append(elements, message.BatchElement{Request: &message.Request{Id: it.id, Method: it.method, Params: it.params}})
		ids = append(ids, it.id)
	}
	idset := NewIdSet(ids)

	reply := make(chan batchResult, 1)
	cmd := &batchCmd{elements: elements, idset: idset, reply: reply}
	if err := e.sendCommand(cmd); err != nil {
		return nil, callError(err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-reply:
		e.removeWaitingBatch(idset)
		out := make(map[message.Id]BatchResult, len(res))
		for id, r := range res {
			out[id] = BatchResult{Value: r.result, Peer: r.err}
		}
		return out, nil
	case <-timer.C:
		e.removeWaitingBatch(idset)
		return nil, callError(context.DeadlineExceeded)
	case <-ctx.Done():
		e.removeWaitingBatch(idset)
		return nil, callError(ctx.Err())
	case <-e.done:
		return nil, callError(ErrEngineStopped)
	}
}

func (e *Engine) removeWaitingBatch(idset IdSet) {
	select {
	case e.commands <- &removeWaitingBatchCmd{idset: idset}:
	case <-e.done:
	}
}

package engine

import (
	"context"

	"go.uber.org/zap"

	"jrpc/message"
)

// handleTextFrame decodes one inbound text frame and routes it to the
// matching handler or waiter. It runs exclusively inside the run loop.
func (e *Engine) handleTextFrame(text []byte, waiting map[message.Id]chan callResult, batches map[IdSet]chan batchResult) error {
	msg, decodeErr := e.codec.Decode(text)
	if decodeErr != nil {
		return e.reply(message.ErrorMessage(decodeErr))
	}

	switch msg.Kind {
	case message.KindRequest:
		return e.dispatchRequest(msg.Request)
	case message.KindNotification:
		e.dispatchNotification(msg.Notification)
		return nil
	case message.KindResponse:
		e.routeResponse(msg.Response, waiting)
		return nil
	case message.KindBatchRequest:
		return e.dispatchBatch(msg.BatchRequest)
	case message.KindBatchResponse:
		e.routeBatchResponse(msg.BatchResponse, batches)
		return nil
	case message.KindError:
		e.logger.Info("bare error frame received", zap.Int32("code", msg.Error.Code), zap.String("message", msg.Error.Message))
		return nil
	default:
		return nil
	}
}

// handleBinaryFrame rejects an inbound binary frame; binary frames are
// never parsed.
func (e *Engine) handleBinaryFrame() error {
	return e.reply(message.ErrorMessage(message.ParseError("binary frames are unsupported")))
}

func (e *Engine) dispatchRequest(req *message.Request) error {
	handler, ok := e.methods[req.Method]
	if !ok {
		return e.reply(message.ResponseMessage(message.Failure(&req.Id, message.MethodNotFound(req.Method))))
	}
	result, errData := handler(context.Background(), req.Method, req.Params)
	if errData != nil {
		return e.reply(message.ResponseMessage(message.Failure(&req.Id, errData)))
	}
	return e.reply(message.ResponseMessage(message.Success(req.Id, result)))
}

func (e *Engine) dispatchNotification(n *message.Notification) {
	handler, ok := e.notifiers[n.Method]
	if !ok {
		e.logger.Info("unknown notification method", zap.String("method", n.Method))
		return
	}
	handler(context.Background(), n.Params)
}

func (e *Engine) routeResponse(resp *message.Response, waiting map[message.Id]chan callResult) {
	if resp.Id == nil {
		e.logger.Warn("response arrived with no id")
		return
	}
	ch, ok := waiting[*resp.Id]
	if !ok {
		e.logger.Info("unmatched response id", zap.String("id", resp.Id.String()))
		return
	}
	// Resolution never removes the entry — removal is caller-driven.
	ch <- callResult{result: resp.Result, err: resp.Err}
}

func (e *Engine) dispatchBatch(elements []message.BatchElement) error {
	responses := make([]*message.Response, 0, len(elements))
	for _, el := range elements {
		if el.IsNotification() {
			e.dispatchNotification(el.Notification)
			continue
		}
		req := el.Request
		handler, ok := e.methods[req.Method]
		if !ok {
			responses = append(responses, message.Failure(&req.Id, message.MethodNotFound(req.Method)))
			continue
		}
		result, errData := handler(context.Background(), req.Method, req.Params)
		if errData != nil {
			responses = append(responses, message.Failure(&req.Id, errData))
			continue
		}
		responses = append(responses, message.Success(req.Id, result))
	}
	if len(responses) == 0 {
		return nil
	}
	return e.reply(message.BatchResponseMessage(responses))
}

func (e *Engine) routeBatchResponse(resps []*message.Response, batches map[IdSet]chan batchResult) {
	idset, ok := idSetOfResponses(resps)
	if !ok {
		e.logger.Warn("batch response contained an entry with no id")
		return
	}
	ch, ok := batches[idset]
	if !ok {
		e.logger.Info("unmatched batch id-set", zap.String("idset", string(idset)))
		return
	}
	results := make(batchResult, len(resps))
	for _, r := range resps {
		results[*r.Id] = callResult{result: r.Result, err: r.Err}
	}
	ch <- results
}

// reply encodes and sends msg; an error from send is fatal to the engine.
func (e *Engine) reply(msg *message.Message) error {
	data, err := e.codec.Encode(msg)
	if err != nil {
		return err
	}
	return e.send(data)
}

// handleCommand applies one outbound command from the engine's mailbox.
func (e *Engine) handleCommand(c any, waiting map[message.Id]chan callResult, batches map[IdSet]chan batchResult) (stop bool, err error) {
	switch cmd := c.(type) {
	case *requestCmd:
		req := &message.Request{Id: cmd.id, Method: cmd.method, Params: cmd.params}
		if sendErr := e.reply(message.RequestMessage(req)); sendErr != nil {
			return false, sendErr
		}
		waiting[cmd.id] = cmd.reply
		return false, nil

	case *notificationCmd:
		n := &message.Notification{Method: cmd.method, Params: cmd.params}
		if sendErr := e.reply(message.NotificationMessage(n)); sendErr != nil {
			return false, sendErr
		}
		return false, nil

	case *batchCmd:
		if sendErr := e.reply(message.BatchRequestMessage(cmd.elements)); sendErr != nil {
			return false, sendErr
		}
		batches[cmd.idset] = cmd.reply
		return false, nil

	case *removeWaitingCmd:
		delete(waiting, cmd.id)
		return false, nil

	case *removeWaitingBatchCmd:
		delete(batches, cmd.idset)
		return false, nil

	case *closeCmd:
		return true, nil

	default:
		return false, nil
	}
}

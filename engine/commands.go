package engine

import (
	"encoding/json"

	"jrpc/message"
)

// The command types below are what Call/Notify/CallBatch/Close enqueue
// onto Engine.commands. Only the run loop ever reads their fields.

type requestCmd struct {
	id     message.Id
	method string
	params json.RawMessage
	reply  chan callResult
}

type notificationCmd struct {
	method string
	params json.RawMessage
}

type batchCmd struct {
	elements []message.BatchElement
	idset    IdSet
	reply    chan batchResult
}

type removeWaitingCmd struct {
	id message.Id
}

type removeWaitingBatchCmd struct {
	idset IdSet
}

type closeCmd struct{}

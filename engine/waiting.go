package engine

import (
	"encoding/json"

	"jrpc/message"
)

// callResult is what a singleton waiter receives: either a decoded
// result value or the peer's ErrorData.
type callResult struct {
	result json.RawMessage
	err    *message.ErrorData
}

// batchResult is what a batch waiter receives: one callResult per id in
// the batch's id-set, keyed by Id. Callers needing wire order should
// range the original request slice, not this map.
type batchResult map[message.Id]callResult

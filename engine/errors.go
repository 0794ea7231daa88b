package engine

import "jrpc/message"

// RequestErrorKind discriminates the three ways Call/CallBatch can fail.
type RequestErrorKind int

const (
	// ReturnedError means the peer replied with a JSON-RPC error object.
	ReturnedError RequestErrorKind = iota
	// DecodeError means the result arrived but the caller could not make
	// sense of it: it failed the caller-supplied result decoder.
	DecodeError
	// CallError means the call timed out, its context was cancelled, or
	// the engine died before a response arrived.
	CallError
)

// RequestError is the error Call/CallBatch return for anything other
// than a clean success.
type RequestError struct {
	Kind  RequestErrorKind
	Peer  *message.ErrorData // set when Kind == ReturnedError
	cause error              // set when Kind == DecodeError or CallError
}

func (e *RequestError) Error() string {
	switch e.Kind {
	case ReturnedError:
		return "jrpc: " + e.Peer.Message
	case DecodeError:
		return "jrpc: result decode failed: " + e.cause.Error()
	default:
		return "jrpc: call failed: " + e.cause.Error()
	}
}

func (e *RequestError) Unwrap() error { return e.cause }

func returnedError(peer *message.ErrorData) *RequestError {
	return &RequestError{Kind: ReturnedError, Peer: peer}
}

func decodeError(cause error) *RequestError {
	return &RequestError{Kind: DecodeError, cause: cause}
}

func callError(cause error) *RequestError {
	return &RequestError{Kind: CallError, cause: cause}
}

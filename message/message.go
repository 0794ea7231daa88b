package message

import (
	"encoding/json"
)

// Kind discriminates the five top-level shapes the wire format accepts.
type Kind int

const (
	KindRequest Kind = iota
	KindNotification
	KindResponse
	KindError // bare error object, no id — server-initiated parse diagnostic
	KindBatchRequest
	KindBatchResponse
)

// Message is the envelope over every decoded JSON-RPC frame. Exactly one
// of the typed fields is populated, selected by Kind.
type Message struct {
	Kind Kind

	Request       *Request
	Notification  *Notification
	Response      *Response
	Error         *ErrorData
	BatchRequest  []BatchElement // Request or Notification per element
	BatchResponse []*Response
}

// BatchElement is one entry of an inbound batch: a Request (Request !=
// nil) or a Notification (Request == nil).
type BatchElement struct {
	Request      *Request
	Notification *Notification
}

func (b BatchElement) IsNotification() bool {
	return b.Request == nil
}

func RequestMessage(r *Request) *Message { return &Message{Kind: KindRequest, Request: r} }
func NotificationMessage(n *Notification) *Message {
	return &Message{Kind: KindNotification, Notification: n}
}
func ResponseMessage(r *Response) *Message { return &Message{Kind: KindResponse, Response: r} }
func ErrorMessage(e *ErrorData) *Message   { return &Message{Kind: KindError, Error: e} }
func BatchRequestMessage(elems []BatchElement) *Message {
	return &Message{Kind: KindBatchRequest, BatchRequest: elems}
}
func BatchResponseMessage(resps []*Response) *Message {
	return &Message{Kind: KindBatchResponse, BatchResponse: resps}
}

// Encode serializes m to its canonical wire form. Every emitted object
// carries "jsonrpc":"2.0"; batches are emitted as JSON arrays.
func (m *Message) Encode() ([]byte, error) {
	switch m.Kind {
	case KindRequest:
		return json.Marshal(m.Request)
	case KindNotification:
		return json.Marshal(m.Notification)
	case KindResponse:
		return json.Marshal(m.Response)
	case KindError:
		return encodeBareError(m.Error)
	case KindBatchRequest:
		parts := make([]json.RawMessage, 0, len(m.BatchRequest))
		for _, el := range m.BatchRequest {
			var raw json.RawMessage
			var err error
			if el.IsNotification() {
				raw, err = json.Marshal(el.Notification)
			} else {
				raw, err = json.Marshal(el.Request)
			}
			if err != nil {
				return nil, err
			}
			parts = append(parts, raw)
		}
		return json.Marshal(parts)
	case KindBatchResponse:
		return json.Marshal(m.BatchResponse)
	default:
		return nil, errUnknownKind
	}
}

type bareErrorWire struct {
	JSONRPC string     `json:"jsonrpc"`
	Id      *Id        `json:"id"`
	Error   *ErrorData `json:"error"`
}

func encodeBareError(e *ErrorData) ([]byte, error) {
	return json.Marshal(bareErrorWire{JSONRPC: "2.0", Id: nil, Error: e})
}

type encodeError string

func (e encodeError) Error() string { return string(e) }

var errUnknownKind = encodeError("message: unknown message kind")

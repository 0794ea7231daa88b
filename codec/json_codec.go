package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"jrpc/message"
)

// JSONCodec implements the JSON-RPC 2.0 wire format: five overlapping
// top-level shapes, tried in a fixed order, with a decode failure always
// degrading to a protocol-compliant error reply rather than a bare Go
// error.
type JSONCodec struct{}

func (c *JSONCodec) Encode(msg *message.Message) ([]byte, error) {
	return msg.Encode()
}

func (c *JSONCodec) Decode(text []byte) (*message.Message, *message.ErrorData) {
	trimmed := bytes.TrimSpace(text)
	if len(trimmed) == 0 {
		return nil, message.ParseError("Unexpected End of Input")
	}

	switch trimmed[0] {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return nil, classifyDecodeError(err, trimmed)
		}
		return decodeArray(elems)
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return nil, classifyDecodeError(err, trimmed)
		}
		return decodeObject(fields)
	default:
		// Valid-or-invalid JSON scalar at the top level: never a JSON-RPC
		// shape. Probe for a syntax error first so byte-level garbage still
		// gets a Parse error instead of Invalid Request.
		var discard any
		if err := json.Unmarshal(trimmed, &discard); err != nil {
			return nil, classifyDecodeError(err, trimmed)
		}
		return nil, message.InvalidRequest()
	}
}

// decodeObject tries each object shape in order: Response,
// Request/Notification, bare Error.
func decodeObject(fields map[string]json.RawMessage) (*message.Message, *message.ErrorData) {
	idRaw, hasId := fields["id"]
	_, hasResult := fields["result"]
	errRaw, hasError := fields["error"]
	methodRaw, hasMethod := fields["method"]

	switch {
	case hasId && (hasResult || hasError):
		return decodeResponseObject(fields, idRaw, hasResult, errRaw)
	case hasMethod:
		return decodeRequestObject(fields, methodRaw, idRaw, hasId)
	case hasError && !hasId:
		var ed message.ErrorData
		if err := json.Unmarshal(errRaw, &ed); err != nil {
			return nil, message.InvalidRequest()
		}
		return message.ErrorMessage(&ed), nil
	default:
		return nil, message.InvalidRequest()
	}
}

func decodeResponseObject(fields map[string]json.RawMessage, idRaw json.RawMessage, hasResult bool, errRaw json.RawMessage) (*message.Message, *message.ErrorData) {
	id, ok := decodeOptionalId(idRaw)
	if !ok {
		return nil, message.InvalidRequest()
	}
	resp := &message.Response{Id: id}
	if hasResult {
		resp.Result = fields["result"]
		return message.ResponseMessage(resp), nil
	}
	var ed message.ErrorData
	if err := json.Unmarshal(errRaw, &ed); err != nil {
		return nil, message.InvalidRequest()
	}
	resp.Err = &ed
	return message.ResponseMessage(resp), nil
}

func decodeRequestObject(fields map[string]json.RawMessage, methodRaw json.RawMessage, idRaw json.RawMessage, hasId bool) (*message.Message, *message.ErrorData) {
	var method string
	if err := json.Unmarshal(methodRaw, &method); err != nil {
		return nil, message.InvalidRequest()
	}
	params := fields["params"]

	if !hasId {
		return message.NotificationMessage(&message.Notification{Method: method, Params: params}), nil
	}
	id, ok := decodeOptionalId(idRaw)
	if !ok || id == nil {
		return nil, message.InvalidRequest()
	}
	return message.RequestMessage(&message.Request{Id: *id, Method: method, Params: params}), nil
}

// decodeOptionalId parses an "id" field that may be JSON null (meaning
// absent on the response side) or a number/string. ok is false only when
// the value is present and of an unsupported JSON type.
func decodeOptionalId(raw json.RawMessage) (*message.Id, bool) {
	if raw == nil || string(raw) == "null" {
		return nil, true
	}
	var id message.Id
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, false
	}
	return &id, true
}

// decodeArray applies rule 4: every element decodes as either
// Request-or-Notification, or as Response; mixing the two kinds within one
// array is a protocol violation and is folded into Invalid Request, the
// same outcome as an empty batch.
func decodeArray(elems []json.RawMessage) (*message.Message, *message.ErrorData) {
	if len(elems) == 0 {
		return nil, message.InvalidRequest()
	}

	firstKind, ok := arrayElementKind(elems[0])
	if !ok {
		return nil, message.InvalidRequest()
	}

	if firstKind == elementKindRequest {
		batch := make([]message.BatchElement, 0, len(elems))
		for _, raw := range elems {
			kind, ok := arrayElementKind(raw)
			if !ok || kind != elementKindRequest {
				return nil, message.InvalidRequest()
			}
			var fields map[string]json.RawMessage
			if err := json.Unmarshal(raw, &fields); err != nil {
				return nil, message.InvalidRequest()
			}
			msg, ed := decodeRequestObject(fields, fields["method"], fields["id"], hasKey(fields, "id"))
			if ed != nil {
				return nil, ed
			}
			if msg.Kind == message.KindNotification {
				batch = append(batch, message.BatchElement{Notification: msg.Notification})
			} else {
				batch = append(batch, message.BatchElement{Request: msg.Request})
			}
		}
		return message.BatchRequestMessage(batch), nil
	}

	responses := make([]*message.Response, 0, len(elems))
	for _, raw := range elems {
		kind, ok := arrayElementKind(raw)
		if !ok || kind != elementKindResponse {
			return nil, message.InvalidRequest()
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, message.InvalidRequest()
		}
		_, hasResult := fields["result"]
		errRaw := fields["error"]
		msg, ed := decodeResponseObject(fields, fields["id"], hasResult, errRaw)
		if ed != nil {
			return nil, ed
		}
		responses = append(responses, msg.Response)
	}
	return message.BatchResponseMessage(responses), nil
}

type elementKind int

const (
	elementKindRequest elementKind = iota
	elementKindResponse
)

func arrayElementKind(raw json.RawMessage) (elementKind, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return 0, false
	}
	_, hasMethod := fields["method"]
	_, hasId := fields["id"]
	_, hasResult := fields["result"]
	_, hasError := fields["error"]
	if hasMethod {
		return elementKindRequest, true
	}
	if hasId && (hasResult || hasError) {
		return elementKindResponse, true
	}
	return 0, false
}

func hasKey(fields map[string]json.RawMessage, key string) bool {
	_, ok := fields[key]
	return ok
}

// classifyDecodeError maps a Go encoding/json error onto the three
// byte-level failure classes: unexpected end of input, an unexpected
// byte, or an unexpected escape/unicode sequence.
func classifyDecodeError(err error, text []byte) *message.ErrorData {
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return message.ParseError("Unexpected End of Input")
	}

	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		msg := syn.Error()
		if strings.Contains(msg, "unexpected end of JSON input") {
			return message.ParseError("Unexpected End of Input")
		}
		if strings.Contains(msg, "escape") || strings.Contains(msg, "UTF-8") || strings.Contains(msg, "surrogate") || strings.Contains(msg, "unicode") {
			return message.ParseError(fmt.Sprintf("Unexpected Sequence: %q", extractOffendingByte(text, syn.Offset)))
		}
		off := syn.Offset
		if off <= 0 || off > int64(len(text)) {
			return message.ParseError("Unexpected End of Input")
		}
		return message.ParseError(fmt.Sprintf("Unexpected Byte: %q", extractOffendingByte(text, off)))
	}

	return message.ParseError("Unexpected End of Input")
}

func extractOffendingByte(text []byte, offset int64) string {
	idx := offset - 1
	if idx < 0 || idx >= int64(len(text)) {
		return ""
	}
	return string(text[idx])
}

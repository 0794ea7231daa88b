package message

import "encoding/json"

// Reserved JSON-RPC 2.0 error codes (spec-exact, see ECMA-style reservation
// table). Application error codes may be any other signed 32-bit value.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// ErrorData is the JSON-RPC error object. On the wire it is always emitted
// in structured form; on decode a bare JSON string is tolerated (some
// non-conformant peers send one) and promoted into Message with an empty
// Code.
type ErrorData struct {
	Code    int32           `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// NewError builds an ErrorData with no data payload.
func NewError(code int32, msg string) *ErrorData {
	return &ErrorData{Code: code, Message: msg}
}

func NewErrorWithData(code int32, msg string, data any) *ErrorData {
	raw, err := json.Marshal(data)
	if err != nil {
		return &ErrorData{Code: code, Message: msg}
	}
	return &ErrorData{Code: code, Message: msg, Data: raw}
}

func (e *ErrorData) Error() string {
	return e.Message
}

// UnmarshalJSON accepts either the structured triple {code, message, data?}
// or a bare string some non-conformant peers send instead.
func (e *ErrorData) UnmarshalJSON(data []byte) error {
	var bare string
	if err := json.Unmarshal(data, &bare); err == nil {
		e.Message = bare
		return nil
	}
	type structured struct {
		Code    int32           `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data,omitempty"`
	}
	var s structured
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	e.Code, e.Message, e.Data = s.Code, s.Message, s.Data
	return nil
}

func MethodNotFound(method string) *ErrorData {
	return NewErrorWithData(CodeMethodNotFound, "Method not found", method)
}

func InvalidParams() *ErrorData {
	return NewError(CodeInvalidParams, "Invalid params")
}

func InternalError() *ErrorData {
	return NewError(CodeInternalError, "Internal error")
}

func InvalidRequest() *ErrorData {
	return NewError(CodeInvalidRequest, "Invalid Request")
}

func ParseError(data any) *ErrorData {
	return NewErrorWithData(CodeParseError, "Parse error", data)
}

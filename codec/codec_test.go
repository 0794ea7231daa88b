package codec

import (
	"encoding/json"
	"testing"

	"jrpc/message"
)

func decode(t *testing.T, text string) *message.Message {
	t.Helper()
	msg, ed := Default.Decode([]byte(text))
	if ed != nil {
		t.Fatalf("unexpected decode failure: %+v", ed)
	}
	return msg
}

func TestDecodeRequest(t *testing.T) {
	msg := decode(t, `{"jsonrpc":"2.0","id":1,"method":"ping"}`)
	if msg.Kind != message.KindRequest {
		t.Fatalf("expected KindRequest, got %v", msg.Kind)
	}
	if msg.Request.Method != "ping" {
		t.Fatalf("method: got %q", msg.Request.Method)
	}
	if msg.Request.Id.String() != "1" {
		t.Fatalf("id: got %q", msg.Request.Id.String())
	}
}

func TestDecodeNotification(t *testing.T) {
	msg := decode(t, `{"jsonrpc":"2.0","method":"heartbeat"}`)
	if msg.Kind != message.KindNotification {
		t.Fatalf("expected KindNotification, got %v", msg.Kind)
	}
	if msg.Notification.Method != "heartbeat" {
		t.Fatalf("method: got %q", msg.Notification.Method)
	}
}

func TestDecodeSuccessResponse(t *testing.T) {
	msg := decode(t, `{"jsonrpc":"2.0","id":"x","result":42}`)
	if msg.Kind != message.KindResponse || msg.Response.IsError() {
		t.Fatalf("expected success response, got %+v", msg)
	}
	if string(msg.Response.Result) != "42" {
		t.Fatalf("result: got %s", msg.Response.Result)
	}
}

func TestDecodeErrorResponse(t *testing.T) {
	msg := decode(t, `{"jsonrpc":"2.0","id":"x","error":{"code":-32601,"message":"Method not found","data":"unknown"}}`)
	if msg.Kind != message.KindResponse || !msg.Response.IsError() {
		t.Fatalf("expected error response, got %+v", msg)
	}
	if msg.Response.Err.Code != -32601 {
		t.Fatalf("code: got %d", msg.Response.Err.Code)
	}
}

func TestDecodeBareError(t *testing.T) {
	msg := decode(t, `{"jsonrpc":"2.0","error":{"code":-32700,"message":"Parse error"}}`)
	if msg.Kind != message.KindError {
		t.Fatalf("expected KindError, got %v", msg.Kind)
	}
}

func TestDecodeBatchOfRequests(t *testing.T) {
	msg := decode(t, `[{"jsonrpc":"2.0","id":1,"method":"a"},{"jsonrpc":"2.0","method":"b"},{"jsonrpc":"2.0","id":2,"method":"c"}]`)
	if msg.Kind != message.KindBatchRequest {
		t.Fatalf("expected KindBatchRequest, got %v", msg.Kind)
	}
	if len(msg.BatchRequest) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(msg.BatchRequest))
	}
	if !msg.BatchRequest[1].IsNotification() {
		t.Fatalf("expected element 1 to be a notification")
	}
}

func TestDecodeBatchOfResponses(t *testing.T) {
	msg := decode(t, `[{"id":2,"result":"B"},{"id":1,"error":{"code":7,"message":"x"}}]`)
	if msg.Kind != message.KindBatchResponse {
		t.Fatalf("expected KindBatchResponse, got %v", msg.Kind)
	}
	if len(msg.BatchResponse) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(msg.BatchResponse))
	}
}

func TestDecodeEmptyBatchIsInvalidRequest(t *testing.T) {
	_, ed := Default.Decode([]byte(`[]`))
	if ed == nil || ed.Code != message.CodeInvalidRequest {
		t.Fatalf("expected Invalid Request for empty batch, got %+v", ed)
	}
}

func TestDecodeMixedKindBatchIsInvalidRequest(t *testing.T) {
	_, ed := Default.Decode([]byte(`[{"method":"a"},{"id":1,"result":"x"}]`))
	if ed == nil || ed.Code != message.CodeInvalidRequest {
		t.Fatalf("expected Invalid Request for mixed batch, got %+v", ed)
	}
}

func TestDecodeStructuralMismatch(t *testing.T) {
	_, ed := Default.Decode([]byte(`{"nonsense":"data"}`))
	if ed == nil || ed.Code != message.CodeInvalidRequest || ed.Message != "Invalid Request" {
		t.Fatalf("expected Invalid Request, got %+v", ed)
	}
}

func TestDecodeTruncatedInput(t *testing.T) {
	_, ed := Default.Decode([]byte(`{"jsonrpc":"2.0","id":1,"method":`))
	if ed == nil || ed.Code != message.CodeParseError {
		t.Fatalf("expected Parse error, got %+v", ed)
	}
}

func TestEncodeRequestCarriesJsonrpcVersion(t *testing.T) {
	params, _ := json.Marshal(map[string]int{"a": 1})
	msg := message.RequestMessage(&message.Request{Id: message.NewIntId(1), Method: "ping", Params: params})
	data, err := Default.Encode(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal encoded: %v", err)
	}
	if string(fields["jsonrpc"]) != `"2.0"` {
		t.Fatalf("expected jsonrpc 2.0, got %s", fields["jsonrpc"])
	}
}

func TestEncodeErrorResponseWithAbsentIdEmitsNull(t *testing.T) {
	resp := message.Failure(nil, message.InvalidRequest())
	data, err := Default.Encode(message.ResponseMessage(resp))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal encoded: %v", err)
	}
	if string(fields["id"]) != "null" {
		t.Fatalf("expected id null, got %s", fields["id"])
	}
}

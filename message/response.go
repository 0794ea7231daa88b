package message

import "encoding/json"

// Response is either a Success or an Error reply to a Request. Id may be
// nil on an Error response when the server could not identify the
// request — it is still emitted on the wire, as JSON null.
type Response struct {
	Id     *Id
	Result json.RawMessage // set on success
	Err    *ErrorData      // set on failure; mutually exclusive with Result
}

func Success(id Id, result json.RawMessage) *Response {
	return &Response{Id: &id, Result: result}
}

func Failure(id *Id, err *ErrorData) *Response {
	return &Response{Id: id, Err: err}
}

func (r *Response) IsError() bool {
	return r.Err != nil
}

type wireResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Id      *Id             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ErrorData      `json:"error,omitempty"`
}

func (r *Response) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireResponse{JSONRPC: "2.0", Id: r.Id, Result: r.Result, Error: r.Err})
}

func (r *Response) UnmarshalJSON(data []byte) error {
	var w wireResponse
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.Id, r.Result, r.Err = w.Id, w.Result, w.Error
	return nil
}

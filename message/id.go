// Package message defines the JSON-RPC 2.0 data model exchanged between
// peers: ids, error objects, requests, notifications, responses, and the
// envelope that discriminates between the five wire shapes the codec
// accepts.
package message

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Id is a JSON-RPC request id: either a signed integer or a string.
// It is comparable so it can be used as a map key directly.
type Id struct {
	str   string
	num   int64
	isStr bool
}

// NewIntId builds an integer-valued Id.
func NewIntId(n int64) Id {
	return Id{num: n}
}

// NewStringId builds a string-valued Id.
func NewStringId(s string) Id {
	return Id{str: s, isStr: true}
}

// IsString reports whether the id was carried as a JSON string.
func (id Id) IsString() bool {
	return id.isStr
}

// String renders the id's text for logging. It carries no type tag, so
// an integer id and a string id with the same text render alike; see
// CanonicalKey for a form that keeps them apart.
func (id Id) String() string {
	if id.isStr {
		return id.str
	}
	return strconv.FormatInt(id.num, 10)
}

// CanonicalKey renders a type-tagged form of the id suitable for building
// an id-set's canonical sorted key: an integer id and the string id with
// the same text must never collide.
func (id Id) CanonicalKey() string {
	if id.isStr {
		return "s:" + id.str
	}
	return "i:" + strconv.FormatInt(id.num, 10)
}

func (id Id) MarshalJSON() ([]byte, error) {
	if id.isStr {
		return json.Marshal(id.str)
	}
	return json.Marshal(id.num)
}

func (id *Id) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return fmt.Errorf("message: id must be a JSON number or string, got null")
	}
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*id = Id{num: n}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = Id{str: s, isStr: true}
		return nil
	}
	return fmt.Errorf("message: id must be a JSON number or string, got %s", data)
}

// Package codec implements the JSON-RPC 2.0 wire format: decoding a text
// frame into a typed message.Message, and encoding a message.Message back
// to its canonical wire bytes. A decode failure never returns a bare Go
// error to the caller — it returns a ready-to-send message.ErrorData, so
// the engine can always produce a protocol-compliant reply.
package codec

import "jrpc/message"

// Codec is the pluggable encode/decode surface, kept as an interface so a
// host can substitute an alternative wire encoding without touching the
// engine. JSONCodec is the only implementation this module ships — binary
// frames are rejected outright, so there is no BinaryCodec counterpart.
type Codec interface {
	// Decode parses a text frame. On success it returns the typed message
	// and a nil *message.ErrorData. On failure it returns a nil message and
	// a structured error ready to be wrapped in message.ErrorMessage and
	// sent back to the peer.
	Decode(text []byte) (*message.Message, *message.ErrorData)
	// Encode serializes msg to its canonical wire bytes.
	Encode(msg *message.Message) ([]byte, error)
}

// Default is the JSON-RPC 2.0 codec used by the engine unless a host
// substitutes its own Codec.
var Default Codec = &JSONCodec{}

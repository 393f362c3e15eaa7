// Package api defines the request and response messages of the SmartFinance
// RPC services. Messages are plain Go structs carried as JSON over the
// Connect protocol.
package api

import (
	"encoding/json"
	"fmt"
)

// CodecName is the Connect codec name. Clients send
// "Content-Type: application/json" for unary calls.
const CodecName = "json"

// Codec marshals messages with encoding/json. It replaces Connect's default
// protojson codec, which only accepts generated protobuf messages.
type Codec struct{}

func (Codec) Name() string { return CodecName }

func (Codec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", msg, err)
	}
	return data, nil
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", msg, err)
	}
	return nil
}

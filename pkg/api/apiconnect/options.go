// Package apiconnect wires the api messages to Connect handlers and clients.
package apiconnect

import (
	"connectrpc.com/connect"

	"github.com/mmynk/smartfinance/pkg/api"
)

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
}

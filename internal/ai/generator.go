// Package ai is the gateway to the generative-language service. Every
// operation has a deterministic offline answer used when no credential is
// configured or the remote call fails, so callers never see an error.
package ai

import (
	"context"
	"errors"
)

// ErrNoOutput is returned by a Generator that produced no text.
var ErrNoOutput = errors.New("model returned no output")

// SchemaType is a JSON schema node type.
type SchemaType string

const (
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
	TypeArray   SchemaType = "array"
	TypeObject  SchemaType = "object"
)

// Schema describes the JSON shape a Request asks the model to produce.
type Schema struct {
	Type        SchemaType
	Description string
	Enum        []string
	Items       *Schema
	Properties  map[string]*Schema
	Required    []string
}

// InlineData is binary input such as a receipt photo.
type InlineData struct {
	MimeType string
	Data     []byte
}

// Request is one text generation call.
type Request struct {
	SystemPrompt string
	Prompt       string

	// Schema, when set, asks for a JSON response of that shape.
	Schema *Schema

	Image *InlineData
}

// Generator produces text for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

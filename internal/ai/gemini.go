package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	generativelanguage "cloud.google.com/go/ai/generativelanguage/apiv1beta"
	"cloud.google.com/go/ai/generativelanguage/apiv1beta/generativelanguagepb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
)

// DefaultModel is the text model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// GeminiGenerator calls the Gemini GenerateContent API.
type GeminiGenerator struct {
	client      *generativelanguage.GenerativeClient
	model       string
	temperature float32
	maxRetries  int
	backoff     time.Duration
}

// GeminiOption customizes a GeminiGenerator.
type GeminiOption func(*GeminiGenerator)

// WithModel selects the model name, with or without the "models/" prefix.
func WithModel(model string) GeminiOption {
	return func(g *GeminiGenerator) {
		if model != "" {
			g.model = model
		}
	}
}

// WithRetries sets the number of attempts for retryable failures and the
// initial backoff, which doubles on every attempt.
func WithRetries(attempts int, backoff time.Duration) GeminiOption {
	return func(g *GeminiGenerator) {
		g.maxRetries = attempts
		g.backoff = backoff
	}
}

// NewGeminiGenerator creates a client authenticated with apiKey.
func NewGeminiGenerator(ctx context.Context, apiKey string, opts ...GeminiOption) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	client, err := generativelanguage.NewGenerativeClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	g := &GeminiGenerator{
		client:      client,
		model:       DefaultModel,
		temperature: 0.4,
		maxRetries:  4,
		backoff:     time.Second,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Close releases the underlying connection.
func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

func (g *GeminiGenerator) modelName() string {
	if strings.HasPrefix(g.model, "models/") {
		return g.model
	}
	return "models/" + g.model
}

// Generate implements Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	parts := []*generativelanguagepb.Part{
		{Data: &generativelanguagepb.Part_Text{Text: req.Prompt}},
	}
	if req.Image != nil {
		parts = append(parts, &generativelanguagepb.Part{
			Data: &generativelanguagepb.Part_InlineData{
				InlineData: &generativelanguagepb.Blob{
					MimeType: req.Image.MimeType,
					Data:     req.Image.Data,
				},
			},
		})
	}

	config := &generativelanguagepb.GenerationConfig{
		Temperature:    proto.Float32(g.temperature),
		CandidateCount: proto.Int32(1),
	}
	if req.Schema != nil {
		config.ResponseMimeType = "application/json"
		config.ResponseSchema = req.Schema.toGemini()
	}

	pbReq := &generativelanguagepb.GenerateContentRequest{
		Model:            g.modelName(),
		Contents:         []*generativelanguagepb.Content{{Role: "user", Parts: parts}},
		GenerationConfig: config,
	}
	if req.SystemPrompt != "" {
		pbReq.SystemInstruction = &generativelanguagepb.Content{
			Parts: []*generativelanguagepb.Part{
				{Data: &generativelanguagepb.Part_Text{Text: req.SystemPrompt}},
			},
		}
	}

	return doWithRetry(ctx, g.maxRetries, g.backoff, func() (string, error) {
		slog.DebugContext(ctx, "generating", "model", g.model)

		resp, err := g.client.GenerateContent(ctx, pbReq)
		if err != nil {
			return "", err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return "", ErrNoOutput
		}

		var sb strings.Builder
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Thought {
				continue
			}
			sb.WriteString(part.GetText())
		}
		if sb.Len() == 0 {
			return "", ErrNoOutput
		}
		return sb.String(), nil
	})
}

func (s *Schema) toGemini() *generativelanguagepb.Schema {
	if s == nil {
		return nil
	}
	out := &generativelanguagepb.Schema{
		Type:        schemaTypes[s.Type],
		Description: s.Description,
		Enum:        s.Enum,
		Items:       s.Items.toGemini(),
		Required:    s.Required,
	}
	if len(s.Enum) > 0 {
		out.Format = "enum"
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*generativelanguagepb.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = prop.toGemini()
		}
	}
	return out
}

var schemaTypes = map[SchemaType]generativelanguagepb.Type{
	TypeString:  generativelanguagepb.Type_STRING,
	TypeNumber:  generativelanguagepb.Type_NUMBER,
	TypeInteger: generativelanguagepb.Type_INTEGER,
	TypeBoolean: generativelanguagepb.Type_BOOLEAN,
	TypeArray:   generativelanguagepb.Type_ARRAY,
	TypeObject:  generativelanguagepb.Type_OBJECT,
}

func doWithRetry[T any](ctx context.Context, maxRetries int, backoff time.Duration, fn func() (T, error)) (ret T, err error) {
	if maxRetries < 1 {
		maxRetries = 1
	}
	for i := range maxRetries {
		ret, err = fn()
		if err == nil || !isRetryable(err) || i == maxRetries-1 {
			return ret, err
		}
		slog.WarnContext(ctx, "retry", "attempt", i+1, "error", err)
		select {
		case <-ctx.Done():
			return ret, ctx.Err()
		case <-time.After(backoff * time.Duration(1<<i)):
		}
	}
	return ret, err
}

func isRetryable(err error) bool {
	if errors.Is(err, ErrNoOutput) {
		return true
	}
	s, ok := status.FromError(err)
	return ok && (s.Code() == codes.ResourceExhausted || s.Code() == codes.Unavailable)
}

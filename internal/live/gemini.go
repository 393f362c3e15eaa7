package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/net/websocket"
)

const (
	// DefaultLiveModel is the native audio model used for voice sessions.
	DefaultLiveModel = "gemini-2.5-flash-native-audio-preview-09-2025"
	DefaultVoice     = "Zephyr"

	geminiLiveEndpoint = "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"
)

// GeminiTransport connects to the Gemini Live BidiGenerateContent endpoint.
type GeminiTransport struct {
	APIKey       string
	Model        string
	Voice        string
	SystemPrompt string

	// Endpoint overrides the service URL, mainly for tests.
	Endpoint string
	Origin   string
}

// NewGeminiTransport returns a transport for apiKey with default settings.
func NewGeminiTransport(apiKey string) *GeminiTransport {
	return &GeminiTransport{APIKey: apiKey, Model: DefaultLiveModel, Voice: DefaultVoice}
}

type liveSetup struct {
	Setup struct {
		Model            string `json:"model"`
		GenerationConfig struct {
			ResponseModalities []string `json:"responseModalities"`
			SpeechConfig       struct {
				VoiceConfig struct {
					PrebuiltVoiceConfig struct {
						VoiceName string `json:"voiceName"`
					} `json:"prebuiltVoiceConfig"`
				} `json:"voiceConfig"`
			} `json:"speechConfig"`
		} `json:"generationConfig"`
		SystemInstruction *liveContent `json:"systemInstruction,omitempty"`

		InputAudioTranscription  struct{} `json:"inputAudioTranscription"`
		OutputAudioTranscription struct{} `json:"outputAudioTranscription"`
	} `json:"setup"`
}

type liveContent struct {
	Parts []livePart `json:"parts"`
}

type livePart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *liveInline `json:"inlineData,omitempty"`
}

type liveInline struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type liveRealtimeInput struct {
	RealtimeInput struct {
		MediaChunks []liveInline `json:"mediaChunks"`
	} `json:"realtimeInput"`
}

type liveServerMessage struct {
	SetupComplete *struct{}          `json:"setupComplete,omitempty"`
	ServerContent *liveServerContent `json:"serverContent,omitempty"`
	GoAway        *struct{}          `json:"goAway,omitempty"`
}

type liveServerContent struct {
	ModelTurn           *liveContent `json:"modelTurn,omitempty"`
	TurnComplete        bool         `json:"turnComplete,omitempty"`
	Interrupted         bool         `json:"interrupted,omitempty"`
	InputTranscription  *liveText    `json:"inputTranscription,omitempty"`
	OutputTranscription *liveText    `json:"outputTranscription,omitempty"`
}

type liveText struct {
	Text string `json:"text"`
}

func (t *GeminiTransport) url() (string, error) {
	endpoint := t.Endpoint
	if endpoint == "" {
		endpoint = geminiLiveEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid live endpoint: %w", err)
	}
	q := u.Query()
	q.Set("key", t.APIKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Connect dials the endpoint, sends the session setup and waits for the
// server to acknowledge it.
func (t *GeminiTransport) Connect(ctx context.Context) (Conn, error) {
	if t.APIKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	u, err := t.url()
	if err != nil {
		return nil, err
	}
	origin := t.Origin
	if origin == "" {
		origin = "http://localhost/"
	}
	config, err := websocket.NewConfig(u, origin)
	if err != nil {
		return nil, fmt.Errorf("invalid live endpoint: %w", err)
	}
	ws, err := config.DialContext(ctx)
	if err != nil {
		return nil, err
	}

	var setup liveSetup
	model := t.Model
	if model == "" {
		model = DefaultLiveModel
	}
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}
	setup.Setup.Model = model
	setup.Setup.GenerationConfig.ResponseModalities = []string{"AUDIO"}
	voice := t.Voice
	if voice == "" {
		voice = DefaultVoice
	}
	setup.Setup.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName = voice
	if t.SystemPrompt != "" {
		setup.Setup.SystemInstruction = &liveContent{Parts: []livePart{{Text: t.SystemPrompt}}}
	}

	if err := websocket.JSON.Send(ws, setup); err != nil {
		ws.Close()
		return nil, fmt.Errorf("failed to send setup: %w", err)
	}

	// The first server message acknowledges the setup.
	ack := make(chan error, 1)
	go func() {
		var msg liveServerMessage
		if err := websocket.JSON.Receive(ws, &msg); err != nil {
			ack <- err
			return
		}
		if msg.SetupComplete == nil {
			ack <- errors.New("unexpected message before setup completed")
			return
		}
		ack <- nil
	}()
	select {
	case err := <-ack:
		if err != nil {
			ws.Close()
			return nil, fmt.Errorf("live setup failed: %w", err)
		}
	case <-ctx.Done():
		ws.Close()
		return nil, ctx.Err()
	}

	c := &geminiConn{ws: ws, events: make(chan ServerEvent, 64), done: make(chan struct{})}
	go c.readLoop()
	return c, nil
}

type geminiConn struct {
	ws     *websocket.Conn
	events chan ServerEvent

	closeOnce sync.Once
	done      chan struct{}
}

func (c *geminiConn) Send(ctx context.Context, f Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var msg liveRealtimeInput
	msg.RealtimeInput.MediaChunks = []liveInline{{MimeType: f.MimeType, Data: f.Data}}
	return websocket.JSON.Send(c.ws, msg)
}

func (c *geminiConn) Events() <-chan ServerEvent {
	return c.events
}

func (c *geminiConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.ws.Close()
	})
	return err
}

func (c *geminiConn) emit(ev ServerEvent) bool {
	select {
	case c.events <- ev:
		return true
	case <-c.done:
		return false
	}
}

func (c *geminiConn) readLoop() {
	defer close(c.events)

	for {
		var msg liveServerMessage
		if err := websocket.JSON.Receive(c.ws, &msg); err != nil {
			select {
			case <-c.done:
			default:
				c.emit(TransportError{Err: err})
			}
			return
		}
		for _, ev := range translate(msg) {
			if !c.emit(ev) {
				return
			}
		}
		if msg.GoAway != nil {
			slog.Info("Live endpoint is closing the session")
		}
	}
}

// translate converts one server message into events in arrival order:
// transcription first, then audio, then interruption and turn end.
func translate(msg liveServerMessage) []ServerEvent {
	sc := msg.ServerContent
	if sc == nil {
		return nil
	}

	var events []ServerEvent
	if sc.InputTranscription != nil && sc.InputTranscription.Text != "" {
		events = append(events, TranscriptFragment{Role: RoleUser, Text: sc.InputTranscription.Text})
	}
	if sc.OutputTranscription != nil && sc.OutputTranscription.Text != "" {
		events = append(events, TranscriptFragment{Role: RoleModel, Text: sc.OutputTranscription.Text})
	}
	if sc.ModelTurn != nil {
		for _, part := range sc.ModelTurn.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			events = append(events, AudioChunk{
				Data:       part.InlineData.Data,
				SampleRate: sampleRate(part.InlineData.MimeType, OutputSampleRate),
			})
		}
	}
	if sc.Interrupted {
		events = append(events, Interrupted{})
	}
	if sc.TurnComplete {
		events = append(events, TurnComplete{})
	}
	return events
}

// sampleRate reads the rate parameter of a mime type like
// "audio/pcm;rate=24000".
func sampleRate(mimeType string, fallback int) int {
	for _, param := range strings.Split(mimeType, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(param), "=")
		if ok && k == "rate" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				return n
			}
		}
	}
	return fallback
}

package live

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/websocket"
)

func TestTranslate(t *testing.T) {
	msg := liveServerMessage{ServerContent: &liveServerContent{
		ModelTurn: &liveContent{Parts: []livePart{
			{InlineData: &liveInline{MimeType: "audio/pcm;rate=22050", Data: "AAAA"}},
			{Text: "ignored"},
		}},
		TurnComplete:        true,
		InputTranscription:  &liveText{Text: "hi"},
		OutputTranscription: &liveText{Text: "hello"},
	}}

	events := translate(msg)
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d: %#v", len(events), events)
	}
	if e, ok := events[0].(TranscriptFragment); !ok || e.Role != RoleUser || e.Text != "hi" {
		t.Errorf("event 0 = %#v", events[0])
	}
	if e, ok := events[1].(TranscriptFragment); !ok || e.Role != RoleModel {
		t.Errorf("event 1 = %#v", events[1])
	}
	if e, ok := events[2].(AudioChunk); !ok || e.SampleRate != 22050 {
		t.Errorf("event 2 = %#v", events[2])
	}
	if _, ok := events[3].(TurnComplete); !ok {
		t.Errorf("event 3 = %#v", events[3])
	}

	if events := translate(liveServerMessage{}); len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}

func TestSampleRate(t *testing.T) {
	tests := map[string]int{
		"audio/pcm;rate=16000":   16000,
		"audio/pcm; rate=24000":  24000,
		"audio/pcm":              OutputSampleRate,
		"audio/pcm;rate=nothing": OutputSampleRate,
	}
	for mime, want := range tests {
		if got := sampleRate(mime, OutputSampleRate); got != want {
			t.Errorf("sampleRate(%q) = %d, want %d", mime, got, want)
		}
	}
}

// fakeLiveServer speaks just enough of the BidiGenerateContent protocol.
func fakeLiveServer(t *testing.T, setups chan<- map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(websocket.Handler(func(ws *websocket.Conn) {
		var setup map[string]any
		if err := websocket.JSON.Receive(ws, &setup); err != nil {
			return
		}
		setups <- setup
		websocket.JSON.Send(ws, map[string]any{"setupComplete": map[string]any{}})

		var input map[string]any
		if err := websocket.JSON.Receive(ws, &input); err != nil {
			return
		}
		websocket.JSON.Send(ws, map[string]any{
			"serverContent": map[string]any{
				"outputTranscription": map[string]any{"text": "Sure."},
				"modelTurn": map[string]any{"parts": []any{
					map[string]any{"inlineData": map[string]any{"mimeType": "audio/pcm;rate=24000", "data": "AAAA"}},
				}},
			},
		})
		// Keep the socket open until the client leaves.
		var drain map[string]any
		websocket.JSON.Receive(ws, &drain)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGeminiTransport(t *testing.T) {
	setups := make(chan map[string]any, 1)
	srv := fakeLiveServer(t, setups)

	transport := NewGeminiTransport("test-key")
	transport.Endpoint = "ws" + strings.TrimPrefix(srv.URL, "http")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := transport.Connect(ctx)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer conn.Close()

	setup := (<-setups)["setup"].(map[string]any)
	if setup["model"] != "models/"+DefaultLiveModel {
		t.Errorf("model = %v", setup["model"])
	}

	if err := conn.Send(ctx, EncodeFrame(make([]float32, 8))); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	var got []ServerEvent
	for len(got) < 2 {
		select {
		case ev := <-conn.Events():
			got = append(got, ev)
		case <-ctx.Done():
			t.Fatal("timed out waiting for events")
		}
	}
	if e, ok := got[0].(TranscriptFragment); !ok || e.Text != "Sure." {
		t.Errorf("event 0 = %#v", got[0])
	}
	if e, ok := got[1].(AudioChunk); !ok || e.Data != "AAAA" {
		t.Errorf("event 1 = %#v", got[1])
	}
}

func TestGeminiTransportRequiresKey(t *testing.T) {
	if _, err := (&GeminiTransport{}).Connect(context.Background()); err == nil {
		t.Error("expected error without api key")
	}
}

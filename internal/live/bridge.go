package live

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"
)

// Bridge serves live sessions over a WebSocket. The connected client plays
// both the microphone, sending captured samples, and the speaker, playing
// the audio it is told to play at the given session time.
//
// Client to server:
//
//	{"type":"audio","samples":[...]}  mono float samples at 16 kHz
//	{"type":"stop"}
//
// Server to client:
//
//	{"type":"state","state":"listening","reason":""}
//	{"type":"audio","id":1,"start":0.5,"sampleRate":24000,"data":"<base64 PCM16>"}
//	{"type":"cancel","id":1}
//	{"type":"transcript","lines":[{"role":"user","text":"..."}]}
type Bridge struct {
	transport func() Transport
	opts      Options
}

// NewBridge returns a bridge dialing the transport returned by transport,
// which may return nil when no endpoint is configured.
func NewBridge(transport func() Transport, opts Options) *Bridge {
	return &Bridge{transport: transport, opts: opts}
}

// Handler returns the WebSocket handler.
func (b *Bridge) Handler() http.Handler {
	return websocket.Handler(b.serve)
}

type clientMessage struct {
	Type    string    `json:"type"`
	Samples []float32 `json:"samples,omitempty"`
}

type serverMessage struct {
	Type       string           `json:"type"`
	State      State            `json:"state,omitempty"`
	Reason     ErrorReason      `json:"reason,omitempty"`
	ID         uint64           `json:"id,omitempty"`
	Start      float64          `json:"start,omitempty"`
	SampleRate int              `json:"sampleRate,omitempty"`
	Data       string           `json:"data,omitempty"`
	Lines      []TranscriptLine `json:"lines,omitempty"`
}

func (b *Bridge) serve(ws *websocket.Conn) {
	defer ws.Close()

	id := uuid.NewString()
	log := slog.With("session_id", id)
	send := func(msg serverMessage) {
		if err := websocket.JSON.Send(ws, msg); err != nil {
			log.Debug("Failed to write to live client", "error", err)
		}
	}

	var t Transport
	if b.transport != nil {
		t = b.transport()
	}
	if t == nil {
		send(serverMessage{Type: "state", State: StateError, Reason: ReasonTransport})
		return
	}

	mic := newSocketMicrophone()
	speaker := newClockSpeaker(send)

	opts := b.opts
	opts.OnState = func(st State, reason ErrorReason) {
		send(serverMessage{Type: "state", State: st, Reason: reason})
	}
	opts.OnTranscript = func(lines []TranscriptLine) {
		send(serverMessage{Type: "transcript", Lines: lines})
	}
	session := NewSession(mic, t, speaker, opts)
	speaker.ended = session.PlaybackEnded
	defer func() {
		session.Stop()
		session.Flush()
	}()

	// Read client messages in the background so Start can proceed.
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		defer mic.end()
		for {
			var msg clientMessage
			if err := websocket.JSON.Receive(ws, &msg); err != nil {
				return
			}
			switch msg.Type {
			case "audio":
				mic.deliver(msg.Samples)
			case "stop":
				return
			}
		}
	}()

	log.Info("Live client connected")
	ctx, cancel := context.WithCancel(ws.Request().Context())
	defer cancel()
	if err := session.Start(ctx); err != nil && !errors.Is(err, ErrSessionClosed) {
		log.Warn("Live session did not start", "error", err)
	}

	<-stopped
	log.Info("Live client disconnected")
}

// socketMicrophone feeds samples received from the client into a Capture.
type socketMicrophone struct {
	samples chan []float32
	done    chan struct{}
	once    sync.Once
}

func newSocketMicrophone() *socketMicrophone {
	return &socketMicrophone{samples: make(chan []float32, 16), done: make(chan struct{})}
}

func (m *socketMicrophone) Open(ctx context.Context) (Capture, error) {
	return m, nil
}

func (m *socketMicrophone) Samples() <-chan []float32 {
	return m.samples
}

func (m *socketMicrophone) deliver(samples []float32) {
	select {
	case m.samples <- samples:
	case <-m.done:
	}
}

// end is called by the reader when the client goes away.
func (m *socketMicrophone) end() {
	m.Close()
}

func (m *socketMicrophone) Close() error {
	m.once.Do(func() { close(m.done) })
	return nil
}

// clockSpeaker tells the client what to play and when, on a clock that
// starts with the session. It tracks the natural end of every buffer itself.
type clockSpeaker struct {
	send  func(serverMessage)
	start time.Time
	ended func(PlaybackHandle)

	mu     sync.Mutex
	nextID uint64
	closed bool
}

func newClockSpeaker(send func(serverMessage)) *clockSpeaker {
	return &clockSpeaker{send: send, start: time.Now()}
}

func (s *clockSpeaker) Now() float64 {
	return time.Since(s.start).Seconds()
}

func (s *clockSpeaker) Schedule(buf AudioBuffer, at float64) PlaybackHandle {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.nextID++
	h := &clockHandle{speaker: s, id: s.nextID}
	s.mu.Unlock()

	s.send(serverMessage{
		Type:       "audio",
		ID:         h.id,
		Start:      at,
		SampleRate: buf.SampleRate,
		Data:       base64.StdEncoding.EncodeToString(EncodePCM16(buf.Samples)),
	})

	endsIn := time.Duration((at + buf.Duration() - s.Now()) * float64(time.Second))
	h.timer = time.AfterFunc(max(endsIn, 0), func() {
		if s.ended != nil {
			s.ended(h)
		}
	})
	return h
}

func (s *clockSpeaker) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

type clockHandle struct {
	speaker *clockSpeaker
	id      uint64
	timer   *time.Timer
}

func (h *clockHandle) Stop() {
	if h.timer != nil {
		h.timer.Stop()
	}
	h.speaker.send(serverMessage{Type: "cancel", ID: h.id})
}

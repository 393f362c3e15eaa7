package live

import (
	"context"
	"encoding/base64"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type scheduledBuffer struct {
	handle *fakeHandle
	buf    AudioBuffer
	at     float64
}

type fakeHandle struct {
	stopped atomic.Bool
}

func (h *fakeHandle) Stop() { h.stopped.Store(true) }

type fakeSpeaker struct {
	mu        sync.Mutex
	now       float64
	scheduled chan scheduledBuffer
	closed    atomic.Bool
	refuse    atomic.Bool
}

func newFakeSpeaker() *fakeSpeaker {
	return &fakeSpeaker{scheduled: make(chan scheduledBuffer, 16)}
}

func (s *fakeSpeaker) Now() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *fakeSpeaker) setNow(v float64) {
	s.mu.Lock()
	s.now = v
	s.mu.Unlock()
}

func (s *fakeSpeaker) Schedule(buf AudioBuffer, at float64) PlaybackHandle {
	if s.refuse.Load() {
		return nil
	}
	h := &fakeHandle{}
	s.scheduled <- scheduledBuffer{handle: h, buf: buf, at: at}
	return h
}

func (s *fakeSpeaker) Close() error {
	s.closed.Store(true)
	return nil
}

type fakeCapture struct {
	samples chan []float32
	closed  atomic.Bool
}

func (c *fakeCapture) Samples() <-chan []float32 { return c.samples }

func (c *fakeCapture) Close() error {
	c.closed.Store(true)
	return nil
}

type fakeMicrophone struct {
	err     error
	capture *fakeCapture
}

func newFakeMicrophone() *fakeMicrophone {
	return &fakeMicrophone{capture: &fakeCapture{samples: make(chan []float32, 16)}}
}

func (m *fakeMicrophone) Open(ctx context.Context) (Capture, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.capture, nil
}

type fakeConn struct {
	events chan ServerEvent
	sent   chan Frame
	closed atomic.Bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{events: make(chan ServerEvent, 16), sent: make(chan Frame, 64)}
}

func (c *fakeConn) Send(ctx context.Context, f Frame) error {
	c.sent <- f
	return nil
}

func (c *fakeConn) Events() <-chan ServerEvent { return c.events }

func (c *fakeConn) Close() error {
	c.closed.Store(true)
	return nil
}

type fakeTransport struct {
	conn *fakeConn
	err  error

	// block makes Connect wait for its context.
	block   bool
	entered chan struct{}
}

func (t *fakeTransport) Connect(ctx context.Context) (Conn, error) {
	if t.entered != nil {
		close(t.entered)
	}
	if t.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if t.err != nil {
		return nil, t.err
	}
	return t.conn, nil
}

// chunk builds an audio chunk of the given length at 24 kHz.
func chunk(seconds float64) AudioChunk {
	samples := make([]float32, int(seconds*OutputSampleRate))
	return AudioChunk{
		Data:       base64.StdEncoding.EncodeToString(EncodePCM16(samples)),
		SampleRate: OutputSampleRate,
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func nextScheduled(t *testing.T, s *fakeSpeaker) scheduledBuffer {
	t.Helper()
	select {
	case sb := <-s.scheduled:
		return sb
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for scheduled audio")
	}
	return scheduledBuffer{}
}

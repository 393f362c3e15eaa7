package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/smartfinance/internal/metrics"
)

// State is the lifecycle state of a Session.
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateListening  State = "listening"
	StateSpeaking   State = "speaking"
	StateError      State = "error"
	StateClosed     State = "closed"
)

// ErrorReason classifies why a session entered StateError.
type ErrorReason string

const (
	ReasonNone              ErrorReason = ""
	ReasonPermissionDenied  ErrorReason = "permission-denied"
	ReasonDeviceUnavailable ErrorReason = "device-unavailable"
	ReasonTimeout           ErrorReason = "timeout"
	ReasonTransport         ErrorReason = "transport"
)

var (
	// ErrMicrophonePermission is returned by a Microphone when access is refused.
	ErrMicrophonePermission = errors.New("microphone permission denied")

	// ErrMicrophoneUnavailable is returned by a Microphone with no usable device.
	ErrMicrophoneUnavailable = errors.New("microphone unavailable")

	// ErrSessionClosed is returned by Start after Stop.
	ErrSessionClosed = errors.New("live session closed")

	// ErrSessionActive is returned by Start on a running session.
	ErrSessionActive = errors.New("live session already started")
)

// Microphone opens an audio capture.
type Microphone interface {
	Open(ctx context.Context) (Capture, error)
}

// Capture delivers mono float samples at InputSampleRate in chunks of any
// size. The channel is closed when the device goes away.
type Capture interface {
	Samples() <-chan []float32
	Close() error
}

// Transport opens a channel to the streaming model endpoint.
type Transport interface {
	Connect(ctx context.Context) (Conn, error)
}

// Conn is an open streaming channel. Events is closed when the channel ends.
type Conn interface {
	Send(ctx context.Context, f Frame) error
	Events() <-chan ServerEvent
	Close() error
}

// Speaker plays audio on its own clock, in seconds.
type Speaker interface {
	Now() float64

	// Schedule starts buf at the given clock time. The returned handle must
	// be comparable; the owner reports its natural end through
	// Session.PlaybackEnded.
	Schedule(buf AudioBuffer, at float64) PlaybackHandle

	Close() error
}

// PlaybackHandle is one scheduled buffer.
type PlaybackHandle interface {
	Stop()
}

// Options tunes a Session.
type Options struct {
	// QueueSize bounds the outbound frame queue. When it is full the oldest
	// frame is dropped.
	QueueSize int

	ConnectTimeout time.Duration

	// OnState and OnTranscript run one at a time, in order, on a goroutine
	// owned by the session. They may call Stop.
	OnState      func(State, ErrorReason)
	OnTranscript func([]TranscriptLine)
}

const (
	DefaultQueueSize      = 32
	DefaultConnectTimeout = 15 * time.Second
)

// Session is one voice conversation.
//
// Idle -> Connecting -> Listening <-> Speaking. Any failure moves to Error,
// releasing the microphone and the channel and stopping playback. The
// speaker stays open in Error because Start may be called again from there;
// Stop moves to Closed from any state and is what closes the speaker.
type Session struct {
	mic       Microphone
	transport Transport
	speaker   Speaker
	opts      Options

	mu            sync.Mutex
	state         State
	reason        ErrorReason
	err           error
	sched         *Scheduler
	transcript    Transcript
	capture       Capture
	conn          Conn
	queue         *frameQueue
	cancel        context.CancelFunc
	cancelConnect context.CancelFunc
	active        bool
	dropped       int

	wg    sync.WaitGroup
	notes *notifier
}

// NewSession wires a session. Nothing is opened until Start.
func NewSession(mic Microphone, transport Transport, speaker Speaker, opts Options) *Session {
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}
	return &Session{
		mic:       mic,
		transport: transport,
		speaker:   speaker,
		opts:      opts,
		state:     StateIdle,
		sched:     NewScheduler(speaker),
		notes:     newNotifier(),
	}
}

// State returns the current state and, in StateError, the reason.
func (s *Session) State() (State, ErrorReason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.reason
}

// Err returns the error that moved the session to StateError.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Transcript returns the conversation so far.
func (s *Session) Transcript() []TranscriptLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript.Lines()
}

// Dropped returns the number of captured frames dropped for backpressure.
func (s *Session) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Start opens the microphone and the channel. It returns once the session is
// listening, or with the error that moved it to StateError.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case StateClosed:
		s.mu.Unlock()
		return ErrSessionClosed
	case StateIdle, StateError:
	default:
		s.mu.Unlock()
		return ErrSessionActive
	}
	connectCtx, cancelConnect := context.WithTimeout(ctx, s.opts.ConnectTimeout)
	s.cancelConnect = cancelConnect
	s.state, s.reason, s.err = StateConnecting, ReasonNone, nil
	s.wg.Add(1)
	s.mu.Unlock()

	defer s.wg.Done()
	defer cancelConnect()
	s.notifyState(StateConnecting, ReasonNone)

	capture, err := s.mic.Open(connectCtx)
	if err != nil {
		return s.fail(microphoneReason(err), fmt.Errorf("failed to open microphone: %w", err))
	}

	conn, err := s.transport.Connect(connectCtx)
	if err != nil {
		capture.Close()
		return s.fail(connectReason(connectCtx, err), fmt.Errorf("failed to connect: %w", err))
	}

	s.mu.Lock()
	if s.state != StateConnecting {
		// Stopped while connecting.
		s.mu.Unlock()
		capture.Close()
		conn.Close()
		return ErrSessionClosed
	}
	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.capture = capture
	s.conn = conn
	s.queue = newFrameQueue(s.opts.QueueSize)
	s.state = StateListening
	s.active = true
	metrics.LiveSessionsActive.Inc()

	s.wg.Add(3)
	go s.captureLoop(runCtx, capture, s.queue)
	go s.sendLoop(runCtx, conn, s.queue)
	go s.eventLoop(runCtx, conn)
	s.mu.Unlock()

	slog.Info("Live session started")
	s.notifyState(StateListening, ReasonNone)
	return nil
}

// Stop ends the session and releases every resource. It is safe to call in
// any state, more than once, and concurrently with Start.
func (s *Session) Stop() error {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return nil
	}
	s.state, s.reason = StateClosed, ReasonNone
	if s.cancelConnect != nil {
		s.cancelConnect()
	}
	err := s.teardownLocked()
	s.mu.Unlock()

	s.wg.Wait()
	if cerr := s.speaker.Close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("failed to close speaker: %w", cerr))
	}

	slog.Info("Live session stopped")
	s.notifyState(StateClosed, ReasonNone)
	return err
}

// Flush blocks until every OnState and OnTranscript call posted so far has
// returned. It must not be called from those callbacks.
func (s *Session) Flush() {
	s.notes.flush()
}

// PlaybackEnded is called by the speaker owner when a buffer finished
// playing on its own.
func (s *Session) PlaybackEnded(h PlaybackHandle) {
	s.mu.Lock()
	drained := s.sched.Ended(h)
	changed := drained && s.state == StateSpeaking
	if changed {
		s.state = StateListening
	}
	s.mu.Unlock()

	if changed {
		s.notifyState(StateListening, ReasonNone)
	}
}

// fail moves to StateError unless the session already ended, and returns err.
func (s *Session) fail(reason ErrorReason, err error) error {
	s.mu.Lock()
	switch s.state {
	case StateClosed:
		s.mu.Unlock()
		return ErrSessionClosed
	case StateError:
		s.mu.Unlock()
		return err
	}
	s.state, s.reason, s.err = StateError, reason, err
	s.teardownLocked()
	s.mu.Unlock()

	metrics.LiveSessionErrors.WithLabelValues(string(reason)).Inc()
	slog.Warn("Live session failed", "reason", reason, "error", err)
	s.notifyState(StateError, reason)
	return err
}

// teardownLocked releases the microphone and the channel and stops playback.
func (s *Session) teardownLocked() error {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	var errs []error
	if s.capture != nil {
		if err := s.capture.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close microphone: %w", err))
		}
		s.capture = nil
	}
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
		s.conn = nil
	}
	s.sched.Interrupt()
	if s.active {
		s.active = false
		metrics.LiveSessionsActive.Dec()
	}
	return errors.Join(errs...)
}

func (s *Session) captureLoop(ctx context.Context, capture Capture, q *frameQueue) {
	defer s.wg.Done()

	framer := NewFramer(FrameSize)
	for {
		select {
		case <-ctx.Done():
			return
		case samples, ok := <-capture.Samples():
			if !ok {
				if ctx.Err() == nil {
					s.fail(ReasonDeviceUnavailable, ErrMicrophoneUnavailable)
				}
				return
			}
			for _, frame := range framer.Write(samples) {
				if q.push(EncodeFrame(frame)) {
					metrics.LiveDroppedFrames.Inc()
					s.mu.Lock()
					s.dropped++
					s.mu.Unlock()
				}
			}
		}
	}
}

func (s *Session) sendLoop(ctx context.Context, conn Conn, q *frameQueue) {
	defer s.wg.Done()

	for {
		frame, ok := q.pop(ctx)
		if !ok {
			return
		}
		if err := conn.Send(ctx, frame); err != nil {
			if ctx.Err() == nil {
				s.fail(ReasonTransport, fmt.Errorf("failed to send audio: %w", err))
			}
			return
		}
	}
}

func (s *Session) eventLoop(ctx context.Context, conn Conn) {
	defer s.wg.Done()

	events := conn.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				if ctx.Err() == nil {
					s.fail(ReasonTransport, errors.New("connection closed by server"))
				}
				return
			}
			s.handle(ev)
		}
	}
}

func (s *Session) handle(ev ServerEvent) {
	if e, ok := ev.(TransportError); ok {
		s.fail(ReasonTransport, e)
		return
	}

	var (
		newState   State
		transcript []TranscriptLine
	)

	s.mu.Lock()
	if s.state != StateListening && s.state != StateSpeaking {
		s.mu.Unlock()
		return
	}
	switch e := ev.(type) {
	case TranscriptFragment:
		s.transcript.Add(e.Role, e.Text)
		transcript = s.transcript.Lines()

	case TurnComplete:
		s.transcript.EndTurn()

	case AudioChunk:
		buf, err := DecodeChunk(e.Data, e.SampleRate)
		if err != nil {
			slog.Warn("Dropping undecodable audio chunk", "error", err)
			break
		}
		s.sched.Schedule(buf)
		if s.sched.Pending() > 0 && s.state == StateListening {
			s.state = StateSpeaking
			newState = StateSpeaking
		}

	case Interrupted:
		s.sched.Interrupt()
		if s.state == StateSpeaking {
			s.state = StateListening
			newState = StateListening
		}
	}
	s.mu.Unlock()

	if newState != "" {
		s.notifyState(newState, ReasonNone)
	}
	if fn := s.opts.OnTranscript; transcript != nil && fn != nil {
		s.notes.post(func() { fn(transcript) })
	}
}

func (s *Session) notifyState(state State, reason ErrorReason) {
	if fn := s.opts.OnState; fn != nil {
		s.notes.post(func() { fn(state, reason) })
	}
}

// notifier runs posted callbacks in order on a goroutine of its own, started
// on demand and gone once the backlog is empty.
type notifier struct {
	mu      sync.Mutex
	idle    *sync.Cond
	pending []func()
	running bool
}

func newNotifier() *notifier {
	n := &notifier{}
	n.idle = sync.NewCond(&n.mu)
	return n
}

func (n *notifier) post(fn func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending = append(n.pending, fn)
	if !n.running {
		n.running = true
		go n.run()
	}
}

func (n *notifier) run() {
	n.mu.Lock()
	for len(n.pending) > 0 {
		fn := n.pending[0]
		n.pending = n.pending[1:]
		n.mu.Unlock()
		fn()
		n.mu.Lock()
	}
	n.running = false
	n.idle.Broadcast()
	n.mu.Unlock()
}

func (n *notifier) flush() {
	n.mu.Lock()
	for n.running {
		n.idle.Wait()
	}
	n.mu.Unlock()
}

func microphoneReason(err error) ErrorReason {
	switch {
	case errors.Is(err, ErrMicrophonePermission):
		return ReasonPermissionDenied
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	}
	return ReasonDeviceUnavailable
}

func connectReason(ctx context.Context, err error) ErrorReason {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ReasonTimeout
	}
	return ReasonTransport
}

// frameQueue is a bounded FIFO that drops its oldest frame when full.
type frameQueue struct {
	mu     sync.Mutex
	frames []Frame
	max    int
	ready  chan struct{}
}

func newFrameQueue(max int) *frameQueue {
	return &frameQueue{max: max, ready: make(chan struct{}, 1)}
}

// push appends f and reports whether an older frame was dropped for it.
func (q *frameQueue) push(f Frame) bool {
	q.mu.Lock()
	dropped := false
	if len(q.frames) == q.max {
		q.frames = q.frames[1:]
		dropped = true
	}
	q.frames = append(q.frames, f)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
	return dropped
}

// pop blocks until a frame is available or ctx is done.
func (q *frameQueue) pop(ctx context.Context) (Frame, bool) {
	for {
		q.mu.Lock()
		if len(q.frames) > 0 {
			f := q.frames[0]
			q.frames = q.frames[1:]
			q.mu.Unlock()
			return f, true
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return Frame{}, false
		case <-q.ready:
		}
	}
}

func (q *frameQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.frames)
}

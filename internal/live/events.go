package live

import "fmt"

// Role identifies who is speaking in a transcript.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ServerEvent is one message received from the streaming endpoint. It is one
// of TranscriptFragment, AudioChunk, TurnComplete, Interrupted or
// TransportError.
type ServerEvent interface {
	isServerEvent()
}

// TranscriptFragment is incremental transcription of either side.
type TranscriptFragment struct {
	Role Role
	Text string
}

// AudioChunk is synthesized speech, base64 PCM16 at SampleRate.
type AudioChunk struct {
	Data       string
	SampleRate int
}

// TurnComplete marks the end of a model turn.
type TurnComplete struct{}

// Interrupted reports that the user started talking over playback.
type Interrupted struct{}

// TransportError reports a failure of the underlying channel.
type TransportError struct {
	Err error
}

func (TranscriptFragment) isServerEvent() {}
func (AudioChunk) isServerEvent()         {}
func (TurnComplete) isServerEvent()       {}
func (Interrupted) isServerEvent()        {}
func (TransportError) isServerEvent()     {}

func (e TransportError) Error() string {
	return fmt.Sprintf("live transport: %v", e.Err)
}

func (e TransportError) Unwrap() error {
	return e.Err
}

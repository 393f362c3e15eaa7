// Package live runs a real-time voice conversation: microphone frames go
// out to a streaming model endpoint, synthesized audio comes back and is
// scheduled for gapless playback, and both sides are transcribed.
package live

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
)

const (
	// FrameSize is the number of samples per outbound frame.
	FrameSize = 4096

	InputSampleRate  = 16000
	OutputSampleRate = 24000

	// InputMimeType labels outbound frames.
	InputMimeType = "audio/pcm;rate=16000"
)

// Frame is one encoded outbound audio frame.
type Frame struct {
	Data     string `json:"data"` // base64 little-endian PCM16
	MimeType string `json:"mimeType"`
}

// AudioBuffer is decoded mono audio ready for playback.
type AudioBuffer struct {
	Samples    []float32
	SampleRate int
}

// Duration is the playback length in seconds.
func (b AudioBuffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate)
}

// EncodePCM16 converts float samples in [-1, 1] to little-endian signed
// 16-bit PCM. Samples are scaled by 32768, rounded half away from zero and
// clamped to the int16 range.
func EncodePCM16(samples []float32) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		v := math.Round(float64(s) * 32768)
		if v > math.MaxInt16 {
			v = math.MaxInt16
		} else if v < math.MinInt16 {
			v = math.MinInt16
		}
		binary.LittleEndian.PutUint16(out[2*i:], uint16(int16(v)))
	}
	return out
}

// DecodePCM16 converts little-endian signed 16-bit PCM to floats by dividing
// by 32768. A trailing odd byte is ignored.
func DecodePCM16(data []byte) []float32 {
	out := make([]float32, len(data)/2)
	for i := range out {
		out[i] = float32(int16(binary.LittleEndian.Uint16(data[2*i:]))) / 32768
	}
	return out
}

// EncodeFrame encodes samples as an outbound frame.
func EncodeFrame(samples []float32) Frame {
	return Frame{
		Data:     base64.StdEncoding.EncodeToString(EncodePCM16(samples)),
		MimeType: InputMimeType,
	}
}

// DecodeChunk decodes a base64 PCM16 chunk received from the model.
func DecodeChunk(data string, sampleRate int) (AudioBuffer, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return AudioBuffer{}, fmt.Errorf("failed to decode audio chunk: %w", err)
	}
	return AudioBuffer{Samples: DecodePCM16(raw), SampleRate: sampleRate}, nil
}

// Framer regroups a sample stream of arbitrary chunk sizes into frames of a
// fixed size.
type Framer struct {
	size int
	buf  []float32
}

// NewFramer returns a Framer emitting frames of size samples.
func NewFramer(size int) *Framer {
	if size <= 0 {
		size = FrameSize
	}
	return &Framer{size: size, buf: make([]float32, 0, size)}
}

// Write appends samples and returns every frame completed by them.
func (f *Framer) Write(samples []float32) [][]float32 {
	var frames [][]float32
	for len(samples) > 0 {
		n := min(f.size-len(f.buf), len(samples))
		f.buf = append(f.buf, samples[:n]...)
		samples = samples[n:]
		if len(f.buf) == f.size {
			frames = append(frames, f.buf)
			f.buf = make([]float32, 0, f.size)
		}
	}
	return frames
}

// Buffered returns the number of samples waiting for a full frame.
func (f *Framer) Buffered() int {
	return len(f.buf)
}

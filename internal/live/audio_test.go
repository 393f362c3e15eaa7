package live

import (
	"encoding/base64"
	"math"
	"testing"
)

func TestEncodePCM16(t *testing.T) {
	tests := []struct {
		name   string
		sample float32
		want   int16
	}{
		{"silence", 0, 0},
		{"half", 0.5, 16384},
		{"negative full scale", -1, -32768},
		{"positive full scale saturates", 1, 32767},
		{"overdriven saturates", 1.7, 32767},
		{"rounds half away from zero", float32(1.5 / 32768), 2},
		{"rounds negative half away from zero", float32(-1.5 / 32768), -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := EncodePCM16([]float32{tt.sample})
			got := int16(uint16(out[0]) | uint16(out[1])<<8)
			if got != tt.want {
				t.Errorf("EncodePCM16(%v) = %d, want %d", tt.sample, got, tt.want)
			}
		})
	}
}

func TestDecodePCM16(t *testing.T) {
	got := DecodePCM16([]byte{0x00, 0x80, 0x00, 0x40, 0xff})
	if len(got) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(got))
	}
	if got[0] != -1 || got[1] != 0.5 {
		t.Errorf("DecodePCM16() = %v", got)
	}
}

func TestEncodeFrameRoundTrip(t *testing.T) {
	samples := []float32{0, 0.25, -0.25, 0.999}
	f := EncodeFrame(samples)
	if f.MimeType != "audio/pcm;rate=16000" {
		t.Errorf("MimeType = %q", f.MimeType)
	}

	buf, err := DecodeChunk(f.Data, InputSampleRate)
	if err != nil {
		t.Fatalf("DecodeChunk failed: %v", err)
	}
	for i, s := range samples {
		if math.Abs(float64(buf.Samples[i]-s)) > 1.0/32768 {
			t.Errorf("sample %d = %v, want %v", i, buf.Samples[i], s)
		}
	}

	if _, err := DecodeChunk("%%%", OutputSampleRate); err == nil {
		t.Error("expected error for invalid base64")
	}
}

func TestAudioBufferDuration(t *testing.T) {
	raw := make([]byte, 2*OutputSampleRate/2)
	buf, err := DecodeChunk(base64.StdEncoding.EncodeToString(raw), OutputSampleRate)
	if err != nil {
		t.Fatalf("DecodeChunk failed: %v", err)
	}
	if d := buf.Duration(); d != 0.5 {
		t.Errorf("Duration() = %v, want 0.5", d)
	}
}

func TestFramer(t *testing.T) {
	f := NewFramer(FrameSize)

	if frames := f.Write(make([]float32, 3000)); len(frames) != 0 {
		t.Errorf("expected no frame yet, got %d", len(frames))
	}
	frames := f.Write(make([]float32, 3000))
	if len(frames) != 1 || len(frames[0]) != FrameSize {
		t.Fatalf("expected one full frame, got %d", len(frames))
	}
	if f.Buffered() != 6000-FrameSize {
		t.Errorf("Buffered() = %d, want %d", f.Buffered(), 6000-FrameSize)
	}

	frames = f.Write(make([]float32, 2*FrameSize))
	if len(frames) != 2 {
		t.Errorf("expected two frames, got %d", len(frames))
	}
}

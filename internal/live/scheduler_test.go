package live

import (
	"testing"
)

func TestSchedulerIsGapless(t *testing.T) {
	speaker := newFakeSpeaker()
	s := NewScheduler(speaker)

	speaker.setNow(0.2)
	first := s.Schedule(AudioBuffer{Samples: make([]float32, OutputSampleRate), SampleRate: OutputSampleRate})

	// The second chunk arrives while the first is still playing.
	speaker.setNow(0.5)
	second := s.Schedule(AudioBuffer{Samples: make([]float32, OutputSampleRate/2), SampleRate: OutputSampleRate})

	if first != 0.2 {
		t.Errorf("first start = %v, want 0.2", first)
	}
	if second != first+1.0 {
		t.Errorf("second start = %v, want %v", second, first+1.0)
	}

	// A chunk arriving after playback drained starts immediately.
	speaker.setNow(3)
	if third := s.Schedule(AudioBuffer{Samples: make([]float32, 10), SampleRate: OutputSampleRate}); third != 3 {
		t.Errorf("late start = %v, want 3", third)
	}
}

func TestSchedulerInterrupt(t *testing.T) {
	speaker := newFakeSpeaker()
	s := NewScheduler(speaker)

	s.Schedule(AudioBuffer{Samples: make([]float32, OutputSampleRate), SampleRate: OutputSampleRate})
	s.Schedule(AudioBuffer{Samples: make([]float32, OutputSampleRate), SampleRate: OutputSampleRate})
	a := <-speaker.scheduled
	b := <-speaker.scheduled

	s.Interrupt()
	if !a.handle.stopped.Load() || !b.handle.stopped.Load() {
		t.Error("expected every scheduled buffer to be stopped")
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", s.Pending())
	}

	speaker.setNow(0.1)
	if start := s.Schedule(AudioBuffer{Samples: make([]float32, 10), SampleRate: OutputSampleRate}); start != 0.1 {
		t.Errorf("start after interrupt = %v, want 0.1", start)
	}

	// Ending a handle stopped by the interrupt has no effect.
	if drained := s.Ended(a.handle); drained {
		t.Error("expected the new buffer to still be pending")
	}
}

func TestTranscript(t *testing.T) {
	var tr Transcript
	tr.Add(RoleUser, "How much ")
	tr.Add(RoleUser, "did I spend?")
	tr.Add(RoleModel, "About")
	tr.Add(RoleModel, " $400.")
	tr.EndTurn()
	tr.Add(RoleModel, "Anything else?")
	tr.Add(RoleUser, "")

	want := []TranscriptLine{
		{RoleUser, "How much did I spend?"},
		{RoleModel, "About $400."},
		{RoleModel, "Anything else?"},
	}
	got := tr.Lines()
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestFrameQueueDropsOldest(t *testing.T) {
	q := newFrameQueue(2)
	if q.push(Frame{Data: "a"}) || q.push(Frame{Data: "b"}) {
		t.Fatal("unexpected drop before the queue was full")
	}
	if !q.push(Frame{Data: "c"}) {
		t.Error("expected a drop when full")
	}
	if q.len() != 2 {
		t.Errorf("len() = %d, want 2", q.len())
	}

	ctx := t.Context()
	for _, want := range []string{"b", "c"} {
		f, ok := q.pop(ctx)
		if !ok || f.Data != want {
			t.Errorf("pop() = %q, %v, want %q", f.Data, ok, want)
		}
	}
}

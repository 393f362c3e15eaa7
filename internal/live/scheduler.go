package live

// Scheduler places decoded chunks back to back on the speaker's clock.
//
// The start of chunk N is max(now, end of chunk N-1), so chunks never
// overlap and late arrivals start immediately. Scheduler is not safe for
// concurrent use; Session serializes access.
type Scheduler struct {
	speaker Speaker
	next    float64
	playing map[PlaybackHandle]struct{}
}

// NewScheduler schedules onto speaker.
func NewScheduler(speaker Speaker) *Scheduler {
	return &Scheduler{speaker: speaker, playing: make(map[PlaybackHandle]struct{})}
}

// Schedule queues buf and returns its start time. A speaker that refuses the
// buffer (nil handle) leaves the cursor and the pending set unchanged.
func (s *Scheduler) Schedule(buf AudioBuffer) float64 {
	start := max(s.speaker.Now(), s.next)
	h := s.speaker.Schedule(buf, start)
	if h == nil {
		return start
	}
	s.next = start + buf.Duration()
	s.playing[h] = struct{}{}
	return start
}

// Ended forgets a finished handle and reports whether nothing is left
// playing. Unknown handles, such as ones stopped by Interrupt, are ignored.
func (s *Scheduler) Ended(h PlaybackHandle) bool {
	delete(s.playing, h)
	return len(s.playing) == 0
}

// Interrupt stops everything scheduled and resets the cursor so the next
// chunk starts at the current time.
func (s *Scheduler) Interrupt() {
	for h := range s.playing {
		h.Stop()
	}
	clear(s.playing)
	s.next = 0
}

// Pending returns the number of scheduled handles that have not ended.
func (s *Scheduler) Pending() int {
	return len(s.playing)
}

// Next returns the end time of the last scheduled chunk.
func (s *Scheduler) Next() float64 {
	return s.next
}

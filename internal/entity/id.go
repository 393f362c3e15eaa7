package entity

import (
	"fmt"
	"sync"
	"time"
)

// IDGenerator hands out collection-scoped IDs of the form
// "<prefix>-<unix nanos>". Values are strictly increasing within a process,
// even when the clock stalls or two calls land in the same nanosecond.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDGenerator returns a generator driven by the wall clock.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

// Next returns a fresh ID for the named collection.
func (g *IDGenerator) Next(collection string) string {
	g.mu.Lock()
	n := g.now().UnixNano()
	if n <= g.last {
		n = g.last + 1
	}
	g.last = n
	g.mu.Unlock()

	return fmt.Sprintf("%s-%d", idPrefix(collection), n)
}

func idPrefix(collection string) string {
	if len(collection) > 3 {
		return collection[:3]
	}
	return collection
}

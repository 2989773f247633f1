package core

import (
	"strconv"
	"sync"
	"time"
)

// TaskIDGenerator hands out opaque task identifiers.
type TaskIDGenerator interface {
	GenerateTaskID() string
	// Observe tells the generator about an identifier already in use so it
	// is never handed out again.
	Observe(id string)
}

// timestampIDGenerator derives IDs from the current Unix time in
// milliseconds. IDs are strictly increasing: a clock that stalls or steps
// backwards yields last+1 instead of a duplicate.
type timestampIDGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewTaskIDGenerator creates a timestamp based TaskIDGenerator. A nil clock
// uses time.Now.
func NewTaskIDGenerator(now func() time.Time) TaskIDGenerator {
	if now == nil {
		now = time.Now
	}
	return &timestampIDGenerator{now: now}
}

func (g *timestampIDGenerator) GenerateTaskID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.now().UnixMilli()
	if n <= g.last {
		n = g.last + 1
	}
	g.last = n
	return strconv.FormatInt(n, 10)
}

// Observe raises the floor to id when id is numeric. Non-numeric IDs from
// hand-edited snapshots cannot collide with generated ones and are ignored.
func (g *timestampIDGenerator) Observe(id string) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if n > g.last {
		g.last = n
	}
}

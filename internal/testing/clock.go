package testing

import (
	"sync/atomic"
	"time"
)

// Epoch is where every ManualClock starts.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// ManualClock is a tx.Clock that only moves when told to, so recorded
// history timestamps are reproducible.
type ManualClock struct {
	nanos atomic.Int64
}

// NewManualClock returns a clock stopped at Epoch.
func NewManualClock() *ManualClock {
	c := &ManualClock{}
	c.Set(Epoch)
	return c
}

func (c *ManualClock) Now() time.Time {
	return time.Unix(0, c.nanos.Load()).UTC()
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.nanos.Add(int64(d))
}

// Set stops the clock at t.
func (c *ManualClock) Set(t time.Time) {
	c.nanos.Store(t.UnixNano())
}

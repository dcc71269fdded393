package clock

import "time"

// Clock supplies the current time in unix seconds. The ledger only ever
// reads time through this interface so tests can control elapsed windows.
type Clock interface {
	Now() int64
}

// System reads the wall clock.
type System struct{}

func (System) Now() int64 { return time.Now().Unix() }

// Manual is a settable clock for tests.
type Manual struct {
	Unix int64
}

func (m *Manual) Now() int64 { return m.Unix }

// Advance moves the clock forward by the given number of seconds.
func (m *Manual) Advance(seconds int64) { m.Unix += seconds }

package bench

import "time"

// Clock is the time source trials are measured with.
type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// WallClock reads the system clock. Durations between its readings use the
// monotonic clock.
var WallClock Clock = wallClock{}

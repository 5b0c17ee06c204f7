package clock

import "time"

// Clock abstracts wall-clock reads so time-sensitive logic is testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// NewSystem returns a Clock backed by time.Now in UTC.
func NewSystem() Clock { return systemClock{} }

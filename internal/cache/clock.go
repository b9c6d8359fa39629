package cache

import "time"

// clock is a time source that tests can replace.
type clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

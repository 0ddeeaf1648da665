package playback

import "time"

// Timer cancellable scheduled task
type Timer interface {
	Stop() bool
}

// Clock schedules tasks, replaced in tests
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock Clock backed by the runtime timers
var RealClock Clock = realClock{}

package clock

import "time"

// Clock abstracts wall time so refund and overtime math stays deterministic
// under test. Services receive a Clock instead of calling time.Now directly.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// System returns a Clock backed by the real wall clock, in UTC.
func System() Clock {
	return systemClock{}
}

// Fixed returns a Clock that always reports t. Test helper.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time {
	return f.T
}

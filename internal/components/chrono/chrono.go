package chrono

import "time"

// API is the interface that anything depending on the system clock should use.
type API interface {
	Now() time.Time
}

// StandardImpl is the implementation of API using the standard library, times are in UTC.
type StandardImpl struct{}

func (StandardImpl) Now() time.Time {
	return time.Now().UTC()
}

// FixedImpl always returns the same time, it is meant for tests.
type FixedImpl struct {
	Time time.Time
}

func (f FixedImpl) Now() time.Time {
	return f.Time
}

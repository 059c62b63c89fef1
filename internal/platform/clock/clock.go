package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock returns local wall-clock time. Fire targets (next day 09:00, the
// weekly day) are calendar concepts in the user's zone; timestamps are persisted
// as RFC3339 with offset.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

package clock

import "time"

// Clock provides the command issue time.
// Params: none.
// Returns: current wall-clock time.
type Clock interface {
	Now() time.Time
}

// RealClock reads current UTC time from system clock.
type RealClock struct{}

// Now returns current UTC time.
// Params: none.
// Returns: current UTC timestamp.
func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// Fixed always reports the same instant; used to make command timestamps reproducible.
type Fixed time.Time

// Unix builds a fixed clock from Unix seconds.
func Unix(seconds int64) Fixed {
	return Fixed(time.Unix(seconds, 0).UTC())
}

// Now returns the fixed instant.
func (f Fixed) Now() time.Time {
	return time.Time(f)
}

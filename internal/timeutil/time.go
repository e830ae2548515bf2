package timeutil

import (
	"fmt"
	"strconv"
)

// Timestamp is one trace clock reading, seconds plus microseconds, as logged
// by gettimeofday on the instrumented side.
type Timestamp struct {
	Sec  int64
	Usec int64
}

// Parse builds a Timestamp from the two decimal fields of a trace record.
func Parse(sec, usec string) (Timestamp, error) {
	s, err := strconv.ParseInt(sec, 10, 64)
	if err != nil {
		return Timestamp{}, fmt.Errorf("invalid seconds field %q: %w", sec, err)
	}
	u, err := strconv.ParseInt(usec, 10, 64)
	if err != nil {
		return Timestamp{}, fmt.Errorf("invalid microseconds field %q: %w", usec, err)
	}
	return Timestamp{Sec: s, Usec: u}, nil
}

// Sub returns t-o in seconds, borrowing from the seconds column when the
// microsecond delta is negative.
func (t Timestamp) Sub(o Timestamp) float64 {
	sec := t.Sec - o.Sec
	usec := t.Usec - o.Usec
	if usec < 0 {
		sec--
		usec += 1_000_000
	}
	return float64(sec) + float64(usec)/1e6
}

// IsZero reports whether the timestamp was never set.
func (t Timestamp) IsZero() bool {
	return t.Sec == 0 && t.Usec == 0
}

package subtitle

import (
	"fmt"
	"math"
	"time"
)

// largest offset a time.Duration can hold, in milliseconds
const maxTimecodeMillis = int64(math.MaxInt64 / int64(time.Millisecond))

// combines timecode components additively, so out-of-range components
// (e.g. 75 minutes) still produce the correct offset. The result must fit
// a time.Duration (about 2.5 million hours); see timecodeFits.
func ParseTimecode(hours, minutes, seconds, millis int) time.Duration {
	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond
}

// reports whether the components add up to a representable offset
func timecodeFits(hours, minutes, seconds, millis int) bool {
	parts := []struct {
		n    int
		unit int64
	}{
		{hours, int64(time.Hour / time.Millisecond)},
		{minutes, int64(time.Minute / time.Millisecond)},
		{seconds, int64(time.Second / time.Millisecond)},
		{millis, 1},
	}

	var total int64
	for _, p := range parts {
		if p.n < 0 || int64(p.n) > maxTimecodeMillis/p.unit {
			return false
		}
		total += int64(p.n) * p.unit
	}
	return total <= maxTimecodeMillis
}

// formats as HH:MM:SS,mmm. Hours are unbounded and sub-millisecond
// remainders are truncated. Negative durations clamp to zero.
func FormatTimecode(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int64(d / time.Hour)
	minutes := int64(d/time.Minute) % 60
	seconds := int64(d/time.Second) % 60
	millis := int64(d/time.Millisecond) % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// NextAfter returns the next due time for a fixed-period loop, measured from
// when the previous cycle actually finished. The schedule tolerates drift
// introduced by slow work inside the cycle (e.g. a sensor's conversion
// latency) rather than trying to stay wall-clock aligned.
func NextAfter(finished time.Time, period time.Duration) time.Time {
	if period <= 0 {
		period = time.Second
	}
	return finished.Add(period)
}

package domain

import "time"

// DefaultRateLimitDuration is the countdown started when the remote service
// answers 429 without a supplied remaining duration.
const DefaultRateLimitDuration = 60 * time.Second

// RateLimitWindow is identified solely by its absolute end timestamp,
// persisted in the local store partition. Any context recomputes the
// remaining time from it instead of running its own decrement.
type RateLimitWindow struct {
	EndTime time.Time
}

func NewRateLimitWindow(now time.Time, d time.Duration) RateLimitWindow {
	return RateLimitWindow{EndTime: now.Add(d)}
}

func (w RateLimitWindow) Remaining(now time.Time) time.Duration {
	remaining := w.EndTime.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (w RateLimitWindow) Expired(now time.Time) bool {
	return !w.EndTime.After(now)
}

// SecondsLeft rounds up so a window with any time left still shows at least
// one second.
func (w RateLimitWindow) SecondsLeft(now time.Time) int {
	remaining := w.Remaining(now)
	if remaining == 0 {
		return 0
	}

	seconds := int((remaining + time.Second - 1) / time.Second)
	return seconds
}

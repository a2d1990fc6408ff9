package game

import "time"

// Limiter paces the loop to a target frame rate.
type Limiter struct {
	frame time.Duration
	last  time.Time
}

// NewLimiter returns a limiter for fps frames per second. fps <= 0 never
// delays.
func NewLimiter(fps int) *Limiter {
	l := &Limiter{}
	if fps > 0 {
		l.frame = time.Second / time.Duration(fps)
	}
	return l
}

// Delay returns how long to sleep so frames are at least one frame time
// apart. A late frame resets the schedule instead of bursting to catch up.
func (l *Limiter) Delay(now time.Time) time.Duration {
	if l.frame <= 0 {
		return 0
	}
	if l.last.IsZero() {
		l.last = now
		return 0
	}
	target := l.last.Add(l.frame)
	if !now.Before(target) {
		l.last = now
		return 0
	}
	l.last = target
	return target.Sub(now)
}

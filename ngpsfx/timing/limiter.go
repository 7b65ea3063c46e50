// Package timing paces the frame loop that drives the sound driver.
package timing

import "time"

// Limiter controls frame pacing for the driver loop.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit, for offline rendering.
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// TargetFPS is the handheld's vertical blank rate, the cadence at which
// games call the driver's Update.
const TargetFPS = 60.0

// FrameDuration returns the target duration of a single frame.
func FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / TargetFPS)
}

// FramesFor returns how many whole frames fit in d.
func FramesFor(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / FrameDuration())
}

package timing

import (
	"log/slog"
	"time"
)

const (
	// spinWindow is how close to the deadline sleeping gives way to polling.
	spinWindow = 2 * time.Millisecond
	// maxLag is how far behind a frame may fall before the schedule restarts
	// instead of running frames back to back to catch up.
	maxLag = 5 * time.Millisecond
	// driftCheckFrames is how often the schedule is compared to the clock.
	driftCheckFrames = 60
)

// AdaptiveLimiter keeps an absolute frame schedule, so a late frame is made up
// by the following ones. It sleeps most of the wait and polls the last
// couple of milliseconds, which keeps an audio device queue evenly fed.
type AdaptiveLimiter struct {
	frameTime time.Duration
	next      time.Time
	frames    int64

	now   func() time.Time
	sleep func(time.Duration)
}

func NewAdaptiveLimiter() *AdaptiveLimiter {
	a := &AdaptiveLimiter{
		frameTime: FrameDuration(),
		now:       time.Now,
		sleep:     time.Sleep,
	}
	a.Reset()
	return a
}

func (a *AdaptiveLimiter) WaitForNextFrame() {
	now := a.now()
	wait := a.next.Sub(now)

	switch {
	case wait > spinWindow:
		a.sleep(wait - spinWindow/2)
		fallthrough
	case wait > 0:
		for a.now().Before(a.next) {
		}
	case wait < -maxLag:
		slog.Debug("Frame pacing fell behind, restarting schedule", "lag", -wait)
		a.next = now
	}

	a.next = a.next.Add(a.frameTime)
	a.frames++

	if a.frames%driftCheckFrames == 0 {
		drift := a.now().Sub(a.next.Add(-a.frameTime))
		if drift.Abs() > 2*maxLag {
			a.next = a.next.Add(drift / 10)
			slog.Debug("Frame timing drift correction", "drift", drift, "frames", a.frames)
		}
	}
}

func (a *AdaptiveLimiter) Reset() {
	a.next = a.now()
	a.frames = 0
}

// Frames returns the number of frames paced since the last Reset.
func (a *AdaptiveLimiter) Frames() int64 {
	return a.frames
}

package timing

import "time"

// TickerLimiter paces frames off a time.Ticker. A ticker drops ticks nobody
// reads, so a slow frame is followed by at most one immediate frame and the
// loop never bursts to catch up. Good enough for a monitor; the adaptive
// limiter keeps a tighter schedule.
type TickerLimiter struct {
	ticker *time.Ticker
	period time.Duration
	frames int64
}

func NewTickerLimiter() *TickerLimiter {
	return newTickerLimiter(FrameDuration())
}

func newTickerLimiter(period time.Duration) *TickerLimiter {
	return &TickerLimiter{
		ticker: time.NewTicker(period),
		period: period,
	}
}

func (t *TickerLimiter) WaitForNextFrame() {
	<-t.ticker.C
	t.frames++
}

// Reset restarts the period from now. A tick that came due while the loop
// was paused is not delivered.
func (t *TickerLimiter) Reset() {
	t.ticker.Reset(t.period)
	t.frames = 0
}

// Frames returns the number of frames paced since the last Reset.
func (t *TickerLimiter) Frames() int64 {
	return t.frames
}

func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}

package sfx

// channelTimer counts down the frames left before a channel is silenced.
// Zero means idle.
type channelTimer struct {
	ticks uint8
}

func (t *channelTimer) start(ticks uint8) {
	t.ticks = ticks
}

func (t *channelTimer) stop() {
	t.ticks = 0
}

func (t *channelTimer) active() bool {
	return t.ticks > 0
}

// tick advances the timer by one frame and reports whether it expired on
// this call. An idle timer never expires.
func (t *channelTimer) tick() bool {
	if t.ticks == 0 {
		return false
	}
	t.ticks--
	return t.ticks == 0
}

// Timers is a snapshot of the frames left on each channel.
type Timers struct {
	Tone  uint8
	Noise uint8
}

// Update advances both channel timers by one frame. Call it once per frame
// from the same goroutine as every other driver call. A channel whose timer
// runs out on this call gets its silence command, once.
func (d *Driver) Update() {
	if d.tone.tick() {
		d.stats.Silences++
		d.send(SilenceTone)
	}
	if d.noise.tick() {
		d.stats.Silences++
		d.send(SilenceNoise)
	}
}

// Stop silences both channels now and cancels their timers.
func (d *Driver) Stop() {
	d.tone.stop()
	d.noise.stop()
	d.stats.Silences++
	d.send(SilenceTone, SilenceNoise)
}

// Busy reports whether either channel still has a timer running.
func (d *Driver) Busy() bool {
	return d.tone.active() || d.noise.active()
}

// Timers returns the frames left on each channel.
func (d *Driver) Timers() Timers {
	return Timers{Tone: d.tone.ticks, Noise: d.noise.ticks}
}

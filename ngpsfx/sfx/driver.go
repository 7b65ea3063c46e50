// Package sfx drives sound effects on the sound co-processor.
//
// The main CPU never touches the PSG. It stages up to five 3 byte commands,
// waits for the co-processor to report idle through the doorbell byte in
// shared RAM, copies the commands into the shared buffer and writes their
// count to the doorbell. The co-processor program (see package z80drv) sends
// them to the chip and clears the doorbell.
//
// A Driver is not safe for concurrent use. All calls, Update included, are
// expected from the game loop goroutine.
package sfx

import (
	"log/slog"

	"github.com/valerio/go-ngpsfx/ngpsfx/addr"
	"github.com/valerio/go-ngpsfx/ngpsfx/z80drv"
)

// Bus is the main CPU's access to the co-processor control register and the
// shared RAM window.
type Bus interface {
	Read(address uint32) byte
	Write(address uint32, value byte)
	Write16(address uint32, value uint16)
}

// Stats counts what the driver did since it was created.
type Stats struct {
	Commits  uint64 // doorbell writes
	Timeouts uint64 // commits published while the co-processor was still busy
	Dropped  uint64 // pushes past the 5 command limit
	Silences uint64 // automatic expiries plus Stop calls
}

// Driver holds all the state of the sound driver.
type Driver struct {
	bus       Bus
	spinLimit int
	logger    *slog.Logger
	tracer    func(Batch)

	staging [addr.BufferSlots]Command
	staged  int

	tone  channelTimer
	noise channelTimer

	stats Stats
}

type Option func(*Driver)

// WithSpinLimit sets how many doorbell polls a commit makes before giving up.
func WithSpinLimit(n int) Option {
	return func(d *Driver) {
		if n < 0 {
			n = 0
		}
		d.spinLimit = n
	}
}

// WithLogger sets the logger used for driver diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) { d.logger = l }
}

// WithTracer registers a function called with every committed batch.
func WithTracer(fn func(Batch)) Option {
	return func(d *Driver) { d.tracer = fn }
}

// New creates a driver on bus. Call Init before anything else.
func New(bus Bus, opts ...Option) *Driver {
	d := &Driver{
		bus:       bus,
		spinLimit: DefaultSpinLimit,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Init holds the co-processor in reset, copies the driver program into its
// RAM, then lets it run. Timers and staging are cleared.
func (d *Driver) Init() {
	d.bus.Write16(addr.SoundCPUControl, addr.ControlHold)

	for i, b := range z80drv.Image() {
		d.bus.Write(addr.SharedRAMBase+uint32(i), b)
	}

	d.bus.Write16(addr.SoundCPUControl, addr.ControlRelease)

	d.tone.stop()
	d.noise.stop()
	d.staged = 0

	d.logger.Debug("Sound driver loaded", "bytes", z80drv.Size, "spin_limit", d.spinLimit)
}

// Play starts a tone that is silenced after duration frames. A duration of 0
// leaves it playing.
func (d *Driver) Play(divider uint16, attenuation, duration uint8) {
	d.send(ToneCommand(divider, attenuation))
	d.tone.start(duration)
}

// SetTone changes the tone channel without touching its timer.
func (d *Driver) SetTone(divider uint16, attenuation uint8) {
	d.send(ToneCommand(divider, attenuation))
}

// PlayNoise starts the noise channel. With burst set the timer runs for
// burstDuration frames instead of duration.
func (d *Driver) PlayNoise(rate uint8, noiseType NoiseType, attenuation, duration uint8, burst bool, burstDuration uint8) {
	n := Noise{
		Rate:          rate,
		Type:          noiseType,
		Attenuation:   attenuation,
		Duration:      duration,
		Burst:         burst,
		BurstDuration: burstDuration,
	}
	d.send(n.Command())
	d.noise.start(n.Ticks())
}

// SetNoise changes the noise channel without touching its timer.
func (d *Driver) SetNoise(rate uint8, noiseType NoiseType, attenuation uint8) {
	d.send(NoiseCommand(rate, noiseType, attenuation))
}

// PlayToneNoise changes both channels in a single batch so the co-processor
// applies them together, then starts both timers.
func (d *Driver) PlayToneNoise(tone Tone, noise Noise) {
	d.send(tone.Command(), noise.Command())
	d.tone.start(tone.Duration)
	d.noise.start(noise.Ticks())
}

// SendBytes sends one raw command in its own batch.
func (d *Driver) SendBytes(b1, b2, b3 uint8) {
	d.send(Command{b1, b2, b3})
}

// Stats returns the driver counters.
func (d *Driver) Stats() Stats {
	return d.stats
}

// SpinLimit returns the configured doorbell poll budget.
func (d *Driver) SpinLimit() int {
	return d.spinLimit
}

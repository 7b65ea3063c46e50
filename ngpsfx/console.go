// Package ngpsfx wires the sound driver to a simulated handheld: the driver
// talks to a co-processor machine and every frame is packaged for a backend.
package ngpsfx

import (
	"log/slog"

	"github.com/valerio/go-ngpsfx/ngpsfx/audio"
	"github.com/valerio/go-ngpsfx/ngpsfx/backend"
	"github.com/valerio/go-ngpsfx/ngpsfx/coproc"
	"github.com/valerio/go-ngpsfx/ngpsfx/debug"
	"github.com/valerio/go-ngpsfx/ngpsfx/sfx"
	"github.com/valerio/go-ngpsfx/ngpsfx/timing"
)

// Console is a driver running against a simulated co-processor.
type Console struct {
	machine *coproc.Machine
	sound   audio.Provider
	driver  *sfx.Driver
	logger  *slog.Logger

	frame      int
	sampleRate int
	sampleAcc  int
	batches    []sfx.Batch
}

type config struct {
	spinLimit     int
	cyclesPerPoll int
	sampleRate    int
	writeLog      bool
	logger        *slog.Logger
}

type Option func(*config)

// WithSpinLimit sets the driver's doorbell poll budget.
func WithSpinLimit(n int) Option {
	return func(c *config) { c.spinLimit = n }
}

// WithCyclesPerPoll sets how far the co-processor runs per doorbell poll.
func WithCyclesPerPoll(n int) Option {
	return func(c *config) { c.cyclesPerPoll = n }
}

// WithSampleRate sets the PSG output rate.
func WithSampleRate(rate int) Option {
	return func(c *config) { c.sampleRate = rate }
}

// WithWriteLog keeps the PSG port writes in each frame.
func WithWriteLog(enabled bool) Option {
	return func(c *config) { c.writeLog = enabled }
}

// WithLogger sets the logger handed to every component.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// New builds the machine, loads the driver and returns a console ready for
// its first frame.
func New(opts ...Option) *Console {
	cfg := config{
		spinLimit:     sfx.DefaultSpinLimit,
		cyclesPerPoll: coproc.DefaultCyclesPerPoll,
		sampleRate:    audio.DefaultSampleRate,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Console{
		sampleRate: cfg.sampleRate,
		logger:     cfg.logger,
	}
	c.machine = coproc.NewMachine(
		coproc.WithCyclesPerPoll(cfg.cyclesPerPoll),
		coproc.WithSampleRate(cfg.sampleRate),
		coproc.WithLogger(cfg.logger),
	)
	c.sound = c.machine.PSG()
	c.sound.SetWriteLog(cfg.writeLog)

	c.driver = sfx.New(c.machine,
		sfx.WithSpinLimit(cfg.spinLimit),
		sfx.WithLogger(cfg.logger),
		sfx.WithTracer(c.trace),
	)
	c.driver.Init()

	return c
}

func (c *Console) trace(b sfx.Batch) {
	c.batches = append(c.batches, b)
}

// Driver returns the sound driver.
func (c *Console) Driver() *sfx.Driver {
	return c.driver
}

// Machine returns the simulated hardware.
func (c *Console) Machine() *coproc.Machine {
	return c.machine
}

// SampleRate returns the PSG output rate.
func (c *Console) SampleRate() int {
	return c.sampleRate
}

// Frame returns the number of the next frame EndFrame will produce.
func (c *Console) Frame() int {
	return c.frame
}

// EndFrame closes the current frame the way the vertical blank handler of a
// game would: the driver's Update runs, then the co-processor gets a frame of
// cycles and the PSG renders a frame of audio.
func (c *Console) EndFrame() *backend.Frame {
	c.driver.Update()
	c.machine.RunFrame()

	// whole samples per frame, carrying the remainder
	c.sampleAcc += c.sampleRate
	n := c.sampleAcc / int(timing.TargetFPS)
	c.sampleAcc %= int(timing.TargetFPS)

	f := &backend.Frame{
		Number:  c.frame,
		Timers:  c.driver.Timers(),
		Stats:   c.driver.Stats(),
		Batches: c.batches,
		Writes:  c.sound.DrainWrites(),
		Audio:   debug.ExtractChannels(c.sound),
		Samples: c.sound.GetSamples(n),
		Coproc:  c.machine.Status(),
	}

	c.batches = nil
	c.frame++
	return f
}

// Callbacks returns backend callbacks acting on this console. Host mix
// controls only change what is heard, never the PSG registers.
func (c *Console) Callbacks() backend.Callbacks {
	return backend.Callbacks{
		OnToggleChannel: c.sound.ToggleChannel,
		OnSoloChannel:   c.sound.SoloChannel,
		OnUnmuteAll:     c.sound.UnmuteAll,
		OnStop:          c.driver.Stop,
		OnToggleStall:   func() { c.machine.ToggleStall() },
	}
}

package coproc

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-ngpsfx/ngpsfx/addr"
	"github.com/valerio/go-ngpsfx/ngpsfx/audio"
	"github.com/valerio/go-ngpsfx/ngpsfx/memory"
	"github.com/valerio/go-ngpsfx/ngpsfx/sfx"
)

// DefaultCyclesPerPoll is how far the co-processor advances every time the
// main CPU reads the doorbell.
const DefaultCyclesPerPoll = 16

var _ sfx.Bus = (*Machine)(nil)

// Machine is the main CPU bus with a co-processor behind it. It implements
// sfx.Bus.
//
// The two CPUs are interleaved in lockstep: every main CPU read of the
// doorbell first runs the co-processor for a short slice, so a driver spinning
// on the doorbell sees the co-processor make progress.
type Machine struct {
	mmu *memory.MMU
	sys *System

	cyclesPerPoll int
	sampleRate    int
	logger        *slog.Logger
}

type Option func(*Machine)

// WithCyclesPerPoll sets the co-processor slice run on each doorbell read.
func WithCyclesPerPoll(cycles int) Option {
	return func(m *Machine) {
		if cycles < 1 {
			cycles = 1
		}
		m.cyclesPerPoll = cycles
	}
}

// WithLogger sets the logger for both sides of the machine.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// WithSampleRate sets the host rate the PSG renders at.
func WithSampleRate(rate int) Option {
	return func(m *Machine) { m.sampleRate = rate }
}

// NewMachine builds the shared RAM, both buses, the CPU and the PSG.
func NewMachine(opts ...Option) *Machine {
	m := &Machine{
		cyclesPerPoll: DefaultCyclesPerPoll,
		sampleRate:    audio.DefaultSampleRate,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}

	ram := memory.NewSharedRAM()
	m.sys = NewSystem(ram, audio.New(m.sampleRate), m.logger)
	m.mmu = memory.NewMMU(ram)
	m.mmu.OnControl = m.control

	return m
}

func (m *Machine) control(value uint16) {
	switch value {
	case addr.ControlHold:
		m.sys.Hold()
	case addr.ControlRelease:
		m.sys.Release()
	default:
		m.logger.Warn("Unknown co-processor control value", "value", fmt.Sprintf("0x%04X", value))
	}
}

// Read implements sfx.Bus.
func (m *Machine) Read(address uint32) byte {
	if address == addr.Count {
		m.sys.Step(m.cyclesPerPoll)
	}
	return m.mmu.Read(address)
}

// Write implements sfx.Bus.
func (m *Machine) Write(address uint32, value byte) {
	m.mmu.Write(address, value)
}

// Write16 implements sfx.Bus.
func (m *Machine) Write16(address uint32, value uint16) {
	m.mmu.Write16(address, value)
}

// System returns the co-processor side.
func (m *Machine) System() *System {
	return m.sys
}

// PSG returns the sound chip.
func (m *Machine) PSG() *audio.PSG {
	return m.sys.psg
}

// RunFrame advances the co-processor by one frame.
func (m *Machine) RunFrame() {
	m.sys.RunFrame()
}

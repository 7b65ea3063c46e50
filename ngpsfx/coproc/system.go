// Package coproc simulates the sound co-processor: a Z80 running out of the
// shared RAM with the PSG on its bus, plus the main CPU side of the bus the
// sound driver talks to.
package coproc

import (
	"log/slog"

	"github.com/valerio/go-ngpsfx/ngpsfx/addr"
	"github.com/valerio/go-ngpsfx/ngpsfx/audio"
	"github.com/valerio/go-ngpsfx/ngpsfx/cpu"
	"github.com/valerio/go-ngpsfx/ngpsfx/memory"
)

// CyclesPerFrame is the number of Z80 T-states in one ~60Hz frame.
const CyclesPerFrame = audio.ClockHz / 60

// System is the co-processor side: RAM, CPU and PSG.
type System struct {
	ram *memory.SharedRAM
	psg *audio.PSG
	bus *memory.Z80Bus
	cpu *cpu.CPU

	running bool
	stalled bool

	logger *slog.Logger
}

// NewSystem creates a co-processor held in reset.
func NewSystem(ram *memory.SharedRAM, psg *audio.PSG, logger *slog.Logger) *System {
	bus := memory.NewZ80Bus(ram, psg)
	return &System{
		ram:    ram,
		psg:    psg,
		bus:    bus,
		cpu:    cpu.New(bus),
		logger: logger,
	}
}

// Hold stops the co-processor. It stays stopped until Release.
func (s *System) Hold() {
	s.running = false
	s.logger.Debug("Co-processor held")
}

// Release resets the CPU and lets it run from address 0.
func (s *System) Release() {
	s.cpu.Reset()
	s.running = true
	s.logger.Debug("Co-processor released")
}

// Running reports whether the co-processor has been released.
func (s *System) Running() bool {
	return s.running
}

// Stall freezes a running co-processor without resetting it, as if it were
// stuck. Steps do nothing until it is unstalled.
func (s *System) Stall(stalled bool) {
	s.stalled = stalled
}

// Stalled reports whether Stall is in effect.
func (s *System) Stalled() bool {
	return s.stalled
}

// Step runs the CPU for at least cycles T-states. Returns the number spent,
// 0 while held or stalled.
func (s *System) Step(cycles int) int {
	if !s.running || s.stalled {
		return 0
	}
	return s.cpu.Run(cycles)
}

// Idle reports whether the doorbell reads 0, meaning the last batch has
// been sent to the PSG.
func (s *System) Idle() bool {
	return s.ram.Read(addr.Z80Count) == 0
}

// RunFrame gives the co-processor one frame worth of cycles.
func (s *System) RunFrame() int {
	return s.Step(CyclesPerFrame)
}

// CPU returns the co-processor CPU.
func (s *System) CPU() *cpu.CPU {
	return s.cpu
}

// PSG returns the sound chip on the co-processor bus.
func (s *System) PSG() *audio.PSG {
	return s.psg
}

// RAM returns the shared RAM.
func (s *System) RAM() *memory.SharedRAM {
	return s.ram
}

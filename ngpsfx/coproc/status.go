package coproc

import (
	"github.com/valerio/go-ngpsfx/ngpsfx/addr"
)

// Status is a snapshot of the co-processor for monitors.
type Status struct {
	Running bool
	Stalled bool
	Control uint16 // last value written to the control register

	PC, SP, HL uint16
	A, B       uint8
	Zero       bool
	Interrupts bool
	Halted     bool
	Cycles     uint64

	// Mailbox is the doorbell byte followed by the command buffer, as the
	// co-processor sees them.
	Mailbox []byte
}

// Idle reports whether the doorbell was clear when the snapshot was taken.
func (s Status) Idle() bool {
	return len(s.Mailbox) > 0 && s.Mailbox[0] == 0
}

// State names the run state: "held", "stalled", "idle" or "busy".
func (s Status) State() string {
	switch {
	case !s.Running:
		return "held"
	case s.Stalled:
		return "stalled"
	case s.Idle():
		return "idle"
	}
	return "busy"
}

// Status takes a snapshot of the co-processor and its mailbox.
func (m *Machine) Status() Status {
	c := m.sys.CPU()
	return Status{
		Running:    m.sys.Running(),
		Stalled:    m.sys.Stalled(),
		Control:    m.mmu.Control(),
		PC:         c.PC(),
		SP:         c.SP(),
		HL:         c.HL(),
		A:          c.A(),
		B:          c.B(),
		Zero:       c.Zero(),
		Interrupts: c.InterruptsEnabled(),
		Halted:     c.Halted(),
		Cycles:     c.Cycles(),
		Mailbox:    m.sys.RAM().Snapshot(addr.Z80Count, 1+addr.BufferSize),
	}
}

// ToggleStall freezes a running co-processor, or lets a frozen one carry
// on. Returns the new stalled state.
func (m *Machine) ToggleStall() bool {
	stalled := !m.sys.Stalled()
	m.sys.Stall(stalled)
	if stalled {
		m.logger.Info("Co-processor stalled")
	} else {
		m.logger.Info("Co-processor resumed")
	}
	return stalled
}

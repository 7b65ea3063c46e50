package cpu

import (
	"github.com/valerio/go-ngpsfx/ngpsfx/bit"
)

// Bus provides the interface for component communication
type Bus interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
	Tick(cycles int)
}

// Flag is one of the bits of the F register.
type Flag uint8

const (
	signFlag      Flag = 0x80
	zeroFlag      Flag = 0x40
	halfCarryFlag Flag = 0x10
	parityFlag    Flag = 0x04
	subFlag       Flag = 0x02
	carryFlag     Flag = 0x01
)

// CPU holds the Z80 state needed to run the sound driver. Only the
// instructions listed in the opcode table are understood.
type CPU struct {
	// registers
	a  uint8
	f  uint8
	b  uint8
	h  uint8
	l  uint8
	sp uint16
	pc uint16

	// metadata
	interruptsEnabled bool
	currentOpcode     uint8
	cycles            uint64
	halted            bool

	bus Bus
}

// New returns a CPU in its reset state attached to bus.
func New(bus Bus) *CPU {
	cpu := &CPU{
		bus: bus,
	}
	cpu.Reset()
	return cpu
}

// Reset puts the CPU back to its power-on state: PC at 0, interrupts off.
func (c *CPU) Reset() {
	c.a = 0xFF
	c.f = 0xFF
	c.b = 0x00
	c.h = 0x00
	c.l = 0x00
	c.sp = 0xFFFF
	c.pc = 0x0000
	c.interruptsEnabled = false
	c.halted = false
	c.cycles = 0
}

// Exec executes a single CPU instruction and ticks the bus.
// Returns the amount of cycles that execution has taken.
func (c *CPU) Exec() int {
	if c.halted {
		c.bus.Tick(4)
		c.cycles += 4
		return 4
	}

	instruction := Decode(c)
	c.pc++

	cycles := instruction(c)
	c.cycles += uint64(cycles)
	c.bus.Tick(cycles)

	return cycles
}

// Run executes instructions until at least budget cycles have elapsed.
// Returns the number of cycles actually spent.
func (c *CPU) Run(budget int) int {
	spent := 0
	for spent < budget {
		spent += c.Exec()
	}
	return spent
}

func (c *CPU) readImmediate() uint8 {
	n := c.bus.Read(c.pc)
	c.pc++
	return n
}

func (c *CPU) readImmediateWord() uint16 {
	low := c.readImmediate()
	high := c.readImmediate()
	return bit.Combine(high, low)
}

func (c *CPU) setFlag(flag Flag) {
	c.f |= uint8(flag)
}

func (c *CPU) resetFlag(flag Flag) {
	c.f &^= uint8(flag)
}

func (c *CPU) isSetFlag(flag Flag) bool {
	return c.f&uint8(flag) != 0
}

func (c *CPU) setFlagIf(flag Flag, cond bool) {
	if cond {
		c.setFlag(flag)
	} else {
		c.resetFlag(flag)
	}
}

func (c *CPU) getHL() uint16 {
	return bit.Combine(c.h, c.l)
}

func (c *CPU) setHL(value uint16) {
	c.h = bit.High(value)
	c.l = bit.Low(value)
}

// PC returns the program counter.
func (c *CPU) PC() uint16 { return c.pc }

// SP returns the stack pointer.
func (c *CPU) SP() uint16 { return c.sp }

// A returns the accumulator.
func (c *CPU) A() uint8 { return c.a }

// B returns the B register, the command loop counter in the sound driver.
func (c *CPU) B() uint8 { return c.b }

// HL returns the HL register pair.
func (c *CPU) HL() uint16 { return c.getHL() }

// Cycles returns the T-states executed since reset.
func (c *CPU) Cycles() uint64 { return c.cycles }

// Halted reports whether a HALT instruction stopped the CPU.
func (c *CPU) Halted() bool { return c.halted }

// InterruptsEnabled reports the state of the interrupt flip-flop.
func (c *CPU) InterruptsEnabled() bool { return c.interruptsEnabled }

// Zero reports the Z flag.
func (c *CPU) Zero() bool { return c.isSetFlag(zeroFlag) }

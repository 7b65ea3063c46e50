package memory

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-ngpsfx/ngpsfx/addr"
	"github.com/valerio/go-ngpsfx/ngpsfx/bit"
)

// MMU is the main CPU's view of the parts of its bus the sound driver uses:
// the co-processor control register and the shared RAM window.
type MMU struct {
	ram     *SharedRAM
	control uint16

	// OnControl is called with the full register value after every write to
	// the control register.
	OnControl func(value uint16)

	logger *slog.Logger
}

// NewMMU creates a main CPU bus backed by the given shared RAM.
func NewMMU(ram *SharedRAM) *MMU {
	return &MMU{
		ram:    ram,
		logger: slog.Default(),
	}
}

func inSharedWindow(address uint32) bool {
	return address >= addr.SharedRAMBase && address < addr.SharedRAMBase+addr.SharedRAMSize
}

func (m *MMU) Read(address uint32) byte {
	switch {
	case inSharedWindow(address):
		return m.ram.Read(uint16(address - addr.SharedRAMBase))
	case address == addr.SoundCPUControl:
		return bit.Low(m.control)
	case address == addr.SoundCPUControl+1:
		return bit.High(m.control)
	default:
		m.logger.Warn("Read from unmapped address", "addr", fmt.Sprintf("0x%06X", address))
		return 0xFF
	}
}

func (m *MMU) Write(address uint32, value byte) {
	switch {
	case inSharedWindow(address):
		m.ram.Write(uint16(address-addr.SharedRAMBase), value)
	case address == addr.SoundCPUControl:
		m.setControl(bit.Combine(bit.High(m.control), value))
	case address == addr.SoundCPUControl+1:
		m.setControl(bit.Combine(value, bit.Low(m.control)))
	default:
		m.logger.Warn("Write to unmapped address", "addr", fmt.Sprintf("0x%06X", address), "value", fmt.Sprintf("0x%02X", value))
	}
}

// Write16 stores a little endian word. A word write to the control register
// is seen by OnControl as a single update.
func (m *MMU) Write16(address uint32, value uint16) {
	if address == addr.SoundCPUControl {
		m.setControl(value)
		return
	}
	m.Write(address, bit.Low(value))
	m.Write(address+1, bit.High(value))
}

// Control returns the last value written to the control register.
func (m *MMU) Control() uint16 {
	return m.control
}

func (m *MMU) setControl(value uint16) {
	m.control = value
	if m.OnControl != nil {
		m.OnControl(value)
	}
}

package memory

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/valerio/go-ngpsfx/ngpsfx/addr"
	"github.com/valerio/go-ngpsfx/ngpsfx/audio"
)

type memRegion uint8

const (
	regionUnmapped memRegion = iota
	regionRAM
	regionPSG
)

// SharedRAM is the co-processor's work RAM. The main CPU sees the same bytes
// through a window on its own bus.
type SharedRAM struct {
	mu   sync.Mutex
	data [addr.SharedRAMSize]byte
}

// NewSharedRAM returns a cleared RAM block.
func NewSharedRAM() *SharedRAM {
	return &SharedRAM{}
}

func (r *SharedRAM) Read(offset uint16) byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data[uint32(offset)%addr.SharedRAMSize]
}

func (r *SharedRAM) Write(offset uint16, value byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[uint32(offset)%addr.SharedRAMSize] = value
}

// Snapshot returns a copy of length bytes starting at offset.
func (r *SharedRAM) Snapshot(offset uint16, length int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]byte, length)
	for i := range out {
		out[i] = r.data[(uint32(offset)+uint32(i))%addr.SharedRAMSize]
	}
	return out
}

// Z80Bus is the co-processor's view of the world: its RAM at the bottom of the
// address space and the two PSG ports at 0x4000/0x4001.
type Z80Bus struct {
	ram       *SharedRAM
	psg       *audio.PSG
	regionMap [256]memRegion
	logger    *slog.Logger
}

// NewZ80Bus wires the co-processor address space.
func NewZ80Bus(ram *SharedRAM, psg *audio.PSG) *Z80Bus {
	b := &Z80Bus{
		ram:    ram,
		psg:    psg,
		logger: slog.Default(),
	}
	for i := addr.Z80RAMStart >> 8; i <= addr.Z80RAMEnd>>8; i++ {
		b.regionMap[i] = regionRAM
	}
	// PSG ports: 0x4000-0x40FF
	b.regionMap[0x40] = regionPSG
	return b
}

// Read implements cpu.Bus.
func (b *Z80Bus) Read(address uint16) byte {
	switch b.regionMap[address>>8] {
	case regionRAM:
		return b.ram.Read(address)
	case regionPSG:
		// write only
		return 0xFF
	default:
		b.logger.Warn("Z80 read from unmapped address", "addr", fmt.Sprintf("0x%04X", address))
		return 0xFF
	}
}

// Write implements cpu.Bus.
func (b *Z80Bus) Write(address uint16, value byte) {
	switch b.regionMap[address>>8] {
	case regionRAM:
		b.ram.Write(address, value)
	case regionPSG:
		switch address {
		case addr.PSGRight:
			b.psg.Write(audio.Right, value)
		case addr.PSGLeft:
			b.psg.Write(audio.Left, value)
		default:
			b.logger.Warn("Z80 write to unused PSG port", "addr", fmt.Sprintf("0x%04X", address), "value", fmt.Sprintf("0x%02X", value))
		}
	default:
		b.logger.Warn("Z80 write to unmapped address", "addr", fmt.Sprintf("0x%04X", address), "value", fmt.Sprintf("0x%02X", value))
	}
}

// Tick implements cpu.Bus. Nothing on this bus is clocked.
func (b *Z80Bus) Tick(cycles int) {}

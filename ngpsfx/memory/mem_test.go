package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-ngpsfx/ngpsfx/addr"
	"github.com/valerio/go-ngpsfx/ngpsfx/audio"
)

func TestSharedRAM_Window(t *testing.T) {
	ram := NewSharedRAM()
	mmu := NewMMU(ram)

	// main CPU 0x7003 is co-processor 0x0003
	mmu.Write(addr.Count, 0x02)
	assert.Equal(t, byte(0x02), ram.Read(addr.Z80Count))

	ram.Write(addr.Z80Count, 0x00)
	assert.Equal(t, byte(0x00), mmu.Read(addr.Count))

	mmu.Write(addr.Buffer+2, 0x9F)
	assert.Equal(t, byte(0x9F), ram.Read(addr.Z80Buffer+2))
}

func TestMMU_ControlRegister(t *testing.T) {
	mmu := NewMMU(NewSharedRAM())

	var seen []uint16
	mmu.OnControl = func(v uint16) { seen = append(seen, v) }

	mmu.Write16(addr.SoundCPUControl, addr.ControlHold)
	mmu.Write16(addr.SoundCPUControl, addr.ControlRelease)

	assert.Equal(t, []uint16{addr.ControlHold, addr.ControlRelease}, seen)
	assert.Equal(t, addr.ControlRelease, mmu.Control())
	assert.Equal(t, byte(0x55), mmu.Read(addr.SoundCPUControl))
	assert.Equal(t, byte(0x55), mmu.Read(addr.SoundCPUControl+1))
}

func TestMMU_Unmapped(t *testing.T) {
	mmu := NewMMU(NewSharedRAM())
	assert.Equal(t, byte(0xFF), mmu.Read(0x200000))
	mmu.Write(0x200000, 0x12) // ignored
}

func TestZ80Bus(t *testing.T) {
	ram := NewSharedRAM()
	psg := audio.New(audio.DefaultSampleRate)
	bus := NewZ80Bus(ram, psg)

	t.Run("RAM", func(t *testing.T) {
		bus.Write(0x0004, 0xAB)
		assert.Equal(t, byte(0xAB), bus.Read(0x0004))
		assert.Equal(t, byte(0xAB), ram.Read(0x0004))
	})

	t.Run("PSG ports", func(t *testing.T) {
		bus.Write(addr.PSGLeft, 0x92)
		bus.Write(addr.PSGRight, 0x92)

		writes := psg.DrainWrites()
		require.Len(t, writes, 2)
		assert.Equal(t, audio.Left, writes[0].Side)
		assert.Equal(t, audio.Right, writes[1].Side)
		assert.Equal(t, byte(0xFF), bus.Read(addr.PSGLeft), "PSG ports are write only")
	})

	t.Run("unmapped", func(t *testing.T) {
		assert.Equal(t, byte(0xFF), bus.Read(0x8000))
		bus.Write(0x8000, 0x01)
		assert.Empty(t, psg.DrainWrites())
	})
}

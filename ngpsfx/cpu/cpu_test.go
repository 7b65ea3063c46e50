package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-ngpsfx/ngpsfx/addr"
	"github.com/valerio/go-ngpsfx/ngpsfx/z80drv"
)

type write struct {
	address uint16
	value   byte
}

// testBus is a flat 64KiB memory that records every write.
type testBus struct {
	mem    [0x10000]byte
	writes []write
	ticks  int
}

func (b *testBus) Read(address uint16) byte { return b.mem[address] }

func (b *testBus) Write(address uint16, value byte) {
	b.mem[address] = value
	b.writes = append(b.writes, write{address, value})
}

func (b *testBus) Tick(cycles int) { b.ticks += cycles }

func newTestCPU(program ...byte) (*CPU, *testBus) {
	bus := &testBus{}
	copy(bus.mem[:], program)
	return New(bus), bus
}

func TestCPU_Reset(t *testing.T) {
	c, _ := newTestCPU()
	assert.Equal(t, uint16(0x0000), c.PC())
	assert.False(t, c.InterruptsEnabled())
	assert.False(t, c.Halted())
}

func TestCPU_Instructions(t *testing.T) {
	tests := []struct {
		name     string
		program  []byte
		steps    int
		cycles   int
		testFunc func(t *testing.T, c *CPU, bus *testBus)
	}{
		{
			name:    "JP nn",
			program: []byte{0xC3, 0x34, 0x12},
			steps:   1, cycles: 10,
			testFunc: func(t *testing.T, c *CPU, _ *testBus) {
				assert.Equal(t, uint16(0x1234), c.PC())
			},
		},
		{
			name:    "LD SP, nn",
			program: []byte{0x31, 0x00, 0x10},
			steps:   1, cycles: 10,
			testFunc: func(t *testing.T, c *CPU, _ *testBus) {
				assert.Equal(t, uint16(0x1000), c.SP())
			},
		},
		{
			name:    "EI then DI",
			program: []byte{0xFB, 0xF3},
			steps:   2, cycles: 8,
			testFunc: func(t *testing.T, c *CPU, _ *testBus) {
				assert.False(t, c.InterruptsEnabled())
			},
		},
		{
			name:    "LD A, (nn) / LD (nn), A",
			program: []byte{0x3A, 0x10, 0x00, 0x32, 0x01, 0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x5A},
			steps:   2, cycles: 26,
			testFunc: func(t *testing.T, c *CPU, bus *testBus) {
				assert.Equal(t, uint8(0x5A), c.A())
				assert.Equal(t, []write{{0x4001, 0x5A}}, bus.writes)
			},
		},
		{
			name:    "LD HL, nn / LD A, (HL) / INC HL",
			program: []byte{0x21, 0x05, 0x00, 0x7E, 0x23, 0x77},
			steps:   3, cycles: 23,
			testFunc: func(t *testing.T, c *CPU, _ *testBus) {
				assert.Equal(t, uint8(0x77), c.A())
				assert.Equal(t, uint16(0x0006), c.HL())
			},
		},
		{
			name:    "OR A sets Z on zero",
			program: []byte{0xAF, 0xB7},
			steps:   2, cycles: 8,
			testFunc: func(t *testing.T, c *CPU, _ *testBus) {
				assert.Zero(t, c.A())
				assert.True(t, c.Zero())
			},
		},
		{
			name:    "OR A clears Z on non zero",
			program: []byte{0x3A, 0x04, 0x00, 0xB7, 0x03},
			steps:   2, cycles: 17,
			testFunc: func(t *testing.T, c *CPU, _ *testBus) {
				assert.False(t, c.Zero())
			},
		},
		{
			name:    "JR Z taken",
			program: []byte{0xAF, 0x28, 0xFD},
			steps:   2, cycles: 16,
			testFunc: func(t *testing.T, c *CPU, _ *testBus) {
				assert.Equal(t, uint16(0x0000), c.PC())
			},
		},
		{
			name:    "JR NZ not taken",
			program: []byte{0xAF, 0x20, 0x10},
			steps:   2, cycles: 11,
			testFunc: func(t *testing.T, c *CPU, _ *testBus) {
				assert.Equal(t, uint16(0x0003), c.PC())
			},
		},
		{
			name:    "DJNZ loops B times",
			program: []byte{0x3A, 0x06, 0x00, 0x47, 0x10, 0xFE, 0x03},
			steps:   5, cycles: 13 + 4 + 13 + 13 + 8,
			testFunc: func(t *testing.T, c *CPU, _ *testBus) {
				assert.Zero(t, c.B())
				assert.Equal(t, uint16(0x0006), c.PC())
			},
		},
		{
			name:    "HALT",
			program: []byte{0x76},
			steps:   3, cycles: 12,
			testFunc: func(t *testing.T, c *CPU, _ *testBus) {
				assert.True(t, c.Halted())
				assert.Equal(t, uint16(0x0001), c.PC())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, bus := newTestCPU(tt.program...)
			total := 0
			for i := 0; i < tt.steps; i++ {
				total += c.Exec()
			}
			assert.Equal(t, tt.cycles, total)
			assert.Equal(t, tt.cycles, bus.ticks)
			assert.Equal(t, uint64(tt.cycles), c.Cycles())
			tt.testFunc(t, c, bus)
		})
	}
}

func TestCPU_Unimplemented(t *testing.T) {
	c, _ := newTestCPU(0xED, 0xB0)
	assert.Panics(t, func() { c.Exec() })
}

func TestCPU_RunsSoundDriver(t *testing.T) {
	c, bus := newTestCPU(z80drv.Image()...)

	// boot and settle into the idle spin
	c.Run(500)
	assert.False(t, c.InterruptsEnabled())
	assert.Equal(t, uint16(0x1000), c.SP(), "stack at the top of RAM")
	assert.Empty(t, bus.writes, "idle driver should not write anything")

	// publish two commands
	copy(bus.mem[addr.Z80Buffer:], []byte{0x81, 0x02, 0x93, 0xE5, 0x9F, 0xF1})
	bus.mem[addr.Z80Count] = 2

	for i := 0; i < 1000 && bus.mem[addr.Z80Count] != 0; i++ {
		c.Exec()
	}
	require.Zero(t, bus.mem[addr.Z80Count], "driver should clear the doorbell")

	var expected []write
	for _, b := range []byte{0x81, 0x02, 0x93, 0xE5, 0x9F, 0xF1} {
		expected = append(expected, write{addr.PSGLeft, b}, write{addr.PSGRight, b})
	}
	expected = append(expected, write{addr.Z80Count, 0})
	assert.Equal(t, expected, bus.writes)
}

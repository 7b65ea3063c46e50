package addr

// Primary CPU side.
// The sound CPU's 4KiB of RAM is visible to the main CPU through a window at
// SharedRAMBase, so every co-processor address has a main CPU twin at +0x7000.
const (
	// SoundCPUControl is the 16 bit co-processor control register.
	SoundCPUControl uint32 = 0x0000B8

	// SharedRAMBase is where the co-processor RAM appears on the main CPU bus.
	SharedRAMBase uint32 = 0x7000
	// SharedRAMSize is the size of the co-processor RAM window.
	SharedRAMSize uint32 = 0x1000

	// Count is the doorbell register: number of pending commands, 0 = idle.
	Count uint32 = SharedRAMBase + uint32(Z80Count)
	// Buffer is the first byte of the command buffer.
	Buffer uint32 = SharedRAMBase + uint32(Z80Buffer)
)

// Values written to SoundCPUControl.
const (
	// ControlHold keeps the co-processor in reset so its RAM can be filled.
	ControlHold uint16 = 0xAAAA
	// ControlRelease lets the co-processor run from address 0x0000.
	ControlRelease uint16 = 0x5555
)

// Command buffer geometry.
const (
	BufferSlots = 5
	CommandSize = 3
	BufferSize  = BufferSlots * CommandSize
)

// Co-processor side.
const (
	Z80RAMStart uint16 = 0x0000
	Z80RAMEnd   uint16 = 0x0FFF

	Z80Count  uint16 = 0x0003
	Z80Buffer uint16 = 0x0004
	Z80Entry  uint16 = 0x0013

	// PSG write ports. Each byte goes to both, left first.
	PSGRight uint16 = 0x4000
	PSGLeft  uint16 = 0x4001
)

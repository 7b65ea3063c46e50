// Package z80drv contains the program run by the sound co-processor.
//
// The image is copied verbatim to co-processor RAM at 0x0000 while the
// co-processor is held in reset. Once released it:
//
//   - disables interrupts and sets its stack to 0x1000
//   - spins reading the doorbell byte at 0x0003 until it is non zero
//   - takes the doorbell value N as a command count and, for each of the N
//     three byte commands starting at 0x0004, writes every byte to the PSG
//     twice in a row (port 0x4001, then port 0x4000)
//   - clears the doorbell to 0 and goes back to spinning
//
// There is no error path. Whatever the main CPU leaves in the doorbell and the
// buffer is sent to the chip as is, so a count above 5 walks past the buffer
// into the program itself.
package z80drv

import "github.com/valerio/go-ngpsfx/ngpsfx/addr"

// Size is the length of the image in bytes.
const Size = 0x41

// EntryPoint is where the reset jump at 0x0000 lands.
const EntryPoint = addr.Z80Entry

var image = [Size]byte{
	0xC3, 0x13, 0x00, // 0000 jp 0x0013
	0x00,             // 0003 count
	0x00, 0x00, 0x00, // 0004 buf[0..2]
	0x00, 0x00, 0x00, // 0007 buf[3..5]
	0x00, 0x00, 0x00, // 000A buf[6..8]
	0x00, 0x00, 0x00, // 000D buf[9..11]
	0x00, 0x00, 0x00, // 0010 buf[12..14]

	0xF3,             // 0013 di
	0x31, 0x00, 0x10, // 0014 ld sp, 0x1000

	// loop:
	0x3A, 0x03, 0x00, // 0017 ld a, (0x0003)
	0xB7,       // 001A or a
	0x28, 0xFA, // 001B jr z, loop
	0x47,             // 001D ld b, a
	0x21, 0x04, 0x00, // 001E ld hl, 0x0004

	// cmd_loop:
	0x7E,             // 0021 ld a, (hl)
	0x32, 0x01, 0x40, // 0022 ld (0x4001), a
	0x32, 0x00, 0x40, // 0025 ld (0x4000), a
	0x23,             // 0028 inc hl
	0x7E,             // 0029 ld a, (hl)
	0x32, 0x01, 0x40, // 002A ld (0x4001), a
	0x32, 0x00, 0x40, // 002D ld (0x4000), a
	0x23,             // 0030 inc hl
	0x7E,             // 0031 ld a, (hl)
	0x32, 0x01, 0x40, // 0032 ld (0x4001), a
	0x32, 0x00, 0x40, // 0035 ld (0x4000), a
	0x23,       // 0038 inc hl
	0x10, 0xE6, // 0039 djnz cmd_loop

	0xAF,             // 003B xor a
	0x32, 0x03, 0x00, // 003C ld (0x0003), a
	0x18, 0xD6, // 003F jr loop
}

// Image returns a copy of the co-processor program.
func Image() []byte {
	out := make([]byte, Size)
	copy(out, image[:])
	return out
}

// labels names the addresses the listing refers to.
var labels = map[uint16]string{
	0x0000:         "reset",
	addr.Z80Count:  "count",
	addr.Z80Buffer: "buf",
	EntryPoint:     "init",
	0x0017:         "loop",
	0x0021:         "cmd_loop",
}

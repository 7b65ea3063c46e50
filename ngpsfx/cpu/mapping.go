package cpu

// Opcode represents a function that executes an opcode
type Opcode func(*CPU) int

var opcodes = [256]Opcode{
	0x00: opcode0x00,
	0x10: opcode0x10,
	0x18: opcode0x18,
	0x20: opcode0x20,
	0x21: opcode0x21,
	0x23: opcode0x23,
	0x28: opcode0x28,
	0x31: opcode0x31,
	0x32: opcode0x32,
	0x3A: opcode0x3A,
	0x47: opcode0x47,
	0x76: opcode0x76,
	0x7E: opcode0x7E,
	0xAF: opcode0xAF,
	0xB7: opcode0xB7,
	0xC3: opcode0xC3,
	0xF3: opcode0xF3,
	0xFB: opcode0xFB,
}

// Decode retrieves the instruction identified by the value pointed at by the PC.
// Note: PC must be incremented separately.
func Decode(c *CPU) Opcode {
	c.currentOpcode = c.bus.Read(c.pc)
	if op := opcodes[c.currentOpcode]; op != nil {
		return op
	}
	return unimplemented
}

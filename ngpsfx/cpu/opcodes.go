package cpu

import (
	"fmt"

	"github.com/valerio/go-ngpsfx/ngpsfx/bit"
)

func unimplemented(cpu *CPU) int {
	msg := fmt.Sprintf("Unimplemented opcode 0x%02X was called at 0x%04X.", cpu.currentOpcode, cpu.pc-1)
	panic(msg)
}

// logic sets the flags the way OR/XOR/AND leave them for result.
func (c *CPU) logic(result uint8) {
	c.a = result
	c.setFlagIf(signFlag, bit.IsSet(7, result))
	c.setFlagIf(zeroFlag, result == 0)
	c.setFlagIf(parityFlag, evenParity(result))
	c.resetFlag(halfCarryFlag)
	c.resetFlag(subFlag)
	c.resetFlag(carryFlag)
}

func evenParity(v uint8) bool {
	v ^= v >> 4
	v ^= v >> 2
	v ^= v >> 1
	return v&1 == 0
}

// jumpRelative reads the displacement and jumps if cond holds.
func (c *CPU) jumpRelative(cond bool) int {
	offset := c.readImmediate()
	if !cond {
		return 7
	}
	c.pc = bit.Displace(c.pc, offset)
	return 12
}

//NOP
//#0x00:
func opcode0x00(_ *CPU) int {
	return 4
}

//DJNZ e
//#0x10:
func opcode0x10(cpu *CPU) int {
	cpu.b--
	if cpu.jumpRelative(cpu.b != 0) == 7 {
		return 8
	}
	return 13
}

//JR e
//#0x18:
func opcode0x18(cpu *CPU) int {
	return cpu.jumpRelative(true)
}

//JR NZ, e
//#0x20:
func opcode0x20(cpu *CPU) int {
	return cpu.jumpRelative(!cpu.isSetFlag(zeroFlag))
}

//LD HL, nn
//#0x21:
func opcode0x21(cpu *CPU) int {
	cpu.setHL(cpu.readImmediateWord())
	return 10
}

//INC HL
//#0x23:
func opcode0x23(cpu *CPU) int {
	cpu.setHL(cpu.getHL() + 1)
	return 6
}

//JR Z, e
//#0x28:
func opcode0x28(cpu *CPU) int {
	return cpu.jumpRelative(cpu.isSetFlag(zeroFlag))
}

//LD SP, nn
//#0x31:
func opcode0x31(cpu *CPU) int {
	cpu.sp = cpu.readImmediateWord()
	return 10
}

//LD (nn), A
//#0x32:
func opcode0x32(cpu *CPU) int {
	cpu.bus.Write(cpu.readImmediateWord(), cpu.a)
	return 13
}

//LD A, (nn)
//#0x3A:
func opcode0x3A(cpu *CPU) int {
	cpu.a = cpu.bus.Read(cpu.readImmediateWord())
	return 13
}

//LD B, A
//#0x47:
func opcode0x47(cpu *CPU) int {
	cpu.b = cpu.a
	return 4
}

//HALT
//#0x76:
func opcode0x76(cpu *CPU) int {
	cpu.halted = true
	return 4
}

//LD A, (HL)
//#0x7E:
func opcode0x7E(cpu *CPU) int {
	cpu.a = cpu.bus.Read(cpu.getHL())
	return 7
}

//XOR A
//#0xAF:
func opcode0xAF(cpu *CPU) int {
	cpu.logic(cpu.a ^ cpu.a)
	return 4
}

//OR A
//#0xB7:
func opcode0xB7(cpu *CPU) int {
	cpu.logic(cpu.a | cpu.a)
	return 4
}

//JP nn
//#0xC3:
func opcode0xC3(cpu *CPU) int {
	cpu.pc = cpu.readImmediateWord()
	return 10
}

//DI
//#0xF3:
func opcode0xF3(cpu *CPU) int {
	cpu.interruptsEnabled = false
	return 4
}

//EI
//#0xFB:
func opcode0xFB(cpu *CPU) int {
	cpu.interruptsEnabled = true
	return 4
}

package z80drv

import (
	"fmt"
	"strings"

	"github.com/valerio/go-ngpsfx/ngpsfx/addr"
	"github.com/valerio/go-ngpsfx/ngpsfx/bit"
)

// DisassemblyLine represents a single disassembled instruction or data byte.
type DisassemblyLine struct {
	Address     uint16
	Bytes       []byte
	Instruction string
	Label       string
	Data        bool
}

// Length returns the number of bytes covered by the line.
func (l DisassemblyLine) Length() int {
	return len(l.Bytes)
}

type operand uint8

const (
	noOperand operand = iota
	word              // 16 bit immediate or address
	relative          // signed 8 bit displacement
)

type opcodeInfo struct {
	template string
	operand  operand
}

// Only the opcodes the co-processor program uses, plus the handful the
// interpreter also understands.
var opcodeTable = map[byte]opcodeInfo{
	0x00: {"nop", noOperand},
	0x10: {"djnz %s", relative},
	0x18: {"jr %s", relative},
	0x20: {"jr nz, %s", relative},
	0x21: {"ld hl, $%04x", word},
	0x23: {"inc hl", noOperand},
	0x28: {"jr z, %s", relative},
	0x31: {"ld sp, $%04x", word},
	0x32: {"ld ($%04x), a", word},
	0x3A: {"ld a, ($%04x)", word},
	0x47: {"ld b, a", noOperand},
	0x76: {"halt", noOperand},
	0x7E: {"ld a, (hl)", noOperand},
	0xAF: {"xor a", noOperand},
	0xB7: {"or a", noOperand},
	0xC3: {"jp $%04x", word},
	0xF3: {"di", noOperand},
	0xFB: {"ei", noOperand},
}

func operandLength(op operand) int {
	switch op {
	case word:
		return 3
	case relative:
		return 2
	default:
		return 1
	}
}

// isData reports whether address lies in the shared doorbell/buffer block.
func isData(address uint16) bool {
	return address >= addr.Z80Count && address < addr.Z80Buffer+addr.BufferSize
}

// DisassembleAt decodes the instruction found at pc in code, which is assumed
// to be loaded at address 0.
func DisassembleAt(code []byte, pc uint16) DisassemblyLine {
	line := DisassemblyLine{Address: pc, Label: labels[pc]}
	if int(pc) >= len(code) {
		return line
	}

	opcode := code[pc]
	if isData(pc) {
		line.Bytes = code[pc : pc+1]
		line.Instruction = fmt.Sprintf("db $%02x", opcode)
		line.Data = true
		return line
	}

	info, ok := opcodeTable[opcode]
	length := operandLength(info.operand)
	if !ok || int(pc)+length > len(code) {
		line.Bytes = code[pc : pc+1]
		line.Instruction = fmt.Sprintf("db $%02x", opcode)
		line.Data = true
		return line
	}

	line.Bytes = code[pc : int(pc)+length]
	switch info.operand {
	case word:
		line.Instruction = fmt.Sprintf(info.template, bit.Combine(code[pc+2], code[pc+1]))
	case relative:
		target := bit.Displace(pc+2, code[pc+1])
		name, found := labels[target]
		if !found {
			name = fmt.Sprintf("$%04x", target)
		}
		line.Instruction = fmt.Sprintf(info.template, name)
	default:
		line.Instruction = info.template
	}

	return line
}

// Disassemble decodes a whole program loaded at address 0.
func Disassemble(code []byte) []DisassemblyLine {
	var lines []DisassemblyLine
	for pc := 0; pc < len(code); {
		line := DisassembleAt(code, uint16(pc))
		lines = append(lines, line)
		pc += line.Length()
	}
	return lines
}

// String formats a line the same way the listing does, without styling.
func (l DisassemblyLine) String() string {
	hex := make([]string, len(l.Bytes))
	for i, b := range l.Bytes {
		hex[i] = fmt.Sprintf("%02x", b)
	}
	return fmt.Sprintf("%-9s %-16s ; $%04x  %s", labelText(l.Label), l.Instruction, l.Address, strings.Join(hex, " "))
}

func labelText(label string) string {
	if label == "" {
		return ""
	}
	return label + ":"
}

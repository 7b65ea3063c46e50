package z80drv

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	label       lipgloss.Style
	instruction lipgloss.Style
	data        lipgloss.Style
	address     lipgloss.Style
	bytes       lipgloss.Style
}

func newStyles() styles {
	return styles{
		label:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3)),
		instruction: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(4)),
		data:        lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(5)),
		address:     lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8)),
		bytes:       lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(6)),
	}
}

// Listing writes the disassembly of code to w, one line per instruction.
// With styled set, labels, mnemonics and bytes are colored for a terminal.
func Listing(w io.Writer, code []byte, styled bool) error {
	st := newStyles()
	for _, line := range Disassemble(code) {
		text := line.String()
		if styled {
			text = st.render(line)
		}
		if _, err := fmt.Fprintln(w, text); err != nil {
			return err
		}
	}
	return nil
}

func (st styles) render(line DisassemblyLine) string {
	hex := make([]string, len(line.Bytes))
	for i, b := range line.Bytes {
		hex[i] = fmt.Sprintf("%02x", b)
	}

	ins := st.instruction
	if line.Data {
		ins = st.data
	}

	return fmt.Sprintf("%s %s ; %s  %s",
		st.label.Render(fmt.Sprintf("%-9s", labelText(line.Label))),
		ins.Render(fmt.Sprintf("%-16s", line.Instruction)),
		st.address.Render(fmt.Sprintf("$%04x", line.Address)),
		st.bytes.Render(strings.Join(hex, " ")))
}

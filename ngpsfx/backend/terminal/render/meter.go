package render

import "strings"

// Meter draws a fixed width bar for a 0-15 volume.
func Meter(volume uint8, width int) string {
	if width <= 0 {
		return ""
	}
	filled := min(int(volume), 15) * width / 15
	return strings.Repeat("█", filled) + strings.Repeat("·", width-filled)
}

// Truncate shortens s to at most width runes, marking the cut with "...".
func Truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width > 3 {
		return string(r[:width-3]) + "..."
	}
	if width > 0 {
		return string(r[:width])
	}
	return ""
}

// Scope draws one row of a waveform: upper half blocks above zero, lower
// half blocks below, a line at rest.
func Scope(samples []float32) string {
	var sb strings.Builder
	for _, s := range samples {
		switch {
		case s > 0:
			sb.WriteRune('▀')
		case s < 0:
			sb.WriteRune('▄')
		default:
			sb.WriteRune('─')
		}
	}
	return sb.String()
}

package action

// Action represents input actions that can be performed on a running session
type Action int

const (
	// Host mix controls
	ToggleChannel1 Action = iota
	ToggleChannel2
	ToggleChannel3
	ToggleChannel4
	SoloChannel1
	SoloChannel2
	SoloChannel3
	SoloChannel4
	UnmuteAll

	// Driver controls
	StopSound
	ToggleStall // freeze the co-processor to watch the driver time out

	// Monitor controls
	LogLevelIncrease
	LogLevelDecrease
	Quit
)

// Channel returns the channel index a toggle or solo action refers to.
func (a Action) Channel() (int, bool) {
	switch {
	case a >= ToggleChannel1 && a <= ToggleChannel4:
		return int(a - ToggleChannel1), true
	case a >= SoloChannel1 && a <= SoloChannel4:
		return int(a - SoloChannel1), true
	}
	return 0, false
}

package input

import "github.com/valerio/go-ngpsfx/ngpsfx/input/action"

// DefaultKeyMap provides default key mappings that work across backends.
// Backends can use these mappings as a base and override/extend as needed.
var DefaultKeyMap = map[string]action.Action{
	// Channel mix, digits toggle and their shifted US layout keys solo
	"1": action.ToggleChannel1,
	"2": action.ToggleChannel2,
	"3": action.ToggleChannel3,
	"4": action.ToggleChannel4,
	"!": action.SoloChannel1,
	"@": action.SoloChannel2,
	"#": action.SoloChannel3,
	"$": action.SoloChannel4,

	// Layouts without the shifted symbols
	"F1": action.SoloChannel1,
	"F2": action.SoloChannel2,
	"F3": action.SoloChannel3,
	"F4": action.SoloChannel4,
	"u":  action.UnmuteAll,

	"Space": action.StopSound,
	"s":     action.StopSound, // Alternative key
	"z":     action.ToggleStall,

	"+": action.LogLevelIncrease,
	"=": action.LogLevelIncrease, // Alternative without shift
	"-": action.LogLevelDecrease,
	"_": action.LogLevelDecrease, // Alternative with shift

	"Escape": action.Quit,
	"Ctrl-C": action.Quit,
	"q":      action.Quit,
}

// GetDefaultMapping returns the default action for a key, if one exists
func GetDefaultMapping(key string) (action.Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}

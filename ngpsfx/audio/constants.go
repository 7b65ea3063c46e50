package audio

// Timing constants
const (
	// ClockHz is the PSG input clock on the handheld (3.072 MHz).
	ClockHz = 3072000

	// clockDivider is the fixed prescaler in front of the tone counters.
	clockDivider = 16

	// DefaultSampleRate is the host output rate used when none is given.
	DefaultSampleRate = 44100
)

// Channel constants
const (
	ToneChannels = 3
	NoiseChannel = 3
	Channels     = 4

	// Silent is the attenuation value that mutes a channel.
	Silent uint8 = 0x0F

	// lfsrInitial seeds the 15 bit noise shift register.
	lfsrInitial uint16 = 0x4000
	// whiteNoiseTaps selects the feedback bits used for white noise.
	whiteNoiseTaps uint16 = 0x0003
)

// Side identifies one of the two output ports of the chip.
type Side int

const (
	Right Side = iota
	Left
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

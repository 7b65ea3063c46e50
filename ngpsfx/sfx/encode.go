package sfx

import (
	"fmt"

	"github.com/valerio/go-ngpsfx/ngpsfx/addr"
	"github.com/valerio/go-ngpsfx/ngpsfx/bit"
)

// Command is one raw 3 byte PSG command as the co-processor sends it.
type Command [addr.CommandSize]byte

func (c Command) String() string {
	return fmt.Sprintf("%02X %02X %02X", c[0], c[1], c[2])
}

// NoiseType selects the noise generator feedback mode.
type NoiseType uint8

const (
	PeriodicNoise NoiseType = 0
	WhiteNoise    NoiseType = 1
)

// Silence sentinels: maximum attenuation on the tone and noise channels.
var (
	SilenceTone  = Command{0x9F, 0x9F, 0x9F}
	SilenceNoise = Command{0xFF, 0xFF, 0xFF}
)

// Register tags of the PSG latch bytes.
const (
	toneLatch   uint8 = 0x80 // 1 00 0 DDDD: tone 0 low bits
	toneVolume  uint8 = 0x90 // 1 00 1 VVVV: tone 0 attenuation
	noiseLatch  uint8 = 0xE0 // 1 11 0 -TRR: noise control
	noiseVolume uint8 = 0xF0 // 1 11 1 VVVV: noise attenuation
)

// ToneCommand encodes a divider and attenuation for the tone channel. The
// chip cannot do a divider of 0, it is sent as 1.
func ToneCommand(divider uint16, attenuation uint8) Command {
	if divider == 0 {
		divider = 1
	}
	return Command{
		toneLatch | uint8(divider&0x0F),
		uint8(divider>>4) & 0x3F,
		toneVolume | bit.Nibble(attenuation),
	}
}

// NoiseCommand encodes the noise channel settings. The middle byte always
// silences tone 0, which shares its output slot with the noise channel.
func NoiseCommand(rate uint8, noiseType NoiseType, attenuation uint8) Command {
	return Command{
		noiseLatch | (uint8(noiseType)&0x01)<<2 | rate&0x03,
		toneVolume | 0x0F,
		noiseVolume | bit.Nibble(attenuation),
	}
}

// Tone describes a tone channel effect.
type Tone struct {
	Divider     uint16
	Attenuation uint8
	Duration    uint8 // frames, 0 = no auto silence
}

// Command returns the encoded tone command.
func (t Tone) Command() Command {
	return ToneCommand(t.Divider, t.Attenuation)
}

// Noise describes a noise channel effect.
type Noise struct {
	Rate          uint8
	Type          NoiseType
	Attenuation   uint8
	Duration      uint8 // frames, 0 = no auto silence
	Burst         bool
	BurstDuration uint8 // used instead of Duration when Burst is set
}

// Command returns the encoded noise command.
func (n Noise) Command() Command {
	return NoiseCommand(n.Rate, n.Type, n.Attenuation)
}

// Ticks returns the number of frames the noise should last.
func (n Noise) Ticks() uint8 {
	if n.Burst {
		return n.BurstDuration
	}
	return n.Duration
}

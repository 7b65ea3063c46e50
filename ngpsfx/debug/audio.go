// Package debug turns PSG register state into something a person can read.
package debug

import (
	"math"
	"strconv"

	"github.com/valerio/go-ngpsfx/ngpsfx/audio"
)

type ChannelStatus struct {
	Name      string
	Enabled   bool
	Divider   uint16
	Frequency float64
	Left      uint8 // volume 0-15, the inverse of attenuation
	Right     uint8
	Note      string
	Muted     bool
}

type AudioData struct {
	Channels   [audio.Channels]ChannelStatus
	SampleRate int
}

// ChannelSource reports PSG channel registers.
type ChannelSource interface {
	Channels() [audio.Channels]audio.ChannelState
	SampleRate() int
}

var channelNames = [audio.Channels]string{"Tone 0", "Tone 1", "Tone 2", "Noise"}

// ExtractChannels reads the current state of all four PSG channels.
func ExtractChannels(src ChannelSource) *AudioData {
	data := &AudioData{SampleRate: src.SampleRate()}
	regs := src.Channels()

	for ch := 0; ch < audio.ToneChannels; ch++ {
		extractTone(regs[ch], &data.Channels[ch])
		data.Channels[ch].Name = channelNames[ch]
	}
	extractNoise(regs[audio.NoiseChannel], regs[2].Divider, &data.Channels[audio.NoiseChannel])
	data.Channels[audio.NoiseChannel].Name = channelNames[audio.NoiseChannel]

	return data
}

func extractTone(reg audio.ChannelState, ch *ChannelStatus) {
	ch.Divider = reg.Divider
	ch.Frequency = ToneFrequency(reg.Divider)
	ch.Left = audio.Silent - reg.Left
	ch.Right = audio.Silent - reg.Right
	ch.Muted = reg.Muted
	ch.Enabled = reg.Active()
	ch.Note = frequencyToNote(ch.Frequency)
}

func extractNoise(reg audio.ChannelState, tone2 uint16, ch *ChannelStatus) {
	ch.Left = audio.Silent - reg.Left
	ch.Right = audio.Silent - reg.Right
	ch.Muted = reg.Muted
	ch.Enabled = reg.Active()

	// rate 3 follows tone channel 2
	period := uint16(0x10) << reg.NoiseRate
	if reg.NoiseRate == 3 {
		period = tone2
	}
	ch.Divider = period
	ch.Frequency = ToneFrequency(period)

	if reg.WhiteNoise {
		ch.Note = "White"
	} else {
		ch.Note = "Periodic"
	}
}

// ToneFrequency converts a 10 bit divider to Hz. A divider of 0 is silent.
func ToneFrequency(divider uint16) float64 {
	if divider == 0 {
		return 0
	}
	return float64(audio.ClockHz) / (32 * float64(divider))
}

// ToneDivider is the inverse of ToneFrequency, clamped to the 10 bit range.
func ToneDivider(freq float64) uint16 {
	if freq <= 0 {
		return 0x3FF
	}
	div := math.Round(float64(audio.ClockHz) / (32 * freq))
	return uint16(min(max(div, 1), 0x3FF))
}

func frequencyToNote(freq float64) string {
	if freq < 20 || freq > 20000 {
		return "--"
	}

	notes := []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	a4 := 440.0

	halfSteps := 12.0 * math.Log2(freq/a4)
	midi := int(math.Floor(halfSteps + 69.5))
	noteIndex := midi % 12
	octave := midi/12 - 1

	if octave < 0 || octave > 9 {
		return "--"
	}

	return notes[noteIndex] + strconv.Itoa(octave)
}

// GenerateWaveformSamples fills channelData with an idealised square wave for
// the channel, for scopes.
func GenerateWaveformSamples(channelData []float32, ch ChannelStatus, sampleRate int) {
	volume := max(ch.Left, ch.Right)
	if !ch.Enabled || volume == 0 || ch.Frequency == 0 || sampleRate <= 0 {
		for i := range channelData {
			channelData[i] = 0
		}
		return
	}

	samplesPerPeriod := float64(sampleRate) / ch.Frequency
	normalizedVolume := float32(volume) / float32(audio.Silent)

	for i := range channelData {
		phase := float64(i) / samplesPerPeriod
		phase = phase - math.Floor(phase)

		if phase < 0.5 {
			channelData[i] = normalizedVolume
		} else {
			channelData[i] = -normalizedVolume
		}
	}
}

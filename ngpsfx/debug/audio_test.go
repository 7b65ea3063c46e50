package debug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-ngpsfx/ngpsfx/audio"
)

func TestToneFrequency(t *testing.T) {
	assert.Zero(t, ToneFrequency(0))
	assert.InDelta(t, 96000.0, ToneFrequency(1), 0.001)
	assert.InDelta(t, 440.37, ToneFrequency(218), 0.01)
	assert.InDelta(t, 93.84, ToneFrequency(0x3FF), 0.01)
}

func TestToneDivider(t *testing.T) {
	assert.Equal(t, uint16(218), ToneDivider(440))
	assert.Equal(t, uint16(1), ToneDivider(200000))
	assert.Equal(t, uint16(0x3FF), ToneDivider(10))
	assert.Equal(t, uint16(0x3FF), ToneDivider(0))
}

func TestFrequencyToNote(t *testing.T) {
	tests := []struct {
		freq     float64
		expected string
	}{
		{440, "A4"},
		{261.63, "C4"},
		{445, "A4"},
		{466.16, "A#4"},
		{93.84, "F#2"},
		{10, "--"},
		{30000, "--"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, frequencyToNote(tt.freq))
	}
}

func TestExtractChannels(t *testing.T) {
	psg := audio.New(audio.DefaultSampleRate)
	for _, v := range []uint8{0x8A, 0x0D, 0x92, 0xE5, 0xF3} {
		psg.Write(audio.Left, v)
		psg.Write(audio.Right, v)
	}
	psg.Write(audio.Right, 0xF8)

	data := ExtractChannels(psg)
	assert.Equal(t, audio.DefaultSampleRate, data.SampleRate)

	tone := data.Channels[0]
	assert.Equal(t, "Tone 0", tone.Name)
	assert.True(t, tone.Enabled)
	assert.Equal(t, uint16(0xDA), tone.Divider)
	assert.Equal(t, uint8(13), tone.Left)
	assert.Equal(t, uint8(13), tone.Right)
	assert.Equal(t, "A4", tone.Note)

	assert.False(t, data.Channels[1].Enabled)
	assert.Equal(t, "--", data.Channels[1].Note)

	noise := data.Channels[audio.NoiseChannel]
	assert.True(t, noise.Enabled)
	assert.Equal(t, "White", noise.Note)
	assert.Equal(t, uint16(0x20), noise.Divider)
	assert.Equal(t, uint8(12), noise.Left)
	assert.Equal(t, uint8(7), noise.Right)
}

func TestGenerateWaveformSamples(t *testing.T) {
	buf := make([]float32, 100)
	GenerateWaveformSamples(buf, ChannelStatus{Enabled: true, Frequency: 441, Left: 15}, 44100)
	assert.Equal(t, float32(1), buf[0])
	assert.Equal(t, float32(-1), buf[50])

	GenerateWaveformSamples(buf, ChannelStatus{Enabled: false, Frequency: 441, Left: 15}, 44100)
	for _, s := range buf {
		assert.Zero(t, s)
	}
}

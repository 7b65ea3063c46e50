package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeBoth mirrors what the co-processor does with every byte.
func writeBoth(p *PSG, values ...uint8) {
	for _, v := range values {
		p.Write(Left, v)
		p.Write(Right, v)
	}
}

func TestPSG_SilentOnInit(t *testing.T) {
	p := New(DefaultSampleRate)
	for ch, state := range p.Channels() {
		assert.Equal(t, Silent, state.Left, "channel %d left", ch)
		assert.Equal(t, Silent, state.Right, "channel %d right", ch)
		assert.False(t, state.Active())
	}
}

func TestPSG_RegisterWrites(t *testing.T) {
	tests := []struct {
		name     string
		bytes    []uint8
		testFunc func(t *testing.T, ch [Channels]ChannelState)
	}{
		{
			name:  "tone divider and attenuation",
			bytes: []uint8{0x8B, 0x1A, 0x93}, // divider 0x1AB, attenuation 3
			testFunc: func(t *testing.T, ch [Channels]ChannelState) {
				assert.Equal(t, uint16(0x1AB), ch[0].Divider)
				assert.Equal(t, uint8(3), ch[0].Left)
				assert.Equal(t, uint8(3), ch[0].Right)
				assert.True(t, ch[0].Active())
			},
		},
		{
			name:  "noise control silences tone 0",
			bytes: []uint8{0x93, 0xE7, 0x9F, 0xF2},
			testFunc: func(t *testing.T, ch [Channels]ChannelState) {
				assert.Equal(t, uint8(3), ch[NoiseChannel].NoiseRate)
				assert.True(t, ch[NoiseChannel].WhiteNoise)
				assert.Equal(t, uint8(2), ch[NoiseChannel].Left)
				assert.Equal(t, Silent, ch[0].Left)
			},
		},
		{
			name:  "periodic noise",
			bytes: []uint8{0xE1},
			testFunc: func(t *testing.T, ch [Channels]ChannelState) {
				assert.Equal(t, uint8(1), ch[NoiseChannel].NoiseRate)
				assert.False(t, ch[NoiseChannel].WhiteNoise)
			},
		},
		{
			name:  "data byte after volume latch is ignored",
			bytes: []uint8{0x80, 0x10, 0x95, 0x3F},
			testFunc: func(t *testing.T, ch [Channels]ChannelState) {
				assert.Equal(t, uint16(0x100), ch[0].Divider)
				assert.Equal(t, uint8(5), ch[0].Left)
			},
		},
		{
			name:  "silence sentinels",
			bytes: []uint8{0x90, 0xF0, 0x9F, 0x9F, 0x9F, 0xFF, 0xFF, 0xFF},
			testFunc: func(t *testing.T, ch [Channels]ChannelState) {
				assert.False(t, ch[0].Active())
				assert.False(t, ch[NoiseChannel].Active())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(DefaultSampleRate)
			writeBoth(p, tt.bytes...)
			tt.testFunc(t, p.Channels())
		})
	}
}

func TestPSG_SeparateSides(t *testing.T) {
	p := New(DefaultSampleRate)
	p.Write(Left, 0x92)
	p.Write(Right, 0x98)

	ch := p.Channels()
	assert.Equal(t, uint8(2), ch[0].Left)
	assert.Equal(t, uint8(8), ch[0].Right)
}

func TestPSG_WriteLog(t *testing.T) {
	p := New(DefaultSampleRate)
	writeBoth(p, 0x81, 0x02)

	writes := p.DrainWrites()
	require.Len(t, writes, 4)
	assert.Equal(t, PortWrite{Side: Left, Value: 0x81}, writes[0])
	assert.Equal(t, PortWrite{Side: Right, Value: 0x81}, writes[1])
	assert.Empty(t, p.DrainWrites(), "drain should clear the log")

	p.SetWriteLog(false)
	writeBoth(p, 0x90)
	assert.Empty(t, p.DrainWrites())
}

func TestPSG_Samples(t *testing.T) {
	p := New(DefaultSampleRate)

	silent := p.GetSamples(256)
	require.Len(t, silent, 256)
	for _, s := range silent {
		assert.Zero(t, s)
	}

	// ~440Hz at full volume
	writeBoth(p, 0x8D, 0x0D, 0x90)
	samples := p.GetSamples(1024)

	var positive, negative int
	for _, s := range samples {
		if s > 0 {
			positive++
		} else if s < 0 {
			negative++
		}
	}
	assert.Greater(t, positive, 100)
	assert.Greater(t, negative, 100)
}

func TestPSG_MuteControls(t *testing.T) {
	p := New(DefaultSampleRate)
	writeBoth(p, 0x8D, 0x0D, 0x90)

	p.SoloChannel(NoiseChannel)
	for _, s := range p.GetSamples(128) {
		assert.Zero(t, s, "tone should be muted while noise is solo")
	}

	p.UnmuteAll()
	p.ToggleChannel(0)
	assert.True(t, p.Channels()[0].Muted)
	p.ToggleChannel(0)
	assert.False(t, p.Channels()[0].Muted)
}

func TestPSG_Reset(t *testing.T) {
	p := New(DefaultSampleRate)
	writeBoth(p, 0x8D, 0x0D, 0x90, 0xE4, 0xF0)
	p.Reset()

	ch := p.Channels()
	assert.Zero(t, ch[0].Divider)
	assert.Equal(t, Silent, ch[0].Left)
	assert.Equal(t, Silent, ch[NoiseChannel].Right)
	assert.Empty(t, p.DrainWrites())
}

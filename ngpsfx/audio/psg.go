package audio

import (
	"math"
	"sync"

	"github.com/valerio/go-ngpsfx/ngpsfx/bit"
)

// volumeTable converts a 4 bit attenuation to linear amplitude.
// 0 = maximum volume, 15 = silence, each step is about -2dB.
var volumeTable [16]float32

func init() {
	for i := 0; i < 15; i++ {
		volumeTable[i] = float32(math.Pow(10, -2.0*float64(i)/20.0))
	}
	volumeTable[15] = 0.0
}

// PortWrite is a single byte seen on one of the chip ports.
type PortWrite struct {
	Side  Side
	Value uint8
}

type latch struct {
	channel uint8 // 0-2 tone, 3 noise
	volume  bool  // latched register is attenuation rather than tone/noise
}

// PSG models the T6W28 sound generator: an SN76489 style chip with three
// tone channels, one noise channel and separate attenuation registers for
// its left and right outputs. Each output has its own write port and its own
// latch, tone and noise settings are shared.
type PSG struct {
	// mu protects all chip state, the co-processor writes and the host
	// audio backend pulls samples from different goroutines.
	mu sync.Mutex

	tone   [ToneChannels]uint16
	noise  uint8 // bit 2: white noise, bits 0-1: shift rate
	volume [2][Channels]uint8
	latch  [2]latch

	// generator state
	sampleRate   int
	ticksPerSamp float64
	toneCounter  [ToneChannels]float64
	toneOutput   [ToneChannels]bool
	noiseCounter float64
	noiseToggle  bool
	lfsr         uint16

	logWrites bool
	writes    []PortWrite

	muted [Channels]bool
}

// New creates a PSG rendering at the given host sample rate.
func New(sampleRate int) *PSG {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	p := &PSG{
		sampleRate:   sampleRate,
		ticksPerSamp: float64(ClockHz) / clockDivider / float64(sampleRate),
		logWrites:    true,
	}
	p.resetLocked()
	return p
}

// Reset returns the chip to its power-on state: all channels silent.
func (p *PSG) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
}

func (p *PSG) resetLocked() {
	p.tone = [ToneChannels]uint16{}
	p.noise = 0
	p.latch = [2]latch{}
	for side := range p.volume {
		for ch := range p.volume[side] {
			p.volume[side][ch] = Silent
		}
	}
	p.toneCounter = [ToneChannels]float64{}
	p.toneOutput = [ToneChannels]bool{}
	p.noiseCounter = 0
	p.noiseToggle = false
	p.lfsr = lfsrInitial
	p.writes = p.writes[:0]
}

// SampleRate returns the host output rate.
func (p *PSG) SampleRate() int {
	return p.sampleRate
}

// Write handles a byte written to the port of the given side.
func (p *PSG) Write(side Side, value uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.logWrites {
		p.writes = append(p.writes, PortWrite{Side: side, Value: value})
	}

	l := &p.latch[side]

	if bit.IsSet(7, value) {
		// LATCH/DATA byte: 1 CC T DDDD
		l.channel = bit.ExtractBits(value, 6, 5)
		l.volume = bit.IsSet(4, value)
		data := bit.Nibble(value)

		switch {
		case l.volume:
			p.volume[side][l.channel] = data
		case l.channel < ToneChannels:
			p.tone[l.channel] = (p.tone[l.channel] & 0x3F0) | uint16(data)
		default:
			p.setNoise(data)
		}
		return
	}

	// DATA byte: 0 X DDDDDD
	if l.volume {
		return
	}
	if l.channel < ToneChannels {
		p.tone[l.channel] = (p.tone[l.channel] & 0x0F) | uint16(value&0x3F)<<4
		return
	}
	p.setNoise(value)
}

func (p *PSG) setNoise(value uint8) {
	p.noise = value & 0x07
	p.lfsr = lfsrInitial
}

// SetWriteLog turns recording of port writes on or off.
func (p *PSG) SetWriteLog(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logWrites = enabled
	if !enabled {
		p.writes = nil
	}
}

// DrainWrites returns the port writes recorded since the last call.
func (p *PSG) DrainWrites() []PortWrite {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.writes
	p.writes = nil
	return out
}

// GetSamples renders count mono samples, mixing both outputs.
func (p *PSG) GetSamples(count int) []int16 {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]int16, count)
	for i := range out {
		out[i] = p.generateSample()
	}
	return out
}

func (p *PSG) generateSample() int16 {
	p.clockTones()
	p.clockNoise()

	var left, right float32
	for ch := 0; ch < Channels; ch++ {
		if p.muted[ch] {
			continue
		}
		high := p.channelHigh(ch)
		left += amplitude(high, p.volume[Left][ch])
		right += amplitude(high, p.volume[Right][ch])
	}

	mix := (left + right) / 2 / Channels
	return int16(mix * math.MaxInt16)
}

func amplitude(high bool, attenuation uint8) float32 {
	a := volumeTable[attenuation&0x0F]
	if !high {
		return -a
	}
	return a
}

func (p *PSG) channelHigh(ch int) bool {
	if ch < ToneChannels {
		return p.toneOutput[ch]
	}
	return p.lfsr&1 == 1
}

func (p *PSG) clockTones() {
	for ch := 0; ch < ToneChannels; ch++ {
		period := float64(p.tone[ch])
		if period == 0 {
			period = 1
		}
		p.toneCounter[ch] -= p.ticksPerSamp
		for p.toneCounter[ch] <= 0 {
			p.toneCounter[ch] += period
			p.toneOutput[ch] = !p.toneOutput[ch]
		}
	}
}

func (p *PSG) noisePeriod() float64 {
	rate := p.noise & 0x03
	if rate == 3 {
		// noise follows tone channel 2
		if p.tone[2] == 0 {
			return 1
		}
		return float64(p.tone[2])
	}
	return float64(uint16(0x10) << rate)
}

func (p *PSG) clockNoise() {
	period := p.noisePeriod()
	p.noiseCounter -= p.ticksPerSamp
	for p.noiseCounter <= 0 {
		p.noiseCounter += period
		p.noiseToggle = !p.noiseToggle
		if p.noiseToggle {
			p.shiftLFSR()
		}
	}
}

func (p *PSG) shiftLFSR() {
	var feedback uint16
	if bit.IsSet(2, p.noise) {
		feedback = parity(p.lfsr & whiteNoiseTaps)
	} else {
		feedback = p.lfsr & 1
	}
	p.lfsr = (p.lfsr >> 1) | (feedback << 14)
}

func parity(v uint16) uint16 {
	v ^= v >> 8
	v ^= v >> 4
	v ^= v >> 2
	v ^= v >> 1
	return v & 1
}

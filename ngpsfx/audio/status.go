package audio

// ChannelState is a snapshot of one channel's registers.
type ChannelState struct {
	Divider uint16 // tone channels only
	Left    uint8  // attenuation, 15 = off
	Right   uint8

	// noise channel only
	NoiseRate  uint8
	WhiteNoise bool

	Muted bool
}

// Active reports whether the channel is audible on either side.
func (c ChannelState) Active() bool {
	return !c.Muted && (c.Left < Silent || c.Right < Silent)
}

// Channels returns the register state of all four channels.
func (p *PSG) Channels() [Channels]ChannelState {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out [Channels]ChannelState
	for ch := 0; ch < Channels; ch++ {
		out[ch] = ChannelState{
			Left:  p.volume[Left][ch],
			Right: p.volume[Right][ch],
			Muted: p.muted[ch],
		}
		if ch < ToneChannels {
			out[ch].Divider = p.tone[ch]
		}
	}
	out[NoiseChannel].NoiseRate = p.noise & 0x03
	out[NoiseChannel].WhiteNoise = p.noise&0x04 != 0
	return out
}

// ToggleChannel flips the mute state of a channel.
func (p *PSG) ToggleChannel(channel int) {
	if channel < 0 || channel >= Channels {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted[channel] = !p.muted[channel]
}

// SoloChannel mutes every channel except the given one.
func (p *PSG) SoloChannel(channel int) {
	if channel < 0 || channel >= Channels {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.muted {
		p.muted[i] = i != channel
	}
}

// UnmuteAll clears every mute.
func (p *PSG) UnmuteAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = [Channels]bool{}
}

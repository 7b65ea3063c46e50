package audio

// Provider is what the console needs from a sound chip.
type Provider interface {
	// GetSamples retrieves audio samples for playback
	GetSamples(count int) []int16

	// SampleRate is the rate GetSamples renders at
	SampleRate() int

	// Port write recording, used by the write log and the trace command
	SetWriteLog(enabled bool)
	DrainWrites() []PortWrite

	// Audio debugging controls

	ToggleChannel(channel int)
	SoloChannel(channel int)
	UnmuteAll()
	Channels() [Channels]ChannelState
}

var _ Provider = (*PSG)(nil)

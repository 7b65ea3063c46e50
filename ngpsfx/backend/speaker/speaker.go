//go:build speaker

package speaker

import (
	"fmt"
	"log/slog"

	"github.com/ebitengine/oto/v3"
	"github.com/valerio/go-ngpsfx/ngpsfx/backend"
)

var _ backend.Backend = (*Backend)(nil)

// Backend plays frame samples on the default audio device through oto.
type Backend struct {
	queue  *sampleQueue
	player *oto.Player
}

func New() *Backend {
	return &Backend{}
}

func (b *Backend) Init(config backend.Config) error {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   config.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return fmt.Errorf("failed to open audio device: %w", err)
	}
	<-ready

	// a quarter second of headroom
	b.queue = newSampleQueue(config.SampleRate / 4)
	b.player = ctx.NewPlayer(b.queue)
	b.player.Play()

	slog.Info("Speaker backend initialized", "sample_rate", config.SampleRate)
	return nil
}

func (b *Backend) Update(frame *backend.Frame) error {
	b.queue.Push(frame.Samples)
	return nil
}

func (b *Backend) Cleanup() error {
	if b.player == nil {
		return nil
	}
	if b.queue.dropped > 0 {
		slog.Debug("Speaker dropped late samples", "samples", b.queue.dropped)
	}
	return b.player.Close()
}

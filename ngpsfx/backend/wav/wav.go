// Package wav records the rendered PSG output to a 16 bit mono WAV file.
package wav

import (
	"fmt"
	"log/slog"
	"os"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/valerio/go-ngpsfx/ngpsfx/backend"
)

const (
	bitDepth  = 16
	pcmFormat = 1
)

var _ backend.Backend = (*Backend)(nil)

// Backend implements the Backend interface by appending every frame's
// samples to a WAV file.
type Backend struct {
	path    string
	file    *os.File
	encoder *gowav.Encoder
	buf     *goaudio.IntBuffer
	samples int
}

func New(path string) *Backend {
	return &Backend{path: path}
}

func (b *Backend) Init(config backend.Config) error {
	f, err := os.Create(b.path)
	if err != nil {
		return fmt.Errorf("failed to create wav file: %w", err)
	}

	b.file = f
	b.encoder = gowav.NewEncoder(f, config.SampleRate, bitDepth, 1, pcmFormat)
	b.buf = &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: config.SampleRate},
		SourceBitDepth: bitDepth,
	}

	slog.Info("Recording to wav", "path", b.path, "sample_rate", config.SampleRate)
	return nil
}

func (b *Backend) Update(frame *backend.Frame) error {
	if len(frame.Samples) == 0 {
		return nil
	}

	b.buf.Data = b.buf.Data[:0]
	for _, s := range frame.Samples {
		b.buf.Data = append(b.buf.Data, int(s))
	}
	if err := b.encoder.Write(b.buf); err != nil {
		return fmt.Errorf("failed to write samples: %w", err)
	}
	b.samples += len(frame.Samples)
	return nil
}

// Cleanup finalises the WAV header and closes the file.
func (b *Backend) Cleanup() error {
	if b.encoder == nil {
		return nil
	}

	encErr := b.encoder.Close()
	fileErr := b.file.Close()
	b.encoder = nil

	if encErr != nil {
		return fmt.Errorf("failed to finalise wav file: %w", encErr)
	}
	if fileErr != nil {
		return fmt.Errorf("failed to close wav file: %w", fileErr)
	}

	slog.Info("Wav file written", "path", b.path, "samples", b.samples)
	return nil
}

// Samples returns the number of samples written so far.
func (b *Backend) Samples() int {
	return b.samples
}

package headless

import (
	"io"
	"log/slog"
	"os"

	"github.com/valerio/go-ngpsfx/ngpsfx/backend"
)

var _ backend.Backend = (*Backend)(nil)

// Backend implements the Backend interface for batch runs and CI: it logs
// what the driver does and ends the loop after a fixed number of frames.
type Backend struct {
	config      backend.Config
	frameCount  int
	logInterval int
	out         io.Writer
	logger      *slog.Logger

	batches  int
	timeouts int
}

// New creates a headless backend that logs progress every logInterval
// frames (0 disables progress lines).
func New(logInterval int) *Backend {
	return &Backend{
		logInterval: logInterval,
		out:         os.Stderr,
	}
}

func (h *Backend) Init(config backend.Config) error {
	h.config = config

	// Set up logging for headless mode
	handler := slog.NewTextHandler(h.out, &slog.HandlerOptions{
		Level: config.LogLevel,
	})
	h.logger = slog.New(handler)
	slog.SetDefault(h.logger)

	h.logger.Info("Running headless mode",
		"title", config.Title,
		"frames", config.MaxFrames,
		"sample_rate", config.SampleRate)

	return nil
}

// Update logs the frame and signals completion once MaxFrames is reached.
func (h *Backend) Update(frame *backend.Frame) error {
	h.frameCount++

	for _, b := range frame.Batches {
		h.batches++
		if b.TimedOut {
			h.timeouts++
		}
		h.logger.Debug("Batch committed",
			"frame", frame.Number,
			"commands", len(b.Commands),
			"spins", b.Spins,
			"timed_out", b.TimedOut)
	}

	if h.logInterval > 0 && h.frameCount%h.logInterval == 0 {
		h.logger.Info("Frame progress",
			"completed", h.frameCount,
			"total", h.config.MaxFrames,
			"tone_ticks", frame.Timers.Tone,
			"noise_ticks", frame.Timers.Noise)
	}

	if h.config.MaxFrames > 0 && h.frameCount >= h.config.MaxFrames {
		return backend.ErrQuit
	}
	return nil
}

func (h *Backend) Cleanup() error {
	if h.logger != nil {
		h.logger.Info("Headless execution completed",
			"frames", h.frameCount,
			"batches", h.batches,
			"timeouts", h.timeouts)
	}
	return nil
}

// Frames returns the number of frames seen so far.
func (h *Backend) Frames() int {
	return h.frameCount
}

package backend

import (
	"errors"
	"log/slog"

	"github.com/valerio/go-ngpsfx/ngpsfx/audio"
	"github.com/valerio/go-ngpsfx/ngpsfx/coproc"
	"github.com/valerio/go-ngpsfx/ngpsfx/debug"
	"github.com/valerio/go-ngpsfx/ngpsfx/sfx"
)

// ErrQuit is returned by Update when the backend wants the frame loop to end.
var ErrQuit = errors.New("backend requested quit")

// Backend is a sink for the frames produced by the driver loop.
// Backends are responsible for:
// - Presenting the frame (monitor, log, audio device, file)
// - Reporting user requests back through the callbacks in Config
type Backend interface {
	// Init configures the backend with the provided configuration.
	// This is a required step before calling Update.
	Init(config Config) error

	// Update consumes one frame. Returning ErrQuit ends the loop cleanly.
	Update(frame *Frame) error

	// Cleanup resources when shutting down
	Cleanup() error
}

// Config holds configuration for backends
type Config struct {
	Title      string
	SampleRate int
	MaxFrames  int        // 0 = until the script ends
	LogLevel   slog.Level // used by backends that install their own log handler
	Callbacks  Callbacks
}

// Callbacks allows backends to act on the running session
type Callbacks struct {
	OnQuit func()

	// Host mix controls, none of these reach the driver
	OnToggleChannel func(channel int)
	OnSoloChannel   func(channel int)
	OnUnmuteAll     func()

	// OnStop silences both driver channels
	OnStop func()

	// OnToggleStall freezes or resumes the co-processor, leaving the
	// driver to find the doorbell stuck
	OnToggleStall func()
}

// Frame is everything that happened during one driver frame.
type Frame struct {
	Number  int
	Timers  sfx.Timers
	Stats   sfx.Stats
	Batches []sfx.Batch       // committed during the frame, in order
	Writes  []audio.PortWrite // bytes the co-processor sent to the PSG
	Audio   *debug.AudioData  // channel state at the end of the frame
	Samples []int16           // mono PCM at Config.SampleRate
	Coproc  coproc.Status     // co-processor registers after the frame
}

type multi []Backend

// Multi fans every call out to all the given backends. Init stops at the
// first failure. Update keeps going and returns ErrQuit if any backend asked
// to quit, otherwise the first error seen.
func Multi(backends ...Backend) Backend {
	return multi(backends)
}

func (m multi) Init(config Config) error {
	for _, b := range m {
		if err := b.Init(config); err != nil {
			return err
		}
	}
	return nil
}

func (m multi) Update(frame *Frame) error {
	var firstErr error
	quit := false
	for _, b := range m {
		err := b.Update(frame)
		switch {
		case err == nil:
		case errors.Is(err, ErrQuit):
			quit = true
		case firstErr == nil:
			firstErr = err
		}
	}
	if firstErr != nil {
		return firstErr
	}
	if quit {
		return ErrQuit
	}
	return nil
}

func (m multi) Cleanup() error {
	var errs []error
	for i := len(m) - 1; i >= 0; i-- {
		if err := m[i].Cleanup(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

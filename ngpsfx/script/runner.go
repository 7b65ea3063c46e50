package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/valerio/go-ngpsfx/ngpsfx/backend"
	"github.com/valerio/go-ngpsfx/ngpsfx/sfx"
	"github.com/valerio/go-ngpsfx/ngpsfx/timing"
)

// Load compiles a sequence file, Lua for .lua files and the text cue format
// for anything else.
func Load(ctx context.Context, path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".lua") {
		return CompileLua(ctx, filepath.Base(path), string(data))
	}
	prog, err := ParseText(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return prog, nil
}

// Session is what a Runner drives: a driver and the end of frame hook that
// runs its Update and produces the frame for the backend.
type Session interface {
	Driver() *sfx.Driver
	EndFrame() *backend.Frame
}

// Runner plays a program against a session, one frame at a time.
type Runner struct {
	Session Session
	Backend backend.Backend
	Limiter timing.Limiter

	// MaxFrames stops the run after this many frames. With 0 the run lasts
	// until the program is over and both channel timers are idle.
	MaxFrames int
}

// Run plays prog. It returns nil when the program finishes or the backend
// asks to quit, and ctx.Err() if the context ends first.
func (r *Runner) Run(ctx context.Context, prog *Program) error {
	limiter := r.Limiter
	if limiter == nil {
		limiter = timing.NewNoOpLimiter()
	}
	limiter.Reset()

	d := r.Session.Driver()
	for frame := 0; ; frame++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.done(frame, prog, d) {
			return nil
		}

		for _, cue := range prog.At(frame) {
			cue.Apply(d)
		}

		err := r.Backend.Update(r.Session.EndFrame())
		if errors.Is(err, backend.ErrQuit) {
			return nil
		}
		if err != nil {
			return err
		}

		limiter.WaitForNextFrame()
	}
}

func (r *Runner) done(frame int, prog *Program, d *sfx.Driver) bool {
	if r.MaxFrames > 0 {
		return frame >= r.MaxFrames
	}
	return frame >= prog.Length && !d.Busy()
}

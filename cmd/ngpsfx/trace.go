package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/urfave/cli"
	"github.com/valerio/go-ngpsfx/ngpsfx/backend"
	"github.com/valerio/go-ngpsfx/ngpsfx/script"
	"github.com/valerio/go-ngpsfx/ngpsfx/timing"
)

// tracer prints the batches and PSG writes of every frame that had any.
type tracer struct {
	w io.Writer
}

func (t *tracer) Init(config backend.Config) error {
	return nil
}

func (t *tracer) Update(frame *backend.Frame) error {
	for _, b := range frame.Batches {
		status := ""
		if b.TimedOut {
			status = " timeout"
		}
		fmt.Fprintf(t.w, "%5d commit spins=%d%s", frame.Number, b.Spins, status)
		for _, cmd := range b.Commands {
			fmt.Fprintf(t.w, " [%s]", cmd)
		}
		fmt.Fprintln(t.w)
	}
	for _, w := range frame.Writes {
		fmt.Fprintf(t.w, "%5d psg %s %02X\n", frame.Number, w.Side, w.Value)
	}
	return nil
}

func (t *tracer) Cleanup() error {
	return nil
}

func runTrace(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	prog, err := loadProgram(ctx, c.String("script"))
	if err != nil {
		return err
	}
	console, err := newConsole(c, true)
	if err != nil {
		return err
	}

	runner := &script.Runner{
		Session:   console,
		Backend:   &tracer{w: os.Stdout},
		Limiter:   timing.NewNoOpLimiter(),
		MaxFrames: maxFrames(c),
	}
	if err := runner.Run(ctx, prog); err != nil {
		return err
	}

	stats := console.Driver().Stats()
	fmt.Printf("frames=%d commits=%d timeouts=%d dropped=%d silences=%d\n",
		console.Frame(), stats.Commits, stats.Timeouts, stats.Dropped, stats.Silences)
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/urfave/cli"
	"github.com/valerio/go-ngpsfx/ngpsfx"
	"github.com/valerio/go-ngpsfx/ngpsfx/audio"
	"github.com/valerio/go-ngpsfx/ngpsfx/backend"
	"github.com/valerio/go-ngpsfx/ngpsfx/backend/headless"
	"github.com/valerio/go-ngpsfx/ngpsfx/backend/speaker"
	"github.com/valerio/go-ngpsfx/ngpsfx/backend/terminal"
	"github.com/valerio/go-ngpsfx/ngpsfx/backend/wav"
	"github.com/valerio/go-ngpsfx/ngpsfx/script"
	"github.com/valerio/go-ngpsfx/ngpsfx/sfx"
	"github.com/valerio/go-ngpsfx/ngpsfx/timing"
	"github.com/valerio/go-ngpsfx/ngpsfx/z80drv"
)

// demo is played when run or trace get no script.
const demo = `
# coin
0   play 0x0D8 0 4
4   play 0x0A2 0 12
# explosion
30  noise 2 1 0 40 6
36  noise 3 1 2 30
36  tone 0x3F0 15
# jump
80  tone_noise 0x1B6 2 10 1 1 6 0 3
84  tone 0x150 2
88  tone 0x110 3
# raw batch, left sustained
100 batch 8A0D93 E49FF4
# everything off
120 stop
130 end
`

var runFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "script",
		Usage: "Sequence to play: .lua for Lua, anything else for the text cue format (default: built-in demo)",
	},
	cli.IntFlag{
		Name:  "frames",
		Usage: "Stop after N frames (0 = when the sequence is over and both channels are idle)",
	},
	cli.DurationFlag{
		Name:  "duration",
		Usage: "Stop after this much playing time, used when --frames is not set",
	},
	cli.IntFlag{
		Name:  "spin-limit",
		Usage: "Doorbell polls before a commit gives up waiting for the co-processor",
		Value: sfx.DefaultSpinLimit,
	},
	cli.IntFlag{
		Name:  "sample-rate",
		Usage: "PSG output sample rate",
		Value: audio.DefaultSampleRate,
	},
}

func main() {
	app := cli.NewApp()
	app.Name = "ngpsfx"
	app.Description = "Sound effect driver for the handheld's Z80 sound co-processor, with a simulated co-processor to run it on"
	app.Usage = "ngpsfx [options] <command>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
			Value: "info",
		},
	}
	app.Before = setupLogging
	app.Commands = []cli.Command{
		{
			Name:  "listing",
			Usage: "Disassemble the co-processor program",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "plain",
					Usage: "No colours",
				},
			},
			Action: runListing,
		},
		{
			Name:  "run",
			Usage: "Play a sequence on the simulated hardware",
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "backend",
					Usage: "Comma separated outputs: headless, terminal, wav, speaker",
					Value: "headless",
				},
				cli.StringFlag{
					Name:  "out",
					Usage: "WAV file written by the wav backend",
					Value: "ngpsfx.wav",
				},
				cli.BoolFlag{
					Name:  "realtime",
					Usage: "Pace frames at 60Hz (always on for terminal and speaker)",
				},
			}, runFlags...),
			Action: runSequence,
		},
		{
			Name:   "trace",
			Usage:  "Print every committed batch and PSG write of a sequence",
			Flags:  runFlags,
			Action: runTrace,
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running ngpsfx", "error", err)
		os.Exit(1)
	}
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("bad log level %q: %w", s, err)
	}
	return level, nil
}

func setupLogging(c *cli.Context) error {
	level, err := parseLevel(c.GlobalString("log-level"))
	if err != nil {
		return err
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
	return nil
}

func runListing(c *cli.Context) error {
	return z80drv.Listing(os.Stdout, z80drv.Image(), !c.Bool("plain"))
}

func loadProgram(ctx context.Context, path string) (*script.Program, error) {
	if path == "" {
		return script.ParseText(strings.NewReader(demo))
	}
	return script.Load(ctx, path)
}

// maxFrames is the frame cap from --frames, or from --duration when no
// frame count was given.
func maxFrames(c *cli.Context) int {
	if n := c.Int("frames"); n > 0 {
		return n
	}
	return timing.FramesFor(c.Duration("duration"))
}

func newConsole(c *cli.Context, writeLog bool) (*ngpsfx.Console, error) {
	if c.Int("spin-limit") < 0 {
		return nil, errors.New("--spin-limit must not be negative")
	}
	if c.Int("sample-rate") <= 0 {
		return nil, errors.New("--sample-rate must be positive")
	}
	return ngpsfx.New(
		ngpsfx.WithSpinLimit(c.Int("spin-limit")),
		ngpsfx.WithSampleRate(c.Int("sample-rate")),
		ngpsfx.WithWriteLog(writeLog),
		ngpsfx.WithLogger(slog.Default()),
	), nil
}

// pacing says how a set of backends wants frames paced.
type pacing int

const (
	pacingNone pacing = iota
	pacingTicker
	// audio devices drain at a fixed rate, a steady schedule keeps them fed
	pacingAdaptive
)

// newBackend builds the comma separated outputs in names.
func newBackend(names, out string) (backend.Backend, pacing, error) {
	var backends []backend.Backend
	pace := pacingNone

	for _, name := range strings.Split(names, ",") {
		switch strings.TrimSpace(name) {
		case "headless":
			backends = append(backends, headless.New(60))
		case "terminal":
			backends = append(backends, terminal.New())
			pace = max(pace, pacingTicker)
		case "wav":
			backends = append(backends, wav.New(out))
		case "speaker":
			backends = append(backends, speaker.New())
			pace = pacingAdaptive
		default:
			return nil, pacingNone, fmt.Errorf("unknown backend %q", name)
		}
	}

	if len(backends) == 1 {
		return backends[0], pace, nil
	}
	return backend.Multi(backends...), pace, nil
}

func newLimiter(pace pacing) (timing.Limiter, func()) {
	switch pace {
	case pacingAdaptive:
		return timing.NewAdaptiveLimiter(), func() {}
	case pacingTicker:
		ticker := timing.NewTickerLimiter()
		return ticker, ticker.Stop
	}
	return timing.NewNoOpLimiter(), func() {}
}

func runSequence(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	prog, err := loadProgram(ctx, c.String("script"))
	if err != nil {
		return err
	}

	out, pace, err := newBackend(c.String("backend"), c.String("out"))
	if err != nil {
		return err
	}

	// the console is created after Init so it logs through whatever handler
	// the backend installs; callbacks resolve it when they fire
	var console *ngpsfx.Console
	level, _ := parseLevel(c.GlobalString("log-level"))
	config := backend.Config{
		Title:      "ngpsfx",
		SampleRate: c.Int("sample-rate"),
		MaxFrames:  maxFrames(c),
		LogLevel:   level,
		Callbacks:  lazyCallbacks(&console, stop),
	}
	if err := out.Init(config); err != nil {
		return err
	}
	defer func() {
		if err := out.Cleanup(); err != nil {
			slog.Error("Failed to clean up backend", "error", err)
		}
	}()

	console, err = newConsole(c, false)
	if err != nil {
		return err
	}

	if c.Bool("realtime") {
		pace = max(pace, pacingTicker)
	}
	limiter, stopLimiter := newLimiter(pace)
	defer stopLimiter()

	slog.Info("Playing sequence",
		"cues", len(prog.Cues),
		"frames", prog.Length,
		"spin_limit", console.Driver().SpinLimit())
	runner := &script.Runner{
		Session:   console,
		Backend:   out,
		Limiter:   limiter,
		MaxFrames: maxFrames(c),
	}
	err = runner.Run(ctx, prog)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func lazyCallbacks(console **ngpsfx.Console, quit func()) backend.Callbacks {
	with := func(fn func(cb backend.Callbacks)) {
		if *console != nil {
			fn((*console).Callbacks())
		}
	}
	return backend.Callbacks{
		OnQuit: quit,
		OnToggleChannel: func(ch int) {
			with(func(cb backend.Callbacks) { cb.OnToggleChannel(ch) })
		},
		OnSoloChannel: func(ch int) {
			with(func(cb backend.Callbacks) { cb.OnSoloChannel(ch) })
		},
		OnUnmuteAll: func() {
			with(func(cb backend.Callbacks) { cb.OnUnmuteAll() })
		},
		OnStop: func() {
			with(func(cb backend.Callbacks) { cb.OnStop() })
		},
		OnToggleStall: func() {
			with(func(cb backend.Callbacks) { cb.OnToggleStall() })
		},
	}
}

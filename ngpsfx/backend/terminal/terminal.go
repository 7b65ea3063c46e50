package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-ngpsfx/ngpsfx/audio"
	"github.com/valerio/go-ngpsfx/ngpsfx/backend"
	"github.com/valerio/go-ngpsfx/ngpsfx/backend/terminal/render"
	"github.com/valerio/go-ngpsfx/ngpsfx/debug"
	"github.com/valerio/go-ngpsfx/ngpsfx/input"
	"github.com/valerio/go-ngpsfx/ngpsfx/input/action"
	"github.com/valerio/go-ngpsfx/ngpsfx/sfx"
)

const (
	minTermWidth  = 60
	minTermHeight = 22

	historySize = 8
	meterWidth  = 15

	// the scope sits right of the channel table when there is room
	scopeX    = 67
	scopeMin  = 16
	scopeRate = 8000 // columns per second of signal
)

var _ backend.Backend = (*Backend)(nil)

// Backend implements the Backend interface as a live tcell monitor: channel
// registers, driver timers and counters, recent batches and logs.
type Backend struct {
	screen    tcell.Screen
	quit      atomic.Bool
	logBuffer *render.LogBuffer
	logLevel  slog.Level
	config    backend.Config
	input     *input.Manager

	history []sfx.Batch
}

// New creates a new terminal backend
func New() *Backend {
	return &Backend{
		logLevel: slog.LevelInfo,
	}
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.Config) error {
	t.config = config
	t.logLevel = config.LogLevel
	t.bindActions()

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to initialize terminal: %w", err)
		}
		t.screen = screen
		go t.handleSignals()
	}

	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}

	t.logBuffer = render.NewLogBuffer(100)
	handler := render.NewLogBufferHandler(t.logBuffer, slog.LevelDebug)
	slog.SetDefault(slog.New(handler))

	slog.Info("Terminal backend initialized")

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	return nil
}

// Update renders a frame and processes events
func (t *Backend) Update(frame *backend.Frame) error {
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	if t.quit.Load() {
		if t.config.Callbacks.OnQuit != nil {
			t.config.Callbacks.OnQuit()
		}
		return backend.ErrQuit
	}

	t.history = append(t.history, frame.Batches...)
	if len(t.history) > historySize {
		t.history = t.history[len(t.history)-historySize:]
	}

	t.render(frame)
	t.screen.Show()

	if t.config.MaxFrames > 0 && frame.Number+1 >= t.config.MaxFrames {
		return backend.ErrQuit
	}
	return nil
}

// Cleanup cleans up terminal resources
func (t *Backend) Cleanup() error {
	if t.screen != nil {
		slog.Info("Cleaning up terminal backend")
		t.screen.Fini()
	}
	return nil
}

func (t *Backend) handleSignals() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	<-signals
	t.quit.Store(true)
}

// bindActions registers what each input action does on this backend.
func (t *Backend) bindActions() {
	t.input = input.NewManager()
	cb := t.config.Callbacks

	t.input.On(action.Quit, func() { t.quit.Store(true) })
	t.input.On(action.LogLevelIncrease, func() { t.changeLogLevel(1) })
	t.input.On(action.LogLevelDecrease, func() { t.changeLogLevel(-1) })

	for act := action.ToggleChannel1; act <= action.ToggleChannel4; act++ {
		ch, _ := act.Channel()
		if cb.OnToggleChannel != nil {
			t.input.On(act, func() { cb.OnToggleChannel(ch) })
		}
	}
	for act := action.SoloChannel1; act <= action.SoloChannel4; act++ {
		ch, _ := act.Channel()
		if cb.OnSoloChannel != nil {
			t.input.On(act, func() { cb.OnSoloChannel(ch) })
		}
	}
	if cb.OnUnmuteAll != nil {
		t.input.On(action.UnmuteAll, cb.OnUnmuteAll)
	}
	if cb.OnStop != nil {
		t.input.On(action.StopSound, cb.OnStop)
	}
	if cb.OnToggleStall != nil {
		t.input.On(action.ToggleStall, cb.OnToggleStall)
	}
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey) {
	if key := keyName(ev); key != "" {
		t.input.TriggerKey(key)
	}
}

// keyName converts a key event to its name in the input key map.
func keyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyEscape:
		return "Escape"
	case tcell.KeyCtrlC:
		return "Ctrl-C"
	case tcell.KeyF1:
		return "F1"
	case tcell.KeyF2:
		return "F2"
	case tcell.KeyF3:
		return "F3"
	case tcell.KeyF4:
		return "F4"
	case tcell.KeyRune:
		if ev.Rune() == ' ' {
			return "Space"
		}
		return string(ev.Rune())
	}
	return ""
}

// changeLogLevel moves the log panel filter: +1 shows more, -1 shows less.
func (t *Backend) changeLogLevel(direction int) {
	oldLevel := t.logLevel
	switch direction {
	case -1:
		switch t.logLevel {
		case slog.LevelDebug:
			t.logLevel = slog.LevelInfo
		case slog.LevelInfo:
			t.logLevel = slog.LevelWarn
		case slog.LevelWarn:
			t.logLevel = slog.LevelError
		}
	case 1:
		switch t.logLevel {
		case slog.LevelError:
			t.logLevel = slog.LevelWarn
		case slog.LevelWarn:
			t.logLevel = slog.LevelInfo
		case slog.LevelInfo:
			t.logLevel = slog.LevelDebug
		}
	}
	if oldLevel != t.logLevel {
		slog.Info("Log level changed", "from", oldLevel, "to", t.logLevel)
	}
}

func (t *Backend) render(frame *backend.Frame) {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, style)
		return
	}

	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	title := t.config.Title
	if title == "" {
		title = "ngpsfx"
	}
	t.drawText(0, 0, termWidth, fmt.Sprintf("%s  frame %d", title, frame.Number), titleStyle)

	y := t.drawChannels(0, 2, termWidth, frame)
	y = t.drawDriver(0, y+1, termWidth, frame)
	y = t.drawHistory(0, y+1, termWidth)
	t.drawLogs(0, y+1, termWidth, termHeight)
}

func (t *Backend) drawChannels(x, y, width int, frame *backend.Frame) int {
	headerStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	activeStyle := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	idleStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	mutedStyle := tcell.StyleDefault.Foreground(tcell.ColorDarkRed)

	t.drawText(x, y, width, fmt.Sprintf("%-8s %-6s %-10s %-5s %-*s %-*s", "CH", "DIV", "FREQ", "NOTE", meterWidth, "LEFT", meterWidth, "RIGHT"), headerStyle)
	if frame.Audio == nil {
		return y + 1
	}

	var scope []float32
	if width-scopeX >= scopeMin {
		scope = make([]float32, width-scopeX)
		t.drawText(scopeX, y, len(scope), "SCOPE", headerStyle)
	}

	for i, ch := range frame.Audio.Channels {
		style := idleStyle
		switch {
		case ch.Muted:
			style = mutedStyle
		case ch.Enabled:
			style = activeStyle
		}

		freq := "--"
		if ch.Frequency > 0 {
			freq = fmt.Sprintf("%.1fHz", ch.Frequency)
		}
		name := ch.Name
		if ch.Muted {
			name += "*"
		}
		line := fmt.Sprintf("%-8s %03X    %-10s %-5s %s %s",
			name, ch.Divider, freq, ch.Note,
			render.Meter(ch.Left, meterWidth), render.Meter(ch.Right, meterWidth))
		t.drawText(x, y+1+i, min(width, scopeX-1), line, style)

		if scope != nil && i < audio.ToneChannels {
			debug.GenerateWaveformSamples(scope, ch, scopeRate)
			t.drawText(scopeX, y+1+i, len(scope), render.Scope(scope), style)
		}
	}
	return y + 1 + audio.Channels
}

func (t *Backend) drawDriver(x, y, width int, frame *backend.Frame) int {
	style := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	lines := []string{
		fmt.Sprintf("Timers: tone %3d  noise %3d", frame.Timers.Tone, frame.Timers.Noise),
		fmt.Sprintf("Commits: %d  Timeouts: %d  Dropped: %d  Silences: %d",
			frame.Stats.Commits, frame.Stats.Timeouts, frame.Stats.Dropped, frame.Stats.Silences),
	}

	z := frame.Coproc
	lines = append(lines,
		fmt.Sprintf("Z80: %-7s PC %04X SP %04X HL %04X A %02X B %02X  cycles %d",
			z.State(), z.PC, z.SP, z.HL, z.A, z.B, z.Cycles))
	if len(z.Mailbox) > 0 {
		lines = append(lines, fmt.Sprintf("Mailbox: %02X | % X", z.Mailbox[0], z.Mailbox[1:]))
	}
	for i, line := range lines {
		t.drawText(x, y+i, width, line, style)
	}
	return y + len(lines)
}

func (t *Backend) drawHistory(x, y, width int) int {
	okStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	lateStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	for i := 0; i < historySize; i++ {
		if i >= len(t.history) {
			break
		}
		b := t.history[len(t.history)-1-i]
		style := okStyle
		line := fmt.Sprintf("%d cmd", len(b.Commands))
		for _, cmd := range b.Commands {
			line += "  " + cmd.String()
		}
		if b.TimedOut {
			style = lateStyle
			line += "  (busy)"
		}
		t.drawText(x, y+i, width, line, style)
	}
	return y + historySize
}

func (t *Backend) drawLogs(x, y, width, termHeight int) {
	availableHeight := termHeight - y
	if width <= 0 || availableHeight <= 0 {
		return
	}

	allLogs := t.logBuffer.GetRecent(availableHeight * 2)
	logs := make([]render.LogEntry, 0, availableHeight)
	for _, entry := range allLogs {
		if entry.Level >= t.logLevel {
			logs = append(logs, entry)
			if len(logs) >= availableHeight {
				break
			}
		}
	}

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	for i, logEntry := range logs {
		style := infoStyle
		switch logEntry.Level {
		case slog.LevelDebug:
			style = debugStyle
		case slog.LevelWarn:
			style = warnStyle
		case slog.LevelError:
			style = errStyle
		}
		t.drawText(x, y+i, width, render.FormatLogEntry(logEntry), style)
	}
}

func (t *Backend) drawText(x, y, width int, text string, style tcell.Style) {
	for _, ch := range render.Truncate(text, width) {
		t.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

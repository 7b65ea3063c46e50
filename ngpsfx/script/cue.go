// Package script turns sound effect sequences into frame indexed cues and
// plays them against a driver.
//
// Sequences are written either in Lua or in a plain text cue format. Both
// compile to the same Program, a sorted list of driver calls with the frame
// they happen on.
package script

import (
	"fmt"
	"sort"
	"strings"

	"github.com/valerio/go-ngpsfx/ngpsfx/sfx"
)

// Op is the driver call a cue makes.
type Op int

const (
	OpPlay Op = iota
	OpTone
	OpNoise
	OpSetNoise
	OpToneNoise
	OpSend
	OpBatch
	OpStop
)

var opNames = map[Op]string{
	OpPlay:      "play",
	OpTone:      "tone",
	OpNoise:     "noise",
	OpSetNoise:  "set_noise",
	OpToneNoise: "tone_noise",
	OpSend:      "send",
	OpBatch:     "batch",
	OpStop:      "stop",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Cue is a single driver call scheduled on a frame.
type Cue struct {
	Frame    int
	Op       Op
	Tone     sfx.Tone
	Noise    sfx.Noise
	Commands []sfx.Command // send and batch
}

// Apply makes the cue's driver call.
func (c Cue) Apply(d *sfx.Driver) {
	switch c.Op {
	case OpPlay:
		d.Play(c.Tone.Divider, c.Tone.Attenuation, c.Tone.Duration)
	case OpTone:
		d.SetTone(c.Tone.Divider, c.Tone.Attenuation)
	case OpNoise:
		n := c.Noise
		d.PlayNoise(n.Rate, n.Type, n.Attenuation, n.Duration, n.Burst, n.BurstDuration)
	case OpSetNoise:
		d.SetNoise(c.Noise.Rate, c.Noise.Type, c.Noise.Attenuation)
	case OpToneNoise:
		d.PlayToneNoise(c.Tone, c.Noise)
	case OpSend:
		for _, cmd := range c.Commands {
			d.SendBytes(cmd[0], cmd[1], cmd[2])
		}
	case OpBatch:
		d.BufferBegin()
		for _, cmd := range c.Commands {
			d.BufferPush(cmd[0], cmd[1], cmd[2])
		}
		d.BufferCommit()
	case OpStop:
		d.Stop()
	}
}

func (c Cue) String() string {
	var args string
	switch c.Op {
	case OpPlay:
		args = fmt.Sprintf(" %d %d %d", c.Tone.Divider, c.Tone.Attenuation, c.Tone.Duration)
	case OpTone:
		args = fmt.Sprintf(" %d %d", c.Tone.Divider, c.Tone.Attenuation)
	case OpNoise:
		args = fmt.Sprintf(" %d %d %d %d", c.Noise.Rate, c.Noise.Type, c.Noise.Attenuation, c.Noise.Duration)
		if c.Noise.Burst {
			args += fmt.Sprintf(" %d", c.Noise.BurstDuration)
		}
	case OpSetNoise:
		args = fmt.Sprintf(" %d %d %d", c.Noise.Rate, c.Noise.Type, c.Noise.Attenuation)
	case OpToneNoise:
		args = fmt.Sprintf(" %d %d %d %d %d %d %d", c.Tone.Divider, c.Tone.Attenuation, c.Tone.Duration,
			c.Noise.Rate, c.Noise.Type, c.Noise.Attenuation, c.Noise.Duration)
		if c.Noise.Burst {
			args += fmt.Sprintf(" %d", c.Noise.BurstDuration)
		}
	case OpSend, OpBatch:
		parts := make([]string, len(c.Commands))
		for i, cmd := range c.Commands {
			parts[i] = fmt.Sprintf("%02X%02X%02X", cmd[0], cmd[1], cmd[2])
		}
		args = " " + strings.Join(parts, " ")
	}
	return fmt.Sprintf("%d %s%s", c.Frame, c.Op, args)
}

// Program is a compiled sequence.
type Program struct {
	Cues []Cue
	// Length is the number of frames the sequence spans, at least one past
	// the last cue. Trailing waits extend it.
	Length int
}

// sort orders cues by frame, keeping source order within a frame.
func (p *Program) sort() {
	sort.SliceStable(p.Cues, func(i, j int) bool {
		return p.Cues[i].Frame < p.Cues[j].Frame
	})
	for _, c := range p.Cues {
		p.Length = max(p.Length, c.Frame+1)
	}
}

// At returns the cues scheduled on frame.
func (p *Program) At(frame int) []Cue {
	lo := sort.Search(len(p.Cues), func(i int) bool { return p.Cues[i].Frame >= frame })
	hi := lo
	for hi < len(p.Cues) && p.Cues[hi].Frame == frame {
		hi++
	}
	return p.Cues[lo:hi]
}

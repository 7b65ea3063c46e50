package script

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/valerio/go-ngpsfx/ngpsfx/sfx"
)

// ErrUnknownCommand is returned for a cue whose command name is not known.
var ErrUnknownCommand = errors.New("unknown command")

// ParseText compiles the plain text cue format. Each non blank line is
//
//	<frame> <command> <args...>
//
// with the same commands and argument order as the Lua functions, except
// send and batch, which take commands as six hex digits ("8A0D90"). A line
// "<frame> end" stretches the program to that many frames. Everything after
// '#' is a comment. Numbers accept 0x and 0b prefixes.
func ParseText(r io.Reader) (*Program, error) {
	prog := &Program{}
	scanner := bufio.NewScanner(r)
	line := 0
	length := 0

	for scanner.Scan() {
		line++
		text, _, _ := strings.Cut(scanner.Text(), "#")
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected <frame> <command>", line)
		}

		frame, err := strconv.ParseInt(fields[0], 0, 32)
		if err != nil || frame < 0 {
			return nil, fmt.Errorf("line %d: bad frame %q", line, fields[0])
		}

		if fields[1] == "end" {
			length = max(length, int(frame))
			continue
		}

		cue, err := parseCue(fields[1], fields[2:])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		cue.Frame = int(frame)
		prog.Cues = append(prog.Cues, cue)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cues: %w", err)
	}

	prog.sort()
	prog.Length = max(prog.Length, length)
	return prog, nil
}

// argLimit names an argument and its allowed maximum.
type argLimit struct {
	name string
	max  int64
}

var (
	argDivider     = argLimit{"divider", 0x3FF}
	argAttenuation = argLimit{"attenuation", 0x0F}
	argDuration    = argLimit{"duration", 0xFF}
	argRate        = argLimit{"rate", 3}
	argType        = argLimit{"type", 1}
)

func parseArgs(args []string, limits ...argLimit) ([]int64, error) {
	if len(args) != len(limits) {
		names := make([]string, len(limits))
		for i, s := range limits {
			names[i] = s.name
		}
		return nil, fmt.Errorf("expected %d arguments (%s), got %d", len(limits), strings.Join(names, " "), len(args))
	}
	out := make([]int64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseInt(arg, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("bad %s %q", limits[i].name, arg)
		}
		if err := checkRange(limits[i], v); err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func checkRange(lim argLimit, v int64) error {
	if v < 0 || v > lim.max {
		return fmt.Errorf("%s %d out of range 0-%d", lim.name, v, lim.max)
	}
	return nil
}

// optionalBurst splits a trailing burst duration off args.
func optionalBurst(args []string, fixed int) ([]string, *string) {
	if len(args) == fixed+1 {
		return args[:fixed], &args[fixed]
	}
	return args, nil
}

func parseCue(name string, args []string) (Cue, error) {
	var cue Cue
	switch name {
	case "play":
		v, err := parseArgs(args, argDivider, argAttenuation, argDuration)
		if err != nil {
			return cue, err
		}
		cue.Op = OpPlay
		cue.Tone = sfx.Tone{Divider: uint16(v[0]), Attenuation: uint8(v[1]), Duration: uint8(v[2])}

	case "tone":
		v, err := parseArgs(args, argDivider, argAttenuation)
		if err != nil {
			return cue, err
		}
		cue.Op = OpTone
		cue.Tone = sfx.Tone{Divider: uint16(v[0]), Attenuation: uint8(v[1])}

	case "noise":
		args, burst := optionalBurst(args, 4)
		v, err := parseArgs(args, argRate, argType, argAttenuation, argDuration)
		if err != nil {
			return cue, err
		}
		cue.Op = OpNoise
		cue.Noise = noise(v)
		if err := setBurst(&cue.Noise, burst); err != nil {
			return cue, err
		}

	case "set_noise":
		v, err := parseArgs(args, argRate, argType, argAttenuation)
		if err != nil {
			return cue, err
		}
		cue.Op = OpSetNoise
		cue.Noise = noise(append(v, 0))

	case "tone_noise":
		args, burst := optionalBurst(args, 7)
		v, err := parseArgs(args, argDivider, argAttenuation, argDuration, argRate, argType, argAttenuation, argDuration)
		if err != nil {
			return cue, err
		}
		cue.Op = OpToneNoise
		cue.Tone = sfx.Tone{Divider: uint16(v[0]), Attenuation: uint8(v[1]), Duration: uint8(v[2])}
		cue.Noise = noise(v[3:])
		if err := setBurst(&cue.Noise, burst); err != nil {
			return cue, err
		}

	case "send", "batch":
		if len(args) == 0 {
			return cue, fmt.Errorf("%s needs at least one command", name)
		}
		if name == "send" && len(args) != 1 {
			return cue, fmt.Errorf("send takes exactly one command, got %d", len(args))
		}
		for _, arg := range args {
			cmd, err := parseCommand(arg)
			if err != nil {
				return cue, err
			}
			cue.Commands = append(cue.Commands, cmd)
		}
		cue.Op = OpSend
		if name == "batch" {
			cue.Op = OpBatch
		}

	case "stop":
		if len(args) != 0 {
			return cue, fmt.Errorf("stop takes no arguments")
		}
		cue.Op = OpStop

	default:
		return cue, fmt.Errorf("%w %q", ErrUnknownCommand, name)
	}
	return cue, nil
}

func noise(v []int64) sfx.Noise {
	return sfx.Noise{
		Rate:        uint8(v[0]),
		Type:        sfx.NoiseType(v[1]),
		Attenuation: uint8(v[2]),
		Duration:    uint8(v[3]),
	}
}

func setBurst(n *sfx.Noise, arg *string) error {
	if arg == nil {
		return nil
	}
	v, err := parseArgs([]string{*arg}, argLimit{"burst duration", 0xFF})
	if err != nil {
		return err
	}
	n.Burst = true
	n.BurstDuration = uint8(v[0])
	return nil
}

func parseCommand(s string) (sfx.Command, error) {
	var cmd sfx.Command
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != len(cmd) {
		return cmd, fmt.Errorf("bad command %q, want six hex digits", s)
	}
	copy(cmd[:], b)
	return cmd, nil
}

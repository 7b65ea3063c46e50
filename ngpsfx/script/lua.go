package script

import (
	"context"
	"fmt"
	"math"

	lua "github.com/yuin/gopher-lua"

	"github.com/valerio/go-ngpsfx/ngpsfx/debug"
	"github.com/valerio/go-ngpsfx/ngpsfx/sfx"
)

// compiler collects cues while a Lua script runs. sfx.wait moves the frame
// cursor forward, every other call records a cue at the cursor.
type compiler struct {
	frame int
	prog  Program
}

func (c *compiler) add(cue Cue) {
	cue.Frame = c.frame
	c.prog.Cues = append(c.prog.Cues, cue)
}

// CompileLua runs a Lua script and returns the program it describes. The
// script sees a global table sfx:
//
//	sfx.play(divider, attenuation, duration)
//	sfx.tone(divider, attenuation)
//	sfx.noise(rate, type, attenuation, duration [, burst_duration])
//	sfx.set_noise(rate, type, attenuation)
//	sfx.tone_noise{divider=, attenuation=, duration=, rate=, type=,
//	               noise_attenuation=, noise_duration= [, burst_duration=]}
//	sfx.send(b1, b2, b3)
//	sfx.batch{{b1, b2, b3}, ...}
//	sfx.stop()
//	sfx.wait(frames)
//	sfx.frame()         -- current cursor
//	sfx.divider(hz)     -- nearest divider for a frequency
//	sfx.WHITE, sfx.PERIODIC
//
// The script only describes the sequence, nothing is sent while it runs.
func CompileLua(ctx context.Context, name, source string) (*Program, error) {
	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)

	c := &compiler{}
	L.SetGlobal("sfx", c.module(L))

	if err := L.DoString(source); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	c.prog.sort()
	c.prog.Length = max(c.prog.Length, c.frame)
	return &c.prog, nil
}

func (c *compiler) module(L *lua.LState) *lua.LTable {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"play":       c.play,
		"tone":       c.tone,
		"noise":      c.noise,
		"set_noise":  c.setNoise,
		"tone_noise": c.toneNoise,
		"send":       c.send,
		"batch":      c.batch,
		"stop":       c.stop,
		"wait":       c.wait,
		"frame":      c.currentFrame,
		"divider":    divider,
	})
	mod.RawSetString("WHITE", lua.LNumber(sfx.WhiteNoise))
	mod.RawSetString("PERIODIC", lua.LNumber(sfx.PeriodicNoise))
	return mod
}

// checkArg reads argument n as an integer within lim's range.
func checkArg(L *lua.LState, n int, lim argLimit) int64 {
	v, ok := integer(L.CheckNumber(n))
	if !ok {
		L.ArgError(n, lim.name+" must be an integer")
	}
	if err := checkRange(lim, v); err != nil {
		L.ArgError(n, err.Error())
	}
	return v
}

// checkField reads an integer field of a table argument within lim's
// range. Missing fields read as def.
func checkField(L *lua.LState, tbl *lua.LTable, key string, lim argLimit, def int64) int64 {
	switch v := tbl.RawGetString(key).(type) {
	case *lua.LNilType:
		return def
	case lua.LNumber:
		n, ok := integer(v)
		if !ok {
			L.RaiseError("field %s: %s must be an integer", key, lim.name)
		}
		if err := checkRange(lim, n); err != nil {
			L.RaiseError("field %s: %s", key, err.Error())
		}
		return n
	default:
		L.RaiseError("field %s: number expected, got %s", key, v.Type().String())
		return 0
	}
}

// integer converts a Lua number that holds a whole value. Fractions are
// rejected rather than truncated.
func integer(v lua.LNumber) (int64, bool) {
	f := float64(v)
	if f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int64(f), true
}

func (c *compiler) play(L *lua.LState) int {
	c.add(Cue{Op: OpPlay, Tone: sfx.Tone{
		Divider:     uint16(checkArg(L, 1, argDivider)),
		Attenuation: uint8(checkArg(L, 2, argAttenuation)),
		Duration:    uint8(checkArg(L, 3, argDuration)),
	}})
	return 0
}

func (c *compiler) tone(L *lua.LState) int {
	c.add(Cue{Op: OpTone, Tone: sfx.Tone{
		Divider:     uint16(checkArg(L, 1, argDivider)),
		Attenuation: uint8(checkArg(L, 2, argAttenuation)),
	}})
	return 0
}

func (c *compiler) noise(L *lua.LState) int {
	n := sfx.Noise{
		Rate:        uint8(checkArg(L, 1, argRate)),
		Type:        sfx.NoiseType(checkArg(L, 2, argType)),
		Attenuation: uint8(checkArg(L, 3, argAttenuation)),
		Duration:    uint8(checkArg(L, 4, argDuration)),
	}
	if L.GetTop() >= 5 {
		n.Burst = true
		n.BurstDuration = uint8(checkArg(L, 5, argDuration))
	}
	c.add(Cue{Op: OpNoise, Noise: n})
	return 0
}

func (c *compiler) setNoise(L *lua.LState) int {
	c.add(Cue{Op: OpSetNoise, Noise: sfx.Noise{
		Rate:        uint8(checkArg(L, 1, argRate)),
		Type:        sfx.NoiseType(checkArg(L, 2, argType)),
		Attenuation: uint8(checkArg(L, 3, argAttenuation)),
	}})
	return 0
}

func (c *compiler) toneNoise(L *lua.LState) int {
	tbl := L.CheckTable(1)
	cue := Cue{
		Op: OpToneNoise,
		Tone: sfx.Tone{
			Divider:     uint16(checkField(L, tbl, "divider", argDivider, 1)),
			Attenuation: uint8(checkField(L, tbl, "attenuation", argAttenuation, 0)),
			Duration:    uint8(checkField(L, tbl, "duration", argDuration, 0)),
		},
		Noise: sfx.Noise{
			Rate:        uint8(checkField(L, tbl, "rate", argRate, 0)),
			Type:        sfx.NoiseType(checkField(L, tbl, "type", argType, int64(sfx.WhiteNoise))),
			Attenuation: uint8(checkField(L, tbl, "noise_attenuation", argAttenuation, 0)),
			Duration:    uint8(checkField(L, tbl, "noise_duration", argDuration, 0)),
		},
	}
	if tbl.RawGetString("burst_duration") != lua.LNil {
		cue.Noise.Burst = true
		cue.Noise.BurstDuration = uint8(checkField(L, tbl, "burst_duration", argDuration, 0))
	}
	c.add(cue)
	return 0
}

var argByte = argLimit{"byte", 0xFF}

func (c *compiler) send(L *lua.LState) int {
	c.add(Cue{Op: OpSend, Commands: []sfx.Command{{
		uint8(checkArg(L, 1, argByte)),
		uint8(checkArg(L, 2, argByte)),
		uint8(checkArg(L, 3, argByte)),
	}}})
	return 0
}

func (c *compiler) batch(L *lua.LState) int {
	tbl := L.CheckTable(1)
	cue := Cue{Op: OpBatch}
	for i := 1; i <= tbl.Len(); i++ {
		entry, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok || entry.Len() != 3 {
			L.RaiseError("batch entry %d: want {b1, b2, b3}", i)
		}
		var cmd sfx.Command
		for j := range cmd {
			v, ok := entry.RawGetInt(j + 1).(lua.LNumber)
			n, whole := integer(v)
			if !ok || !whole || n < 0 || n > 0xFF {
				L.RaiseError("batch entry %d: byte %d is not 0-255", i, j+1)
			}
			cmd[j] = uint8(n)
		}
		cue.Commands = append(cue.Commands, cmd)
	}
	c.add(cue)
	return 0
}

func (c *compiler) stop(L *lua.LState) int {
	c.add(Cue{Op: OpStop})
	return 0
}

func (c *compiler) wait(L *lua.LState) int {
	n, ok := integer(L.CheckNumber(1))
	if !ok {
		L.ArgError(1, "frames must be an integer")
	}
	if n < 0 {
		L.ArgError(1, "frames must not be negative")
	}
	c.frame += int(n)
	return 0
}

func (c *compiler) currentFrame(L *lua.LState) int {
	L.Push(lua.LNumber(c.frame))
	return 1
}

func divider(L *lua.LState) int {
	hz := float64(L.CheckNumber(1))
	L.Push(lua.LNumber(debug.ToneDivider(hz)))
	return 1
}

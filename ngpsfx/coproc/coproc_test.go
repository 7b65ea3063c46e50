package coproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-ngpsfx/ngpsfx/addr"
	"github.com/valerio/go-ngpsfx/ngpsfx/audio"
	"github.com/valerio/go-ngpsfx/ngpsfx/sfx"
	"github.com/valerio/go-ngpsfx/ngpsfx/z80drv"
)

const idleLimit = 10000

func newDriver(t *testing.T, opts ...sfx.Option) (*sfx.Driver, *Machine) {
	t.Helper()
	m := NewMachine()
	d := sfx.New(m, opts...)
	d.Init()
	require.True(t, m.System().Running())
	return d, m
}

// both expands bytes into the left then right port writes the driver
// program makes for each of them.
func both(values ...uint8) []audio.PortWrite {
	var out []audio.PortWrite
	for _, v := range values {
		out = append(out, audio.PortWrite{Side: audio.Left, Value: v}, audio.PortWrite{Side: audio.Right, Value: v})
	}
	return out
}

func TestMachine_InitLoadsImage(t *testing.T) {
	_, m := newDriver(t)
	assert.Equal(t, z80drv.Image(), m.System().RAM().Snapshot(0, z80drv.Size))
	assert.Equal(t, addr.ControlRelease, m.mmu.Control())
}

func TestMachine_PlayReachesPSG(t *testing.T) {
	d, m := newDriver(t)
	psg := m.PSG()

	d.Play(0x1B6, 2, 5)
	_, idle := m.System().runUntilIdle(idleLimit)
	require.True(t, idle)

	ch := psg.Channels()[0]
	assert.Equal(t, uint16(0x1B6), ch.Divider)
	assert.Equal(t, uint8(2), ch.Left)
	assert.Equal(t, uint8(2), ch.Right)
	assert.Equal(t, both(0x86, 0x1B, 0x92), psg.DrainWrites())
}

func TestMachine_ToneNoise(t *testing.T) {
	d, m := newDriver(t)
	psg := m.PSG()

	d.PlayToneNoise(
		sfx.Tone{Divider: 0x200, Attenuation: 0, Duration: 2},
		sfx.Noise{Rate: 1, Type: sfx.WhiteNoise, Attenuation: 1, Duration: 2},
	)
	_, idle := m.System().runUntilIdle(idleLimit)
	require.True(t, idle)

	chans := psg.Channels()
	noise := chans[audio.NoiseChannel]
	assert.True(t, noise.WhiteNoise)
	assert.Equal(t, uint8(1), noise.NoiseRate)
	assert.Equal(t, uint8(1), noise.Left)
	// the noise command's middle byte mutes tone 0
	assert.Equal(t, uint16(0x200), chans[0].Divider)
	assert.Equal(t, audio.Silent, chans[0].Left)
}

func TestMachine_LockstepDrainsPreviousBatch(t *testing.T) {
	d, m := newDriver(t)
	psg := m.PSG()

	d.Play(0x100, 1, 0)
	d.Play(0x2A0, 3, 0)
	_, idle := m.System().runUntilIdle(idleLimit)
	require.True(t, idle)

	assert.Equal(t, both(0x80, 0x10, 0x91, 0x80, 0x2A, 0x93), psg.DrainWrites())
	assert.Zero(t, d.Stats().Timeouts)
	assert.Equal(t, uint16(0x2A0), psg.Channels()[0].Divider)
}

func TestMachine_UpdateSilences(t *testing.T) {
	d, m := newDriver(t)
	psg := m.PSG()

	d.Play(0x100, 0, 2)
	d.PlayNoise(2, sfx.PeriodicNoise, 0, 1, false, 0)
	for i := 0; i < 2; i++ {
		d.Update()
		m.RunFrame()
	}

	chans := psg.Channels()
	assert.False(t, chans[0].Active())
	assert.False(t, chans[audio.NoiseChannel].Active())
	assert.Equal(t, uint64(2), d.Stats().Silences)
}

func TestMachine_Stop(t *testing.T) {
	d, m := newDriver(t)
	psg := m.PSG()

	d.PlayToneNoise(
		sfx.Tone{Divider: 0x080, Attenuation: 0},
		sfx.Noise{Rate: 0, Type: sfx.WhiteNoise, Attenuation: 0},
	)
	d.SetTone(0x080, 0)
	m.RunFrame()
	require.True(t, psg.Channels()[0].Active())

	d.Stop()
	m.RunFrame()
	for _, ch := range psg.Channels() {
		assert.False(t, ch.Active())
	}
}

func TestMachine_StalledCoprocessorTimesOut(t *testing.T) {
	var batches []sfx.Batch
	d, m := newDriver(t,
		sfx.WithSpinLimit(100),
		sfx.WithTracer(func(b sfx.Batch) { batches = append(batches, b) }),
	)
	psg := m.PSG()
	sys := m.System()
	sys.Stall(true)

	d.Play(0x111, 0, 0)
	d.Play(0x222, 0, 0)

	require.Len(t, batches, 2)
	assert.False(t, batches[0].TimedOut)
	assert.True(t, batches[1].TimedOut)
	assert.Equal(t, uint64(1), d.Stats().Timeouts)
	assert.Empty(t, psg.DrainWrites())

	_, idle := sys.runUntilIdle(idleLimit)
	assert.False(t, idle, "stalled co-processor never goes idle")

	// the second batch overwrote the first before it was read
	sys.Stall(false)
	_, idle = sys.runUntilIdle(idleLimit)
	require.True(t, idle)
	assert.Equal(t, both(0x82, 0x22, 0x90), psg.DrainWrites())
}

func TestMachine_Hold(t *testing.T) {
	_, m := newDriver(t)
	sys := m.System()

	m.Write16(addr.SoundCPUControl, addr.ControlHold)
	assert.False(t, sys.Running())
	assert.Zero(t, sys.Step(1000))

	m.Write16(addr.SoundCPUControl, addr.ControlRelease)
	assert.True(t, sys.Running())
	assert.Equal(t, uint16(0), sys.CPU().PC())
	assert.NotZero(t, sys.Step(1000))
}

func TestMachine_UnknownControlValue(t *testing.T) {
	_, m := newDriver(t)
	m.Write16(addr.SoundCPUControl, 0x1234)
	assert.True(t, m.System().Running())
}

func TestMachine_Options(t *testing.T) {
	m := NewMachine(WithCyclesPerPoll(0), WithSampleRate(22050))
	assert.Equal(t, 1, m.cyclesPerPoll)
	assert.Equal(t, 22050, m.PSG().SampleRate())
}

func TestMachine_Status(t *testing.T) {
	d, m := newDriver(t)
	// boot into the idle spin
	require.NotZero(t, m.System().Step(500))

	st := m.Status()
	assert.True(t, st.Running)
	assert.False(t, st.Stalled)
	assert.Equal(t, addr.ControlRelease, st.Control)
	assert.Equal(t, uint16(0x1000), st.SP)
	assert.False(t, st.Interrupts)
	assert.NotZero(t, st.Cycles)
	assert.Len(t, st.Mailbox, 1+addr.BufferSize)
	assert.Equal(t, "idle", st.State())

	m.System().Stall(true)
	d.Play(0x1B6, 2, 0)
	st = m.Status()
	assert.Equal(t, "stalled", st.State())
	assert.Equal(t, []byte{1, 0x86, 0x1B, 0x92}, st.Mailbox[:4])

	m.Write16(addr.SoundCPUControl, addr.ControlHold)
	assert.Equal(t, "held", m.Status().State())
}

func TestMachine_ToggleStall(t *testing.T) {
	d, m := newDriver(t, sfx.WithSpinLimit(20))

	assert.True(t, m.ToggleStall())
	d.Play(0x100, 0, 0)
	d.Play(0x200, 0, 0)
	assert.Equal(t, uint64(1), d.Stats().Timeouts)
	assert.Equal(t, "stalled", m.Status().State())

	assert.False(t, m.ToggleStall())
	_, idle := m.System().runUntilIdle(idleLimit)
	assert.True(t, idle)
	assert.Equal(t, "idle", m.Status().State())
}

// runUntilIdle steps the CPU until the doorbell clears or limit T-states
// have been spent. Returns the cycles spent and whether it went idle.
func (s *System) runUntilIdle(limit int) (int, bool) {
	spent := 0
	for !s.Idle() {
		if spent >= limit || !s.running || s.stalled {
			return spent, false
		}
		spent += s.cpu.Exec()
	}
	return spent, true
}

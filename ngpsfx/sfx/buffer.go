package sfx

import (
	"github.com/valerio/go-ngpsfx/ngpsfx/addr"
)

// DefaultSpinLimit is how many times BufferCommit polls the doorbell before
// giving up on the co-processor.
const DefaultSpinLimit = 4000

// Batch is what a single commit handed to the co-processor.
type Batch struct {
	Commands []Command
	// Spins is the number of doorbell polls that read busy.
	Spins int
	// TimedOut is set when the co-processor never cleared the doorbell and
	// the batch was published anyway.
	TimedOut bool
}

// BufferBegin starts a new batch, discarding anything staged so far.
func (d *Driver) BufferBegin() {
	d.staged = 0
}

// BufferPush stages one command. Once 5 commands are staged further pushes
// are dropped without notice.
func (d *Driver) BufferPush(b1, b2, b3 uint8) {
	if d.staged >= addr.BufferSlots {
		d.stats.Dropped++
		d.logger.Debug("Sound buffer full, command dropped", "cmd", Command{b1, b2, b3})
		return
	}
	d.staging[d.staged] = Command{b1, b2, b3}
	d.staged++
}

func (d *Driver) push(cmd Command) {
	d.BufferPush(cmd[0], cmd[1], cmd[2])
}

// BufferCommit waits for the co-processor to release the buffer, then copies
// the staged commands into it and rings the doorbell with their count.
//
// The wait is a bounded spin of SpinLimit polls. If the co-processor is still
// busy when it runs out, the batch is published regardless and may race with
// the one being consumed. The caller is never told.
func (d *Driver) BufferCommit() {
	spins, free := d.waitBufferFree()

	for i := 0; i < d.staged; i++ {
		base := addr.Buffer + uint32(i*addr.CommandSize)
		for j, b := range d.staging[i] {
			d.bus.Write(base+uint32(j), b)
		}
	}
	d.bus.Write(addr.Count, uint8(d.staged))

	d.stats.Commits++
	if !free {
		d.stats.Timeouts++
		d.logger.Debug("Sound co-processor busy, batch published anyway", "spins", spins, "commands", d.staged)
	}

	if d.tracer != nil {
		batch := Batch{
			Commands: make([]Command, d.staged),
			Spins:    spins,
			TimedOut: !free,
		}
		copy(batch.Commands, d.staging[:d.staged])
		d.tracer(batch)
	}

	d.staged = 0
}

// waitBufferFree polls the doorbell until it reads 0 or the spin budget is
// spent. Returns the number of busy reads and whether the buffer came free.
func (d *Driver) waitBufferFree() (int, bool) {
	spins := 0
	for d.bus.Read(addr.Count) != 0 {
		if spins >= d.spinLimit {
			return spins, false
		}
		spins++
	}
	return spins, true
}

// send runs a full begin/push/commit cycle for the given commands.
func (d *Driver) send(cmds ...Command) {
	d.BufferBegin()
	for _, cmd := range cmds {
		d.push(cmd)
	}
	d.BufferCommit()
}

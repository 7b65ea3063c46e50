package speaker

import (
	"encoding/binary"
	"sync"
)

// sampleQueue is an io.Reader that hands frame samples to the audio device
// as 16 bit little endian PCM. The frame loop pushes, the device goroutine
// reads.
type sampleQueue struct {
	crit sync.Mutex
	data []uint8

	// maxBytes caps the queued audio. Older data is dropped first, so a
	// frame loop running ahead of the device doesn't build up latency.
	maxBytes int
	dropped  int
}

func newSampleQueue(maxSamples int) *sampleQueue {
	return &sampleQueue{maxBytes: maxSamples * 2}
}

func (q *sampleQueue) Push(samples []int16) {
	q.crit.Lock()
	defer q.crit.Unlock()

	for _, s := range samples {
		q.data = binary.LittleEndian.AppendUint16(q.data, uint16(s))
	}

	if q.maxBytes > 0 && len(q.data) > q.maxBytes {
		excess := len(q.data) - q.maxBytes
		q.dropped += excess / 2
		q.data = q.data[excess:]
	}
}

// Read never blocks. With nothing queued it returns silence so the device
// keeps running, always a whole number of samples.
func (q *sampleQueue) Read(buf []uint8) (int, error) {
	q.crit.Lock()
	defer q.crit.Unlock()

	n := min(len(q.data), len(buf)) &^ 1
	copy(buf, q.data[:n])
	q.data = q.data[n:]

	if n == 0 {
		fill := len(buf) &^ 1
		clear(buf[:fill])
		return fill, nil
	}
	return n, nil
}

// Len returns the number of queued samples.
func (q *sampleQueue) Len() int {
	q.crit.Lock()
	defer q.crit.Unlock()
	return len(q.data) / 2
}

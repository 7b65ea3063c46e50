package speaker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleQueue_PushRead(t *testing.T) {
	q := newSampleQueue(0)
	q.Push([]int16{1, -1, 0x1234})
	assert.Equal(t, 3, q.Len())

	buf := make([]uint8, 4)
	n, err := q.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []uint8{0x01, 0x00, 0xFF, 0xFF}, buf)

	n, _ = q.Read(buf)
	assert.Equal(t, 2, n)
	assert.Equal(t, []uint8{0x34, 0x12}, buf[:n])
	assert.Zero(t, q.Len())
}

func TestSampleQueue_SilenceWhenEmpty(t *testing.T) {
	q := newSampleQueue(0)
	buf := []uint8{9, 9, 9, 9, 9}
	n, err := q.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []uint8{0, 0, 0, 0, 9}, buf)
}

func TestSampleQueue_OddBufferKeepsAlignment(t *testing.T) {
	q := newSampleQueue(0)
	q.Push([]int16{0x0102, 0x0304})

	buf := make([]uint8, 3)
	n, _ := q.Read(buf)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, q.Len())
}

func TestSampleQueue_DropsOldest(t *testing.T) {
	q := newSampleQueue(2)
	q.Push([]int16{1, 2, 3, 4})
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, 2, q.dropped)

	buf := make([]uint8, 4)
	q.Read(buf)
	assert.Equal(t, []uint8{3, 0, 4, 0}, buf)
}

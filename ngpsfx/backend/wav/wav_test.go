package wav_test

import (
	"os"
	"path/filepath"
	"testing"

	gowav "github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-ngpsfx/ngpsfx/backend"
	"github.com/valerio/go-ngpsfx/ngpsfx/backend/wav"
)

func TestWav_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	b := wav.New(path)
	require.NoError(t, b.Init(backend.Config{SampleRate: 22050}))

	require.NoError(t, b.Update(&backend.Frame{Samples: []int16{0, 1000, -1000, 32767}}))
	require.NoError(t, b.Update(&backend.Frame{}))
	require.NoError(t, b.Update(&backend.Frame{Samples: []int16{-32768, 5}}))
	require.NoError(t, b.Cleanup())
	assert.Equal(t, 6, b.Samples())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dec := gowav.NewDecoder(f)
	require.True(t, dec.IsValidFile())

	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	assert.Equal(t, 22050, buf.Format.SampleRate)
	assert.Equal(t, 1, buf.Format.NumChannels)
	assert.Equal(t, []int{0, 1000, -1000, 32767, -32768, 5}, buf.Data)
}

func TestWav_CleanupWithoutInit(t *testing.T) {
	assert.NoError(t, wav.New("unused.wav").Cleanup())
}

func TestWav_BadPath(t *testing.T) {
	b := wav.New(filepath.Join(t.TempDir(), "missing", "out.wav"))
	assert.Error(t, b.Init(backend.Config{SampleRate: 44100}))
}

package backend

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	name      string
	initErr   error
	updateErr error
	cleanErr  error
	calls     *[]string
}

func (r *recorder) Init(Config) error {
	*r.calls = append(*r.calls, r.name+".init")
	return r.initErr
}

func (r *recorder) Update(*Frame) error {
	*r.calls = append(*r.calls, r.name+".update")
	return r.updateErr
}

func (r *recorder) Cleanup() error {
	*r.calls = append(*r.calls, r.name+".cleanup")
	return r.cleanErr
}

func TestMulti_Order(t *testing.T) {
	var calls []string
	m := Multi(&recorder{name: "a", calls: &calls}, &recorder{name: "b", calls: &calls})

	require.NoError(t, m.Init(Config{}))
	require.NoError(t, m.Update(&Frame{}))
	require.NoError(t, m.Cleanup())

	assert.Equal(t, []string{"a.init", "b.init", "a.update", "b.update", "b.cleanup", "a.cleanup"}, calls)
}

func TestMulti_InitStopsOnError(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	m := Multi(&recorder{name: "a", initErr: boom, calls: &calls}, &recorder{name: "b", calls: &calls})

	assert.ErrorIs(t, m.Init(Config{}), boom)
	assert.Equal(t, []string{"a.init"}, calls)
}

func TestMulti_Update(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name     string
		errs     []error
		expected error
	}{
		{"all fine", []error{nil, nil}, nil},
		{"quit", []error{nil, ErrQuit}, ErrQuit},
		{"error wins over quit", []error{ErrQuit, boom}, boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []string
			var backends []Backend
			for _, err := range tt.errs {
				backends = append(backends, &recorder{name: "x", updateErr: err, calls: &calls})
			}
			err := Multi(backends...).Update(&Frame{})
			if tt.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expected)
			}
			assert.Len(t, calls, len(tt.errs), "every backend sees the frame")
		})
	}
}

func TestMulti_CleanupJoinsErrors(t *testing.T) {
	var calls []string
	a, b := errors.New("a"), errors.New("b")
	err := Multi(&recorder{name: "a", cleanErr: a, calls: &calls}, &recorder{name: "b", cleanErr: b, calls: &calls}).Cleanup()
	assert.ErrorIs(t, err, a)
	assert.ErrorIs(t, err, b)
}

//go:build !speaker

package speaker

import (
	"fmt"

	"github.com/valerio/go-ngpsfx/ngpsfx/backend"
)

var _ backend.Backend = (*Backend)(nil)

// Backend stub for builds without audio device support
type Backend struct{}

// New creates a stub speaker backend that returns an error on Init
func New() *Backend {
	return &Backend{}
}

func (b *Backend) Init(config backend.Config) error {
	return fmt.Errorf("speaker backend not available - compile with -tags speaker and install the ALSA development libraries")
}

func (b *Backend) Update(frame *backend.Frame) error {
	return nil
}

func (b *Backend) Cleanup() error {
	return nil
}

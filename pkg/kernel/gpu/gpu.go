// Package gpu is the slot for a compute-shader marching cubes backend.
// This build carries no GPU binding, so New always fails. Callers select it
// by name and must treat the error as fatal rather than fall back to an
// empty mesh.
package gpu

import (
	"fmt"

	"github.com/chazu/loam/pkg/kernel"
)

// New returns an error indicating no GPU backend is available.
func New() (kernel.Kernel, error) {
	return nil, fmt.Errorf("gpu: %w: no compute binding in this build", kernel.ErrUnavailable)
}

// Package cpu is the single-threaded reference marching cubes backend.
// Other backends must produce buffers bit-identical to this one.
package cpu

import (
	"context"
	"fmt"

	"github.com/chazu/loam/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// Kernel marches a chunk one layer at a time on the calling goroutine.
type Kernel struct{}

// New returns a new cpu Kernel.
func New() *Kernel {
	return &Kernel{}
}

// Name returns "cpu".
func (k *Kernel) Name() string {
	return "cpu"
}

// March runs the marching cubes kernel over every cube of d.
func (k *Kernel) March(ctx context.Context, d *kernel.Dispatch) ([]float32, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("cpu: %w", err)
	}
	buf := make([]float32, kernel.BufferLen(d.Width, d.Height))
	layer := kernel.LayerLen(d.Width)
	for y := 0; y < d.Height; y++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		kernel.MarchLayer(d, y, buf[y*layer:(y+1)*layer])
	}
	return buf, nil
}

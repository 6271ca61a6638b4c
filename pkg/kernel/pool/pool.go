// Package pool is a data-parallel marching cubes backend. Each y layer of
// a chunk is marched as one task on a shared pond worker pool. Tasks write
// disjoint slices of the output buffer, so the result is bit-identical to
// the cpu backend.
package pool

import (
	"context"
	"fmt"
	"runtime"

	"github.com/alitto/pond/v2"

	"github.com/chazu/loam/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// Kernel marches layers concurrently on a worker pool.
type Kernel struct {
	pool    pond.Pool
	workers int
}

// New creates a pool backend with the given number of workers. A
// non-positive count uses runtime.NumCPU().
func New(workers int) *Kernel {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Kernel{pool: pond.NewPool(workers), workers: workers}
}

// Name returns "pool".
func (k *Kernel) Name() string {
	return "pool"
}

// Workers returns the size of the worker pool.
func (k *Kernel) Workers() int {
	return k.workers
}

// Close stops the worker pool after queued tasks finish.
func (k *Kernel) Close() {
	k.pool.StopAndWait()
}

// March runs the marching cubes kernel over every cube of d. It returns
// once every layer task has finished, or an error wrapping
// pond.ErrPoolStopped after Close.
func (k *Kernel) March(ctx context.Context, d *kernel.Dispatch) ([]float32, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("pool: %w", err)
	}
	buf := make([]float32, kernel.BufferLen(d.Width, d.Height))
	layer := kernel.LayerLen(d.Width)

	if k.pool.Stopped() {
		return nil, fmt.Errorf("pool: %w", pond.ErrPoolStopped)
	}
	group := k.pool.NewGroup()
	for y := 0; y < d.Height; y++ {
		out := buf[y*layer : (y+1)*layer]
		group.Submit(func() {
			if ctx.Err() != nil {
				return
			}
			kernel.MarchLayer(d, y, out)
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("pool: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return buf, nil
}

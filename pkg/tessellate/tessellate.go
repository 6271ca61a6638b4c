// Package tessellate produces chunk meshes. For each chunk it samples the
// density lattice, runs a marching cubes kernel over it and deduplicates the
// resulting triangle soup into an indexed mesh. Batches of chunks are meshed
// concurrently on a worker pool.
package tessellate

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/chazu/loam/pkg/field"
	"github.com/chazu/loam/pkg/kernel"
	"github.com/chazu/loam/pkg/mesh"
	"github.com/chazu/loam/pkg/tables"
)

// Options configures a Tessellator.
type Options struct {
	Width     int
	Height    int
	Threshold float32

	// MinDensity and MaxDensity clamp base+overlay at sample time.
	MinDensity float32
	MaxDensity float32

	Normals mesh.NormalMode

	// Workers bounds how many chunks of a batch are meshed at once.
	// Non-positive means runtime.NumCPU().
	Workers int
}

// Job describes one chunk to mesh. Source and Overlay are only read, and
// must not change until the job completes.
type Job struct {
	Origin  [3]int
	Source  field.Source
	Overlay *field.Overlay
}

// Result is the outcome of one Job in a batch.
type Result struct {
	Mesh *mesh.Mesh
	Err  error
}

// Tessellator meshes chunks of a fixed size with one kernel.
type Tessellator struct {
	kernel   kernel.Kernel
	opts     Options
	table    []int32
	builders *mesh.BuilderPool
	lattices sync.Pool
	pool     pond.Pool
}

// New creates a Tessellator. Call Close to release its workers.
func New(k kernel.Kernel, opts Options) *Tessellator {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	t := &Tessellator{
		kernel:   k,
		opts:     opts,
		table:    tables.Flat(),
		builders: mesh.NewBuilderPool(opts.Width, opts.Height, opts.Normals),
		pool:     pond.NewPool(opts.Workers),
	}
	t.lattices.New = func() any {
		return field.NewLattice(opts.Width, opts.Height)
	}
	return t
}

// Kernel returns the kernel meshes are produced with.
func (t *Tessellator) Kernel() kernel.Kernel {
	return t.kernel
}

// Options returns the tessellator's configuration.
func (t *Tessellator) Options() Options {
	return t.opts
}

// Close stops the batch worker pool.
func (t *Tessellator) Close() {
	t.pool.StopAndWait()
}

// Chunk meshes a single chunk on the calling goroutine.
func (t *Tessellator) Chunk(ctx context.Context, job Job) (*mesh.Mesh, error) {
	lat := t.lattices.Get().(*field.Lattice)
	defer t.lattices.Put(lat)

	field.Fill(lat, job.Source, job.Origin, job.Overlay, t.opts.MinDensity, t.opts.MaxDensity)

	buf, err := t.kernel.March(ctx, &kernel.Dispatch{
		Width:     t.opts.Width,
		Height:    t.opts.Height,
		Threshold: t.opts.Threshold,
		Densities: lat.Values,
		Table:     t.table,
	})
	if err != nil {
		return nil, fmt.Errorf("tessellate: chunk at %v: %s kernel: %w", job.Origin, t.kernel.Name(), err)
	}

	b := t.builders.Get()
	defer t.builders.Put(b)

	pos := mgl32.Vec3{float32(job.Origin[0]), float32(job.Origin[1]), float32(job.Origin[2])}
	m, err := b.Build(buf, pos)
	if err != nil {
		return nil, fmt.Errorf("tessellate: chunk at %v: %w", job.Origin, err)
	}
	return m, nil
}

// Batch meshes every job concurrently and returns the results in job
// order. It returns only after all jobs have finished, so callers may
// publish the meshes without further synchronization. After Close every
// result carries an error wrapping pond.ErrPoolStopped.
func (t *Tessellator) Batch(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	if t.pool.Stopped() {
		for i := range jobs {
			results[i].Err = fmt.Errorf("tessellate: chunk at %v: %w", jobs[i].Origin, pond.ErrPoolStopped)
		}
		return results
	}
	if len(jobs) == 1 {
		results[0].Mesh, results[0].Err = t.Chunk(ctx, jobs[0])
		return results
	}

	group := t.pool.NewGroup()
	for i := range jobs {
		group.Submit(func() {
			results[i].Mesh, results[i].Err = t.Chunk(ctx, jobs[i])
		})
	}
	if err := group.Wait(); err != nil {
		// Tasks the pool rejected never ran.
		for i := range results {
			if results[i].Mesh == nil && results[i].Err == nil {
				results[i].Err = fmt.Errorf("tessellate: chunk at %v: %w", jobs[i].Origin, err)
			}
		}
	}
	return results
}

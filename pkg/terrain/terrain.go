// Package terrain streams marching cubes chunks in and out around a moving
// reference point, applies density edits to resident chunks and answers
// ray queries against their meshes.
//
// A Manager is driven from a single goroutine: SetReference, Tick,
// AddDensity, Stamp and Raycast must not be called concurrently. Meshing
// inside Tick runs on the tessellator's worker pool and completes before
// Tick publishes anything.
package terrain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/chazu/loam/pkg/field"
	"github.com/chazu/loam/pkg/mesh"
	"github.com/chazu/loam/pkg/tessellate"
)

// State is a chunk's position in its lifecycle.
type State int

const (
	// StateGenerating chunks have been allocated but have no mesh yet.
	StateGenerating State = iota
	// StateResident chunks have a current mesh.
	StateResident
	// StateRegenerating chunks keep their old mesh while a new one is built.
	StateRegenerating
)

func (s State) String() string {
	switch s {
	case StateGenerating:
		return "generating"
	case StateResident:
		return "resident"
	case StateRegenerating:
		return "regenerating"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Chunk is one resident cell of the chunk grid.
type Chunk struct {
	Coord Coord
	State State

	// Overlay holds this chunk's edits. Nil until the first edit.
	Overlay *field.Overlay

	// Regenerate is set by edits and cleared when the rebuild is scheduled.
	Regenerate bool

	// InWindow is recomputed at the start of every tick.
	InWindow bool

	// Mesh is the current mesh. It is replaced wholesale, never mutated.
	Mesh *mesh.Mesh

	// Version counts completed meshings of this chunk.
	Version int
}

// Options configures a Manager.
type Options struct {
	RenderDistanceH int
	RenderDistanceV int

	MaxGeneratePerTick   int
	MaxRegeneratePerTick int
	MaxEvictPerTick      int

	// MaxRayDistance bounds Raycast. Hits farther away are ignored.
	MaxRayDistance float32

	Sink   MeshSink
	Logger *slog.Logger
}

// DefaultOptions returns the streaming limits the terrain ships with.
func DefaultOptions() Options {
	return Options{
		RenderDistanceH:      3,
		RenderDistanceV:      3,
		MaxGeneratePerTick:   2,
		MaxRegeneratePerTick: 4,
		MaxEvictPerTick:      1,
		MaxRayDistance:       128,
	}
}

// TickStats summarizes one Tick.
type TickStats struct {
	Evicted     int
	Regenerated int
	Generated   int

	// Resident is the number of chunks after the tick.
	Resident int
	// Missing counts window cells that still have no chunk.
	Missing int
	// Dirty counts in-window chunks still waiting for a rebuild.
	Dirty int
	// Stale counts chunks outside the window still waiting for eviction.
	Stale int
}

// Idle reports whether the tick left no streaming work behind.
func (s TickStats) Idle() bool {
	return s.Missing == 0 && s.Dirty == 0 && s.Stale == 0
}

// Manager owns the set of resident chunks.
type Manager struct {
	opts   Options
	width  int
	height int
	source field.Source
	tess   *tessellate.Tessellator
	log    *slog.Logger
	sink   MeshSink

	chunks slotMap[Chunk]
	index  map[Coord]Handle

	ref    mgl32.Vec3
	window Window
	ticks  int
}

// NewManager creates a Manager that samples src and meshes chunks with
// tess. The chunk size is taken from the tessellator.
func NewManager(src field.Source, tess *tessellate.Tessellator, opts Options) (*Manager, error) {
	to := tess.Options()
	switch {
	case src == nil:
		return nil, errors.New("terrain: nil density source")
	case to.Width <= 0 || to.Height <= 0:
		return nil, fmt.Errorf("terrain: invalid chunk size %dx%d", to.Width, to.Height)
	case opts.RenderDistanceH <= 0 || opts.RenderDistanceV <= 0:
		return nil, fmt.Errorf("terrain: render distance must be positive, got %d/%d", opts.RenderDistanceH, opts.RenderDistanceV)
	case opts.MaxGeneratePerTick <= 0 || opts.MaxRegeneratePerTick <= 0 || opts.MaxEvictPerTick <= 0:
		return nil, errors.New("terrain: per-tick limits must be positive")
	}

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	sink := opts.Sink
	if sink == nil {
		sink = nopSink{}
	}
	m := &Manager{
		opts:   opts,
		width:  to.Width,
		height: to.Height,
		source: src,
		tess:   tess,
		log:    log,
		sink:   sink,
		index:  make(map[Coord]Handle),
	}
	m.window = ComputeWindow(m.ref, m.width, m.height, opts.RenderDistanceH, opts.RenderDistanceV)
	return m, nil
}

// ChunkSize returns the chunk width and height in cubes.
func (m *Manager) ChunkSize() (width, height int) {
	return m.width, m.height
}

// SetReference moves the point the window is centred on. It takes effect
// at the next Tick.
func (m *Manager) SetReference(p mgl32.Vec3) {
	m.ref = p
}

// Reference returns the current reference point.
func (m *Manager) Reference() mgl32.Vec3 {
	return m.ref
}

// Window returns the window computed by the last Tick.
func (m *Manager) Window() Window {
	return m.window
}

// Ticks returns the number of completed ticks.
func (m *Manager) Ticks() int {
	return m.ticks
}

// Len returns the number of resident chunks.
func (m *Manager) Len() int {
	return m.chunks.Len()
}

// Chunk returns the chunk at c. The pointer must not be retained across a
// Tick.
func (m *Manager) Chunk(c Coord) (*Chunk, bool) {
	h, ok := m.index[c]
	if !ok {
		return nil, false
	}
	return m.chunks.Get(h)
}

// Handle returns the stable handle of the chunk at c.
func (m *Manager) Handle(c Coord) (Handle, bool) {
	h, ok := m.index[c]
	return h, ok
}

// Lookup resolves a handle. Handles of evicted chunks resolve to nothing.
func (m *Manager) Lookup(h Handle) (*Chunk, bool) {
	return m.chunks.Get(h)
}

// Each calls fn for every resident chunk.
func (m *Manager) Each(fn func(*Chunk)) {
	m.chunks.Each(func(_ Handle, c *Chunk) { fn(c) })
}

// Triangles returns the total triangle count over all resident meshes.
func (m *Manager) Triangles() int {
	n := 0
	m.Each(func(c *Chunk) {
		if c.Mesh != nil {
			n += c.Mesh.TriangleCount()
		}
	})
	return n
}

// center returns the world-space centre of chunk c.
func (m *Manager) center(c Coord) mgl32.Vec3 {
	o := c.Origin(m.width, m.height)
	return mgl32.Vec3{
		float32(o[0]) + float32(m.width)/2,
		float32(o[1]) + float32(m.height)/2,
		float32(o[2]) + float32(m.width)/2,
	}
}

func (m *Manager) distSq(c Coord) float32 {
	d := m.center(c).Sub(m.ref)
	return d.Dot(d)
}

// pending is one chunk scheduled for meshing in a tick.
type pending struct {
	handle Handle
	coord  Coord
	fresh  bool
}

// Tick advances streaming by one step:
//
//  1. recompute the window and mark which chunks fall inside it
//  2. evict up to MaxEvictPerTick chunks outside it, farthest first
//  3. rebuild up to MaxRegeneratePerTick edited chunks inside it
//  4. create up to MaxGeneratePerTick missing chunks, nearest first
//
// Steps 3 and 4 are meshed as one batch. New meshes are swapped in and
// published only after the whole batch has finished. A meshing error fails
// the tick: fresh chunks that failed are dropped (and retried next tick),
// rebuilds that failed keep their old mesh and stay flagged.
func (m *Manager) Tick(ctx context.Context) (TickStats, error) {
	var stats TickStats
	m.window = ComputeWindow(m.ref, m.width, m.height, m.opts.RenderDistanceH, m.opts.RenderDistanceV)

	// Mark.
	var out []Handle
	m.chunks.Each(func(h Handle, c *Chunk) {
		c.InWindow = m.window.Contains(c.Coord)
		if !c.InWindow {
			out = append(out, h)
		}
	})

	// Evict.
	sort.SliceStable(out, func(i, j int) bool {
		ci, _ := m.chunks.Get(out[i])
		cj, _ := m.chunks.Get(out[j])
		return m.distSq(ci.Coord) > m.distSq(cj.Coord)
	})
	for _, h := range out {
		if stats.Evicted == m.opts.MaxEvictPerTick {
			stats.Stale++
			continue
		}
		c, _ := m.chunks.Get(h)
		coord := c.Coord
		delete(m.index, coord)
		m.chunks.Remove(h)
		m.sink.MeshEvicted(coord)
		m.log.Debug("chunk evicted", "coord", coord)
		stats.Evicted++
	}

	// Regenerate.
	var work []pending
	var jobs []tessellate.Job
	m.chunks.Each(func(h Handle, c *Chunk) {
		if !c.InWindow || !c.Regenerate {
			return
		}
		if stats.Regenerated == m.opts.MaxRegeneratePerTick {
			stats.Dirty++
			return
		}
		c.Regenerate = false
		c.State = StateRegenerating
		work = append(work, pending{handle: h, coord: c.Coord})
		jobs = append(jobs, m.job(c))
		stats.Regenerated++
	})

	// Create.
	var missing []Coord
	m.window.Each(func(c Coord) {
		if _, ok := m.index[c]; !ok {
			missing = append(missing, c)
		}
	})
	sort.SliceStable(missing, func(i, j int) bool {
		return m.distSq(missing[i]) < m.distSq(missing[j])
	})
	for _, c := range missing {
		if stats.Generated == m.opts.MaxGeneratePerTick {
			stats.Missing++
			continue
		}
		h := m.chunks.Insert(Chunk{Coord: c, State: StateGenerating, InWindow: true})
		m.index[c] = h
		ch, _ := m.chunks.Get(h)
		work = append(work, pending{handle: h, coord: c, fresh: true})
		jobs = append(jobs, m.job(ch))
		stats.Generated++
	}

	// Mesh and publish.
	var errs []error
	if len(jobs) > 0 {
		results := m.tess.Batch(ctx, jobs)
		for i, r := range results {
			p := work[i]
			c, ok := m.chunks.Get(p.handle)
			if !ok {
				continue
			}
			if r.Err != nil {
				errs = append(errs, fmt.Errorf("chunk %v: %w", p.coord, r.Err))
				if p.fresh {
					delete(m.index, p.coord)
					m.chunks.Remove(p.handle)
					stats.Generated--
					stats.Missing++
				} else {
					c.Regenerate = true
					c.State = StateResident
					stats.Regenerated--
					stats.Dirty++
				}
				continue
			}
			c.Mesh = r.Mesh
			c.State = StateResident
			c.Version++
			m.sink.MeshReady(p.coord, r.Mesh)
			m.log.Debug("chunk meshed", "coord", p.coord, "fresh", p.fresh,
				"triangles", r.Mesh.TriangleCount(), "vertices", r.Mesh.VertexCount())
		}
	}

	m.ticks++
	stats.Resident = m.chunks.Len()
	m.log.Debug("tick", "n", m.ticks, "window", m.window, "evicted", stats.Evicted,
		"regenerated", stats.Regenerated, "generated", stats.Generated, "resident", stats.Resident)

	if len(errs) > 0 {
		return stats, fmt.Errorf("terrain: tick %d: %w", m.ticks, errors.Join(errs...))
	}
	return stats, nil
}

func (m *Manager) job(c *Chunk) tessellate.Job {
	return tessellate.Job{
		Origin:  c.Coord.Origin(m.width, m.height),
		Source:  m.source,
		Overlay: c.Overlay,
	}
}

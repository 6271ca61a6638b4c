package terrain

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/chazu/loam/pkg/brush"
	"github.com/chazu/loam/pkg/field"
	"github.com/chazu/loam/pkg/kernel"
	"github.com/chazu/loam/pkg/kernel/cpu"
	"github.com/chazu/loam/pkg/mesh"
	"github.com/chazu/loam/pkg/tessellate"
)

// --- helpers ---

func newTess(t *testing.T, k kernel.Kernel, w, h int, threshold float32) *tessellate.Tessellator {
	t.Helper()
	tess := tessellate.New(k, tessellate.Options{
		Width:      w,
		Height:     h,
		Threshold:  threshold,
		MinDensity: 0,
		MaxDensity: 1,
		Workers:    2,
	})
	t.Cleanup(tess.Close)
	return tess
}

func newManager(t *testing.T, src field.Source, w, h int, threshold float32, opts Options) *Manager {
	t.Helper()
	m, err := NewManager(src, newTess(t, cpu.New(), w, h, threshold), opts)
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}
	return m
}

func unlimited() Options {
	o := DefaultOptions()
	o.MaxGeneratePerTick = 1000
	o.MaxRegeneratePerTick = 1000
	o.MaxEvictPerTick = 1000
	return o
}

func tick(t *testing.T, m *Manager) TickStats {
	t.Helper()
	stats, err := m.Tick(context.Background())
	if err != nil {
		t.Fatalf("Tick() error: %v", err)
	}
	return stats
}

// floor is solid below world y=2.
var floor = field.SourceFunc(func(x, y, z int) float32 {
	if y < 2 {
		return 1
	}
	return 0
})

// recorder is a MeshSink that checks meshes are swapped in before they are
// published.
type recorder struct {
	t       *testing.T
	m       *Manager
	ready   []Coord
	evicted []Coord
}

func (r *recorder) MeshReady(c Coord, m *mesh.Mesh) {
	ch, ok := r.m.Chunk(c)
	if !ok || ch.Mesh != m || ch.State != StateResident {
		r.t.Errorf("MeshReady(%v) before the mesh was swapped in", c)
	}
	r.ready = append(r.ready, c)
}

func (r *recorder) MeshEvicted(c Coord) {
	if _, ok := r.m.Chunk(c); ok {
		r.t.Errorf("MeshEvicted(%v) while the chunk is still indexed", c)
	}
	r.evicted = append(r.evicted, c)
}

// --- slot map ---

func TestSlotMap(t *testing.T) {
	var s slotMap[string]
	a := s.Insert("a")
	b := s.Insert("b")
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if v, ok := s.Get(b); !ok || *v != "b" {
		t.Fatalf("Get(b) = %v, %v", v, ok)
	}
	if !s.Remove(a) {
		t.Fatal("Remove(a) = false")
	}
	if s.Remove(a) {
		t.Error("second Remove(a) = true")
	}
	if _, ok := s.Get(a); ok {
		t.Error("stale handle still resolves")
	}

	c := s.Insert("c")
	if c.index != a.index {
		t.Errorf("slot not reused: %d vs %d", c.index, a.index)
	}
	if _, ok := s.Get(a); ok {
		t.Error("old handle resolves to the reused slot")
	}
	if v, ok := s.Get(b); !ok || *v != "b" {
		t.Error("unrelated handle broken by removal")
	}

	var seen []string
	s.Each(func(_ Handle, v *string) { seen = append(seen, *v) })
	if len(seen) != 2 || seen[0] != "c" || seen[1] != "b" {
		t.Errorf("Each visited %v, want [c b]", seen)
	}
}

// --- window ---

func TestComputeWindow(t *testing.T) {
	tests := []struct {
		name     string
		ref      mgl32.Vec3
		rdH, rdV int
		want     Window
	}{
		{"origin odd", mgl32.Vec3{2, 2, 2}, 3, 3, Window{Coord{-1, -1, -1}, Coord{1, 1, 1}}},
		{"origin even", mgl32.Vec3{2, 2, 2}, 4, 2, Window{Coord{-1, 0, -1}, Coord{2, 1, 2}}},
		{"negative", mgl32.Vec3{-0.5, -4, -9}, 1, 1, Window{Coord{-1, -1, -3}, Coord{-1, -1, -3}}},
		{"moved one chunk", mgl32.Vec3{6, 2, 2}, 3, 3, Window{Coord{0, -1, -1}, Coord{2, 1, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeWindow(tt.ref, 4, 4, tt.rdH, tt.rdV)
			if got != tt.want {
				t.Errorf("ComputeWindow = %v, want %v", got, tt.want)
			}
			if got.Size() != tt.rdH*tt.rdH*tt.rdV {
				t.Errorf("Size() = %d", got.Size())
			}
		})
	}
}

// --- streaming ---

func TestStreamingWindow(t *testing.T) {
	m := newManager(t, floor, 4, 4, 0.5, unlimited())
	rec := &recorder{t: t, m: m}
	m.sink = rec

	m.SetReference(mgl32.Vec3{2, 2, 2})
	stats := tick(t, m)
	if stats.Generated != 27 || m.Len() != 27 {
		t.Fatalf("first tick generated %d, resident %d; want 27", stats.Generated, m.Len())
	}
	if !stats.Idle() {
		t.Errorf("stats = %+v, want idle", stats)
	}
	if len(rec.ready) != 27 {
		t.Errorf("sink saw %d meshes, want 27", len(rec.ready))
	}

	// Only the y=0 layer crosses the floor.
	m.Each(func(c *Chunk) {
		empty := c.Mesh.IsEmpty()
		if c.Coord.Y == 0 && empty {
			t.Errorf("chunk %v should contain the floor", c.Coord)
		}
		if c.Coord.Y != 0 && !empty {
			t.Errorf("chunk %v should be empty", c.Coord)
		}
	})

	m.SetReference(mgl32.Vec3{6, 2, 2})
	stats = tick(t, m)
	if stats.Evicted != 9 || stats.Generated != 9 {
		t.Fatalf("after moving: evicted %d generated %d, want 9 and 9", stats.Evicted, stats.Generated)
	}
	if m.Len() != 27 {
		t.Errorf("resident = %d, want 27", m.Len())
	}
	for _, c := range rec.evicted {
		if c.X != -1 {
			t.Errorf("evicted %v, want only x=-1", c)
		}
	}
	for _, c := range rec.ready[27:] {
		if c.X != 2 {
			t.Errorf("generated %v, want only x=2", c)
		}
	}
	m.Each(func(c *Chunk) {
		if !m.Window().Contains(c.Coord) {
			t.Errorf("chunk %v outside window %v", c.Coord, m.Window())
		}
	})
}

func TestTickIdempotentWhenSettled(t *testing.T) {
	m := newManager(t, floor, 4, 4, 0.5, unlimited())
	tick(t, m)
	before := map[Coord]*mesh.Mesh{}
	m.Each(func(c *Chunk) { before[c.Coord] = c.Mesh })

	stats := tick(t, m)
	if stats.Generated != 0 || stats.Evicted != 0 || stats.Regenerated != 0 {
		t.Errorf("settled tick did work: %+v", stats)
	}
	m.Each(func(c *Chunk) {
		if before[c.Coord] != c.Mesh {
			t.Errorf("chunk %v was remeshed", c.Coord)
		}
	})
}

func TestGenerationCapNearestFirst(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxGeneratePerTick = 2
	m := newManager(t, floor, 4, 4, 0.5, opts)
	m.SetReference(mgl32.Vec3{2, 2, 2})

	stats := tick(t, m)
	if stats.Generated != 2 || stats.Missing != 25 {
		t.Fatalf("stats = %+v, want 2 generated and 25 missing", stats)
	}
	if _, ok := m.Chunk(Coord{0, 0, 0}); !ok {
		t.Error("the reference chunk was not generated first")
	}

	ticks := 1
	for !stats.Idle() {
		stats = tick(t, m)
		ticks++
		if ticks > 20 {
			t.Fatal("window never filled")
		}
	}
	if m.Len() != 27 || ticks != 14 {
		t.Errorf("resident %d after %d ticks, want 27 after 14", m.Len(), ticks)
	}
}

func TestEvictionCap(t *testing.T) {
	opts := unlimited()
	opts.MaxEvictPerTick = 1
	m := newManager(t, floor, 4, 4, 0.5, opts)
	tick(t, m)

	m.SetReference(mgl32.Vec3{100, 2, 2})
	stats := tick(t, m)
	if stats.Evicted != 1 || stats.Stale != 26 {
		t.Fatalf("stats = %+v, want 1 evicted and 26 stale", stats)
	}
	if m.Len() != 27-1+27 {
		t.Errorf("resident = %d, want 53", m.Len())
	}
}

func TestStaleHandleAfterEviction(t *testing.T) {
	m := newManager(t, floor, 4, 4, 0.5, unlimited())
	tick(t, m)
	h, ok := m.Handle(Coord{-1, 0, 0})
	if !ok {
		t.Fatal("no handle for (-1,0,0)")
	}
	m.SetReference(mgl32.Vec3{6, 2, 2})
	tick(t, m)
	if _, ok := m.Lookup(h); ok {
		t.Error("handle of evicted chunk still resolves")
	}
}

// --- edits and raycasts ---

func TestAddDensityVisibleAfterTick(t *testing.T) {
	opts := unlimited()
	opts.RenderDistanceH, opts.RenderDistanceV = 1, 1
	m := newManager(t, field.Constant(0), 8, 8, 0.7, opts)
	m.SetReference(mgl32.Vec3{4, 4, 4})
	tick(t, m)

	origin := mgl32.Vec3{4.3, 7.9, 4.2}
	down := mgl32.Vec3{0, -1, 0}
	if hit := m.Raycast(origin, down); hit.Hit {
		t.Fatalf("hit empty terrain: %+v", hit)
	}

	if n := m.AddDensity(mgl32.Vec3{4, 4, 4}, 2, 1); n != 1 {
		t.Fatalf("AddDensity touched %d chunks, want 1", n)
	}
	if hit := m.Raycast(origin, down); hit.Hit {
		t.Fatal("edit visible before the next tick")
	}
	c, _ := m.Chunk(Coord{})
	if !c.Regenerate || c.Overlay.Len() == 0 {
		t.Fatalf("chunk not flagged: regenerate=%v overlay=%d", c.Regenerate, c.Overlay.Len())
	}

	stats := tick(t, m)
	if stats.Regenerated != 1 {
		t.Fatalf("Regenerated = %d, want 1", stats.Regenerated)
	}
	hit := m.Raycast(origin, down)
	if !hit.Hit {
		t.Fatal("no hit after regeneration")
	}
	if hit.Position[1] <= 4 || hit.Position[1] >= 6.5 {
		t.Errorf("hit at %v, want y in (4, 6.5)", hit.Position)
	}
	if hit.Normal[1] <= 0 {
		t.Errorf("normal %v, want facing up toward the ray origin", hit.Normal)
	}
	if math.Abs(float64(origin[1]-hit.Distance-hit.Position[1])) > 1e-4 {
		t.Errorf("distance %v inconsistent with position %v", hit.Distance, hit.Position)
	}
	if c, _ := m.Chunk(Coord{}); c.Version != 2 || c.Regenerate {
		t.Errorf("chunk version %d regenerate %v after rebuild", c.Version, c.Regenerate)
	}
}

func TestAddDensityWithoutChunks(t *testing.T) {
	m := newManager(t, field.Constant(0), 8, 8, 0.7, DefaultOptions())
	if n := m.AddDensity(mgl32.Vec3{4, 4, 4}, 2, 1); n != 0 {
		t.Errorf("AddDensity with no resident chunks touched %d", n)
	}
}

func TestAddDensityAcrossChunkBorder(t *testing.T) {
	m := newManager(t, floor, 4, 4, 0.5, unlimited())
	m.SetReference(mgl32.Vec3{2, 2, 2})
	tick(t, m)

	if n := m.AddDensity(mgl32.Vec3{4, 2, 2}, 1, 1); n != 2 {
		t.Fatalf("AddDensity touched %d chunks, want 2", n)
	}
	left, _ := m.Chunk(Coord{0, 0, 0})
	right, _ := m.Chunk(Coord{1, 0, 0})
	li := field.LatticeIndex(4, 4, 2, 2)
	ri := field.LatticeIndex(4, 0, 2, 2)
	if left.Overlay.At(li) != 1 || right.Overlay.At(ri) != 1 {
		t.Errorf("shared lattice point got %v and %v, want 1 in both chunks",
			left.Overlay.At(li), right.Overlay.At(ri))
	}
	if got := left.Overlay.At(field.LatticeIndex(4, 3, 2, 2)); got != 1 {
		t.Errorf("neighbour at distance 1 got %v, want 1", got)
	}
}

func TestRaycastClosestHit(t *testing.T) {
	// A floor below y=2 and a one-voxel shelf at y=5.
	src := field.SourceFunc(func(x, y, z int) float32 {
		if y < 2 || y == 5 {
			return 1
		}
		return 0
	})
	opts := unlimited()
	opts.RenderDistanceH, opts.RenderDistanceV = 1, 1
	m := newManager(t, src, 8, 8, 0.5, opts)
	m.SetReference(mgl32.Vec3{4, 4, 4})
	tick(t, m)

	hit := m.Raycast(mgl32.Vec3{2.3, 7.9, 3.6}, mgl32.Vec3{0, -1, 0})
	if !hit.Hit {
		t.Fatal("no hit")
	}
	if math.Abs(float64(hit.Distance-2.4)) > 1e-4 || math.Abs(float64(hit.Position[1]-5.5)) > 1e-4 {
		t.Errorf("hit %+v, want the shelf top at y=5.5, distance 2.4", hit)
	}
	if hit.Normal != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("normal %v, want +y", hit.Normal)
	}

	// From below the shelf the floor is closest.
	hit = m.Raycast(mgl32.Vec3{2.3, 3, 3.6}, mgl32.Vec3{0, -1, 0})
	if !hit.Hit || math.Abs(float64(hit.Position[1]-1.5)) > 1e-4 {
		t.Errorf("hit %+v, want the floor at y=1.5", hit)
	}
	// Upward from between the layers hits the shelf underside.
	hit = m.Raycast(mgl32.Vec3{2.3, 3, 3.6}, mgl32.Vec3{0, 2, 0})
	if !hit.Hit || math.Abs(float64(hit.Position[1]-4.5)) > 1e-4 || hit.Normal[1] >= 0 {
		t.Errorf("hit %+v, want the shelf underside at y=4.5 facing down", hit)
	}
}

func TestRaycastLimits(t *testing.T) {
	opts := unlimited()
	opts.RenderDistanceH, opts.RenderDistanceV = 1, 1
	opts.MaxRayDistance = 2
	m := newManager(t, floor, 8, 8, 0.5, opts)
	m.SetReference(mgl32.Vec3{4, 4, 4})
	tick(t, m)

	if hit := m.Raycast(mgl32.Vec3{3.1, 7, 3.3}, mgl32.Vec3{0, -1, 0}); hit.Hit {
		t.Errorf("hit beyond MaxRayDistance: %+v", hit)
	}
	if hit := m.Raycast(mgl32.Vec3{3.1, 3, 3.3}, mgl32.Vec3{0, -1, 0}); !hit.Hit {
		t.Error("missed a hit within MaxRayDistance")
	}
	if hit := m.Raycast(mgl32.Vec3{3.1, 3, 3.3}, mgl32.Vec3{0, 1, 0}); hit.Hit {
		t.Errorf("hit while looking away: %+v", hit)
	}
	if hit := m.Raycast(mgl32.Vec3{3.1, 3, 3.3}, mgl32.Vec3{}); hit.Hit {
		t.Error("zero direction hit something")
	}
}

func TestStampCarvesPit(t *testing.T) {
	ground := field.SourceFunc(func(x, y, z int) float32 {
		if y < 4 {
			return 1
		}
		return 0
	})
	opts := unlimited()
	opts.RenderDistanceH, opts.RenderDistanceV = 1, 1
	m := newManager(t, ground, 8, 8, 0.5, opts)
	m.SetReference(mgl32.Vec3{4, 4, 4})
	tick(t, m)

	origin := mgl32.Vec3{4.1, 6, 4.2}
	down := mgl32.Vec3{0, -1, 0}
	if hit := m.Raycast(origin, down); !hit.Hit || math.Abs(float64(hit.Position[1]-3.5)) > 1e-4 {
		t.Fatalf("hit %+v, want the ground at y=3.5", hit)
	}

	s, err := brush.Sphere(1.5)
	if err != nil {
		t.Fatal(err)
	}
	if n := m.Stamp(s.Translate(mgl32.Vec3{4, 3, 4}), -1); n != 1 {
		t.Fatalf("Stamp touched %d chunks, want 1", n)
	}
	if stats := tick(t, m); stats.Regenerated != 1 {
		t.Fatalf("Regenerated = %d, want 1", stats.Regenerated)
	}
	hit := m.Raycast(origin, down)
	if !hit.Hit || hit.Position[1] <= 1 || hit.Position[1] >= 3 {
		t.Errorf("hit %+v, want inside the pit below the old ground", hit)
	}
}

func TestRegenerationCap(t *testing.T) {
	opts := unlimited()
	opts.MaxRegeneratePerTick = 1
	m := newManager(t, floor, 4, 4, 0.5, opts)
	m.SetReference(mgl32.Vec3{2, 2, 2})
	tick(t, m)

	// A point on a chunk corner is shared by 4 chunks in the floor layer.
	if n := m.AddDensity(mgl32.Vec3{4, 2, 4}, 0.5, 1); n != 4 {
		t.Fatalf("AddDensity touched %d chunks, want 4", n)
	}
	for i := 0; i < 4; i++ {
		stats := tick(t, m)
		if stats.Regenerated != 1 || stats.Dirty != 3-i {
			t.Fatalf("tick %d: %+v, want 1 regenerated and %d dirty", i, stats, 3-i)
		}
	}
}

// --- failures ---

type failingKernel struct{ fail bool }

var errDevice = errors.New("device lost")

func (k *failingKernel) Name() string { return "failing" }

func (k *failingKernel) March(ctx context.Context, d *kernel.Dispatch) ([]float32, error) {
	if k.fail {
		return nil, errDevice
	}
	return cpu.New().March(ctx, d)
}

func TestTickSurfacesKernelErrors(t *testing.T) {
	k := &failingKernel{fail: true}
	opts := unlimited()
	opts.RenderDistanceH, opts.RenderDistanceV = 1, 1
	m, err := NewManager(floor, newTess(t, k, 4, 4, 0.5), opts)
	if err != nil {
		t.Fatal(err)
	}

	stats, err := m.Tick(context.Background())
	if !errors.Is(err, errDevice) {
		t.Fatalf("Tick() error = %v, want device error", err)
	}
	if m.Len() != 0 || stats.Generated != 0 {
		t.Errorf("failed chunk kept: resident %d, generated %d", m.Len(), stats.Generated)
	}
	if stats.Missing != 1 || stats.Idle() {
		t.Errorf("stats = %+v, want the failed cell counted as missing", stats)
	}

	k.fail = false
	if stats := tick(t, m); stats.Generated != 1 {
		t.Errorf("retry generated %d, want 1", stats.Generated)
	}

	// A failed rebuild keeps the old mesh and stays dirty.
	if m.AddDensity(mgl32.Vec3{2, 2, 2}, 1, 1) == 0 {
		t.Fatal("edit touched no chunk")
	}
	k.fail = true
	stats, err = m.Tick(context.Background())
	if !errors.Is(err, errDevice) {
		t.Fatalf("Tick() error = %v, want device error", err)
	}
	if stats.Dirty != 1 || stats.Regenerated != 0 || stats.Idle() {
		t.Errorf("stats = %+v, want the failed rebuild counted as dirty", stats)
	}
	if c, ok := m.Chunk(Coord{}); !ok || c.Mesh == nil || !c.Regenerate {
		t.Errorf("chunk after failed rebuild = %+v", c)
	}
}

func TestNewManagerValidates(t *testing.T) {
	tess := newTess(t, cpu.New(), 4, 4, 0.5)
	bad := DefaultOptions()
	bad.RenderDistanceH = 0
	if _, err := NewManager(floor, tess, bad); err == nil {
		t.Error("accepted zero render distance")
	}
	if _, err := NewManager(nil, tess, DefaultOptions()); err == nil {
		t.Error("accepted nil source")
	}
}

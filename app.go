package main

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/chazu/loam/pkg/config"
	"github.com/chazu/loam/pkg/engine"
	"github.com/chazu/loam/pkg/field"
	"github.com/chazu/loam/pkg/geom"
	"github.com/chazu/loam/pkg/kernel"
	"github.com/chazu/loam/pkg/kernel/cpu"
	"github.com/chazu/loam/pkg/kernel/gpu"
	"github.com/chazu/loam/pkg/kernel/pool"
	"github.com/chazu/loam/pkg/mesh"
	"github.com/chazu/loam/pkg/terrain"
	"github.com/chazu/loam/pkg/tessellate"
	"github.com/chazu/loam/pkg/viewer"
)

// colorPalette is a default palette used to tell neighbouring chunks apart.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App wires the terrain pipeline together: density field, kernel,
// tessellator, chunk manager, scripting engine and the optional viewer.
type App struct {
	ctx     context.Context
	cfg     *config.Config
	log     *slog.Logger
	kernel  kernel.Kernel
	tess    *tessellate.Tessellator
	terrain *terrain.Manager
	engine  *engine.Engine
	viewer  *viewer.Server
	closers []func()
}

// MeshData is the JSON-serializable mesh format returned to callers.
type MeshData struct {
	Chunk    terrain.Coord `json:"chunk"`
	Position mgl32.Vec3    `json:"position"`
	Bounds   *geom.AABB    `json:"bounds,omitempty"`
	Vertices []float32     `json:"vertices"`
	Normals  []float32     `json:"normals"`
	Indices  []uint32      `json:"indices"`
	Color    string        `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of evaluating a script.
type EvalResult struct {
	Meshes    []MeshData       `json:"meshes"`
	Hits      []terrain.RayHit `json:"hits"`
	Ticks     int              `json:"ticks"`
	Resident  int              `json:"resident"`
	Triangles int              `json:"triangles"`
	Result    string           `json:"result"`
	Errors    []EvalErrorData  `json:"errors"`
	Warnings  []EvalErrorData  `json:"warnings"`
}

// NewKernel returns the marching cubes backend named by cfg, with a
// function that releases it.
func NewKernel(cfg config.Kernel) (kernel.Kernel, func(), error) {
	switch cfg.Backend {
	case "cpu":
		return cpu.New(), func() {}, nil
	case "pool":
		k := pool.New(cfg.Workers)
		return k, k.Close, nil
	case "gpu":
		k, err := gpu.New()
		if err != nil {
			return nil, nil, err
		}
		return k, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown kernel backend %q", cfg.Backend)
}

// NewApp builds the pipeline described by cfg.
func NewApp(cfg *config.Config, log *slog.Logger) (*App, error) {
	normals, err := mesh.ParseNormalMode(cfg.Surface.Normals)
	if err != nil {
		return nil, err
	}
	a := &App{ctx: context.Background(), cfg: cfg, log: log}

	k, release, err := NewKernel(cfg.Kernel)
	if err != nil {
		return nil, fmt.Errorf("kernel: %w", err)
	}
	a.kernel = k
	a.closers = append(a.closers, release)

	a.tess = tessellate.New(k, tessellate.Options{
		Width:      cfg.Chunk.Width,
		Height:     cfg.Chunk.Height,
		Threshold:  cfg.Surface.Threshold,
		MinDensity: cfg.Surface.MinDensity,
		MaxDensity: cfg.Surface.MaxDensity,
		Normals:    normals,
		Workers:    cfg.Kernel.Workers,
	})
	a.closers = append(a.closers, a.tess.Close)

	var sink terrain.MeshSink
	if cfg.Viewer.Listen != "" {
		v, err := viewer.NewServer(viewer.Options{Logger: log.With("component", "viewer")})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.viewer = v
		a.closers = append(a.closers, func() { _ = v.Close() })
		sink = v
	}

	src := field.NewNoise(field.NoiseParams{
		Seed:            cfg.Noise.Seed,
		Octaves:         cfg.Noise.Octaves,
		Frequency:       cfg.Noise.Frequency,
		Amplitude:       cfg.Noise.Amplitude,
		Gain:            cfg.Noise.Gain,
		SurfaceLevel:    cfg.Noise.SurfaceLevel,
		SurfaceGradient: cfg.Noise.SurfaceGradient,
	})
	a.terrain, err = terrain.NewManager(src, a.tess, terrain.Options{
		RenderDistanceH:      cfg.Stream.RenderDistanceH,
		RenderDistanceV:      cfg.Stream.RenderDistanceV,
		MaxGeneratePerTick:   cfg.Stream.MaxGeneratePerTick,
		MaxRegeneratePerTick: cfg.Stream.MaxRegeneratePerTick,
		MaxEvictPerTick:      cfg.Stream.MaxEvictPerTick,
		MaxRayDistance:       cfg.Stream.MaxRayDistance,
		Sink:                 sink,
		Logger:               log.With("component", "terrain"),
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.engine = engine.New(a.terrain, engine.Options{Logger: log.With("component", "engine")})

	log.Info("pipeline ready", "kernel", k.Name(), "normals", normals, "viewer", a.viewer != nil)
	return a, nil
}

// startup saves the context scripts and flights run under.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// Close releases workers and encoders in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Terrain returns the chunk manager.
func (a *App) Terrain() *terrain.Manager {
	return a.terrain
}

// Viewer returns the mesh viewer, or nil when it is disabled.
func (a *App) Viewer() *viewer.Server {
	return a.viewer
}

// Evaluate runs a script against the terrain and returns the resident
// meshes afterwards along with everything the script reported.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Hits:     []terrain.RayHit{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	tr, evalErrs, err := a.engine.Run(a.ctx, source)
	if err != nil {
		a.log.Error("evaluate", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return result
	}

	result.Hits = append(result.Hits, tr.Hits...)
	result.Ticks = len(tr.Ticks)
	result.Result = tr.Result
	for _, w := range tr.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.Message})
	}
	result.Meshes = a.Meshes()
	result.Resident = a.terrain.Len()
	result.Triangles = a.terrain.Triangles()
	return result
}

// Meshes returns every non-empty resident mesh, ordered by chunk.
func (a *App) Meshes() []MeshData {
	out := []MeshData{}
	a.terrain.Each(func(c *terrain.Chunk) {
		if c.Mesh == nil || c.Mesh.IsEmpty() {
			return
		}
		out = append(out, toMeshData(c.Coord, c.Mesh))
	})
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Chunk, out[j].Chunk
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return a.X < b.X
	})
	return out
}

func toMeshData(c terrain.Coord, m *mesh.Mesh) MeshData {
	n := m.VertexCount()
	d := MeshData{
		Chunk:    c,
		Position: m.Position,
		Bounds:   m.WireBounds(),
		Vertices: make([]float32, 0, n*3),
		Normals:  make([]float32, 0, n*3),
		Indices:  m.Indices,
		Color:    colorPalette[((c.X+3*c.Y+5*c.Z)%len(colorPalette)+len(colorPalette))%len(colorPalette)],
	}
	for i := 0; i < n; i++ {
		v := m.Vertices[i*mesh.VertexStride:]
		d.Vertices = append(d.Vertices, v[0], v[1], v[2])
		d.Normals = append(d.Normals, v[3], v[4], v[5])
	}
	return d
}

// Fly moves the reference point by step every tick for the given number of
// ticks, then ticks until streaming settles or the context ends.
func (a *App) Fly(ctx context.Context, ticks int, step mgl32.Vec3) error {
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.terrain.SetReference(a.terrain.Reference().Add(step))
		stats, err := a.terrain.Tick(ctx)
		if err != nil {
			return err
		}
		if i%16 == 0 {
			a.log.Info("flying", "tick", a.terrain.Ticks(), "reference", a.terrain.Reference(),
				"resident", stats.Resident, "missing", stats.Missing)
		}
	}
	for i := 0; i < engine.DefaultMaxSettleTicks; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats, err := a.terrain.Tick(ctx)
		if err != nil {
			return err
		}
		if stats.Idle() {
			break
		}
	}
	a.log.Info("flight done", "ticks", a.terrain.Ticks(), "resident", a.terrain.Len(),
		"triangles", a.terrain.Triangles())
	return nil
}

package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/chazu/loam/pkg/config"
	"github.com/chazu/loam/pkg/kernel"
	"github.com/chazu/loam/pkg/terrain"
)

// testConfig keeps the ground within about 12 of y=0 and generates a whole
// window per tick.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Noise.Amplitude = 0.5
	cfg.Stream.MaxGeneratePerTick = 27
	cfg.Kernel.Workers = 2
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	app, err := NewApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}
	t.Cleanup(app.Close)
	return app
}

func evalFile(t *testing.T, app *App, path string) EvalResult {
	t.Helper()
	source, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	result := app.Evaluate(string(source))
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
	return result
}

// TestE2ECraterExample exercises the full pipeline: script -> engine ->
// terrain -> tessellate -> kernel -> meshes.
func TestE2ECraterExample(t *testing.T) {
	app := newTestApp(t, testConfig())
	result := evalFile(t, app, "examples/crater.loam")

	if result.Resident != 27 {
		t.Errorf("resident = %d, want 27", result.Resident)
	}
	if result.Ticks == 0 {
		t.Error("script ran no ticks")
	}
	if len(result.Hits) != 2 {
		t.Fatalf("expected 2 raycasts, got %d", len(result.Hits))
	}
	ground, crater := result.Hits[0], result.Hits[1]
	if !ground.Hit || !crater.Hit {
		t.Fatalf("rays missed: %+v %+v", ground, crater)
	}
	if y := ground.Position[1]; y < -14 || y > 14 {
		t.Errorf("ground at y=%v, want within the surface band", y)
	}
	// Lattice points within 4 of the first hit are air now, so the ray has
	// to travel most of the radius further.
	if crater.Distance < ground.Distance+2 {
		t.Errorf("crater hit at %v, ground at %v: carve did not deepen the surface",
			crater.Distance, ground.Distance)
	}

	if len(result.Meshes) == 0 {
		t.Fatal("no meshes")
	}
	tris := 0
	for _, m := range result.Meshes {
		if len(m.Vertices) == 0 || len(m.Vertices) != len(m.Normals) {
			t.Errorf("chunk %v: %d vertex floats, %d normal floats", m.Chunk, len(m.Vertices), len(m.Normals))
		}
		if len(m.Indices) == 0 || len(m.Indices)%3 != 0 {
			t.Errorf("chunk %v: %d indices", m.Chunk, len(m.Indices))
		}
		for _, i := range m.Indices {
			if int(i) >= len(m.Vertices)/3 {
				t.Fatalf("chunk %v: index %d out of range", m.Chunk, i)
			}
		}
		c, ok := app.Terrain().Chunk(m.Chunk)
		if !ok {
			t.Fatalf("chunk %v not resident", m.Chunk)
		}
		if m.Bounds == nil || *m.Bounds != c.Mesh.Bounds {
			t.Errorf("chunk %v: bounds %v, want %v", m.Chunk, m.Bounds, c.Mesh.Bounds)
		}
		if m.Color == "" {
			t.Errorf("chunk %v: no color", m.Chunk)
		}
		tris += len(m.Indices) / 3
	}
	if tris != result.Triangles {
		t.Errorf("meshes hold %d triangles, result reports %d", tris, result.Triangles)
	}
}

func TestE2EArchExample(t *testing.T) {
	app := newTestApp(t, testConfig())
	result := evalFile(t, app, "examples/arch.loam")
	if result.Triangles == 0 || result.Result == "0" {
		t.Errorf("arch produced no geometry: %+v", result.Result)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

func TestE2EMeshesSortedByChunk(t *testing.T) {
	app := newTestApp(t, testConfig())
	result := evalFile(t, app, "examples/crater.loam")
	for i := 1; i < len(result.Meshes); i++ {
		a, b := result.Meshes[i-1].Chunk, result.Meshes[i].Chunk
		if a.Y > b.Y || (a.Y == b.Y && (a.Z > b.Z || (a.Z == b.Z && a.X >= b.X))) {
			t.Fatalf("meshes out of order: %v before %v", a, b)
		}
	}
}

func TestFlyStreamsAlongX(t *testing.T) {
	cfg := testConfig()
	cfg.Chunk.Width, cfg.Chunk.Height = 8, 8
	app := newTestApp(t, cfg)

	if err := app.Fly(context.Background(), 16, mgl32.Vec3{1, 0, 0}); err != nil {
		t.Fatalf("Fly() error: %v", err)
	}
	if got := app.Terrain().Reference(); got != (mgl32.Vec3{16, 0, 0}) {
		t.Errorf("reference = %v, want (16, 0, 0)", got)
	}
	// Reference chunk x=2, so the window spans x 1..3 once settled.
	if app.Terrain().Len() != 27 {
		t.Errorf("resident = %d, want 27", app.Terrain().Len())
	}
	app.Terrain().Each(func(c *terrain.Chunk) {
		if c.Coord.X < 1 || c.Coord.X > 3 {
			t.Errorf("chunk %v outside the window after settling", c.Coord)
		}
	})
}

func TestFlyStopsOnCancel(t *testing.T) {
	app := newTestApp(t, testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := app.Fly(ctx, 8, mgl32.Vec3{1, 0, 0})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Fly() error = %v, want context.Canceled", err)
	}
}

func TestKernelBackends(t *testing.T) {
	for _, backend := range []string{"cpu", "pool"} {
		t.Run(backend, func(t *testing.T) {
			k, release, err := NewKernel(config.Kernel{Backend: backend, Workers: 2})
			if err != nil {
				t.Fatalf("NewKernel(%q) error: %v", backend, err)
			}
			defer release()
			if k.Name() != backend {
				t.Errorf("Name() = %q, want %q", k.Name(), backend)
			}
		})
	}
}

func TestGPUBackendFailsStartup(t *testing.T) {
	cfg := testConfig()
	cfg.Kernel.Backend = "gpu"
	_, err := NewApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if !errors.Is(err, kernel.ErrUnavailable) {
		t.Errorf("NewApp() error = %v, want kernel.ErrUnavailable", err)
	}
}

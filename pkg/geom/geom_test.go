package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestEmptyBox(t *testing.T) {
	b := Empty()
	if !b.IsEmpty() {
		t.Fatal("Empty().IsEmpty() = false")
	}
	b = b.Extend(mgl32.Vec3{1, 2, 3})
	if b.IsEmpty() {
		t.Fatal("box with one point reports empty")
	}
	if b.Min != b.Max {
		t.Errorf("one-point box = %v, want degenerate", b)
	}
	b = b.Extend(mgl32.Vec3{-1, 5, 0})
	want := AABB{Min: mgl32.Vec3{-1, 2, 0}, Max: mgl32.Vec3{1, 5, 3}}
	if b != want {
		t.Errorf("Extend = %v, want %v", b, want)
	}
	if !b.Contains(mgl32.Vec3{0, 3, 1}) || b.Contains(mgl32.Vec3{0, 6, 1}) {
		t.Error("Contains gave the wrong answer")
	}
}

func TestOverlaps(t *testing.T) {
	a := AABB{Max: mgl32.Vec3{1, 1, 1}}
	tests := []struct {
		name string
		b    AABB
		want bool
	}{
		{"same", a, true},
		{"touching", AABB{Min: mgl32.Vec3{1, 0, 0}, Max: mgl32.Vec3{2, 1, 1}}, true},
		{"apart", AABB{Min: mgl32.Vec3{2, 0, 0}, Max: mgl32.Vec3{3, 1, 1}}, false},
		{"empty", Empty(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRayAABB(t *testing.T) {
	box := AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
	tests := []struct {
		name     string
		ray      Ray
		wantHit  bool
		wantTmin float32
	}{
		{"head on", NewRay(mgl32.Vec3{-5, 0, 0}, mgl32.Vec3{1, 0, 0}), true, 4},
		{"from inside", NewRay(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}), true, -1},
		{"pointing away", NewRay(mgl32.Vec3{-5, 0, 0}, mgl32.Vec3{-1, 0, 0}), false, 0},
		{"parallel outside slab", NewRay(mgl32.Vec3{-5, 2, 0}, mgl32.Vec3{1, 0, 0}), false, 0},
		{"diagonal", NewRay(mgl32.Vec3{-5, -5, -5}, mgl32.Vec3{1, 1, 1}), true, 4 * float32(math.Sqrt(3))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmin, _, ok := RayAABB(tt.ray, box)
			if ok != tt.wantHit {
				t.Fatalf("hit = %v, want %v", ok, tt.wantHit)
			}
			if ok && math.Abs(float64(tmin-tt.wantTmin)) > 1e-4 {
				t.Errorf("tmin = %v, want %v", tmin, tt.wantTmin)
			}
		})
	}
	if _, _, ok := RayAABB(NewRay(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}), Empty()); ok {
		t.Error("ray hit an empty box")
	}
}

func TestRayTriangle(t *testing.T) {
	a := mgl32.Vec3{0, 0, 0}
	b := mgl32.Vec3{2, 0, 0}
	c := mgl32.Vec3{0, 0, 2}
	tests := []struct {
		name    string
		ray     Ray
		wantHit bool
		wantT   float32
	}{
		{"straight down", NewRay(mgl32.Vec3{0.5, 3, 0.5}, mgl32.Vec3{0, -1, 0}), true, 3},
		{"from below", NewRay(mgl32.Vec3{0.5, -2, 0.5}, mgl32.Vec3{0, 1, 0}), true, 2},
		{"outside u", NewRay(mgl32.Vec3{-0.5, 3, 0.5}, mgl32.Vec3{0, -1, 0}), false, 0},
		{"outside u+v", NewRay(mgl32.Vec3{1.5, 3, 1.5}, mgl32.Vec3{0, -1, 0}), false, 0},
		{"parallel", NewRay(mgl32.Vec3{0.5, 1, 0.5}, mgl32.Vec3{1, 0, 0}), false, 0},
		{"behind", NewRay(mgl32.Vec3{0.5, 3, 0.5}, mgl32.Vec3{0, 1, 0}), false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := RayTriangle(tt.ray, a, b, c)
			if ok != tt.wantHit {
				t.Fatalf("hit = %v, want %v", ok, tt.wantHit)
			}
			if ok && math.Abs(float64(d-tt.wantT)) > 1e-5 {
				t.Errorf("distance = %v, want %v", d, tt.wantT)
			}
		})
	}
}

func TestTriangleNormal(t *testing.T) {
	n := TriangleNormal(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0})
	if n != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("normal = %v, want +y", n)
	}
	if n := TriangleNormal(mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}); n != (mgl32.Vec3{}) {
		t.Errorf("degenerate normal = %v, want zero", n)
	}
}

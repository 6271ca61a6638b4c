package field

import "math"

// Perlin is seeded 3D gradient noise. Values fall roughly in [-1, 1] and are
// exactly 0 at integer coordinates, so callers scale their input by a
// non-integer frequency.
type Perlin struct {
	perm [512]int
}

// NewPerlin creates a Perlin noise generator from a seed.
func NewPerlin(seed int64) *Perlin {
	p := &Perlin{}

	var base [256]int
	for i := range base {
		base[i] = i
	}

	// Fisher-Yates shuffle driven by an LCG so the table only depends on seed.
	s := uint64(seed)
	for i := 255; i > 0; i-- {
		s = s*6364136223846793005 + 1442695040888963407
		j := int((s >> 33) % uint64(i+1))
		base[i], base[j] = base[j], base[i]
	}

	for i := 0; i < 256; i++ {
		p.perm[i] = base[i]
		p.perm[i+256] = base[i]
	}
	return p
}

// fade applies the smoothstep 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// grad3D dots one of twelve cube-edge gradients with the offset vector.
func grad3D(hash int, x, y, z float64) float64 {
	h := hash & 15
	u := y
	if h < 8 {
		u = x
	}
	var v float64
	switch {
	case h < 4:
		v = y
	case h == 12 || h == 14:
		v = x
	default:
		v = z
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}

// Noise3D computes 3D Perlin noise at (x, y, z).
func (p *Perlin) Noise3D(x, y, z float64) float64 {
	fx, fy, fz := math.Floor(x), math.Floor(y), math.Floor(z)
	xi := int(fx) & 255
	yi := int(fy) & 255
	zi := int(fz) & 255
	x -= fx
	y -= fy
	z -= fz

	u, v, w := fade(x), fade(y), fade(z)

	a := p.perm[xi] + yi
	aa := p.perm[a] + zi
	ab := p.perm[a+1] + zi
	b := p.perm[xi+1] + yi
	ba := p.perm[b] + zi
	bb := p.perm[b+1] + zi

	return lerp(w,
		lerp(v,
			lerp(u, grad3D(p.perm[aa], x, y, z), grad3D(p.perm[ba], x-1, y, z)),
			lerp(u, grad3D(p.perm[ab], x, y-1, z), grad3D(p.perm[bb], x-1, y-1, z))),
		lerp(v,
			lerp(u, grad3D(p.perm[aa+1], x, y, z-1), grad3D(p.perm[ba+1], x-1, y, z-1)),
			lerp(u, grad3D(p.perm[ab+1], x, y-1, z-1), grad3D(p.perm[bb+1], x-1, y-1, z-1))))
}

// NoiseParams configures octave noise.
type NoiseParams struct {
	Seed      int64
	Octaves   int
	Frequency float64
	Amplitude float64
	// Gain scales the amplitude of each successive octave.
	Gain float64

	// SurfaceGradient, when positive, lowers density by
	// (y - SurfaceLevel) * SurfaceGradient so the world gets a ground
	// plane instead of floating noise.
	SurfaceLevel    float64
	SurfaceGradient float64
}

// DefaultNoiseParams returns the parameters the terrain ships with.
func DefaultNoiseParams() NoiseParams {
	return NoiseParams{
		Seed:      1337,
		Octaves:   4,
		Frequency: 0.05,
		Amplitude: 1,
		Gain:      0.5,
	}
}

// Noise is the procedural base field:
//
//	density = (sum over octaves o of noise(p*f*2^o) * a * r^o + 1) / 2
//
// It is stateless after construction and safe for concurrent use.
type Noise struct {
	params NoiseParams
	perlin *Perlin
}

// NewNoise creates an octave noise source.
func NewNoise(p NoiseParams) *Noise {
	return &Noise{params: p, perlin: NewPerlin(p.Seed)}
}

// Params returns the parameters the source was built with.
func (n *Noise) Params() NoiseParams {
	return n.params
}

// Density samples the field at lattice position (x, y, z).
func (n *Noise) Density(x, y, z int) float32 {
	var sum float64
	freq := n.params.Frequency
	amp := n.params.Amplitude
	px, py, pz := float64(x), float64(y), float64(z)
	for o := 0; o < n.params.Octaves; o++ {
		sum += n.perlin.Noise3D(px*freq, py*freq, pz*freq) * amp
		freq *= 2
		amp *= n.params.Gain
	}
	d := (sum + 1) / 2
	if n.params.SurfaceGradient > 0 {
		d -= (py - n.params.SurfaceLevel) * n.params.SurfaceGradient
	}
	return float32(d)
}

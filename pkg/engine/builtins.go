package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/chazu/loam/pkg/brush"
	"github.com/chazu/loam/pkg/terrain"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites script source into something zygomys accepts:
//
//   - :amount becomes the string "__kw_amount", so keywords need no
//     globals and cannot clash with script variables
//   - add-density becomes add_density, since zygomys reads a hyphen inside
//     a symbol as subtraction
//   - ; comments become // comments
//
// String literals, double-quoted or backtick, pass through untouched.
func preprocessSource(source string) string {
	var out strings.Builder
	out.Grow(len(source) + len(source)/4)
	for i := 0; i < len(source); {
		c := source[i]
		switch {
		case c == '"' || c == '`':
			n := quotedLen(source[i:])
			out.WriteString(source[i : i+n])
			i += n

		case c == ';':
			j := i
			for j < len(source) && source[j] == ';' {
				j++
			}
			end := strings.IndexByte(source[j:], '\n')
			if end < 0 {
				end = len(source) - j
			}
			out.WriteString("//")
			out.WriteString(source[j : j+end])
			i = j + end

		case c == ':' && i+1 < len(source) && isLetter(source[i+1]):
			j := i + 1
			for j < len(source) && isKWChar(source[j]) {
				j++
			}
			out.WriteString(`"` + kwPrefix + source[i+1:j] + `"`)
			i = j

		// A hyphen between identifier characters; minus operators and
		// negative literals are left alone.
		case c == '-' && i > 0 && i+1 < len(source) &&
			isIdentChar(source[i-1]) && isLetter(source[i+1]):
			out.WriteByte('_')
			i++

		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// quotedLen returns the length of the string literal at the start of s,
// closing quote included. An unterminated literal runs to the end of s.
func quotedLen(s string) int {
	q := s[0]
	for i := 1; i < len(s); i++ {
		switch {
		case s[i] == '\\' && q == '"':
			i++
		case s[i] == q:
			return i + 1
		}
	}
	return len(s)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

type sexpVec3 struct {
	vec mgl32.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec[0], v.vec[1], v.vec[2])
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpHit wraps a raycast hit. Misses are returned as nil instead.
type sexpHit struct {
	hit terrain.RayHit
}

func (h *sexpHit) SexpString(ps *zygo.PrintState) string {
	p := h.hit.Position
	return fmt.Sprintf("(hit %g %g %g :distance %g)", p[0], p[1], p[2], h.hit.Distance)
}
func (h *sexpHit) Type() *zygo.RegisteredType { return nil }

type sexpBrush struct {
	b *brush.Brush
}

func (b *sexpBrush) SexpString(ps *zygo.PrintState) string {
	box := b.b.Bounds()
	return fmt.Sprintf("(brush %v %v)", box.Min, box.Max)
}
func (b *sexpBrush) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword arguments
// ---------------------------------------------------------------------------

// kwPrefix marks keyword strings produced by preprocessSource.
const kwPrefix = "__kw_"

func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	return strings.CutPrefix(str.S, kwPrefix)
}

// kwArgs is an argument list split into positional and keyword arguments.
// A trailing keyword with no value maps to SexpNull.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

func parseArgs(args []zygo.Sexp) kwArgs {
	out := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			out.positional = append(out.positional, args[i])
			continue
		}
		var v zygo.Sexp = zygo.SexpNull
		if i+1 < len(args) {
			i++
			v = args[i]
		}
		out.kw[name] = v
	}
	return out
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func describe(s zygo.Sexp) string {
	if s == nil {
		return "nil"
	}
	return fmt.Sprintf("%T (%s)", s, s.SexpString(nil))
}

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %s", describe(s))
}

func toFloat32(s zygo.Sexp) (float32, error) {
	f, err := toFloat64(s)
	return float32(f), err
}

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %s", describe(s))
}

func toVec3(s zygo.Sexp) (mgl32.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return mgl32.Vec3{}, fmt.Errorf("expected vec3, got %s", describe(s))
}

func toHit(s zygo.Sexp) (terrain.RayHit, error) {
	if h, ok := s.(*sexpHit); ok {
		return h.hit, nil
	}
	return terrain.RayHit{}, fmt.Errorf("expected raycast hit, got %s", describe(s))
}

func toBrush(s zygo.Sexp) (*brush.Brush, error) {
	if b, ok := s.(*sexpBrush); ok {
		return b.b, nil
	}
	return nil, fmt.Errorf("expected brush, got %s", describe(s))
}

func intSexp(n int) zygo.Sexp {
	return &zygo.SexpInt{Val: int64(n)}
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// session is the state one script run shares between its builtins.
type session struct {
	ctx       context.Context
	mgr       *terrain.Manager
	tr        *Transcript
	log       *slog.Logger
	maxSettle int
}

func (s *session) tick() (terrain.TickStats, error) {
	if err := s.ctx.Err(); err != nil {
		return terrain.TickStats{}, err
	}
	stats, err := s.mgr.Tick(s.ctx)
	s.tr.Ticks = append(s.tr.Ticks, stats)
	return stats, err
}

func (s *session) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	s.tr.Warnings = append(s.tr.Warnings, EvalWarning{Message: msg})
	s.log.Warn("script warning", "msg", msg)
}

// userFunc is the signature zygomys expects for Go builtins.
type userFunc = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

// guarded checks the run's context before calling fn, so a timed out
// script stops at its next builtin.
func (s *session) guarded(fn userFunc) userFunc {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if err := s.ctx.Err(); err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		return fn(env, name, args)
	}
}

// registerBuiltins installs the terrain builtins into a zygomys environment.
// Hyphenated names are registered with underscores because preprocessSource
// rewrites kebab-case identifiers.
func registerBuiltins(env *zygo.Zlisp, s *session) {
	add := func(name string, fn userFunc) {
		env.AddFunction(name, s.guarded(fn))
	}

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	add("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var v mgl32.Vec3
		for i, axis := range []string{"x", "y", "z"} {
			f, err := toFloat32(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
			}
			v[i] = f
		}
		return &sexpVec3{vec: v}, nil
	})

	// -----------------------------------------------------------------------
	// (move (vec3 0 0 16))
	// -----------------------------------------------------------------------
	add("move", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("move requires a position")
		}
		v, err := toVec3(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("move: %w", err)
		}
		s.mgr.SetReference(v)
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (tick) or (tick 5); returns the resident chunk count
	// -----------------------------------------------------------------------
	add("tick", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		n := 1
		if len(args) > 0 {
			var err error
			if n, err = toInt(args[0]); err != nil {
				return zygo.SexpNull, fmt.Errorf("tick: count: %w", err)
			}
		}
		for i := 0; i < n; i++ {
			if _, err := s.tick(); err != nil {
				return zygo.SexpNull, fmt.Errorf("tick: %w", err)
			}
		}
		return intSexp(s.mgr.Len()), nil
	})

	// -----------------------------------------------------------------------
	// (settle); ticks until no streaming work is left, returns the tick count
	// -----------------------------------------------------------------------
	add("settle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		for i := 1; i <= s.maxSettle; i++ {
			stats, err := s.tick()
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("settle: %w", err)
			}
			if stats.Idle() {
				return intSexp(i), nil
			}
		}
		return zygo.SexpNull, fmt.Errorf("settle: terrain still busy after %d ticks", s.maxSettle)
	})

	// -----------------------------------------------------------------------
	// (add-density (vec3 8 4 8) 3 0.5); returns the number of chunks changed
	// -----------------------------------------------------------------------
	add("add_density", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("add-density requires a position, radius and amount")
		}
		pos, err := toVec3(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-density: position: %w", err)
		}
		radius, err := toFloat32(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-density: radius: %w", err)
		}
		amount, err := toFloat32(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-density: amount: %w", err)
		}
		n := s.mgr.AddDensity(pos, radius, amount)
		if n == 0 {
			s.warn("add-density at %v changed no resident chunk", pos)
		}
		s.tr.Edited += n
		return intSexp(n), nil
	})

	// -----------------------------------------------------------------------
	// (raycast (vec3 8 40 8) (vec3 0 -1 0)); returns a hit or nil
	// -----------------------------------------------------------------------
	add("raycast", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("raycast requires an origin and a direction")
		}
		origin, err := toVec3(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("raycast: origin: %w", err)
		}
		dir, err := toVec3(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("raycast: direction: %w", err)
		}
		hit := s.mgr.Raycast(origin, dir)
		s.tr.Hits = append(s.tr.Hits, hit)
		if !hit.Hit {
			return zygo.SexpNull, nil
		}
		return &sexpHit{hit: hit}, nil
	})

	add("hit_position", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("hit-position requires a hit")
		}
		h, err := toHit(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("hit-position: %w", err)
		}
		return &sexpVec3{vec: h.Position}, nil
	})

	add("hit_normal", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("hit-normal requires a hit")
		}
		h, err := toHit(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("hit-normal: %w", err)
		}
		return &sexpVec3{vec: h.Normal}, nil
	})

	add("hit_distance", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("hit-distance requires a hit")
		}
		h, err := toHit(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("hit-distance: %w", err)
		}
		return &zygo.SexpFloat{Val: float64(h.Distance)}, nil
	})

	// -----------------------------------------------------------------------
	// Brushes: (sphere 3), (box 4 2 4), (cylinder 6 1.5)
	// -----------------------------------------------------------------------
	shape := func(label string, arity int, build func(v []float64) (*brush.Brush, error)) userFunc {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != arity {
				return zygo.SexpNull, fmt.Errorf("%s requires %d arguments, got %d", label, arity, len(args))
			}
			v := make([]float64, arity)
			for i, a := range args {
				f, err := toFloat64(a)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: argument %d: %w", label, i+1, err)
				}
				v[i] = f
			}
			b, err := build(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", label, err)
			}
			return &sexpBrush{b: b}, nil
		}
	}
	add("sphere", shape("sphere", 1, func(v []float64) (*brush.Brush, error) {
		return brush.Sphere(v[0])
	}))
	add("box", shape("box", 3, func(v []float64) (*brush.Brush, error) {
		return brush.Box(v[0], v[1], v[2])
	}))
	add("cylinder", shape("cylinder", 2, func(v []float64) (*brush.Brush, error) {
		return brush.Cylinder(v[0], v[1])
	}))

	// -----------------------------------------------------------------------
	// (union a b), (difference a b), (intersection a b)
	// -----------------------------------------------------------------------
	combine := func(label string, op func(a, b *brush.Brush) *brush.Brush) userFunc {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires two brushes", label)
			}
			a, err := toBrush(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", label, err)
			}
			b, err := toBrush(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", label, err)
			}
			return &sexpBrush{b: op(a, b)}, nil
		}
	}
	add("union", combine("union", brush.Union))
	add("difference", combine("difference", brush.Difference))
	add("intersection", combine("intersection", brush.Intersection))

	// -----------------------------------------------------------------------
	// (translate b (vec3 8 2 8)), (rotate b (vec3 0 45 0)) in degrees
	// -----------------------------------------------------------------------
	transform := func(label string, op func(b *brush.Brush, v mgl32.Vec3) *brush.Brush) userFunc {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires a brush and a vec3", label)
			}
			b, err := toBrush(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", label, err)
			}
			v, err := toVec3(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", label, err)
			}
			return &sexpBrush{b: op(b, v)}, nil
		}
	}
	add("translate", transform("translate", func(b *brush.Brush, v mgl32.Vec3) *brush.Brush {
		return b.Translate(v)
	}))
	add("rotate", transform("rotate", func(b *brush.Brush, v mgl32.Vec3) *brush.Brush {
		return b.Rotate(float64(v[0]), float64(v[1]), float64(v[2]))
	}))

	// -----------------------------------------------------------------------
	// (stamp b :amount -1); amount defaults to 1
	// -----------------------------------------------------------------------
	add("stamp", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("stamp requires a brush")
		}
		b, err := toBrush(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("stamp: %w", err)
		}
		amount := float32(1)
		if v, ok := pa.kw["amount"]; ok {
			if amount, err = toFloat32(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("stamp: amount: %w", err)
			}
		}
		n := s.mgr.Stamp(b, amount)
		if n == 0 {
			s.warn("stamp changed no resident chunk")
		}
		s.tr.Edited += n
		return intSexp(n), nil
	})

	add("resident", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return intSexp(s.mgr.Len()), nil
	})

	add("triangles", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return intSexp(s.mgr.Triangles()), nil
	})
}

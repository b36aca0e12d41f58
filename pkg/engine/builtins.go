package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/chazu/ferris/pkg/ride"
	"github.com/chazu/ferris/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpColor wraps a scene.Color.
type sexpColor struct {
	c scene.Color
}

func (c *sexpColor) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(rgba %.3g %.3g %.3g %.3g)", c.c.R, c.c.G, c.c.B, c.c.A)
}
func (c *sexpColor) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps an mgl64.Vec3.
type sexpVec3 struct {
	vec mgl64.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.1f %.1f %.1f)", v.vec.X(), v.vec.Y(), v.vec.Z())
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpRide wraps the configuration produced by a (ride ...) form.
type sexpRide struct {
	cfg ride.Config
}

func (r *sexpRide) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(ride :cabins %d :radius %g)", r.cfg.CabinCount, r.cfg.WheelRadius)
}
func (r *sexpRide) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	order      []string
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if _, seen := result.kw[name]; !seen {
				result.order = append(result.order, name)
			}
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts a whole number from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	f, err := toFloat64(s)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("expected whole number, got %g", f)
	}
	return int(f), nil
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (mgl64.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return mgl64.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toColor extracts a color from a sexpColor or a hex string.
func toColor(s zygo.Sexp) (scene.Color, error) {
	switch v := s.(type) {
	case *sexpColor:
		return v.c, nil
	case *zygo.SexpStr:
		return parseHex(v.S)
	}
	return scene.Color{}, fmt.Errorf("expected color, got %T (%s)", s, s.SexpString(nil))
}

// parseHex parses #rrggbb or #rrggbbaa.
func parseHex(h string) (scene.Color, error) {
	s := strings.TrimPrefix(h, "#")
	if len(s) != 6 && len(s) != 8 {
		return scene.Color{}, fmt.Errorf("invalid hex color %q, expected #rrggbb or #rrggbbaa", h)
	}
	if len(s) == 6 {
		s += "ff"
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return scene.Color{}, fmt.Errorf("invalid hex color %q: %w", h, err)
	}
	ch := func(shift uint) float64 { return float64((v>>shift)&0xff) / 255 }
	return scene.RGBA(ch(24), ch(16), ch(8), ch(0)), nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// scriptState collects what the script's builtins produce. Once stopped is
// set every builtin fails with errCancelled.
type scriptState struct {
	config  *ride.Config
	stopped *atomic.Bool
}

type builtin = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

func (sc *scriptState) add(env *zygo.Zlisp, name string, fn builtin) {
	env.AddFunction(name, sc.guard(fn))
}

func (sc *scriptState) guard(fn builtin) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if sc.stopped != nil && sc.stopped.Load() {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, errCancelled)
		}
		return fn(env, name, args)
	}
}

// rideSetters maps each (ride ...) keyword to the config field it sets.
var rideSetters = map[string]func(c *ride.Config, v zygo.Sexp) error{
	"cabins": func(c *ride.Config, v zygo.Sexp) (err error) {
		c.CabinCount, err = toInt(v)
		return err
	},
	"radius": func(c *ride.Config, v zygo.Sexp) (err error) {
		c.WheelRadius, err = toFloat64(v)
		return err
	},
	"speed": func(c *ride.Config, v zygo.Sexp) (err error) {
		c.RotationSpeed, err = toFloat64(v)
		return err
	},
	"cabin-size": func(c *ride.Config, v zygo.Sexp) (err error) {
		c.CabinSize, err = toFloat64(v)
		return err
	},
	"step-height": func(c *ride.Config, v zygo.Sexp) (err error) {
		c.StepHeight, err = toFloat64(v)
		return err
	},
	"step-depth": func(c *ride.Config, v zygo.Sexp) (err error) {
		c.StepDepth, err = toInt(v)
		return err
	},
	"seed": func(c *ride.Config, v zygo.Sexp) error {
		n, err := toInt(v)
		c.Seed = int64(n)
		return err
	},
	"origin": func(c *ride.Config, v zygo.Sexp) (err error) {
		c.Origin, err = toVec3(v)
		return err
	},
	"frame": func(c *ride.Config, v zygo.Sexp) (err error) {
		c.Colors.Frame, err = toColor(v)
		return err
	},
	"wheel": func(c *ride.Config, v zygo.Sexp) (err error) {
		c.Colors.Wheel, err = toColor(v)
		return err
	},
	"accent": func(c *ride.Config, v zygo.Sexp) (err error) {
		c.Colors.Accent, err = toColor(v)
		return err
	},
	"cabin": func(c *ride.Config, v zygo.Sexp) (err error) {
		c.Colors.Cabin, err = toColor(v)
		return err
	},
	"light": func(c *ride.Config, v zygo.Sexp) (err error) {
		c.Colors.Light, err = toColor(v)
		return err
	},
}

// registerBuiltins installs the ride DSL builtins into a zygomys environment.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, sc *scriptState) {

	// -----------------------------------------------------------------------
	// (rgba 1 0.5 0 0.8), alpha defaults to 1
	// -----------------------------------------------------------------------
	sc.add(env, "rgba", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 && len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("rgba requires 3 or 4 arguments, got %d", len(args))
		}
		ch := [4]float64{0, 0, 0, 1}
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rgba: channel %d: %w", i, err)
			}
			ch[i] = f
		}
		return &sexpColor{c: scene.RGBA(ch[0], ch[1], ch[2], ch[3])}, nil
	})

	// -----------------------------------------------------------------------
	// (hex "#ff8800") or (hex "#ff8800cc")
	// -----------------------------------------------------------------------
	sc.add(env, "hex", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("hex requires exactly 1 argument, got %d", len(args))
		}
		s, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("hex: %w", err)
		}
		c, err := parseHex(s)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpColor{c: c}, nil
	})

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	sc.add(env, "vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}

		return &sexpVec3{vec: mgl64.Vec3{x, y, z}}, nil
	})

	// -----------------------------------------------------------------------
	// (ride :cabins 12 :radius 25 :speed 10 :cabin-size 6
	//       :step-height 0.5 :step-depth 1 :seed 7 :origin (vec3 0 45 0)
	//       :frame (rgba ...) :wheel ... :accent ... :cabin ... :light ...)
	// -----------------------------------------------------------------------
	sc.add(env, "ride", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if sc.config != nil {
			return zygo.SexpNull, fmt.Errorf("ride: defined more than once")
		}
		pa := parseArgs(args)
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("ride: unexpected positional argument %s", pa.positional[0].SexpString(nil))
		}

		cfg := ride.DefaultConfig()
		for _, key := range pa.order {
			set, ok := rideSetters[key]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("ride: unknown keyword :%s", key)
			}
			if err := set(&cfg, pa.kw[key]); err != nil {
				return zygo.SexpNull, fmt.Errorf("ride: %s: %w", key, err)
			}
		}

		sc.config = &cfg
		return &sexpRide{cfg: cfg}, nil
	})
}

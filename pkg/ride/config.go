package ride

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/ferris/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidConfig wraps every configuration problem reported by Validate.
var ErrInvalidConfig = errors.New("ride: invalid config")

// Colors holds the five named appearance colors of a ride.
type Colors struct {
	Frame  scene.Color `json:"frame"`  // spokes, staircase
	Wheel  scene.Color `json:"wheel"`  // rim
	Accent scene.Color `json:"accent"` // rim accents, trim, railings, ornaments
	Cabin  scene.Color `json:"cabin"`  // cabin shell and floor
	Light  scene.Color `json:"light"`  // decoration lights
}

// DefaultColors is a white frame with red accents and warm lights.
var DefaultColors = Colors{
	Frame:  scene.RGBA(0.85, 0.85, 0.88, 1),
	Wheel:  scene.RGBA(0.95, 0.95, 0.95, 1),
	Accent: scene.RGBA(0.80, 0.10, 0.12, 1),
	Cabin:  scene.RGBA(0.20, 0.45, 0.80, 1),
	Light:  scene.RGBA(1.00, 0.85, 0.40, 0.9),
}

// Config is the construction-time configuration of a ride.
type Config struct {
	CabinCount    int        `json:"cabinCount"`
	WheelRadius   float64    `json:"wheelRadius"`
	RotationSpeed float64    `json:"rotationSpeed"` // degrees per second
	CabinSize     float64    `json:"cabinSize"`     // cabin half-extent in voxels
	StepHeight    float64    `json:"stepHeight"`
	StepDepth     int        `json:"stepDepth"` // voxel rows per tread
	Origin        mgl64.Vec3 `json:"origin"`    // world position of the wheel hub
	Colors        Colors     `json:"colors"`
	Seed          int64      `json:"seed"` // light phase RNG seed
}

// DefaultConfig returns a twelve-cabin ride whose lowest cabin clears the
// ground.
func DefaultConfig() Config {
	return Config{
		CabinCount:    12,
		WheelRadius:   25,
		RotationSpeed: 10,
		CabinSize:     6,
		StepHeight:    0.5,
		StepDepth:     1,
		Origin:        mgl64.Vec3{0, 45, 0},
		Colors:        DefaultColors,
		Seed:          1,
	}
}

// CabinOffset is the distance from the hub to every cabin center.
func (c Config) CabinOffset() float64 {
	return c.WheelRadius + c.CabinSize + CabinGap
}

// MaxStairSteps bounds the staircase a config may ask for.
const MaxStairSteps = 10000

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error
	if c.CabinCount <= 0 {
		errs = append(errs, fmt.Errorf("cabin count %d must be positive", c.CabinCount))
	}
	if !(c.WheelRadius > 0) || !finite(c.WheelRadius) {
		errs = append(errs, fmt.Errorf("wheel radius %g must be positive and finite", c.WheelRadius))
	}
	if !finite(c.CabinSize) || c.CabinSize < 1 || c.CabinSize != math.Trunc(c.CabinSize) {
		errs = append(errs, fmt.Errorf("cabin size %g must be a whole number of voxels >= 1", c.CabinSize))
	}
	if !(c.StepHeight > 0) || !finite(c.StepHeight) {
		errs = append(errs, fmt.Errorf("step height %g must be positive and finite", c.StepHeight))
	}
	if c.StepDepth < 1 {
		errs = append(errs, fmt.Errorf("step depth %d must be at least 1", c.StepDepth))
	}
	if !finite(c.RotationSpeed) {
		errs = append(errs, fmt.Errorf("rotation speed %g must be finite", c.RotationSpeed))
	}
	for i, axis := range [3]string{"x", "y", "z"} {
		if !finite(c.Origin[i]) {
			errs = append(errs, fmt.Errorf("origin %s %g must be finite", axis, c.Origin[i]))
		}
	}
	for _, nc := range []struct {
		name string
		col  scene.Color
	}{
		{"frame", c.Colors.Frame},
		{"wheel", c.Colors.Wheel},
		{"accent", c.Colors.Accent},
		{"cabin", c.Colors.Cabin},
		{"light", c.Colors.Light},
	} {
		col := nc.col
		for _, ch := range []struct {
			name string
			v    float64
		}{{"red", col.R}, {"green", col.G}, {"blue", col.B}} {
			if !finite(ch.v) {
				errs = append(errs, fmt.Errorf("%s color %s %g must be finite", nc.name, ch.name, ch.v))
			}
		}
		if !(col.A >= 0 && col.A <= 1) {
			errs = append(errs, fmt.Errorf("%s color alpha %g outside [0,1]", nc.name, col.A))
		}
	}
	if len(errs) == 0 {
		floor := c.Origin.Y() - c.WheelRadius - c.CabinSize
		if steps := math.Ceil(floor / c.StepHeight); steps >= MaxStairSteps {
			errs = append(errs, fmt.Errorf("staircase needs %g steps, limit is %d", steps+1, MaxStairSteps))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

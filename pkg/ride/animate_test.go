package ride

import (
	"math"
	"testing"

	"github.com/chazu/ferris/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
)

func approxColor(a, b scene.Color) bool {
	const eps = 1e-12
	return math.Abs(a.R-b.R) < eps && math.Abs(a.G-b.G) < eps &&
		math.Abs(a.B-b.B) < eps && math.Abs(a.A-b.A) < eps
}

func TestUpdateRotatesWheel(t *testing.T) {
	tests := []struct {
		name      string
		speed     float64
		ticks     int
		dt        float64
		wantAngle float64
	}{
		{"one second", 10, 1, 1, 10},
		{"many ticks", 10, 10, 0.1, 10},
		{"wraps", 100, 4, 1, 40},
		{"reverse", -10, 1, 1, 350},
		{"stopped", 0, 5, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := buildRide(t, func(c *Config) { c.CabinCount = 1; c.RotationSpeed = tt.speed })
			for i := 0; i < tt.ticks; i++ {
				r.Update(tt.dt)
			}
			if math.Abs(r.WheelAngle-tt.wantAngle) > 1e-9 {
				t.Errorf("WheelAngle = %g, want %g", r.WheelAngle, tt.wantAngle)
			}
			want := mgl64.QuatRotate(mgl64.DegToRad(tt.wantAngle), mgl64.Vec3{0, 0, 1})
			if got := r.Graph.WorldRotation(r.Wheel); !got.OrientationEqualThreshold(want, 1e-9) {
				t.Errorf("wheel rotation = %v, want %v", got, want)
			}
			if math.Abs(r.Time-float64(tt.ticks)*tt.dt) > 1e-9 {
				t.Errorf("Time = %g", r.Time)
			}
		})
	}
}

func TestCabinsStayLevel(t *testing.T) {
	r := buildRide(t, func(c *Config) { c.RotationSpeed = 23.7 })
	dts := []float64{0.016, 0.5, 1.3, 0.001, 7, 0.25}
	for _, dt := range dts {
		r.Update(dt)
		for _, c := range r.Cabins {
			q := r.Graph.WorldRotation(c.Node)
			if !q.OrientationEqualThreshold(mgl64.QuatIdent(), 1e-9) {
				t.Fatalf("after dt=%g cabin %d world rotation %v", dt, c.Index, q)
			}
		}
	}
	if r.Graph.WorldRotation(r.Wheel).OrientationEqualThreshold(mgl64.QuatIdent(), 1e-6) {
		t.Error("wheel should have turned")
	}
}

func TestCabinsLevelUnderForeignRotation(t *testing.T) {
	r := buildRide(t, func(c *Config) { c.CabinCount = 3 })
	// Tilt the whole ride; leveling must still reach world identity.
	r.Graph.SetLocalRotation(r.Root, mgl64.QuatRotate(0.4, mgl64.Vec3{1, 1, 0}.Normalize()))
	r.Update(0.1)
	for _, c := range r.Cabins {
		if q := r.Graph.WorldRotation(c.Node); !q.OrientationEqualThreshold(mgl64.QuatIdent(), 1e-9) {
			t.Errorf("cabin %d world rotation %v", c.Index, q)
		}
	}
}

func TestLightColor(t *testing.T) {
	base := scene.RGBA(1, 0.5, 0.25, 0.9)
	tests := []struct {
		name     string
		t, phase float64
		want     scene.Color
	}{
		{"phase zero at start", 0, 0, base.Scale(PulseLow)},
		{"peak", 1, 0, base.Scale(PulseHigh)},
		{"midpoint", 0.5, 0, base},
		{"phase shifts", 0, 0.5, base},
		{"falls back", 1.5, 0, base},
		{"period", 2, 0, base.Scale(PulseLow)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LightColor(base, tt.t, tt.phase)
			if !approxColor(got, tt.want) {
				t.Errorf("LightColor(t=%g, phase=%g) = %v, want %v", tt.t, tt.phase, got, tt.want)
			}
			if got.A != base.A {
				t.Errorf("alpha = %g, want %g", got.A, base.A)
			}
		})
	}
}

func TestUpdatePulsesLights(t *testing.T) {
	r := buildRide(t, func(c *Config) { c.CabinCount = 1 })
	// Leave residual emission on one light; Update must clear it.
	first := r.Lights[0].Node
	vd, _ := r.Graph.Voxel(first)
	vd.Appearance.Emission = scene.RGBA(1, 1, 1, 1)
	if err := r.Graph.SetAppearance(first, vd.Appearance); err != nil {
		t.Fatal(err)
	}

	r.Update(0.3)
	base := r.Config.Colors.Light
	distinct := map[scene.Color]bool{}
	for _, l := range r.Lights {
		vd, _ := r.Graph.Voxel(l.Node)
		want := LightColor(base, 0.3, l.Phase)
		if !approxColor(vd.Appearance.Color, want) {
			t.Errorf("light at %g: color %v, want %v", l.Angle, vd.Appearance.Color, want)
		}
		if vd.Appearance.Emission != scene.Black {
			t.Errorf("light at %g still emits %v", l.Angle, vd.Appearance.Emission)
		}
		if vd.Appearance.Queue != scene.QueueTransparent {
			t.Errorf("light at %g lost its render queue", l.Angle)
		}
		distinct[vd.Appearance.Color] = true
	}
	if len(distinct) < 2 {
		t.Error("lights pulse in lockstep")
	}
}

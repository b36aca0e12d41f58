package ride

import (
	"math"

	"github.com/chazu/ferris/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// Pulse brightness bounds relative to the base light color.
const (
	PulseLow  = 0.8
	PulseHigh = 1.2
)

// Update advances the ride by dt seconds: the wheel turns about its forward
// axis, every cabin is re-leveled to world identity, and every light's
// color is re-pulsed.
func (r *Ride) Update(dt float64) {
	r.Time += dt
	r.WheelAngle = math.Mod(r.WheelAngle+r.Config.RotationSpeed*dt, 360)
	if r.WheelAngle < 0 {
		r.WheelAngle += 360
	}
	r.Graph.SetLocalRotation(r.Wheel, mgl64.QuatRotate(mgl64.DegToRad(r.WheelAngle), mgl64.Vec3{0, 0, 1}))

	for _, c := range r.Cabins {
		r.Graph.SetWorldRotation(c.Node, mgl64.QuatIdent())
	}

	for _, l := range r.Lights {
		vd, ok := r.Graph.Voxel(l.Node)
		if !ok {
			continue
		}
		a := vd.Appearance
		a.Color = LightColor(r.Config.Colors.Light, r.Time, l.Phase)
		a.Emission = scene.Black
		if err := r.Graph.SetAppearance(l.Node, a); err != nil {
			r.log.Debug().Err(err).Stringer("node", l.Node).Msg("light update skipped")
		}
	}
	r.metrics.tick()
}

// LightColor is the pulsed color of a light with the given phase at time t.
// Phase zero at time zero yields the dim end.
func LightColor(base scene.Color, t, phase float64) scene.Color {
	p := PingPong(t+phase, 1)
	return base.Scale(PulseLow).Lerp(base.Scale(PulseHigh), p)
}

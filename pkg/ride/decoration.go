package ride

import (
	"fmt"

	"github.com/chazu/ferris/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// buildDecorations adds the ring of pulsing lights.
func (b *builder) buildDecorations(wheel scene.NodeID) {
	b.buildLights(wheel)
}

// buildLights places one light between every pair of rim segments, just
// outside the rim, each with its own pulse phase.
func (b *builder) buildLights(wheel scene.NodeID) {
	lights, ok := b.place.group("wheel/lights", wheel, mgl64.Vec3{}, scene.GroupData{Description: "lights"})
	if !ok {
		return
	}
	r := b.cfg.WheelRadius + LightRadiusOffset
	half := 360.0 / Segments / 2
	for k := 0; k < Segments; k++ {
		deg := float64(k)*360/Segments + half
		id, err := b.place.Place(lights, polar(deg, r, zAccent), b.cfg.Colors.Light)
		if err != nil {
			b.place.report(fmt.Sprintf("light %d", k), polar(deg, r, zAccent), err)
			continue
		}
		b.ride.Lights = append(b.ride.Lights, Light{Node: id, Angle: deg, Phase: b.rng.Float64()})
	}
}

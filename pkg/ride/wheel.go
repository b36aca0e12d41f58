package ride

import (
	"github.com/chazu/ferris/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// buildWheel places the rim, the spokes and the hub ornament under wheel.
func (b *builder) buildWheel(wheel scene.NodeID) {
	b.buildRim(wheel)
	b.buildSpokes(wheel)
	b.buildOrnament(wheel)
}

// buildRim places Segments voxels on the circle of radius R and an accent
// voxel just outside every RimAccentEvery-th one.
func (b *builder) buildRim(wheel scene.NodeID) {
	rim, ok := b.place.group("wheel/rim", wheel, mgl64.Vec3{}, scene.GroupData{Description: "rim"})
	if !ok {
		return
	}
	r := b.cfg.WheelRadius
	for k := 0; k < Segments; k++ {
		deg := float64(k) * 360 / Segments
		b.place.put("rim", rim, polar(deg, r, zRim), b.cfg.Colors.Wheel)
		if k%RimAccentEvery == 0 {
			b.place.put("rim accent", rim, polar(deg, r+0.5, zAccent), b.cfg.Colors.Accent)
		}
	}
}

// buildSpokes places SpokeCount main spokes from the hub to the rim, each
// flanked by two shorter secondary spokes offset by SpokeOffsetDeg.
func (b *builder) buildSpokes(wheel scene.NodeID) {
	spokes, ok := b.place.group("wheel/spokes", wheel, mgl64.Vec3{}, scene.GroupData{Description: "spokes"})
	if !ok {
		return
	}
	r := b.cfg.WheelRadius
	inner, outer := SpokeInner*r, SpokeOuter*r
	secondary := spokeSamples(inner, outer)

	for j := 0; j < SpokeCount; j++ {
		deg := float64(j) * 360 / SpokeCount
		for d := 1.0; d < r; d++ {
			b.place.put("spoke", spokes, polar(deg, d, zSpoke), b.cfg.Colors.Frame)
		}
		for _, off := range [2]float64{-SpokeOffsetDeg, SpokeOffsetDeg} {
			for i := 0; i < secondary; i++ {
				d := inner + float64(i)
				b.place.put("secondary spoke", spokes, polar(deg+off, d, zAccent), b.cfg.Colors.Accent)
			}
		}
	}
}

// spokeSamples counts unit-spaced samples in [inner, outer].
func spokeSamples(inner, outer float64) int {
	if outer < inner {
		return 0
	}
	return int(outer-inner+epsilon) + 1
}

// buildOrnament stacks OrnamentLayers filled disks of shrinking radius in
// front of the hub and rings them with OrnamentRing accent voxels.
func (b *builder) buildOrnament(wheel scene.NodeID) {
	hub, ok := b.place.group("wheel/ornament", wheel, mgl64.Vec3{}, scene.GroupData{Description: "hub ornament"})
	if !ok {
		return
	}
	palette := [OrnamentLayers]scene.Color{b.cfg.Colors.Frame, b.cfg.Colors.Wheel, b.cfg.Colors.Accent}
	for layer := 0; layer < OrnamentLayers; layer++ {
		radius := OrnamentRadius - layer
		z := zOrnament - 0.1*float64(layer)
		for _, p := range disk(radius) {
			b.place.putStable("ornament", hub, mgl64.Vec3{p[0], p[1], z}, palette[layer])
		}
	}
	for k := 0; k < OrnamentRing; k++ {
		deg := float64(k) * 360 / OrnamentRing
		b.place.putStable("ornament ring", hub, polar(deg, OrnamentRadius+1, zOrnament), b.cfg.Colors.Accent)
	}
}

// disk returns the integer grid points within radius of the origin.
func disk(radius int) [][2]float64 {
	var pts [][2]float64
	for x := -radius; x <= radius; x++ {
		for y := -radius; y <= radius; y++ {
			if x*x+y*y <= radius*radius {
				pts = append(pts, [2]float64{float64(x), float64(y)})
			}
		}
	}
	return pts
}

package ride

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Angular sweeps.
const (
	Segments       = 72 // every wheel sweep, independent of cabin count
	RimAccentEvery = 6
	SpokeCount     = 12
	SpokeOffsetDeg = 2.0 // secondary spokes either side of a main spoke
	SpokeInner     = 0.3 // secondary spoke span, fraction of radius
	SpokeOuter     = 0.7
)

// Center ornament.
const (
	OrnamentRadius = 3
	OrnamentLayers = 3
	OrnamentRing   = 8
)

// Cabin shell.
const (
	CabinGap      = 2   // clearance between rim and cabin edge
	RailingHeight = 0.5 // top railing row above the first
	RailingStep   = 0.5
	DoorHalfWidth = 3.5
	TrimOffset    = 0.1 // window trim sits this far outside the shell plane
)

// Decoration lights sit just outside the rim.
const LightRadiusOffset = 1.5

// Staircase.
const (
	StairHalfWidth = 2 // tread spans 2*StairHalfWidth+1 voxels
	PlatformDepth  = 3
	RailingEvery   = 3
)

// Z layers, forward is -Z. Rim behind spokes behind accents behind the
// center ornament; cabins are front-most.
const (
	zRim      = 0.2
	zSpoke    = 0.1
	zAccent   = 0.0
	zOrnament = -0.1
	zCabin    = -0.5
)

// epsilon absorbs float drift in inclusive range loops.
const epsilon = 1e-9

// polar returns the point at angle deg (degrees) and radius r in the wheel
// plane at depth z.
func polar(deg, r, z float64) mgl64.Vec3 {
	rad := mgl64.DegToRad(deg)
	return mgl64.Vec3{math.Cos(rad) * r, math.Sin(rad) * r, z}
}

// PingPong bounces t between 0 and length.
func PingPong(t, length float64) float64 {
	if length <= 0 {
		return 0
	}
	period := length * 2
	m := t - math.Floor(t/period)*period
	return length - math.Abs(m-length)
}

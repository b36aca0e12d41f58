package ride

import (
	"math"

	"github.com/chazu/ferris/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// StairInputs are the values PlanStairs derives a staircase from.
type StairInputs struct {
	OriginY       float64 // hub elevation
	WheelRadius   float64
	CabinHalfSize float64
	CabinOffset   float64 // hub to cabin center
	StepHeight    float64
	StepDepth     int
}

// Step is one tread. Height is its elevation above ground; Z is the ride-
// local depth of its hub-side row.
type Step struct {
	Index  int
	Height float64
	Z      float64
}

// StairPlan is the boarding staircase layout. The platform sits exactly at
// FloorElevation for every step height.
type StairPlan struct {
	LowestCabinElevation float64 `json:"lowestCabinElevation"`
	FloorElevation       float64 `json:"floorElevation"`
	CabinCenter          float64 `json:"cabinCenter"` // elevation of the lowest cabin's center
	StepCount            int     `json:"stepCount"`
	Boundary             float64 `json:"boundary"` // z of the first platform row
	Steps                []Step  `json:"steps"`
}

// PlanStairs computes the staircase for in. A cabin floor at or below ground
// yields no steps, as does one needing MaxStairSteps or more.
func PlanStairs(in StairInputs) StairPlan {
	lowest := in.OriginY - in.WheelRadius
	floor := lowest - in.CabinHalfSize
	p := StairPlan{
		LowestCabinElevation: lowest,
		FloorElevation:       floor,
		CabinCenter:          in.OriginY - in.CabinOffset,
		Boundary:             zCabin + in.CabinHalfSize + 1,
	}
	if !(in.StepHeight > 0) || math.IsInf(in.StepHeight, 1) || in.StepDepth < 1 {
		return p
	}
	n := 0
	if ratio := math.Ceil(floor / in.StepHeight); floor > 0 && ratio < MaxStairSteps {
		n = int(ratio) + 1
	}
	p.StepCount = n
	p.Steps = make([]Step, n)
	for i := range p.Steps {
		p.Steps[i] = Step{
			Index:  i,
			Height: float64(i+1) * in.StepHeight,
			Z:      p.Boundary + PlatformDepth + float64((n-1-i)*in.StepDepth),
		}
	}
	return p
}

// SupportHeights returns the support voxel centers under a tread at height
// h whose previous step sits at below. The column starts at below and rises
// in unit steps, and its last voxel sits at h-1 so the fractional remainder
// closes against the tread.
func SupportHeights(below, h float64) []float64 {
	ys := []float64{below}
	top := h - 1
	for y := below + 1; y < top-epsilon; y++ {
		ys = append(ys, y)
	}
	if top > ys[len(ys)-1]+epsilon {
		ys = append(ys, top)
	}
	return ys
}

// buildStaircase places the staircase under root. The staircase node sits at
// ground level so local heights are world elevations.
func (b *builder) buildStaircase(root scene.NodeID) scene.NodeID {
	cfg := b.cfg
	plan := PlanStairs(StairInputs{
		OriginY:       cfg.Origin.Y(),
		WheelRadius:   cfg.WheelRadius,
		CabinHalfSize: cfg.CabinSize,
		CabinOffset:   cfg.CabinOffset(),
		StepHeight:    cfg.StepHeight,
		StepDepth:     cfg.StepDepth,
	})
	b.ride.Stairs = plan

	stairs, ok := b.place.group(NodeStaircase, root, mgl64.Vec3{0, -cfg.Origin.Y(), 0},
		scene.GroupData{Description: "boarding staircase"})
	if !ok {
		return scene.NoParent
	}
	if plan.StepCount == 0 {
		b.log.Info().Float64("floor", plan.FloorElevation).Msg("cabin floor at ground, no steps")
	}

	col := cfg.Colors
	depth := cfg.StepDepth
	for i, s := range plan.Steps {
		for d := 0; d < depth; d++ {
			for x := -StairHalfWidth; x <= StairHalfWidth; x++ {
				b.place.putSolid("stair tread", stairs, mgl64.Vec3{float64(x), s.Height, s.Z + float64(d)}, col.Frame, scene.RoleTread)
			}
		}
		if i > 0 {
			front := s.Z + float64(depth-1)
			for _, y := range SupportHeights(plan.Steps[i-1].Height, s.Height) {
				for x := -StairHalfWidth; x <= StairHalfWidth; x++ {
					b.place.putSolid("stair support", stairs, mgl64.Vec3{float64(x), y, front}, col.Frame, scene.RoleSupport)
				}
			}
		}
		if i%RailingEvery == 0 {
			for _, x := range [2]float64{-StairHalfWidth - 1, StairHalfWidth + 1} {
				b.place.put("stair railing", stairs, mgl64.Vec3{x, s.Height + 1, s.Z}, col.Accent)
			}
		}
	}

	for d := 0; d < PlatformDepth; d++ {
		for x := -StairHalfWidth; x <= StairHalfWidth; x++ {
			b.place.putSolid("platform", stairs, mgl64.Vec3{float64(x), plan.FloorElevation, plan.Boundary + float64(d)}, col.Frame, scene.RolePlatform)
		}
	}
	return stairs
}

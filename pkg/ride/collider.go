package ride

import (
	"fmt"
	"math"

	"github.com/chazu/ferris/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// CabinColliders returns the compound collider of a cabin of half-extent
// size in cabin-local space: one floor slab, two wall segments per side
// face leaving the doorway clear, and four railing strips. Wall segments
// that would have no width are omitted and reported in dropped.
func CabinColliders(size float64) (boxes []scene.ColliderData, dropped int) {
	boxes = append(boxes, scene.ColliderData{
		Box: scene.Box{
			Center: mgl64.Vec3{0, -size, 0},
			Size:   mgl64.Vec3{2*size + 1, 1, 2*size + 1},
		},
		Role:     scene.RoleFloor,
		Walkable: true,
	})

	width := size - DoorHalfWidth
	mid := (size + DoorHalfWidth) / 2
	for _, f := range sideFaces {
		for _, side := range [2]float64{1, -1} {
			if width <= 0 {
				dropped++
				continue
			}
			boxes = append(boxes, scene.ColliderData{
				Box:  faceBox(f, size, 0.5, side*mid, mgl64.Vec3{1, 2 * size, width}),
				Role: scene.RoleWall,
			})
		}
	}

	if in := size - 1; in > 0 {
		railY := -size + 1 + RailingHeight/2
		length := 2*in + 1
		for _, f := range sideFaces {
			boxes = append(boxes, scene.ColliderData{
				Box:  faceBox(f, in, railY, 0, mgl64.Vec3{1, 1 + RailingHeight, length}),
				Role: scene.RoleRailing,
			})
		}
	}
	return boxes, dropped
}

// faceBox builds a box against face f at the given plane offset. ext is
// given as (thickness, height, in-plane length).
func faceBox(f face, plane, y, a float64, ext mgl64.Vec3) scene.Box {
	if f.axis == 0 {
		return scene.Box{Center: mgl64.Vec3{f.sign * plane, y, a}, Size: ext}
	}
	return scene.Box{Center: mgl64.Vec3{a, y, f.sign * plane}, Size: mgl64.Vec3{ext[2], ext[1], ext[0]}}
}

// CheckDoorGaps verifies that no wall box of a cabin of half-extent size
// intrudes into a doorway.
func CheckDoorGaps(size float64, boxes []scene.ColliderData) error {
	for i, c := range boxes {
		if c.Role != scene.RoleWall {
			continue
		}
		bmin, bmax := c.Box.Min(), c.Box.Max()
		var lo, hi float64
		switch {
		case math.Abs(math.Abs(c.Box.Center.X())-size) < epsilon:
			lo, hi = bmin.Z(), bmax.Z()
		case math.Abs(math.Abs(c.Box.Center.Z())-size) < epsilon:
			lo, hi = bmin.X(), bmax.X()
		default:
			return fmt.Errorf("ride: wall %d at %v is not on a side face", i, c.Box.Center)
		}
		if hi > -DoorHalfWidth+epsilon && lo < DoorHalfWidth-epsilon {
			return fmt.Errorf("ride: wall %d spans [%g, %g] across doorway", i, lo, hi)
		}
	}
	return nil
}

// buildColliders adds the kinematic collider group of cabin index i. A
// collider set that would block a doorway is not added.
func (b *builder) buildColliders(i int, cabin scene.NodeID) scene.NodeID {
	boxes, dropped := CabinColliders(b.cfg.CabinSize)
	if dropped > 0 {
		b.log.Warn().
			Int("cabin", i).
			Int("dropped", dropped).
			Float64("size", b.cfg.CabinSize).
			Msg("cabin too small for wall segments beside door")
	}
	if err := CheckDoorGaps(b.cfg.CabinSize, boxes); err != nil {
		b.log.Error().Err(err).Int("cabin", i).Msg("collider blocks doorway")
		return scene.NoParent
	}

	grp, ok := b.place.group(fmt.Sprintf("cabin/%d/colliders", i), cabin, mgl64.Vec3{},
		scene.GroupData{Description: "compound collider", Kinematic: true})
	if !ok {
		return scene.NoParent
	}
	for _, c := range boxes {
		b.place.collider(fmt.Sprintf("cabin %d", i), grp, c)
	}
	return grp
}

package ride

import (
	"fmt"
	"math"

	"github.com/chazu/ferris/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// buildCabins mounts CabinCount cabins evenly around the wheel.
func (b *builder) buildCabins(wheel scene.NodeID) {
	n := b.cfg.CabinCount
	offset := b.cfg.CabinOffset()
	for i := 0; i < n; i++ {
		deg := float64(i) * 360 / float64(n)
		node, ok := b.place.group(fmt.Sprintf("cabin/%d", i), wheel, polar(deg, offset, zCabin),
			scene.GroupData{Description: fmt.Sprintf("cabin %d", i)})
		if !ok {
			continue
		}
		b.buildCabin(node)
		c := Cabin{Index: i, Angle: deg, Node: node, Colliders: b.buildColliders(i, node)}
		b.ride.Cabins = append(b.ride.Cabins, c)
	}
}

// buildCabin places the floor, railings, the door-cut shell, window trim and
// the roof ornament of one cabin in its local frame.
func (b *builder) buildCabin(cabin scene.NodeID) {
	s := int(b.cfg.CabinSize)
	size := b.cfg.CabinSize
	col := b.cfg.Colors

	// Floor.
	for x := -s; x <= s; x++ {
		for z := -s; z <= s; z++ {
			b.place.put("cabin floor", cabin, vec(x, -size, z), col.Cabin)
		}
	}

	// Two railing rows on the perimeter one voxel inside the shell.
	if in := s - 1; in > 0 {
		for _, y := range [2]float64{-size + 1, -size + 1 + RailingHeight} {
			for x := -in; x <= in; x++ {
				for z := -in; z <= in; z++ {
					if abs(x) == in || abs(z) == in {
						b.place.put("cabin railing", cabin, vec(x, y, z), col.Accent)
					}
				}
			}
		}
	}

	// Shell: side faces and ceiling, with a door opening in each side.
	for y := -s + 1; y <= s; y++ {
		for x := -s; x <= s; x++ {
			for z := -s; z <= s; z++ {
				if abs(x) != s && abs(z) != s && y != s {
					continue
				}
				if InDoorway(float64(x), float64(y), float64(z), size) {
					continue
				}
				b.place.put("cabin shell", cabin, vec(x, float64(y), z), col.Cabin)
			}
		}
	}

	b.buildTrim(cabin)

	// Roof ornament.
	for x := -(s - 2); x <= s-2; x++ {
		b.place.putStable("cabin roof", cabin, vec(x, size+1, 0), col.Accent)
	}
}

// buildTrim frames each door opening with unlit accent voxels set just
// outside the shell plane.
func (b *builder) buildTrim(cabin scene.NodeID) {
	size := b.cfg.CabinSize
	s := int(size)
	lo, hi, ok := doorRows(size)
	if !ok {
		return
	}
	w := int(DoorHalfWidth + 0.5)
	if w > s {
		w = s
	}
	bottom, top := int(lo)-1, int(hi)+1
	if top > s {
		top = s
	}
	plane := size + TrimOffset

	for _, f := range sideFaces {
		for y := bottom; y <= top; y++ {
			for a := -w; a <= w; a++ {
				if y != bottom && y != top && abs(a) != w {
					continue
				}
				b.place.putStable("cabin trim", cabin, f.point(plane, float64(y), float64(a)), b.cfg.Colors.Accent)
			}
		}
	}
}

// InDoorway reports whether a shell voxel at cabin-local (x, y, z) falls
// inside the door opening of its side face.
func InDoorway(x, y, z, size float64) bool {
	lo, hi, ok := doorRows(size)
	if !ok || y < lo || y > hi {
		return false
	}
	if math.Abs(x) == size && math.Abs(z) <= DoorHalfWidth {
		return true
	}
	return math.Abs(z) == size && math.Abs(x) <= DoorHalfWidth
}

// doorRows returns the lowest and highest shell rows cut by a door. Doors
// start two rows above the floor and stop half a voxel below the ceiling.
func doorRows(size float64) (lo, hi float64, ok bool) {
	lo = math.Ceil(-size + 2)
	hi = math.Floor(size - 0.5)
	return lo, hi, lo <= hi
}

// face is one vertical side of a cabin, identified by its normal.
type face struct {
	axis int // 0 for x, 2 for z
	sign float64
}

var sideFaces = [4]face{{0, 1}, {0, -1}, {2, 1}, {2, -1}}

// point maps a plane offset, height and in-plane coordinate to cabin space.
func (f face) point(plane, y, a float64) mgl64.Vec3 {
	if f.axis == 0 {
		return mgl64.Vec3{f.sign * plane, y, a}
	}
	return mgl64.Vec3{a, y, f.sign * plane}
}

func vec(x int, y float64, z int) mgl64.Vec3 {
	return mgl64.Vec3{float64(x), y, float64(z)}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

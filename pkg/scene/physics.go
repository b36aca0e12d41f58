package scene

import "github.com/go-gl/mathgl/mgl64"

// Volume is a collision box resolved into world space for a physics engine.
type Volume struct {
	Node      NodeID       `json:"node"`
	Center    mgl64.Vec3   `json:"center"`   // world space
	Size      mgl64.Vec3   `json:"size"`     // box extents in the node frame
	Rotation  mgl64.Quat   `json:"rotation"` // world orientation of the box
	Role      ColliderRole `json:"role"`
	Walkable  bool         `json:"walkable"`
	Kinematic bool         `json:"kinematic"` // driven externally, not simulated
}

// CollisionVolumes collects every collider node and every voxel carrying a
// collision volume beneath root, in world space. Volumes under a kinematic
// group are flagged kinematic.
func (g *Graph) CollisionVolumes(root NodeID) []Volume {
	var out []Volume
	g.collect(root, false, &out)
	return out
}

func (g *Graph) collect(id NodeID, kinematic bool, out *[]Volume) {
	n := g.Get(id)
	if n == nil {
		return
	}

	switch data := n.Data.(type) {
	case GroupData:
		kinematic = kinematic || data.Kinematic
	case ColliderData:
		*out = append(*out, g.resolve(n.ID, data.Box, data.Role, data.Walkable, kinematic))
	case VoxelData:
		if data.Collision != nil {
			c := data.Collision
			*out = append(*out, g.resolve(n.ID, c.Box, c.Role, c.Walkable, kinematic))
		}
	}

	for _, cid := range n.Children {
		g.collect(cid, kinematic, out)
	}
}

func (g *Graph) resolve(id NodeID, b Box, role ColliderRole, walkable, kinematic bool) Volume {
	rot := g.WorldRotation(id)
	return Volume{
		Node:      id,
		Center:    g.WorldPosition(id).Add(rot.Rotate(b.Center)),
		Size:      b.Size,
		Rotation:  rot,
		Role:      role,
		Walkable:  walkable,
		Kinematic: kinematic,
	}
}

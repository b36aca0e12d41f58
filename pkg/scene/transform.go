package scene

import "github.com/go-gl/mathgl/mgl64"

// WorldRotation composes local rotations from the root down to id.
func (g *Graph) WorldRotation(id NodeID) mgl64.Quat {
	n := g.Get(id)
	if n == nil {
		return mgl64.QuatIdent()
	}
	if n.Parent == NoParent {
		return n.Rotation
	}
	return g.WorldRotation(n.Parent).Mul(n.Rotation)
}

// WorldPosition returns the world-space origin of id.
func (g *Graph) WorldPosition(id NodeID) mgl64.Vec3 {
	n := g.Get(id)
	if n == nil {
		return mgl64.Vec3{}
	}
	if n.Parent == NoParent {
		return n.Position
	}
	parentRot := g.WorldRotation(n.Parent)
	return g.WorldPosition(n.Parent).Add(parentRot.Rotate(n.Position))
}

// WorldMatrix returns the local-to-world matrix of id.
func (g *Graph) WorldMatrix(id NodeID) mgl64.Mat4 {
	p := g.WorldPosition(id)
	return mgl64.Translate3D(p.X(), p.Y(), p.Z()).Mul4(g.WorldRotation(id).Mat4())
}

// SetWorldRotation rewrites the local rotation of id so that its world
// rotation equals q under the parent's current world rotation.
func (g *Graph) SetWorldRotation(id NodeID, q mgl64.Quat) {
	n := g.Get(id)
	if n == nil {
		return
	}
	if n.Parent == NoParent {
		n.Rotation = q
		return
	}
	parent := g.WorldRotation(n.Parent)
	n.Rotation = parent.Inverse().Mul(q).Normalize()
}

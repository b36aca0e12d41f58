// Package tessellate walks a scene graph and instances each voxel's
// primitive mesh in world space. One colored mesh is produced per part,
// where a part is the nearest named ancestor of a voxel.
package tessellate

import (
	"fmt"

	"github.com/chazu/ferris/pkg/kernel"
	"github.com/chazu/ferris/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultPart names the mesh for voxels with no named ancestor.
const DefaultPart = "scene"

// transformStack accumulates local-to-world matrices during traversal.
type transformStack struct {
	matrices []mgl64.Mat4
}

func newTransformStack() *transformStack {
	return &transformStack{}
}

// push composes the local transform of n onto the current top.
func (ts *transformStack) push(n *scene.Node) {
	local := mgl64.Translate3D(n.Position.X(), n.Position.Y(), n.Position.Z()).Mul4(n.Rotation.Mat4())
	ts.matrices = append(ts.matrices, ts.top().Mul4(local))
}

func (ts *transformStack) pop() {
	if len(ts.matrices) > 0 {
		ts.matrices = ts.matrices[:len(ts.matrices)-1]
	}
}

func (ts *transformStack) top() mgl64.Mat4 {
	if len(ts.matrices) == 0 {
		return mgl64.Ident4()
	}
	return ts.matrices[len(ts.matrices)-1]
}

// walker carries traversal state for one Tessellate call.
type walker struct {
	g        *scene.Graph
	provider kernel.Provider
	ts       *transformStack

	prims map[string]*kernel.Primitive
	parts map[string]*kernel.Mesh
	order []string
}

// Tessellate walks the scene graph and produces one triangle mesh per part
// using the primitives supplied by p. Meshes are returned in the order
// their parts are first reached. The tessellator never mutates the graph.
func Tessellate(g *scene.Graph, p kernel.Provider) ([]*kernel.Mesh, error) {
	if g == nil {
		return nil, nil
	}

	w := &walker{
		g:        g,
		provider: p,
		ts:       newTransformStack(),
		prims:    make(map[string]*kernel.Primitive),
		parts:    make(map[string]*kernel.Mesh),
	}
	for _, rootID := range g.Roots {
		root := g.Get(rootID)
		if root == nil {
			continue
		}
		if err := w.walkNode(root, DefaultPart); err != nil {
			return nil, fmt.Errorf("tessellate: error walking root %s: %w", rootID, err)
		}
	}

	meshes := make([]*kernel.Mesh, 0, len(w.order))
	for _, name := range w.order {
		meshes = append(meshes, w.parts[name])
	}
	return meshes, nil
}

// walkNode recursively traverses n and its children, appending voxel
// geometry to the mesh of part.
func (w *walker) walkNode(n *scene.Node, part string) error {
	w.ts.push(n)
	defer w.ts.pop()

	switch n.Kind {
	case scene.NodeVoxel:
		if err := w.handleVoxel(n, part); err != nil {
			return err
		}

	case scene.NodeCollider:
		// Physics only.
		return nil

	case scene.NodeGroup:
		if n.Name != "" {
			part = n.Name
		}

	default:
		return fmt.Errorf("unknown node kind: %v", n.Kind)
	}

	for _, cid := range n.Children {
		child := w.g.Get(cid)
		if child == nil {
			return fmt.Errorf("node %s lists missing child %s", n.ID, cid)
		}
		if err := w.walkNode(child, part); err != nil {
			return err
		}
	}
	return nil
}

// handleVoxel appends one transformed, colored copy of the voxel's
// primitive to the part mesh.
func (w *walker) handleVoxel(n *scene.Node, part string) error {
	vd, ok := n.Data.(scene.VoxelData)
	if !ok {
		return fmt.Errorf("voxel node %s has unexpected data type %T", n.ID, n.Data)
	}
	prim, err := w.primitive(vd.Primitive)
	if err != nil {
		return fmt.Errorf("voxel node %s: %w", n.ID, err)
	}

	mesh := w.parts[part]
	if mesh == nil {
		mesh = &kernel.Mesh{PartName: part}
		w.parts[part] = mesh
		w.order = append(w.order, part)
	}

	m := w.ts.top()
	normal := m.Mat3()
	c := vd.Appearance.Color
	rgba := [4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
	base := uint32(mesh.VertexCount())

	src := prim.Mesh
	for i := 0; i+2 < len(src.Vertices); i += 3 {
		v := m.Mul4x1(mgl64.Vec4{float64(src.Vertices[i]), float64(src.Vertices[i+1]), float64(src.Vertices[i+2]), 1})
		mesh.Vertices = append(mesh.Vertices, float32(v.X()), float32(v.Y()), float32(v.Z()))
		mesh.Colors = append(mesh.Colors, rgba[:]...)
		if i+2 < len(src.Normals) {
			nv := normal.Mul3x1(mgl64.Vec3{float64(src.Normals[i]), float64(src.Normals[i+1]), float64(src.Normals[i+2])})
			mesh.Normals = append(mesh.Normals, float32(nv.X()), float32(nv.Y()), float32(nv.Z()))
		}
	}
	for _, idx := range src.Indices {
		mesh.Indices = append(mesh.Indices, base+idx)
	}
	return nil
}

// primitive resolves and caches a primitive by name.
func (w *walker) primitive(name string) (*kernel.Primitive, error) {
	if p, ok := w.prims[name]; ok {
		return p, nil
	}
	if w.provider == nil {
		return nil, fmt.Errorf("no provider for primitive %q", name)
	}
	p, err := w.provider.Primitive(name)
	if err != nil {
		return nil, err
	}
	if p == nil || p.Mesh == nil {
		return nil, fmt.Errorf("primitive %q has no mesh", name)
	}
	w.prims[name] = p
	return p, nil
}

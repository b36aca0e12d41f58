package tessellate_test

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/ferris/pkg/kernel"
	"github.com/chazu/ferris/pkg/kernel/sdfx"
	"github.com/chazu/ferris/pkg/ride"
	"github.com/chazu/ferris/pkg/scene"
	"github.com/chazu/ferris/pkg/tessellate"
	"github.com/go-gl/mathgl/mgl64"
)

// triangleProvider supplies a single-triangle "cube" so vertex positions are
// easy to check.
type triangleProvider struct {
	calls int
}

func (p *triangleProvider) Primitive(name string) (*kernel.Primitive, error) {
	p.calls++
	if name != kernel.Cube {
		return nil, kernel.ErrUnknownPrimitive
	}
	return &kernel.Primitive{
		Name: name,
		Mesh: &kernel.Mesh{
			Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
			Normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
			Indices:  []uint32{0, 1, 2},
		},
	}, nil
}

func addVoxel(t *testing.T, g *scene.Graph, parent scene.NodeID, pos mgl64.Vec3, c scene.Color) scene.NodeID {
	t.Helper()
	id, err := g.AddNode(scene.Node{
		Kind:     scene.NodeVoxel,
		Parent:   parent,
		Position: pos,
		Data:     scene.VoxelData{Primitive: kernel.Cube, Appearance: scene.NewAppearance(c)},
	})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func addGroup(t *testing.T, g *scene.Graph, name string, parent scene.NodeID, pos mgl64.Vec3) scene.NodeID {
	t.Helper()
	id, err := g.AddGroup(name, parent, pos, scene.GroupData{})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func vertex(m *kernel.Mesh, i int) mgl64.Vec3 {
	return mgl64.Vec3{float64(m.Vertices[3*i]), float64(m.Vertices[3*i+1]), float64(m.Vertices[3*i+2])}
}

func near(a, b mgl64.Vec3) bool {
	return a.ApproxEqualThreshold(b, 1e-5)
}

func TestNilGraph(t *testing.T) {
	meshes, err := tessellate.Tessellate(nil, &triangleProvider{})
	if err != nil || meshes != nil {
		t.Errorf("Tessellate(nil) = %v, %v", meshes, err)
	}
}

func TestSingleVoxel(t *testing.T) {
	g := scene.New()
	part := addGroup(t, g, "shelf", scene.NoParent, mgl64.Vec3{10, 0, 0})
	addVoxel(t, g, part, mgl64.Vec3{1, 2, 3}, scene.RGBA(1, 0, 0, 1))

	meshes, err := tessellate.Tessellate(g, &triangleProvider{})
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(meshes))
	}
	m := meshes[0]
	if m.PartName != "shelf" {
		t.Errorf("expected PartName %q, got %q", "shelf", m.PartName)
	}
	if m.VertexCount() != 3 || m.TriangleCount() != 1 {
		t.Fatalf("vertices=%d triangles=%d", m.VertexCount(), m.TriangleCount())
	}
	if got := vertex(m, 0); !near(got, mgl64.Vec3{11, 2, 3}) {
		t.Errorf("vertex 0 = %v, want (11,2,3)", got)
	}
	if got := vertex(m, 1); !near(got, mgl64.Vec3{12, 2, 3}) {
		t.Errorf("vertex 1 = %v, want (12,2,3)", got)
	}
	if len(m.Colors) != 4*m.VertexCount() {
		t.Errorf("colors = %d floats, want %d", len(m.Colors), 4*m.VertexCount())
	}
	if m.Colors[0] != 1 || m.Colors[1] != 0 || m.Colors[3] != 1 {
		t.Errorf("color = %v", m.Colors[:4])
	}
}

func TestRotatedParent(t *testing.T) {
	g := scene.New()
	part := addGroup(t, g, "arm", scene.NoParent, mgl64.Vec3{})
	g.SetLocalRotation(part, mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}))
	addVoxel(t, g, part, mgl64.Vec3{2, 0, 0}, scene.RGBA(1, 1, 1, 1))

	meshes, err := tessellate.Tessellate(g, &triangleProvider{})
	if err != nil {
		t.Fatal(err)
	}
	m := meshes[0]
	// (2,0,0) rotated a quarter turn about Z lands on (0,2,0); the
	// primitive's +X vertex turns to +Y.
	if got := vertex(m, 0); !near(got, mgl64.Vec3{0, 2, 0}) {
		t.Errorf("vertex 0 = %v, want (0,2,0)", got)
	}
	if got := vertex(m, 1); !near(got, mgl64.Vec3{0, 3, 0}) {
		t.Errorf("vertex 1 = %v, want (0,3,0)", got)
	}
	n := mgl64.Vec3{float64(m.Normals[0]), float64(m.Normals[1]), float64(m.Normals[2])}
	if !near(n, mgl64.Vec3{0, 0, 1}) {
		t.Errorf("normal = %v, want +Z", n)
	}
}

func TestMatchesWorldMatrix(t *testing.T) {
	g := scene.New()
	a := addGroup(t, g, "a", scene.NoParent, mgl64.Vec3{1, 2, 3})
	g.SetLocalRotation(a, mgl64.QuatRotate(0.7, mgl64.Vec3{1, 0, 0}))
	b := addGroup(t, g, "", a, mgl64.Vec3{0, 4, 0})
	g.SetLocalRotation(b, mgl64.QuatRotate(-1.1, mgl64.Vec3{0, 1, 0}))
	v := addVoxel(t, g, b, mgl64.Vec3{0.5, 0, -2}, scene.RGBA(1, 1, 1, 1))

	meshes, err := tessellate.Tessellate(g, &triangleProvider{})
	if err != nil {
		t.Fatal(err)
	}
	want := g.WorldMatrix(v).Mul4x1(mgl64.Vec4{1, 0, 0, 1}).Vec3()
	if got := vertex(meshes[0], 1); !near(got, want) {
		t.Errorf("vertex 1 = %v, want %v", got, want)
	}
}

func TestMeshPerNamedPart(t *testing.T) {
	g := scene.New()
	root := addGroup(t, g, "root", scene.NoParent, mgl64.Vec3{})
	left := addGroup(t, g, "left", root, mgl64.Vec3{})
	right := addGroup(t, g, "right", root, mgl64.Vec3{})
	inner := addGroup(t, g, "", left, mgl64.Vec3{})

	addVoxel(t, g, left, mgl64.Vec3{}, scene.RGBA(1, 1, 1, 1))
	addVoxel(t, g, inner, mgl64.Vec3{}, scene.RGBA(1, 1, 1, 1))
	addVoxel(t, g, right, mgl64.Vec3{}, scene.RGBA(1, 1, 1, 1))
	addVoxel(t, g, root, mgl64.Vec3{}, scene.RGBA(1, 1, 1, 1))

	p := &triangleProvider{}
	meshes, err := tessellate.Tessellate(g, p)
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]int{}
	var order []string
	for _, m := range meshes {
		got[m.PartName] = m.TriangleCount()
		order = append(order, m.PartName)
	}
	want := map[string]int{"left": 2, "right": 1, "root": 1}
	for name, n := range want {
		if got[name] != n {
			t.Errorf("part %q has %d triangles, want %d", name, got[name], n)
		}
	}
	if len(order) != 3 || order[0] != "left" {
		t.Errorf("part order = %v, want left first", order)
	}
	if p.calls != 1 {
		t.Errorf("provider called %d times, want 1", p.calls)
	}
}

func TestIndicesOffsetPerInstance(t *testing.T) {
	g := scene.New()
	part := addGroup(t, g, "row", scene.NoParent, mgl64.Vec3{})
	for x := 0; x < 3; x++ {
		addVoxel(t, g, part, mgl64.Vec3{float64(x), 0, 0}, scene.RGBA(1, 1, 1, 1))
	}
	meshes, err := tessellate.Tessellate(g, &triangleProvider{})
	if err != nil {
		t.Fatal(err)
	}
	m := meshes[0]
	for i, idx := range m.Indices {
		if int(idx) != i {
			t.Errorf("index %d = %d, want %d", i, idx, i)
		}
	}
}

func TestUnnamedRootUsesDefaultPart(t *testing.T) {
	g := scene.New()
	addVoxel(t, g, scene.NoParent, mgl64.Vec3{}, scene.RGBA(1, 1, 1, 1))
	meshes, err := tessellate.Tessellate(g, &triangleProvider{})
	if err != nil {
		t.Fatal(err)
	}
	if len(meshes) != 1 || meshes[0].PartName != tessellate.DefaultPart {
		t.Errorf("meshes = %v, want one %q mesh", meshes, tessellate.DefaultPart)
	}
}

func TestCollidersSkipped(t *testing.T) {
	g := scene.New()
	part := addGroup(t, g, "box", scene.NoParent, mgl64.Vec3{})
	if _, err := g.AddNode(scene.Node{
		Kind:   scene.NodeCollider,
		Parent: part,
		Data:   scene.ColliderData{Box: scene.UnitBox, Role: scene.RoleFloor},
	}); err != nil {
		t.Fatal(err)
	}
	meshes, err := tessellate.Tessellate(g, &triangleProvider{})
	if err != nil {
		t.Fatal(err)
	}
	if len(meshes) != 0 {
		t.Errorf("colliders produced %d meshes", len(meshes))
	}
}

func TestUnknownPrimitive(t *testing.T) {
	g := scene.New()
	if _, err := g.AddNode(scene.Node{
		Kind:   scene.NodeVoxel,
		Parent: scene.NoParent,
		Data:   scene.VoxelData{Primitive: "sphere", Appearance: scene.NewAppearance(scene.RGBA(1, 1, 1, 1))},
	}); err != nil {
		t.Fatal(err)
	}
	_, err := tessellate.Tessellate(g, &triangleProvider{})
	if !errors.Is(err, kernel.ErrUnknownPrimitive) {
		t.Errorf("err = %v, want ErrUnknownPrimitive", err)
	}
}

func TestRideWithSdfx(t *testing.T) {
	lib := sdfx.NewLibrary()
	cfg := ride.DefaultConfig()
	cfg.CabinCount = 2
	cfg.WheelRadius = 8
	cfg.CabinSize = 2
	cfg.Origin = mgl64.Vec3{0, 14, 0}

	r, err := ride.Build(cfg, ride.WithProvider(lib))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	meshes, err := tessellate.Tessellate(r.Graph, lib)
	if err != nil {
		t.Fatalf("Tessellate: %v", err)
	}

	cube, err := lib.Primitive(kernel.Cube)
	if err != nil {
		t.Fatal(err)
	}
	perVoxel := cube.Mesh.TriangleCount()

	parts := map[string]*kernel.Mesh{}
	triangles := 0
	for _, m := range meshes {
		parts[m.PartName] = m
		triangles += m.TriangleCount()
		if len(m.Colors) != 4*m.VertexCount() {
			t.Errorf("%s: %d color floats for %d vertices", m.PartName, len(m.Colors), m.VertexCount())
		}
	}
	for _, name := range []string{"wheel/rim", "wheel/spokes", "wheel/ornament", "wheel/lights", "cabin/0", "cabin/1", "staircase"} {
		if parts[name] == nil {
			t.Errorf("missing mesh for part %q", name)
		}
	}
	if want := r.Stats.Voxels * perVoxel; triangles != want {
		t.Errorf("triangles = %d, want %d voxels * %d", triangles, r.Stats.Voxels, perVoxel)
	}
}

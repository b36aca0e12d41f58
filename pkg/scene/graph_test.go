package scene

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestNewGraph(t *testing.T) {
	g := New()
	if g.NameIndex == nil {
		t.Fatal("NameIndex map should be initialized")
	}
	if g.NodeCount() != 0 {
		t.Errorf("empty graph should have 0 nodes, got %d", g.NodeCount())
	}
	if len(Validate(g)) != 0 {
		t.Errorf("empty graph should validate, got %v", Validate(g))
	}
}

func TestAddNodeAndLookup(t *testing.T) {
	g := New()

	root, err := g.AddGroup("ride", NoParent, mgl64.Vec3{0, 80, 0}, GroupData{})
	if err != nil {
		t.Fatalf("AddGroup: %v", err)
	}
	vox, err := g.AddNode(Node{
		Kind:     NodeVoxel,
		Parent:   root,
		Position: mgl64.Vec3{1, 2, 3},
		Data:     VoxelData{Primitive: "cube", Appearance: NewAppearance(RGBA(1, 0, 0, 1))},
	})
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	if g.NodeCount() != 2 {
		t.Errorf("node count = %d, want 2", g.NodeCount())
	}
	if len(g.Roots) != 1 || g.Roots[0] != root {
		t.Errorf("roots = %v, want [%s]", g.Roots, root)
	}
	if got := g.Lookup("ride"); got == nil || got.ID != root {
		t.Fatalf("Lookup(ride) = %v", got)
	}
	if g.Lookup("nonexistent") != nil {
		t.Error("Lookup of missing name should return nil")
	}
	if kids := g.Get(root).Children; len(kids) != 1 || kids[0] != vox {
		t.Errorf("children = %v, want [%s]", kids, vox)
	}
	if g.Get(vox).Rotation != mgl64.QuatIdent() {
		t.Error("zero rotation should default to identity")
	}
}

func TestAddNodeRejections(t *testing.T) {
	t.Run("missing parent", func(t *testing.T) {
		g := New()
		if _, err := g.AddGroup("x", NodeID(7), mgl64.Vec3{}, GroupData{}); err == nil {
			t.Error("expected error for missing parent")
		}
	})
	t.Run("duplicate name", func(t *testing.T) {
		g := New()
		if _, err := g.AddGroup("x", NoParent, mgl64.Vec3{}, GroupData{}); err != nil {
			t.Fatal(err)
		}
		if _, err := g.AddGroup("x", NoParent, mgl64.Vec3{}, GroupData{}); err == nil {
			t.Error("expected error for duplicate name")
		}
	})
	t.Run("capacity", func(t *testing.T) {
		g := NewWithLimit(1)
		if _, err := g.AddGroup("a", NoParent, mgl64.Vec3{}, GroupData{}); err != nil {
			t.Fatal(err)
		}
		_, err := g.AddGroup("b", NoParent, mgl64.Vec3{}, GroupData{})
		if !errors.Is(err, ErrCapacity) {
			t.Errorf("err = %v, want ErrCapacity", err)
		}
		if g.NodeCount() != 1 {
			t.Errorf("rejected node must not be stored, count = %d", g.NodeCount())
		}
	})
}

func TestMustLookupPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustLookup should panic on a missing name")
		}
	}()
	New().MustLookup("nope")
}

func TestSetAppearanceIsPerVoxel(t *testing.T) {
	g := New()
	root, _ := g.AddGroup("root", NoParent, mgl64.Vec3{}, GroupData{})
	base := NewAppearance(RGBA(0.5, 0.5, 0.5, 1))
	a, _ := g.AddNode(Node{Kind: NodeVoxel, Parent: root, Data: VoxelData{Primitive: "cube", Appearance: base}})
	b, _ := g.AddNode(Node{Kind: NodeVoxel, Parent: root, Data: VoxelData{Primitive: "cube", Appearance: base}})

	changed := base
	changed.Color = RGBA(1, 1, 1, 1)
	if err := g.SetAppearance(a, changed); err != nil {
		t.Fatal(err)
	}

	va, _ := g.Voxel(a)
	vb, _ := g.Voxel(b)
	if va.Appearance.Color != changed.Color {
		t.Errorf("voxel a color = %v, want %v", va.Appearance.Color, changed.Color)
	}
	if vb.Appearance.Color != base.Color {
		t.Errorf("voxel b color changed to %v; appearances must not be shared", vb.Appearance.Color)
	}
	if err := g.SetAppearance(root, changed); err == nil {
		t.Error("SetAppearance on a group should fail")
	}
}

func TestNewAppearanceBlend(t *testing.T) {
	tests := []struct {
		name  string
		alpha float64
		blend BlendMode
		queue int
		pre   bool
	}{
		{"opaque", 1, BlendOpaque, QueueOpaque, false},
		{"translucent", 0.6, BlendTransparent, QueueTransparent, true},
		{"invisible", 0, BlendTransparent, QueueTransparent, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAppearance(RGBA(1, 1, 1, tt.alpha))
			if a.Blend != tt.blend || a.Queue != tt.queue || a.Premultiplied != tt.pre {
				t.Errorf("got blend=%s queue=%d pre=%v", a.Blend, a.Queue, a.Premultiplied)
			}
		})
	}
}

func TestCountKindAndWalk(t *testing.T) {
	g := New()
	root, _ := g.AddGroup("root", NoParent, mgl64.Vec3{}, GroupData{})
	sub, _ := g.AddGroup("sub", root, mgl64.Vec3{}, GroupData{})
	for i := 0; i < 3; i++ {
		g.AddNode(Node{Kind: NodeVoxel, Parent: sub, Data: VoxelData{Primitive: "cube"}})
	}
	g.AddNode(Node{Kind: NodeCollider, Parent: root, Data: ColliderData{Box: UnitBox}})

	if n := g.CountKind(root, NodeVoxel); n != 3 {
		t.Errorf("voxels = %d, want 3", n)
	}
	if n := g.CountKind(root, NodeCollider); n != 1 {
		t.Errorf("colliders = %d, want 1", n)
	}

	visited := 0
	g.Walk(root, func(n *Node) bool {
		visited++
		return n.ID != sub
	})
	if visited != 3 {
		t.Errorf("pruned walk visited %d nodes, want 3", visited)
	}
}

package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrCapacity is returned by AddNode once the graph's node limit is reached.
var ErrCapacity = errors.New("scene: node capacity exhausted")

// Graph is the arena holding every node of a generated structure.
// Pointers returned by Get and Lookup are valid until the next AddNode.
type Graph struct {
	Nodes     []Node            `json:"nodes"`
	Roots     []NodeID          `json:"roots"`
	NameIndex map[string]NodeID `json:"name_index"`

	// MaxNodes bounds the arena size. Zero means unbounded.
	MaxNodes int `json:"-"`
}

// New creates an empty, unbounded Graph.
func New() *Graph {
	return &Graph{NameIndex: make(map[string]NodeID)}
}

// NewWithLimit creates an empty Graph that rejects nodes past max.
func NewWithLimit(max int) *Graph {
	g := New()
	g.MaxNodes = max
	return g
}

// AddNode appends n to the arena under n.Parent and returns its ID.
// A zero rotation is replaced by identity.
func (g *Graph) AddNode(n Node) (NodeID, error) {
	if g.MaxNodes > 0 && len(g.Nodes) >= g.MaxNodes {
		return NoParent, ErrCapacity
	}
	if n.Parent != NoParent && !g.Has(n.Parent) {
		return NoParent, fmt.Errorf("scene: parent %s does not exist", n.Parent)
	}
	if n.Name != "" {
		if _, dup := g.NameIndex[n.Name]; dup {
			return NoParent, fmt.Errorf("scene: node name %q already defined", n.Name)
		}
	}
	if n.Rotation == (mgl64.Quat{}) {
		n.Rotation = mgl64.QuatIdent()
	}

	id := NodeID(len(g.Nodes))
	n.ID = id
	n.Children = nil
	g.Nodes = append(g.Nodes, n)

	if n.Parent == NoParent {
		g.Roots = append(g.Roots, id)
	} else {
		p := &g.Nodes[n.Parent]
		p.Children = append(p.Children, id)
	}
	if n.Name != "" {
		g.NameIndex[n.Name] = id
	}
	return id, nil
}

// AddGroup is a convenience wrapper creating a named group node.
func (g *Graph) AddGroup(name string, parent NodeID, pos mgl64.Vec3, data GroupData) (NodeID, error) {
	return g.AddNode(Node{
		Kind:     NodeGroup,
		Name:     name,
		Parent:   parent,
		Position: pos,
		Data:     data,
	})
}

// Has reports whether id addresses a node in this graph.
func (g *Graph) Has(id NodeID) bool {
	return id >= 0 && int(id) < len(g.Nodes)
}

// Get returns the node with the given ID, or nil.
func (g *Graph) Get(id NodeID) *Node {
	if !g.Has(id) {
		return nil
	}
	return &g.Nodes[id]
}

// Lookup returns the node with the given name, or nil.
func (g *Graph) Lookup(name string) *Node {
	id, ok := g.NameIndex[name]
	if !ok {
		return nil
	}
	return g.Get(id)
}

// MustLookup returns the node with the given name, or panics.
func (g *Graph) MustLookup(name string) *Node {
	n := g.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("scene: no node named %q", name))
	}
	return n
}

// NodeCount returns the total number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.Nodes)
}

// CountKind returns how many nodes of kind k lie in the subtree at root,
// including root itself.
func (g *Graph) CountKind(root NodeID, k NodeKind) int {
	count := 0
	g.Walk(root, func(n *Node) bool {
		if n.Kind == k {
			count++
		}
		return true
	})
	return count
}

// Walk visits the subtree at root depth-first in insertion order. Returning
// false from fn prunes that node's children.
func (g *Graph) Walk(root NodeID, fn func(n *Node) bool) {
	n := g.Get(root)
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, cid := range n.Children {
		g.Walk(cid, fn)
	}
}

// Voxel returns the voxel payload of id.
func (g *Graph) Voxel(id NodeID) (VoxelData, bool) {
	n := g.Get(id)
	if n == nil {
		return VoxelData{}, false
	}
	vd, ok := n.Data.(VoxelData)
	return vd, ok
}

// SetAppearance replaces the appearance of a single voxel.
func (g *Graph) SetAppearance(id NodeID, a Appearance) error {
	vd, ok := g.Voxel(id)
	if !ok {
		return fmt.Errorf("scene: node %s is not a voxel", id)
	}
	vd.Appearance = a
	g.Nodes[id].Data = vd
	return nil
}

// SetLocalRotation overwrites the local rotation of id.
func (g *Graph) SetLocalRotation(id NodeID, q mgl64.Quat) {
	if n := g.Get(id); n != nil {
		n.Rotation = q
	}
}

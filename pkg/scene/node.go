package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// NodeID is the arena index of a node. IDs are dense and never reused.
type NodeID int32

// NoParent is the parent index of root nodes.
const NoParent NodeID = -1

// Valid reports whether id could address a node.
func (id NodeID) Valid() bool { return id >= 0 }

func (id NodeID) String() string {
	if id == NoParent {
		return "none"
	}
	return fmt.Sprintf("#%d", int32(id))
}

// NodeKind enumerates the types of nodes in the scene graph.
type NodeKind int

const (
	NodeGroup    NodeKind = iota // transform-only container
	NodeVoxel                    // one instanced unit cube
	NodeCollider                 // physics-only box volume
)

func (k NodeKind) String() string {
	switch k {
	case NodeGroup:
		return "group"
	case NodeVoxel:
		return "voxel"
	case NodeCollider:
		return "collider"
	default:
		return "unknown"
	}
}

// Node is the fundamental element of the scene graph.
type Node struct {
	ID       NodeID     `json:"id"`
	Kind     NodeKind   `json:"kind"`
	Name     string     `json:"name,omitempty"`
	Parent   NodeID     `json:"parent"`
	Children []NodeID   `json:"children,omitempty"`
	Position mgl64.Vec3 `json:"position"` // local space
	Rotation mgl64.Quat `json:"rotation"` // local space
	Data     NodeData   `json:"data"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}

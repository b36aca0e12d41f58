package scene

import "github.com/go-gl/mathgl/mgl64"

// ---------------------------------------------------------------------------
// Appearance
// ---------------------------------------------------------------------------

// Color is a linear RGBA color. Channels are not clamped.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// RGBA is shorthand for a Color literal.
func RGBA(r, g, b, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Scale multiplies the RGB channels by f and keeps alpha.
func (c Color) Scale(f float64) Color {
	return Color{R: c.R * f, G: c.G * f, B: c.B * f, A: c.A}
}

// Lerp interpolates every channel between c and d by t.
func (c Color) Lerp(d Color, t float64) Color {
	return Color{
		R: c.R + (d.R-c.R)*t,
		G: c.G + (d.G-c.G)*t,
		B: c.B + (d.B-c.B)*t,
		A: c.A + (d.A-c.A)*t,
	}
}

// Black is the zero emission color.
var Black = Color{}

// BlendMode selects how a voxel is composited.
type BlendMode int

const (
	BlendOpaque      BlendMode = iota // depth-written, drawn first
	BlendTransparent                  // premultiplied alpha, drawn after opaque
)

func (m BlendMode) String() string {
	switch m {
	case BlendOpaque:
		return "opaque"
	case BlendTransparent:
		return "transparent"
	default:
		return "unknown"
	}
}

// Render queue positions. Transparent voxels render after every opaque one.
const (
	QueueOpaque      = 2000
	QueueTransparent = 3000
)

// Appearance is the per-voxel material state. It is always stored by value
// so no two voxels can alias the same instance.
type Appearance struct {
	Color         Color     `json:"color"`
	Blend         BlendMode `json:"blend"`
	Premultiplied bool      `json:"premultiplied"`
	Queue         int       `json:"queue"`
	Unlit         bool      `json:"unlit"` // no dynamic shading
	Emission      Color     `json:"emission"`
}

// NewAppearance derives blend state from the color's alpha.
func NewAppearance(c Color) Appearance {
	a := Appearance{Color: c, Blend: BlendOpaque, Queue: QueueOpaque}
	if c.A < 1 {
		a.Blend = BlendTransparent
		a.Premultiplied = true
		a.Queue = QueueTransparent
	}
	return a
}

// ---------------------------------------------------------------------------
// Volumes
// ---------------------------------------------------------------------------

// Box is an axis-aligned box in the owning node's local space.
type Box struct {
	Center mgl64.Vec3 `json:"center"`
	Size   mgl64.Vec3 `json:"size"`
}

// Min returns the minimum corner.
func (b Box) Min() mgl64.Vec3 { return b.Center.Sub(b.Size.Mul(0.5)) }

// Max returns the maximum corner.
func (b Box) Max() mgl64.Vec3 { return b.Center.Add(b.Size.Mul(0.5)) }

// UnitBox is the collision volume of a single voxel.
var UnitBox = Box{Size: mgl64.Vec3{1, 1, 1}}

// ColliderRole tags what a collision volume approximates.
type ColliderRole int

const (
	RoleFloor ColliderRole = iota
	RoleWall
	RoleRailing
	RoleTread
	RoleSupport
	RolePlatform
)

func (r ColliderRole) String() string {
	switch r {
	case RoleFloor:
		return "floor"
	case RoleWall:
		return "wall"
	case RoleRailing:
		return "railing"
	case RoleTread:
		return "tread"
	case RoleSupport:
		return "support"
	case RolePlatform:
		return "platform"
	default:
		return "unknown"
	}
}

// Collision is a volume attached to a voxel. Nil means the voxel has none.
type Collision struct {
	Box      Box          `json:"box"`
	Role     ColliderRole `json:"role"`
	Walkable bool         `json:"walkable"`
}

// ---------------------------------------------------------------------------
// Payloads
// ---------------------------------------------------------------------------

// VoxelData is one instance of a shared primitive with its own appearance.
type VoxelData struct {
	Primitive  string     `json:"primitive"`
	Appearance Appearance `json:"appearance"`
	Collision  *Collision `json:"collision,omitempty"`
}

func (VoxelData) nodeData() {}

// ColliderData is a physics-only box that renders nothing.
type ColliderData struct {
	Box      Box          `json:"box"`
	Role     ColliderRole `json:"role"`
	Walkable bool         `json:"walkable"`
}

func (ColliderData) nodeData() {}

// GroupData is a container. Kinematic groups are moved by their owner and
// never simulated; the flag applies to every collider beneath them.
type GroupData struct {
	Description string `json:"description,omitempty"`
	Kinematic   bool   `json:"kinematic,omitempty"`
}

func (GroupData) nodeData() {}

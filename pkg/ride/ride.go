package ride

import (
	"errors"
	"math/rand/v2"

	"github.com/chazu/ferris/pkg/kernel"
	"github.com/chazu/ferris/pkg/scene"
	"github.com/rs/zerolog"
)

// ErrNoPrimitive is returned by Build when no provider can supply the cube.
var ErrNoPrimitive = errors.New("cube primitive unavailable")

// Node names of the fixed structural groups.
const (
	NodeRide      = "ride"
	NodeWheel     = "wheel"
	NodeStaircase = "staircase"
)

// Ride is a built Ferris wheel: its scene graph and the handles Update
// drives every tick.
type Ride struct {
	Config Config
	Graph  *scene.Graph

	Root      scene.NodeID
	Wheel     scene.NodeID
	Staircase scene.NodeID // NoParent when the staircase was skipped

	Cabins []Cabin
	Lights []Light
	Stairs StairPlan
	Stats  Stats

	// Time is the animation clock in seconds.
	Time float64
	// WheelAngle is the accumulated wheel rotation in degrees, in [0, 360).
	WheelAngle float64

	log     zerolog.Logger
	metrics *metrics
}

// Cabin is one passenger cabin hanging off the wheel.
type Cabin struct {
	Index     int
	Angle     float64 // mount angle in degrees
	Node      scene.NodeID
	Colliders scene.NodeID // kinematic collider group, NoParent if skipped
}

// Light is one decoration light voxel with its pulse phase.
type Light struct {
	Node  scene.NodeID
	Angle float64
	Phase float64 // in [0, 1)
}

// Stats counts what Build placed and skipped.
type Stats struct {
	Voxels    int `json:"voxels"`
	Skipped   int `json:"skipped"`
	Colliders int `json:"colliders"`
}

// Option configures Build.
type Option func(*options)

type options struct {
	log      zerolog.Logger
	rng      *rand.Rand
	provider kernel.Provider
	sibling  kernel.Provider
	graph    *scene.Graph
}

// WithLogger sets the logger for placement diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithRand sets the source of light pulse phases. Defaults to a generator
// seeded from Config.Seed.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithProvider sets the primary cube provider.
func WithProvider(p kernel.Provider) Option {
	return func(o *options) { o.provider = p }
}

// WithSibling sets the provider consulted when the primary one has no cube.
func WithSibling(p kernel.Provider) Option {
	return func(o *options) { o.sibling = p }
}

// WithGraph builds into g instead of a fresh unbounded graph.
func WithGraph(g *scene.Graph) Option {
	return func(o *options) { o.graph = g }
}

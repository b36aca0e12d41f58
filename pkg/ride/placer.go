package ride

import (
	"fmt"

	"github.com/chazu/ferris/pkg/kernel"
	"github.com/chazu/ferris/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// Placer instantiates the shared cube primitive as voxel nodes. Every voxel
// gets its own Appearance value.
type Placer struct {
	graph *scene.Graph
	prim  *kernel.Primitive
	log   zerolog.Logger
	stats *Stats
}

// NewPlacer returns a Placer that adds voxels to g and records counts in
// stats, which may be nil.
func NewPlacer(g *scene.Graph, prim *kernel.Primitive, log zerolog.Logger, stats *Stats) *Placer {
	if stats == nil {
		stats = &Stats{}
	}
	return &Placer{graph: g, prim: prim, log: log, stats: stats}
}

// Place adds one voxel at the parent-relative position pos with the
// appearance derived from color. Opaque colors render in the opaque queue;
// translucent ones are premultiplied and queued after all opaque voxels.
func (p *Placer) Place(parent scene.NodeID, pos mgl64.Vec3, color scene.Color) (scene.NodeID, error) {
	return p.add(parent, pos, scene.NewAppearance(color), nil)
}

// PlaceStable is Place for voxels that must not shimmer under dynamic
// lighting.
func (p *Placer) PlaceStable(parent scene.NodeID, pos mgl64.Vec3, color scene.Color) (scene.NodeID, error) {
	a := scene.NewAppearance(color)
	a.Unlit = true
	return p.add(parent, pos, a, nil)
}

// PlaceSolid is Place with a unit collision volume.
func (p *Placer) PlaceSolid(parent scene.NodeID, pos mgl64.Vec3, color scene.Color, role scene.ColliderRole, walkable bool) (scene.NodeID, error) {
	col := &scene.Collision{Box: scene.UnitBox, Role: role, Walkable: walkable}
	return p.add(parent, pos, scene.NewAppearance(color), col)
}

func (p *Placer) add(parent scene.NodeID, pos mgl64.Vec3, a scene.Appearance, col *scene.Collision) (scene.NodeID, error) {
	if p.prim == nil {
		return scene.NoParent, fmt.Errorf("ride: %w", ErrNoPrimitive)
	}
	id, err := p.graph.AddNode(scene.Node{
		Kind:     scene.NodeVoxel,
		Parent:   parent,
		Position: pos,
		Data: scene.VoxelData{
			Primitive:  p.prim.Name,
			Appearance: a,
			Collision:  col,
		},
	})
	if err != nil {
		p.stats.Skipped++
		return scene.NoParent, err
	}
	p.stats.Voxels++
	return id, nil
}

// put places a voxel and logs a skipped placement instead of failing.
func (p *Placer) put(part string, parent scene.NodeID, pos mgl64.Vec3, color scene.Color) scene.NodeID {
	id, err := p.Place(parent, pos, color)
	p.report(part, pos, err)
	return id
}

func (p *Placer) putStable(part string, parent scene.NodeID, pos mgl64.Vec3, color scene.Color) scene.NodeID {
	id, err := p.PlaceStable(parent, pos, color)
	p.report(part, pos, err)
	return id
}

func (p *Placer) putSolid(part string, parent scene.NodeID, pos mgl64.Vec3, color scene.Color, role scene.ColliderRole) scene.NodeID {
	id, err := p.PlaceSolid(parent, pos, color, role, true)
	p.report(part, pos, err)
	return id
}

func (p *Placer) report(part string, pos mgl64.Vec3, err error) {
	if err == nil {
		return
	}
	p.log.Warn().
		Err(err).
		Str("part", part).
		Floats64("pos", pos[:]).
		Msg("voxel placement skipped")
}

// group adds a named group, logging and reporting false on failure.
func (p *Placer) group(name string, parent scene.NodeID, pos mgl64.Vec3, data scene.GroupData) (scene.NodeID, bool) {
	id, err := p.graph.AddGroup(name, parent, pos, data)
	if err != nil {
		p.log.Warn().Err(err).Str("group", name).Msg("group creation skipped")
		return scene.NoParent, false
	}
	return id, true
}

// collider adds a physics-only box under parent.
func (p *Placer) collider(part string, parent scene.NodeID, data scene.ColliderData) (scene.NodeID, bool) {
	id, err := p.graph.AddNode(scene.Node{
		Kind:   scene.NodeCollider,
		Parent: parent,
		Data:   data,
	})
	if err != nil {
		p.log.Warn().
			Err(err).
			Str("part", part).
			Stringer("role", data.Role).
			Msg("collider skipped")
		return scene.NoParent, false
	}
	p.stats.Colliders++
	return id, true
}

package ride

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/chazu/ferris/pkg/kernel"
	"github.com/chazu/ferris/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// builder carries the state shared by the sub-generators of one Build.
type builder struct {
	cfg   Config
	ride  *Ride
	place *Placer
	rng   *rand.Rand
	log   zerolog.Logger
}

// Build generates a complete ride for cfg. The wheel is built first, then
// its decorations, then the cabins with their colliders, then the
// staircase. Individual placement failures are logged and counted in
// Ride.Stats; only an invalid config, a missing cube primitive or a failure
// to create the ride and wheel roots aborts the build.
func Build(cfg Config, opts ...Option) (*Ride, error) {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	prim, err := resolvePrimitive(o.provider, o.sibling)
	if err != nil {
		o.log.Error().Err(err).Msg("ride build aborted")
		return nil, err
	}

	m, err := newMetrics()
	if err != nil {
		return nil, err
	}

	g := o.graph
	if g == nil {
		g = scene.New()
	}
	rng := o.rng
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)>>1|1))
	}

	r := &Ride{
		Config:    cfg,
		Graph:     g,
		Staircase: scene.NoParent,
		log:       o.log,
		metrics:   m,
	}
	b := &builder{
		cfg:   cfg,
		ride:  r,
		place: NewPlacer(g, prim, o.log, &r.Stats),
		rng:   rng,
		log:   o.log,
	}

	r.Root, err = g.AddGroup(NodeRide, scene.NoParent, cfg.Origin, scene.GroupData{Description: "ferris wheel ride"})
	if err != nil {
		return nil, fmt.Errorf("ride: creating root: %w", err)
	}
	r.Wheel, err = g.AddGroup(NodeWheel, r.Root, mgl64.Vec3{}, scene.GroupData{Description: "rotating wheel"})
	if err != nil {
		return nil, fmt.Errorf("ride: creating wheel: %w", err)
	}

	b.buildWheel(r.Wheel)
	o.log.Debug().Int("voxels", r.Stats.Voxels).Msg("wheel built")
	b.buildDecorations(r.Wheel)
	o.log.Debug().Int("lights", len(r.Lights)).Msg("decorations built")
	b.buildCabins(r.Wheel)
	o.log.Debug().Int("cabins", len(r.Cabins)).Msg("cabins built")
	r.Staircase = b.buildStaircase(r.Root)
	o.log.Debug().Int("steps", r.Stairs.StepCount).Msg("staircase built")

	m.recordBuild(cfg.CabinCount, r.Stats)
	o.log.Info().
		Int("cabins", len(r.Cabins)).
		Int("lights", len(r.Lights)).
		Int("steps", r.Stairs.StepCount).
		Int("voxels", r.Stats.Voxels).
		Int("skipped", r.Stats.Skipped).
		Int("colliders", r.Stats.Colliders).
		Msg("ride built")
	return r, nil
}

// resolvePrimitive asks the primary provider for the cube, then the sibling.
func resolvePrimitive(primary, sibling kernel.Provider) (*kernel.Primitive, error) {
	var errs []error
	for _, p := range []kernel.Provider{primary, sibling} {
		if p == nil {
			continue
		}
		prim, err := p.Primitive(kernel.Cube)
		if err == nil && prim != nil {
			return prim, nil
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("ride: %w: no provider configured", ErrNoPrimitive)
	}
	return nil, fmt.Errorf("ride: %w: %w", ErrNoPrimitive, errors.Join(errs...))
}

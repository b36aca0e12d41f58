package main

import (
	"github.com/chazu/ferris/pkg/engine"
	"github.com/chazu/ferris/pkg/kernel"
	"github.com/chazu/ferris/pkg/ride"
	"github.com/chazu/ferris/pkg/scene"
	"github.com/chazu/ferris/pkg/tessellate"
	"github.com/rs/zerolog"
)

// App runs the ride pipeline: script or config, build, ticks, meshes.
type App struct {
	engine   *engine.Engine
	provider kernel.Provider
	log      zerolog.Logger
}

// RunOptions controls what happens after the ride is built.
type RunOptions struct {
	Ticks  int
	DT     float64 // seconds per tick
	Meshes bool    // tessellate the final pose
}

// MeshData is the JSON mesh format written by -mesh-out.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Colors   []float32 `json:"colors"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
}

// EvalErrorData is a JSON-serializable eval error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// Summary describes a built and animated ride.
type Summary struct {
	RunID      string     `json:"run,omitempty"`
	Cabins     int        `json:"cabins"`
	Lights     int        `json:"lights"`
	Steps      int        `json:"steps"`
	Nodes      int        `json:"nodes"`
	Stats      ride.Stats `json:"stats"`
	Volumes    int        `json:"volumes"`
	Ticks      int        `json:"ticks"`
	Time       float64    `json:"time"`
	WheelAngle float64    `json:"wheelAngle"`
	Warnings   []string   `json:"warnings,omitempty"`
}

// EvalResult is the full result of one pipeline run.
type EvalResult struct {
	Summary *Summary        `json:"summary,omitempty"`
	Meshes  []MeshData      `json:"-"`
	Errors  []EvalErrorData `json:"errors"`
}

// NewApp creates an App that builds rides from provider.
func NewApp(provider kernel.Provider, log zerolog.Logger) *App {
	return &App{
		engine:   engine.NewEngine(),
		provider: provider,
		log:      log,
	}
}

// Evaluate runs a ride script through the pipeline.
func (a *App) Evaluate(source string, opts RunOptions) EvalResult {
	result := EvalResult{Errors: []EvalErrorData{}}

	// Step 1: Evaluate the Lisp source into a ride configuration.
	cfg, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		a.log.Error().Err(err).Msg("evaluate fatal error")
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors to the output format.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	return a.Run(*cfg, opts)
}

// Run builds cfg, advances it opts.Ticks times and optionally tessellates
// the result.
func (a *App) Run(cfg ride.Config, opts RunOptions) EvalResult {
	result := EvalResult{Errors: []EvalErrorData{}}

	r, err := ride.Build(cfg, ride.WithProvider(a.provider), ride.WithLogger(a.log))
	if err != nil {
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	for i := 0; i < opts.Ticks; i++ {
		r.Update(opts.DT)
	}

	sum := &Summary{
		Cabins:     len(r.Cabins),
		Lights:     len(r.Lights),
		Steps:      r.Stairs.StepCount,
		Nodes:      r.Graph.NodeCount(),
		Stats:      r.Stats,
		Volumes:    len(r.Graph.CollisionVolumes(r.Root)),
		Ticks:      opts.Ticks,
		Time:       r.Time,
		WheelAngle: r.WheelAngle,
	}
	for _, f := range scene.Validate(r.Graph) {
		if f.Severity == scene.SeverityError {
			result.Errors = append(result.Errors, EvalErrorData{Message: f.Error()})
			continue
		}
		sum.Warnings = append(sum.Warnings, f.Error())
	}
	result.Summary = sum
	if len(result.Errors) > 0 || !opts.Meshes {
		return result
	}

	meshes, err := tessellate.Tessellate(r.Graph, a.provider)
	if err != nil {
		a.log.Error().Err(err).Msg("tessellate error")
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}
	for _, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Colors:   m.Colors,
			Indices:  m.Indices,
			PartName: m.PartName,
		})
	}
	return result
}

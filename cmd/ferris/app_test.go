package main

import (
	"errors"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/chazu/ferris/pkg/kernel"
	"github.com/chazu/ferris/pkg/ride"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// triangleProvider supplies a single-triangle cube so pipeline tests stay
// fast.
type triangleProvider struct{}

func (triangleProvider) Primitive(name string) (*kernel.Primitive, error) {
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

type failingProvider struct{}

func (failingProvider) Primitive(string) (*kernel.Primitive, error) {
	return nil, errors.New("asset store offline")
}

func newTestApp() *App {
	return NewApp(triangleProvider{}, zerolog.Nop())
}

func smallConfig() ride.Config {
	cfg := ride.DefaultConfig()
	cfg.CabinCount = 2
	cfg.WheelRadius = 8
	cfg.CabinSize = 2
	cfg.Origin = mgl64.Vec3{0, 14, 0}
	return cfg
}

func requireNoErrors(t *testing.T, result EvalResult) {
	t.Helper()
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
}

func TestRunDefaultConfig(t *testing.T) {
	result := newTestApp().Run(ride.DefaultConfig(), RunOptions{Ticks: 10, DT: 0.1})
	requireNoErrors(t, result)

	sum := result.Summary
	if sum == nil {
		t.Fatal("no summary")
	}
	if sum.Cabins != 12 || sum.Lights != 72 {
		t.Errorf("cabins=%d lights=%d, want 12 and 72", sum.Cabins, sum.Lights)
	}
	if sum.Stats.Voxels != 11007 || sum.Stats.Skipped != 0 {
		t.Errorf("voxels=%d skipped=%d, want 11007 and 0", sum.Stats.Voxels, sum.Stats.Skipped)
	}
	if sum.Stats.Colliders != 12*13 {
		t.Errorf("colliders=%d, want %d", sum.Stats.Colliders, 12*13)
	}
	if sum.Volumes < sum.Stats.Colliders {
		t.Errorf("volumes=%d, want at least %d", sum.Volumes, sum.Stats.Colliders)
	}
	if sum.Ticks != 10 || math.Abs(sum.Time-1) > 1e-9 {
		t.Errorf("ticks=%d time=%g, want 10 and 1", sum.Ticks, sum.Time)
	}
	if math.Abs(sum.WheelAngle-10) > 1e-9 {
		t.Errorf("wheel angle = %g, want 10", sum.WheelAngle)
	}
	if len(sum.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", sum.Warnings)
	}
	if result.Meshes != nil {
		t.Errorf("meshes produced without RunOptions.Meshes")
	}
}

func TestRunMeshes(t *testing.T) {
	result := newTestApp().Run(smallConfig(), RunOptions{Meshes: true})
	requireNoErrors(t, result)

	parts := map[string]bool{}
	for _, m := range result.Meshes {
		parts[m.PartName] = true
		if len(m.Vertices) == 0 || len(m.Indices) == 0 {
			t.Errorf("part %q has no geometry", m.PartName)
		}
		if len(m.Colors) != len(m.Vertices)/3*4 {
			t.Errorf("part %q: %d color floats for %d vertices", m.PartName, len(m.Colors), len(m.Vertices)/3)
		}
	}
	for _, want := range []string{"wheel/rim", "wheel/spokes", "wheel/ornament", "wheel/lights", "cabin/0", "cabin/1"} {
		if !parts[want] {
			t.Errorf("missing mesh for part %q", want)
		}
	}
}

func TestRunMissingPrimitive(t *testing.T) {
	app := NewApp(failingProvider{}, zerolog.Nop())
	result := app.Run(ride.DefaultConfig(), RunOptions{})

	if result.Summary != nil {
		t.Error("summary produced for a failed build")
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0].Message, "cube primitive unavailable") {
		t.Errorf("errors = %v, want one missing primitive error", result.Errors)
	}
}

func TestEvaluateExampleScript(t *testing.T) {
	source, err := os.ReadFile("../../examples/small.zy")
	if err != nil {
		t.Fatalf("failed to read small.zy: %v", err)
	}

	result := newTestApp().Evaluate(string(source), RunOptions{Ticks: 5, DT: 0.5})
	requireNoErrors(t, result)

	if result.Summary.Cabins != 6 {
		t.Errorf("cabins = %d, want 6", result.Summary.Cabins)
	}
	if math.Abs(result.Summary.WheelAngle-15) > 1e-9 {
		t.Errorf("wheel angle = %g, want 15", result.Summary.WheelAngle)
	}
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"empty", "   ", "script is empty"},
		{"no ride", "(def x 1)", "no (ride ...) form"},
		{"invalid", "(ride :cabins 0)", "cabin count"},
		{"parse", "(ride :cabins 2", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := newTestApp().Evaluate(tt.source, RunOptions{})
			if result.Summary != nil {
				t.Error("summary produced for a failed script")
			}
			if len(result.Errors) == 0 {
				t.Fatal("expected errors")
			}
			if tt.want == "" {
				return
			}
			found := false
			for _, e := range result.Errors {
				if strings.Contains(e.Message, tt.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("errors %v do not mention %q", result.Errors, tt.want)
			}
		})
	}
}

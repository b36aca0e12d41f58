package ride

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/chazu/ferris/pkg/ride"

type metrics struct {
	placed    metric.Int64Counter
	skipped   metric.Int64Counter
	colliders metric.Int64Counter
	ticks     metric.Int64Counter
}

// newMetrics uses the global OTel meter (no-op if not configured).
func newMetrics() (*metrics, error) {
	m := otel.Meter(instrumentationName)
	var (
		mt  metrics
		err error
	)

	mt.placed, err = m.Int64Counter(
		"ride.voxels.placed",
		metric.WithDescription("Voxels placed by ride builds"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating placed counter: %w", err)
	}

	mt.skipped, err = m.Int64Counter(
		"ride.voxels.skipped",
		metric.WithDescription("Voxel placements skipped after an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating skipped counter: %w", err)
	}

	mt.colliders, err = m.Int64Counter(
		"ride.colliders",
		metric.WithDescription("Compound collider boxes created"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating colliders counter: %w", err)
	}

	mt.ticks, err = m.Int64Counter(
		"ride.ticks",
		metric.WithDescription("Animation ticks applied"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ticks counter: %w", err)
	}

	return &mt, nil
}

func (m *metrics) recordBuild(cabins int, s Stats) {
	if m == nil {
		return
	}
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.Int("cabins", cabins))
	m.placed.Add(ctx, int64(s.Voxels), attrs)
	m.skipped.Add(ctx, int64(s.Skipped), attrs)
	m.colliders.Add(ctx, int64(s.Colliders), attrs)
}

func (m *metrics) tick() {
	if m == nil {
		return
	}
	m.ticks.Add(context.Background(), 1)
}

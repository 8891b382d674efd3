package game

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "BridgeSim/internal/game"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type gameMetrics struct {
	frames metric.Int64Counter
	fired  metric.Int64Counter
	faults metric.Int64Counter
	queue  metric.Int64ObservableGauge
}

func newGameMetrics(q *BehaviorQueue) (*gameMetrics, error) {
	m := meter()
	gm := &gameMetrics{}
	var err error

	gm.frames, err = m.Int64Counter(
		"bridgesim.frames",
		metric.WithDescription("Frames simulated"),
	)
	if err != nil {
		return nil, err
	}
	gm.fired, err = m.Int64Counter(
		"bridgesim.cannon.fired",
		metric.WithDescription("Cannon shots fired"),
	)
	if err != nil {
		return nil, err
	}
	gm.faults, err = m.Int64Counter(
		"bridgesim.behavior.faults",
		metric.WithDescription("Behavior entries dropped after a panic"),
	)
	if err != nil {
		return nil, err
	}
	gm.queue, err = m.Int64ObservableGauge(
		"bridgesim.behavior.queue",
		metric.WithDescription("Live behavior entries"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(q.Len()))
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return gm, nil
}

func (m *gameMetrics) frame() {
	if m == nil {
		return
	}
	m.frames.Add(context.Background(), 1)
}

func (m *gameMetrics) cannonFired(mount string) {
	if m == nil {
		return
	}
	m.fired.Add(context.Background(), 1, metric.WithAttributes(attribute.String("mount", mount)))
}

func (m *gameMetrics) behaviorFault(entry string) {
	if m == nil {
		return
	}
	m.faults.Add(context.Background(), 1, metric.WithAttributes(attribute.String("entry", entry)))
}

// Package telemetry records gameplay metrics through OpenTelemetry.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/tomz197/lander/internal/telemetry"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics holds the game instruments. A nil *Metrics records nothing.
type Metrics struct {
	started   metric.Int64Counter
	ended     metric.Int64Counter
	nearMiss  metric.Int64Counter
	score     metric.Int64Histogram
	tickError metric.Int64Counter
}

// NewWithMeter creates the instruments on m.
func NewWithMeter(m metric.Meter) (*Metrics, error) {
	started, err := m.Int64Counter("lander.missions.started",
		metric.WithDescription("Missions flown"))
	if err != nil {
		return nil, fmt.Errorf("creating missions started counter: %w", err)
	}
	ended, err := m.Int64Counter("lander.missions.ended",
		metric.WithDescription("Missions ended, by outcome and reason"))
	if err != nil {
		return nil, fmt.Errorf("creating missions ended counter: %w", err)
	}
	nearMiss, err := m.Int64Counter("lander.near_misses",
		metric.WithDescription("Near misses with the surface"))
	if err != nil {
		return nil, fmt.Errorf("creating near miss counter: %w", err)
	}
	score, err := m.Int64Histogram("lander.attempt.score",
		metric.WithDescription("Score of successful landings"))
	if err != nil {
		return nil, fmt.Errorf("creating score histogram: %w", err)
	}
	tickError, err := m.Int64Counter("lander.tick.errors",
		metric.WithDescription("Ticks aborted by a critical error"))
	if err != nil {
		return nil, fmt.Errorf("creating tick error counter: %w", err)
	}
	return &Metrics{
		started:   started,
		ended:     ended,
		nearMiss:  nearMiss,
		score:     score,
		tickError: tickError,
	}, nil
}

// MissionStarted counts a mission start.
func (m *Metrics) MissionStarted(ctx context.Context, planet, difficulty string) {
	if m == nil {
		return
	}
	m.started.Add(ctx, 1, metric.WithAttributes(
		attribute.String("planet", planet),
		attribute.String("difficulty", difficulty),
	))
}

// MissionEnded counts a mission end and records the score of a landing.
func (m *Metrics) MissionEnded(ctx context.Context, planet string, success bool, reason string, score int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("planet", planet),
		attribute.Bool("success", success),
		attribute.String("reason", reason),
	)
	m.ended.Add(ctx, 1, attrs)
	if success {
		m.score.Record(ctx, int64(score), metric.WithAttributes(attribute.String("planet", planet)))
	}
}

// NearMiss counts a near miss.
func (m *Metrics) NearMiss(ctx context.Context, planet string) {
	if m == nil {
		return
	}
	m.nearMiss.Add(ctx, 1, metric.WithAttributes(attribute.String("planet", planet)))
}

// TickError counts a recovered tick failure.
func (m *Metrics) TickError(ctx context.Context) {
	if m == nil {
		return
	}
	m.tickError.Add(ctx, 1)
}

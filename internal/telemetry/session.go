package telemetry

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Session is an in-process meter provider for one program run. Counters are
// read back with Summary, typically once at exit to log them.
type Session struct {
	reader   *sdkmetric.ManualReader
	provider *sdkmetric.MeterProvider
	Metrics  *Metrics
}

// NewSession creates a provider with a manual reader, installs it as the
// global meter provider and creates the game instruments on it.
func NewSession() (*Session, error) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)
	m, err := NewWithMeter(meter())
	if err != nil {
		return nil, err
	}
	return &Session{reader: reader, provider: provider, Metrics: m}, nil
}

// Stat is one collected instrument total.
type Stat struct {
	Name  string
	Value int64
}

// Summary collects every instrument. Counters report their sum, histograms
// their observation count.
func (s *Session) Summary(ctx context.Context) ([]Stat, error) {
	var rm metricdata.ResourceMetrics
	if err := s.reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("collecting metrics: %w", err)
	}
	var stats []Stat
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			var total int64
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					total += dp.Value
				}
			case metricdata.Histogram[int64]:
				for _, dp := range data.DataPoints {
					total += int64(dp.Count)
				}
			default:
				continue
			}
			stats = append(stats, Stat{Name: m.Name, Value: total})
		}
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })
	return stats, nil
}

// Shutdown stops the provider.
func (s *Session) Shutdown(ctx context.Context) error {
	return s.provider.Shutdown(ctx)
}

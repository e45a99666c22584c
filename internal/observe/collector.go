package observe

import (
	"context"
	"errors"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Point is one collected data point flattened for display.
type Point struct {
	Name       string  `json:"name"`
	Attributes string  `json:"attributes,omitempty"`
	Value      float64 `json:"value"`
	// Count is the sample count of histogram points.
	Count uint64 `json:"count,omitempty"`
}

// Collector owns an in-process meter provider backed by a manual reader.
type Collector struct {
	reader   *sdkmetric.ManualReader
	provider *sdkmetric.MeterProvider
	metrics  *Metrics
}

// NewCollector creates a meter provider and the pipeline instruments on it.
func NewCollector() (*Collector, error) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	met, err := NewMetrics(provider)
	if err != nil {
		return nil, errors.Join(err, provider.Shutdown(context.Background()))
	}
	return &Collector{reader: reader, provider: provider, metrics: met}, nil
}

// Metrics returns the instruments bound to the collector.
func (c *Collector) Metrics() *Metrics {
	return c.metrics
}

// Collect reads every data point recorded so far, sorted by name and
// attributes.
func (c *Collector) Collect(ctx context.Context) ([]Point, error) {
	var rm metricdata.ResourceMetrics
	if err := c.reader.Collect(ctx, &rm); err != nil {
		return nil, err
	}
	var points []Point
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			points = append(points, flatten(m)...)
		}
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Name != points[j].Name {
			return points[i].Name < points[j].Name
		}
		return points[i].Attributes < points[j].Attributes
	})
	return points, nil
}

// Shutdown releases the meter provider.
func (c *Collector) Shutdown(ctx context.Context) error {
	return c.provider.Shutdown(ctx)
}

func flatten(m metricdata.Metrics) []Point {
	var out []Point
	switch data := m.Data.(type) {
	case metricdata.Sum[int64]:
		for _, dp := range data.DataPoints {
			out = append(out, Point{Name: m.Name, Attributes: encode(dp.Attributes), Value: float64(dp.Value)})
		}
	case metricdata.Sum[float64]:
		for _, dp := range data.DataPoints {
			out = append(out, Point{Name: m.Name, Attributes: encode(dp.Attributes), Value: dp.Value})
		}
	case metricdata.Histogram[float64]:
		for _, dp := range data.DataPoints {
			out = append(out, Point{Name: m.Name, Attributes: encode(dp.Attributes), Value: dp.Sum, Count: dp.Count})
		}
	}
	return out
}

func encode(set attribute.Set) string {
	return set.Encoded(attribute.DefaultEncoder())
}

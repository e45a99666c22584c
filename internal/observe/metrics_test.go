package observe

import (
	"context"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestRecordStage(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordStage(ctx, "detect", "ok", 20*time.Millisecond)
	m.RecordStage(ctx, "detect", "ok", 40*time.Millisecond)
	m.RecordStage(ctx, "merge", "error", time.Millisecond)

	rm := collect(t, reader)
	met := findMetric(rm, StageDurationName)
	if met == nil {
		t.Fatal("stage duration metric not found")
	}
	hist, ok := met.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatal("stage duration is not a histogram")
	}
	found := false
	for _, dp := range hist.DataPoints {
		stage, _ := dp.Attributes.Value("stage")
		if stage.AsString() != "detect" {
			continue
		}
		found = true
		if dp.Count != 2 {
			t.Errorf("sample count = %d, want 2", dp.Count)
		}
	}
	if !found {
		t.Fatal("data point with stage=detect not found")
	}

	runs := findMetric(rm, StageRunsName)
	if runs == nil {
		t.Fatal("stage runs metric not found")
	}
	sum, ok := runs.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatal("stage runs is not a sum")
	}
	if len(sum.DataPoints) != 2 {
		t.Fatalf("expected 2 attribute sets, got %d", len(sum.DataPoints))
	}
}

func TestRecordEditsSkipsEmptyCategories(t *testing.T) {
	m, reader := newTestMetrics(t)
	m.RecordEdits(context.Background(), "merge", map[string]int{"stutter": 3, "silence": 0})

	met := findMetric(collect(t, reader), EditsName)
	if met == nil {
		t.Fatal("edits metric not found")
	}
	sum := met.Data.(metricdata.Sum[int64])
	if len(sum.DataPoints) != 1 {
		t.Fatalf("expected one data point, got %d", len(sum.DataPoints))
	}
	if sum.DataPoints[0].Value != 3 {
		t.Errorf("counter value = %d, want 3", sum.DataPoints[0].Value)
	}
}

func TestCollectorFlattensPoints(t *testing.T) {
	c, err := NewCollector()
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	t.Cleanup(func() { _ = c.Shutdown(context.Background()) })
	ctx := context.Background()

	c.Metrics().RecordSnapshot(ctx, "edits.json")
	c.Metrics().RecordSnapshot(ctx, "edits.json")
	c.Metrics().RecordIssue(ctx, "silence_gap", "medium", false)
	c.Metrics().RecordUnmapped(ctx, 0)

	points, err := c.Collect(ctx)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %+v", points)
	}
	if points[0].Name != IssuesName || points[0].Attributes != "acknowledged=false,check=silence_gap,severity=medium" {
		t.Fatalf("unexpected first point %+v", points[0])
	}
	if points[1].Name != SnapshotsName || points[1].Value != 2 || points[1].Attributes != "artifact=edits.json" {
		t.Fatalf("unexpected second point %+v", points[1])
	}
}

func TestDiscardRecordsNothing(t *testing.T) {
	m := Discard()
	m.RecordStage(context.Background(), "audit", "ok", time.Second)
	m.RecordIssue(context.Background(), "large_deletion", "low", false)
}

package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// meterName is the instrumentation scope name used for all podcut metrics.
const meterName = "podcut"

// Metric names.
const (
	StageDurationName = "podcut.stage.duration"
	StageRunsName     = "podcut.stage.runs"
	EditsName         = "podcut.edits"
	IssuesName        = "podcut.issues"
	SnapshotsName     = "podcut.snapshots"
	UnmappedName      = "podcut.suggestions.unmapped"
)

// Metrics holds the instruments used by the pipeline. All fields are safe
// for concurrent use.
type Metrics struct {
	// StageDuration tracks wall time per stage. Attributes: stage, status.
	StageDuration metric.Float64Histogram

	// StageRuns counts stage executions. Attributes: stage, status.
	StageRuns metric.Int64Counter

	// Edits counts edits written by a stage. Attributes: stage, category.
	Edits metric.Int64Counter

	// Issues counts QA findings. Attributes: check, severity, acknowledged.
	Issues metric.Int64Counter

	// Snapshots counts stored artifact versions. Attribute: artifact.
	Snapshots metric.Int64Counter

	// Unmapped counts external suggestions that could not be placed.
	Unmapped metric.Int64Counter
}

// stageBuckets are histogram boundaries in seconds. Stages are in-memory
// passes over one transcript, so most land well under a second.
var stageBuckets = []float64{
	0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
}

// NewMetrics creates the instruments on the given provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.StageDuration, err = m.Float64Histogram(StageDurationName,
		metric.WithDescription("Wall time of a pipeline stage."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(stageBuckets...),
	); err != nil {
		return nil, err
	}
	if met.StageRuns, err = m.Int64Counter(StageRunsName,
		metric.WithDescription("Pipeline stage executions by stage and status."),
	); err != nil {
		return nil, err
	}
	if met.Edits, err = m.Int64Counter(EditsName,
		metric.WithDescription("Edits written by stage and category."),
	); err != nil {
		return nil, err
	}
	if met.Issues, err = m.Int64Counter(IssuesName,
		metric.WithDescription("QA findings by check and severity."),
	); err != nil {
		return nil, err
	}
	if met.Snapshots, err = m.Int64Counter(SnapshotsName,
		metric.WithDescription("Artifact versions stored in the snapshot database."),
	); err != nil {
		return nil, err
	}
	if met.Unmapped, err = m.Int64Counter(UnmappedName,
		metric.WithDescription("External suggestions that could not be mapped to words."),
	); err != nil {
		return nil, err
	}
	return met, nil
}

// Discard returns instruments that record nothing.
func Discard() *Metrics {
	met, err := NewMetrics(noop.NewMeterProvider())
	if err != nil {
		panic("observe: noop metrics: " + err.Error())
	}
	return met
}

// RecordStage records one stage execution.
func (m *Metrics) RecordStage(ctx context.Context, stage, status string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status),
	)
	m.StageDuration.Record(ctx, elapsed.Seconds(), attrs)
	m.StageRuns.Add(ctx, 1, attrs)
}

// RecordEdits adds per-category edit counts for a stage.
func (m *Metrics) RecordEdits(ctx context.Context, stage string, byCategory map[string]int) {
	for category, n := range byCategory {
		if n <= 0 {
			continue
		}
		m.Edits.Add(ctx, int64(n), metric.WithAttributes(
			attribute.String("stage", stage),
			attribute.String("category", category),
		))
	}
}

// RecordIssue counts one QA finding.
func (m *Metrics) RecordIssue(ctx context.Context, check, severity string, acknowledged bool) {
	m.Issues.Add(ctx, 1, metric.WithAttributes(
		attribute.String("check", check),
		attribute.String("severity", severity),
		attribute.Bool("acknowledged", acknowledged),
	))
}

// RecordSnapshot counts one stored artifact version.
func (m *Metrics) RecordSnapshot(ctx context.Context, artifact string) {
	m.Snapshots.Add(ctx, 1, metric.WithAttributes(attribute.String("artifact", artifact)))
}

// RecordUnmapped counts suggestions that failed to map.
func (m *Metrics) RecordUnmapped(ctx context.Context, n int) {
	if n <= 0 {
		return
	}
	m.Unmapped.Add(ctx, int64(n))
}

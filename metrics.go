package contactgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordCalculate is called after each contact-map calculation.
	// cells is rows*cols of the result matrix, duration the total time taken,
	// err is nil if successful.
	RecordCalculate(cells int, duration time.Duration, err error)

	// RecordMaterialize is called after bond materialization.
	// bonds is the number of bonds created.
	RecordMaterialize(bonds int, duration time.Duration, err error)

	// RecordSnapshot is called after each snapshot save.
	RecordSnapshot(duration time.Duration, err error)

	// RecordLoad is called after each snapshot load.
	RecordLoad(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCalculate(int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordMaterialize(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordSnapshot(time.Duration, error)         {}
func (NoopMetricsCollector) RecordLoad(time.Duration, error)             {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	CalculateCount      atomic.Int64
	CalculateErrors     atomic.Int64
	CalculateCells      atomic.Int64
	CalculateTotalNanos atomic.Int64
	MaterializeCount    atomic.Int64
	MaterializeErrors   atomic.Int64
	MaterializeBonds    atomic.Int64
	SnapshotCount       atomic.Int64
	SnapshotErrors      atomic.Int64
	LoadCount           atomic.Int64
	LoadErrors          atomic.Int64
}

// RecordCalculate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCalculate(cells int, duration time.Duration, err error) {
	b.CalculateCount.Add(1)
	b.CalculateCells.Add(int64(cells))
	b.CalculateTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.CalculateErrors.Add(1)
	}
}

// RecordMaterialize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMaterialize(bonds int, duration time.Duration, err error) {
	b.MaterializeCount.Add(1)
	b.MaterializeBonds.Add(int64(bonds))
	if err != nil {
		b.MaterializeErrors.Add(1)
	}
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(duration time.Duration, err error) {
	b.SnapshotCount.Add(1)
	if err != nil {
		b.SnapshotErrors.Add(1)
	}
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(duration time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		CalculateCount:    b.CalculateCount.Load(),
		CalculateErrors:   b.CalculateErrors.Load(),
		CalculateCells:    b.CalculateCells.Load(),
		CalculateAvgNanos: b.avgCalculateNanos(),
		MaterializeCount:  b.MaterializeCount.Load(),
		MaterializeErrors: b.MaterializeErrors.Load(),
		MaterializeBonds:  b.MaterializeBonds.Load(),
		SnapshotCount:     b.SnapshotCount.Load(),
		SnapshotErrors:    b.SnapshotErrors.Load(),
		LoadCount:         b.LoadCount.Load(),
		LoadErrors:        b.LoadErrors.Load(),
	}
}

func (b *BasicMetricsCollector) avgCalculateNanos() int64 {
	count := b.CalculateCount.Load()
	if count == 0 {
		return 0
	}
	return b.CalculateTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	CalculateCount    int64
	CalculateErrors   int64
	CalculateCells    int64
	CalculateAvgNanos int64
	MaterializeCount  int64
	MaterializeErrors int64
	MaterializeBonds  int64
	SnapshotCount     int64
	SnapshotErrors    int64
	LoadCount         int64
	LoadErrors        int64
}

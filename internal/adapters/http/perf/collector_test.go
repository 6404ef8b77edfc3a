package perf_test

import (
	"fmt"
	"testing"
	"time"

	"gamezone/internal/adapters/http/perf"
)

// TestCollector_RecordAndSnapshot aggregates request and query samples.
func TestCollector_RecordAndSnapshot(t *testing.T) {
	c := perf.NewCollector(16)
	now := time.Now()

	c.Record(perf.Sample{Kind: perf.KindRequest, Label: "GET /", StatusCode: 200, DurationMs: 10, Timestamp: now})
	c.Record(perf.Sample{Kind: perf.KindRequest, Label: "GET /", StatusCode: 200, DurationMs: 30, Timestamp: now})
	c.Record(perf.Sample{Kind: perf.KindRequest, Label: "GET /admin", StatusCode: 200, DurationMs: 5, Timestamp: now})
	c.Record(perf.Sample{Kind: perf.KindQuery, Label: "SELECT ... FROM games", DurationMs: 2, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Minute), 10)

	if snap.TotalSamples != 4 {
		t.Errorf("TotalSamples = %d, want 4", snap.TotalSamples)
	}
	if len(snap.SlowestPaths) != 2 {
		t.Fatalf("SlowestPaths len = %d, want 2", len(snap.SlowestPaths))
	}
	// "GET /" averages 20ms, slower than "GET /admin" at 5ms.
	if snap.SlowestPaths[0].Label != "GET /" {
		t.Errorf("slowest path = %q, want %q", snap.SlowestPaths[0].Label, "GET /")
	}
	if snap.SlowestPaths[0].AvgMs != 20 {
		t.Errorf("AvgMs = %v, want 20", snap.SlowestPaths[0].AvgMs)
	}
	if snap.SlowestPaths[0].MaxMs != 30 {
		t.Errorf("MaxMs = %v, want 30", snap.SlowestPaths[0].MaxMs)
	}
	if len(snap.SlowestQueries) != 1 {
		t.Errorf("SlowestQueries len = %d, want 1", len(snap.SlowestQueries))
	}
}

// TestCollector_RingOverwrite keeps only the most recent samples.
func TestCollector_RingOverwrite(t *testing.T) {
	c := perf.NewCollector(4)
	now := time.Now()
	for i := 0; i < 10; i++ {
		c.Record(perf.Sample{Kind: perf.KindRequest, Label: fmt.Sprintf("GET /%d", i), DurationMs: 1, Timestamp: now})
	}

	snap := c.Snapshot(now.Add(-time.Minute), 100)
	if snap.TotalSamples != 10 {
		t.Errorf("TotalSamples = %d, want 10", snap.TotalSamples)
	}
	if len(snap.SlowestPaths) != 4 {
		t.Errorf("retained paths = %d, want ring size 4", len(snap.SlowestPaths))
	}
}

// TestCollector_SinceFilter excludes samples older than the window.
func TestCollector_SinceFilter(t *testing.T) {
	c := perf.NewCollector(8)
	old := time.Now().Add(-2 * time.Hour)
	recent := time.Now()

	c.Record(perf.Sample{Kind: perf.KindRequest, Label: "GET /old", DurationMs: 1, Timestamp: old})
	c.Record(perf.Sample{Kind: perf.KindRequest, Label: "GET /new", DurationMs: 1, Timestamp: recent})

	snap := c.Snapshot(time.Now().Add(-time.Hour), 10)
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].Label != "GET /new" {
		t.Errorf("Snapshot should only contain recent samples, got %+v", snap.SlowestPaths)
	}
}

// TestCollector_Percentiles sanity-checks p50/p95 ordering.
func TestCollector_Percentiles(t *testing.T) {
	c := perf.NewCollector(128)
	now := time.Now()
	for i := 1; i <= 100; i++ {
		c.Record(perf.Sample{Kind: perf.KindRequest, Label: "GET /", DurationMs: float64(i), Timestamp: now})
	}

	snap := c.Snapshot(now.Add(-time.Minute), 1)
	if snap.RequestP50Ms <= 0 || snap.RequestP95Ms < snap.RequestP50Ms || snap.RequestP99Ms < snap.RequestP95Ms {
		t.Errorf("percentiles out of order: p50=%v p95=%v p99=%v",
			snap.RequestP50Ms, snap.RequestP95Ms, snap.RequestP99Ms)
	}
}

// TestNewCollector_BadSizeFallsBack uses the default ring size.
func TestNewCollector_BadSizeFallsBack(t *testing.T) {
	c := perf.NewCollector(0)
	c.Record(perf.Sample{Kind: perf.KindRequest, Label: "GET /", DurationMs: 1, Timestamp: time.Now()})
	if c.TotalRecorded() != 1 {
		t.Errorf("TotalRecorded = %d, want 1", c.TotalRecorded())
	}
}

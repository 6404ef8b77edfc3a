package perf

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 4096

// SampleKind distinguishes request vs query samples.
type SampleKind uint8

const (
	KindRequest SampleKind = iota
	KindQuery
)

// Sample is a single timing record stored in the ring buffer.
type Sample struct {
	Kind       SampleKind
	Label      string // "METHOD /path" for requests, condensed SQL for queries
	StatusCode int    // HTTP status (0 for queries)
	DurationMs float64
	Timestamp  time.Time
}

// Collector is a fixed-size ring buffer for timing samples.
// Writes are non-blocking; when full, oldest samples are overwritten.
// Aggregation happens only on read (Snapshot).
type Collector struct {
	mu      sync.Mutex
	samples []Sample
	size    int
	pos     int
	total   int64
}

// NewCollector creates a collector with the given ring buffer capacity.
// PRE: size > 0 (non-positive falls back to DefaultRingSize)
// POST: Returns a ready-to-use collector with pre-allocated storage
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{
		samples: make([]Sample, size),
		size:    size,
	}
}

// Record appends a sample to the ring buffer.
// POST: Sample stored; if buffer full, oldest sample overwritten
func (c *Collector) Record(s Sample) {
	c.mu.Lock()
	c.samples[c.pos] = s
	c.pos = (c.pos + 1) % c.size
	c.mu.Unlock()
	atomic.AddInt64(&c.total, 1)
}

// TotalRecorded returns the total number of samples ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return atomic.LoadInt64(&c.total)
}

// Snapshot holds aggregated performance data computed on read.
type Snapshot struct {
	TotalSamples   int64
	RequestP50Ms   float64
	RequestP95Ms   float64
	RequestP99Ms   float64
	SlowestPaths   []LabelStat
	SlowestQueries []LabelStat
}

// LabelStat aggregates timing for a single request path or query shape.
type LabelStat struct {
	Label   string
	AvgMs   float64
	MaxMs   float64
	Count   int
	TotalMs float64
}

// Snapshot computes aggregated stats from the ring buffer.
// Sorting makes this comparatively expensive; call it on dashboard load only.
// POST: Returns a Snapshot with request percentiles and top-N lists
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := make([]Sample, c.size)
	copy(buf, c.samples)
	c.mu.Unlock()

	var requestDurations []float64
	byKind := map[SampleKind]map[string]*LabelStat{
		KindRequest: {},
		KindQuery:   {},
	}

	for _, s := range buf {
		if s.Timestamp.IsZero() || s.Timestamp.Before(since) {
			continue
		}
		stats := byKind[s.Kind]
		ls, ok := stats[s.Label]
		if !ok {
			ls = &LabelStat{Label: s.Label}
			stats[s.Label] = ls
		}
		ls.Count++
		ls.TotalMs += s.DurationMs
		if s.DurationMs > ls.MaxMs {
			ls.MaxMs = s.DurationMs
		}
		if s.Kind == KindRequest {
			requestDurations = append(requestDurations, s.DurationMs)
		}
	}

	for _, stats := range byKind {
		for _, ls := range stats {
			ls.AvgMs = ls.TotalMs / float64(ls.Count)
		}
	}

	snap := Snapshot{
		TotalSamples:   c.TotalRecorded(),
		SlowestPaths:   topByAvg(byKind[KindRequest], topN),
		SlowestQueries: topByAvg(byKind[KindQuery], topN),
	}

	if len(requestDurations) > 0 {
		sort.Float64s(requestDurations)
		snap.RequestP50Ms = percentile(requestDurations, 50)
		snap.RequestP95Ms = percentile(requestDurations, 95)
		snap.RequestP99Ms = percentile(requestDurations, 99)
	}
	return snap
}

// percentile returns the p-th percentile from a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper || upper >= len(sorted) {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// topByAvg returns the top N labels sorted by average duration (descending).
func topByAvg(stats map[string]*LabelStat, n int) []LabelStat {
	list := make([]LabelStat, 0, len(stats))
	for _, ls := range stats {
		list = append(list, *ls)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].AvgMs > list[j].AvgMs
	})
	if len(list) > n {
		list = list[:n]
	}
	return list
}

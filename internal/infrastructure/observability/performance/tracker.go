package performance

import (
	"sort"
	"sync"
	"time"
)

// OperationStats aggregates completed markers of one operation
type OperationStats struct {
	Operation string        `json:"operation"`
	Count     int           `json:"count"`
	Failures  int           `json:"failures"`
	CacheHits int           `json:"cacheHits"`
	Total     time.Duration `json:"total"`
	Max       time.Duration `json:"max"`
	Slow      int           `json:"slow"`
}

// Average returns the mean duration, zero when nothing was recorded
func (s OperationStats) Average() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Tracker aggregates markers per operation. Completed markers are folded into
// counters so memory stays bounded.
type Tracker struct {
	mu            sync.Mutex
	stats         map[string]*OperationStats
	slowThreshold time.Duration
	started       time.Time
}

// NewTracker creates a tracker; operations slower than slowThreshold are counted as slow
func NewTracker(slowThreshold time.Duration) *Tracker {
	return &Tracker{
		stats:         make(map[string]*OperationStats),
		slowThreshold: slowThreshold,
		started:       time.Now(),
	}
}

// StartOperation creates a marker for an operation
func (t *Tracker) StartOperation(operation string) *Marker {
	return &Marker{
		Operation: operation,
		StartTime: time.Now(),
		Metadata:  make(map[string]any),
		Success:   true,
	}
}

// CompleteOperation completes the marker and records it
func (t *Tracker) CompleteOperation(marker *Marker) {
	if marker == nil || marker.Completed {
		return
	}
	marker.Complete()

	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.stats[marker.Operation]
	if !ok {
		s = &OperationStats{Operation: marker.Operation}
		t.stats[marker.Operation] = s
	}
	s.Count++
	s.Total += marker.Duration
	s.CacheHits += marker.CacheHits
	if marker.Duration > s.Max {
		s.Max = marker.Duration
	}
	if !marker.Success {
		s.Failures++
	}
	if t.slowThreshold > 0 && marker.Duration > t.slowThreshold {
		s.Slow++
	}
}

// Snapshot returns the aggregated stats ordered by operation name
func (t *Tracker) Snapshot() []OperationStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]OperationStats, 0, len(t.stats))
	for _, s := range t.stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Operation < out[b].Operation })
	return out
}

// Uptime reports how long the tracker has been running
func (t *Tracker) Uptime() time.Duration {
	return time.Since(t.started)
}

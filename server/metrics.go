package server

import (
	"sort"
	"sync"
	"time"
)

// defaultThroughputWindow is the trailing window the historical KPI
// endpoint returns when no window is given; maxSnapshotHistory bounds
// how many snapshots are kept in memory.
const (
	defaultThroughputWindow = 60 * time.Minute
	maxSnapshotHistory      = 1440
)

// kpiSnapshot is a point-in-time rollup of passenger-facing KPIs,
// computed directly from the simulator's current passenger ledger
// rather than from a rolling event log, since transitcore's simulation
// is deterministic and re-derivable at any instant.
type kpiSnapshot struct {
	ts time.Time

	averageWaitTime   float64
	p90WaitTime       float64
	averageTravelTime float64
	throughput        int
	strandedCount     int
}

type metricsState struct {
	mu        sync.RWMutex
	snapshots []kpiSnapshot
}

var metrics = &metricsState{}

// takeSnapshot computes a fresh kpiSnapshot from sim's current
// passenger ledger and appends it to the rolling history.
func takeSnapshot() {
	if sim == nil {
		return
	}
	infos := sim.Passengers()

	var waits, travels []float64
	exited := 0
	for _, info := range infos {
		if info.BoardTime > 0 || info.Passenger.StartTime == 0 {
			waits = append(waits, float64(info.BoardTime-info.Passenger.StartTime))
		}
		if info.Exited {
			exited++
			travels = append(travels, float64(info.ExitTime-info.BoardTime))
		}
	}

	snap := kpiSnapshot{ts: time.Now().UTC(), throughput: exited, strandedCount: len(sim.Stranded())}
	if len(waits) > 0 {
		sort.Float64s(waits)
		sum := 0.0
		for _, w := range waits {
			sum += w
		}
		snap.averageWaitTime = sum / float64(len(waits))
		idx := int(0.9*float64(len(waits)-1) + 0.5)
		if idx >= len(waits) {
			idx = len(waits) - 1
		}
		snap.p90WaitTime = waits[idx]
	}
	if len(travels) > 0 {
		sum := 0.0
		for _, t := range travels {
			sum += t
		}
		snap.averageTravelTime = sum / float64(len(travels))
	}

	metrics.mu.Lock()
	metrics.snapshots = append(metrics.snapshots, snap)
	if len(metrics.snapshots) > maxSnapshotHistory {
		metrics.snapshots = metrics.snapshots[len(metrics.snapshots)-maxSnapshotHistory:]
	}
	metrics.mu.Unlock()
}

// startMetricsTicker periodically snapshots KPIs in the background,
// grounded on the teacher's own metrics ticker idiom.
func startMetricsTicker() {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		for range ticker.C {
			takeSnapshot()
		}
	}()
}

func latestSnapshot() kpiSnapshot {
	metrics.mu.RLock()
	defer metrics.mu.RUnlock()
	if len(metrics.snapshots) == 0 {
		return kpiSnapshot{ts: time.Now().UTC()}
	}
	return metrics.snapshots[len(metrics.snapshots)-1]
}

func historicalSnapshots(window time.Duration) []kpiSnapshot {
	metrics.mu.RLock()
	defer metrics.mu.RUnlock()
	cutoff := time.Now().UTC().Add(-window)
	var out []kpiSnapshot
	for _, s := range metrics.snapshots {
		if s.ts.After(cutoff) {
			out = append(out, s)
		}
	}
	return out
}

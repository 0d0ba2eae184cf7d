// Package scheduler synthesizes a schedule.Schedule of periodic
// TrainRoutes from a TrackNetwork and a passenger demand set, using
// either of two heuristics: Scheduler2 (capacity-weighted greedy edge
// routing) or Scheduler3 (shortest-path seeding + coalescing, the
// default).
//
// Grounded on original_source/src/algo/scheduler.c++ in full.
package scheduler

import (
	"github.com/ts2/transitcore/config"
	"github.com/ts2/transitcore/network"
	"github.com/ts2/transitcore/schedule"
	"github.com/ts2/transitcore/transiterr"
)

// Scheduler synthesizes a Schedule over net that serves demand.
type Scheduler interface {
	Synthesize(net *network.TrackNetwork, demand []schedule.Passenger, cfg config.Config) (*schedule.Schedule, error)
}

// New returns the Scheduler selected by cfg.Strategy.
func New(strategy config.SchedulerStrategy) Scheduler {
	switch strategy {
	case config.StrategyS2:
		return &Scheduler2{}
	default:
		return &Scheduler3{}
	}
}

type edgeKey struct {
	from, to network.StationID
}

// shortestPathEdges returns the directed edge sequence of net's
// shortest path from -> to.
func shortestPathEdges(net *network.TrackNetwork, from, to network.StationID) ([]edgeKey, error) {
	path, _, err := net.ShortestPath(from, to)
	if err != nil {
		return nil, err
	}
	edges := make([]edgeKey, 0, len(path)-1)
	for i := 1; i < len(path); i++ {
		edges = append(edges, edgeKey{from: path[i-1], to: path[i]})
	}
	return edges, nil
}

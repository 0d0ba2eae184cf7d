package scheduler

import (
	"math"

	"github.com/ts2/transitcore/config"
	"github.com/ts2/transitcore/network"
	"github.com/ts2/transitcore/schedule"
	"github.com/ts2/transitcore/transiterr"
)

// Scheduler2 is the capacity-weighted greedy edge router: it discovers
// which edges carry the most passenger demand by repeatedly routing all
// passengers' network-shortest-paths over a network whose weights are
// inflated down on already-busy edges, then emits corridor TrainRoutes
// along the busiest chains of edges found (see Synthesize).
//
// Grounded on original_source/src/algo/scheduler.c++'s
// Scheduler2::compute_edge_wanted_capacities 10-iteration reweighting
// loop.
type Scheduler2 struct{}

const s2Iterations = 10

// Synthesize implements Scheduler.
//
// Grounded on original_source/src/algo/scheduler.c++'s Scheduler2::
// build_trains loop: a single corridor rarely reaches every vertex, so
// synthesis repeats against whatever demand the routes-so-far haven't
// already served, stopping once every vertex is covered by some route
// or no further corridor can be extended.
func (Scheduler2) Synthesize(net *network.TrackNetwork, demand []schedule.Passenger, cfg config.Config) (*schedule.Schedule, error) {
	for _, p := range demand {
		if p.StartTime != 0 {
			return nil, transiterr.New(transiterr.UnsupportedPassenger,
				"scheduler2 cannot seed passenger %q with non-zero start time %v", p.Name, p.StartTime)
		}
	}

	capacity := computeEdgeWantedCapacities(net, demand)
	sch := schedule.NewSchedule(net)
	if len(capacity) == 0 {
		return sch, nil
	}

	remaining := make(map[edgeKey]int, len(capacity))
	for k, v := range capacity {
		remaining[k] = v
	}
	covered := make(map[network.StationID]bool)
	vertices := net.Vertices()

	for !allVerticesCovered(vertices, covered) {
		path := greedyBusiestCorridor(net, remaining)
		if len(path) < 2 {
			break
		}

		demandOnRoute := 0
		for i := 1; i < len(path); i++ {
			key := edgeKey{from: path[i-1], to: path[i]}
			demandOnRoute += capacity[key]
			delete(remaining, key)
		}
		for _, v := range path {
			covered[v] = true
		}

		const perTrainCapacity = 1
		numTrains := int(math.Ceil(float64(demandOnRoute) / perTrainCapacity))
		if numTrains < 1 {
			numTrains = 1
		}
		if numTrains > cfg.MaxTrainsAtATime {
			numTrains = cfg.MaxTrainsAtATime
		}

		repeat := schedule.Time(cfg.RepeatTime)
		offsets := make([]schedule.Time, numTrains)
		step := repeat / schedule.Time(numTrains)
		for i := range offsets {
			offsets[i] = schedule.Time(i) * step
		}

		if _, err := sch.AddRoute(path, cfg.DefaultSpeed, offsets, repeat); err != nil {
			return nil, err
		}
	}

	return sch, nil
}

// allVerticesCovered reports whether every vertex in vertices has been
// reached by some already-synthesized route.
func allVerticesCovered(vertices []network.StationID, covered map[network.StationID]bool) bool {
	for _, v := range vertices {
		if !covered[v] {
			return false
		}
	}
	return true
}

// computeEdgeWantedCapacities iteratively routes every passenger's
// network shortest path over a network whose weights are discounted on
// edges already carrying demand, so the accumulated counts converge on
// a small number of shared corridors rather than spreading demand over
// every tied shortest path.
func computeEdgeWantedCapacities(net *network.TrackNetwork, demand []schedule.Passenger) map[edgeKey]int {
	capacity := make(map[edgeKey]int)
	if len(demand) == 0 {
		return capacity
	}

	for iter := 0; iter < s2Iterations; iter++ {
		working := reweightedCopy(net, capacity)
		round := make(map[edgeKey]int)
		for _, p := range demand {
			edges, err := shortestPathEdges(working, p.Entry, p.Exit)
			if err != nil {
				continue
			}
			for _, e := range edges {
				round[e]++
			}
		}
		capacity = round
	}
	return capacity
}

// reweightedCopy clones net with every edge's weight divided by
// (1+capacity[e]), making busy edges cheaper so subsequent shortest-path
// searches reinforce existing corridors.
func reweightedCopy(net *network.TrackNetwork, capacity map[edgeKey]int) *network.TrackNetwork {
	out := network.New()
	for _, v := range net.Vertices() {
		pos, _ := net.VertexPosition(v)
		out.AddVertex(net.VertexName(v), pos.X, pos.Y)
	}
	for _, v := range net.Vertices() {
		for _, e := range net.OutEdges(v) {
			from, to := net.EdgeEndpoints(e)
			w, _ := net.EdgeWeight(e)
			discount := 1.0 + float64(capacity[edgeKey{from: from, to: to}])
			out.AddEdge(from, to, w/discount)
		}
	}
	return out
}

// greedyBusiestCorridor starts at the single busiest edge and greedily
// extends the path at both ends while a neighbouring edge with positive
// demand is available, forming one contiguous corridor route.
func greedyBusiestCorridor(net *network.TrackNetwork, capacity map[edgeKey]int) []network.StationID {
	var best edgeKey
	bestCount := -1
	for e, c := range capacity {
		if c > bestCount {
			bestCount = c
			best = e
		}
	}
	if bestCount <= 0 {
		return nil
	}

	path := []network.StationID{best.from, best.to}

	for {
		tail := path[len(path)-1]
		extended := false
		for _, e := range net.OutEdges(tail) {
			from, to := net.EdgeEndpoints(e)
			if capacity[edgeKey{from: from, to: to}] > 0 && !contains(path, to) {
				path = append(path, to)
				extended = true
				break
			}
		}
		if !extended {
			break
		}
	}

	for {
		head := path[0]
		extended := false
		for _, v := range net.Vertices() {
			for _, e := range net.OutEdges(v) {
				from, to := net.EdgeEndpoints(e)
				if to == head && capacity[edgeKey{from: from, to: to}] > 0 && !contains(path, from) {
					path = append([]network.StationID{from}, path...)
					extended = true
					break
				}
			}
			if extended {
				break
			}
		}
		if !extended {
			break
		}
	}

	return path
}

func contains(path []network.StationID, v network.StationID) bool {
	for _, p := range path {
		if p == v {
			return true
		}
	}
	return false
}

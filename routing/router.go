package routing

import (
	"container/heap"

	"github.com/ts2/transitcore/network"
	"github.com/ts2/transitcore/schedule"
	"github.com/ts2/transitcore/transiterr"
)

// JourneyStep is one leg of a coalesced Journey: either standing at a
// station until Time, or riding Route/TrainIndex until Time.
type JourneyStep struct {
	Kind       VertexKind
	Station    network.StationID
	Route      schedule.RouteID
	TrainIndex schedule.TrainIndex
	Time       schedule.Time
}

// Journey is the coalesced result of a PassengerRouter search: runs of
// steps at the same station or on the same train are merged into their
// first (earliest) occurrence, so a
// multi-hop ride on one train appears as a single board + alight pair
// rather than one step per intermediate stop.
type Journey []JourneyStep

// PassengerRouter performs tree A* searches over a ScheduleGraph: no
// closed set is kept (a station may be legitimately revisited at a
// later time along a better path), but the heuristic for an
// already-visited station is inflated so the search still terminates
// promptly in practice.
//
// Grounded on original_source/src/algo/passenger_routing.c++: HORIZON
// aborts the search after expanding too many vertices, and the
// goal/no-route outcomes that the original signals via exceptions are
// here returned as a tagged searchOutcome instead.
type PassengerRouter struct {
	graph   *ScheduleGraph
	net     *network.TrackNetwork
	horizon int
	// maxSpeed bounds every route's Speed() so that heuristic time
	// estimates (distance / maxSpeed) never overestimate true travel
	// time, keeping the search admissible.
	maxSpeed float64
}

// NewPassengerRouter builds a router over graph/net with the given
// vertex-expansion horizon (original_source default: 100).
func NewPassengerRouter(graph *ScheduleGraph, net *network.TrackNetwork, horizon int) *PassengerRouter {
	maxSpeed := 1.0
	for _, r := range graph.sched.TrainRoutes() {
		if r.Speed() > maxSpeed {
			maxSpeed = r.Speed()
		}
	}
	return &PassengerRouter{graph: graph, net: net, horizon: horizon, maxSpeed: maxSpeed}
}

type searchOutcome int

const (
	outcomeContinue searchOutcome = iota
	outcomeFoundGoal
	outcomeNoRoute
)

type openItem struct {
	v     Vertex
	f     schedule.Time
	index int
}

type openHeap []*openItem

func (h openHeap) Len() int            { return len(h) }
func (h openHeap) Less(i, j int) bool  { return h[i].f < h[j].f }
func (h openHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *openHeap) Push(x interface{}) { item := x.(*openItem); item.index = len(*h); *h = append(*h, item) }
func (h *openHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// FindRoute searches for the earliest-arriving time-respecting journey
// from `from`, departing no earlier than startTime, to `to`. It returns
// transiterr.NoRoute if the horizon is exhausted before the goal is
// reached.
func (pr *PassengerRouter) FindRoute(from network.StationID, startTime schedule.Time, to network.StationID) (Journey, error) {
	start := Vertex{Kind: AtStation, Station: from, Time: startTime}

	gScore := map[Vertex]schedule.Time{start: 0}
	pred := map[Vertex]Vertex{}
	hasPred := map[Vertex]bool{}
	visitedStation := map[network.StationID]bool{from: true}

	open := &openHeap{}
	heap.Init(open)
	heap.Push(open, &openItem{v: start, f: pr.heuristic(start, to)})

	expansions := 0
	var goal Vertex
	outcome := outcomeContinue

	for open.Len() > 0 {
		if expansions >= pr.horizon {
			outcome = outcomeNoRoute
			break
		}
		cur := heap.Pop(open).(*openItem).v
		expansions++

		if cur.Kind == AtStation && cur.Station == to {
			goal = cur
			outcome = outcomeFoundGoal
			break
		}

		edges, err := pr.graph.OutEdges(cur)
		if err != nil {
			return nil, err
		}
		for _, e := range edges {
			tentative := gScore[cur] + e.Weight
			if g, ok := gScore[e.To]; ok && g <= tentative {
				continue
			}
			gScore[e.To] = tentative
			pred[e.To] = cur
			hasPred[e.To] = true
			f := tentative + pr.heuristicInflated(e.To, to, visitedStation)
			if e.To.Kind == AtStation {
				visitedStation[e.To.Station] = true
			}
			heap.Push(open, &openItem{v: e.To, f: f})
		}
	}

	switch outcome {
	case outcomeFoundGoal:
		return extractCoalescedPath(goal, pred, hasPred), nil
	default:
		return nil, transiterr.New(transiterr.NoRoute, "no route from %d to %d within horizon %d", from, to, pr.horizon)
	}
}

func (pr *PassengerRouter) heuristic(v Vertex, to network.StationID) schedule.Time {
	station := v.Station
	if v.Kind == OnTrain {
		route, err := pr.graph.sched.Route(v.Route)
		if err != nil {
			return 0
		}
		station = route.Path()[v.Pos]
	}
	if station == to {
		return 0
	}
	_, weight, err := pr.net.ShortestPath(station, to)
	if err != nil {
		return 0
	}
	return schedule.Time(weight / pr.maxSpeed)
}

// heuristicInflated discourages (without forbidding) re-expansion through
// a station already reached earlier in this search, since no closed set
// is kept.
func (pr *PassengerRouter) heuristicInflated(v Vertex, to network.StationID, visited map[network.StationID]bool) schedule.Time {
	h := pr.heuristic(v, to)
	station := v.Station
	if v.Kind == OnTrain {
		if route, err := pr.graph.sched.Route(v.Route); err == nil {
			station = route.Path()[v.Pos]
		}
	}
	if visited[station] {
		return h*2 + 1
	}
	return h
}

// extractCoalescedPath walks the predecessor chain from goal back to the
// start, then reverses it, merging consecutive same-kind steps into
// their first occurrence.
//
// Grounded on original_source/src/algo/passenger_routing.c++'s
// extract_coalesced_path ("we want to keep the first one (time-wise)
// ..."): a run of Station steps collapses to the earliest one reached
// (e.g. a passenger waiting several quanta before boarding keeps their
// arrival time, not their boarding time), and a run of Train steps
// (necessarily the same train, since stay-on-train is the only edge
// that keeps Kind==OnTrain) collapses to the earliest position reached.
func extractCoalescedPath(goal Vertex, pred map[Vertex]Vertex, hasPred map[Vertex]bool) Journey {
	var reversed []Vertex
	v := goal
	for {
		reversed = append(reversed, v)
		p, ok := hasPred[v]
		if !ok || !p {
			break
		}
		v = pred[v]
	}

	var chain []Vertex
	for i := len(reversed) - 1; i >= 0; i-- {
		chain = append(chain, reversed[i])
	}

	var journey Journey
	for _, v := range chain {
		if len(journey) > 0 && journey[len(journey)-1].Kind == v.Kind &&
			sameRide(journey[len(journey)-1], v) {
			continue
		}
		journey = append(journey, toStep(v))
	}
	return journey
}

func sameRide(last JourneyStep, v Vertex) bool {
	if v.Kind == AtStation {
		return last.Station == v.Station
	}
	return last.Route == v.Route && last.TrainIndex == v.TrainIndex
}

func toStep(v Vertex) JourneyStep {
	return JourneyStep{
		Kind: v.Kind, Station: v.Station,
		Route: v.Route, TrainIndex: v.TrainIndex, Time: v.Time,
	}
}

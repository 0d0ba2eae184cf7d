// Package routing implements ScheduleGraph, the lazily-enumerated
// time-expanded graph over a Schedule, and PassengerRouter, the tree
// A* search that finds time-respecting journeys over it.
//
// Grounded on original_source/src/algo/schedule_to_graph_adapter.c++ for
// the vertex/edge model (alight, stay-on-train, board-train, and a
// wait-one-quantum fallback edge) and original_source/src/algo/
// passenger_routing.c++ for the search itself.
package routing

import (
	"fmt"

	"github.com/ts2/transitcore/network"
	"github.com/ts2/transitcore/schedule"
)

// VertexKind distinguishes the two kinds of ScheduleGraph vertex.
type VertexKind int

const (
	// AtStation is a passenger standing at a station at a given time.
	AtStation VertexKind = iota
	// OnTrain is a passenger riding a specific train occurrence, having
	// just reached a given position along its route.
	OnTrain
)

// Vertex is one node of the time-expanded ScheduleGraph.
type Vertex struct {
	Kind    VertexKind
	Station network.StationID // valid when Kind == AtStation

	Route      schedule.RouteID   // valid when Kind == OnTrain
	TrainIndex schedule.TrainIndex // valid when Kind == OnTrain
	Pos        int                 // path position, valid when Kind == OnTrain

	Time schedule.Time
}

func (v Vertex) String() string {
	if v.Kind == AtStation {
		return fmt.Sprintf("Station(%d)@%v", v.Station, v.Time)
	}
	return fmt.Sprintf("Train(route=%d,idx=%d,pos=%d)@%v", v.Route, v.TrainIndex, v.Pos, v.Time)
}

// Edge is one lazily-enumerated out-edge of the ScheduleGraph.
type Edge struct {
	To     Vertex
	Weight schedule.Time
}

// ScheduleGraph lazily exposes a Schedule as a time-expanded graph.
// Quantum is the board-train search window width, Q, and the width of
// the wait-one-quantum fallback edge.
type ScheduleGraph struct {
	sched   *schedule.Schedule
	quantum schedule.Time

	// routesThrough[station] lists (route, pos) pairs for every route
	// passing through station, built once at construction.
	routesThrough map[network.StationID][]routePos
}

type routePos struct {
	route *schedule.TrainRoute
	pos   int
}

// NewScheduleGraph builds a ScheduleGraph over sched with board-train
// search window width quantum.
func NewScheduleGraph(sched *schedule.Schedule, quantum schedule.Time) *ScheduleGraph {
	g := &ScheduleGraph{
		sched:         sched,
		quantum:       quantum,
		routesThrough: make(map[network.StationID][]routePos),
	}
	for _, r := range sched.TrainRoutes() {
		for pos, v := range r.Path() {
			g.routesThrough[v] = append(g.routesThrough[v], routePos{route: r, pos: pos})
		}
	}
	return g
}

// Quantum returns the graph's board-train search window width.
func (g *ScheduleGraph) Quantum() schedule.Time { return g.quantum }

// OutEdges lazily enumerates every out-edge of v.
func (g *ScheduleGraph) OutEdges(v Vertex) ([]Edge, error) {
	if v.Kind == OnTrain {
		return g.trainOutEdges(v)
	}
	return g.stationOutEdges(v)
}

// trainOutEdges produces the alight edge and, if the train has further
// stops, the stay-on-train edge.
func (g *ScheduleGraph) trainOutEdges(v Vertex) ([]Edge, error) {
	route, err := g.sched.Route(v.Route)
	if err != nil {
		return nil, err
	}
	train := route.MakeTrainFromIndex(v.TrainIndex)

	edges := []Edge{{
		To:     Vertex{Kind: AtStation, Station: route.Path()[v.Pos], Time: v.Time + 1},
		Weight: 1,
	}}

	if v.Pos+1 < len(route.Path()) {
		nextTime := train.ArrivalTimeAt(v.Pos + 1)
		edges = append(edges, Edge{
			To: Vertex{
				Kind: OnTrain, Route: v.Route, TrainIndex: v.TrainIndex,
				Pos: v.Pos + 1, Time: nextTime,
			},
			Weight: nextTime - v.Time,
		})
	}
	return edges, nil
}

// stationOutEdges produces one board-train edge per (route, occurrence)
// departing v.Station within [v.Time, v.Time+Quantum), plus a fallback
// wait-one-quantum edge so an un-boardable passenger still makes
// progress through the search.
func (g *ScheduleGraph) stationOutEdges(v Vertex) ([]Edge, error) {
	edges := []Edge{{
		To:     Vertex{Kind: AtStation, Station: v.Station, Time: v.Time + g.quantum},
		Weight: g.quantum,
	}}

	for _, rp := range g.routesThrough[v.Station] {
		trains, err := rp.route.TrainsAtVertexInInterval(rp.pos, v.Time, v.Time+g.quantum)
		if err != nil {
			return nil, err
		}
		for _, t := range trains {
			arrival := t.ArrivalTimeAt(rp.pos)
			edges = append(edges, Edge{
				To: Vertex{
					Kind: OnTrain, Route: rp.route.ID, TrainIndex: t.Index,
					Pos: rp.pos, Time: arrival,
				},
				Weight: arrival - v.Time,
			})
		}
	}
	return edges, nil
}

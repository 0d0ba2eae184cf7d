package schedule

import (
	"fmt"
	"strings"

	"github.com/ts2/transitcore/network"
	"github.com/ts2/transitcore/transiterr"
)

// Schedule is the set of synthesized TrainRoutes a Scheduler produces
// and a PassengerRouter/Simulator run against.
type Schedule struct {
	net    *network.TrackNetwork
	routes map[RouteID]*TrainRoute
	nextID RouteID
}

// NewSchedule returns an empty Schedule over net.
func NewSchedule(net *network.TrackNetwork) *Schedule {
	return &Schedule{net: net, routes: make(map[RouteID]*TrainRoute)}
}

// Network returns the TrackNetwork this schedule routes over.
func (s *Schedule) Network() *network.TrackNetwork { return s.net }

// AddRoute builds a TrainRoute from the given parts via NewTrainRoute
// and registers it under the next route id.
func (s *Schedule) AddRoute(path []network.StationID, speed float64, startOffsets []Time, repeatTime Time) (*TrainRoute, error) {
	id := s.nextID
	route, err := NewTrainRoute(id, path, s.net, speed, startOffsets, repeatTime)
	if err != nil {
		return nil, err
	}
	s.nextID++
	s.routes[id] = route
	return route, nil
}

// TrainRoutes returns every route in the schedule, ordered by id.
func (s *Schedule) TrainRoutes() []*TrainRoute {
	out := make([]*TrainRoute, 0, len(s.routes))
	for id := RouteID(0); id < s.nextID; id++ {
		if r, ok := s.routes[id]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Route returns the route with the given id, or an error if unknown.
func (s *Schedule) Route(id RouteID) (*TrainRoute, error) {
	r, ok := s.routes[id]
	if !ok {
		return nil, transiterr.New(transiterr.InvalidRouteQuery, "unknown route %d", id)
	}
	return r, nil
}

// String renders a route the way original_source's operator<<(TrainRoute)
// does: "{ Train <id> : Path=[...], Start Offsets={...}, Speed=<v>, Repeat Time=<T> }".
func (r *TrainRoute) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("{ Train %d : Path=[", r.ID))
	for i, v := range r.path {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("%d", v))
	}
	sb.WriteString("], Start Offsets={")
	for i, off := range r.startOffsets {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("%v", off))
	}
	sb.WriteString(fmt.Sprintf("}, Speed=%v, Repeat Time=%v }", r.speed, r.repeatTime))
	return sb.String()
}

// Package schedule implements TrainRoute, Train and Schedule: the
// periodic-service data model that PassengerRouter and Simulator run
// against.
//
// Grounded on original_source/src/algo/train_route.c++ for the offset/
// repeat-time arithmetic, and original_source/src/util/passenger.c++'s
// Passenger print formatting for the companion Passenger type.
package schedule

import (
	"math"

	"github.com/ts2/transitcore/network"
	"github.com/ts2/transitcore/transiterr"
)

// Time is a discrete simulated instant or duration, in the same units as
// TrackNetwork edge weights.
type Time int

// RouteID identifies a TrainRoute within a Schedule.
type RouteID int

// TrainIndex identifies one periodic occurrence of a TrainRoute: the
// index-th train to run that route since time zero.
type TrainIndex int

// TrainRoute is a fixed path through the network run periodically: every
// RepeatTime units, len(StartOffsets) trains depart, one at each offset.
type TrainRoute struct {
	ID RouteID

	path         []network.StationID
	cumulative   []Time // cumulative expected travel time from path[0] to path[i]
	startOffsets []Time // sorted ascending, each in [0, repeatTime)
	repeatTime   Time
	speed        float64
}

// NewTrainRoute builds a TrainRoute over net along path, running at the
// given speed, departing at each of startOffsets (which need not be
// pre-sorted) every repeatTime units.
func NewTrainRoute(id RouteID, path []network.StationID, net *network.TrackNetwork, speed float64, startOffsets []Time, repeatTime Time) (*TrainRoute, error) {
	if len(path) < 2 {
		return nil, transiterr.New(transiterr.InvalidInput, "route %d: path must have at least 2 vertices, got %d", id, len(path))
	}
	if speed <= 0 {
		return nil, transiterr.New(transiterr.InvalidInput, "route %d: speed must be positive, got %v", id, speed)
	}
	if repeatTime <= 0 {
		return nil, transiterr.New(transiterr.InvalidInput, "route %d: repeat time must be positive, got %v", id, repeatTime)
	}
	if len(startOffsets) == 0 {
		return nil, transiterr.New(transiterr.InvalidInput, "route %d: must have at least one start offset", id)
	}

	cumulative := make([]Time, len(path))
	for i := 1; i < len(path); i++ {
		edge := net.EdgeBetween(path[i-1], path[i])
		if edge == network.NoEdge {
			return nil, transiterr.New(transiterr.InvalidInput, "route %d: no edge from %d to %d", id, path[i-1], path[i])
		}
		weight, _ := net.EdgeWeight(edge)
		travel := Time(math.Round(weight / speed))
		if travel <= 0 {
			travel = 1
		}
		cumulative[i] = cumulative[i-1] + travel
	}

	offsets := append([]Time(nil), startOffsets...)
	for _, off := range offsets {
		if off < 0 || off >= repeatTime {
			return nil, transiterr.New(transiterr.InvalidInput, "route %d: start offset %v out of [0,%v)", id, off, repeatTime)
		}
	}
	sortTimes(offsets)

	return &TrainRoute{
		ID:           id,
		path:         path,
		cumulative:   cumulative,
		startOffsets: offsets,
		repeatTime:   repeatTime,
		speed:        speed,
	}, nil
}

func sortTimes(t []Time) {
	for i := 1; i < len(t); i++ {
		for j := i; j > 0 && t[j-1] > t[j]; j-- {
			t[j-1], t[j] = t[j], t[j-1]
		}
	}
}

// Path returns the ordered stations this route visits.
func (r *TrainRoute) Path() []network.StationID { return r.path }

// StartOffsets returns the k offsets, sorted ascending, each < RepeatTime.
func (r *TrainRoute) StartOffsets() []Time { return r.startOffsets }

// RepeatTime returns the route's period.
func (r *TrainRoute) RepeatTime() Time { return r.repeatTime }

// Speed returns the route's travel speed.
func (r *TrainRoute) Speed() float64 { return r.speed }

// NumOccurrencesPerPeriod returns k, the number of trains per RepeatTime.
func (r *TrainRoute) NumOccurrencesPerPeriod() int { return len(r.startOffsets) }

// PositionOf returns the index of vertex in Path(), or -1 if absent.
func (r *TrainRoute) PositionOf(vertex network.StationID) int {
	for i, v := range r.path {
		if v == vertex {
			return i
		}
	}
	return -1
}

// ExpectedTravelTime returns the time to travel from path position
// fromPos to path position toPos (toPos >= fromPos).
func (r *TrainRoute) ExpectedTravelTime(fromPos, toPos int) Time {
	return r.cumulative[toPos] - r.cumulative[fromPos]
}

// Train is one periodic occurrence (TrainIndex) of a TrainRoute.
type Train struct {
	Route *TrainRoute
	Index TrainIndex
}

// MakeTrainFromIndex builds the Index-th occurrence of r.
//
// departure_time(index) = repeat_time*(index div k) + offsets[index mod k]
func (r *TrainRoute) MakeTrainFromIndex(index TrainIndex) Train {
	return Train{Route: r, Index: index}
}

// DepartureTime returns the time t.Route departs its first vertex for
// occurrence t.Index.
func (t Train) DepartureTime() Time {
	k := TrainIndex(len(t.Route.startOffsets))
	day := int(t.Index) / int(k)
	slot := int(t.Index) % int(k)
	if slot < 0 {
		slot += int(k)
		day--
	}
	return t.Route.repeatTime*Time(day) + t.Route.startOffsets[slot]
}

// ArrivalTimeAt returns the time t arrives at path position pos.
func (t Train) ArrivalTimeAt(pos int) Time {
	return t.DepartureTime() + t.Route.ExpectedTravelTime(0, pos)
}

// TrainsAtVertexInInterval returns every occurrence of r whose arrival at
// path position pos falls within [from, to). to must be >= from; the
// degenerate interval [t,t) is valid and always returns no trains.
//
// Grounded on original_source/src/algo/train_route.c++: the interval is
// decomposed into a day number and a time-in-day window by subtracting
// the fixed travel offset to that vertex, then the route's sorted start
// offsets are scanned for the ones landing in that window, repeated once
// per day the interval spans.
func (r *TrainRoute) TrainsAtVertexInInterval(pos int, from, to Time) ([]Train, error) {
	if to < from {
		return nil, transiterr.New(transiterr.BackwardInterval, "interval [%v,%v) is not forward", from, to)
	}
	if to == from {
		return nil, nil
	}
	travelToPos := r.cumulative[pos]
	winFrom := from - travelToPos
	winTo := to - travelToPos

	var trains []Train
	firstDay := floorDiv(int(winFrom), int(r.repeatTime))
	lastDay := floorDiv(int(winTo-1), int(r.repeatTime))
	for day := firstDay; day <= lastDay; day++ {
		base := Time(day) * r.repeatTime
		for slot, off := range r.startOffsets {
			depTime := base + off
			if depTime >= winFrom && depTime < winTo {
				index := TrainIndex(day)*TrainIndex(len(r.startOffsets)) + TrainIndex(slot)
				trains = append(trains, r.MakeTrainFromIndex(index))
			}
		}
	}
	return trains, nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

package simulation

import (
	"fmt"
	"math"

	"github.com/ts2/transitcore/schedule"
)

// PassengerGenerator deterministically emits new Passengers from a set
// of StatisticalPassenger specs, one stream per spec, each firing at the
// earliest multiple-of-its-period strictly after its last emission.
//
// Grounded on original_source/src/util/passenger_generator.c++:
// nextPassengerAfter(t) = period*ceil(t/period); if that equals t
// itself, the next slot is pushed out by one more period so a generator
// queried exactly on a boundary still produces a strictly later time.
type PassengerGenerator struct {
	streams []*genStream
	nextID  schedule.PassengerID
}

type genStream struct {
	spec schedule.StatisticalPassenger
	last schedule.Time
}

// NewPassengerGenerator builds a generator for specs, with every stream
// primed so its first emission is the first slot strictly after start.
func NewPassengerGenerator(specs []schedule.StatisticalPassenger, start schedule.Time) *PassengerGenerator {
	g := &PassengerGenerator{}
	for _, s := range specs {
		g.streams = append(g.streams, &genStream{spec: s, last: start})
	}
	return g
}

func nextAfter(t, period schedule.Time) schedule.Time {
	next := period * schedule.Time(math.Ceil(float64(t)/float64(period)))
	if next == t {
		next += period
	}
	return next
}

// PeekNextEventTime returns the earliest time any stream will next fire,
// or (0, false) if there are no streams.
func (g *PassengerGenerator) PeekNextEventTime() (schedule.Time, bool) {
	if len(g.streams) == 0 {
		return 0, false
	}
	best := nextAfter(g.streams[0].last, g.streams[0].spec.Period)
	for _, s := range g.streams[1:] {
		t := nextAfter(s.last, s.spec.Period)
		if t < best {
			best = t
		}
	}
	return best, true
}

// EmitAt produces one Passenger for every stream whose next firing time
// equals t, advancing those streams, and leaves the rest untouched.
func (g *PassengerGenerator) EmitAt(t schedule.Time) []schedule.Passenger {
	var out []schedule.Passenger
	for _, s := range g.streams {
		next := nextAfter(s.last, s.spec.Period)
		if next != t {
			continue
		}
		p := schedule.Passenger{
			ID:        g.nextID,
			Name:      fmt.Sprintf("p%d", g.nextID),
			Entry:     s.spec.Entry,
			Exit:      s.spec.Exit,
			StartTime: t,
		}
		g.nextID++
		s.last = t
		out = append(out, p)
	}
	return out
}

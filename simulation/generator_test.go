package simulation

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/ts2/transitcore/network"
	"github.com/ts2/transitcore/schedule"
)

func TestPassengerGenerator(t *testing.T) {
	Convey("Given a generator with one statistical stream of period 10", t, func() {
		entry := network.StationID(1)
		exit := network.StationID(2)
		gen := NewPassengerGenerator([]schedule.StatisticalPassenger{
			{Entry: entry, Exit: exit, Period: 10},
		}, 0)

		Convey("Its first peeked event time is the first period boundary", func() {
			next, ok := gen.PeekNextEventTime()
			So(ok, ShouldBeTrue)
			So(next, ShouldEqual, schedule.Time(10))
		})

		Convey("EmitAt a non-matching time produces nothing", func() {
			passengers := gen.EmitAt(5)
			So(passengers, ShouldBeEmpty)
		})

		Convey("EmitAt the matching time produces one passenger and advances the stream", func() {
			passengers := gen.EmitAt(10)
			So(passengers, ShouldHaveLength, 1)
			So(passengers[0].Entry, ShouldEqual, entry)
			So(passengers[0].Exit, ShouldEqual, exit)

			next, ok := gen.PeekNextEventTime()
			So(ok, ShouldBeTrue)
			So(next, ShouldEqual, schedule.Time(20))
		})
	})

	Convey("Given a generator with no streams", t, func() {
		gen := NewPassengerGenerator(nil, 0)

		Convey("PeekNextEventTime reports no event", func() {
			_, ok := gen.PeekNextEventTime()
			So(ok, ShouldBeFalse)
		})
	})
}

func TestNextAfter_PushesPastExactBoundary(t *testing.T) {
	Convey("Given a time exactly on a period boundary", t, func() {
		Convey("nextAfter pushes to the following boundary, not the same one", func() {
			So(nextAfter(10, 10), ShouldEqual, schedule.Time(20))
			So(nextAfter(9, 10), ShouldEqual, schedule.Time(10))
			So(nextAfter(0, 10), ShouldEqual, schedule.Time(10))
		})
	})
}

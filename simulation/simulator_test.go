package simulation

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/ts2/transitcore/network"
	"github.com/ts2/transitcore/routing"
	"github.com/ts2/transitcore/schedule"
	"github.com/ts2/transitcore/transiterr"
)

func buildSimLinearSchedule(t *testing.T) (*network.TrackNetwork, *schedule.Schedule, network.StationID, network.StationID) {
	t.Helper()
	n := network.New()
	a := n.AddVertex("A", 0, 0)
	b := n.AddVertex("B", 0, 0)
	n.AddVertex("Island", 0, 0) // unreachable from a/b, exercised by the stranded-passenger test
	if _, err := n.AddEdge(a, b, 100); err != nil {
		t.Fatal(err)
	}
	sched := schedule.NewSchedule(n)
	if _, err := sched.AddRoute([]network.StationID{a, b}, 10, []schedule.Time{0}, 100); err != nil {
		t.Fatal(err)
	}
	return n, sched, a, b
}

func TestSimulator_AddPassengerAndRunForTime(t *testing.T) {
	Convey("Given a simulator over a two-station, one-route network", t, func() {
		n, sched, a, b := buildSimLinearSchedule(t)
		graph := routing.NewScheduleGraph(sched, 5)
		router := routing.NewPassengerRouter(graph, n, 50)
		sim := New(n, sched, router, nil)

		Convey("A routable passenger added at time 0 eventually exits", func() {
			err := sim.AddPassenger(schedule.Passenger{ID: 1, Name: "p1", Entry: a, Exit: b, StartTime: 0})
			So(err, ShouldBeNil)

			err = sim.RunForTime(50, 10)
			So(err, ShouldBeNil)

			exits := sim.Exits()
			So(exits, ShouldHaveLength, 1)
			So(exits[0].Passenger, ShouldEqual, schedule.PassengerID(1))
		})

		Convey("An unroutable passenger (unreachable exit) is recorded as stranded, not errored", func() {
			err := sim.AddPassenger(schedule.Passenger{ID: 2, Name: "ghost", Entry: a, Exit: n.VertexByName("Island"), StartTime: 0})
			So(err, ShouldBeNil)
			So(sim.Stranded(), ShouldHaveLength, 1)
		})

		Convey("Snapshot reflects active vs exited counts", func() {
			_ = sim.AddPassenger(schedule.Passenger{ID: 3, Name: "p3", Entry: a, Exit: b, StartTime: 0})
			snap := sim.Snapshot()
			So(snap.NumActive, ShouldEqual, 1)
			So(snap.NumExited, ShouldEqual, 0)

			_ = sim.RunForTime(50, 10)
			snap = sim.Snapshot()
			So(snap.NumExited, ShouldEqual, 1)
		})
	})
}

func TestSimulator_RunForTime_RejectsNonPositiveArguments(t *testing.T) {
	Convey("Given a freshly built simulator", t, func() {
		n, sched, _, _ := buildSimLinearSchedule(t)
		graph := routing.NewScheduleGraph(sched, 5)
		router := routing.NewPassengerRouter(graph, n, 50)
		sim := New(n, sched, router, nil)

		Convey("RunForTime rejects a non-positive duration", func() {
			err := sim.RunForTime(0, 10)
			So(err, ShouldNotBeNil)
		})

		Convey("RunForTime rejects a non-positive max step", func() {
			err := sim.RunForTime(10, 0)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSimulator_RegisterObserver_FiresAtPeriod(t *testing.T) {
	Convey("Given a simulator with an observer registered every 20 units", t, func() {
		n, sched, a, b := buildSimLinearSchedule(t)
		graph := routing.NewScheduleGraph(sched, 5)
		router := routing.NewPassengerRouter(graph, n, 50)
		sim := New(n, sched, router, nil)

		fired := 0
		sim.RegisterObserver(20, func(s *Simulator) { fired++ })
		_ = sim.AddPassenger(schedule.Passenger{ID: 1, Entry: a, Exit: b, StartTime: 0})

		Convey("It fires once per period elapsed, not once per internal step", func() {
			err := sim.RunForTime(60, 5)
			So(err, ShouldBeNil)
			So(fired, ShouldEqual, 3)
		})
	})
}

func TestSimulator_Passengers_ReportsBoardAndExitTimes(t *testing.T) {
	Convey("Given a simulator with one routed passenger run to completion", t, func() {
		n, sched, a, b := buildSimLinearSchedule(t)
		graph := routing.NewScheduleGraph(sched, 5)
		router := routing.NewPassengerRouter(graph, n, 50)
		sim := New(n, sched, router, nil)
		_ = sim.AddPassenger(schedule.Passenger{ID: 1, Entry: a, Exit: b, StartTime: 0})
		_ = sim.RunForTime(50, 10)

		Convey("Passengers reports it as exited with a board time <= exit time", func() {
			infos := sim.Passengers()
			So(infos, ShouldHaveLength, 1)
			So(infos[0].Exited, ShouldBeTrue)
			So(infos[0].BoardTime, ShouldBeLessThanOrEqualTo, infos[0].ExitTime)
		})
	})
}

func TestSimulator_TrainReachingTerminalStillBoardedIsStranded(t *testing.T) {
	Convey("Given a train whose boarded set is still nonempty when it reaches its terminal", t, func() {
		n, sched, _, _ := buildSimLinearSchedule(t)
		route := sched.TrainRoutes()[0]
		graph := routing.NewScheduleGraph(sched, 5)
		router := routing.NewPassengerRouter(graph, n, 50)
		sim := New(n, sched, router, nil)

		key := trainKey{Route: route.ID, Index: 0}
		ts := &trainState{train: route.MakeTrainFromIndex(0), boarded: map[schedule.PassengerID]bool{99: true}}
		sim.trains[key] = ts

		Convey("advancing it across its only edge fails PassengersStranded, not silently dropping them", func() {
			err := sim.advanceTrainLocked(key, ts, 0, 10)
			So(err, ShouldNotBeNil)
			So(transiterr.Is(err, transiterr.PassengersStranded), ShouldBeTrue)
		})
	})
}

func TestSimulator_MoveRequestedFromWrongLocationIsDesync(t *testing.T) {
	Convey("Given a passenger whose current journey step is a Station other than the requested move's source", t, func() {
		n, sched, a, _ := buildSimLinearSchedule(t)
		route := sched.TrainRoutes()[0]
		graph := routing.NewScheduleGraph(sched, 5)
		router := routing.NewPassengerRouter(graph, n, 50)
		sim := New(n, sched, router, nil)

		other := n.VertexByName("Island")
		sim.passengers[1] = &passengerState{
			passenger: schedule.Passenger{ID: 1, Entry: a, Exit: a},
			journey: routing.Journey{
				{Kind: routing.AtStation, Station: a, Time: 0},
				{Kind: routing.OnTrain, Route: route.ID, TrainIndex: 0, Time: 0},
			},
		}

		Convey("requesting the board from the wrong station fails PassengerDesync", func() {
			wrongFrom := routing.JourneyStep{Kind: routing.AtStation, Station: other}
			to := routing.JourneyStep{Kind: routing.OnTrain, Route: route.ID, TrainIndex: 0}
			_, err := sim.tryMoveLocked(1, wrongFrom, to, 5)
			So(err, ShouldNotBeNil)
			So(transiterr.Is(err, transiterr.PassengerDesync), ShouldBeTrue)
		})
	})
}

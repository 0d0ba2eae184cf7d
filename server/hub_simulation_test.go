package server

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	log "gopkg.in/inconshreveable/log15.v2"

	"github.com/ts2/transitcore/config"
	"github.com/ts2/transitcore/network"
	"github.com/ts2/transitcore/routing"
	"github.com/ts2/transitcore/schedule"
	"github.com/ts2/transitcore/simulation"
)

func init() {
	InitializeLogger(log.New())
}

func buildHubFixture(t *testing.T) {
	t.Helper()
	n := network.New()
	a := n.AddVertex("A", 0, 0)
	b := n.AddVertex("B", 0, 0)
	if _, err := n.AddEdge(a, b, 10); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	sc := schedule.NewSchedule(n)
	if _, err := sc.AddRoute([]network.StationID{a, b}, 10, []schedule.Time{0}, 100); err != nil {
		t.Fatalf("AddRoute: %v", err)
	}
	graph := routing.NewScheduleGraph(sc, 5)
	r := routing.NewPassengerRouter(graph, n, 100)
	gen := simulation.NewPassengerGenerator(nil, 0)
	Configure(n, sc, r, gen, nil, config.Default())
}

func decodeResponse(t *testing.T, raw []byte) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp
}

func TestSimulationObject_Dispatch(t *testing.T) {
	Convey("Given a configured simulator reachable through the hub", t, func() {
		buildHubFixture(t)
		obj := new(simulationObject)

		Convey("A start action starts the simulation and replies ok", func() {
			conn := &connection{pushChan: make(chan []byte, 1)}
			obj.dispatch(hub, Request{ID: "1", Object: "simulation", Action: "start"}, conn)
			resp := decodeResponse(t, <-conn.pushChan)
			So(resp.Error, ShouldBeBlank)
			So(sim.IsStarted(), ShouldBeTrue)
			sim.Pause()
		})

		Convey("A dump action returns the current snapshot", func() {
			conn := &connection{pushChan: make(chan []byte, 1)}
			obj.dispatch(hub, Request{ID: "2", Object: "simulation", Action: "dump"}, conn)
			resp := decodeResponse(t, <-conn.pushChan)
			So(resp.Error, ShouldBeBlank)

			var dump dumpState
			So(json.Unmarshal(resp.Data, &dump), ShouldBeNil)
		})

		Convey("An isStarted action reports the simulator's run state", func() {
			conn := &connection{pushChan: make(chan []byte, 1)}
			obj.dispatch(hub, Request{ID: "3", Object: "simulation", Action: "isStarted"}, conn)
			resp := decodeResponse(t, <-conn.pushChan)
			var started bool
			So(json.Unmarshal(resp.Data, &started), ShouldBeNil)
			So(started, ShouldBeFalse)
		})

		Convey("A restart action rebuilds the simulator and optionally auto-starts it", func() {
			conn := &connection{pushChan: make(chan []byte, 1)}
			params, _ := json.Marshal(map[string]interface{}{"autoStart": true})
			obj.dispatch(hub, Request{ID: "4", Object: "simulation", Action: "restart", Params: params}, conn)
			resp := decodeResponse(t, <-conn.pushChan)
			So(resp.Error, ShouldBeBlank)
			So(sim.IsStarted(), ShouldBeTrue)
			sim.Pause()
		})

		Convey("An unknown action returns an error response", func() {
			conn := &connection{pushChan: make(chan []byte, 1)}
			obj.dispatch(hub, Request{ID: "5", Object: "simulation", Action: "bogus"}, conn)
			resp := decodeResponse(t, <-conn.pushChan)
			So(resp.Error, ShouldNotBeBlank)
		})
	})
}

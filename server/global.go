package server

import (
	"github.com/ts2/transitcore/config"
	"github.com/ts2/transitcore/network"
	"github.com/ts2/transitcore/routing"
	"github.com/ts2/transitcore/schedule"
	"github.com/ts2/transitcore/simulation"
)

// sim is the running simulation the hub and HTTP API operate on, set by
// Run before the HTTP server starts accepting connections.
var sim *simulation.Simulator

// net, sched and demand are kept alongside sim so that "restart" can
// rebuild a fresh Simulator without needing to serialize/deserialize
// its internal state, unlike the teacher's JSON-snapshot restart.
var (
	net     *network.TrackNetwork
	sched   *schedule.Schedule
	router  *routing.PassengerRouter
	gen     *simulation.PassengerGenerator
	demand  []schedule.Passenger
	simCfg  config.Config
)

// Configure installs the built simulation components the server exposes.
// Called once at startup before Run.
func Configure(n *network.TrackNetwork, s *schedule.Schedule, r *routing.PassengerRouter, g *simulation.PassengerGenerator, d []schedule.Passenger, cfg config.Config) {
	net, sched, router, gen, demand, simCfg = n, s, r, g, d, cfg
	rebuildSimulator()
}

// rebuildSimulator constructs a fresh Simulator from the configured
// components and seeds it with the original demand, used both at
// startup and by the hub's "restart" action.
func rebuildSimulator() {
	sim = simulation.New(net, sched, router, gen)
	for _, p := range demand {
		_ = sim.AddPassenger(p)
	}
	lastRecorded := 0
	sim.RegisterObserver(schedule.Time(simCfg.Quantum), func(s *simulation.Simulator) {
		exits := s.Exits()
		for _, e := range exits[lastRecorded:] {
			recordPassengerExit(e)
		}
		lastRecorded = len(exits)
	})
}

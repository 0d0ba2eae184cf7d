// Package simulation implements Simulator, the discrete-event engine
// that advances simulated time, moves passengers along their journeys,
// and invokes period-sorted observers — and PassengerGenerator, the
// deterministic periodic passenger-arrival stream it consumes.
//
// Grounded on original_source/src/sim/simulator.c++ for runForTime,
// advanceUntilEvent and movePassengerFromHereGoingTo, and on the
// teacher's own simulation.Simulation clock-ticker goroutine
// (see other_examples/*-ts2-sim-server__simulation-simulation.go.go)
// for the ambient Start/Pause/observer plumbing around it.
package simulation

import (
	"sort"
	"sync"
	"time"

	log "gopkg.in/inconshreveable/log15.v2"

	"github.com/ts2/transitcore/internal/logging"
	"github.com/ts2/transitcore/network"
	"github.com/ts2/transitcore/routing"
	"github.com/ts2/transitcore/schedule"
	"github.com/ts2/transitcore/transiterr"
)

// logger is this package's log15 child logger, following the teacher's
// per-package InitializeLogger(parentLogger) convention.
var logger = logging.NewPackageLogger(logging.Root, "simulation")

// InitializeLogger rebinds this package's logger under parentLogger.
func InitializeLogger(parentLogger log.Logger) {
	logger = logging.NewPackageLogger(parentLogger, "simulation")
}

// PassengerExit records when a passenger reached their destination.
type PassengerExit struct {
	Passenger  schedule.PassengerID
	TimeOfExit schedule.Time
}

// Observer is called after the Simulator advances past one of its
// registered periods. Observers must not call back into the Simulator's
// mutating methods; they should read state via Snapshot.
type Observer func(sim *Simulator)

type observerEntry struct {
	period schedule.Time
	last   schedule.Time
	fn     Observer
}

// passengerState tracks one routed passenger's progress along its
// coalesced Journey: journeyIdx names the JourneyStep the passenger
// currently occupies (its "current Location"), and trace is the
// append-only record of every Location it has actually visited,
// stamped with the simulated time of arrival there.
type passengerState struct {
	passenger  schedule.Passenger
	journey    routing.Journey
	journeyIdx int
	trace      []routing.JourneyStep
	exited     bool
}

// trainKey identifies one active train instance: a TrainRoute plus the
// periodic occurrence index, mirroring the original's TrainID.
type trainKey struct {
	Route schedule.RouteID
	Index schedule.TrainIndex
}

// trainState is a TrainLocation: edgeNumber is the path position the
// train last departed (or is sitting at, when fraction==0), and
// fraction is how far through the edge to edgeNumber+1 it has
// travelled, in [0,1]. boarded is the set of passengers currently
// riding this train.
type trainState struct {
	train      schedule.Train
	edgeNumber int
	fraction   float64
	boarded    map[schedule.PassengerID]bool
	removed    bool
}

// Simulator runs a Schedule and PassengerRouter forward in simulated
// time, advancing each active train's TrainLocation, moving passengers
// between per-station waiting sets and per-train boarded sets
// according to their routed Journey, and tracking every exit.
//
// All mutating methods take sim.mu; Snapshot is the re-entrant-safe way
// for an Observer invoked mid-advance to read state without risking
// deadlock on the same lock.
type Simulator struct {
	mu sync.Mutex

	net    *network.TrackNetwork
	sched  *schedule.Schedule
	router *routing.PassengerRouter

	currentTime schedule.Time
	generator   *PassengerGenerator

	passengers map[schedule.PassengerID]*passengerState
	waiting    map[network.StationID]map[schedule.PassengerID]bool
	trains     map[trainKey]*trainState

	exits    []PassengerExit
	stranded []schedule.Passenger

	observers []observerEntry

	started  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New builds a Simulator over sched/router starting at time 0, with gen
// supplying new passengers as simulated time advances. gen may be nil.
func New(net *network.TrackNetwork, sched *schedule.Schedule, router *routing.PassengerRouter, gen *PassengerGenerator) *Simulator {
	return &Simulator{
		net:        net,
		sched:      sched,
		router:     router,
		generator:  gen,
		passengers: make(map[schedule.PassengerID]*passengerState),
		waiting:    make(map[network.StationID]map[schedule.PassengerID]bool),
		trains:     make(map[trainKey]*trainState),
	}
}

// RegisterObserver adds obs to be invoked every period units of
// simulated time, ordered ascending by period so finer-grained
// observers see state before coarser ones.
func (s *Simulator) RegisterObserver(period schedule.Time, obs Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observerEntry{period: period, last: s.currentTime, fn: obs})
	sort.Slice(s.observers, func(i, j int) bool { return s.observers[i].period < s.observers[j].period })
}

// AddPassenger seeds a concrete Passenger into the simulation, routing
// it immediately via the PassengerRouter and placing it in the waiting
// set at its entry station. A passenger the router cannot route is
// recorded as stranded rather than rejected outright.
func (s *Simulator) AddPassenger(p schedule.Passenger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addPassengerLocked(p)
}

func (s *Simulator) addPassengerLocked(p schedule.Passenger) error {
	journey, err := s.router.FindRoute(p.Entry, p.StartTime, p.Exit)
	if err != nil {
		if transiterr.Is(err, transiterr.NoRoute) {
			s.stranded = append(s.stranded, p)
			logger.Warn("passenger has no route", "passenger", p.Name, "entry", p.Entry, "exit", p.Exit)
			return nil
		}
		return err
	}

	ps := &passengerState{passenger: p, journey: journey, trace: []routing.JourneyStep{journey[0]}}
	s.passengers[p.ID] = ps
	if s.waiting[p.Entry] == nil {
		s.waiting[p.Entry] = make(map[schedule.PassengerID]bool)
	}
	s.waiting[p.Entry][p.ID] = true
	s.finalizeIfArrivedLocked(p.ID, journey[0].Time)
	return nil
}

// CurrentTime returns the simulator's current simulated time.
func (s *Simulator) CurrentTime() schedule.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentTime
}

// Exits returns every recorded PassengerExit so far.
func (s *Simulator) Exits() []PassengerExit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PassengerExit, len(s.exits))
	copy(out, s.exits)
	return out
}

// Stranded returns every passenger the router could not find a journey
// for at the time they were added.
func (s *Simulator) Stranded() []schedule.Passenger {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]schedule.Passenger, len(s.stranded))
	copy(out, s.stranded)
	return out
}

// PassengerInfo summarizes one routed passenger's progress: when they
// appeared, when they finished waiting for their first train (BoardTime,
// the time of the second trace entry), and whether/when they exited.
type PassengerInfo struct {
	Passenger schedule.Passenger
	BoardTime schedule.Time
	Exited    bool
	ExitTime  schedule.Time
}

// Passengers returns a PassengerInfo for every passenger the router
// successfully routed (stranded passengers are reported by Stranded
// instead).
func (s *Simulator) Passengers() []PassengerInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	exitTime := make(map[schedule.PassengerID]schedule.Time, len(s.exits))
	for _, e := range s.exits {
		exitTime[e.Passenger] = e.TimeOfExit
	}

	out := make([]PassengerInfo, 0, len(s.passengers))
	for _, ps := range s.passengers {
		info := PassengerInfo{Passenger: ps.passenger}
		if len(ps.trace) > 1 {
			info.BoardTime = ps.trace[1].Time
		}
		if t, ok := exitTime[ps.passenger.ID]; ok {
			info.Exited = true
			info.ExitTime = t
		}
		out = append(out, info)
	}
	return out
}

// Snapshot is a read-only copy of the simulation's counters, returned by
// Simulator.Snapshot; holding one needs no lock.
type Snapshot struct {
	CurrentTime schedule.Time
	NumActive   int
	NumExited   int
	NumStranded int
}

// Snapshot returns a consistent read-only view of the simulation's
// state. Safe to call from within an Observer, since Observers run with
// Simulator's lock released.
func (s *Simulator) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// snapshotLocked must be called with s.mu held.
func (s *Simulator) snapshotLocked() Snapshot {
	active := 0
	exited := 0
	for _, ps := range s.passengers {
		if ps.exited {
			exited++
		} else {
			active++
		}
	}
	return Snapshot{
		CurrentTime: s.currentTime,
		NumActive:   active,
		NumExited:   exited,
		NumStranded: len(s.stranded),
	}
}

// RunForTime advances the simulation by duration, broken into steps of
// at most maxStepSize, invoking advanceUntilEvent repeatedly until the
// target time is reached.
//
// Grounded on original_source/src/sim/simulator.c++'s runForTime.
func (s *Simulator) RunForTime(duration, maxStepSize schedule.Time) error {
	if duration <= 0 || maxStepSize <= 0 {
		return transiterr.New(transiterr.NegativeAdvance, "duration=%v maxStepSize=%v must both be positive", duration, maxStepSize)
	}
	s.mu.Lock()
	target := s.currentTime + duration
	s.mu.Unlock()

	for {
		s.mu.Lock()
		cur := s.currentTime
		s.mu.Unlock()
		if cur >= target {
			return nil
		}
		step := maxStepSize
		if cur+step > target {
			step = target - cur
		}
		advanced, err := s.advanceUntilEvent(step)
		if err != nil {
			return err
		}
		if !advanced {
			return nil
		}
	}
}

// advanceUntilEvent implements the Simulator's top-level per-step
// operation (spec §4.6): compute t_target as the earlier of
// currentTime+maxStep and the next due observer, run advanceToLocked(t_target)
// to perform the actual train/passenger state transition, then fire any
// observers whose period elapsed exactly at t_target.
func (s *Simulator) advanceUntilEvent(maxStep schedule.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tStep := s.currentTime + maxStep
	tTarget := tStep
	observerDue := false
	for _, oe := range s.observers {
		due := oe.last + oe.period
		if due < tTarget {
			tTarget = due
			observerDue = true
		} else if due == tTarget {
			observerDue = true
		}
	}
	if tTarget <= s.currentTime {
		return false, nil
	}

	if err := s.advanceToLocked(tTarget); err != nil {
		return false, err
	}

	if observerDue {
		for i := range s.observers {
			oe := &s.observers[i]
			if oe.last+oe.period <= s.currentTime {
				oe.last = s.currentTime
				fn := oe.fn
				s.mu.Unlock()
				fn(s)
				s.mu.Lock()
			}
		}
	}
	return true, nil
}

// advanceToLocked runs one full advance_until_event(t_target) step: it
// deboards already-arrived passengers, instantiates trains departing in
// [t,t_target), injects generator passengers arriving in [t,t_target),
// advances every active train by the elapsed window, removes trains
// that reached their terminal, and sets t = t_target. Must be called
// with s.mu held.
func (s *Simulator) advanceToLocked(tTarget schedule.Time) error {
	tickStart := s.currentTime

	s.deboardCompletedLocked(tickStart)

	for _, r := range s.sched.TrainRoutes() {
		trains, err := r.TrainsAtVertexInInterval(0, tickStart, tTarget)
		if err != nil {
			return err
		}
		for _, tr := range trains {
			key := trainKey{Route: r.ID, Index: tr.Index}
			if _, exists := s.trains[key]; !exists {
				s.trains[key] = &trainState{train: tr, boarded: make(map[schedule.PassengerID]bool)}
			}
		}
	}

	if s.generator != nil {
		for {
			t, ok := s.generator.PeekNextEventTime()
			if !ok || t >= tTarget {
				break
			}
			for _, p := range s.generator.EmitAt(t) {
				if err := s.addPassengerLocked(p); err != nil {
					return err
				}
			}
		}
	}

	var toRemove []trainKey
	for key, ts := range s.trains {
		if err := s.advanceTrainLocked(key, ts, tickStart, tTarget); err != nil {
			return err
		}
		if ts.removed {
			toRemove = append(toRemove, key)
		}
	}
	for _, key := range toRemove {
		delete(s.trains, key)
	}

	s.currentTime = tTarget
	return nil
}

// deboardCompletedLocked drops any waiting passenger already sitting at
// its destination station (step a of advance_until_event): this only
// arises for a trivial entry==exit journey, since every other passenger
// reaches its destination via an explicit alight move instead.
func (s *Simulator) deboardCompletedLocked(now schedule.Time) {
	for id := range s.passengers {
		s.finalizeIfArrivedLocked(id, now)
	}
}

// finalizeIfArrivedLocked marks id exited if its current journey step is
// both the journey's last step and a Station matching its declared exit.
func (s *Simulator) finalizeIfArrivedLocked(id schedule.PassengerID, now schedule.Time) {
	ps := s.passengers[id]
	if ps == nil || ps.exited {
		return
	}
	cur := ps.journey[ps.journeyIdx]
	if ps.journeyIdx != len(ps.journey)-1 || cur.Kind != routing.AtStation || cur.Station != ps.passenger.Exit {
		return
	}
	ps.exited = true
	delete(s.waiting[cur.Station], id)
	s.exits = append(s.exits, PassengerExit{Passenger: id, TimeOfExit: now})
}

// advanceTrainLocked advances one TrainLocation across at most
// tTarget-max(tickStart, departure) units of simulated time (step d):
// a train that departs partway through this window only gets the
// remainder of the window to move in. At every vertex reached
// (fraction==0) it performs station handling before continuing; on
// reaching its terminal with passengers still boarded it fails
// PassengersStranded, an internal invariant violation.
func (s *Simulator) advanceTrainLocked(key trainKey, ts *trainState, tickStart, tTarget schedule.Time) error {
	route := ts.train.Route
	localStart := ts.train.DepartureTime()
	if tickStart > localStart {
		localStart = tickStart
	}
	budget := float64(tTarget - localStart)
	if budget < 0 {
		budget = 0
	}
	elapsed := 0.0

	for {
		if ts.fraction == 0 {
			now := localStart + schedule.Time(elapsed)
			if err := s.handleStationLocked(route, key, ts, now); err != nil {
				return err
			}
		}
		if ts.edgeNumber >= len(route.Path())-1 {
			if len(ts.boarded) > 0 {
				return transiterr.New(transiterr.PassengersStranded, "train route=%d index=%d reached terminal %d with %d passenger(s) still boarded",
					key.Route, key.Index, route.Path()[ts.edgeNumber], len(ts.boarded))
			}
			ts.removed = true
			return nil
		}

		edgeTravel := route.ExpectedTravelTime(ts.edgeNumber, ts.edgeNumber+1)
		edgeTime := (1 - ts.fraction) * float64(edgeTravel)
		remaining := budget - elapsed
		if edgeTime > remaining {
			if edgeTravel > 0 {
				ts.fraction += remaining / float64(edgeTravel)
			}
			if ts.fraction < 0 {
				ts.fraction = 0
			}
			if ts.fraction > 1 {
				ts.fraction = 1
			}
			return nil
		}

		elapsed += edgeTime
		ts.edgeNumber++
		ts.fraction = 0
	}
}

// handleStationLocked performs the pickup/dropoff pass for train key at
// the station it currently sits at (route.Path()[ts.edgeNumber]): every
// currently-waiting passenger whose journey's next step is boarding this
// train, and every currently-boarded passenger whose next step is
// alighting here. Both collections are snapshotted before any passenger
// is moved, per spec.
func (s *Simulator) handleStationLocked(route *schedule.TrainRoute, key trainKey, ts *trainState, now schedule.Time) error {
	station := route.Path()[ts.edgeNumber]
	stationLoc := routing.JourneyStep{Kind: routing.AtStation, Station: station}
	trainLoc := routing.JourneyStep{Kind: routing.OnTrain, Route: key.Route, TrainIndex: key.Index}

	pickups := make([]schedule.PassengerID, 0, len(s.waiting[station]))
	for id := range s.waiting[station] {
		pickups = append(pickups, id)
	}
	dropoffs := make([]schedule.PassengerID, 0, len(ts.boarded))
	for id := range ts.boarded {
		dropoffs = append(dropoffs, id)
	}

	for _, id := range pickups {
		moved, err := s.tryMoveLocked(id, stationLoc, trainLoc, now)
		if err != nil {
			return err
		}
		if moved {
			delete(s.waiting[station], id)
			ts.boarded[id] = true
		}
	}
	for _, id := range dropoffs {
		moved, err := s.tryMoveLocked(id, trainLoc, stationLoc, now)
		if err != nil {
			return err
		}
		if moved {
			delete(ts.boarded, id)
			if !s.passengers[id].exited {
				if s.waiting[station] == nil {
					s.waiting[station] = make(map[schedule.PassengerID]bool)
				}
				s.waiting[station][id] = true
			}
		}
	}
	return nil
}

// tryMoveLocked is the passenger pickup/dropoff predicate (spec §4.6):
// the move from->to is accepted iff id's current journey step equals
// from and the very next journey step equals to; otherwise the move is
// silently declined (the passenger isn't meant to move here yet). If the
// next step does match to but the passenger's current step does not
// match from, the simulator's own bookkeeping has desynced from the
// passenger's ledger, which is a fatal PassengerDesync.
func (s *Simulator) tryMoveLocked(id schedule.PassengerID, from, to routing.JourneyStep, now schedule.Time) (bool, error) {
	ps := s.passengers[id]
	if ps == nil || ps.exited || ps.journeyIdx+1 >= len(ps.journey) {
		return false, nil
	}
	next := ps.journey[ps.journeyIdx+1]
	if !locationsEqual(next, to) {
		return false, nil
	}
	cur := ps.journey[ps.journeyIdx]
	if !locationsEqual(cur, from) {
		return false, transiterr.New(transiterr.PassengerDesync, "passenger %d: requested move from %v but is currently at %v", id, from, cur)
	}

	ps.journeyIdx++
	ps.trace = append(ps.trace, routing.JourneyStep{Kind: to.Kind, Station: to.Station, Route: to.Route, TrainIndex: to.TrainIndex, Time: now})
	if to.Kind == routing.AtStation && to.Station == ps.passenger.Exit && ps.journeyIdx == len(ps.journey)-1 {
		ps.exited = true
		s.exits = append(s.exits, PassengerExit{Passenger: id, TimeOfExit: now})
	}
	return true, nil
}

// locationsEqual compares the Location portion of two JourneySteps
// (Kind plus the payload for that kind), ignoring Time.
func locationsEqual(a, b routing.JourneyStep) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == routing.AtStation {
		return a.Station == b.Station
	}
	return a.Route == b.Route && a.TrainIndex == b.TrainIndex
}

// Start runs the simulator's clock forward in a background goroutine in
// steps of at most maxStepSize (shorter when an observer falls due)
// until Pause is called, mirroring the
// teacher's own Simulation.Start/run ticker loop.
func (s *Simulator) Start(maxStepSize schedule.Time) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.stopChan = make(chan struct{})
	stop := s.stopChan
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if _, err := s.advanceUntilEvent(maxStepSize); err != nil {
					logger.Error("simulation step failed", "err", err)
					return
				}
			}
		}
	}()
}

// Pause stops the background clock goroutine started by Start and waits
// for it to exit.
func (s *Simulator) Pause() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	close(s.stopChan)
	s.mu.Unlock()
	s.wg.Wait()
}

// IsStarted reports whether the background clock goroutine is running.
func (s *Simulator) IsStarted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

package schedule

import (
	"fmt"

	"github.com/ts2/transitcore/network"
)

// PassengerID identifies a passenger across routing and simulation.
type PassengerID int

// Passenger is a single concrete request to travel from Entry to Exit,
// appearing in the network no earlier than StartTime.
//
// Grounded on original_source/src/util/passenger.c++'s split between a
// concrete Passenger (has a start time) and a StatisticalPassenger spec
// a PassengerGenerator clones new Passengers from.
type Passenger struct {
	ID        PassengerID
	Name      string
	Entry     network.StationID
	Exit      network.StationID
	StartTime Time
}

func (p Passenger) String() string {
	return fmt.Sprintf("%s (enters %d, exits %d, start %v)", p.Name, p.Entry, p.Exit, p.StartTime)
}

// StatisticalPassenger is the periodic-arrival spec a PassengerGenerator
// clones new Passengers from: every period units, another passenger
// matching this entry/exit pair enters the system.
type StatisticalPassenger struct {
	Entry  network.StationID
	Exit   network.StationID
	Period Time
}

func (s StatisticalPassenger) String() string {
	return fmt.Sprintf("entry=%d, exit=%d, period=%v", s.Entry, s.Exit, s.Period)
}

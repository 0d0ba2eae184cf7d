package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ts2/transitcore/network"
	"github.com/ts2/transitcore/routing"
	"github.com/ts2/transitcore/schedule"
	"github.com/ts2/transitcore/simulation"
)

func sampleRoutes() []PassengerRoute {
	return []PassengerRoute{
		{
			Passenger: schedule.Passenger{ID: 1, Name: "alice", StartTime: 0},
			Journey: routing.Journey{
				{Kind: routing.AtStation, Station: network.StationID(1), Time: 0},
				{Kind: routing.OnTrain, Route: 0, TrainIndex: 0, Time: 10},
				{Kind: routing.AtStation, Station: network.StationID(2), Time: 20},
			},
		},
	}
}

func TestWritePassengerRouteStats_RendersHeaderRowAndTotals(t *testing.T) {
	var sb strings.Builder
	WritePassengerRouteStats(&sb, sampleRoutes())
	out := sb.String()

	assert.Contains(t, out, "Passenger Route Statistics Report")
	assert.Contains(t, out, "alice, 0, 10, 20")
	assert.Contains(t, out, "total waiting time   = 10")
	assert.Contains(t, out, "total time on trains = 10")
}

func TestWriteSimulationPassengerStats_MarksUnexitedPassengersWithDashes(t *testing.T) {
	var sb strings.Builder
	WriteSimulationPassengerStats(&sb, sampleRoutes(), nil)
	out := sb.String()

	assert.Contains(t, out, "Simulation Passenger Statistics Report")
	assert.Contains(t, out, "alice, 0, 10, --")
}

func TestWriteSimulationPassengerStats_UsesActualExitTimeWhenPresent(t *testing.T) {
	var sb strings.Builder
	exits := []simulation.PassengerExit{{Passenger: 1, TimeOfExit: 25}}
	WriteSimulationPassengerStats(&sb, sampleRoutes(), exits)
	out := sb.String()

	assert.Contains(t, out, "alice, 0, 10, 25")
	assert.Contains(t, out, "total time on trains = 15")
}

func TestWriteTrains_RendersEveryRoute(t *testing.T) {
	n := network.New()
	a := n.AddVertex("A", 0, 0)
	b := n.AddVertex("B", 0, 0)
	_, err := n.AddEdge(a, b, 10)
	require.NoError(t, err)
	sched := schedule.NewSchedule(n)
	_, err = sched.AddRoute([]network.StationID{a, b}, 10, []schedule.Time{0}, 60)
	require.NoError(t, err)

	var sb strings.Builder
	WriteTrains(&sb, sched)
	out := sb.String()
	assert.Contains(t, out, "Report of Trains & Their Routes")
	assert.Contains(t, out, "{ Train 0 :")
}

func TestWriteCSVPassengerStats_MarshalsRows(t *testing.T) {
	var sb strings.Builder
	err := WriteCSVPassengerStats(&sb, sampleRoutes(), nil)
	require.NoError(t, err)
	out := sb.String()
	assert.Contains(t, out, "passenger")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "--")
}

package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ts2/transitcore/network"
	"github.com/ts2/transitcore/schedule"
	"github.com/ts2/transitcore/transiterr"
)

func TestFindRoute_BoardsAndRidesToDestination(t *testing.T) {
	sched, a, _, c := buildLinearSchedule(t, []schedule.Time{0}, 100)
	g := NewScheduleGraph(sched, 20)
	router := NewPassengerRouter(g, sched.Network(), 100)

	journey, err := router.FindRoute(a, 0, c)
	require.NoError(t, err)
	require.NotEmpty(t, journey)

	last := journey[len(journey)-1]
	assert.Equal(t, AtStation, last.Kind)
	assert.Equal(t, c, last.Station)
}

func TestFindRoute_SameStationReturnsImmediateJourney(t *testing.T) {
	sched, a, _, _ := buildLinearSchedule(t, []schedule.Time{0}, 100)
	g := NewScheduleGraph(sched, 20)
	router := NewPassengerRouter(g, sched.Network(), 100)

	journey, err := router.FindRoute(a, 0, a)
	require.NoError(t, err)
	require.Len(t, journey, 1)
	assert.Equal(t, a, journey[0].Station)
}

func TestFindRoute_UnreachableStationIsNoRoute(t *testing.T) {
	n := network.New()
	a := n.AddVertex("A", 0, 0)
	b := n.AddVertex("B", 0, 0)
	sched := schedule.NewSchedule(n)
	g := NewScheduleGraph(sched, 20)
	router := NewPassengerRouter(g, n, 50)

	_, err := router.FindRoute(a, 0, b)
	require.Error(t, err)
	assert.True(t, transiterr.Is(err, transiterr.NoRoute))
}

func TestFindRoute_CoalescesConsecutiveRideIntoOneStep(t *testing.T) {
	sched, a, _, c := buildLinearSchedule(t, []schedule.Time{0}, 100)
	g := NewScheduleGraph(sched, 20)
	router := NewPassengerRouter(g, sched.Network(), 100)

	journey, err := router.FindRoute(a, 0, c)
	require.NoError(t, err)

	onTrainSteps := 0
	for _, s := range journey {
		if s.Kind == OnTrain {
			onTrainSteps++
		}
	}
	assert.LessOrEqual(t, onTrainSteps, 1, "multi-hop ride should coalesce to a single OnTrain step")
}

package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ts2/transitcore/config"
	"github.com/ts2/transitcore/network"
	"github.com/ts2/transitcore/schedule"
	"github.com/ts2/transitcore/transiterr"
)

func TestScheduler2_Synthesize_RejectsNonZeroStartTime(t *testing.T) {
	n, s := buildChainNetwork(t)
	cfg := config.Default()
	demand := []schedule.Passenger{{ID: 0, Entry: s[0], Exit: s[1], StartTime: 5}}

	_, err := Scheduler2{}.Synthesize(n, demand, cfg)
	require.Error(t, err)
	assert.True(t, transiterr.Is(err, transiterr.UnsupportedPassenger))
}

func TestScheduler2_Synthesize_BuildsOneCorridorRoute(t *testing.T) {
	n, s := buildChainNetwork(t)
	cfg := config.Default()
	cfg.RepeatTime = 60
	cfg.MaxTrainsAtATime = 3

	demand := []schedule.Passenger{
		{ID: 0, Entry: s[0], Exit: s[3]},
		{ID: 1, Entry: s[0], Exit: s[3]},
	}

	sched, err := Scheduler2{}.Synthesize(n, demand, cfg)
	require.NoError(t, err)
	require.Len(t, sched.TrainRoutes(), 1)
	assert.Equal(t, s, sched.TrainRoutes()[0].Path())
}

func TestScheduler2_Synthesize_CoversEveryVertexWithMultipleRoutes(t *testing.T) {
	n := network.New()
	hub := n.AddVertex("H", 0, 0)
	arm1 := n.AddVertex("X1", 1, 0)
	arm2 := n.AddVertex("X2", 0, 1)
	arm3 := n.AddVertex("X3", -1, 0)
	for _, arm := range []network.StationID{arm1, arm2, arm3} {
		_, err := n.AddEdge(hub, arm, 10)
		require.NoError(t, err)
	}

	cfg := config.Default()
	cfg.RepeatTime = 60
	cfg.MaxTrainsAtATime = 3

	demand := []schedule.Passenger{
		{ID: 0, Entry: hub, Exit: arm1},
		{ID: 1, Entry: hub, Exit: arm2},
		{ID: 2, Entry: hub, Exit: arm3},
	}

	sched, err := Scheduler2{}.Synthesize(n, demand, cfg)
	require.NoError(t, err)
	assert.Len(t, sched.TrainRoutes(), 3, "a single corridor can't reach all three spokes, so synthesis must keep looping until every vertex is covered")

	covered := make(map[network.StationID]bool)
	for _, r := range sched.TrainRoutes() {
		for _, v := range r.Path() {
			covered[v] = true
		}
	}
	assert.True(t, covered[hub])
	assert.True(t, covered[arm1])
	assert.True(t, covered[arm2])
	assert.True(t, covered[arm3])
}

func TestScheduler2_Synthesize_EmptyDemandProducesEmptySchedule(t *testing.T) {
	n, _ := buildChainNetwork(t)
	cfg := config.Default()
	sched, err := Scheduler2{}.Synthesize(n, nil, cfg)
	require.NoError(t, err)
	assert.Empty(t, sched.TrainRoutes())
}

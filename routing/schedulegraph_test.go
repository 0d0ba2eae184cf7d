package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ts2/transitcore/network"
	"github.com/ts2/transitcore/schedule"
)

func buildLinearSchedule(t *testing.T, startOffsets []schedule.Time, repeatTime schedule.Time) (*schedule.Schedule, network.StationID, network.StationID, network.StationID) {
	t.Helper()
	n := network.New()
	a := n.AddVertex("A", 0, 0)
	b := n.AddVertex("B", 0, 0)
	c := n.AddVertex("C", 0, 0)
	_, err := n.AddEdge(a, b, 100)
	require.NoError(t, err)
	_, err = n.AddEdge(b, c, 100)
	require.NoError(t, err)

	sched := schedule.NewSchedule(n)
	_, err = sched.AddRoute([]network.StationID{a, b, c}, 10, startOffsets, repeatTime)
	require.NoError(t, err)
	return sched, a, b, c
}

func TestStationOutEdges_IncludesWaitAndBoardEdges(t *testing.T) {
	sched, a, _, _ := buildLinearSchedule(t, []schedule.Time{0}, 100)
	g := NewScheduleGraph(sched, 20)

	edges, err := g.OutEdges(Vertex{Kind: AtStation, Station: a, Time: 0})
	require.NoError(t, err)
	require.Len(t, edges, 2)

	var haveWait, haveBoard bool
	for _, e := range edges {
		if e.To.Kind == AtStation {
			haveWait = true
			assert.Equal(t, schedule.Time(20), e.To.Time)
		} else {
			haveBoard = true
			assert.Equal(t, 0, e.To.Pos)
		}
	}
	assert.True(t, haveWait)
	assert.True(t, haveBoard)
}

func TestStationOutEdges_NoBoardableTrainOutsideWindow(t *testing.T) {
	sched, a, _, _ := buildLinearSchedule(t, []schedule.Time{50}, 100)
	g := NewScheduleGraph(sched, 20)

	edges, err := g.OutEdges(Vertex{Kind: AtStation, Station: a, Time: 0})
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, AtStation, edges[0].To.Kind)
}

func TestTrainOutEdges_AlightAndStayOn(t *testing.T) {
	sched, a, b, _ := buildLinearSchedule(t, []schedule.Time{0}, 100)
	g := NewScheduleGraph(sched, 20)

	v := Vertex{Kind: OnTrain, Route: 0, TrainIndex: 0, Pos: 0, Time: 0}
	edges, err := g.OutEdges(v)
	require.NoError(t, err)
	require.Len(t, edges, 2)

	var alight, stayOn *Edge
	for i := range edges {
		if edges[i].To.Kind == AtStation {
			alight = &edges[i]
		} else {
			stayOn = &edges[i]
		}
	}
	require.NotNil(t, alight)
	require.NotNil(t, stayOn)
	assert.Equal(t, a, alight.To.Station)
	assert.Equal(t, 1, stayOn.To.Pos)
	assert.Equal(t, b, sched.TrainRoutes()[0].Path()[stayOn.To.Pos])
}

func TestTrainOutEdges_LastStopHasNoStayOnEdge(t *testing.T) {
	sched, _, _, _ := buildLinearSchedule(t, []schedule.Time{0}, 100)
	g := NewScheduleGraph(sched, 20)

	v := Vertex{Kind: OnTrain, Route: 0, TrainIndex: 0, Pos: 2, Time: 20}
	edges, err := g.OutEdges(v)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, AtStation, edges[0].To.Kind)
}

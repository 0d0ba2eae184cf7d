package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ts2/transitcore/transiterr"
)

func TestSchedule_AddRouteAssignsSequentialIDs(t *testing.T) {
	n, path := buildLinearNetwork(t)
	s := NewSchedule(n)

	r0, err := s.AddRoute(path, 10, []Time{0}, 60)
	require.NoError(t, err)
	r1, err := s.AddRoute(path, 10, []Time{0}, 60)
	require.NoError(t, err)

	assert.Equal(t, RouteID(0), r0.ID)
	assert.Equal(t, RouteID(1), r1.ID)
	assert.Len(t, s.TrainRoutes(), 2)
}

func TestSchedule_Route_UnknownIDIsInvalidRouteQuery(t *testing.T) {
	n := NewSchedule(nil)
	_, err := n.Route(42)
	require.Error(t, err)
	assert.True(t, transiterr.Is(err, transiterr.InvalidRouteQuery))
}

func TestTrainRoute_String_MatchesOriginalFormat(t *testing.T) {
	n, path := buildLinearNetwork(t)
	s := NewSchedule(n)
	r, err := s.AddRoute(path, 10, []Time{0, 30}, 60)
	require.NoError(t, err)

	got := r.String()
	assert.Contains(t, got, "{ Train 0 : Path=[")
	assert.Contains(t, got, "Start Offsets={0, 30}")
	assert.Contains(t, got, "Speed=10")
	assert.Contains(t, got, "Repeat Time=60 }")
}

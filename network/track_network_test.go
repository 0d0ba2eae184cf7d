package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ts2/transitcore/transiterr"
)

func TestAddVertex_RejectsDuplicateName(t *testing.T) {
	n := New()
	a := n.AddVertex("Alpha", 0, 0)
	b := n.AddVertex("Alpha", 1, 1)
	assert.NotEqual(t, NoStation, a)
	assert.Equal(t, NoStation, b)
	assert.Len(t, n.Vertices(), 1)
}

func TestAddVertex_StoresPosition(t *testing.T) {
	n := New()
	a := n.AddVertex("A", 3.5, -2.25)
	pos, ok := n.VertexPosition(a)
	require.True(t, ok)
	assert.Equal(t, Position{X: 3.5, Y: -2.25}, pos)
}

func TestVertexPosition_UnknownReturnsFalse(t *testing.T) {
	n := New()
	_, ok := n.VertexPosition(StationID(99))
	assert.False(t, ok)
}

func TestVertexByName_UnknownReturnsSentinel(t *testing.T) {
	n := New()
	assert.Equal(t, NoStation, n.VertexByName("nowhere"))
}

func TestAddEdge_UnknownEndpointIsInvalidInput(t *testing.T) {
	n := New()
	a := n.AddVertex("A", 0, 0)
	_, err := n.AddEdge(a, StationID(99), 1)
	require.Error(t, err)
	assert.True(t, transiterr.Is(err, transiterr.InvalidInput))
}

func TestAddEdge_RepeatedPairUpdatesWeightNotParallelEdge(t *testing.T) {
	n := New()
	a := n.AddVertex("A", 0, 0)
	b := n.AddVertex("B", 1, 0)
	id1, err := n.AddEdge(a, b, 5)
	require.NoError(t, err)
	id2, err := n.AddEdge(a, b, 9)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
	w, ok := n.EdgeWeight(id1)
	require.True(t, ok)
	assert.Equal(t, 9.0, w)
	assert.Len(t, n.OutEdges(a), 1)
}

func TestShortestPath_FindsMinimumWeightRoute(t *testing.T) {
	n := New()
	a := n.AddVertex("A", 0, 0)
	b := n.AddVertex("B", 1, 0)
	c := n.AddVertex("C", 2, 0)
	_, _ = n.AddEdge(a, b, 10)
	_, _ = n.AddEdge(b, c, 10)
	_, _ = n.AddEdge(a, c, 25)

	path, weight, err := n.ShortestPath(a, c)
	require.NoError(t, err)
	assert.Equal(t, []StationID{a, b, c}, path)
	assert.Equal(t, 20.0, weight)
}

func TestShortestPath_UnreachableIsNoRoute(t *testing.T) {
	n := New()
	a := n.AddVertex("A", 0, 0)
	b := n.AddVertex("B", 1, 0)

	_, _, err := n.ShortestPath(a, b)
	require.Error(t, err)
	assert.True(t, transiterr.Is(err, transiterr.NoRoute))
}

func TestEdgeEndpoints_RoundTrips(t *testing.T) {
	n := New()
	a := n.AddVertex("A", 0, 0)
	b := n.AddVertex("B", 1, 0)
	id, err := n.AddEdge(a, b, 3)
	require.NoError(t, err)
	from, to := n.EdgeEndpoints(id)
	assert.Equal(t, a, from)
	assert.Equal(t, b, to)
}

// Package network implements TrackNetwork: the static weighted directed
// graph of stations and track segments that every other transitcore
// package routes, schedules, and simulates over.
//
// Grounded on original_source/src/util/track_network.c++: creating a
// vertex whose name already exists fails (returns NoStation) rather
// than returning the prior id, edge creation is idempotent-by-pair
// (updates weight in place), and lookups by unknown name or id return a
// zero value rather than panicking, matching the original's sentinel-
// return convention.
package network

import (
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/ts2/transitcore/transiterr"
)

// StationID identifies a vertex (a station/platform) in the network.
type StationID int64

// EdgeID identifies a directed track segment between two stations.
type EdgeID int

// NoStation is the sentinel StationID returned on a failed lookup, and
// on an attempt to create a vertex whose name already exists.
const NoStation StationID = -1

// NoEdge is the sentinel EdgeID returned on a failed lookup.
const NoEdge EdgeID = -1

type edgeRecord struct {
	from, to StationID
	weight   float64
}

// Position is a vertex's 2-D coordinate, carried alongside its name for
// callers that render or reason about the network's layout.
type Position struct {
	X, Y float64
}

// TrackNetwork is the static graph of stations and weighted track
// segments. It is built once at startup and treated as read-only by
// every other package; callers needing a shortest path go through
// ShortestPath, which is backed by gonum's Dijkstra implementation.
type TrackNetwork struct {
	g *simple.WeightedDirectedGraph

	nameToID  map[string]StationID
	idToName  map[StationID]string
	positions map[StationID]Position
	nextID    StationID

	edges      map[EdgeID]edgeRecord
	edgeByPair map[[2]StationID]EdgeID
	nextEdge   EdgeID
}

// New returns an empty TrackNetwork.
func New() *TrackNetwork {
	return &TrackNetwork{
		g:          simple.NewWeightedDirectedGraph(0, 0),
		nameToID:   make(map[string]StationID),
		idToName:   make(map[StationID]string),
		positions:  make(map[StationID]Position),
		edges:      make(map[EdgeID]edgeRecord),
		edgeByPair: make(map[[2]StationID]EdgeID),
	}
}

// AddVertex creates a new named station at (x, y) and returns its id.
// Calling it again with a name that already exists returns NoStation
// rather than the existing id, matching the original's create-fails-on-
// duplicate-name convention.
func (n *TrackNetwork) AddVertex(name string, x, y float64) StationID {
	if _, ok := n.nameToID[name]; ok {
		return NoStation
	}
	id := n.nextID
	n.nextID++
	n.nameToID[name] = id
	n.idToName[id] = name
	n.positions[id] = Position{X: x, Y: y}
	n.g.AddNode(simple.Node(id))
	return id
}

// VertexPosition returns the 2-D coordinate of id, or (Position{}, false)
// if unknown.
func (n *TrackNetwork) VertexPosition(id StationID) (Position, bool) {
	pos, ok := n.positions[id]
	return pos, ok
}

// VertexByName looks up a station by name, returning NoStation if unknown.
func (n *TrackNetwork) VertexByName(name string) StationID {
	if id, ok := n.nameToID[name]; ok {
		return id
	}
	return NoStation
}

// VertexName returns the name of id, or "" if unknown.
func (n *TrackNetwork) VertexName(id StationID) string {
	return n.idToName[id]
}

// Vertices returns every station id in the network, in creation order.
func (n *TrackNetwork) Vertices() []StationID {
	ids := make([]StationID, 0, len(n.idToName))
	for i := StationID(0); i < n.nextID; i++ {
		if _, ok := n.idToName[i]; ok {
			ids = append(ids, i)
		}
	}
	return ids
}

// AddEdge adds a directed, weighted track segment from -> to. Adding the
// same (from, to) pair again updates the weight of the existing edge and
// returns its existing id, rather than creating a parallel edge.
func (n *TrackNetwork) AddEdge(from, to StationID, weight float64) (EdgeID, error) {
	if _, ok := n.idToName[from]; !ok {
		return NoEdge, transiterr.New(transiterr.InvalidInput, "unknown source vertex %d", from)
	}
	if _, ok := n.idToName[to]; !ok {
		return NoEdge, transiterr.New(transiterr.InvalidInput, "unknown destination vertex %d", to)
	}
	key := [2]StationID{from, to}
	if id, ok := n.edgeByPair[key]; ok {
		n.edges[id] = edgeRecord{from: from, to: to, weight: weight}
		n.g.SetWeightedEdge(n.g.NewWeightedEdge(simple.Node(from), simple.Node(to), weight))
		return id, nil
	}
	id := n.nextEdge
	n.nextEdge++
	n.edges[id] = edgeRecord{from: from, to: to, weight: weight}
	n.edgeByPair[key] = id
	n.g.SetWeightedEdge(n.g.NewWeightedEdge(simple.Node(from), simple.Node(to), weight))
	return id, nil
}

// EdgeWeight returns the weight of id, or (0, false) if unknown.
func (n *TrackNetwork) EdgeWeight(id EdgeID) (float64, bool) {
	rec, ok := n.edges[id]
	if !ok {
		return 0, false
	}
	return rec.weight, true
}

// EdgeBetween returns the edge id for the directed pair (from, to), or
// NoEdge if no such track segment exists.
func (n *TrackNetwork) EdgeBetween(from, to StationID) EdgeID {
	if id, ok := n.edgeByPair[[2]StationID{from, to}]; ok {
		return id
	}
	return NoEdge
}

// EdgeEndpoints returns the (from, to) pair for id.
func (n *TrackNetwork) EdgeEndpoints(id EdgeID) (from, to StationID) {
	rec := n.edges[id]
	return rec.from, rec.to
}

// OutEdges returns every edge leaving v, in no particular order.
func (n *TrackNetwork) OutEdges(v StationID) []EdgeID {
	var out []EdgeID
	for id, rec := range n.edges {
		if rec.from == v {
			out = append(out, id)
		}
	}
	return out
}

// ShortestPath returns the minimum-weight path from -> to as a sequence
// of station ids (inclusive of both endpoints), using gonum's Dijkstra
// implementation over the network's edge weights. An empty slice and
// transiterr.NoRoute is returned if to is unreachable from.
func (n *TrackNetwork) ShortestPath(from, to StationID) ([]StationID, float64, error) {
	shortest := path.DijkstraFrom(simple.Node(from), n.g)
	nodes, weight := shortest.To(int64(to))
	if len(nodes) == 0 {
		return nil, 0, transiterr.New(transiterr.NoRoute, "no path from %d to %d", from, to)
	}
	ids := make([]StationID, len(nodes))
	for i, nd := range nodes {
		ids[i] = StationID(nd.ID())
	}
	return ids, weight, nil
}

package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTriangle() *DiGraph {
	g := NewDiGraph()
	g.AddNodes([]NodeID{0, 1, 2})
	g.SetEdgeAction(0, 1, FollowKey(), 1)
	g.SetEdgeAction(1, 2, FollowKey(), 1)
	g.SetEdgeAction(2, 0, FollowKey(), 1)
	return g
}

func TestAddNodeKeepsInsertionOrder(t *testing.T) {
	g := NewDiGraph()
	g.AddNodes([]NodeID{5, 3, 9})
	g.AddNode(3) // duplicate, no-op

	assert.Equal(t, []NodeID{5, 3, 9}, g.Nodes())
	assert.Equal(t, 3, g.NumNodes())

	i, ok := g.IndexOf(9)
	require.True(t, ok)
	assert.Equal(t, 2, i)
	assert.Equal(t, NodeID(3), g.NodeAt(1))
}

func TestAddEdgeCreatesEndpoints(t *testing.T) {
	g := NewDiGraph()
	g.AddEdge(1, 2)

	assert.True(t, g.HasNode(1))
	assert.True(t, g.HasNode(2))
	assert.True(t, g.HasEdge(1, 2))
	assert.False(t, g.HasEdge(2, 1))
	assert.Equal(t, 1, g.NumEdges())

	g.AddEdge(1, 2) // duplicate, no-op
	assert.Equal(t, 1, g.NumEdges())
}

func TestEdgeActionChannels(t *testing.T) {
	g := newTriangle()
	g.SetEdgeAction(0, 1, PropagateKey(0), 3)

	// Both channels coexist on the same edge
	w, ok := g.EdgeAction(0, 1, FollowKey())
	require.True(t, ok)
	assert.Equal(t, 1.0, w)

	w, ok = g.EdgeAction(0, 1, PropagateKey(0))
	require.True(t, ok)
	assert.Equal(t, 3.0, w)

	_, ok = g.EdgeAction(1, 2, PropagateKey(0))
	assert.False(t, ok)

	_, ok = g.EdgeAction(0, 2, FollowKey())
	assert.False(t, ok, "missing edge has no channels")
}

func TestPredecessors(t *testing.T) {
	g := newTriangle()
	g.SetEdgeAction(2, 0, PropagateKey(1), 2)

	assert.Equal(t, []NodeID{2}, g.Predecessors(0))
	assert.Equal(t, []NodeID{2}, g.PredecessorsWithAction(0, PropagateKey(1)))
	assert.Empty(t, g.PredecessorsWithAction(1, PropagateKey(1)))
}

func TestEdgesWithAction(t *testing.T) {
	g := newTriangle()
	g.SetEdgeAction(0, 1, PropagateKey(0), 1)
	g.SetEdgeAction(1, 2, PropagateKey(0), 2)

	edges := g.EdgesWithAction(PropagateKey(0))
	assert.Equal(t, []Edge{{From: 0, To: 1}, {From: 1, To: 2}}, edges)

	follows := g.EdgesWithAction(FollowKey())
	assert.Len(t, follows, 3)
}

func TestEdgeRecordsRoundTrip(t *testing.T) {
	g := newTriangle()
	g.SetEdgeAction(0, 1, PropagateKey(0), 4)

	records := g.EdgeRecords()
	require.Len(t, records, 3)

	rebuilt := NewDiGraph()
	rebuilt.AddNodes(g.Nodes())
	for _, rec := range records {
		for key, w := range rec.Actions {
			rebuilt.SetEdgeAction(rec.From, rec.To, key, w)
		}
	}

	assert.Equal(t, g.NumEdges(), rebuilt.NumEdges())
	w, ok := rebuilt.EdgeAction(0, 1, PropagateKey(0))
	require.True(t, ok)
	assert.Equal(t, 4.0, w)
}

func TestActionKeyString(t *testing.T) {
	assert.Equal(t, "follow", FollowKey().String())
	assert.Equal(t, "propagate_3", PropagateKey(3).String())
	assert.Equal(t, "retweet_0", ActionKey{Kind: "retweet", Info: 0}.String())
}

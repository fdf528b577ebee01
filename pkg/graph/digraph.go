// Package graph provides the directed graph that the propagation engine is
// built on. The graph owns its adjacency and keeps nodes in insertion order
// so that matrix row/column indices are deterministic across runs.
//
// Edges carry multiple named "action" channels at once; each channel maps an
// ActionKey to a numeric weight, typically the timestamp at which that
// action occurred on the edge.
package graph

// NodeID identifies a node. IDs are opaque to the graph; callers choose
// them.
type NodeID int64

// Edge is a directed (from, to) pair.
type Edge struct {
	From NodeID
	To   NodeID
}

// EdgeRecord is one edge together with all of its action channels. It is
// the unit of serialization for snapshots.
type EdgeRecord struct {
	From    NodeID
	To      NodeID
	Actions map[ActionKey]float64
}

// DiGraph is a directed graph with action-weighted edges. Node and edge
// iteration order is the order of insertion, which keeps derived matrices
// and diffusion rounds deterministic.
type DiGraph struct {
	order []NodeID
	index map[NodeID]int

	succ      map[NodeID]map[NodeID]map[ActionKey]float64
	pred      map[NodeID]map[NodeID]map[ActionKey]float64
	succOrder map[NodeID][]NodeID
	predOrder map[NodeID][]NodeID

	numEdges int
}

// NewDiGraph creates an empty graph.
func NewDiGraph() *DiGraph {
	return &DiGraph{
		index:     make(map[NodeID]int),
		succ:      make(map[NodeID]map[NodeID]map[ActionKey]float64),
		pred:      make(map[NodeID]map[NodeID]map[ActionKey]float64),
		succOrder: make(map[NodeID][]NodeID),
		predOrder: make(map[NodeID][]NodeID),
	}
}

// AddNode adds a node. Adding an existing node is a no-op.
func (g *DiGraph) AddNode(n NodeID) {
	if _, ok := g.index[n]; ok {
		return
	}
	g.index[n] = len(g.order)
	g.order = append(g.order, n)
	g.succ[n] = make(map[NodeID]map[ActionKey]float64)
	g.pred[n] = make(map[NodeID]map[ActionKey]float64)
}

// AddNodes adds every node in the slice.
func (g *DiGraph) AddNodes(nodes []NodeID) {
	for _, n := range nodes {
		g.AddNode(n)
	}
}

// AddEdge adds a directed edge, creating endpoints as needed. Adding an
// existing edge is a no-op; its action channels are kept.
func (g *DiGraph) AddEdge(from, to NodeID) {
	g.AddNode(from)
	g.AddNode(to)
	if _, ok := g.succ[from][to]; ok {
		return
	}
	attrs := make(map[ActionKey]float64)
	g.succ[from][to] = attrs
	g.pred[to][from] = attrs
	g.succOrder[from] = append(g.succOrder[from], to)
	g.predOrder[to] = append(g.predOrder[to], from)
	g.numEdges++
}

// SetEdgeAction sets the weight of one action channel on edge (from, to),
// creating the edge first if it does not exist.
func (g *DiGraph) SetEdgeAction(from, to NodeID, key ActionKey, weight float64) {
	g.AddEdge(from, to)
	g.succ[from][to][key] = weight
}

// EdgeAction returns the weight of an action channel on edge (from, to) and
// whether the channel is set.
func (g *DiGraph) EdgeAction(from, to NodeID, key ActionKey) (float64, bool) {
	targets, ok := g.succ[from]
	if !ok {
		return 0, false
	}
	attrs, ok := targets[to]
	if !ok {
		return 0, false
	}
	w, ok := attrs[key]
	return w, ok
}

// HasEdge reports whether edge (from, to) exists.
func (g *DiGraph) HasEdge(from, to NodeID) bool {
	targets, ok := g.succ[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// HasNode reports whether the node exists.
func (g *DiGraph) HasNode(n NodeID) bool {
	_, ok := g.index[n]
	return ok
}

// Nodes returns all nodes in insertion order. The slice is a copy.
func (g *DiGraph) Nodes() []NodeID {
	nodes := make([]NodeID, len(g.order))
	copy(nodes, g.order)
	return nodes
}

// Successors returns the out-neighbors of n in edge insertion order.
func (g *DiGraph) Successors(n NodeID) []NodeID {
	out := make([]NodeID, len(g.succOrder[n]))
	copy(out, g.succOrder[n])
	return out
}

// Predecessors returns the in-neighbors of n in edge insertion order.
func (g *DiGraph) Predecessors(n NodeID) []NodeID {
	in := make([]NodeID, len(g.predOrder[n]))
	copy(in, g.predOrder[n])
	return in
}

// PredecessorsWithAction returns the in-neighbors of n whose edge into n
// carries the given action channel.
func (g *DiGraph) PredecessorsWithAction(n NodeID, key ActionKey) []NodeID {
	var in []NodeID
	for _, p := range g.predOrder[n] {
		if _, ok := g.pred[n][p][key]; ok {
			in = append(in, p)
		}
	}
	return in
}

// EdgesWithAction returns every edge carrying the given action channel, in
// node then edge insertion order.
func (g *DiGraph) EdgesWithAction(key ActionKey) []Edge {
	var edges []Edge
	for _, from := range g.order {
		for _, to := range g.succOrder[from] {
			if _, ok := g.succ[from][to][key]; ok {
				edges = append(edges, Edge{From: from, To: to})
			}
		}
	}
	return edges
}

// EdgeRecords returns every edge with a copy of its action channels, in
// deterministic order. Used for snapshots.
func (g *DiGraph) EdgeRecords() []EdgeRecord {
	records := make([]EdgeRecord, 0, g.numEdges)
	for _, from := range g.order {
		for _, to := range g.succOrder[from] {
			attrs := make(map[ActionKey]float64, len(g.succ[from][to]))
			for k, v := range g.succ[from][to] {
				attrs[k] = v
			}
			records = append(records, EdgeRecord{From: from, To: to, Actions: attrs})
		}
	}
	return records
}

// NumNodes returns the node count.
func (g *DiGraph) NumNodes() int {
	return len(g.order)
}

// NumEdges returns the edge count.
func (g *DiGraph) NumEdges() int {
	return g.numEdges
}

// IndexOf returns the matrix index of a node.
func (g *DiGraph) IndexOf(n NodeID) (int, bool) {
	i, ok := g.index[n]
	return i, ok
}

// NodeAt returns the node at a matrix index.
func (g *DiGraph) NodeAt(i int) NodeID {
	return g.order[i]
}

// Package propagation implements the information-diffusion engine: a
// directed graph overlay that models how discrete information items spread
// from root nodes to followers over time, records the per-item edge events,
// and exposes them as time-bounded action matrices.
package propagation

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/todoaskit/propy/pkg/graph"
	"github.com/todoaskit/propy/pkg/logging"
	"github.com/todoaskit/propy/pkg/metrics"
)

// RootParent is the parent marker of the synthetic root event that opens
// every diffusion timeline.
const RootParent graph.NodeID = -1

// Event is one diffusion event: Node became infected via Parent at Time.
// The first event of every timeline is the synthetic root event with
// Parent == RootParent.
type Event struct {
	Time   float64
	Parent graph.NodeID
	Node   graph.NodeID
}

// IsRoot reports whether this is the synthetic root event.
func (ev Event) IsRoot() bool {
	return ev.Parent == RootParent
}

// Config carries the construction parameters of an Engine.
type Config struct {
	// NumInfo is the number of information items to propagate/track.
	NumInfo int

	// Propagation, when non-nil, supplies the diffusion timelines
	// directly, keyed by item id. When nil, timelines are simulated with
	// probability Prob.
	Propagation map[int][]Event

	// Prob is the per-edge infection probability used when Propagation
	// is nil.
	Prob float64

	// UserActions lists custom item-scoped action kinds to register in
	// the catalog alongside follow and propagate.
	UserActions []graph.ActionKind

	// Seed drives root selection and the diffusion rounds.
	Seed int64

	Logger  logging.Logger
	Metrics *metrics.Registry
}

type listenerEntry struct {
	fn     ListenerFunc
	kwargs map[string]any
}

// Engine is the propagation engine. It owns a directed graph whose edges
// carry the follow channel plus one propagate channel per item, the
// per-item diffusion timelines, per-item attributes, and the event
// listener registry.
//
// The node and edge sets are fixed after construction.
type Engine struct {
	g       *graph.DiGraph
	numInfo int
	seed    int64
	catalog *ActionCatalog

	infoIDs     []int
	propagation map[int][]Event
	attrs       map[int]map[string]any
	listeners   map[string][]listenerEntry

	logger  logging.Logger
	metrics *metrics.Registry
}

// NewEngine builds an engine over the given nodes and edges. Every edge is
// annotated with follow=1. Diffusion timelines are taken from
// cfg.Propagation when supplied, otherwise simulated with cfg.Prob; either
// way every non-root event is written back into the graph as a
// propagate_<item> edge weight equal to the event time.
func NewEngine(nodes []graph.NodeID, edges []graph.Edge, cfg Config) (*Engine, error) {
	if cfg.NumInfo <= 0 {
		return nil, fmt.Errorf("propagation: num info must be positive, got %d", cfg.NumInfo)
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}

	g := graph.NewDiGraph()
	g.AddNodes(nodes)
	for _, e := range edges {
		g.SetEdgeAction(e.From, e.To, graph.FollowKey(), 1)
	}

	e := &Engine{
		g:         g,
		numInfo:   cfg.NumInfo,
		seed:      cfg.Seed,
		catalog:   newActionCatalog(cfg.NumInfo, cfg.UserActions),
		attrs:     make(map[int]map[string]any),
		listeners: make(map[string][]listenerEntry),
		logger:    cfg.Logger.With(logging.Component("propagation")),
		metrics:   cfg.Metrics,
	}

	if cfg.Propagation != nil {
		if err := e.adoptPropagation(cfg.Propagation); err != nil {
			return nil, err
		}
	} else {
		e.generatePropagation(cfg.Prob)
	}

	for _, info := range e.infoIDs {
		e.attrs[info] = make(map[string]any)
		for _, ev := range e.propagation[info][1:] {
			g.SetEdgeAction(ev.Parent, ev.Node, graph.PropagateKey(info), ev.Time)
		}
	}

	e.logger.Debug("engine constructed",
		logging.NumNodes(g.NumNodes()),
		logging.NumEdges(g.NumEdges()),
		logging.Int("num_info", e.numInfo),
		logging.Seed(e.seed))

	return e, nil
}

// adoptPropagation validates and installs externally supplied timelines.
func (e *Engine) adoptPropagation(propagation map[int][]Event) error {
	infoIDs := make([]int, 0, len(propagation))
	for info := range propagation {
		infoIDs = append(infoIDs, info)
	}
	sort.Ints(infoIDs)

	installed := make(map[int][]Event, len(propagation))
	for _, info := range infoIDs {
		events := propagation[info]
		if len(events) == 0 {
			return fmt.Errorf("propagation: item %d has an empty timeline", info)
		}
		if !events[0].IsRoot() {
			return fmt.Errorf("propagation: item %d timeline does not begin with a root event", info)
		}
		for k := 1; k < len(events); k++ {
			if events[k].IsRoot() {
				return fmt.Errorf("propagation: item %d has a second root event at position %d", info, k)
			}
			if events[k].Time < events[k-1].Time {
				return fmt.Errorf("propagation: item %d timeline is not ordered by time at position %d", info, k)
			}
		}
		installed[info] = append([]Event(nil), events...)
	}

	e.infoIDs = infoIDs
	e.propagation = installed
	return nil
}

// generatePropagation simulates a diffusion per item: a root is drawn
// uniformly, then infection proceeds in rounds until quiescence or a
// node-count bound.
func (e *Engine) generatePropagation(prob float64) {
	rootRNG := rand.New(rand.NewSource(e.seed))
	nodes := e.g.Nodes()

	e.infoIDs = make([]int, 0, e.numInfo)
	e.propagation = make(map[int][]Event, e.numInfo)

	for info := 0; info < e.numInfo; info++ {
		root := nodes[rootRNG.Intn(len(nodes))]
		itemRNG := rand.New(rand.NewSource(e.seed))

		start := time.Now()
		events := e.diffuse(root, prob, len(nodes), itemRNG)
		e.infoIDs = append(e.infoIDs, info)
		e.propagation[info] = events

		if e.metrics != nil {
			e.metrics.RecordSimulation(len(events), time.Since(start))
			e.metrics.RecordPropagationEvent("root")
			for range events[1:] {
				e.metrics.RecordPropagationEvent("infect")
			}
		}
		e.logger.Debug("diffusion simulated",
			logging.InfoID(info),
			logging.Int64("root", int64(root)),
			logging.Count(len(events)))
	}
}

// diffuse runs one probabilistic diffusion from root. Each round, every
// infected node tries to infect each not-yet-infected out-neighbor with
// probability prob; the round index is the event time. When two parents
// reach a node in the same round the earlier-ordered parent wins.
func (e *Engine) diffuse(root graph.NodeID, prob float64, maxIter int, rng *rand.Rand) []Event {
	events := []Event{{Time: 0, Parent: RootParent, Node: root}}
	infected := map[graph.NodeID]bool{root: true}
	infectedOrder := []graph.NodeID{root}

	for t := 1; t <= maxIter; t++ {
		var round []Event
		claimed := make(map[graph.NodeID]bool)
		for _, u := range infectedOrder {
			for _, v := range e.g.Successors(u) {
				if infected[v] || claimed[v] {
					continue
				}
				if rng.Float64() < prob {
					claimed[v] = true
					round = append(round, Event{Time: float64(t), Parent: u, Node: v})
				}
			}
		}
		if len(round) == 0 {
			break
		}
		for _, ev := range round {
			infected[ev.Node] = true
			infectedOrder = append(infectedOrder, ev.Node)
			events = append(events, ev)
		}
	}
	return events
}

// Graph returns the underlying directed graph.
func (e *Engine) Graph() *graph.DiGraph {
	return e.g
}

// NumInfo returns the number of tracked information items.
func (e *Engine) NumInfo() int {
	return e.numInfo
}

// Seed returns the construction seed.
func (e *Engine) Seed() int64 {
	return e.seed
}

// Actions returns the action catalog.
func (e *Engine) Actions() *ActionCatalog {
	return e.catalog
}

// InfoIDs returns the item ids in replay order.
func (e *Engine) InfoIDs() []int {
	ids := make([]int, len(e.infoIDs))
	copy(ids, e.infoIDs)
	return ids
}

// Events returns the diffusion timeline of one item, root event first.
func (e *Engine) Events(info int) []Event {
	events := e.propagation[info]
	out := make([]Event, len(events))
	copy(out, events)
	return out
}

// Roots returns the root node of every item, in replay order.
func (e *Engine) Roots() []graph.NodeID {
	roots := make([]graph.NodeID, 0, len(e.infoIDs))
	for _, info := range e.infoIDs {
		roots = append(roots, e.propagation[info][0].Node)
	}
	return roots
}

// LastPropagationTime returns the largest event time across all items.
func (e *Engine) LastPropagationTime() float64 {
	last := 0.0
	for _, info := range e.infoIDs {
		events := e.propagation[info]
		if t := events[len(events)-1].Time; t > last {
			last = t
		}
	}
	return last
}

// InfoAttrs returns the attribute map of one item. The map is live; the
// accessors below are the supported way to mutate it.
func (e *Engine) InfoAttrs(info int) map[string]any {
	return e.attrs[info]
}

// InfoAttr returns one attribute of one item.
func (e *Engine) InfoAttr(info int, key string) (any, bool) {
	v, ok := e.attrs[info][key]
	return v, ok
}

// SetInfoAttr sets one attribute of one item.
func (e *Engine) SetInfoAttr(info int, key string, val any) {
	e.attrs[info][key] = val
}

// EdgesOfAction returns every edge carrying the given action channel.
func (e *Engine) EdgesOfAction(key graph.ActionKey) []graph.Edge {
	return e.g.EdgesWithAction(key)
}

// Title returns the descriptive identity string used in snapshot names:
// item count, node count, edge count and seed.
func (e *Engine) Title() string {
	return fmt.Sprintf("num_info_%d_nodes_%d_edges_%d_seed_%d",
		e.numInfo, e.g.NumNodes(), e.g.NumEdges(), e.seed)
}

// String implements fmt.Stringer.
func (e *Engine) String() string {
	return e.Title()
}

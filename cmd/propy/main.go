// Command propy runs one dataset generation pass: it builds a seeded
// random directed graph, diffuses information items over it, encodes the
// per-item action matrices into a dataset container, and dumps the
// container as shards.
package main

import (
	"flag"
	"math/rand"
	"os"

	"github.com/google/uuid"

	"github.com/todoaskit/propy/pkg/codec"
	"github.com/todoaskit/propy/pkg/config"
	"github.com/todoaskit/propy/pkg/dataset"
	"github.com/todoaskit/propy/pkg/graph"
	"github.com/todoaskit/propy/pkg/logging"
	"github.com/todoaskit/propy/pkg/metrics"
	"github.com/todoaskit/propy/pkg/propagation"
)

func main() {
	configPath := flag.String("config", "propy.yaml", "path to generation config")
	flag.Parse()

	logger := logging.NewDefaultLogger().With(logging.RunID(uuid.NewString()))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("config load failed", logging.Error(err))
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("generation run failed", logging.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.GenerationConfig, logger logging.Logger) error {
	reg := metrics.NewRegistry()

	nodes, edges := randomDigraph(cfg.Graph.NumNodes, cfg.Graph.EdgeProb, cfg.Seed)
	logger.Info("graph built",
		logging.NumNodes(len(nodes)),
		logging.NumEdges(len(edges)),
		logging.Seed(cfg.Seed))

	timer := logging.StartTimer(logger, "diffusion finished", logging.Int("num_info", cfg.NumInfo))
	engine, err := propagation.NewEngine(nodes, edges, propagation.Config{
		NumInfo: cfg.NumInfo,
		Prob:    cfg.Prob,
		Seed:    cfg.Seed,
		Logger:  logger,
		Metrics: reg,
	})
	if err != nil {
		return err
	}
	timer.End()

	if _, err := engine.Dump(cfg.RunName, cfg.OutDir); err != nil {
		return err
	}

	container, err := dataset.NewContainer(dataset.Config{
		Path: cfg.OutDir,
		Actions: []graph.ActionKey{
			graph.FollowKey(),
			{Kind: graph.ActionPropagate, Info: graph.NoInfo},
		},
		COORepr: cfg.COORepr,
		Logger:  logger,
		Metrics: reg,
	})
	if err != nil {
		return err
	}

	if err := accumulate(engine, container); err != nil {
		return err
	}
	if err := container.UpdateXFeatures(codec.OnesFeature(len(nodes), cfg.NumFeatures)); err != nil {
		return err
	}

	return container.Dump(cfg.RunName, cfg.NumSubfiles)
}

// accumulate turns every item's diffusion into one example: the selected
// nodes are the cascade participants in infection order, the edge lists
// are the follow and propagate sub-adjacencies over them in local indices,
// and the label is the cascade size.
func accumulate(engine *propagation.Engine, container *dataset.Container) error {
	g := engine.Graph()

	var edgeLists [][]codec.TripleList
	var selected [][]int
	var ys [][]float64

	for _, info := range engine.InfoIDs() {
		events := engine.Events(info)

		local := make(map[graph.NodeID]int, len(events))
		var participants []graph.NodeID
		var globalIndices []int
		for _, ev := range events {
			if _, ok := local[ev.Node]; ok {
				continue
			}
			local[ev.Node] = len(globalIndices)
			participants = append(participants, ev.Node)
			gi, _ := g.IndexOf(ev.Node)
			globalIndices = append(globalIndices, gi)
		}

		followList := make(codec.TripleList, 0)
		for lu, u := range participants {
			for lv, v := range participants {
				if w, ok := g.EdgeAction(u, v, graph.FollowKey()); ok {
					followList = append(followList, codec.Triple{I: lu, J: lv, Val: w})
				}
			}
		}

		propagateList := make(codec.TripleList, 0, len(events)-1)
		for _, ev := range events[1:] {
			propagateList = append(propagateList, codec.Triple{
				I:   local[ev.Parent],
				J:   local[ev.Node],
				Val: ev.Time,
			})
		}

		edgeLists = append(edgeLists, []codec.TripleList{followList, propagateList})
		selected = append(selected, globalIndices)
		ys = append(ys, []float64{float64(len(globalIndices))})
	}

	if err := container.UpdateMatricesAndIndices(edgeLists, selected); err != nil {
		return err
	}
	return container.UpdateYs(ys)
}

// randomDigraph samples a directed Erdos-Renyi graph.
func randomDigraph(numNodes int, edgeProb float64, seed int64) ([]graph.NodeID, []graph.Edge) {
	rng := rand.New(rand.NewSource(seed))

	nodes := make([]graph.NodeID, numNodes)
	for i := range nodes {
		nodes[i] = graph.NodeID(i)
	}

	var edges []graph.Edge
	for _, u := range nodes {
		for _, v := range nodes {
			if u == v {
				continue
			}
			if rng.Float64() < edgeProb {
				edges = append(edges, graph.Edge{From: u, To: v})
			}
		}
	}
	return nodes, edges
}

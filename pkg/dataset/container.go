// Package dataset holds serialized training examples produced by the
// propagation engine: per-example per-action edge lists, selected node
// indices, feature tables and labels. A container accumulates examples
// incrementally, batches them with reproducible train/test folds, and
// persists them as concatenable shards.
package dataset

import (
	"fmt"
	"os"

	"github.com/todoaskit/propy/pkg/codec"
	"github.com/todoaskit/propy/pkg/graph"
	"github.com/todoaskit/propy/pkg/logging"
	"github.com/todoaskit/propy/pkg/metrics"
)

// Config carries the construction parameters of a Container.
type Config struct {
	// Path is the base directory for shard files, created if absent.
	Path string

	// Actions is the fixed catalog of action keys this container's edge
	// lists are aligned to.
	Actions []graph.ActionKey

	// COORepr decodes examples to coordinate arrays instead of dense
	// matrices.
	COORepr bool

	// XIndicesRepr resolves the node-feature block of an example as the
	// raw selected index array, deferring the embedding lookup to the
	// consumer, instead of gathering dense feature rows.
	XIndicesRepr bool

	Logger  logging.Logger
	Metrics *metrics.Registry
}

// Container holds one shard (or the concatenation of several shards) of
// training examples. Parallel fields grow together; their lengths are
// checked on every append and on Len.
type Container struct {
	path    string
	actions []graph.ActionKey

	edgeLists [][]codec.TripleList
	selected  [][]int
	xFeatures *FeatureTable
	yFeatures *FeatureTable
	ys        *FeatureTable

	cooRepr      bool
	xIndicesRepr bool

	logger  logging.Logger
	metrics *metrics.Registry
}

// NewContainer creates an empty container and its base directory.
func NewContainer(cfg Config) (*Container, error) {
	if cfg.Path == "" {
		cfg.Path = "."
	}
	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil, fmt.Errorf("dataset: create path %s: %w", cfg.Path, err)
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}
	return &Container{
		path:         cfg.Path,
		actions:      append([]graph.ActionKey(nil), cfg.Actions...),
		xFeatures:    NewFeatureTable(),
		yFeatures:    NewFeatureTable(),
		ys:           NewFeatureTable(),
		cooRepr:      cfg.COORepr,
		xIndicesRepr: cfg.XIndicesRepr,
		logger:       cfg.Logger.With(logging.Component("dataset")),
		metrics:      cfg.Metrics,
	}, nil
}

// Actions returns the action catalog metadata.
func (c *Container) Actions() []graph.ActionKey {
	return append([]graph.ActionKey(nil), c.actions...)
}

// Path returns the base directory.
func (c *Container) Path() string {
	return c.path
}

// NumXFeatures returns the x-feature width captured from the first update.
func (c *Container) NumXFeatures() int {
	return c.xFeatures.Width()
}

// NumYFeatures returns the y-feature width captured from the first update.
func (c *Container) NumYFeatures() int {
	return c.yFeatures.Width()
}

// NumClasses returns the label width captured from the first update.
func (c *Container) NumClasses() int {
	return c.ys.Width()
}

// HasYFeatures reports whether per-example auxiliary features are present.
func (c *Container) HasYFeatures() bool {
	return !c.yFeatures.Empty()
}

// Len returns the number of examples. Diverging parallel fields are a
// contract violation and panic.
func (c *Container) Len() int {
	if len(c.edgeLists) != c.ys.Len() {
		panic(fmt.Sprintf("dataset: %d edge lists but %d labels", len(c.edgeLists), c.ys.Len()))
	}
	return len(c.edgeLists)
}

// Example is one decoded training example. Exactly one of Dense and
// COOs/EdgeAttrs is populated depending on the container's COORepr flag,
// and exactly one of XRows and XIndices depending on XIndicesRepr.
// YFeature is nil when the container has no auxiliary features.
type Example struct {
	Dense     [][][]float64
	COOs      []codec.COO
	EdgeAttrs [][]float64

	XRows    [][]float64
	XIndices []int

	YFeature []float64
	Label    []float64
}

// Example decodes the example at index i.
func (c *Container) Example(i int) (Example, error) {
	if i < 0 || i >= c.Len() {
		return Example{}, fmt.Errorf("dataset: example index %d out of range [0, %d)", i, c.Len())
	}

	indices := c.selected[i]
	ex := Example{Label: c.ys.Row(i)}

	if c.cooRepr {
		ex.COOs = make([]codec.COO, len(c.edgeLists[i]))
		ex.EdgeAttrs = make([][]float64, len(c.edgeLists[i]))
		for a, list := range c.edgeLists[i] {
			ex.COOs[a] = codec.ListToCOO(list)
			ex.EdgeAttrs[a] = codec.ListToEdgeAttr(list)
		}
	} else {
		ex.Dense = make([][][]float64, len(c.edgeLists[i]))
		for a, list := range c.edgeLists[i] {
			m, err := codec.ListToMatrix(list, len(indices), 0)
			if err != nil {
				return Example{}, fmt.Errorf("dataset: example %d action %d: %w", i, a, err)
			}
			ex.Dense[a] = m
		}
	}

	if c.xIndicesRepr {
		ex.XIndices = append([]int(nil), indices...)
	} else {
		ex.XRows = c.xFeatures.Gather(indices)
	}

	if !c.yFeatures.Empty() {
		ex.YFeature = c.yFeatures.Row(i)
	}
	return ex, nil
}

// SelectedNodeIndices returns the global node indices of example i.
func (c *Container) SelectedNodeIndices(i int) []int {
	return append([]int(nil), c.selected[i]...)
}

func (c *Container) updateExampleGauge() {
	if c.metrics != nil && len(c.edgeLists) == c.ys.Len() {
		c.metrics.SetExampleCount(len(c.edgeLists))
	}
}

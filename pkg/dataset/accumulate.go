package dataset

import (
	"fmt"

	"github.com/todoaskit/propy/pkg/codec"
)

// UpdateMatricesAndIndices appends per-example edge lists (one triple list
// per action) together with the selected global node indices of each
// example. The two arguments must be parallel.
func (c *Container) UpdateMatricesAndIndices(edgeLists [][]codec.TripleList, selected [][]int) error {
	if len(edgeLists) != len(selected) {
		return fmt.Errorf("dataset: %d edge lists but %d index sets", len(edgeLists), len(selected))
	}
	c.edgeLists = append(c.edgeLists, edgeLists...)
	c.selected = append(c.selected, selected...)
	c.updateExampleGauge()
	return nil
}

// UpdateDenseMatricesAndIndices is UpdateMatricesAndIndices for callers
// holding dense per-action matrices; each matrix is flattened to its
// triple list first.
func (c *Container) UpdateDenseMatricesAndIndices(matrices [][][][]float64, selected [][]int) error {
	edgeLists := make([][]codec.TripleList, len(matrices))
	for i, perAction := range matrices {
		lists := make([]codec.TripleList, len(perAction))
		for a, m := range perAction {
			lists[a] = codec.MatrixToList(m, 0)
		}
		edgeLists[i] = lists
	}
	return c.UpdateMatricesAndIndices(edgeLists, selected)
}

// UpdateXFeatures appends rows to the global node feature table.
func (c *Container) UpdateXFeatures(rows [][]float64) error {
	if err := c.xFeatures.Append(rows); err != nil {
		return fmt.Errorf("dataset: x features: %w", err)
	}
	return nil
}

// UpdateYFeatures appends rows to the per-example auxiliary feature table.
func (c *Container) UpdateYFeatures(rows [][]float64) error {
	if err := c.yFeatures.Append(rows); err != nil {
		return fmt.Errorf("dataset: y features: %w", err)
	}
	return nil
}

// UpdateYs appends per-example label rows.
func (c *Container) UpdateYs(rows [][]float64) error {
	if err := c.ys.Append(rows); err != nil {
		return fmt.Errorf("dataset: labels: %w", err)
	}
	c.updateExampleGauge()
	return nil
}

// UpdateFunc is an externally supplied pure transform over the full
// container state. It must return a table of exactly the same shape as x.
type UpdateFunc func(edgeLists [][]codec.TripleList, selected [][]int, x, y [][]float64, kwargs map[string]any) [][]float64

// DynamicUpdateXFeatures replaces the x-feature table with the result of
// updateFunc applied to the current state. A shape change in the returned
// table is a contract violation and panics.
func (c *Container) DynamicUpdateXFeatures(updateFunc UpdateFunc, kwargs map[string]any) {
	newX := updateFunc(c.edgeLists, c.selected, c.xFeatures.Rows(), c.yFeatures.Rows(), kwargs)
	c.xFeatures.Replace(newX)
}

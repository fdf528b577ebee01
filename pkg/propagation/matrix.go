package propagation

import (
	"fmt"

	"github.com/todoaskit/propy/pkg/graph"
)

// MatrixOptions controls an action-matrix query.
type MatrixOptions struct {
	// TimeStamp, when non-nil, zeroes every cell whose weight exceeds it.
	// Cells equal to the time stamp are retained.
	TimeStamp *float64

	// Binary collapses the matrix to 0/1 edge-existence form.
	Binary bool
}

// TimeStamp is a convenience for building MatrixOptions with a cut-off.
func TimeStamp(ts float64) *float64 {
	return &ts
}

// ActionMatrix returns the N x N matrix of the given action channel: cell
// (u, v) is the channel weight of edge (u, v), 0 where the channel is not
// set. Row/column indices follow node insertion order.
//
// Querying a key outside the registered catalog is a programmer error and
// panics.
func (e *Engine) ActionMatrix(key graph.ActionKey, opts MatrixOptions) [][]float64 {
	if !e.catalog.Contains(key) {
		panic(fmt.Sprintf("propagation: action key %q is not registered", key))
	}

	n := e.g.NumNodes()
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}

	for _, edge := range e.g.EdgesWithAction(key) {
		w, _ := e.g.EdgeAction(edge.From, edge.To, key)
		if opts.TimeStamp != nil && w > *opts.TimeStamp {
			continue
		}
		i, _ := e.g.IndexOf(edge.From)
		j, _ := e.g.IndexOf(edge.To)
		if opts.Binary {
			if w != 0 {
				matrix[i][j] = 1
			}
		} else {
			matrix[i][j] = w
		}
	}
	return matrix
}

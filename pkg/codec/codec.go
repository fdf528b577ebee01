// Package codec converts between the three representations of sparse
// adjacency data used across the project: dense square matrices, flattened
// triple lists, and coordinate (COO) arrays.
//
// All functions are pure; none of them mutate their inputs.
package codec

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned when a triple references a row or column
// outside the requested matrix size.
var ErrIndexOutOfRange = errors.New("triple index out of range")

// Triple is one non-default entry of a sparse square matrix.
type Triple struct {
	I   int
	J   int
	Val float64
}

// TripleList is the flattened list form of a sparse matrix, row-major.
type TripleList []Triple

// COO is the coordinate form of a sparse adjacency: parallel row and column
// index arrays of equal length. Edge values are not part of this form.
type COO struct {
	Rows []int
	Cols []int
}

// Len returns the number of coordinate pairs.
func (c COO) Len() int {
	return len(c.Rows)
}

// MatrixToList scans a square matrix in row-major order and returns a triple
// for every entry whose value differs from def. It is the inverse of
// ListToMatrix for matrices of the same size and default value.
func MatrixToList(matrix [][]float64, def float64) TripleList {
	list := make(TripleList, 0)
	for i, row := range matrix {
		for j, val := range row {
			if val != def {
				list = append(list, Triple{I: i, J: j, Val: val})
			}
		}
	}
	return list
}

// ListToMatrix builds a size x size matrix filled with def and assigns
// matrix[i][j] = val for every triple. A later triple for the same (i, j)
// overwrites an earlier one; values are never summed.
func ListToMatrix(list TripleList, size int, def float64) ([][]float64, error) {
	matrix := make([][]float64, size)
	for i := range matrix {
		matrix[i] = make([]float64, size)
		if def != 0 {
			for j := range matrix[i] {
				matrix[i][j] = def
			}
		}
	}
	for _, t := range list {
		if t.I < 0 || t.I >= size || t.J < 0 || t.J >= size {
			return nil, fmt.Errorf("codec: triple (%d, %d) for size %d: %w", t.I, t.J, size, ErrIndexOutOfRange)
		}
		matrix[t.I][t.J] = t.Val
	}
	return matrix, nil
}

// ListToCOO drops the value component of every triple and returns the
// coordinate pairs. An empty input yields a COO with zero-length (non-nil)
// index arrays.
func ListToCOO(list TripleList) COO {
	coo := COO{
		Rows: make([]int, len(list)),
		Cols: make([]int, len(list)),
	}
	for k, t := range list {
		coo.Rows[k] = t.I
		coo.Cols[k] = t.J
	}
	return coo
}

// ListToEdgeAttr returns the value component of every triple, order
// preserved.
func ListToEdgeAttr(list TripleList) []float64 {
	attrs := make([]float64, len(list))
	for k, t := range list {
		attrs[k] = t.Val
	}
	return attrs
}

// OnesFeature returns a numNodes x numFeatures table with every cell set
// to 1. It is the simplest node feature table used by generation runs that
// have no real features.
func OnesFeature(numNodes, numFeatures int) [][]float64 {
	table := make([][]float64, numNodes)
	for i := range table {
		row := make([]float64, numFeatures)
		for j := range row {
			row[j] = 1
		}
		table[i] = row
	}
	return table
}

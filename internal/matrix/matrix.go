// Package matrix implements the dense float64 matrices the recognition
// pipeline is built on. Storage is column-major: element (i,j) lives at
// data[j*rows+i], matching the layout the model files are written in.
//
// Operations that return a matrix always allocate a fresh one; the documented
// in-place mutators (the elementwise group, Add, Sub, SubColumns, FlipCols)
// are the only methods that modify their receiver. Nothing here aliases
// caller-owned storage.
package matrix

import (
	"fmt"
	"math"
	"strings"
)

// Matrix is a dense column-major matrix of float64 values.
type Matrix struct {
	rows, cols int
	data       []float64
}

// New returns a zero-filled rows×cols matrix. Zero dimensions are legal and
// produce an empty matrix. Negative dimensions panic: sizes are a caller
// contract, like slice lengths.
func New(rows, cols int) *Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("matrix: negative dimensions %dx%d", rows, cols))
	}
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// Identity returns the n×n identity matrix.
func Identity(n int) *Matrix {
	m := New(n, n)
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m
}

// FromColumn returns a len(v)×1 column vector holding a copy of v.
func FromColumn(v []float64) *Matrix {
	m := New(len(v), 1)
	copy(m.data, v)
	return m
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

func (m *Matrix) offset(i, j int) int {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("matrix: index (%d,%d) out of range for %dx%d", i, j, m.rows, m.cols))
	}
	return j*m.rows + i
}

// At returns the element at row i, column j.
func (m *Matrix) At(i, j int) float64 { return m.data[m.offset(i, j)] }

// Set stores v at row i, column j.
func (m *Matrix) Set(i, j int, v float64) { m.data[m.offset(i, j)] = v }

// Clone returns an independent deep copy.
func (m *Matrix) Clone() *Matrix {
	c := New(m.rows, m.cols)
	copy(c.data, m.data)
	return c
}

// Equal reports whether m and o have the same shape and identical elements.
func (m *Matrix) Equal(o *Matrix) bool {
	if m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for i, v := range m.data {
		if v != o.data[i] {
			return false
		}
	}
	return true
}

// EqualApprox reports whether m and o have the same shape and all elements
// within tol of each other.
func (m *Matrix) EqualApprox(o *Matrix, tol float64) bool {
	if m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for i, v := range m.data {
		if math.Abs(v-o.data[i]) > tol {
			return false
		}
	}
	return true
}

// String renders the matrix for debugging, one row per line.
func (m *Matrix) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%dx%d", m.rows, m.cols)
	for i := 0; i < m.rows; i++ {
		b.WriteString("\n")
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "%g", m.At(i, j))
		}
	}
	return b.String()
}

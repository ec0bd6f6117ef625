package matrix

import (
	"fmt"
	"math"
)

// Mul returns the matrix product m·o as a new (m.rows × o.cols) matrix.
// Zero-dimension operands are legal and yield a zero-filled result.
func (m *Matrix) Mul(o *Matrix) (*Matrix, error) {
	if m.cols != o.rows {
		return nil, fmt.Errorf("multiply %dx%d by %dx%d: %w", m.rows, m.cols, o.rows, o.cols, ErrDimensionMismatch)
	}
	r := New(m.rows, o.cols)
	// Column-major friendly loop order: the innermost loop walks one column
	// of m and one column of r sequentially.
	for j := 0; j < o.cols; j++ {
		for k := 0; k < m.cols; k++ {
			b := o.data[j*o.rows+k]
			if b == 0 {
				continue
			}
			mcol := m.data[k*m.rows : k*m.rows+m.rows]
			rcol := r.data[j*r.rows : j*r.rows+r.rows]
			for i, a := range mcol {
				rcol[i] += a * b
			}
		}
	}
	return r, nil
}

// T returns a new transposed (cols × rows) matrix. T is its own inverse.
func (m *Matrix) T() *Matrix {
	t := New(m.cols, m.rows)
	for j := 0; j < m.cols; j++ {
		for i := 0; i < m.rows; i++ {
			t.data[i*t.rows+j] = m.data[j*m.rows+i]
		}
	}
	return t
}

// MeanColumn returns the average of the columns as a new rows×1 vector.
func (m *Matrix) MeanColumn() *Matrix {
	a := New(m.rows, 1)
	for j := 0; j < m.cols; j++ {
		col := m.data[j*m.rows : j*m.rows+m.rows]
		for i, v := range col {
			a.data[i] += v
		}
	}
	for i := range a.data {
		a.data[i] /= float64(m.cols)
	}
	return a
}

// SubColumns subtracts the rows×1 vector col from every column of m in place.
func (m *Matrix) SubColumns(col *Matrix) error {
	if col.rows != m.rows || col.cols != 1 {
		return fmt.Errorf("subtract %dx%d column from %dx%d: %w", col.rows, col.cols, m.rows, m.cols, ErrDimensionMismatch)
	}
	for j := 0; j < m.cols; j++ {
		c := m.data[j*m.rows : j*m.rows+m.rows]
		for i := range c {
			c[i] -= col.data[i]
		}
	}
	return nil
}

// ColumnSlice returns a new matrix holding columns [from, to) of m.
func (m *Matrix) ColumnSlice(from, to int) (*Matrix, error) {
	if from < 0 || to < from || to > m.cols {
		return nil, fmt.Errorf("column slice [%d,%d) of %dx%d: %w", from, to, m.rows, m.cols, ErrDimensionMismatch)
	}
	r := New(m.rows, to-from)
	copy(r.data, m.data[from*m.rows:to*m.rows])
	return r, nil
}

// SumRows returns a rows×1 vector of per-row sums.
func (m *Matrix) SumRows() *Matrix {
	r := New(m.rows, 1)
	for j := 0; j < m.cols; j++ {
		col := m.data[j*m.rows : j*m.rows+m.rows]
		for i, v := range col {
			r.data[i] += v
		}
	}
	return r
}

// SumCols returns a 1×cols vector of per-column sums.
func (m *Matrix) SumCols() *Matrix {
	r := New(1, m.cols)
	for j := 0; j < m.cols; j++ {
		col := m.data[j*m.rows : j*m.rows+m.rows]
		s := 0.0
		for _, v := range col {
			s += v
		}
		r.data[j] = s
	}
	return r
}

// MeanRows returns a rows×1 vector of per-row means.
func (m *Matrix) MeanRows() *Matrix {
	r := m.SumRows()
	for i := range r.data {
		r.data[i] /= float64(m.cols)
	}
	return r
}

// MeanCols returns a 1×cols vector of per-column means.
func (m *Matrix) MeanCols() *Matrix {
	r := m.SumCols()
	for j := range r.data {
		r.data[j] /= float64(m.rows)
	}
	return r
}

// FindNonZero returns the row indices of all non-zero elements in row-major
// scan order. An element appears once per non-zero occurrence.
func (m *Matrix) FindNonZero() []int {
	var idx []int
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			if m.data[j*m.rows+i] != 0 {
				idx = append(idx, i)
			}
		}
	}
	return idx
}

// Reshape returns a new rows×cols matrix with the same elements read and
// written in row-major order. The total element count must match.
func (m *Matrix) Reshape(rows, cols int) (*Matrix, error) {
	if rows < 0 || cols < 0 || rows*cols != m.rows*m.cols {
		return nil, fmt.Errorf("reshape %dx%d to %dx%d: %w", m.rows, m.cols, rows, cols, ErrDimensionMismatch)
	}
	r := New(rows, cols)
	for n := 0; n < rows*cols; n++ {
		ri, rj := n/cols, n%cols
		mi, mj := n/m.cols, n%m.cols
		r.data[rj*r.rows+ri] = m.data[mj*m.rows+mi]
	}
	return r, nil
}

// FlipCols reverses the column order in place.
func (m *Matrix) FlipCols() {
	for j := 0; j < m.cols/2; j++ {
		k := m.cols - 1 - j
		a := m.data[j*m.rows : j*m.rows+m.rows]
		b := m.data[k*m.rows : k*m.rows+m.rows]
		for i := range a {
			a[i], b[i] = b[i], a[i]
		}
	}
}

// ReorderColumns returns a new matrix whose column j is m's column perm[j].
// perm must hold one valid column index per column of m; indices may repeat.
func (m *Matrix) ReorderColumns(perm []int) (*Matrix, error) {
	if len(perm) != m.cols {
		return nil, fmt.Errorf("reorder %dx%d with %d indices: %w", m.rows, m.cols, len(perm), ErrDimensionMismatch)
	}
	r := New(m.rows, m.cols)
	for j, p := range perm {
		if p < 0 || p >= m.cols {
			return nil, fmt.Errorf("reorder %dx%d: index %d out of range: %w", m.rows, m.cols, p, ErrDimensionMismatch)
		}
		copy(r.data[j*r.rows:j*r.rows+r.rows], m.data[p*m.rows:p*m.rows+m.rows])
	}
	return r, nil
}

// Norm returns the Frobenius norm of m.
func (m *Matrix) Norm() float64 {
	s := 0.0
	for _, v := range m.data {
		s += v * v
	}
	return math.Sqrt(s)
}

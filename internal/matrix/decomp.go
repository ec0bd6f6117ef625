package matrix

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// toGonum copies m into a row-major gonum Dense. Callers must ensure m is
// non-empty; gonum rejects zero dimensions.
func (m *Matrix) toGonum() *mat.Dense {
	g := mat.NewDense(m.rows, m.cols, nil)
	for j := 0; j < m.cols; j++ {
		for i := 0; i < m.rows; i++ {
			g.Set(i, j, m.data[j*m.rows+i])
		}
	}
	return g
}

// Eigen computes the eigenvalues and right eigenvectors of a square matrix.
// The eigenvalues are returned as an n×1 vector and the eigenvectors as the
// columns of an n×n matrix; the i-th value corresponds to the i-th column.
// Imaginary parts are discarded. The order is whatever the factorization
// produces — callers that need eigenvalues sorted must sort explicitly.
func (m *Matrix) Eigen() (vals, vecs *Matrix, err error) {
	if m.rows != m.cols {
		return nil, nil, fmt.Errorf("eigendecomposition of %dx%d: %w", m.rows, m.cols, ErrDimensionMismatch)
	}
	if m.rows == 0 {
		return New(0, 1), New(0, 0), nil
	}

	var eig mat.Eigen
	if ok := eig.Factorize(m.toGonum(), mat.EigenRight); !ok {
		return nil, nil, fmt.Errorf("eigendecomposition of %dx%d did not converge: %w", m.rows, m.cols, ErrSingular)
	}

	n := m.rows
	vals = New(n, 1)
	for i, v := range eig.Values(nil) {
		vals.data[i] = real(v)
	}

	var cv mat.CDense
	eig.VectorsTo(&cv)
	vecs = New(n, n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			vecs.data[j*n+i] = real(cv.At(i, j))
		}
	}
	return vals, vecs, nil
}

// Inverse returns the inverse of a square matrix, computed by LU
// factorization. An exactly singular matrix surfaces ErrSingular rather than
// aborting; callers such as the LDA trainer recover from it. An
// ill-conditioned but factorizable matrix still inverts: the within-class
// scatter handed to the LDA trainer is rank-deficient in exact arithmetic,
// and rejecting it on condition number alone would refuse inputs the
// pipeline is expected to process.
func (m *Matrix) Inverse() (*Matrix, error) {
	if m.rows != m.cols {
		return nil, fmt.Errorf("inverse of %dx%d: %w", m.rows, m.cols, ErrDimensionMismatch)
	}
	if m.rows == 0 {
		return New(0, 0), nil
	}

	var inv mat.Dense
	if err := inv.Inverse(m.toGonum()); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, fmt.Errorf("inverse of %dx%d (%v): %w", m.rows, m.cols, err, ErrSingular)
		}
	}

	r := New(m.rows, m.cols)
	for j := 0; j < r.cols; j++ {
		for i := 0; i < r.rows; i++ {
			r.data[j*r.rows+i] = inv.At(i, j)
		}
	}
	return r, nil
}

// Det returns the determinant of a square matrix by recursive cofactor
// expansion along the first row, with closed forms at order 1 and 2. The
// recursion costs O(n!) and exists for the diagnostics path over small
// matrices (at most class-count order); it is never applied to the projected
// covariance matrices of the training path.
func (m *Matrix) Det() (float64, error) {
	if m.rows != m.cols {
		return 0, fmt.Errorf("determinant of %dx%d: %w", m.rows, m.cols, ErrDimensionMismatch)
	}
	return m.det(), nil
}

func (m *Matrix) det() float64 {
	switch m.rows {
	case 0:
		return 1
	case 1:
		return m.data[0]
	case 2:
		// Column-major: data = [a00 a10 a01 a11].
		return m.data[0]*m.data[3] - m.data[1]*m.data[2]
	}
	minor := New(m.rows-1, m.cols-1)
	d := 0.0
	sign := 1.0
	for j := 0; j < m.cols; j++ {
		if v := m.data[j*m.rows]; v != 0 {
			m.minorInto(minor, 0, j)
			d += sign * v * minor.det()
		}
		sign = -sign
	}
	return d
}

// minorInto fills dst with m minus row skipRow and column skipCol. dst must
// be (rows-1)×(cols-1); it is reused across expansion steps.
func (m *Matrix) minorInto(dst *Matrix, skipRow, skipCol int) {
	c := 0
	for j := 0; j < m.cols; j++ {
		if j == skipCol {
			continue
		}
		r := 0
		for i := 0; i < m.rows; i++ {
			if i == skipRow {
				continue
			}
			dst.data[c*dst.rows+r] = m.data[j*m.rows+i]
			r++
		}
		c++
	}
}

// Cofactor returns the matrix of signed minors assembled transposed: entry
// (j,i) holds (-1)^(i+j) times the determinant of the minor with row i and
// column j removed. This is the engine's historical adjugate orientation —
// M·Cofactor(M) equals det(M)·I — and downstream math relies on it, so it is
// deliberately not the textbook cofactor layout.
func (m *Matrix) Cofactor() (*Matrix, error) {
	if m.rows != m.cols {
		return nil, fmt.Errorf("cofactor of %dx%d: %w", m.rows, m.cols, ErrDimensionMismatch)
	}
	n := m.rows
	r := New(n, n)
	if n == 0 {
		return r, nil
	}
	minor := New(n-1, n-1)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.minorInto(minor, i, j)
			v := minor.det()
			if (i+j)%2 == 1 {
				v = -v
			}
			r.data[i*n+j] = v // (j,i) in column-major
		}
	}
	return r, nil
}

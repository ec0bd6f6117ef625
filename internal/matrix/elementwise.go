package matrix

import (
	"fmt"
	"math"
)

// apply replaces every element x with f(x).
func (m *Matrix) apply(f func(float64) float64) {
	for i, v := range m.data {
		m.data[i] = f(v)
	}
}

// Negate flips the sign of every element in place.
func (m *Matrix) Negate() { m.apply(func(v float64) float64 { return -v }) }

// Exp replaces every element x with e**x in place.
func (m *Matrix) Exp() { m.apply(math.Exp) }

// Sqrt replaces every element with its square root in place. Negative
// elements become NaN; the domain is deliberately not guarded.
func (m *Matrix) Sqrt() { m.apply(math.Sqrt) }

// Acos replaces every element with its arc cosine in place. Elements outside
// [-1,1] become NaN; the domain is deliberately not guarded.
func (m *Matrix) Acos() { m.apply(math.Acos) }

// Pow raises every element to the power p in place.
func (m *Matrix) Pow(p float64) {
	m.apply(func(v float64) float64 { return math.Pow(v, p) })
}

// Scale multiplies every element by c in place.
func (m *Matrix) Scale(c float64) {
	m.apply(func(v float64) float64 { return v * c })
}

// DivScale divides every element by c in place.
func (m *Matrix) DivScale(c float64) {
	m.apply(func(v float64) float64 { return v / c })
}

// RecipScale replaces every element x with c/x in place.
func (m *Matrix) RecipScale(c float64) {
	m.apply(func(v float64) float64 { return c / v })
}

// Shift adds c to every element in place.
func (m *Matrix) Shift(c float64) {
	m.apply(func(v float64) float64 { return v + c })
}

// Trunc truncates every element toward zero in place.
func (m *Matrix) Trunc() { m.apply(math.Trunc) }

// Normalize rescales all elements into [0,1] in place using the matrix-wide
// minimum and maximum. A constant matrix maps to NaN (0/0), consistent with
// the unguarded-domain rule of the other elementwise operations.
func (m *Matrix) Normalize() {
	if len(m.data) == 0 {
		return
	}
	min, max := m.data[0], m.data[0]
	for _, v := range m.data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	span := max - min
	m.apply(func(v float64) float64 { return (v - min) / span })
}

// Add adds o to m element-wise, mutating m.
func (m *Matrix) Add(o *Matrix) error {
	if m.rows != o.rows || m.cols != o.cols {
		return fmt.Errorf("add %dx%d and %dx%d: %w", m.rows, m.cols, o.rows, o.cols, ErrDimensionMismatch)
	}
	for i := range m.data {
		m.data[i] += o.data[i]
	}
	return nil
}

// Sub subtracts o from m element-wise, mutating m.
func (m *Matrix) Sub(o *Matrix) error {
	if m.rows != o.rows || m.cols != o.cols {
		return fmt.Errorf("subtract %dx%d and %dx%d: %w", m.rows, m.cols, o.rows, o.cols, ErrDimensionMismatch)
	}
	for i := range m.data {
		m.data[i] -= o.data[i]
	}
	return nil
}

// DivElem returns a new matrix holding the element-wise quotient m/o.
func (m *Matrix) DivElem(o *Matrix) (*Matrix, error) {
	if m.rows != o.rows || m.cols != o.cols {
		return nil, fmt.Errorf("divide %dx%d by %dx%d: %w", m.rows, m.cols, o.rows, o.cols, ErrDimensionMismatch)
	}
	r := New(m.rows, m.cols)
	for i := range m.data {
		r.data[i] = m.data[i] / o.data[i]
	}
	return r, nil
}

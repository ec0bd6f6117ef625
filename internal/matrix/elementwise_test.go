package matrix

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-12

func TestUnaryInPlace(t *testing.T) {
	tests := []struct {
		name  string
		apply func(m *Matrix)
		in    []float64
		want  []float64
	}{
		{"negate", func(m *Matrix) { m.Negate() }, []float64{1, -2, 0, 3}, []float64{-1, 2, 0, -3}},
		{"exp", func(m *Matrix) { m.Exp() }, []float64{0, 1, -1, 2}, []float64{1, math.E, 1 / math.E, math.E * math.E}},
		{"sqrt", func(m *Matrix) { m.Sqrt() }, []float64{0, 1, 4, 9}, []float64{0, 1, 2, 3}},
		{"acos", func(m *Matrix) { m.Acos() }, []float64{1, 0, -1, 0.5}, []float64{0, math.Pi / 2, math.Pi, math.Acos(0.5)}},
		{"pow", func(m *Matrix) { m.Pow(3) }, []float64{1, 2, -2, 0}, []float64{1, 8, -8, 0}},
		{"scale", func(m *Matrix) { m.Scale(2.5) }, []float64{1, 2, -4, 0}, []float64{2.5, 5, -10, 0}},
		{"div-scale", func(m *Matrix) { m.DivScale(2) }, []float64{1, 2, -4, 0}, []float64{0.5, 1, -2, 0}},
		{"recip-scale", func(m *Matrix) { m.RecipScale(2) }, []float64{1, 2, -4, 8}, []float64{2, 1, -0.5, 0.25}},
		{"shift", func(m *Matrix) { m.Shift(-1) }, []float64{1, 2, -4, 0}, []float64{0, 1, -5, -1}},
		{"trunc", func(m *Matrix) { m.Trunc() }, []float64{1.9, -1.9, 0.4, 2}, []float64{1, -1, 0, 2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := fill(t, 2, 2, tc.in...)
			tc.apply(m)
			want := fill(t, 2, 2, tc.want...)
			assert.True(t, m.EqualApprox(want, eps), "got %v want %v", m, want)
		})
	}
}

func TestSqrtNegativeIsNaN(t *testing.T) {
	m := fill(t, 1, 2, -1, 4)
	m.Sqrt()
	assert.True(t, math.IsNaN(m.At(0, 0)))
	assert.Equal(t, 2.0, m.At(0, 1))
}

func TestAcosOutsideDomainIsNaN(t *testing.T) {
	m := fill(t, 1, 2, 2, -1.5)
	m.Acos()
	assert.True(t, math.IsNaN(m.At(0, 0)))
	assert.True(t, math.IsNaN(m.At(0, 1)))
}

func TestNormalize(t *testing.T) {
	m := fill(t, 2, 2, 2, 4, 6, 10)
	m.Normalize()
	want := fill(t, 2, 2, 0, 0.25, 0.5, 1)
	assert.True(t, m.EqualApprox(want, eps))
}

func TestNormalizeConstantMatrixIsNaN(t *testing.T) {
	m := fill(t, 2, 2, 3, 3, 3, 3)
	m.Normalize()
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assert.True(t, math.IsNaN(m.At(i, j)))
		}
	}
}

func TestNormalizeEmpty(t *testing.T) {
	m := New(0, 0)
	assert.NotPanics(t, func() { m.Normalize() })
}

func TestAddSub(t *testing.T) {
	a := fill(t, 2, 2, 1, 2, 3, 4)
	b := fill(t, 2, 2, 10, 20, 30, 40)

	require.NoError(t, a.Add(b))
	assert.True(t, a.EqualApprox(fill(t, 2, 2, 11, 22, 33, 44), eps))

	require.NoError(t, a.Sub(b))
	assert.True(t, a.EqualApprox(fill(t, 2, 2, 1, 2, 3, 4), eps))
}

func TestAddDimensionMismatch(t *testing.T) {
	a := New(2, 2)
	b := New(2, 3)
	err := a.Add(b)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestDivElem(t *testing.T) {
	a := fill(t, 2, 2, 10, 9, 8, 6)
	b := fill(t, 2, 2, 2, 3, 4, 6)
	q, err := a.DivElem(b)
	require.NoError(t, err)
	assert.True(t, q.EqualApprox(fill(t, 2, 2, 5, 3, 2, 1), eps))

	// Operands stay untouched.
	assert.Equal(t, 10.0, a.At(0, 0))
	assert.Equal(t, 2.0, b.At(0, 0))

	_, err = a.DivElem(New(3, 2))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

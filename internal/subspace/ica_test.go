package subspace

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkral/faceid/internal/matrix"
)

// mixedSignals returns two deterministic source signals mixed through a fixed
// 2×2 matrix, the usual blind-separation fixture.
func mixedSignals(t *testing.T, n int) *matrix.Matrix {
	t.Helper()
	X := matrix.New(2, n)
	for j := 0; j < n; j++ {
		s1 := math.Sin(0.7 * float64(j))
		s2 := float64(j%5)/2.0 - 1.0
		X.Set(0, j, 2*s1+s2)
		X.Set(1, j, s1+3*s2)
	}
	return X
}

func TestWhitenCovariance(t *testing.T) {
	n := 64
	X := mixedSignals(t, n)
	require.NoError(t, X.SubColumns(X.MeanRows()))

	wz, err := whiten(X, n)
	require.NoError(t, err)
	Xw, err := wz.Mul(X)
	require.NoError(t, err)

	// Whitened sample covariance must be 4·I, the doubled-sphering variant.
	C, err := Xw.Mul(Xw.T())
	require.NoError(t, err)
	C.DivScale(float64(n - 1))

	want := matrix.Identity(2)
	want.Scale(4)
	assert.True(t, C.EqualApprox(want, 1e-8), "whitened covariance:\n%v", C)
}

func TestICA2Deterministic(t *testing.T) {
	X := mixedSignals(t, 48)
	params := ICAParams{MaxIterations: 30, LearningRate: 0.0005, Seed: 42}

	first, err := ICA2(matrix.Identity(2), X, params)
	require.NoError(t, err)
	second, err := ICA2(matrix.Identity(2), X, params)
	require.NoError(t, err)

	// Same seed, same shuffles, bit-identical basis.
	assert.True(t, first.Equal(second))
	assert.Equal(t, 2, first.Rows())
	assert.Equal(t, 2, first.Cols())
}

func TestICA2ProducesFiniteBasis(t *testing.T) {
	X := mixedSignals(t, 64)
	params := ICAParams{MaxIterations: 50, LearningRate: 0.0005, Seed: 7}

	W, err := ICA2(matrix.Identity(2), X, params)
	require.NoError(t, err)

	for i := 0; i < W.Rows(); i++ {
		for j := 0; j < W.Cols(); j++ {
			v := W.At(i, j)
			require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "element (%d,%d) = %g", i, j, v)
		}
	}
}

func TestICA2ZeroVarianceComponent(t *testing.T) {
	X := mixedSignals(t, 16)
	for j := 0; j < X.Cols(); j++ {
		X.Set(1, j, 7) // second component carries no variance
	}

	_, err := ICA2(matrix.Identity(2), X, ICAParams{Seed: 1})
	require.ErrorIs(t, err, matrix.ErrSingular)
}

func TestICA2SingleSample(t *testing.T) {
	X := matrix.New(2, 1)
	X.Set(0, 0, 1)
	X.Set(1, 0, 2)

	_, err := ICA2(matrix.Identity(2), X, ICAParams{Seed: 1})
	require.ErrorIs(t, err, matrix.ErrSingular)
}

func TestICA2Diverges(t *testing.T) {
	X := mixedSignals(t, 32)
	params := ICAParams{MaxIterations: 50, BlockSize: 4, LearningRate: 1e6, Seed: 3}

	_, err := ICA2(matrix.Identity(2), X, params)
	require.ErrorIs(t, err, ErrDiverged)
}

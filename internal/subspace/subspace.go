// Package subspace implements the three projection trainers the recognizer
// supports: eigenfaces (PCA), Fisherfaces (LDA) and an InfoMax independent
// component variant (ICA2). Each trainer returns its basis transposed, so a
// basis projects image-space columns by left multiplication: P = Wᵀ·X.
//
// LDA and ICA2 both consume the PCA output rather than raw pixels; the
// composition with the PCA basis happens inside the trainers, and the bases
// they return map directly from image space into their own subspace.
package subspace

import (
	"errors"
	"sort"

	"github.com/tkral/faceid/internal/matrix"
)

// ErrClassesNotContiguous reports training labels whose classes are not
// grouped into contiguous column blocks, which the scatter computation
// requires.
var ErrClassesNotContiguous = errors.New("subspace: class labels not contiguous")

// ErrDiverged reports an ICA iteration whose unmixing weights grew without
// bound. Lowering the learning rate usually resolves it.
var ErrDiverged = errors.New("subspace: ica iteration diverged")

// sortEigenDesc reorders an eigendecomposition so eigenvalues descend. The
// matrix engine hands back factorization order; every trainer here wants the
// dominant components first.
func sortEigenDesc(vals, vecs *matrix.Matrix) (*matrix.Matrix, *matrix.Matrix, error) {
	n := vals.Rows()
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return vals.At(perm[a], 0) > vals.At(perm[b], 0)
	})

	sortedVals := matrix.New(n, 1)
	for i, p := range perm {
		sortedVals.Set(i, 0, vals.At(p, 0))
	}
	sortedVecs, err := vecs.ReorderColumns(perm)
	if err != nil {
		return nil, nil, err
	}
	return sortedVals, sortedVecs, nil
}

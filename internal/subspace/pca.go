package subspace

import (
	"fmt"

	"github.com/tkral/faceid/internal/matrix"
)

// PCA computes the eigenface basis for a mean-subtracted training matrix X
// (dimensionality × image count). Rather than eigendecomposing the full d×d
// covariance it works on the surrogate L = Xᵀ·X, whose nonzero eigenvalues
// match those of the covariance and whose eigenvectors map onto covariance
// eigenvectors through X·v. One component is produced per training image,
// ordered by descending eigenvalue; no truncation happens here, callers keep
// the leading components they want.
//
// The returned basis is transposed (image count × dimensionality) and
// projects by left multiplication: P = W_pcaᵀ·X.
func PCA(X *matrix.Matrix) (*matrix.Matrix, error) {
	Xt := X.T()
	L, err := Xt.Mul(X)
	if err != nil {
		return nil, fmt.Errorf("pca surrogate: %w", err)
	}

	vals, vecs, err := L.Eigen()
	if err != nil {
		return nil, fmt.Errorf("pca eigendecomposition: %w", err)
	}
	if _, vecs, err = sortEigenDesc(vals, vecs); err != nil {
		return nil, fmt.Errorf("pca component order: %w", err)
	}

	W, err := X.Mul(vecs)
	if err != nil {
		return nil, fmt.Errorf("pca basis: %w", err)
	}
	return W.T(), nil
}

package subspace

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/tkral/faceid/internal/matrix"
)

// Default InfoMax iteration schedule, used for zero-valued ICAParams fields.
const (
	defaultICAMaxIterations = 200
	defaultICALearningRate  = 0.001
	defaultICAAnneal        = 0.97
	defaultICATolerance     = 1e-6

	// weightCeiling aborts a sweep whose unmixing norm explodes.
	weightCeiling = 1e8
)

// ICAParams tunes the InfoMax separation loop. Zero values select the
// package defaults; Seed is used as given so runs stay reproducible.
type ICAParams struct {
	MaxIterations int
	BlockSize     int
	LearningRate  float64
	Anneal        float64
	Tolerance     float64
	Seed          int64
}

func (p ICAParams) withDefaults(samples int) ICAParams {
	if p.MaxIterations <= 0 {
		p.MaxIterations = defaultICAMaxIterations
	}
	if p.BlockSize <= 0 {
		// The usual InfoMax block heuristic, roughly sqrt of the sample count.
		p.BlockSize = int(math.Sqrt(float64(samples) / 3.0))
		if p.BlockSize < 1 {
			p.BlockSize = 1
		}
	}
	if p.LearningRate <= 0 {
		p.LearningRate = defaultICALearningRate
	}
	if p.Anneal <= 0 || p.Anneal > 1 {
		p.Anneal = defaultICAAnneal
	}
	if p.Tolerance <= 0 {
		p.Tolerance = defaultICATolerance
	}
	return p
}

// ICA2 computes an independent-component basis from a trained PCA basis and
// the PCA coordinates of the training images (architecture II: independence
// across coefficients, one mixed signal per component row). The coordinates
// are centered per row and whitened with wz = 2·C^(−1/2), where C is their
// sample covariance, then an InfoMax natural-gradient iteration estimates the
// unmixing matrix U over the whitened data. The returned basis composes
// everything back to image space: W_icaᵀ = (U·wz)·W_pcaᵀ.
//
// The iteration processes shuffled sample blocks with an annealed learning
// rate; the shuffle order derives from params.Seed, so a fixed seed yields a
// bit-identical basis. It stops once the per-sweep weight delta drops below
// params.Tolerance or after params.MaxIterations sweeps. Exploding weights
// surface ErrDiverged; a covariance that cannot be whitened because some
// component carries no variance surfaces matrix.ErrSingular.
func ICA2(WpcaT, Ppca *matrix.Matrix, params ICAParams) (*matrix.Matrix, error) {
	n := Ppca.Cols()
	p := params.withDefaults(n)

	X := Ppca.Clone()
	if err := X.SubColumns(Ppca.MeanRows()); err != nil {
		return nil, err
	}

	wz, err := whiten(X, n)
	if err != nil {
		return nil, err
	}
	Xw, err := wz.Mul(X)
	if err != nil {
		return nil, err
	}

	U, err := infomax(Xw, p)
	if err != nil {
		return nil, err
	}

	uw, err := U.Mul(wz)
	if err != nil {
		return nil, err
	}
	WicaT, err := uw.Mul(WpcaT)
	if err != nil {
		return nil, fmt.Errorf("ica composition: %w", err)
	}
	return WicaT, nil
}

// whiten returns wz = 2·C^(−1/2) for the centered data X, with C the sample
// covariance over its n columns. The inverse square root comes from the
// symmetric eigendecomposition of C; a non-positive eigenvalue means a
// component carries no variance and the data cannot be whitened.
func whiten(X *matrix.Matrix, n int) (*matrix.Matrix, error) {
	if n < 2 {
		return nil, fmt.Errorf("whitening needs at least 2 samples, got %d: %w", n, matrix.ErrSingular)
	}
	C, err := X.Mul(X.T())
	if err != nil {
		return nil, err
	}
	C.DivScale(float64(n - 1))

	vals, vecs, err := C.Eigen()
	if err != nil {
		return nil, fmt.Errorf("whitening eigendecomposition: %w", err)
	}

	m := C.Rows()
	d := matrix.New(m, m)
	for i := 0; i < m; i++ {
		ev := vals.At(i, 0)
		if ev <= 0 {
			return nil, fmt.Errorf("whitening: covariance eigenvalue %g is not positive: %w", ev, matrix.ErrSingular)
		}
		d.Set(i, i, 1/math.Sqrt(ev))
	}

	vd, err := vecs.Mul(d)
	if err != nil {
		return nil, err
	}
	wz, err := vd.Mul(vecs.T())
	if err != nil {
		return nil, err
	}
	wz.Scale(2)
	return wz, nil
}

// infomax estimates the unmixing matrix for the whitened data Xw with the
// Bell-Sejnowski natural-gradient rule and a logistic nonlinearity:
// W ← W + lrate·(b·I + (1 − 2g(W·x))·(W·x)ᵀ)·W over shuffled sample blocks
// of size b.
func infomax(Xw *matrix.Matrix, p ICAParams) (*matrix.Matrix, error) {
	n := Xw.Cols()
	W := matrix.Identity(Xw.Rows())
	rng := rand.New(rand.NewSource(p.Seed))
	lrate := p.LearningRate

	for sweep := 0; sweep < p.MaxIterations; sweep++ {
		prev := W.Clone()

		shuffled, err := Xw.ReorderColumns(rng.Perm(n))
		if err != nil {
			return nil, err
		}
		for from := 0; from < n; from += p.BlockSize {
			to := from + p.BlockSize
			if to > n {
				to = n
			}
			block, err := shuffled.ColumnSlice(from, to)
			if err != nil {
				return nil, err
			}
			if err := infomaxStep(W, block, lrate); err != nil {
				return nil, err
			}
		}

		norm := W.Norm()
		if math.IsNaN(norm) || norm > weightCeiling {
			return nil, fmt.Errorf("sweep %d at rate %g: %w", sweep, lrate, ErrDiverged)
		}

		if err := prev.Sub(W); err != nil {
			return nil, err
		}
		if prev.Norm() < p.Tolerance {
			break
		}
		lrate *= p.Anneal
	}
	return W, nil
}

// infomaxStep applies one natural-gradient block update to W in place.
func infomaxStep(W, block *matrix.Matrix, lrate float64) error {
	u, err := W.Mul(block)
	if err != nil {
		return err
	}

	// The logistic score 1 − 2g(u) with g(u) = 1/(1+e^(−u)).
	g := u.Clone()
	g.Negate()
	g.Exp()
	g.Shift(1)
	g.RecipScale(1)
	g.Scale(-2)
	g.Shift(1)

	grad, err := g.Mul(u.T())
	if err != nil {
		return err
	}
	bias := matrix.Identity(W.Rows())
	bias.Scale(float64(block.Cols()))
	if err := grad.Add(bias); err != nil {
		return err
	}

	dw, err := grad.Mul(W)
	if err != nil {
		return err
	}
	dw.Scale(lrate)
	return W.Add(dw)
}

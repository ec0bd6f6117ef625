package subspace

import (
	"fmt"

	"github.com/tkral/faceid/internal/matrix"
)

// classBlock is one contiguous run of columns sharing a label.
type classBlock struct {
	label    int
	from, to int // column range [from, to)
}

// classBlocks splits labels into contiguous per-class runs. A label that
// reappears after a different one means the columns are not grouped by class.
func classBlocks(labels []int) ([]classBlock, error) {
	var blocks []classBlock
	seen := make(map[int]bool)
	for i := 0; i < len(labels); {
		label := labels[i]
		if seen[label] {
			return nil, fmt.Errorf("class %d split across blocks: %w", label, ErrClassesNotContiguous)
		}
		seen[label] = true
		j := i
		for j < len(labels) && labels[j] == label {
			j++
		}
		blocks = append(blocks, classBlock{label: label, from: i, to: j})
		i = j
	}
	return blocks, nil
}

// Scatter computes the between-class scatter S_b and within-class scatter S_w
// of X, whose columns must be grouped into contiguous class blocks described
// by labels (one label per column). The grand mean weights every class
// equally regardless of its image count; each S_b term is weighted by its
// class size, and S_w sums the outer products of the mean-centered class
// blocks.
func Scatter(X *matrix.Matrix, labels []int) (sb, sw *matrix.Matrix, err error) {
	if len(labels) != X.Cols() {
		return nil, nil, fmt.Errorf("scatter: %d labels for %d columns: %w", len(labels), X.Cols(), matrix.ErrDimensionMismatch)
	}
	blocks, err := classBlocks(labels)
	if err != nil {
		return nil, nil, err
	}

	classes := make([]*matrix.Matrix, len(blocks))
	means := make([]*matrix.Matrix, len(blocks))
	for i, b := range blocks {
		class, err := X.ColumnSlice(b.from, b.to)
		if err != nil {
			return nil, nil, err
		}
		classes[i] = class
		means[i] = class.MeanColumn()
	}

	grand := matrix.New(X.Rows(), 1)
	for _, mu := range means {
		if err := grand.Add(mu); err != nil {
			return nil, nil, err
		}
	}
	grand.DivScale(float64(len(blocks)))

	sb = matrix.New(X.Rows(), X.Rows())
	sw = matrix.New(X.Rows(), X.Rows())
	for i, class := range classes {
		// S_b term: n_i·(μ_i − μ)(μ_i − μ)ᵀ.
		d := means[i].Clone()
		if err := d.Sub(grand); err != nil {
			return nil, nil, err
		}
		between, err := d.Mul(d.T())
		if err != nil {
			return nil, nil, err
		}
		between.Scale(float64(class.Cols()))
		if err := sb.Add(between); err != nil {
			return nil, nil, err
		}

		// S_w term: the mean-centered class block times its transpose.
		if err := class.SubColumns(means[i]); err != nil {
			return nil, nil, err
		}
		within, err := class.Mul(class.T())
		if err != nil {
			return nil, nil, err
		}
		if err := sw.Add(within); err != nil {
			return nil, nil, err
		}
	}
	return sb, sw, nil
}

// LDA computes the Fisherface basis from a trained PCA basis and the PCA
// coordinates of the training images. It solves the Fisher criterion through
// the eigenvectors of S_w⁻¹·S_b over the PCA coordinates, sorted by
// descending eigenvalue, and composes the result with the PCA basis so the
// returned matrix maps image space directly into discriminant space:
// W_ldaᵀ = W_fldᵀ·W_pcaᵀ.
//
// A singular within-class scatter, typical of classes with no variation or
// too few images per class, surfaces matrix.ErrSingular.
func LDA(WpcaT, Ppca *matrix.Matrix, labels []int) (*matrix.Matrix, error) {
	sb, sw, err := Scatter(Ppca, labels)
	if err != nil {
		return nil, err
	}

	swInv, err := sw.Inverse()
	if err != nil {
		return nil, fmt.Errorf("within-class scatter: %w", err)
	}
	J, err := swInv.Mul(sb)
	if err != nil {
		return nil, fmt.Errorf("fisher criterion: %w", err)
	}

	vals, vecs, err := J.Eigen()
	if err != nil {
		return nil, fmt.Errorf("fisher eigendecomposition: %w", err)
	}
	_, Wfld, err := sortEigenDesc(vals, vecs)
	if err != nil {
		return nil, fmt.Errorf("fisher component order: %w", err)
	}

	WldaT, err := Wfld.T().Mul(WpcaT)
	if err != nil {
		return nil, fmt.Errorf("lda composition: %w", err)
	}
	return WldaT, nil
}

package facedb

import (
	"fmt"

	"github.com/tkral/faceid/internal/matrix"
	"github.com/tkral/faceid/internal/subspace"
)

// TrainOptions selects the optional bases and how training images are
// prepared. OnProgress, when set, is called after every file is considered.
type TrainOptions struct {
	LDA bool
	ICA bool

	ICAParams subspace.ICAParams

	// ResizeWidth/ResizeHeight normalize every image to a fixed geometry
	// before vectorization. Zero leaves images as they are, in which case
	// all of them must already agree.
	ResizeWidth  int
	ResizeHeight int

	OnProgress func(done, total int)
}

// Train builds a model from the labeled images under dir. The eigenface
// basis is always trained; Fisherfaces and independent components are
// trained on request. Unlabeled and undecodable files are ignored.
func Train(dir string, opts TrainOptions) (*Database, error) {
	files, _, err := scanDir(dir)
	if err != nil {
		return nil, err
	}
	labeled := make([]imageFile, 0, len(files))
	for _, f := range files {
		if f.class >= 0 {
			labeled = append(labeled, f)
		}
	}

	kept, X, _, _, err := loadVectors(labeled, opts.ResizeWidth, opts.ResizeHeight, opts.OnProgress)
	if err != nil {
		return nil, err
	}

	db := &Database{entries: make([]Entry, len(kept))}
	labels := make([]int, len(kept))
	for i, f := range kept {
		db.entries[i] = Entry{Class: f.class, Name: f.name}
		labels[i] = f.class
	}
	db.numClasses = countClasses(db.entries)

	db.meanFace = X.MeanColumn()
	if err := X.SubColumns(db.meanFace); err != nil {
		return nil, err
	}

	if db.wPCAT, err = subspace.PCA(X); err != nil {
		return nil, fmt.Errorf("train pca: %w", err)
	}
	if db.pPCA, err = db.wPCAT.Mul(X); err != nil {
		return nil, err
	}

	if opts.LDA {
		if db.wLDAT, err = subspace.LDA(db.wPCAT, db.pPCA, labels); err != nil {
			return nil, fmt.Errorf("train lda: %w", err)
		}
		if db.pLDA, err = db.wLDAT.Mul(X); err != nil {
			return nil, err
		}
	}

	if opts.ICA {
		// Mean subtraction leaves at most n−1 independent directions in the
		// training matrix, so the trailing eigenface carries no variance and
		// would make the whitening covariance singular. ICA sees the leading
		// n−1 components.
		wT, pT, err := leadingComponents(db.wPCAT, db.pPCA, len(kept)-1)
		if err != nil {
			return nil, err
		}
		if db.wICAT, err = subspace.ICA2(wT, pT, opts.ICAParams); err != nil {
			return nil, fmt.Errorf("train ica: %w", err)
		}
		if db.pICA, err = db.wICAT.Mul(X); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// leadingComponents keeps the first k rows of a transposed basis and of its
// projection matrix.
func leadingComponents(wT, p *matrix.Matrix, k int) (*matrix.Matrix, *matrix.Matrix, error) {
	wk, err := wT.T().ColumnSlice(0, k)
	if err != nil {
		return nil, nil, err
	}
	pk, err := p.T().ColumnSlice(0, k)
	if err != nil {
		return nil, nil, err
	}
	return wk.T(), pk.T(), nil
}

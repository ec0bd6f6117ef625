// Package facedb trains, persists and queries appearance-based face
// recognition models. A model is built from a directory of labeled face
// images; recognition projects probe images through the trained subspace
// bases and matches them to the nearest training image.
package facedb

import (
	"errors"

	"github.com/tkral/faceid/internal/matrix"
)

var (
	// ErrNoImages reports a training or test directory with no usable images.
	ErrNoImages = errors.New("facedb: no usable images")

	// ErrInconsistentDimensions reports images whose pixel dimensions do not
	// agree with each other or with the trained model.
	ErrInconsistentDimensions = errors.New("facedb: inconsistent image dimensions")

	// ErrCorruptModel reports model artifacts that fail structural checks.
	ErrCorruptModel = errors.New("facedb: corrupt model artifact")
)

// Algorithm names as they appear in match results.
const (
	AlgPCA = "pca"
	AlgLDA = "lda"
	AlgICA = "ica"
)

// Entry identifies one training image: its class id and display name.
type Entry struct {
	Class int
	Name  string
}

// Database is a trained face recognition model. It is immutable once
// returned by Train or Load, which is what makes concurrent Recognize calls
// safe without locking.
type Database struct {
	entries    []Entry
	numClasses int

	meanFace *matrix.Matrix // d×1 mean of the training columns
	wPCAT    *matrix.Matrix // n×d eigenface basis, one component per row
	pPCA     *matrix.Matrix // n×n training projections
	wLDAT    *matrix.Matrix // optional Fisherface basis
	pLDA     *matrix.Matrix
	wICAT    *matrix.Matrix // optional independent-component basis
	pICA     *matrix.Matrix
}

// NumImages returns the number of training images.
func (db *Database) NumImages() int { return len(db.entries) }

// NumClasses returns the number of distinct training classes.
func (db *Database) NumClasses() int { return db.numClasses }

// NumDimensions returns the pixel dimensionality the model was trained with.
func (db *Database) NumDimensions() int { return db.meanFace.Rows() }

// HasLDA reports whether the Fisherface basis was trained.
func (db *Database) HasLDA() bool { return db.wLDAT != nil }

// HasICA reports whether the independent-component basis was trained.
func (db *Database) HasICA() bool { return db.wICAT != nil }

// Entries returns a copy of the training entries in storage order.
func (db *Database) Entries() []Entry {
	out := make([]Entry, len(db.entries))
	copy(out, db.entries)
	return out
}

// Algorithms lists the trained bases in recognition order.
func (db *Database) Algorithms() []string {
	algs := []string{AlgPCA}
	if db.HasLDA() {
		algs = append(algs, AlgLDA)
	}
	if db.HasICA() {
		algs = append(algs, AlgICA)
	}
	return algs
}

// trainedBasis pairs a projection basis with the training projections it
// produced.
type trainedBasis struct {
	name string
	w, p *matrix.Matrix
}

func (db *Database) bases() []trainedBasis {
	b := []trainedBasis{{AlgPCA, db.wPCAT, db.pPCA}}
	if db.wLDAT != nil {
		b = append(b, trainedBasis{AlgLDA, db.wLDAT, db.pLDA})
	}
	if db.wICAT != nil {
		b = append(b, trainedBasis{AlgICA, db.wICAT, db.pICA})
	}
	return b
}

func countClasses(entries []Entry) int {
	seen := make(map[int]struct{}, len(entries))
	for _, e := range entries {
		seen[e.Class] = struct{}{}
	}
	return len(seen)
}

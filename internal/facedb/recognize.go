package facedb

import (
	"fmt"
	"image"
	"math"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tkral/faceid/internal/matrix"
)

// Match is one algorithm's nearest-neighbor answer for a probe image.
// Correct is nil when the probe's layout carries no ground truth.
type Match struct {
	Algorithm string
	Index     int
	Class     int
	Name      string
	Distance  float64
	Correct   *bool
}

// Result holds the matches for one probe image. Err is set when the image
// could not be loaded or does not fit the model.
type Result struct {
	Path    string
	Matches []Match
	Err     error
}

// RecognizeOptions tunes the directory recognition pass.
type RecognizeOptions struct {
	// Concurrency bounds the number of images processed in parallel.
	// Values below 1 mean sequential.
	Concurrency int

	// ResizeWidth/ResizeHeight normalize probes the same way the training
	// images were normalized.
	ResizeWidth  int
	ResizeHeight int

	OnProgress func(done, total int)
}

// Recognize matches every image under dir against the model. Probes run
// concurrently; the database is read-only so workers share it without locks.
// Results come back in directory scan order, one per discovered file.
func (db *Database) Recognize(dir string, opts RecognizeOptions) ([]Result, error) {
	files, nested, err := scanDir(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoImages
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]Result, len(files))
	var done int
	var mu sync.Mutex

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, f := range files {
		wg.Add(1)
		go func(i int, f imageFile) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res := Result{Path: f.path}
			vec, w, h, err := loadImageVector(f.path, opts.ResizeWidth, opts.ResizeHeight)
			switch {
			case err != nil:
				res.Err = err
			case w*h != db.NumDimensions():
				res.Err = fmt.Errorf("%s is %dx%d, model expects %d values: %w",
					f.path, w, h, db.NumDimensions(), ErrInconsistentDimensions)
			default:
				res.Matches = db.match(vec)
				applyTruth(res.Matches, f, nested)
			}

			mu.Lock()
			results[i] = res
			done++
			if opts.OnProgress != nil {
				opts.OnProgress(done, len(files))
			}
			mu.Unlock()
		}(i, f)
	}
	wg.Wait()

	return results, nil
}

// RecognizeImage matches a single decoded image against the model. It is the
// path shared by the CLI and the web server; ground truth is never available
// here, so Correct stays nil.
func (db *Database) RecognizeImage(img image.Image) ([]Match, error) {
	vec, w, h := vectorize(img)
	if w*h != db.NumDimensions() {
		return nil, fmt.Errorf("image is %dx%d, model expects %d values: %w",
			w, h, db.NumDimensions(), ErrInconsistentDimensions)
	}
	return db.match(vec), nil
}

// match projects a raw image vector through every trained basis and finds
// the nearest training projection for each. Dimensions are the caller's
// contract.
func (db *Database) match(vec []float64) []Match {
	probe := matrix.FromColumn(vec)
	if err := probe.Sub(db.meanFace); err != nil {
		return nil
	}

	matches := make([]Match, 0, 3)
	for _, basis := range db.bases() {
		q, err := basis.w.Mul(probe)
		if err != nil {
			continue
		}
		idx, dist := nearestColumn(basis.p, q)
		e := db.entries[idx]
		matches = append(matches, Match{
			Algorithm: basis.name,
			Index:     idx,
			Class:     e.Class,
			Name:      e.Name,
			Distance:  dist,
		})
	}
	return matches
}

// nearestColumn scans P for the column closest to q by squared Euclidean
// distance. Ties go to the lowest index.
func nearestColumn(P, q *matrix.Matrix) (int, float64) {
	best, bestDist := 0, math.Inf(1)
	for j := 0; j < P.Cols(); j++ {
		var dist float64
		for i := 0; i < P.Rows(); i++ {
			d := P.At(i, j) - q.At(i, 0)
			dist += d * d
		}
		if dist < bestDist {
			best, bestDist = j, dist
		}
	}
	return best, bestDist
}

// applyTruth fills in the Correct field when the probe's location names its
// class: nested layouts compare normalized names, flat layouts compare the
// numeric class id.
func applyTruth(matches []Match, f imageFile, nested bool) {
	switch {
	case nested && f.name != "":
		want := normalizeName(f.name)
		for i := range matches {
			ok := normalizeName(matches[i].Name) == want
			matches[i].Correct = &ok
		}
	case !nested && f.class >= 0:
		for i := range matches {
			ok := matches[i].Class == f.class
			matches[i].Correct = &ok
		}
	}
}

// normalizeName folds case and strips diacritics so directory names match
// stored entries regardless of accents ("Jiří" matches "jiri").
func normalizeName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

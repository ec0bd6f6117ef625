package facedb

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	// Register the decoders the loader accepts through image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	_ "github.com/tkral/faceid/internal/pnm"

	"github.com/tkral/faceid/internal/matrix"
)

// imageFile is one discovered image with the label information its location
// provides. A class of -1 means the layout carries no label.
type imageFile struct {
	path  string
	class int
	name  string
}

// scanDir discovers images under dir. When dir has subdirectories, each one
// is a class: the display name is the directory name and class ids follow
// sorted-name order. A flat directory falls back to `<digits>_*` filename
// prefixes as class ids, with the remainder (without extension) as the name;
// files without the prefix stay unlabeled. Returned files are sorted by
// class id then path, so same-class images are contiguous by construction.
func scanDir(dir string) (files []imageFile, nested bool, err error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, false, fmt.Errorf("scan %s: %w", dir, err)
	}

	var subdirs []string
	for _, de := range dirents {
		if strings.HasPrefix(de.Name(), ".") {
			continue
		}
		if de.IsDir() {
			subdirs = append(subdirs, de.Name())
		}
	}

	if len(subdirs) > 0 {
		sort.Strings(subdirs)
		for class, name := range subdirs {
			children, err := os.ReadDir(filepath.Join(dir, name))
			if err != nil {
				return nil, false, fmt.Errorf("scan %s: %w", filepath.Join(dir, name), err)
			}
			for _, de := range children {
				if de.IsDir() || strings.HasPrefix(de.Name(), ".") {
					continue
				}
				files = append(files, imageFile{
					path:  filepath.Join(dir, name, de.Name()),
					class: class,
					name:  name,
				})
			}
		}
		sortFiles(files)
		return files, true, nil
	}

	for _, de := range dirents {
		if strings.HasPrefix(de.Name(), ".") {
			continue
		}
		class, name := parseFlatName(de.Name())
		files = append(files, imageFile{
			path:  filepath.Join(dir, de.Name()),
			class: class,
			name:  name,
		})
	}
	sortFiles(files)
	return files, false, nil
}

func sortFiles(files []imageFile) {
	sort.Slice(files, func(a, b int) bool {
		if files[a].class != files[b].class {
			return files[a].class < files[b].class
		}
		return files[a].path < files[b].path
	})
}

// parseFlatName splits `<digits>_rest.ext` into a class id and display name.
// Anything else is unlabeled.
func parseFlatName(filename string) (class int, name string) {
	digits, rest, ok := strings.Cut(filename, "_")
	if !ok || digits == "" {
		return -1, ""
	}
	id, err := strconv.Atoi(digits)
	if err != nil || id < 0 {
		return -1, ""
	}
	return id, strings.TrimSuffix(rest, filepath.Ext(rest))
}

// loadVectors decodes every file into a column of a fresh image matrix.
// Undecodable files are skipped; the survivors are returned alongside the
// matrix. All images must share pixel dimensions unless a resize is forced.
func loadVectors(files []imageFile, resizeW, resizeH int, onProgress func(done, total int)) (kept []imageFile, X *matrix.Matrix, width, height int, err error) {
	var vectors [][]float64
	for i, f := range files {
		vec, w, h, err := loadImageVector(f.path, resizeW, resizeH)
		if onProgress != nil {
			onProgress(i+1, len(files))
		}
		if err != nil {
			continue // not an image, or unreadable
		}
		if len(vectors) == 0 {
			width, height = w, h
		} else if w != width || h != height {
			return nil, nil, 0, 0, fmt.Errorf("%s is %dx%d, earlier images are %dx%d: %w",
				f.path, w, h, width, height, ErrInconsistentDimensions)
		}
		vectors = append(vectors, vec)
		kept = append(kept, f)
	}
	if len(vectors) == 0 {
		return nil, nil, 0, 0, ErrNoImages
	}

	X = matrix.New(width*height, len(vectors))
	for j, vec := range vectors {
		for i, v := range vec {
			X.Set(i, j, v)
		}
	}
	return kept, X, width, height, nil
}

// loadImageVector decodes one file and vectorizes it, resizing first when a
// target geometry is given.
func loadImageVector(path string, resizeW, resizeH int) (vec []float64, width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	if resizeW > 0 && resizeH > 0 {
		img = resizeImage(img, resizeW, resizeH)
	}

	vec, width, height = vectorize(img)
	return vec, width, height, nil
}

// vectorize flattens an image into raster order under ITU-R BT.601 luma.
// Grayscale sources pass through unchanged since their channels are equal.
func vectorize(img image.Image) (vec []float64, width, height int) {
	bounds := img.Bounds()
	width, height = bounds.Dx(), bounds.Dy()

	vec = make([]float64, 0, width*height)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			luma := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			vec = append(vec, luma)
		}
	}
	return vec, width, height
}

func resizeImage(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

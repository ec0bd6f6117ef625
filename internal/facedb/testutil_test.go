package facedb

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tkral/faceid/internal/pnm"
)

// syntheticFace builds a deterministic 4×4 face: a bright class marker pixel
// in the bottom half plus one shot-specific bump pixel in the top half. The
// markers keep classes far apart and the distinct bump pixels keep every
// training column affinely independent, so a set of n images always spans
// n−1 directions after mean subtraction. Supports up to 3 classes × 3 shots.
func syntheticFace(class, shot int) []uint8 {
	pix := make([]uint8, 16)
	pix[9+class] = 200
	pix[3*class+shot] = 50
	return pix
}

// writePGM encodes raster-order pixels as a raw PGM file.
func writePGM(t *testing.T, path string, width, height int, pixels []uint8) {
	t.Helper()
	require.Len(t, pixels, width*height)

	img := image.NewGray(image.Rect(0, 0, width, height))
	copy(img.Pix, pixels)

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, pnm.EncodePGM(f, img))
	require.NoError(t, f.Close())
}

// nestedDir lays out shots-per-class 4×4 faces under one subdirectory per
// class name, the labeled training layout.
func nestedDir(t *testing.T, names []string, shots int) string {
	t.Helper()
	dir := t.TempDir()
	for class, name := range names {
		require.NoError(t, os.Mkdir(filepath.Join(dir, name), 0o755))
		for shot := 0; shot < shots; shot++ {
			path := filepath.Join(dir, name, filename(shot))
			writePGM(t, path, 4, 4, syntheticFace(class, shot))
		}
	}
	return dir
}

// flatDir lays out the same faces as `<class>_<name>_<shot>.pgm` files.
func flatDir(t *testing.T, names []string, shots int) string {
	t.Helper()
	dir := t.TempDir()
	for class, name := range names {
		for shot := 0; shot < shots; shot++ {
			path := filepath.Join(dir, flatFilename(class, name, shot))
			writePGM(t, path, 4, 4, syntheticFace(class, shot))
		}
	}
	return dir
}

func filename(shot int) string {
	return fmt.Sprintf("shot%02d.pgm", shot)
}

func flatFilename(class int, name string, shot int) string {
	return fmt.Sprintf("%d_%s_%d.pgm", class, name, shot)
}

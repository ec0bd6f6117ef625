package facedb

import (
	"fmt"
	"image"

	"github.com/tkral/faceid/internal/matrix"
)

// MeanFaceImage renders the stored mean face as a width×height grayscale
// image. The artifacts do not record pixel geometry, so callers supply the
// dimensions the model was trained with.
func (db *Database) MeanFaceImage(width, height int) (*image.Gray, error) {
	if err := db.checkGeometry(width, height); err != nil {
		return nil, err
	}
	return grayFromColumn(db.meanFace, width, height), nil
}

// BasisImage renders eigenface i, min-max normalized into the 8-bit range so
// the component's structure is visible.
func (db *Database) BasisImage(i, width, height int) (*image.Gray, error) {
	if i < 0 || i >= db.wPCAT.Rows() {
		return nil, fmt.Errorf("facedb: basis index %d out of range [0,%d)", i, db.wPCAT.Rows())
	}
	if err := db.checkGeometry(width, height); err != nil {
		return nil, err
	}

	col := matrix.New(db.NumDimensions(), 1)
	for j := 0; j < db.NumDimensions(); j++ {
		col.Set(j, 0, db.wPCAT.At(i, j))
	}
	col.Normalize()
	col.Scale(255)
	col.Trunc()
	return grayFromColumn(col, width, height), nil
}

func (db *Database) checkGeometry(width, height int) error {
	if width <= 0 || height <= 0 || width*height != db.NumDimensions() {
		return fmt.Errorf("%dx%d does not span the model's %d dimensions: %w",
			width, height, db.NumDimensions(), ErrInconsistentDimensions)
	}
	return nil
}

// grayFromColumn writes a d×1 column back into raster order, clamping to the
// byte range.
func grayFromColumn(col *matrix.Matrix, width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := 0; i < col.Rows(); i++ {
		v := col.At(i, 0)
		switch {
		case v < 0:
			v = 0
		case v > 255:
			v = 255
		}
		img.Pix[i] = uint8(v)
	}
	return img
}

package pnm

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
)

// EncodePGM writes img to w as a raw PGM (P5) with an 8-bit maxval. Color
// pixels are converted through the standard grayscale model.
func EncodePGM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P5\n%d %d\n255\n", bounds.Dx(), bounds.Dy()); err != nil {
		return err
	}

	gray, isGray := img.(*image.Gray)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			var v uint8
			if isGray {
				v = gray.GrayAt(x, y).Y
			} else {
				v = color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
			}
			if err := bw.WriteByte(v); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// EncodePPM writes img to w as a raw PPM (P6) with an 8-bit maxval.
func EncodePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", bounds.Dx(), bounds.Dy()); err != nil {
		return err
	}

	var pix [3]byte
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			pix[0], pix[1], pix[2] = uint8(r>>8), uint8(g>>8), uint8(b>>8)
			if _, err := bw.Write(pix[:]); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

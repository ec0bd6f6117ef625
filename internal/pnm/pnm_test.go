package pnm

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"io"
	"testing"
)

func TestDecodeP5(t *testing.T) {
	data := append([]byte("P5\n2 2\n255\n"), 0, 64, 128, 255)

	img, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	gray, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("Decode returned %T; want *image.Gray", img)
	}
	want := []uint8{0, 64, 128, 255}
	for i, w := range want {
		x, y := i%2, i/2
		if got := gray.GrayAt(x, y).Y; got != w {
			t.Errorf("pixel (%d,%d) = %d; want %d", x, y, got, w)
		}
	}
}

func TestDecodeP2WithComments(t *testing.T) {
	data := []byte("P2 # plain gray\n# dimensions follow\n2 2\n255\n0 64 # first row\n128 255\n")

	img, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	gray := img.(*image.Gray)
	want := []uint8{0, 64, 128, 255}
	for i, w := range want {
		x, y := i%2, i/2
		if got := gray.GrayAt(x, y).Y; got != w {
			t.Errorf("pixel (%d,%d) = %d; want %d", x, y, got, w)
		}
	}
}

func TestDecode16BitMaxvalScaling(t *testing.T) {
	data := append([]byte("P5\n3 1\n65535\n"),
		0x00, 0x00, // 0     -> 0
		0xff, 0xff, // 65535 -> 255
		0x80, 0x00, // 32768 -> 128
	)

	img, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	gray := img.(*image.Gray)
	want := []uint8{0, 255, 128}
	for x, w := range want {
		if got := gray.GrayAt(x, 0).Y; got != w {
			t.Errorf("pixel (%d,0) = %d; want %d", x, got, w)
		}
	}
}

func TestDecodeLowMaxvalScaling(t *testing.T) {
	data := []byte("P2\n2 1\n15\n15 7\n")

	img, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	gray := img.(*image.Gray)
	if got := gray.GrayAt(0, 0).Y; got != 255 {
		t.Errorf("pixel (0,0) = %d; want 255", got)
	}
	if got := gray.GrayAt(1, 0).Y; got != 119 {
		t.Errorf("pixel (1,0) = %d; want 119", got)
	}
}

func TestDecodeP3(t *testing.T) {
	data := []byte("P3\n1 2\n255\n255 0 0\n0 255 0\n")

	img, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	rgba, ok := img.(*image.RGBA)
	if !ok {
		t.Fatalf("Decode returned %T; want *image.RGBA", img)
	}
	if got := rgba.RGBAAt(0, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("pixel (0,0) = %v; want red", got)
	}
	if got := rgba.RGBAAt(0, 1); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("pixel (0,1) = %v; want green", got)
	}
}

func TestDecodeP6(t *testing.T) {
	data := append([]byte("P6\n2 1\n255\n"), 10, 20, 30, 40, 50, 60)

	img, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	rgba := img.(*image.RGBA)
	if got := rgba.RGBAAt(0, 0); got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("pixel (0,0) = %v", got)
	}
	if got := rgba.RGBAAt(1, 0); got != (color.RGBA{R: 40, G: 50, B: 60, A: 255}) {
		t.Errorf("pixel (1,0) = %v", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown magic", "P7\n1 1\n255\n"},
		{"zero width", "P5\n0 1\n255\n"},
		{"negative height", "P5\n1 -1\n255\n"},
		{"bad dimension token", "P5\nwide 1\n255\n"},
		{"maxval zero", "P5\n1 1\n0\n"},
		{"maxval too large", "P5\n1 1\n70000\n"},
		{"sample exceeds maxval", "P2\n1 1\n100\n101\n"},
		{"empty input", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(bytes.NewReader([]byte(tc.data))); err == nil {
				t.Errorf("Decode(%q) succeeded; want error", tc.data)
			}
		})
	}
}

func TestDecodeTruncatedRaster(t *testing.T) {
	data := append([]byte("P5\n2 2\n255\n"), 1, 2) // two of four pixels

	_, err := Decode(bytes.NewReader(data))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("Decode returned %v; want io.ErrUnexpectedEOF", err)
	}
}

func TestDecodeConfig(t *testing.T) {
	cfg, err := DecodeConfig(bytes.NewReader([]byte("P6\n640 480\n255\n")))
	if err != nil {
		t.Fatalf("DecodeConfig failed: %v", err)
	}
	if cfg.Width != 640 || cfg.Height != 480 {
		t.Errorf("config = %dx%d; want 640x480", cfg.Width, cfg.Height)
	}
	if cfg.ColorModel != color.RGBAModel {
		t.Errorf("color model = %v; want RGBA", cfg.ColorModel)
	}
}

func TestEncodePGMRoundTrip(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 2))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 40)
	}

	var buf bytes.Buffer
	if err := EncodePGM(&buf, src); err != nil {
		t.Fatalf("EncodePGM failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("P5\n3 2\n255\n")) {
		t.Fatalf("unexpected header: %q", buf.Bytes()[:12])
	}

	img, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	gray := img.(*image.Gray)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if got, want := gray.GrayAt(x, y).Y, src.GrayAt(x, y).Y; got != want {
				t.Errorf("pixel (%d,%d) = %d; want %d", x, y, got, want)
			}
		}
	}
}

func TestEncodePPMRoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(0, 0, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	src.SetRGBA(1, 0, color.RGBA{R: 200, G: 100, B: 50, A: 255})
	src.SetRGBA(0, 1, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	src.SetRGBA(1, 1, color.RGBA{A: 255})

	var buf bytes.Buffer
	if err := EncodePPM(&buf, src); err != nil {
		t.Fatalf("EncodePPM failed: %v", err)
	}

	img, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	rgba := img.(*image.RGBA)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got, want := rgba.RGBAAt(x, y), src.RGBAAt(x, y); got != want {
				t.Errorf("pixel (%d,%d) = %v; want %v", x, y, got, want)
			}
		}
	}
}

func TestRegisteredWithImagePackage(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		format string
	}{
		{"raw pgm", append([]byte("P5\n1 1\n255\n"), 42), "pgm"},
		{"plain ppm", []byte("P3\n1 1\n255\n1 2 3\n"), "ppm"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, format, err := image.Decode(bytes.NewReader(tc.data))
			if err != nil {
				t.Fatalf("image.Decode failed: %v", err)
			}
			if format != tc.format {
				t.Errorf("format = %q; want %q", format, tc.format)
			}
		})
	}
}

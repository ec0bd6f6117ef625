// Package pnm implements decoding and encoding of the portable anymap
// formats face sets commonly ship in: PGM (P2 plain, P5 raw) for grayscale
// and PPM (P3 plain, P6 raw) for color. Importing the package registers the
// formats with the image package, so image.Decode handles them transparently.
package pnm

import (
	"bufio"
	"image"
	"image/color"
	"io"
	"strconv"
)

// FormatError reports that the input is not valid PNM.
type FormatError string

func (e FormatError) Error() string { return "pnm: invalid format: " + string(e) }

func init() {
	image.RegisterFormat("pgm", "P2", Decode, DecodeConfig)
	image.RegisterFormat("pgm", "P5", Decode, DecodeConfig)
	image.RegisterFormat("ppm", "P3", Decode, DecodeConfig)
	image.RegisterFormat("ppm", "P6", Decode, DecodeConfig)
}

type decoder struct {
	r      *bufio.Reader
	magic  string
	width  int
	height int
	maxval int
}

// token returns the next whitespace-delimited header token, skipping `#`
// comments. It consumes exactly one whitespace byte after the token, which is
// how the raw formats separate the maxval from the raster.
func (d *decoder) token() (string, error) {
	var tok []byte
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			if err == io.EOF && len(tok) > 0 {
				return string(tok), nil
			}
			return "", err
		}
		switch {
		case b == '#':
			if err := d.skipComment(); err != nil {
				return "", err
			}
			if len(tok) > 0 {
				return string(tok), nil
			}
		case isSpace(b):
			if len(tok) > 0 {
				return string(tok), nil
			}
		default:
			tok = append(tok, b)
		}
	}
}

func (d *decoder) skipComment() error {
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return err
		}
		if b == '\n' {
			return nil
		}
	}
}

func (d *decoder) intToken() (int, error) {
	tok, err := d.token()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, FormatError("bad integer " + strconv.Quote(tok))
	}
	return v, nil
}

func (d *decoder) parseHeader() error {
	magic, err := d.token()
	if err != nil {
		return FormatError("missing magic number")
	}
	switch magic {
	case "P2", "P3", "P5", "P6":
		d.magic = magic
	default:
		return FormatError("unknown magic number " + strconv.Quote(magic))
	}

	if d.width, err = d.intToken(); err != nil {
		return err
	}
	if d.height, err = d.intToken(); err != nil {
		return err
	}
	if d.width <= 0 || d.height <= 0 {
		return FormatError("non-positive dimensions")
	}
	if d.maxval, err = d.intToken(); err != nil {
		return err
	}
	if d.maxval <= 0 || d.maxval > 65535 {
		return FormatError("maxval " + strconv.Itoa(d.maxval) + " out of range")
	}
	return nil
}

// sample returns the next raster sample scaled to 8 bits. Plain formats read
// ASCII decimals; raw formats read one byte, or two big-endian bytes when the
// maxval needs 16 bits.
func (d *decoder) sample() (uint8, error) {
	var v int
	switch {
	case d.magic == "P2" || d.magic == "P3":
		t, err := d.intToken()
		if err != nil {
			return 0, unexpectedEOF(err)
		}
		v = t
	case d.maxval < 256:
		b, err := d.r.ReadByte()
		if err != nil {
			return 0, unexpectedEOF(err)
		}
		v = int(b)
	default:
		var buf [2]byte
		if _, err := io.ReadFull(d.r, buf[:]); err != nil {
			return 0, unexpectedEOF(err)
		}
		v = int(buf[0])<<8 | int(buf[1])
	}

	if v < 0 || v > d.maxval {
		return 0, FormatError("sample " + strconv.Itoa(v) + " exceeds maxval " + strconv.Itoa(d.maxval))
	}
	if d.maxval != 255 {
		v = (v*255 + d.maxval/2) / d.maxval
	}
	return uint8(v), nil
}

func (d *decoder) decodeGray() (image.Image, error) {
	img := image.NewGray(image.Rect(0, 0, d.width, d.height))
	for y := 0; y < d.height; y++ {
		for x := 0; x < d.width; x++ {
			v, err := d.sample()
			if err != nil {
				return nil, err
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img, nil
}

func (d *decoder) decodeRGB() (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, d.width, d.height))
	for y := 0; y < d.height; y++ {
		for x := 0; x < d.width; x++ {
			r, err := d.sample()
			if err != nil {
				return nil, err
			}
			g, err := d.sample()
			if err != nil {
				return nil, err
			}
			b, err := d.sample()
			if err != nil {
				return nil, err
			}
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 0xff})
		}
	}
	return img, nil
}

// Decode reads a PNM image from r. Grayscale formats decode to *image.Gray,
// color formats to *image.RGBA.
func Decode(r io.Reader) (image.Image, error) {
	d := &decoder{r: bufio.NewReader(r)}
	if err := d.parseHeader(); err != nil {
		return nil, err
	}
	if d.magic == "P2" || d.magic == "P5" {
		return d.decodeGray()
	}
	return d.decodeRGB()
}

// DecodeConfig returns the color model and dimensions of a PNM image without
// decoding the raster.
func DecodeConfig(r io.Reader) (image.Config, error) {
	d := &decoder{r: bufio.NewReader(r)}
	if err := d.parseHeader(); err != nil {
		return image.Config{}, err
	}
	model := color.Model(color.RGBAModel)
	if d.magic == "P2" || d.magic == "P5" {
		model = color.GrayModel
	}
	return image.Config{ColorModel: model, Width: d.width, Height: d.height}, nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}

func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

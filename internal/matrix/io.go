package matrix

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// WriteText writes m in the human-readable text format: a "rows cols" header
// line followed by one whitespace-separated line per row.
func (m *Matrix) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d %d\n", m.rows, m.cols); err != nil {
		return fmt.Errorf("write text header: %w", err)
	}
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			if _, err := fmt.Fprintf(bw, "%g ", m.data[j*m.rows+i]); err != nil {
				return fmt.Errorf("write element (%d,%d): %w", i, j, err)
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// ReadText reads a matrix written by WriteText. The two formats are exact
// inverses: ReadText(WriteText(m)) reproduces m element for element.
func ReadText(r io.Reader) (*Matrix, error) {
	br := bufio.NewReader(r)
	var rows, cols int
	if _, err := fmt.Fscan(br, &rows, &cols); err != nil {
		return nil, fmt.Errorf("read text header: %w", err)
	}
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("read text header: invalid shape %dx%d", rows, cols)
	}
	m := New(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			var v float64
			if _, err := fmt.Fscan(br, &v); err != nil {
				return nil, fmt.Errorf("read element (%d,%d): %w", i, j, err)
			}
			m.data[j*rows+i] = v
		}
	}
	return m, nil
}

// WriteBinary writes m in the model-file binary format: little-endian int32
// rows and cols, then the raw float64 element buffer in the engine's
// column-major order, no padding.
func (m *Matrix) WriteBinary(w io.Writer) error {
	hdr := [2]int32{int32(m.rows), int32(m.cols)}
	if err := binary.Write(w, binary.LittleEndian, hdr[:]); err != nil {
		return fmt.Errorf("write binary header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, m.data); err != nil {
		return fmt.Errorf("write binary data: %w", err)
	}
	return nil
}

// ReadBinary reads a matrix written by WriteBinary. Truncated or corrupt
// input surfaces as a wrapped error, never a panic.
func ReadBinary(r io.Reader) (*Matrix, error) {
	var hdr [2]int32
	if err := binary.Read(r, binary.LittleEndian, hdr[:]); err != nil {
		return nil, fmt.Errorf("read binary header: %w", err)
	}
	if hdr[0] < 0 || hdr[1] < 0 {
		return nil, fmt.Errorf("read binary header: invalid shape %dx%d", hdr[0], hdr[1])
	}
	m := New(int(hdr[0]), int(hdr[1]))
	if err := binary.Read(r, binary.LittleEndian, m.data); err != nil {
		return nil, fmt.Errorf("read binary data (%dx%d): %w", hdr[0], hdr[1], err)
	}
	return m, nil
}

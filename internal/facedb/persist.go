package facedb

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tkral/faceid/internal/matrix"
)

// Optional-basis flags stored in the binary artifact.
const (
	flagLDA uint32 = 1 << 0
	flagICA uint32 = 1 << 1
)

// Save writes the model as two artifacts: a text entry list with one
// `class<TAB>name` line per training image, and a binary bundle holding the
// optional-basis flags followed by every matrix in the engine's binary
// format (mean face, PCA pair, then the LDA and ICA pairs when present).
func (db *Database) Save(setPath, dataPath string) error {
	set, err := os.Create(setPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", setPath, err)
	}
	w := bufio.NewWriter(set)
	for _, e := range db.entries {
		if _, err := fmt.Fprintf(w, "%d\t%s\n", e.Class, e.Name); err != nil {
			set.Close()
			return fmt.Errorf("write %s: %w", setPath, err)
		}
	}
	if err := w.Flush(); err != nil {
		set.Close()
		return fmt.Errorf("write %s: %w", setPath, err)
	}
	if err := set.Close(); err != nil {
		return fmt.Errorf("close %s: %w", setPath, err)
	}

	data, err := os.Create(dataPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", dataPath, err)
	}
	bw := bufio.NewWriter(data)

	var flags uint32
	if db.wLDAT != nil {
		flags |= flagLDA
	}
	if db.wICAT != nil {
		flags |= flagICA
	}
	if err := binary.Write(bw, binary.LittleEndian, flags); err != nil {
		data.Close()
		return fmt.Errorf("write %s: %w", dataPath, err)
	}
	for _, m := range db.matrices() {
		if err := m.WriteBinary(bw); err != nil {
			data.Close()
			return fmt.Errorf("write %s: %w", dataPath, err)
		}
	}
	if err := bw.Flush(); err != nil {
		data.Close()
		return fmt.Errorf("write %s: %w", dataPath, err)
	}
	if err := data.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dataPath, err)
	}
	return nil
}

// matrices lists the stored matrices in artifact order.
func (db *Database) matrices() []*matrix.Matrix {
	ms := []*matrix.Matrix{db.meanFace, db.wPCAT, db.pPCA}
	if db.wLDAT != nil {
		ms = append(ms, db.wLDAT, db.pLDA)
	}
	if db.wICAT != nil {
		ms = append(ms, db.wICAT, db.pICA)
	}
	return ms
}

// Load reads the two model artifacts written by Save and reconstructs an
// equivalent Database, including which optional bases are present.
func Load(setPath, dataPath string) (*Database, error) {
	entries, err := readEntries(setPath)
	if err != nil {
		return nil, err
	}

	data, err := os.Open(dataPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dataPath, err)
	}
	defer data.Close()
	r := bufio.NewReader(data)

	var flags uint32
	if err := binary.Read(r, binary.LittleEndian, &flags); err != nil {
		return nil, fmt.Errorf("read %s flags: %w", dataPath, err)
	}
	if flags&^(flagLDA|flagICA) != 0 {
		return nil, fmt.Errorf("%s declares unknown basis flags %#x: %w", dataPath, flags, ErrCorruptModel)
	}

	db := &Database{entries: entries, numClasses: countClasses(entries)}
	if db.meanFace, err = readMatrix(r, dataPath, "mean face"); err != nil {
		return nil, err
	}
	if db.wPCAT, err = readMatrix(r, dataPath, "pca basis"); err != nil {
		return nil, err
	}
	if db.pPCA, err = readMatrix(r, dataPath, "pca projections"); err != nil {
		return nil, err
	}
	if flags&flagLDA != 0 {
		if db.wLDAT, err = readMatrix(r, dataPath, "lda basis"); err != nil {
			return nil, err
		}
		if db.pLDA, err = readMatrix(r, dataPath, "lda projections"); err != nil {
			return nil, err
		}
	}
	if flags&flagICA != 0 {
		if db.wICAT, err = readMatrix(r, dataPath, "ica basis"); err != nil {
			return nil, err
		}
		if db.pICA, err = readMatrix(r, dataPath, "ica projections"); err != nil {
			return nil, err
		}
	}

	if err := db.validateShapes(); err != nil {
		return nil, err
	}
	return db, nil
}

func readMatrix(r io.Reader, path, what string) (*matrix.Matrix, error) {
	m, err := matrix.ReadBinary(r)
	if err != nil {
		return nil, fmt.Errorf("read %s from %s: %w", what, path, err)
	}
	return m, nil
}

func readEntries(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	for line := 1; sc.Scan(); line++ {
		text := sc.Text()
		if text == "" {
			continue
		}
		class, name, ok := strings.Cut(text, "\t")
		id, convErr := strconv.Atoi(class)
		if !ok || convErr != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, ErrCorruptModel)
		}
		entries = append(entries, Entry{Class: id, Name: name})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%s holds no entries: %w", path, ErrCorruptModel)
	}
	return entries, nil
}

// validateShapes cross-checks the loaded matrices against each other and the
// entry list, so a mismatched artifact pair fails here instead of during
// recognition.
func (db *Database) validateShapes() error {
	if db.meanFace.Cols() != 1 {
		return fmt.Errorf("mean face is %dx%d, want a column: %w", db.meanFace.Rows(), db.meanFace.Cols(), ErrCorruptModel)
	}
	d, n := db.meanFace.Rows(), len(db.entries)

	for _, basis := range db.bases() {
		if basis.w.Cols() != d {
			return fmt.Errorf("%s basis spans %d dimensions, mean face has %d: %w", basis.name, basis.w.Cols(), d, ErrCorruptModel)
		}
		if basis.p.Rows() != basis.w.Rows() || basis.p.Cols() != n {
			return fmt.Errorf("%s projections are %dx%d, want %dx%d: %w", basis.name, basis.p.Rows(), basis.p.Cols(), basis.w.Rows(), n, ErrCorruptModel)
		}
	}
	return nil
}

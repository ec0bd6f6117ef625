package handlers

import (
	"bytes"
	"fmt"
	"image"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/tkral/faceid/internal/facedb"
	"github.com/tkral/faceid/internal/pnm"
)

// testFacePixels builds a deterministic 4x4 face: a bright class marker pixel
// plus one shot-specific bump pixel, so every image is linearly distinguishable.
func testFacePixels(class, shot int) []uint8 {
	pix := make([]uint8, 16)
	pix[9+class] = 200
	pix[3*class+shot] = 50
	return pix
}

// encodePGM renders the pixels as a binary PGM file.
func encodePGM(t *testing.T, pix []uint8, width, height int) []byte {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, width, height))
	copy(img.Pix, pix)

	var buf bytes.Buffer
	if err := pnm.EncodePGM(&buf, img); err != nil {
		t.Fatalf("failed to encode pgm: %v", err)
	}
	return buf.Bytes()
}

// trainTestDatabase trains a small two-person database from synthetic faces.
func trainTestDatabase(t *testing.T) *facedb.Database {
	t.Helper()

	dir := t.TempDir()
	for class, name := range []string{"ana", "bob"} {
		personDir := filepath.Join(dir, name)
		if err := os.Mkdir(personDir, 0750); err != nil {
			t.Fatalf("failed to create person dir: %v", err)
		}
		for shot := 0; shot < 2; shot++ {
			data := encodePGM(t, testFacePixels(class, shot), 4, 4)
			path := filepath.Join(personDir, fmt.Sprintf("shot%02d.pgm", shot))
			if err := os.WriteFile(path, data, 0644); err != nil {
				t.Fatalf("failed to write image: %v", err)
			}
		}
	}

	db, err := facedb.Train(dir, facedb.TrainOptions{})
	if err != nil {
		t.Fatalf("failed to train database: %v", err)
	}
	return db
}

// multipartImage builds a multipart body with a single "image" file field.
func multipartImage(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	return body, writer.FormDataContentType()
}

package handlers

import (
	"errors"
	"fmt"
	"image"
	"net/http"

	"github.com/google/uuid"

	"github.com/tkral/faceid/internal/constants"
	"github.com/tkral/faceid/internal/facedb"

	// Registered formats for image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	_ "github.com/tkral/faceid/internal/pnm"
)

// RecognizeHandler handles face recognition endpoints.
type RecognizeHandler struct {
	db *facedb.Database
}

// NewRecognizeHandler creates a new recognize handler.
func NewRecognizeHandler(db *facedb.Database) *RecognizeHandler {
	return &RecognizeHandler{
		db: db,
	}
}

// MatchResponse represents a single nearest-neighbor match in API responses.
type MatchResponse struct {
	Algorithm string  `json:"algorithm"`
	Class     int     `json:"class"`
	Name      string  `json:"name"`
	Distance  float64 `json:"distance"`
	Index     int     `json:"index"`
}

// RecognizeResponse is the response for a recognition request.
type RecognizeResponse struct {
	RequestID string          `json:"request_id"`
	File      string          `json:"file"`
	Matches   []MatchResponse `json:"matches"`
}

// Recognize matches an uploaded image against the trained face database.
func (h *RecognizeHandler) Recognize(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respondError(w, http.StatusServiceUnavailable, errNoModelLoaded)
		return
	}

	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "could not decode image")
		return
	}

	matches, err := h.db.RecognizeImage(img)
	if err != nil {
		if errors.Is(err, facedb.ErrInconsistentDimensions) {
			respondError(w, http.StatusBadRequest,
				fmt.Sprintf("image does not match model dimensions (%d pixels expected)", h.db.NumDimensions()))
			return
		}
		respondError(w, http.StatusInternalServerError, "recognition failed")
		return
	}

	resp := RecognizeResponse{
		RequestID: uuid.New().String(),
		File:      header.Filename,
		Matches:   make([]MatchResponse, 0, len(matches)),
	}
	for _, m := range matches {
		resp.Matches = append(resp.Matches, MatchResponse{
			Algorithm: m.Algorithm,
			Class:     m.Class,
			Name:      m.Name,
			Distance:  m.Distance,
			Index:     m.Index,
		})
	}

	respondJSON(w, http.StatusOK, resp)
}

package handlers

import (
	"net/http"

	"github.com/tkral/faceid/internal/facedb"
)

// ModelHandler handles model inspection endpoints.
type ModelHandler struct {
	db *facedb.Database
}

// NewModelHandler creates a new model handler.
func NewModelHandler(db *facedb.Database) *ModelHandler {
	return &ModelHandler{
		db: db,
	}
}

// ModelResponse summarizes the loaded face database.
type ModelResponse struct {
	Images     int      `json:"images"`
	Classes    int      `json:"classes"`
	Dimensions int      `json:"dimensions"`
	Algorithms []string `json:"algorithms"`
}

// Get returns a summary of the loaded model.
func (h *ModelHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respondError(w, http.StatusServiceUnavailable, errNoModelLoaded)
		return
	}

	respondJSON(w, http.StatusOK, ModelResponse{
		Images:     h.db.NumImages(),
		Classes:    h.db.NumClasses(),
		Dimensions: h.db.NumDimensions(),
		Algorithms: h.db.Algorithms(),
	})
}

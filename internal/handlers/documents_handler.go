package handlers

import (
	"log"
	"net/http"

	"steelintel/internal/models"
	"steelintel/internal/services"
)

// DocumentsHandler serves the administrative document listing
type DocumentsHandler struct {
	provider services.QueryProvider
	logger   *log.Logger
}

// NewDocumentsHandler creates a new documents handler
func NewDocumentsHandler(provider services.QueryProvider, logger *log.Logger) *DocumentsHandler {
	return &DocumentsHandler{
		provider: provider,
		logger:   logger,
	}
}

// List handles the document listing request
// List godoc
// @Summary List indexed documents
// @Description List all documents currently in the knowledge base, along with the backend mode so placeholder listings are never mistaken for real ones
// @Tags documents
// @Produce json
// @Success 200 {object} models.DocumentListResponse
// @Failure 500 {object} models.BasicResponse
// @Router /api/documents [get]
func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.provider.ListDocuments(r.Context())
	if err != nil {
		h.logger.Printf("Document listing failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list documents: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, models.DocumentListResponse{
		Documents: docs,
		Mode:      h.provider.Mode(),
	})
}

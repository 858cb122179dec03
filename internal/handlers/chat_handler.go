package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"steelintel/internal/models"
	"steelintel/internal/services"
)

// ChatHandler serves the live query path
type ChatHandler struct {
	provider services.QueryProvider
	logger   *log.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(provider services.QueryProvider, logger *log.Logger) *ChatHandler {
	return &ChatHandler{
		provider: provider,
		logger:   logger,
	}
}

// chatBody distinguishes a missing query field from an empty query string.
// A missing field is a validation error; an empty string flows through the
// pipeline and yields an answer built from an empty context.
type chatBody struct {
	Query *string `json:"query"`
}

// Chat handles a knowledge base query
// Chat godoc
// @Summary Query the steel knowledge base
// @Description Ask a natural-language question about steel specifications and compliance standards. Returns a generated answer with numbered citations back to the source passages.
// @Tags chat
// @Accept json
// @Produce json
// @Param request body models.QueryRequest true "Question about steel specifications"
// @Success 200 {object} models.QueryResponse
// @Failure 400 {object} models.BasicResponse
// @Failure 500 {object} models.BasicResponse
// @Router /api/chat [post]
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var body chatBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if body.Query == nil {
		writeError(w, http.StatusBadRequest, (&models.ValidationError{
			Field:   "query",
			Message: "field is required",
		}).Error())
		return
	}

	response, err := h.provider.AnswerQuery(r.Context(), *body.Query)
	if err != nil {
		h.logger.Printf("Query failed: %v", err)
		writeError(w, http.StatusInternalServerError, "query failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// writeError writes an error envelope
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.BasicResponse{
		Message: message,
		Status:  "error",
	})
}

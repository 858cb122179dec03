package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"steelintel/internal/models"
	"steelintel/internal/repositories"
)

const (
	// TopK is fixed by design: broad enough for coverage, small enough to
	// keep the prompt affordable. Not tunable per request.
	TopK = 10

	previewMaxChars = 200
	previewEllipsis = "..."

	// Sentinels for passages stored without metadata
	UnknownDocument  = "Unknown Document"
	PageNotAvailable = "N/A"
)

// RetrievalService turns a question into a context block and a citation
// list. Results keep the exact order the similarity index returned them in;
// there is no re-ranking and no deduplication.
type RetrievalService struct {
	embedder   Embedder
	vectorRepo repositories.VectorRepository
	collection string
	logger     *log.Logger
}

// NewRetrievalService creates a new retrieval service
func NewRetrievalService(embedder Embedder, vectorRepo repositories.VectorRepository, collection string, logger *log.Logger) *RetrievalService {
	return &RetrievalService{
		embedder:   embedder,
		vectorRepo: vectorRepo,
		collection: collection,
		logger:     logger,
	}
}

// Retrieve embeds the query, searches the index for the TopK nearest
// passages, and builds the annotated context string plus the parallel
// citation list. An empty query yields an empty context, not an error.
func (s *RetrievalService) Retrieve(ctx context.Context, query string) (string, []models.Citation, error) {
	if strings.TrimSpace(query) == "" {
		return "", []models.Citation{}, nil
	}

	embedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return "", nil, &RetrievalError{Err: fmt.Errorf("failed to embed query: %w", err)}
	}

	results, err := s.vectorRepo.SearchChunks(ctx, s.collection, embedding, TopK)
	if err != nil {
		return "", nil, &RetrievalError{Err: fmt.Errorf("similarity search failed: %w", err)}
	}

	s.logger.Printf("Retrieved %d passages for query: %s", len(results), query)

	contextParts := make([]string, 0, len(results))
	citations := make([]models.Citation, 0, len(results))

	for i, result := range results {
		marker := strconv.Itoa(i + 1)

		// The context shows the model the bracketed form it is told to cite with.
		contextParts = append(contextParts, "["+marker+"] "+result.Text)

		citations = append(citations, models.Citation{
			Ref:            marker,
			Document:       documentName(result.Metadata),
			Page:           pageLabel(result.Metadata),
			ContentPreview: preview(result.Text),
		})
	}

	return strings.Join(contextParts, "\n\n"), citations, nil
}

// preview truncates passage text to the preview length. Length is counted
// in runes, not bytes; PDF extraction routinely yields multibyte characters
// and a byte slice could cut one in half.
func preview(text string) string {
	runes := []rune(text)
	if len(runes) > previewMaxChars {
		return string(runes[:previewMaxChars]) + previewEllipsis
	}
	return text
}

// documentName reads the display name from stored metadata
func documentName(metadata map[string]interface{}) string {
	if name, ok := metadata["source"].(string); ok && name != "" {
		return name
	}
	return UnknownDocument
}

// pageLabel reads the 1-indexed page from stored metadata. JSON decoding
// hands numbers back as float64.
func pageLabel(metadata map[string]interface{}) string {
	switch v := metadata["page"].(type) {
	case float64:
		return strconv.Itoa(int(v))
	case int:
		return strconv.Itoa(v)
	case string:
		if v != "" {
			return v
		}
	}
	return PageNotAvailable
}

package repositories

import (
	"context"
)

// VectorRepository abstracts the similarity index. The live implementation
// is backed by ChromaDB; tests substitute mocks.
type VectorRepository interface {
	// EnsureCollection creates the collection if it does not already exist.
	EnsureCollection(ctx context.Context, name string, metadata map[string]interface{}) error
	DeleteCollection(ctx context.Context, name string) error
	CollectionExists(ctx context.Context, name string) (bool, error)
	CountChunks(ctx context.Context, name string) (int, error)

	StoreChunks(ctx context.Context, collectionName string, chunks []*Chunk) error
	// SearchChunks returns the topK nearest stored passages in index order.
	SearchChunks(ctx context.Context, collectionName string, queryEmbedding []float32, topK int) ([]*SearchResult, error)

	Ping(ctx context.Context) error
	Close() error
}

// Chunk is one passage of an ingested document, as stored in the index.
// Ownership transfers to the index on upsert; the live query path only ever
// reads chunks back as search results.
type Chunk struct {
	ID         string                 `json:"id"`
	DocumentID string                 `json:"document_id"`
	Text       string                 `json:"text"`
	Embedding  []float32              `json:"embedding"`
	Metadata   map[string]interface{} `json:"metadata"`
	ChunkIndex int                    `json:"chunk_index"`
	PageNumber int                    `json:"page_number"` // 1-indexed
}

// SearchResult is a single passage returned by a similarity query
type SearchResult struct {
	ChunkID  string                 `json:"chunk_id"`
	Text     string                 `json:"text"`
	Score    float32                `json:"score"` // 1 - cosine distance
	Distance float32                `json:"distance"`
	Metadata map[string]interface{} `json:"metadata"`
}

// VectorRepositoryError represents errors from the vector repository
type VectorRepositoryError struct {
	Operation string
	Err       error
	Message   string
}

func (e *VectorRepositoryError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Operation + ": " + e.Err.Error()
	}
	return e.Operation + ": unknown error"
}

func (e *VectorRepositoryError) Unwrap() error {
	return e.Err
}

// NewVectorRepositoryError creates a new vector repository error
func NewVectorRepositoryError(operation string, err error, message string) *VectorRepositoryError {
	return &VectorRepositoryError{
		Operation: operation,
		Err:       err,
		Message:   message,
	}
}

func CollectionNotFoundError(name string) error {
	return NewVectorRepositoryError(
		"get_collection",
		nil,
		"collection not found: "+name,
	)
}

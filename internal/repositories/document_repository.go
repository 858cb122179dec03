package repositories

import (
	"context"
	"time"
)

// Document is a registry record for an ingested source document. The
// registry backs the administrative listing operation; the similarity index
// never reads it.
type Document struct {
	ID         string    `json:"document_id"`
	Filename   string    `json:"filename"`
	Pages      int       `json:"pages"`
	ChunkCount int       `json:"chunk_count"`
	Status     string    `json:"status"` // "indexed" or "failed"
	IngestedAt time.Time `json:"ingested_at"`
}

// Validate checks registry record fields before a write
func (d *Document) Validate() error {
	if d.ID == "" {
		return NewDocumentRepositoryError("validate", "", nil, "document ID is required")
	}
	if d.Filename == "" {
		return NewDocumentRepositoryError("validate", d.ID, nil, "filename is required")
	}
	return nil
}

// DocumentRepository abstracts the document registry
type DocumentRepository interface {
	Register(ctx context.Context, doc *Document) error
	Get(ctx context.Context, documentID string) (*Document, error)
	List(ctx context.Context) ([]*Document, error)
	Exists(ctx context.Context, documentID string) (bool, error)
	// Clear removes every registry record. Paired with dropping the index
	// collection before a re-ingestion run.
	Clear(ctx context.Context) error
}

// DocumentRepositoryError represents errors from the document registry
type DocumentRepositoryError struct {
	Operation  string
	DocumentID string
	Err        error
	Message    string
}

func (e *DocumentRepositoryError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Operation + ": " + e.Err.Error()
	}
	return e.Operation + ": unknown error"
}

func (e *DocumentRepositoryError) Unwrap() error {
	return e.Err
}

// NewDocumentRepositoryError creates a new document repository error
func NewDocumentRepositoryError(operation string, documentID string, err error, message string) *DocumentRepositoryError {
	return &DocumentRepositoryError{
		Operation:  operation,
		DocumentID: documentID,
		Err:        err,
		Message:    message,
	}
}

func DocumentNotFoundError(documentID string) error {
	return NewDocumentRepositoryError(
		"get",
		documentID,
		nil,
		"document not found: "+documentID,
	)
}

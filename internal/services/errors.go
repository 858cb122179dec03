package services

import "fmt"

// RetrievalError means the embedding provider or the similarity index failed
// while answering a query. Fatal for the query, never retried.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval failed: %v", e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// GenerationError means the language model call failed or returned an
// unusable response. Fatal for the query, never retried.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

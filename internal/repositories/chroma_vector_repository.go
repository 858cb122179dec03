package repositories

import (
	"context"
	"errors"
	"fmt"

	"steelintel/internal/db"
)

// ChromaVectorRepository implements VectorRepository using ChromaDB
type ChromaVectorRepository struct {
	client *db.ChromaDBClient
}

// NewChromaVectorRepository creates a new ChromaDB-backed vector repository
func NewChromaVectorRepository(client *db.ChromaDBClient) VectorRepository {
	return &ChromaVectorRepository{
		client: client,
	}
}

// EnsureCollection creates the collection with cosine similarity if it does
// not already exist. Safe to call on every ingestion run.
func (r *ChromaVectorRepository) EnsureCollection(ctx context.Context, name string, metadata map[string]interface{}) error {
	exists, err := r.CollectionExists(ctx, name)
	if err != nil {
		return NewVectorRepositoryError("ensure_collection", err, "")
	}
	if exists {
		return nil
	}

	if _, err := r.client.CreateCollection(ctx, name, metadata); err != nil {
		return NewVectorRepositoryError("ensure_collection", err, "failed to create collection: "+name)
	}

	return nil
}

// DeleteCollection deletes a collection
func (r *ChromaVectorRepository) DeleteCollection(ctx context.Context, name string) error {
	if err := r.client.DeleteCollection(ctx, name); err != nil {
		return NewVectorRepositoryError("delete_collection", err, "failed to delete collection: "+name)
	}
	return nil
}

// CollectionExists checks if a collection exists. Only a 404 counts as
// absence; an unreachable index propagates as an error.
func (r *ChromaVectorRepository) CollectionExists(ctx context.Context, name string) (bool, error) {
	_, err := r.client.GetCollection(ctx, name)
	if errors.Is(err, db.ErrCollectionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, NewVectorRepositoryError("collection_exists", err, "")
	}
	return true, nil
}

// CountChunks returns the number of stored chunks in a collection
func (r *ChromaVectorRepository) CountChunks(ctx context.Context, name string) (int, error) {
	count, err := r.client.CountCollection(ctx, name)
	if err != nil {
		return 0, NewVectorRepositoryError("count_chunks", err, "failed to count collection: "+name)
	}
	return count, nil
}

// StoreChunks upserts chunks into a collection
func (r *ChromaVectorRepository) StoreChunks(ctx context.Context, collectionName string, chunks []*Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	exists, err := r.CollectionExists(ctx, collectionName)
	if err != nil {
		return NewVectorRepositoryError("store_chunks", err, "")
	}
	if !exists {
		return CollectionNotFoundError(collectionName)
	}

	ids := make([]string, len(chunks))
	documents := make([]string, len(chunks))
	embeddings := make([][]float32, len(chunks))
	metadatas := make([]map[string]interface{}, len(chunks))

	for i, chunk := range chunks {
		ids[i] = chunk.ID
		documents[i] = chunk.Text
		embeddings[i] = chunk.Embedding

		// ChromaDB metadata values must be simple types; the ingestion
		// metadata (source, page, ingested_at) already is.
		metadata := map[string]interface{}{
			"document_id": chunk.DocumentID,
			"chunk_index": chunk.ChunkIndex,
			"page":        chunk.PageNumber,
		}
		for k, v := range chunk.Metadata {
			metadata[k] = v
		}
		metadatas[i] = metadata
	}

	if err := r.client.AddDocuments(ctx, collectionName, ids, documents, embeddings, metadatas); err != nil {
		return NewVectorRepositoryError("store_chunks", err, fmt.Sprintf("failed to store %d chunks", len(chunks)))
	}

	return nil
}

// SearchChunks searches for the topK nearest chunks, preserving index order
func (r *ChromaVectorRepository) SearchChunks(ctx context.Context, collectionName string, queryEmbedding []float32, topK int) ([]*SearchResult, error) {
	exists, err := r.CollectionExists(ctx, collectionName)
	if err != nil {
		return nil, NewVectorRepositoryError("search_chunks", err, "")
	}
	if !exists {
		return nil, CollectionNotFoundError(collectionName)
	}

	results, err := r.client.Query(ctx, collectionName, [][]float32{queryEmbedding}, topK)
	if err != nil {
		return nil, NewVectorRepositoryError("search_chunks", err, "query failed")
	}

	searchResults := make([]*SearchResult, 0)
	if len(results.IDs) > 0 {
		for i := 0; i < len(results.IDs[0]); i++ {
			metadata := make(map[string]interface{})
			if len(results.Metadatas) > 0 && len(results.Metadatas[0]) > i {
				metadata = results.Metadatas[0][i]
			}

			var text string
			if len(results.Documents) > 0 && len(results.Documents[0]) > i {
				text = results.Documents[0][i]
			}

			var distance float32
			if len(results.Distances) > 0 && len(results.Distances[0]) > i {
				distance = results.Distances[0][i]
			}

			searchResults = append(searchResults, &SearchResult{
				ChunkID:  results.IDs[0][i],
				Text:     text,
				Score:    1.0 - distance,
				Distance: distance,
				Metadata: metadata,
			})
		}
	}

	return searchResults, nil
}

// Ping checks ChromaDB availability
func (r *ChromaVectorRepository) Ping(ctx context.Context) error {
	if err := r.client.Heartbeat(ctx); err != nil {
		return NewVectorRepositoryError("ping", err, "")
	}
	return nil
}

// Close releases client connections
func (r *ChromaVectorRepository) Close() error {
	r.client.Close()
	return nil
}

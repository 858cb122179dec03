package ingest

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"steelintel/internal/repositories"
	"steelintel/internal/services"
)

const (
	embedBatchSize   = 16
	storeBatchSize   = 100
	embedConcurrency = 3
)

// Options controls one ingestion run
type Options struct {
	// Reset drops the index collection and clears the document registry
	// before ingesting. Without it, re-running uploads duplicates; nothing
	// deduplicates automatically.
	Reset bool
}

// Summary reports what an ingestion run produced
type Summary struct {
	Documents int
	Pages     int
	Chunks    int
}

// Ingestor populates the similarity index and the document registry from a
// directory of PDF standards. Batch job, entirely outside the live query
// path.
type Ingestor struct {
	embedder   services.Embedder
	chunker    *SemanticChunker
	vectorRepo repositories.VectorRepository
	docRepo    repositories.DocumentRepository
	collection string
	dimension  int
	logger     *log.Logger
}

// NewIngestor creates a new ingestion job
func NewIngestor(embedder services.Embedder, chunker *SemanticChunker, vectorRepo repositories.VectorRepository, docRepo repositories.DocumentRepository, collection string, dimension int, logger *log.Logger) *Ingestor {
	return &Ingestor{
		embedder:   embedder,
		chunker:    chunker,
		vectorRepo: vectorRepo,
		docRepo:    docRepo,
		collection: collection,
		dimension:  dimension,
		logger:     logger,
	}
}

// Run ingests every PDF under dataDir: load pages, chunk semantically,
// embed, upsert into the index, and register each document.
func (ing *Ingestor) Run(ctx context.Context, dataDir string, opts Options) (*Summary, error) {
	paths, err := DiscoverPDFs(dataDir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		ing.logger.Printf("No PDF files found in %s", dataDir)
		return &Summary{}, nil
	}
	ing.logger.Printf("Found %d PDF files in %s", len(paths), dataDir)

	if opts.Reset {
		ing.logger.Printf("Reset requested: dropping collection %q and clearing registry", ing.collection)
		if exists, _ := ing.vectorRepo.CollectionExists(ctx, ing.collection); exists {
			if err := ing.vectorRepo.DeleteCollection(ctx, ing.collection); err != nil {
				return nil, fmt.Errorf("failed to drop collection: %w", err)
			}
		}
		if err := ing.docRepo.Clear(ctx); err != nil {
			return nil, fmt.Errorf("failed to clear registry: %w", err)
		}
	}

	err = ing.vectorRepo.EnsureCollection(ctx, ing.collection, map[string]interface{}{
		"hnsw:space": "cosine",
		"dimension":  ing.dimension,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure collection: %w", err)
	}

	summary := &Summary{}
	for _, path := range paths {
		pages, chunks, err := ing.ingestFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to ingest %s: %w", path, err)
		}
		summary.Documents++
		summary.Pages += pages
		summary.Chunks += chunks
	}

	ing.logger.Printf("Ingestion complete: %d documents, %d pages, %d chunks",
		summary.Documents, summary.Pages, summary.Chunks)
	return summary, nil
}

// ingestFile processes one PDF end to end
func (ing *Ingestor) ingestFile(ctx context.Context, path string) (pages int, chunkCount int, err error) {
	segments, err := LoadPDF(path)
	if err != nil {
		return 0, 0, err
	}
	if len(segments) == 0 {
		ing.logger.Printf("Skipping %s: no extractable text", path)
		return 0, 0, nil
	}

	ingestedAt := time.Now().Format(time.RFC3339)
	docID := uuid.NewString()

	var chunks []*repositories.Chunk
	for _, segment := range segments {
		texts, err := ing.chunker.Chunk(ctx, segment.Text)
		if err != nil {
			return 0, 0, fmt.Errorf("chunking page %d: %w", segment.PageNumber, err)
		}
		for _, text := range texts {
			chunks = append(chunks, &repositories.Chunk{
				ID:         fmt.Sprintf("%s_chunk_%d", docID, len(chunks)),
				DocumentID: docID,
				Text:       text,
				ChunkIndex: len(chunks),
				PageNumber: segment.PageNumber,
				Metadata: map[string]interface{}{
					"source":      segment.Source,
					"ingested_at": ingestedAt,
				},
			})
		}
	}

	if err := ing.embedChunks(ctx, chunks); err != nil {
		return 0, 0, err
	}

	for start := 0; start < len(chunks); start += storeBatchSize {
		end := start + storeBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		if err := ing.vectorRepo.StoreChunks(ctx, ing.collection, chunks[start:end]); err != nil {
			return 0, 0, err
		}
	}

	doc := &repositories.Document{
		ID:         docID,
		Filename:   segments[0].Source,
		Pages:      len(segments),
		ChunkCount: len(chunks),
		Status:     "indexed",
	}
	if err := ing.docRepo.Register(ctx, doc); err != nil {
		return 0, 0, err
	}

	ing.logger.Printf("Ingested %s: %d pages, %d chunks", doc.Filename, doc.Pages, doc.ChunkCount)
	return len(segments), len(chunks), nil
}

// embedChunks fills in chunk embeddings with a small bounded worker pool.
// Batches keep their positions, so chunk order is preserved.
func (ing *Ingestor) embedChunks(ctx context.Context, chunks []*repositories.Chunk) error {
	type batch struct {
		start int
		end   int
	}

	var batches []batch
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batches = append(batches, batch{start: start, end: end})
	}

	jobs := make(chan batch, len(batches))
	errChan := make(chan error, len(batches))
	var wg sync.WaitGroup

	workers := embedConcurrency
	if workers > len(batches) {
		workers = len(batches)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for b := range jobs {
				texts := make([]string, 0, b.end-b.start)
				for _, chunk := range chunks[b.start:b.end] {
					texts = append(texts, chunk.Text)
				}

				vectors, err := ing.embedder.EmbedDocuments(ctx, texts)
				if err != nil {
					errChan <- fmt.Errorf("embedding batch [%d:%d]: %w", b.start, b.end, err)
					return
				}
				if len(vectors) != len(texts) {
					errChan <- fmt.Errorf("embedding batch [%d:%d]: got %d vectors for %d texts", b.start, b.end, len(vectors), len(texts))
					return
				}

				for i, vec := range vectors {
					chunks[b.start+i].Embedding = vec
				}
			}
		}()
	}

	for _, b := range batches {
		jobs <- b
	}
	close(jobs)
	wg.Wait()
	close(errChan)

	if err := <-errChan; err != nil {
		return err
	}
	return nil
}

// Command ingest populates the similarity index and the document registry
// from a directory of PDF specification documents. Run it once per corpus
// change; the query service never writes to the index.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"steelintel/internal/config"
	"steelintel/internal/db"
	"steelintel/internal/ingest"
	"steelintel/internal/repositories"
	"steelintel/internal/services"
)

func main() {
	logger := log.New(os.Stdout, "[INGEST] ", log.LstdFlags)

	cfg := config.Load()

	dataDir := flag.String("data", cfg.DataDir, "directory to scan recursively for PDF files")
	reset := flag.Bool("reset", false, "drop the index collection and clear the document registry first")
	percentile := flag.Float64("percentile", cfg.ChunkPercentile, "similarity percentile for chunk boundaries")
	flag.Parse()

	if cfg.EmbeddingAPIKey == "" {
		logger.Fatal("EMBEDDING_API_KEY is required for ingestion")
	}

	ctx := context.Background()

	chromaClient := db.NewChromaDBClient(db.ChromaDBConfig{
		Host:     cfg.ChromaHost,
		Port:     cfg.ChromaPort,
		Tenant:   cfg.ChromaTenant,
		Database: cfg.ChromaDatabase,
	})
	if err := chromaClient.Heartbeat(ctx); err != nil {
		logger.Fatalf("ChromaDB is not reachable: %v", err)
	}

	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		logger.Fatalf("Redis is not reachable: %v", err)
	}
	defer redisClient.Close()

	embedder, err := services.NewOpenAIEmbedder(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel)
	if err != nil {
		logger.Fatalf("Failed to build embedder: %v", err)
	}

	vectorRepo := repositories.NewChromaVectorRepository(chromaClient)
	docRepo := repositories.NewRedisDocumentRepository(redisClient.GetClient())
	chunker := ingest.NewSemanticChunker(embedder, *percentile)

	ingestor := ingest.NewIngestor(embedder, chunker, vectorRepo, docRepo,
		cfg.Collection, cfg.EmbeddingDim, logger)

	summary, err := ingestor.Run(ctx, *dataDir, ingest.Options{Reset: *reset})
	if err != nil {
		logger.Fatalf("Ingestion failed: %v", err)
	}

	logger.Printf("Ingestion complete: %d documents, %d pages, %d chunks",
		summary.Documents, summary.Pages, summary.Chunks)
}

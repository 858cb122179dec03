package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"steelintel/internal/config"
	"steelintel/internal/db"
	"steelintel/internal/handlers"
	"steelintel/internal/repositories"
	"steelintel/internal/routes"
	"steelintel/internal/services"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

// corsMiddleware adds CORS headers to all responses and answers preflight
// requests before they reach the router
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NewServer wires configuration into a ready-to-listen HTTP server. In live
// mode every external collaborator must be reachable at startup; the
// process refuses to come up partially configured.
func NewServer(cfg *config.Config) (*http.Server, error) {
	logger := log.New(os.Stdout, "[SERVER] ", log.LstdFlags)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	provider, err := buildProvider(cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Printf("Query provider initialized in %s mode", provider.Mode())

	h := &routes.Handlers{
		Chat:      handlers.NewChatHandler(provider, logger),
		Documents: handlers.NewDocumentsHandler(provider, logger),
	}

	router := mux.NewRouter()
	routes.RegisterRoutes(router, h)

	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	))

	return &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: corsMiddleware(router),
	}, nil
}

// BuildProvider constructs the query provider selected by configuration.
// Shared by the HTTP server and the tool-protocol adapter.
func BuildProvider(cfg *config.Config, logger *log.Logger) (services.QueryProvider, error) {
	return buildProvider(cfg, logger)
}

func buildProvider(cfg *config.Config, logger *log.Logger) (services.QueryProvider, error) {
	if cfg.Mode == config.ModeFixture {
		logger.Println("Running with fixture responses; no external services will be contacted")
		return services.NewFixtureProvider(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	chromaClient := db.NewChromaDBClient(db.ChromaDBConfig{
		Host:     cfg.ChromaHost,
		Port:     cfg.ChromaPort,
		Tenant:   cfg.ChromaTenant,
		Database: cfg.ChromaDatabase,
	})
	if err := chromaClient.Heartbeat(ctx); err != nil {
		return nil, fmt.Errorf("chromadb unreachable at %s:%d: %w", cfg.ChromaHost, cfg.ChromaPort, err)
	}
	logger.Printf("ChromaDB connected: %s:%d (collection %q)", cfg.ChromaHost, cfg.ChromaPort, cfg.Collection)

	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	if err := redisClient.Ping(ctx); err != nil {
		return nil, fmt.Errorf("redis unreachable at %s:%d: %w", cfg.RedisHost, cfg.RedisPort, err)
	}
	logger.Printf("Redis connected: %s:%d", cfg.RedisHost, cfg.RedisPort)

	embedder, err := services.NewOpenAIEmbedder(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel)
	if err != nil {
		return nil, err
	}

	vectorRepo := repositories.NewChromaVectorRepository(chromaClient)
	docRepo := repositories.NewRedisDocumentRepository(redisClient.GetClient())

	retrieval := services.NewRetrievalService(embedder, vectorRepo, cfg.Collection,
		log.New(os.Stdout, "[RETRIEVAL] ", log.LstdFlags))
	generation := services.NewGenerationService(
		services.NewLLMClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout),
		log.New(os.Stdout, "[GENERATION] ", log.LstdFlags))
	pipeline := services.NewQueryPipeline(retrieval, generation, cfg.QueryTimeout,
		log.New(os.Stdout, "[PIPELINE] ", log.LstdFlags))

	return services.NewLiveProvider(pipeline, docRepo, logger), nil
}

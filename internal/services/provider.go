package services

import (
	"context"
	"log"

	"steelintel/internal/models"
	"steelintel/internal/repositories"
)

// QueryProvider is the boundary the transport adapters talk to. Two
// variants exist, selected once at startup: the live pipeline and the
// fixture provider for demo operation. Business logic never branches on
// mode.
type QueryProvider interface {
	AnswerQuery(ctx context.Context, query string) (*models.QueryResponse, error)
	ListDocuments(ctx context.Context) ([]models.DocumentInfo, error)
	Mode() string
}

// LiveProvider answers queries through the real pipeline and lists
// documents from the Redis registry
type LiveProvider struct {
	pipeline *QueryPipeline
	docRepo  repositories.DocumentRepository
	logger   *log.Logger
}

// NewLiveProvider creates a provider backed by the real pipeline
func NewLiveProvider(pipeline *QueryPipeline, docRepo repositories.DocumentRepository, logger *log.Logger) *LiveProvider {
	return &LiveProvider{
		pipeline: pipeline,
		docRepo:  docRepo,
		logger:   logger,
	}
}

// AnswerQuery runs the pipeline and packages the result
func (p *LiveProvider) AnswerQuery(ctx context.Context, query string) (*models.QueryResponse, error) {
	result, err := p.pipeline.Answer(ctx, query)
	if err != nil {
		return nil, err
	}

	return &models.QueryResponse{
		Response:      result.Answer,
		Sources:       result.Citations,
		UnmatchedRefs: result.UnmatchedRefs,
	}, nil
}

// ListDocuments reads the ingestion registry
func (p *LiveProvider) ListDocuments(ctx context.Context) ([]models.DocumentInfo, error) {
	docs, err := p.docRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]models.DocumentInfo, 0, len(docs))
	for _, doc := range docs {
		infos = append(infos, models.DocumentInfo{
			Name:   doc.Filename,
			Pages:  doc.Pages,
			Status: doc.Status,
		})
	}

	return infos, nil
}

// Mode reports the provider variant
func (p *LiveProvider) Mode() string {
	return "live"
}

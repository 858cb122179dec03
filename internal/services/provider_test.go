package services

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"steelintel/internal/models"
	"steelintel/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Register(ctx context.Context, doc *repositories.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) Get(ctx context.Context, documentID string) (*repositories.Document, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.Document), args.Error(1)
}

func (m *MockDocumentRepository) List(ctx context.Context) ([]*repositories.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repositories.Document), args.Error(1)
}

func (m *MockDocumentRepository) Exists(ctx context.Context, documentID string) (bool, error) {
	args := m.Called(ctx, documentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func setupTestLiveProvider(t *testing.T) (*LiveProvider, *MockRetriever, *MockGenerator, *MockDocumentRepository) {
	mockRetriever := new(MockRetriever)
	mockGenerator := new(MockGenerator)
	mockDocRepo := new(MockDocumentRepository)

	logger := log.New(os.Stdout, "[TEST] ", log.LstdFlags)
	pipeline := NewQueryPipeline(mockRetriever, mockGenerator, 30*time.Second, logger)

	return NewLiveProvider(pipeline, mockDocRepo, logger), mockRetriever, mockGenerator, mockDocRepo
}

func TestLiveProvider_AnswerQuery(t *testing.T) {
	provider, mockRetriever, mockGenerator, _ := setupTestLiveProvider(t)

	citations := []models.Citation{{Ref: "1", Document: "ASTM_A106.pdf", Page: "5"}}
	mockRetriever.On("Retrieve", mock.Anything, "q").Return("[1] context", citations, nil)
	mockGenerator.On("Generate", mock.Anything, "[1] context", "q").Return("Answer [1].", nil)

	resp, err := provider.AnswerQuery(context.Background(), "q")

	require.NoError(t, err)
	assert.Equal(t, "Answer [1].", resp.Response)
	assert.Equal(t, citations, resp.Sources)
	assert.Empty(t, resp.UnmatchedRefs)
}

func TestLiveProvider_AnswerQueryError(t *testing.T) {
	provider, mockRetriever, _, _ := setupTestLiveProvider(t)

	mockRetriever.On("Retrieve", mock.Anything, "q").
		Return("", nil, &RetrievalError{Err: errors.New("index down")})

	resp, err := provider.AnswerQuery(context.Background(), "q")

	assert.Error(t, err)
	assert.Nil(t, resp)
}

func TestLiveProvider_ListDocuments(t *testing.T) {
	provider, _, _, mockDocRepo := setupTestLiveProvider(t)

	mockDocRepo.On("List", mock.Anything).Return([]*repositories.Document{
		{ID: "doc-1", Filename: "ASTM_A106.pdf", Pages: 12, ChunkCount: 40, Status: "indexed"},
		{ID: "doc-2", Filename: "ASTM_A53.pdf", Pages: 8, ChunkCount: 25, Status: "indexed"},
	}, nil)

	docs, err := provider.ListDocuments(context.Background())

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, models.DocumentInfo{Name: "ASTM_A106.pdf", Pages: 12, Status: "indexed"}, docs[0])
}

func TestLiveProvider_Mode(t *testing.T) {
	provider, _, _, _ := setupTestLiveProvider(t)
	assert.Equal(t, "live", provider.Mode())
}

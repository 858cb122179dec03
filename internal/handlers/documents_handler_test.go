package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"steelintel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTestDocumentsHandler(t *testing.T) (*DocumentsHandler, *MockQueryProvider) {
	mockProvider := new(MockQueryProvider)
	logger := log.New(os.Stdout, "[TEST] ", log.LstdFlags)
	return NewDocumentsHandler(mockProvider, logger), mockProvider
}

func TestDocumentsList_Success(t *testing.T) {
	handler, mockProvider := setupTestDocumentsHandler(t)

	mockProvider.On("ListDocuments", mock.Anything).Return([]models.DocumentInfo{
		{Name: "ASTM_A106.pdf", Pages: 12, Status: "indexed"},
		{Name: "ASTM_A53.pdf", Pages: 8, Status: "indexed"},
	}, nil)
	mockProvider.On("Mode").Return("live")

	req := httptest.NewRequest("GET", "/api/documents", nil)
	rr := httptest.NewRecorder()
	handler.List(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp models.DocumentListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "live", resp.Mode)
	require.Len(t, resp.Documents, 2)
	assert.Equal(t, "ASTM_A106.pdf", resp.Documents[0].Name)

	mockProvider.AssertExpectations(t)
}

func TestDocumentsList_Failure(t *testing.T) {
	handler, mockProvider := setupTestDocumentsHandler(t)

	mockProvider.On("ListDocuments", mock.Anything).Return(nil, errors.New("registry unavailable"))

	req := httptest.NewRequest("GET", "/api/documents", nil)
	rr := httptest.NewRecorder()
	handler.List(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var resp models.BasicResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Message, "failed to list documents")
}

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	HealthHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, Version, resp.Version)
}

func TestHomeHandler(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()
	HomeHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "SteelIntel API")

	req = httptest.NewRequest("GET", "/nope", nil)
	rr = httptest.NewRecorder()
	HomeHandler(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

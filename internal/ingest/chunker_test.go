package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder returns deterministic vectors without any network calls
type stubEmbedder struct {
	embedDocuments func(ctx context.Context, texts []string) ([][]float32, error)
	embedQuery     func(ctx context.Context, text string) ([]float32, error)
	calls          int
}

func (s *stubEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	s.calls++
	return s.embedDocuments(ctx, texts)
}

func (s *stubEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	s.calls++
	return s.embedQuery(ctx, text)
}

// topicEmbedder maps sentences to one of two orthogonal unit vectors by
// keyword, so similarity is exactly 1 within a topic and 0 across topics
func topicEmbedder() *stubEmbedder {
	return &stubEmbedder{
		embedDocuments: func(ctx context.Context, texts []string) ([][]float32, error) {
			vectors := make([][]float32, len(texts))
			for i, text := range texts {
				if strings.Contains(strings.ToLower(text), "alloy") {
					vectors[i] = []float32{0, 1}
				} else {
					vectors[i] = []float32{1, 0}
				}
			}
			return vectors, nil
		},
	}
}

func TestChunk_SplitsAtTopicBoundary(t *testing.T) {
	embedder := topicEmbedder()
	chunker := NewSemanticChunker(embedder, 85)

	text := "Seamless pipe is made without a weld seam. " +
		"The pipe shall be tested hydrostatically. " +
		"Each length of pipe is marked with the grade. " +
		"Alloy additions change the hardenability. " +
		"The alloy content is controlled by ladle analysis."

	chunks, err := chunker.Chunk(context.Background(), text)

	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Contains(t, chunks[0], "Seamless pipe")
	assert.Contains(t, chunks[0], "marked with the grade")
	assert.Contains(t, chunks[1], "Alloy additions")
	assert.Contains(t, chunks[1], "ladle analysis")
}

func TestChunk_ShortTextSingleChunk(t *testing.T) {
	embedder := topicEmbedder()
	chunker := NewSemanticChunker(embedder, 85)

	chunks, err := chunker.Chunk(context.Background(), "One sentence. And another.")

	require.NoError(t, err)
	require.Len(t, chunks, 1)

	// Two sentences or fewer never reach the embedder.
	assert.Zero(t, embedder.calls)
}

func TestChunk_EmptyText(t *testing.T) {
	chunker := NewSemanticChunker(topicEmbedder(), 85)

	chunks, err := chunker.Chunk(context.Background(), "   ")

	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunk_EmbedderFailure(t *testing.T) {
	embedder := &stubEmbedder{
		embedDocuments: func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("connection refused")
		},
	}
	chunker := NewSemanticChunker(embedder, 85)

	text := "First sentence here. Second sentence here. Third sentence here."
	_, err := chunker.Chunk(context.Background(), text)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to embed sentences")
}

func TestNewSemanticChunker_PercentileBounds(t *testing.T) {
	embedder := topicEmbedder()

	assert.Equal(t, float64(DefaultChunkPercentile), NewSemanticChunker(embedder, 0).percentile)
	assert.Equal(t, float64(DefaultChunkPercentile), NewSemanticChunker(embedder, 100).percentile)
	assert.Equal(t, float64(DefaultChunkPercentile), NewSemanticChunker(embedder, -5).percentile)
	assert.Equal(t, 90.0, NewSemanticChunker(embedder, 90).percentile)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{1, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)

	// Degenerate inputs yield zero rather than NaN.
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 0}))
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1}, []float32{1, 0}))
	assert.Equal(t, 0.0, cosineSimilarity(nil, nil))
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		p        float64
		expected float64
	}{
		{"Median of four", []float64{1, 2, 3, 4}, 50, 2.5},
		{"Single value", []float64{0.7}, 85, 0.7},
		{"Unsorted input", []float64{3, 1, 2}, 100, 3},
		{"Lower bound", []float64{3, 1, 2}, 0, 1},
		{"Empty", nil, 85, 0},
		{"Interpolated", []float64{0, 1, 1, 1}, 85, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, percentile(tt.values, tt.p), 1e-9)
		})
	}
}

package ingest

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jdkato/prose/v2"

	"steelintel/internal/services"
)

// DefaultChunkPercentile is the boundary threshold. A higher percentile
// produces more, smaller chunks. Offline tuning knob, not a contract the
// query path depends on.
const DefaultChunkPercentile = 85

// SemanticChunker splits text into semantically coherent chunks. Sentences
// are embedded individually and a chunk boundary is placed wherever the
// similarity between successive sentences drops below a percentile
// threshold of the document's own similarity distribution.
type SemanticChunker struct {
	embedder   services.Embedder
	percentile float64
}

// NewSemanticChunker creates a chunker with the given boundary percentile
func NewSemanticChunker(embedder services.Embedder, percentile float64) *SemanticChunker {
	if percentile <= 0 || percentile >= 100 {
		percentile = DefaultChunkPercentile
	}
	return &SemanticChunker{
		embedder:   embedder,
		percentile: percentile,
	}
}

// Chunk splits text at semantic boundaries. Text with at most two
// sentences comes back as a single chunk.
func (c *SemanticChunker) Chunk(ctx context.Context, text string) ([]string, error) {
	sentences, err := splitSentences(text)
	if err != nil {
		return nil, fmt.Errorf("sentence segmentation failed: %w", err)
	}
	if len(sentences) == 0 {
		return nil, nil
	}
	if len(sentences) <= 2 {
		return []string{strings.Join(sentences, " ")}, nil
	}

	embeddings, err := c.embedder.EmbedDocuments(ctx, sentences)
	if err != nil {
		return nil, fmt.Errorf("failed to embed sentences: %w", err)
	}
	if len(embeddings) != len(sentences) {
		return nil, fmt.Errorf("embedding count mismatch: %d sentences, %d vectors", len(sentences), len(embeddings))
	}

	similarities := make([]float64, len(sentences)-1)
	for i := 0; i < len(similarities); i++ {
		similarities[i] = cosineSimilarity(embeddings[i], embeddings[i+1])
	}

	threshold := percentile(similarities, c.percentile)

	var chunks []string
	var current []string
	for i, sentence := range sentences {
		current = append(current, sentence)
		if i < len(similarities) && similarities[i] < threshold {
			chunks = append(chunks, strings.Join(current, " "))
			current = nil
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	return chunks, nil
}

// splitSentences segments text with prose, tagging and entity extraction
// disabled since only segmentation is needed
func splitSentences(text string) ([]string, error) {
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, err
	}

	var sentences []string
	for _, s := range doc.Sentences() {
		trimmed := strings.TrimSpace(s.Text)
		if trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}

	return sentences, nil
}

// cosineSimilarity computes the cosine of the angle between two vectors
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// percentile returns the p-th percentile of values using linear
// interpolation between closest ranks
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}

	weight := rank - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

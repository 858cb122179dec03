package services

import (
	"context"
	"fmt"
	"log"
)

// promptTemplate is the fixed instruction block for the generation stage.
// The two %s slots take the retrieved context and the question.
const promptTemplate = `You are an expert material science and steel engineer specializing in:
- ASTM steel standards (A106, A53, A333, A516, etc.)
- ASME pressure vessel and piping codes (B31.3, Section VIII)
- API specifications (5L, 5CT, 650)
- NACE corrosion standards (MR0175, SP0169)

CRITICAL INSTRUCTION: Always cite your sources using [1], [2], etc. reference numbers that correspond to the context provided.

When answering:
1. Cite the specific standard/document for each claim using [N] references
2. Include exact values (yield strength, chemical composition, hardness limits) when available
3. For compliance questions, state PASS/FAIL with the specific clause/section that applies
4. If information conflicts between sources, note the discrepancy
5. If uncertain, say "Based on [N], but recommend verification with original document"

Context (with source references):
%s

Question: %s

Answer with citations:`

// GenerationService builds the grounded prompt and invokes the language
// model. It sees only the context string, never the citation list; the
// reference markers reach it embedded in the prose.
type GenerationService struct {
	llm    CompletionClient
	logger *log.Logger
}

// NewGenerationService creates a new generation service
func NewGenerationService(llm CompletionClient, logger *log.Logger) *GenerationService {
	return &GenerationService{
		llm:    llm,
		logger: logger,
	}
}

// Generate produces the answer text for a question given the assembled
// context. Single-shot: no conversation history beyond the current turn.
func (s *GenerationService) Generate(ctx context.Context, contextBlock, question string) (string, error) {
	prompt := fmt.Sprintf(promptTemplate, contextBlock, question)

	answer, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return "", &GenerationError{Err: err}
	}

	s.logger.Printf("Generated %d chars for question: %s", len(answer), question)
	return answer, nil
}

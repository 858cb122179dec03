package services

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strconv"
	"time"

	"steelintel/internal/models"
)

// QueryState tracks where a query is in the pipeline. States are scoped to
// one query; nothing is shared between concurrent queries.
type QueryState string

const (
	StateStart      QueryState = "start"
	StateRetrieving QueryState = "retrieving"
	StateGenerating QueryState = "generating"
	StateDone       QueryState = "done"
	StateFailed     QueryState = "failed"
	StateTimedOut   QueryState = "timed_out"
)

// QueryResult is the all-or-nothing outcome of one pipeline run
type QueryResult struct {
	Answer        string
	Citations     []models.Citation
	UnmatchedRefs []string
}

// markerPattern matches [N] reference markers in generated text
var markerPattern = regexp.MustCompile(`\[(\d+)\]`)

// Retriever is the retrieval stage seen by the orchestrator
type Retriever interface {
	Retrieve(ctx context.Context, query string) (string, []models.Citation, error)
}

// Generator is the generation stage seen by the orchestrator
type Generator interface {
	Generate(ctx context.Context, contextBlock, question string) (string, error)
}

// QueryPipeline sequences the retrieval stage, then the generation stage,
// exactly once per query. No branching, no retry, no partial re-entry; a
// failure in either stage is terminal for the query and no partial result
// (citations without an answer) is ever returned.
type QueryPipeline struct {
	retrieval  Retriever
	generation Generator
	timeout    time.Duration
	logger     *log.Logger
}

// NewQueryPipeline creates a new pipeline orchestrator
func NewQueryPipeline(retrieval Retriever, generation Generator, timeout time.Duration, logger *log.Logger) *QueryPipeline {
	return &QueryPipeline{
		retrieval:  retrieval,
		generation: generation,
		timeout:    timeout,
		logger:     logger,
	}
}

// Answer runs a single query through retrieve-then-generate under one
// deadline. Citations produced during retrieval are carried unchanged into
// the final result.
func (p *QueryPipeline) Answer(ctx context.Context, query string) (*QueryResult, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	turn := &models.ConversationTurn{Question: query}

	state := StateRetrieving
	contextBlock, citations, err := p.retrieval.Retrieve(ctx, query)
	if err != nil {
		state = terminalState(ctx, err)
		p.logger.Printf("Query ended in state %s: %v", state, err)
		return nil, err
	}
	turn.Context = contextBlock
	turn.Citations = citations

	state = StateGenerating
	answer, err := p.generation.Generate(ctx, turn.Context, turn.Question)
	if err != nil {
		state = terminalState(ctx, err)
		p.logger.Printf("Query ended in state %s: %v", state, err)
		return nil, err
	}
	turn.Answer = answer

	unmatched := unmatchedMarkers(answer, len(citations))
	if len(unmatched) > 0 {
		p.logger.Printf("Answer contains %d reference markers with no citation: %v", len(unmatched), unmatched)
	}

	state = StateDone
	p.logger.Printf("Query completed in state %s with %d citations", state, len(turn.Citations))

	return &QueryResult{
		Answer:        turn.Answer,
		Citations:     turn.Citations,
		UnmatchedRefs: unmatched,
	}, nil
}

// terminalState distinguishes a deadline expiry from an ordinary stage
// failure
func terminalState(ctx context.Context, err error) QueryState {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return StateTimedOut
	}
	return StateFailed
}

// unmatchedMarkers returns the [N] markers in the answer that do not
// correspond to any citation, in first-appearance order. The model is
// trusted to reuse the markers it was shown; this catches the cases where
// it invents one.
func unmatchedMarkers(answer string, citationCount int) []string {
	var unmatched []string
	seen := make(map[string]bool)

	for _, match := range markerPattern.FindAllStringSubmatch(answer, -1) {
		// A digit run too long for Atoi cannot name a real citation either.
		n, err := strconv.Atoi(match[1])
		if err == nil && n >= 1 && n <= citationCount {
			continue
		}
		if !seen[match[1]] {
			seen[match[1]] = true
			unmatched = append(unmatched, match[1])
		}
	}

	return unmatched
}

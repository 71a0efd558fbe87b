package engine

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/atlasgrid/enterprise-rag/internal/bedrock"
	"github.com/atlasgrid/enterprise-rag/internal/graph"
	"github.com/atlasgrid/enterprise-rag/internal/retriever"
	"github.com/rs/zerolog/log"
)

// FallbackAnswer is the fixed sentence the model is instructed to emit when
// neither evidence source contains the answer.
const FallbackAnswer = "I don't have that information in my internal database."

// tokenEstimateFactor converts a whitespace word count into an approximate
// token count. An estimate, not a tokenizer.
const tokenEstimateFactor = 1.3

const (
	answerMaxTokens   = 1024
	answerTemperature = 0.0
)

// VectorSource resolves document evidence for a query.
type VectorSource interface {
	Retrieve(ctx context.Context, query string, k int) (*retriever.VectorResult, error)
}

// GraphSource resolves relationship evidence for a query. It never fails;
// degraded outcomes come back as Answer variants.
type GraphSource interface {
	Retrieve(ctx context.Context, query string) graph.Answer
}

// Completer generates the final answer.
type Completer interface {
	InvokeModel(ctx context.Context, request bedrock.ClaudeRequest) (*bedrock.ClaudeResponse, error)
}

// Service is the orchestration façade. It holds no per-request state; the
// injected collaborators are read-only after construction, so concurrent
// requests need no locking.
type Service struct {
	llm           Completer
	vector        VectorSource
	graph         GraphSource
	topK          int
	answerTimeout time.Duration
}

func NewService(llm Completer, vector VectorSource, graphSource GraphSource, topK int, answerTimeout time.Duration) *Service {
	return &Service{
		llm:           llm,
		vector:        vector,
		graph:         graphSource,
		topK:          topK,
		answerTimeout: answerTimeout,
	}
}

func (s *Service) TopK() int {
	return s.topK
}

// Ask answers one query: vector retrieval, graph retrieval, synthesis,
// metrics. Vector or generation failures abort the request; graph failures
// arrive pre-absorbed as evidence text. Both retrievals are fully resolved
// before synthesis starts.
func (s *Service) Ask(ctx context.Context, query string, topK int) (QueryResponse, error) {
	start := time.Now()

	vectorResult, err := s.vector.Retrieve(ctx, query, topK)
	if err != nil {
		return QueryResponse{}, fmt.Errorf("vector retrieval failed: %w", err)
	}

	graphAnswer := s.graph.Retrieve(ctx, query)
	graphEvidence := graphAnswer.Render()

	answer, err := s.synthesize(ctx, query, vectorResult.Context, graphEvidence)
	if err != nil {
		return QueryResponse{}, fmt.Errorf("answer synthesis failed: %w", err)
	}

	latency := math.Round(time.Since(start).Seconds()*100) / 100
	tokenCount := int(float64(len(strings.Fields(answer))) * tokenEstimateFactor)

	log.Info().
		Float64("latency_s", latency).
		Float64("confidence", vectorResult.Confidence).
		Int("sources", len(vectorResult.Sources)).
		Msg("Query answered")

	return QueryResponse{
		Answer: answer,
		Evidence: Evidence{
			Graph:  graphEvidence,
			Vector: vectorResult.Context,
		},
		Sources: vectorResult.Sources,
		Metrics: Metrics{
			LatencySeconds:    latency,
			ConfidencePercent: vectorResult.Confidence,
			ApproxTokenCount:  tokenCount,
		},
	}, nil
}

// synthesize makes the single generation call. No retries: a failure here
// means the core evidence pipeline cannot produce a trustworthy answer.
func (s *Service) synthesize(ctx context.Context, query, vectorEvidence, graphEvidence string) (string, error) {
	if s.answerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.answerTimeout)
		defer cancel()
	}

	response, err := s.llm.InvokeModel(ctx, bedrock.ClaudeRequest{
		Prompt:      buildAnswerPrompt(query, vectorEvidence, graphEvidence),
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(response.Content), nil
}

// buildAnswerPrompt assembles the fused context, document evidence first,
// graph evidence second, under the fixed instruction policy: graph facts
// are authoritative for relationships, documents fill in detail or act as
// the fallback, the answer never names its source, and a miss yields the
// fixed fallback sentence instead of invented content.
func buildAnswerPrompt(query, vectorEvidence, graphEvidence string) string {
	contextBlock := fmt.Sprintf(`--- SOURCE 1: DOCUMENT EXCERPTS ---
%s

--- SOURCE 2: KNOWLEDGE GRAPH ---
%s`, vectorEvidence, graphEvidence)

	return fmt.Sprintf(`You are an enterprise document assistant.
Answer the user's question based ONLY on the context provided below.

Guidelines:
1. Be direct and professional.
2. The knowledge graph section lists direct relationship facts. When it contains data, treat those facts as authoritative and never claim the section is empty.
3. Use the document excerpts for descriptive detail, or as the only source when the knowledge graph has no results.
4. Do NOT say "According to the Knowledge Graph" or "According to the documents". Just state the facts.
5. If the answer is not in the context, say exactly: "%s"

Context:
%s

Question: %s`, FallbackAnswer, contextBlock, query)
}

package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/atlasgrid/enterprise-rag/internal/bedrock"
	"github.com/rs/zerolog/log"
)

// Completer is the LLM used for query translation.
type Completer interface {
	InvokeModel(ctx context.Context, request bedrock.ClaudeRequest) (*bedrock.ClaudeResponse, error)
}

// Runner executes a translated statement against the graph store.
type Runner interface {
	Schema() string
	Run(ctx context.Context, cypher string, params map[string]any) ([]Record, error)
}

// cypherTemplate constrains translation: relationships are matched without
// assuming a direction or a single type, entity names match case-insensitively
// by substring, and only distinct values come back.
const cypherTemplate = `Task: Generate a Cypher statement to query a graph database.
Instructions:
1. Use only the provided schema.
2. Do NOT use directional arrows. Use undirected relationships: (e1)-[:RELATION]-(e2).
3. Do NOT assume a single relationship type. Allow ANY relationship type.
4. Use case-insensitive matching: WHERE toLower(e.name) CONTAINS toLower('keyword').
5. Return distinct values.
6. Return ONLY the Cypher statement, no explanation.

Schema:
%s

The question is:
%s`

// CypherQA translates a natural-language question into Cypher and executes
// it. The result shape is whatever the store produced: a record list, which
// may be empty; callers normalize.
type CypherQA struct {
	llm    Completer
	runner Runner
}

func NewCypherQA(llm Completer, runner Runner) *CypherQA {
	return &CypherQA{
		llm:    llm,
		runner: runner,
	}
}

func (q *CypherQA) Query(ctx context.Context, question string) (any, error) {
	cypher, err := q.generateCypher(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("cypher generation failed: %w", err)
	}

	log.Debug().Str("cypher", cypher).Msg("Generated graph query")

	records, err := q.runner.Run(ctx, cypher, nil)
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (q *CypherQA) generateCypher(ctx context.Context, question string) (string, error) {
	prompt := fmt.Sprintf(cypherTemplate, q.runner.Schema(), question)

	response, err := q.llm.InvokeModel(ctx, bedrock.ClaudeRequest{
		Prompt:      prompt,
		MaxTokens:   500,
		Temperature: 0.0,
	})
	if err != nil {
		return "", err
	}

	cypher := extractCypher(response.Content)
	if cypher == "" {
		return "", fmt.Errorf("model returned no cypher statement")
	}

	return cypher, nil
}

// extractCypher strips markdown fences and surrounding prose the model may
// wrap around the statement.
func extractCypher(content string) string {
	content = strings.TrimSpace(content)

	if start := strings.Index(content, "```"); start != -1 {
		rest := content[start+3:]
		rest = strings.TrimPrefix(rest, "cypher")
		rest = strings.TrimPrefix(rest, "\n")
		if end := strings.Index(rest, "```"); end != -1 {
			rest = rest[:end]
		}
		content = rest
	}

	return strings.TrimSpace(content)
}

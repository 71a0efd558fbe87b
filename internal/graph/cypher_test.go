package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasgrid/enterprise-rag/internal/bedrock"
)

type stubCompleter struct {
	content string
	err     error
	prompts []string
}

func (s *stubCompleter) InvokeModel(ctx context.Context, request bedrock.ClaudeRequest) (*bedrock.ClaudeResponse, error) {
	s.prompts = append(s.prompts, request.Prompt)
	if s.err != nil {
		return nil, s.err
	}
	return &bedrock.ClaudeResponse{Content: s.content, StopReason: "end_turn"}, nil
}

type stubRunner struct {
	schema  string
	records []Record
	err     error
	cyphers []string
}

func (s *stubRunner) Schema() string { return s.schema }

func (s *stubRunner) Run(ctx context.Context, cypher string, params map[string]any) ([]Record, error) {
	s.cyphers = append(s.cyphers, cypher)
	return s.records, s.err
}

func TestExtractCypher(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bare", "MATCH (n) RETURN n", "MATCH (n) RETURN n"},
		{"fenced", "```\nMATCH (n) RETURN n\n```", "MATCH (n) RETURN n"},
		{"fenced with language", "```cypher\nMATCH (n) RETURN n\n```", "MATCH (n) RETURN n"},
		{"fenced with prose", "Here is the query:\n```cypher\nMATCH (n) RETURN n\n```\nThat should work.", "MATCH (n) RETURN n"},
		{"whitespace", "  MATCH (n) RETURN n  \n", "MATCH (n) RETURN n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractCypher(tc.content))
		})
	}
}

func TestQueryTranslatesAndExecutes(t *testing.T) {
	llm := &stubCompleter{content: "```cypher\nMATCH (e1)-[r]-(e2) WHERE toLower(e1.name) CONTAINS 'finance' RETURN DISTINCT e2.name\n```"}
	runner := &stubRunner{
		schema:  "Node labels: Entity\nRelationship types: RELATION\nProperty keys: name, type",
		records: []Record{{Keys: []string{"e2.name"}, Values: []any{"Jane Doe"}}},
	}
	qa := NewCypherQA(llm, runner)

	result, err := qa.Query(context.Background(), "Who is linked to Finance?")
	require.NoError(t, err)

	records, ok := result.([]Record)
	require.True(t, ok)
	require.Len(t, records, 1)
	assert.Equal(t, "Jane Doe", records[0].Values[0])

	// Translation is grounded on the introspected schema and constrained
	// by the instruction rules.
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], runner.schema)
	assert.Contains(t, llm.prompts[0], "undirected relationships")
	assert.Contains(t, llm.prompts[0], "toLower")
	assert.Contains(t, llm.prompts[0], "Who is linked to Finance?")

	require.Len(t, runner.cyphers, 1)
	assert.Contains(t, runner.cyphers[0], "MATCH")
	assert.NotContains(t, runner.cyphers[0], "```")
}

func TestQueryPropagatesTranslationFailure(t *testing.T) {
	llm := &stubCompleter{err: errors.New("throttled")}
	runner := &stubRunner{}
	qa := NewCypherQA(llm, runner)

	_, err := qa.Query(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
	assert.Empty(t, runner.cyphers)
}

func TestQueryRejectsEmptyCypher(t *testing.T) {
	llm := &stubCompleter{content: "```\n\n```"}
	runner := &stubRunner{}
	qa := NewCypherQA(llm, runner)

	_, err := qa.Query(context.Background(), "q")
	require.Error(t, err)
	assert.Empty(t, runner.cyphers)
}

func TestQueryPropagatesExecutionFailure(t *testing.T) {
	llm := &stubCompleter{content: "MATCH (n) RETURN n"}
	runner := &stubRunner{err: errors.New("connection reset")}
	qa := NewCypherQA(llm, runner)

	_, err := qa.Query(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

package retriever

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasgrid/enterprise-rag/internal/graph"
)

type stubGraphService struct {
	result any
	err    error
	calls  int
}

func (s *stubGraphService) Query(ctx context.Context, question string) (any, error) {
	s.calls++
	return s.result, s.err
}

func TestUnavailableShortCircuitsWithoutIO(t *testing.T) {
	r := NewGraphRetriever(nil, 0)

	for i := 0; i < 3; i++ {
		answer := r.Retrieve(context.Background(), "who reports to Jane?")
		assert.Equal(t, graph.AnswerUnavailable, answer.Kind)
		assert.Equal(t, graph.Unavailable().Render(), answer.Render())
	}

	assert.False(t, r.Available())
}

func TestStubIsNeverCalledWhenUnderlyingServiceIsNil(t *testing.T) {
	// A retriever built without a service must not reach any collaborator.
	service := &stubGraphService{result: []graph.Record{}}
	available := NewGraphRetriever(service, 0)
	down := NewGraphRetriever(nil, 0)

	down.Retrieve(context.Background(), "q")
	assert.Equal(t, 0, service.calls)

	available.Retrieve(context.Background(), "q")
	assert.Equal(t, 1, service.calls)
}

func TestRecordsFlattenToValuesOnly(t *testing.T) {
	service := &stubGraphService{result: []graph.Record{
		{Keys: []string{"e2.name"}, Values: []any{"Acme"}},
		{Keys: []string{"e2.name"}, Values: []any{"Globex"}},
	}}
	r := NewGraphRetriever(service, 0)

	answer := r.Retrieve(context.Background(), "which companies is Jane linked to?")
	require.Equal(t, graph.AnswerHit, answer.Kind)

	rendered := answer.Render()
	assert.Equal(t, "Direct Relationships: Acme, Globex", rendered)
	assert.NotContains(t, rendered, "e2.name")
	assert.NotEqual(t, graph.Empty().Render(), rendered)
}

func TestEmptyRecordListIsTheEmptySentinel(t *testing.T) {
	service := &stubGraphService{result: []graph.Record{}}
	r := NewGraphRetriever(service, 0)

	answer := r.Retrieve(context.Background(), "unknown entity")
	assert.Equal(t, graph.AnswerEmpty, answer.Kind)
	assert.Equal(t, "No direct connections found in Knowledge Graph.", answer.Render())
}

func TestScalarResultPassesThrough(t *testing.T) {
	service := &stubGraphService{result: "Jane Doe manages Finance"}
	r := NewGraphRetriever(service, 0)

	answer := r.Retrieve(context.Background(), "who manages Finance?")
	assert.Equal(t, graph.AnswerScalar, answer.Kind)
	assert.Equal(t, "Jane Doe manages Finance", answer.Render())
}

func TestEmptyStringIsEmpty(t *testing.T) {
	service := &stubGraphService{result: ""}
	r := NewGraphRetriever(service, 0)

	answer := r.Retrieve(context.Background(), "q")
	assert.Equal(t, graph.AnswerEmpty, answer.Kind)
}

func TestQueryErrorIsAbsorbed(t *testing.T) {
	service := &stubGraphService{err: errors.New("cypher syntax error")}
	r := NewGraphRetriever(service, 0)

	answer := r.Retrieve(context.Background(), "broken query")
	require.Equal(t, graph.AnswerError, answer.Kind)
	assert.Equal(t, "Graph Query Error: cypher syntax error", answer.Render())
}

func TestMixedRecordValuesAreStringified(t *testing.T) {
	service := &stubGraphService{result: []graph.Record{
		{Keys: []string{"name", "count"}, Values: []any{"Acme", int64(3)}},
	}}
	r := NewGraphRetriever(service, 0)

	answer := r.Retrieve(context.Background(), "q")
	assert.Equal(t, "Direct Relationships: Acme, 3", answer.Render())
}

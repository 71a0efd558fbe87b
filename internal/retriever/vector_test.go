package retriever

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasgrid/enterprise-rag/internal/vectorstore"
)

type stubEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (s *stubEmbedder) GenerateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	s.calls++
	return s.vector, s.err
}

func newTestStore(t *testing.T) *vectorstore.Store {
	t.Helper()

	store, err := vectorstore.NewStore(2,
		[][]float32{
			{1, 0},
			{0, 1},
			{1, 1},
		},
		[]vectorstore.ChunkMetadata{
			{Text: "Employee Profile: Jane Doe works as a Manager in the Finance department.", Source: `C:\data\hr\hr_report.pdf`},
			{Text: "Quarterly revenue grew by twelve percent.", Source: "/data/finance/q3_report.pdf"},
			{Text: "Jane Doe approved the Q3 budget.", Source: "hr_report.pdf"},
		})
	require.NoError(t, err)

	return store
}

func TestConfidenceFromDistance(t *testing.T) {
	tests := []struct {
		distance float64
		want     float64
	}{
		{0.0, 100},
		{0.5, 100},
		{1.0, 50},
		{1.5, 0},
		{2.0, 0},
		{-0.5, 100},
		{1.25, 25},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, confidenceFromDistance(tc.distance), "distance %v", tc.distance)
	}
}

func TestBaseNameSeparatorAgnostic(t *testing.T) {
	assert.Equal(t, "report.pdf", baseName(`C:\a\b\report.pdf`))
	assert.Equal(t, "report.pdf", baseName("/a/b/report.pdf"))
	assert.Equal(t, "report.pdf", baseName("report.pdf"))
	assert.Equal(t, "report.pdf", baseName(`a/mixed\report.pdf`))
	// Idempotent: a normalized name normalizes to itself.
	assert.Equal(t, "report.pdf", baseName(baseName("/a/b/report.pdf")))
}

func TestRetrieveFormatsEvidence(t *testing.T) {
	store := newTestStore(t)
	embedder := &stubEmbedder{vector: []float32{1, 0}}
	r := NewVectorRetriever(store, embedder)

	result, err := r.Retrieve(context.Background(), "Who is the manager of Finance?", 2)
	require.NoError(t, err)

	lines := strings.Split(result.Context, "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "[Source: hr_report.pdf] "), "got %q", lines[0])
	assert.Contains(t, lines[0], "Jane Doe")
	assert.True(t, strings.HasSuffix(lines[0], "..."))

	// Exact match on the nearest chunk, so the heuristic saturates.
	assert.Equal(t, 100.0, result.Confidence)
}

func TestRetrieveDeduplicatesSources(t *testing.T) {
	store := newTestStore(t)
	embedder := &stubEmbedder{vector: []float32{1, 0.5}}
	r := NewVectorRetriever(store, embedder)

	result, err := r.Retrieve(context.Background(), "Jane Doe", 3)
	require.NoError(t, err)

	// Chunks 0 and 2 share a basename despite different recorded paths.
	assert.Equal(t, []string{"hr_report.pdf", "q3_report.pdf"}, result.Sources)
}

func TestRetrieveSkipsEmptySlots(t *testing.T) {
	store := newTestStore(t)
	embedder := &stubEmbedder{vector: []float32{0, 1}}
	r := NewVectorRetriever(store, embedder)

	result, err := r.Retrieve(context.Background(), "revenue", 10)
	require.NoError(t, err)

	// k exceeds the index size; only real entries are rendered.
	assert.Len(t, strings.Split(result.Context, "\n"), 3)
}

func TestRetrievePropagatesEmbeddingFailure(t *testing.T) {
	store := newTestStore(t)
	embedder := &stubEmbedder{err: errors.New("model offline")}
	r := NewVectorRetriever(store, embedder)

	_, err := r.Retrieve(context.Background(), "anything", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model offline")
}

func TestRetrieveValidatesInput(t *testing.T) {
	store := newTestStore(t)
	embedder := &stubEmbedder{vector: []float32{1, 0}}
	r := NewVectorRetriever(store, embedder)

	_, err := r.Retrieve(context.Background(), "  ", 1)
	assert.Error(t, err)
	_, err = r.Retrieve(context.Background(), "ok", 0)
	assert.Error(t, err)
	assert.Equal(t, 0, embedder.calls)
}

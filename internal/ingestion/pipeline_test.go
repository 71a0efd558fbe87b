package ingestion

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasgrid/enterprise-rag/internal/vectorstore"
)

type stubBatchEmbedder struct{}

func (stubBatchEmbedder) GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = []float32{float32(len(text)), float32(i)}
	}
	return embeddings, nil
}

func TestPipelineExportsAlignedIndex(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "vector_store.idx")
	metadataPath := filepath.Join(dir, "vector_metadata.json")

	pipeline := NewPipeline(NewChunker(20, 5), stubBatchEmbedder{}, nil)

	docs := []RawDocument{
		{Title: "report", Content: "Quarterly revenue grew by twelve percent this year.", Source: "/data/pdf/report.pdf"},
		{Title: "mail", Content: "SOURCE: EMAIL (mail.txt)\nPlease review the budget.", Source: "/data/email/mail.txt"},
	}

	require.NoError(t, pipeline.Run(context.Background(), docs, indexPath, metadataPath))

	store, err := vectorstore.Load(indexPath, metadataPath)
	require.NoError(t, err)
	require.Greater(t, store.Len(), 0)

	// Metadata row i describes index row i: every record carries its
	// document's source path and a stable document ID.
	seenSources := map[string]bool{}
	for i := 0; i < store.Len(); i++ {
		metadata := store.Metadata(i)
		assert.NotEmpty(t, metadata.Text)
		assert.NotEmpty(t, metadata.OriginalID)
		seenSources[metadata.Source] = true
	}
	assert.True(t, seenSources["/data/pdf/report.pdf"])
	assert.True(t, seenSources["/data/email/mail.txt"])
}

func TestPipelineRejectsEmptyBatch(t *testing.T) {
	pipeline := NewPipeline(NewChunker(20, 5), stubBatchEmbedder{}, nil)

	err := pipeline.Run(context.Background(), nil, "x.idx", "x.json")
	assert.Error(t, err)
}

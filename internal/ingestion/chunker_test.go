package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTextOverlap(t *testing.T) {
	chunker := NewChunker(10, 3)
	text := strings.Repeat("abcdefghij", 3) // 30 bytes

	chunks := chunker.ChunkText(text)
	require.NotEmpty(t, chunks)

	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index)
		assert.LessOrEqual(t, len(chunk.Content), 10)
		assert.Equal(t, text[chunk.Start:chunk.End], chunk.Content)
	}

	// Each chunk starts ChunkSize-ChunkOverlap bytes after the previous.
	for i := 1; i < len(chunks); i++ {
		assert.Equal(t, chunks[i-1].Start+7, chunks[i].Start)
	}
}

func TestChunkTextShortInput(t *testing.T) {
	chunker := NewChunker(100, 10)

	chunks := chunker.ChunkText("short")
	require.Len(t, chunks, 1)
	assert.Equal(t, "short", chunks[0].Content)
}

func TestChunkTextInvalidConfig(t *testing.T) {
	assert.Empty(t, NewChunker(0, 0).ChunkText("text"))
	assert.Empty(t, NewChunker(10, 10).ChunkText("text"))
	assert.Empty(t, NewChunker(10, -1).ChunkText("text"))
}

func TestChunkTextEmptyInput(t *testing.T) {
	assert.Empty(t, NewChunker(10, 2).ChunkText(""))
}

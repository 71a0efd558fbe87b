package vectorstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(2,
		[][]float32{
			{0, 0},
			{1, 0},
			{0, 3},
		},
		[]ChunkMetadata{
			{Text: "origin", Source: "a.pdf"},
			{Text: "east", Source: "b.pdf"},
			{Text: "north", Source: "c.pdf"},
		})
	require.NoError(t, err)

	return store
}

func TestSearchOrdering(t *testing.T) {
	store := testStore(t)

	hits, err := store.Search([]float32{0.9, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	// Closest first, ascending squared L2 distance.
	assert.Equal(t, 1, hits[0].Index)
	assert.Equal(t, 0, hits[1].Index)
	assert.Equal(t, 2, hits[2].Index)

	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i-1].Distance, hits[i].Distance)
	}
}

func TestSearchPadsWithEmptySlot(t *testing.T) {
	store := testStore(t)

	hits, err := store.Search([]float32{0, 0}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 5)

	assert.Equal(t, EmptySlot, hits[3].Index)
	assert.Equal(t, EmptySlot, hits[4].Index)
	for _, hit := range hits[:3] {
		assert.NotEqual(t, EmptySlot, hit.Index)
	}
}

func TestSearchValidation(t *testing.T) {
	store := testStore(t)

	_, err := store.Search([]float32{0, 0}, 0)
	assert.Error(t, err)

	_, err = store.Search([]float32{0, 0, 0}, 1)
	assert.Error(t, err)
}

func TestNewStoreMismatch(t *testing.T) {
	_, err := NewStore(2, [][]float32{{0, 0}}, nil)
	assert.Error(t, err)

	_, err = NewStore(2, [][]float32{{0, 0, 0}}, []ChunkMetadata{{}})
	assert.Error(t, err)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "vector_store.idx")
	metadataPath := filepath.Join(dir, "vector_metadata.json")

	vectors := [][]float32{
		{0.1, 0.2, 0.3},
		{-1, 0, 1},
	}
	metadata := []ChunkMetadata{
		{Text: "first chunk", Source: "report.pdf", OriginalID: "doc-1"},
		{Text: "second chunk", Source: "mail.txt", OriginalID: "doc-2"},
	}

	require.NoError(t, Save(indexPath, metadataPath, vectors, metadata))

	store, err := Load(indexPath, metadataPath)
	require.NoError(t, err)

	assert.Equal(t, 2, store.Len())
	assert.Equal(t, 3, store.Dimension())
	assert.Equal(t, metadata[0], store.Metadata(0))
	assert.Equal(t, metadata[1], store.Metadata(1))

	hits, err := store.Search([]float32{0.1, 0.2, 0.3}, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, hits[0].Index)
	assert.InDelta(t, 0.0, hits[0].Distance, 1e-9)
}

func TestLoadMissingFileFails(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.idx"), filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestSaveRefusesMismatch(t *testing.T) {
	dir := t.TempDir()

	err := Save(filepath.Join(dir, "a.idx"), filepath.Join(dir, "a.json"),
		[][]float32{{1}}, []ChunkMetadata{{}, {}})
	assert.Error(t, err)

	err = Save(filepath.Join(dir, "b.idx"), filepath.Join(dir, "b.json"), nil, nil)
	assert.Error(t, err)
}

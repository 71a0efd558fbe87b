package vectorstore

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// EmptySlot marks a search slot with no valid entry, returned when the
// index holds fewer than k vectors.
const EmptySlot = -1

// ChunkMetadata is one record of the metadata table. Record i describes the
// vector at row i of the index; the two files are written together and are
// only valid as a pair.
type ChunkMetadata struct {
	Text       string `json:"text"`
	Source     string `json:"source"`
	OriginalID string `json:"original_id,omitempty"`
}

// Hit is one search result slot. Distance is the squared L2 distance
// between the query and the stored vector.
type Hit struct {
	Index    int
	Distance float64
}

// Store is a read-only exact nearest-neighbor index over fixed-dimension
// vectors plus the parallel metadata table. It is loaded once at startup
// and never mutated, so it is safe for concurrent searches.
type Store struct {
	dimension int
	vectors   [][]float32
	metadata  []ChunkMetadata
}

// Load reads the index and metadata files written by Save. A missing or
// corrupt file, or a row-count mismatch between the two, is a hard error:
// the service must not start on a partial index.
func Load(indexPath, metadataPath string) (*Store, error) {
	dimension, vectors, err := readIndexFile(indexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load vector index %s: %w", indexPath, err)
	}

	raw, err := os.ReadFile(metadataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file %s: %w", metadataPath, err)
	}

	var metadata []ChunkMetadata
	if err := json.Unmarshal(raw, &metadata); err != nil {
		return nil, fmt.Errorf("failed to parse metadata file %s: %w", metadataPath, err)
	}

	if len(metadata) != len(vectors) {
		return nil, fmt.Errorf("index/metadata mismatch: %d vectors, %d metadata records", len(vectors), len(metadata))
	}

	return &Store{
		dimension: dimension,
		vectors:   vectors,
		metadata:  metadata,
	}, nil
}

// NewStore builds an in-memory store directly from vectors and metadata.
// Used by tests and by the ingestion pipeline before persisting.
func NewStore(dimension int, vectors [][]float32, metadata []ChunkMetadata) (*Store, error) {
	if len(vectors) != len(metadata) {
		return nil, fmt.Errorf("index/metadata mismatch: %d vectors, %d metadata records", len(vectors), len(metadata))
	}
	for i, vector := range vectors {
		if len(vector) != dimension {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d", i, len(vector), dimension)
		}
	}

	return &Store{
		dimension: dimension,
		vectors:   vectors,
		metadata:  metadata,
	}, nil
}

func (s *Store) Len() int {
	return len(s.vectors)
}

func (s *Store) Dimension() int {
	return s.dimension
}

// Metadata returns the record aligned with index row i.
func (s *Store) Metadata(i int) ChunkMetadata {
	return s.metadata[i]
}

// Search returns exactly k slots ordered by ascending distance. When the
// index holds fewer than k vectors the tail slots carry Index == EmptySlot;
// callers are expected to skip those.
func (s *Store) Search(query []float32, k int) ([]Hit, error) {
	if k < 1 {
		return nil, fmt.Errorf("k must be at least 1, got %d", k)
	}
	if len(query) != s.dimension {
		return nil, fmt.Errorf("query has dimension %d, index expects %d", len(query), s.dimension)
	}

	hits := make([]Hit, 0, len(s.vectors))
	for i, vector := range s.vectors {
		hits = append(hits, Hit{Index: i, Distance: squaredL2(query, vector)})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Index < hits[j].Index
	})

	results := make([]Hit, k)
	for i := range results {
		if i < len(hits) {
			results[i] = hits[i]
		} else {
			results[i] = Hit{Index: EmptySlot}
		}
	}

	return results, nil
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

package retriever

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/atlasgrid/enterprise-rag/internal/vectorstore"
)

// Embedder turns text into a fixed-dimension vector.
type Embedder interface {
	GenerateEmbeddings(ctx context.Context, text string) ([]float32, error)
}

const (
	// confidenceDistanceCeiling is the squared L2 distance at which the
	// confidence heuristic reaches zero. The value is empirical, carried
	// over for compatibility; treat it as tunable, not principled.
	confidenceDistanceCeiling = 1.5

	snippetRunes = 300
)

// VectorResult is the rendered outcome of one vector retrieval.
type VectorResult struct {
	// Context is the evidence block fed into synthesis, one line per chunk.
	Context string
	// Sources is the deduplicated, sorted set of contributing filenames.
	Sources []string
	// Confidence is a derived quality signal in [0,100], one decimal.
	// It is an approximation from the best match distance, not a
	// calibrated probability.
	Confidence float64
}

// VectorRetriever fetches the k chunks closest to a query in embedding
// space. Pure read over immutable structures; embedding failures propagate.
type VectorRetriever struct {
	store    *vectorstore.Store
	embedder Embedder
}

func NewVectorRetriever(store *vectorstore.Store, embedder Embedder) *VectorRetriever {
	return &VectorRetriever{
		store:    store,
		embedder: embedder,
	}
}

func (r *VectorRetriever) Retrieve(ctx context.Context, query string, k int) (*VectorResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}
	if k < 1 {
		return nil, fmt.Errorf("k must be at least 1, got %d", k)
	}

	embedding, err := r.embedder.GenerateEmbeddings(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	hits, err := r.store.Search(embedding, k)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	var lines []string
	sourceSet := make(map[string]struct{})
	confidence := 0.0
	first := true

	for _, hit := range hits {
		if hit.Index == vectorstore.EmptySlot {
			continue
		}
		if first {
			confidence = confidenceFromDistance(hit.Distance)
			first = false
		}

		metadata := r.store.Metadata(hit.Index)
		filename := baseName(metadata.Source)
		sourceSet[filename] = struct{}{}

		lines = append(lines, fmt.Sprintf("[Source: %s] %s...", filename, snippet(metadata.Text)))
	}

	sources := make([]string, 0, len(sourceSet))
	for source := range sourceSet {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	return &VectorResult{
		Context:    strings.Join(lines, "\n"),
		Sources:    sources,
		Confidence: confidence,
	}, nil
}

// confidenceFromDistance maps the best-match squared L2 distance to a
// percentage: clamp(0, 100, (1.5 - d) * 100), rounded to one decimal.
// Monotonically decreasing, saturating at both bounds.
func confidenceFromDistance(distance float64) float64 {
	confidence := (confidenceDistanceCeiling - distance) * 100
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}
	return math.Round(confidence*10) / 10
}

// baseName strips any directory prefix from a recorded source path,
// regardless of which OS separator it was ingested with.
func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i != -1 {
		return path[i+1:]
	}
	return path
}

func snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= snippetRunes {
		return text
	}
	return string(runes[:snippetRunes])
}

package engine

import (
	"strings"

	"github.com/atlasgrid/enterprise-rag/internal/middleware"
)

type QueryRequest struct {
	Query string `json:"query" description:"The question to answer"`
	TopK  int    `json:"top_k,omitempty" description:"Number of chunks to retrieve (default: 3)"`
}

func (q *QueryRequest) Validate() error {
	if strings.TrimSpace(q.Query) == "" {
		return middleware.ErrEmptyQuery
	}
	if q.TopK < 0 || q.TopK > 50 {
		return middleware.ErrInvalidTopK
	}
	return nil
}

func (q *QueryRequest) SetDefaults(topK int) {
	if q.TopK == 0 {
		q.TopK = topK
	}
}

// Evidence is the per-source retrieval trace. It reveals degraded paths for
// debugging even though the answer itself never names a source.
type Evidence struct {
	Graph  string `json:"graph" description:"Rendered knowledge graph evidence"`
	Vector string `json:"vector" description:"Rendered document evidence"`
}

type Metrics struct {
	LatencySeconds    float64 `json:"latency_seconds" description:"Wall-clock request latency, 2 decimals"`
	ConfidencePercent float64 `json:"confidence_percent" description:"Retrieval confidence heuristic, 0-100"`
	ApproxTokenCount  int     `json:"approx_token_count" description:"Word-count based token estimate"`
}

// QueryResponse is constructed fresh per request and never cached.
type QueryResponse struct {
	Answer   string   `json:"answer" description:"Synthesized answer"`
	Evidence Evidence `json:"evidence" description:"Evidence trace per retrieval source"`
	Sources  []string `json:"sources" description:"Deduplicated document filenames behind the vector evidence"`
	Metrics  Metrics  `json:"metrics" description:"Observability metrics"`
}

type HealthResponse struct {
	Status         string `json:"status" description:"Service status"`
	Version        string `json:"version" description:"API version"`
	GraphAvailable bool   `json:"graph_available" description:"Whether the graph store initialized"`
}

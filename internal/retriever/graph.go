package retriever

import (
	"context"
	"fmt"
	"time"

	"github.com/atlasgrid/enterprise-rag/internal/graph"
	"github.com/rs/zerolog/log"
)

// GraphService translates a natural-language question into a structured
// query and executes it. The result is heterogeneous: a record list, a
// plain string, or nil.
type GraphService interface {
	Query(ctx context.Context, question string) (any, error)
}

// GraphRetriever normalizes graph evidence. A nil service means the graph
// never initialized: every call short-circuits to Unavailable without any
// I/O, for the lifetime of the process. Failures are absorbed into the
// Error variant so a broken graph degrades evidence, not availability.
type GraphRetriever struct {
	service GraphService
	timeout time.Duration
}

func NewGraphRetriever(service GraphService, timeout time.Duration) *GraphRetriever {
	return &GraphRetriever{
		service: service,
		timeout: timeout,
	}
}

// Available reports whether the underlying graph service initialized.
func (r *GraphRetriever) Available() bool {
	return r.service != nil
}

func (r *GraphRetriever) Retrieve(ctx context.Context, query string) graph.Answer {
	if r.service == nil {
		return graph.Unavailable()
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	raw, err := r.service.Query(ctx, query)
	if err != nil {
		log.Warn().Err(err).Msg("Graph retrieval failed, continuing with vector evidence only")
		return graph.Errored(err)
	}

	return normalizeGraphResult(raw)
}

func normalizeGraphResult(raw any) graph.Answer {
	switch result := raw.(type) {
	case nil:
		return graph.Empty()
	case []graph.Record:
		if len(result) == 0 {
			return graph.Empty()
		}
		// Flatten to values only: the generated query's column aliases
		// carry no meaning for the reader.
		var values []string
		for _, record := range result {
			for _, value := range record.Values {
				values = append(values, fmt.Sprintf("%v", value))
			}
		}
		return graph.Hit(values)
	case string:
		if result == "" {
			return graph.Empty()
		}
		return graph.Scalar(result)
	default:
		return graph.Scalar(fmt.Sprintf("%v", result))
	}
}

package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// Triple is one (subject, predicate, object) assertion from the offline
// extraction pipeline.
type Triple struct {
	Head     string `json:"head"`
	Relation string `json:"relation"`
	Tail     string `json:"tail"`
}

const mergeTripleCypher = `
MERGE (h:Entity {name: $head})
MERGE (t:Entity {name: $tail})
MERGE (h)-[:RELATION {type: $relation}]->(t)`

// ReadTriples loads a triples JSON file produced by the extraction pipeline.
func ReadTriples(path string) ([]Triple, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read triples file %s: %w", path, err)
	}

	var triples []Triple
	if err := json.Unmarshal(raw, &triples); err != nil {
		return nil, fmt.Errorf("failed to parse triples file %s: %w", path, err)
	}

	return triples, nil
}

// LoadTriples merges triples into the graph. Entities are deduplicated by
// name via MERGE. A failed triple is logged and skipped; the load continues.
// Returns the number of triples that made it in.
func (c *Client) LoadTriples(ctx context.Context, triples []Triple) int {
	loaded := 0

	for _, triple := range triples {
		_, err := c.Run(ctx, mergeTripleCypher, map[string]any{
			"head":     triple.Head,
			"tail":     triple.Tail,
			"relation": triple.Relation,
		})
		if err != nil {
			log.Error().
				Err(err).
				Str("head", triple.Head).
				Str("relation", triple.Relation).
				Str("tail", triple.Tail).
				Msg("Failed to insert triple")
			continue
		}
		loaded++
	}

	return loaded
}

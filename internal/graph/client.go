package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// Record is one row of a structured query result, keys in query order.
type Record struct {
	Keys   []string
	Values []any
}

// Client is the long-lived connection handle to the graph store. It is
// opened once at startup and used read-only afterwards.
type Client struct {
	driver neo4j.DriverWithContext
	schema string
}

// Connect opens the driver, verifies connectivity and introspects the
// schema so query translation has real labels and relationship types to
// work with.
func Connect(ctx context.Context, uri, username, password string) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to reach neo4j at %s: %w", uri, err)
	}

	client := &Client{driver: driver}
	if err := client.refreshSchema(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to introspect graph schema: %w", err)
	}

	log.Info().Str("uri", uri).Msg("Neo4j connected")

	return client, nil
}

// Schema returns the introspected schema description captured at connect time.
func (c *Client) Schema() string {
	return c.schema
}

func (c *Client) refreshSchema(ctx context.Context) error {
	labels, err := c.collectStrings(ctx, "CALL db.labels() YIELD label RETURN label")
	if err != nil {
		return err
	}
	relationshipTypes, err := c.collectStrings(ctx, "CALL db.relationshipTypes() YIELD relationshipType RETURN relationshipType")
	if err != nil {
		return err
	}
	propertyKeys, err := c.collectStrings(ctx, "CALL db.propertyKeys() YIELD propertyKey RETURN propertyKey")
	if err != nil {
		return err
	}

	c.schema = fmt.Sprintf("Node labels: %s\nRelationship types: %s\nProperty keys: %s",
		strings.Join(labels, ", "),
		strings.Join(relationshipTypes, ", "),
		strings.Join(propertyKeys, ", "))

	return nil
}

func (c *Client) collectStrings(ctx context.Context, cypher string) ([]string, error) {
	records, err := c.Run(ctx, cypher, nil)
	if err != nil {
		return nil, err
	}

	var values []string
	for _, record := range records {
		for _, value := range record.Values {
			if s, ok := value.(string); ok {
				values = append(values, s)
			}
		}
	}

	return values, nil
}

// Run executes a Cypher statement and returns all rows eagerly.
func (c *Client) Run(ctx context.Context, cypher string, params map[string]any) ([]Record, error) {
	result, err := neo4j.ExecuteQuery(ctx, c.driver, cypher, params, neo4j.EagerResultTransformer)
	if err != nil {
		return nil, fmt.Errorf("cypher execution failed: %w", err)
	}

	records := make([]Record, 0, len(result.Records))
	for _, record := range result.Records {
		records = append(records, Record{
			Keys:   record.Keys,
			Values: record.Values,
		})
	}

	return records, nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

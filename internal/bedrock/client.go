package bedrock

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// Client wraps the Bedrock runtime for a single model ID.
type Client struct {
	client  *bedrockruntime.Client
	modelID string
}

func NewClient(ctx context.Context, region, modelID string) (*Client, error) {
	if modelID == "" {
		return nil, fmt.Errorf("model ID must not be empty")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Client{
		client:  bedrockruntime.NewFromConfig(cfg),
		modelID: modelID,
	}, nil
}

func (c *Client) ModelID() string {
	return c.modelID
}

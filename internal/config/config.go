package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the runtime configuration for all binaries. Values come from
// the environment, with defaults matching the local docker-compose setup.
type Config struct {
	// AWS / Bedrock
	AWSRegion        string
	ClaudeModelID    string
	EmbeddingModelID string
	EmbeddingDim     int

	// Vector index files
	VectorIndexPath    string
	VectorMetadataPath string

	// Neo4j
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	// Postgres (ingestion archive + SQL data sources)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Serving
	APIPort       string
	TopK          int
	PDFDir        string
	GraphTimeout  time.Duration
	AnswerTimeout time.Duration
}

func Load() Config {
	return Config{
		AWSRegion:        getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID:    getEnv("CLAUDE_MODEL_ID", "anthropic.claude-3-5-sonnet-20240620-v1:0"),
		EmbeddingModelID: getEnv("EMBEDDING_MODEL_ID", "amazon.titan-embed-text-v2:0"),
		EmbeddingDim:     getEnvInt("EMBEDDING_DIMENSION", 384),

		VectorIndexPath:    getEnv("VECTOR_INDEX_PATH", "vector_store.idx"),
		VectorMetadataPath: getEnv("VECTOR_METADATA_PATH", "vector_metadata.json"),

		Neo4jURI:      getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:     getEnv("NEO4J_USERNAME", "neo4j"),
		Neo4jPassword: os.Getenv("NEO4J_PASSWORD"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "enterprise_rag"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		APIPort:       getEnv("API_PORT", "8080"),
		TopK:          getEnvInt("RETRIEVAL_TOP_K", 3),
		PDFDir:        getEnv("PDF_DIR", "data/pdf"),
		GraphTimeout:  getEnvDuration("GRAPH_QUERY_TIMEOUT", 15*time.Second),
		AnswerTimeout: getEnvDuration("ANSWER_TIMEOUT", 60*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/atlasgrid/enterprise-rag/internal/bedrock"
	"github.com/atlasgrid/enterprise-rag/internal/config"
	"github.com/atlasgrid/enterprise-rag/internal/embedding"
	"github.com/atlasgrid/enterprise-rag/internal/engine"
	"github.com/atlasgrid/enterprise-rag/internal/graph"
	"github.com/atlasgrid/enterprise-rag/internal/retriever"
	"github.com/atlasgrid/enterprise-rag/internal/vectorstore"
)

func main() {
	query := flag.String("query", "", "The question to answer")
	topK := flag.Int("top-k", 0, "Number of chunks to retrieve (default from config)")
	stdin := flag.Bool("stdin", false, "Read question from stdin")

	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	var finalQuery string
	if *stdin {
		bytes, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatal("Failed to read from stdin:", err)
		}
		finalQuery = string(bytes)
	} else if *query != "" {
		finalQuery = *query
	} else {
		log.Fatal("Please provide a question using -query or -stdin")
	}

	cfg := config.Load()
	ctx := context.Background()

	store, err := vectorstore.Load(cfg.VectorIndexPath, cfg.VectorMetadataPath)
	if err != nil {
		log.Fatalf("Unable to load vector index: %v", err)
	}

	embedder, err := embedding.NewBedrockEmbedder(ctx, cfg.AWSRegion, cfg.EmbeddingModelID, cfg.EmbeddingDim)
	if err != nil {
		log.Fatalf("Unable to initialize embedder: %v", err)
	}

	llm, err := bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
	if err != nil {
		log.Fatalf("Unable to initialize Bedrock client: %v", err)
	}

	var graphService retriever.GraphService
	graphClient, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
	if err != nil {
		log.Printf("Neo4j unavailable, answering from documents only: %v", err)
	} else {
		defer graphClient.Close(ctx)
		graphService = graph.NewCypherQA(llm, graphClient)
	}

	vectorRetriever := retriever.NewVectorRetriever(store, embedder)
	graphRetriever := retriever.NewGraphRetriever(graphService, cfg.GraphTimeout)
	service := engine.NewService(llm, vectorRetriever, graphRetriever, cfg.TopK, cfg.AnswerTimeout)

	k := *topK
	if k == 0 {
		k = cfg.TopK
	}

	response, err := service.Ask(ctx, finalQuery, k)
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}

	pretty, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		log.Fatalf("Failed to render response: %v", err)
	}

	fmt.Println(string(pretty))
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/atlasgrid/enterprise-rag/internal/bedrock"
	"github.com/atlasgrid/enterprise-rag/internal/config"
	"github.com/atlasgrid/enterprise-rag/internal/embedding"
	"github.com/atlasgrid/enterprise-rag/internal/engine"
	"github.com/atlasgrid/enterprise-rag/internal/graph"
	"github.com/atlasgrid/enterprise-rag/internal/middleware"
	"github.com/atlasgrid/enterprise-rag/internal/retriever"
	"github.com/atlasgrid/enterprise-rag/internal/vectorstore"
)

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "Enterprise RAG API",
			Description: "Hybrid document and knowledge graph question answering",
			Version:     "1.0.0",
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "health", Description: "Health checks"}},
		{TagProps: spec.TagProps{Name: "chat", Description: "Question answering"}},
	}
}

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	log.Info().Msg("Starting Enterprise RAG API Server")

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	cfg := config.Load()
	ctx := context.Background()

	// Vector index: missing files are fatal, the service must not start
	// without its core evidence source.
	store, err := vectorstore.Load(cfg.VectorIndexPath, cfg.VectorMetadataPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to load vector index")
	}
	log.Info().
		Int("chunks", store.Len()).
		Int("dimension", store.Dimension()).
		Msg("Vector index loaded")

	embedder, err := embedding.NewBedrockEmbedder(ctx, cfg.AWSRegion, cfg.EmbeddingModelID, cfg.EmbeddingDim)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to initialize embedder")
	}

	llm, err := bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to initialize Bedrock client")
	}
	log.Info().
		Str("region", cfg.AWSRegion).
		Str("model", cfg.ClaudeModelID).
		Msg("Bedrock client initialized")

	// Graph store: unreachable is degraded, not fatal. The retriever
	// short-circuits to the unavailability sentinel for the process
	// lifetime and answers run on document evidence alone.
	var graphService retriever.GraphService
	graphClient, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
	if err != nil {
		log.Error().Err(err).Msg("Neo4j unavailable, continuing with vector retrieval only")
	} else {
		defer graphClient.Close(ctx)
		graphService = graph.NewCypherQA(llm, graphClient)
	}

	vectorRetriever := retriever.NewVectorRetriever(store, embedder)
	graphRetriever := retriever.NewGraphRetriever(graphService, cfg.GraphTimeout)

	service := engine.NewService(llm, vectorRetriever, graphRetriever, cfg.TopK, cfg.AnswerTimeout)
	handler := engine.NewHandler(service, graphRetriever.Available())

	container := restful.NewContainer()
	container.Filter(middleware.Logger)
	container.Filter(middleware.RecoverPanic)

	engine.RegisterRoutes(container, handler)

	openAPIConfig := restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       "/api/v1/openapi.json",
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}
	container.Add(restfulspec.NewOpenAPIService(openAPIConfig))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	// Serve the ingested PDFs so the UI can link evidence back to the file.
	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.PDFDir))))
	mux.Handle("/", corsHandler.Handler(container))

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info().Str("address", addr).Msg("Starting server")

	server := http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}

package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/atlasgrid/enterprise-rag/internal/config"
	"github.com/atlasgrid/enterprise-rag/internal/graph"
)

func main() {
	triplesPath := flag.String("triples", "triples.json", "Path to the extracted triples JSON file")

	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	cfg := config.Load()
	ctx := context.Background()

	triples, err := graph.ReadTriples(*triplesPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to read triples")
	}
	log.Info().Int("count", len(triples)).Str("file", *triplesPath).Msg("Triples loaded")

	client, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to connect to Neo4j")
	}
	defer client.Close(ctx)

	loaded := client.LoadTriples(ctx, triples)

	log.Info().
		Int("loaded", loaded).
		Int("failed", len(triples)-loaded).
		Msg("Graph load complete")
}

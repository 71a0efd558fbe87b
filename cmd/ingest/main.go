package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/atlasgrid/enterprise-rag/internal/config"
	"github.com/atlasgrid/enterprise-rag/internal/database"
	"github.com/atlasgrid/enterprise-rag/internal/embedding"
	"github.com/atlasgrid/enterprise-rag/internal/ingestion"
)

func main() {
	pdfDir := flag.String("pdf-dir", "", "Directory of PDF reports to ingest")
	emailDir := flag.String("email-dir", "", "Directory of email .txt files to ingest")
	fromDB := flag.Bool("from-db", false, "Ingest the SQL business tables (employees, products)")
	skipArchive := flag.Bool("skip-archive", false, "Skip the Postgres chunk archive, only write the index files")
	list := flag.Bool("list", false, "List archived documents and exit")
	deleteID := flag.String("delete", "", "Delete an archived document by id and exit")

	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	cfg := config.Load()
	ctx := context.Background()

	var db *database.DB
	needsDB := *fromDB || !*skipArchive || *list || *deleteID != ""
	if needsDB {
		var err error
		db, err = database.New(ctx, database.Config{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			Database: cfg.DBName,
			SSLMode:  cfg.DBSSLMode,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Unable to connect to Postgres")
		}
		defer db.Close()

		if err := db.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("Postgres not reachable")
		}
	}

	if *deleteID != "" {
		if err := db.DeleteDocument(ctx, *deleteID); err != nil {
			log.Fatal().Err(err).Msg("Unable to delete document")
		}
		return
	}

	if *list {
		docs, err := db.GetAllDocs(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Unable to list documents")
		}
		for _, doc := range docs {
			fmt.Printf("%s  %s  (%s)\n", doc.ID, doc.Title, doc.Source)
		}
		return
	}

	var docs []ingestion.RawDocument

	if *pdfDir != "" {
		pdfDocs, err := ingestion.ReadPDFDir(*pdfDir)
		if err != nil {
			log.Fatal().Err(err).Msg("PDF ingestion failed")
		}
		docs = append(docs, pdfDocs...)
	}

	if *emailDir != "" {
		emailDocs, err := ingestion.ReadEmailDir(*emailDir)
		if err != nil {
			log.Fatal().Err(err).Msg("Email ingestion failed")
		}
		docs = append(docs, emailDocs...)
	}

	if *fromDB {
		reader := ingestion.NewSQLReader(db.Pool)
		docs = append(docs, reader.ReadAll(ctx)...)
	}

	if len(docs) == 0 {
		log.Fatal().Msg("Nothing to ingest: provide -pdf-dir, -email-dir or -from-db")
	}

	embedder, err := embedding.NewBedrockEmbedder(ctx, cfg.AWSRegion, cfg.EmbeddingModelID, cfg.EmbeddingDim)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to initialize embedder")
	}

	archive := db
	if *skipArchive {
		archive = nil
	}
	if archive != nil {
		if err := archive.EnsureSchema(ctx, cfg.EmbeddingDim); err != nil {
			log.Fatal().Err(err).Msg("Unable to ensure archive schema")
		}
	}

	chunker := ingestion.NewChunker(ingestion.DefaultChunkSize, ingestion.DefaultChunkOverlap)
	pipeline := ingestion.NewPipeline(chunker, embedder, archive)

	if err := pipeline.Run(ctx, docs, cfg.VectorIndexPath, cfg.VectorMetadataPath); err != nil {
		log.Fatal().Err(err).Msg("Ingestion failed")
	}
}

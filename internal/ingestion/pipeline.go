package ingestion

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/atlasgrid/enterprise-rag/internal/database"
	"github.com/atlasgrid/enterprise-rag/internal/vectorstore"
)

// BatchEmbedder embeds a batch of texts, preserving order.
type BatchEmbedder interface {
	GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// Pipeline chunks and embeds raw documents, archives them in Postgres and
// exports the serving index. The index and metadata files are regenerated
// together; the serving engine never sees one without the other.
type Pipeline struct {
	chunker  *Chunker
	embedder BatchEmbedder
	db       *database.DB
}

func NewPipeline(chunker *Chunker, embedder BatchEmbedder, db *database.DB) *Pipeline {
	return &Pipeline{
		chunker:  chunker,
		embedder: embedder,
		db:       db,
	}
}

// Run processes all documents and writes the index files. The Postgres
// archive is optional: with a nil DB only the index export happens.
func (p *Pipeline) Run(ctx context.Context, docs []RawDocument, indexPath, metadataPath string) error {
	if len(docs) == 0 {
		return fmt.Errorf("no documents to ingest")
	}

	var allVectors [][]float32
	var allMetadata []vectorstore.ChunkMetadata

	for _, doc := range docs {
		vectors, metadata, err := p.processDocument(ctx, doc)
		if err != nil {
			return fmt.Errorf("failed to ingest %q: %w", doc.Title, err)
		}
		allVectors = append(allVectors, vectors...)
		allMetadata = append(allMetadata, metadata...)
	}

	if err := vectorstore.Save(indexPath, metadataPath, allVectors, allMetadata); err != nil {
		return err
	}

	log.Info().
		Int("documents", len(docs)).
		Int("chunks", len(allVectors)).
		Str("index", indexPath).
		Msg("Ingestion complete")

	return nil
}

func (p *Pipeline) processDocument(ctx context.Context, doc RawDocument) ([][]float32, []vectorstore.ChunkMetadata, error) {
	chunks := p.chunker.ChunkText(doc.Content)
	if len(chunks) == 0 {
		return nil, nil, fmt.Errorf("document produced no chunks")
	}

	contents := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		contents = append(contents, chunk.Content)
	}

	embeddings, err := p.embedder.GenerateBatchEmbeddings(ctx, contents)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}

	docID := uuid.New().String()

	if p.db != nil {
		dbChunks := make([]database.Chunk, 0, len(chunks))
		for _, chunk := range chunks {
			dbChunks = append(dbChunks, database.Chunk{
				ID:         uuid.New().String(),
				DocumentID: docID,
				Index:      chunk.Index,
				Content:    chunk.Content,
				Source:     doc.Source,
			})
		}

		if err := p.db.InsertDocumentWithChunks(ctx, database.Document{
			ID:     docID,
			Title:  doc.Title,
			Source: doc.Source,
		}, dbChunks, embeddings); err != nil {
			return nil, nil, err
		}
	}

	metadata := make([]vectorstore.ChunkMetadata, 0, len(chunks))
	for _, chunk := range chunks {
		metadata = append(metadata, vectorstore.ChunkMetadata{
			Text:       chunk.Content,
			Source:     doc.Source,
			OriginalID: docID,
		})
	}

	log.Info().Str("doc", doc.Title).Int("chunks", len(chunks)).Msg("Document processed")

	return embeddings, metadata, nil
}

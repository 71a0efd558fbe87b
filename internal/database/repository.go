package database

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog/log"
)

// EnsureSchema creates the archive tables used by the ingestion pipeline.
func (db *DB) EnsureSchema(ctx context.Context, embeddingDim int) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS documents (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			source TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS document_chunks (
			id UUID PRIMARY KEY,
			document_id UUID NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			chunk_index INT NOT NULL,
			content TEXT NOT NULL,
			source TEXT NOT NULL,
			embedding vector(%d) NOT NULL
		)`, embeddingDim),
	}

	for _, statement := range statements {
		if _, err := db.Pool.Exec(ctx, statement); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}

	return nil
}

// InsertDocumentWithChunks stores a document and its embedded chunks in one
// transaction, so the archive never holds a document with partial chunks.
func (db *DB) InsertDocumentWithChunks(ctx context.Context, doc Document, chunks []Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("chunk/embedding mismatch: %d chunks, %d embeddings", len(chunks), len(embeddings))
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO documents (id, title, source) VALUES ($1, $2, $3)`,
		doc.ID, doc.Title, doc.Source)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	for i, chunk := range chunks {
		_, err = tx.Exec(ctx,
			`INSERT INTO document_chunks (id, document_id, chunk_index, content, source, embedding)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			chunk.ID, doc.ID, chunk.Index, chunk.Content, chunk.Source, pgvector.NewVector(embeddings[i]))
		if err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}

	return tx.Commit(ctx)
}

func (db *DB) GetAllDocs(ctx context.Context) ([]Document, error) {
	rows, err := db.Pool.Query(ctx, `SELECT id, title, source FROM documents ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch documents: %w", err)
	}
	defer rows.Close()

	var documents []Document
	for rows.Next() {
		var document Document
		if err := rows.Scan(&document.ID, &document.Title, &document.Source); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		documents = append(documents, document)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return documents, nil
}

func (db *DB) DeleteDocument(ctx context.Context, docID string) error {
	result, err := db.Pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, docID)
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", docID, err)
	}

	if result.RowsAffected() == 0 {
		log.Warn().Str("doc_id", docID).Msg("Document not found")
	} else {
		log.Info().Str("doc_id", docID).Msg("Document deleted")
	}

	return nil
}

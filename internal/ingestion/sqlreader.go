package ingestion

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// SQLReader renders rows of the business tables as natural-language
// documents, so structured records become searchable alongside PDFs and
// emails.
type SQLReader struct {
	pool *pgxpool.Pool
}

func NewSQLReader(pool *pgxpool.Pool) *SQLReader {
	return &SQLReader{pool: pool}
}

// ReadAll loads every supported table. A table that fails (for example,
// missing in this deployment) is logged and skipped.
func (r *SQLReader) ReadAll(ctx context.Context) []RawDocument {
	var docs []RawDocument

	employees, err := r.ReadEmployees(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load employees table, skipping")
	} else {
		docs = append(docs, employees...)
	}

	products, err := r.ReadProducts(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load products table, skipping")
	} else {
		docs = append(docs, products...)
	}

	return docs
}

func (r *SQLReader) ReadEmployees(ctx context.Context) ([]RawDocument, error) {
	rows, err := r.pool.Query(ctx, `SELECT name, designation, department, email FROM employees`)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var docs []RawDocument
	for rows.Next() {
		var name, designation, department, email string
		if err := rows.Scan(&name, &designation, &department, &email); err != nil {
			return nil, fmt.Errorf("failed to scan employee row: %w", err)
		}

		docs = append(docs, RawDocument{
			Title: fmt.Sprintf("Employee: %s", name),
			Content: fmt.Sprintf("Employee Profile: %s works as a %s in the %s department. Email: %s.",
				name, designation, department, email),
			Source: "db",
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	log.Info().Int("count", len(docs)).Msg("Loaded employees")

	return docs, nil
}

func (r *SQLReader) ReadProducts(ctx context.Context) ([]RawDocument, error) {
	rows, err := r.pool.Query(ctx, `SELECT name, description, revenue FROM products`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var docs []RawDocument
	for rows.Next() {
		var name, description string
		var revenue float64
		if err := rows.Scan(&name, &description, &revenue); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}

		docs = append(docs, RawDocument{
			Title: fmt.Sprintf("Product: %s", name),
			Content: fmt.Sprintf("Product Info: The %s is a product described as: %s. It generates a revenue of %.2f.",
				name, description, revenue),
			Source: "db",
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	log.Info().Int("count", len(docs)).Msg("Loaded products")

	return docs, nil
}

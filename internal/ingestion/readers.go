package ingestion

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

// RawDocument is one ingested source before chunking. Source is the path or
// logical origin recorded into chunk provenance.
type RawDocument struct {
	Title   string
	Content string
	Source  string
}

// ReadPDFDir extracts text from every .pdf in a directory. A file that
// fails to parse is logged and skipped; the rest of the batch proceeds.
func ReadPDFDir(dir string) ([]RawDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF directory %s: %w", dir, err)
	}

	var docs []RawDocument
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".pdf") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		text, err := extractPDFText(path)
		if err != nil {
			log.Error().Err(err).Str("file", entry.Name()).Msg("Failed to extract PDF text, skipping")
			continue
		}
		if text == "" {
			log.Warn().Str("file", entry.Name()).Msg("No text extracted from PDF, skipping")
			continue
		}

		docs = append(docs, RawDocument{
			Title:   strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			Content: text,
			Source:  path,
		})
		log.Info().Str("file", entry.Name()).Msg("Loaded PDF")
	}

	return docs, nil
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("failed to read pdf buffer: %w", err)
	}

	return buf.String(), nil
}

// ReadEmailDir loads every .txt email in a directory. Content is prefixed
// with an email marker so the answer model can tell informal mail from a
// formal report.
func ReadEmailDir(dir string) ([]RawDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read email directory %s: %w", dir, err)
	}

	var docs []RawDocument
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Error().Err(err).Str("file", entry.Name()).Msg("Failed to read email, skipping")
			continue
		}

		docs = append(docs, RawDocument{
			Title:   strings.TrimSuffix(entry.Name(), ".txt"),
			Content: fmt.Sprintf("SOURCE: EMAIL (%s)\n%s", entry.Name(), string(raw)),
			Source:  path,
		})
	}

	log.Info().Int("count", len(docs)).Str("dir", dir).Msg("Loaded emails")

	return docs, nil
}

package vectorstore

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// On-disk index layout, little endian:
//
//	magic    [4]byte "VIDX"
//	version  uint32
//	dim      uint32
//	count    uint32
//	vectors  count*dim float32
var indexMagic = [4]byte{'V', 'I', 'D', 'X'}

const indexVersion = 1

// Save writes the index and metadata files as a pair. Both are written to
// temp files first and renamed into place, so a crashed export never leaves
// a half-written index next to stale metadata.
func Save(indexPath, metadataPath string, vectors [][]float32, metadata []ChunkMetadata) error {
	if len(vectors) != len(metadata) {
		return fmt.Errorf("refusing to save mismatched index: %d vectors, %d metadata records", len(vectors), len(metadata))
	}
	if len(vectors) == 0 {
		return fmt.Errorf("refusing to save an empty index")
	}

	dimension := len(vectors[0])
	for i, vector := range vectors {
		if len(vector) != dimension {
			return fmt.Errorf("vector %d has dimension %d, want %d", i, len(vector), dimension)
		}
	}

	if err := writeAtomically(indexPath, func(w io.Writer) error {
		return writeIndex(w, dimension, vectors)
	}); err != nil {
		return fmt.Errorf("failed to write vector index %s: %w", indexPath, err)
	}

	if err := writeAtomically(metadataPath, func(w io.Writer) error {
		encoder := json.NewEncoder(w)
		return encoder.Encode(metadata)
	}); err != nil {
		return fmt.Errorf("failed to write metadata %s: %w", metadataPath, err)
	}

	return nil
}

func writeIndex(w io.Writer, dimension int, vectors [][]float32) error {
	buffered := bufio.NewWriter(w)

	if _, err := buffered.Write(indexMagic[:]); err != nil {
		return err
	}
	header := []uint32{indexVersion, uint32(dimension), uint32(len(vectors))}
	for _, value := range header {
		if err := binary.Write(buffered, binary.LittleEndian, value); err != nil {
			return err
		}
	}
	for _, vector := range vectors {
		if err := binary.Write(buffered, binary.LittleEndian, vector); err != nil {
			return err
		}
	}

	return buffered.Flush()
}

func readIndexFile(path string) (int, [][]float32, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, nil, err
	}

	r := bytes.NewReader(raw)

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return 0, nil, fmt.Errorf("truncated header: %w", err)
	}
	if magic != indexMagic {
		return 0, nil, fmt.Errorf("not a vector index file (bad magic %q)", magic)
	}

	var version, dimension, count uint32
	for _, target := range []*uint32{&version, &dimension, &count} {
		if err := binary.Read(r, binary.LittleEndian, target); err != nil {
			return 0, nil, fmt.Errorf("truncated header: %w", err)
		}
	}
	if version != indexVersion {
		return 0, nil, fmt.Errorf("unsupported index version %d", version)
	}
	if dimension == 0 {
		return 0, nil, fmt.Errorf("index declares zero dimension")
	}

	vectors := make([][]float32, 0, count)
	for i := uint32(0); i < count; i++ {
		vector := make([]float32, dimension)
		if err := binary.Read(r, binary.LittleEndian, vector); err != nil {
			return 0, nil, fmt.Errorf("truncated vector %d: %w", i, err)
		}
		vectors = append(vectors, vector)
	}

	if r.Len() != 0 {
		return 0, nil, fmt.Errorf("%d trailing bytes after %d vectors", r.Len(), count)
	}

	return int(dimension), vectors, nil
}

func writeAtomically(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".vectorstore-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

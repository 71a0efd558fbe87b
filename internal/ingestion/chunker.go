package ingestion

const (
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 100
)

type Chunker struct {
	ChunkSize    int
	ChunkOverlap int
}

type Chunk struct {
	Index   int
	Start   int
	End     int
	Content string
}

func NewChunker(chunkSize, overlap int) *Chunker {
	return &Chunker{
		ChunkSize:    chunkSize,
		ChunkOverlap: overlap,
	}
}

// ChunkText splits text into fixed-size chunks with overlap. Invalid
// size/overlap combinations yield no chunks.
func (c *Chunker) ChunkText(text string) []Chunk {
	if c.ChunkSize <= 0 || c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return []Chunk{}
	}

	results := []Chunk{}
	n := len(text)
	i := 0
	chunkIndex := 0

	for i < n {
		end := i + c.ChunkSize
		if end > n {
			end = n
		}

		results = append(results, Chunk{
			Index:   chunkIndex,
			Start:   i,
			End:     end,
			Content: text[i:end],
		})

		i = i + c.ChunkSize - c.ChunkOverlap
		chunkIndex++
	}

	return results
}

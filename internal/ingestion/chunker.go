package ingestion

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

// ChunkText splits text into windows of ChunkSize characters, each starting
// ChunkSize-ChunkOverlap characters after the previous one. Start and End are
// character offsets.
func (c *Chunker) ChunkText(text string) []Chunk {
	if c.ChunkSize <= 0 || c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return []Chunk{}
	}

	runes := []rune(text)
	n := len(runes)
	results := []Chunk{}
	chunkIndex := 0

	for i := 0; i < n; i += c.ChunkSize - c.ChunkOverlap {
		end := min(i+c.ChunkSize, n)
		results = append(results, Chunk{
			Index:   chunkIndex,
			Content: string(runes[i:end]),
			Start:   i,
			End:     end,
		})
		chunkIndex++

		if end == n {
			break
		}
	}

	return results
}
